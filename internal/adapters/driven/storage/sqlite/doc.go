// Package sqlite persists vector indexes as SQLite databases.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Layout
//
// An index lives in a directory (faiss_index by default) holding a single database,
// index.db, with two tables:
//
//   - index_meta: key/value pairs describing the index (dimensions, embedding model,
//     chunk count, chunk size, overlap, build time)
//   - chunks: one row per chunk in insertion order, with the embedding stored as a
//     little-endian float32 blob
//
// The schema is managed through versioned migrations stored in the migrations/
// directory.
//
// # Replacement
//
// Every save writes a complete database into a fresh sibling directory and swaps it
// into place with renames, so readers see either the previous index or the new one.
// The directory is not locked across processes.
package sqlite

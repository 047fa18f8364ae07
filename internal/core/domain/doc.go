// Package domain defines the core entities of the PDF question-answering pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Bytes of an uploaded PDF
//   - Document: Text extracted from one PDF
//   - Chunk: A unit of embedding and retrieval
//   - SearchResult: A retrieved chunk with its distance and rank
//   - SessionState: Empty or Ready with an index
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

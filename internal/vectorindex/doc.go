// Package vectorindex provides an exact nearest-neighbour index over chunk embeddings.
// It implements the driven.VectorIndex interface.
//
// The index is flat: a search compares the query against every stored vector using
// squared euclidean distance, the metric of a FAISS IndexFlatL2. An index is built once
// from a complete set of chunks and never modified, so concurrent searches need no locking.
package vectorindex

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file that is not a PDF.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline Errors.

	// ErrNoDocuments indicates a process action was requested without any documents.
	ErrNoDocuments = errors.New("please upload at least one PDF document")

	// ErrNoText indicates the documents produced no extractable text, so there is nothing to index.
	ErrNoText = errors.New("no extractable text found in the documents")

	// ErrNotReady indicates a question was asked before any documents were processed.
	ErrNotReady = errors.New("no documents processed yet")

	// ErrBuildInProgress indicates an index build is already running.
	ErrBuildInProgress = errors.New("index build in progress")

	// ErrDimensionMismatch indicates vectors of differing length were mixed in one index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Model Errors.

	// ErrEmbeddingUnavailable indicates the embedding model cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the language model cannot be reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

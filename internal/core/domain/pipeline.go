package domain

import "time"

// Chunk size bounds accepted from users.
const (
	MinChunkSize     = 100
	MaxChunkSize     = 500
	DefaultChunkSize = 300
	ChunkSizeStep    = 50
)

// Processing stages reported through ProgressFunc.
const (
	StageExtract = "extract"
	StageChunk   = "chunk"
	StageEmbed   = "embed"
	StageIndex   = "index"
)

// ProgressFunc receives progress updates during a process action.
// done and total count items within the current stage.
type ProgressFunc func(stage string, done, total int)

// ProcessOptions configures a process action.
type ProcessOptions struct {
	// ChunkSize is the target chunk size in characters. Zero selects the configured default.
	ChunkSize int

	// Progress is called as work completes. Optional.
	Progress ProgressFunc
}

// ProcessReport summarises a completed process action.
type ProcessReport struct {
	// Documents is the number of documents read.
	Documents int `json:"documents"`

	// Pages is the total number of pages across all documents.
	Pages int `json:"pages"`

	// EmptyPages is the number of pages that yielded no text.
	EmptyPages int `json:"empty_pages"`

	// Characters is the length of the concatenated corpus text.
	Characters int `json:"characters"`

	// Chunks is the number of chunks produced and indexed.
	Chunks int `json:"chunks"`

	// Index describes the index that was built.
	Index IndexInfo `json:"index"`

	// Elapsed is the wall time of the whole action.
	Elapsed time.Duration `json:"elapsed"`
}

// Answer is the result of asking a question.
type Answer struct {
	// Question is the question as asked.
	Question string `json:"question"`

	// Text is the model's raw response, unmodified.
	Text string `json:"answer"`

	// Context is the retrieved chunks the answer was generated from, in rank order.
	Context []SearchResult `json:"context"`

	// Prompt is the exact prompt sent to the model.
	Prompt string `json:"-"`

	// Model is the name of the model that produced the answer.
	Model string `json:"model"`
}

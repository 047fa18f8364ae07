package domain

import "time"

// Document is the text extracted from one uploaded PDF.
// Documents exist only while a corpus is being built; chunks do not refer back to them.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the concatenated text of every page, in page order.
	Content string

	// Metadata contains arbitrary key-value pairs (page counts, MIME type).
	Metadata map[string]any

	// CreatedAt is when the document was extracted.
	CreatedAt time.Time
}

// Chunk is a contiguous substring of the corpus, the unit of embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the corpus.
	Position int

	// Embedding is the vector representation of Content.
	Embedding []float32
}

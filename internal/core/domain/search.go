package domain

// DefaultTopK is the number of chunks retrieved to answer a question.
const DefaultTopK = 2

// SearchResult is a single retrieved chunk.
type SearchResult struct {
	// ChunkText is the text of the matched chunk.
	ChunkText string `json:"chunk_text"`

	// Distance is the squared euclidean distance to the query vector.
	// Lower is closer.
	Distance float64 `json:"distance"`

	// Rank is the 1-based position in the result list.
	Rank int `json:"rank"`
}

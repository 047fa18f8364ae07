package domain

import "time"

// SessionStatus is the lifecycle phase of a question-answering session.
type SessionStatus int

const (
	// SessionEmpty means no index has been built; questions cannot be asked.
	SessionEmpty SessionStatus = iota

	// SessionBuilding means a process action is running.
	SessionBuilding

	// SessionReady means an index is available for questions.
	SessionReady
)

// String returns the string representation.
func (s SessionStatus) String() string {
	switch s {
	case SessionEmpty:
		return "empty"
	case SessionBuilding:
		return "building"
	case SessionReady:
		return "ready"
	default:
		return unknownDescription
	}
}

// IndexInfo describes a built vector index.
type IndexInfo struct {
	// Path is the directory the index is persisted to.
	Path string `json:"path"`

	// Chunks is the number of indexed chunks (equal to the number of vectors).
	Chunks int `json:"chunks"`

	// Dimensions is the length of every vector in the index.
	Dimensions int `json:"dimensions"`

	// EmbeddingModel is the model the vectors were produced with.
	EmbeddingModel string `json:"embedding_model"`

	// ChunkSize is the target chunk size used for the build.
	ChunkSize int `json:"chunk_size"`

	// Overlap is the chunk overlap used for the build.
	Overlap int `json:"overlap"`

	// BuiltAt is when the index was built.
	BuiltAt time.Time `json:"built_at"`
}

// SessionState is a snapshot of a session.
// Index is set exactly when an index is held, so a ready session without an
// index cannot be represented.
type SessionState struct {
	// Status is the lifecycle phase.
	Status SessionStatus `json:"status"`

	// Index describes the held index. Nil when Empty, and while building
	// the first index.
	Index *IndexInfo `json:"index,omitempty"`
}

// EmptySession returns the state of a session with no index.
func EmptySession() SessionState {
	return SessionState{Status: SessionEmpty}
}

// ReadySession returns the state of a session holding the described index.
func ReadySession(info IndexInfo) SessionState {
	return SessionState{Status: SessionReady, Index: &info}
}

// IsReady returns true if questions can be answered.
func (s SessionState) IsReady() bool {
	return s.Index != nil && s.Status != SessionEmpty
}

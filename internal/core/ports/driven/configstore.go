package driven

// ConfigStore holds the persisted pdfchat settings as dotted keys
// ("llm.model", "chunking.size").
type ConfigStore interface {
	// Get returns the stored value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" for a missing or non-string value.
	GetString(key string) string

	// GetInt returns 0 for a missing or non-integer value.
	GetInt(key string) int

	// Set stores a value and persists it before returning.
	Set(key string, value any) error
}

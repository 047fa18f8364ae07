package domain

// RawDocument represents the bytes of an uploaded file before extraction.
type RawDocument struct {
	// URI is the original location (file path).
	URI string

	// MIMEType is the content type, if already known (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-supplied key-value pairs.
	Metadata map[string]any
}

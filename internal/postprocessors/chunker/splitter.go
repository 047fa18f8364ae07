package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DefaultSeparators are the split boundaries in order of preference:
// paragraph, line, sentence, word, then any character.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter recursively splits text on a ranked list of separators and merges the
// pieces into chunks of at most size characters, overlapping by about overlap characters.
// Lengths are counted in runes.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter using DefaultSeparators.
// size must be positive and overlap must satisfy 0 <= overlap < size.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidInput, overlap, size)
	}
	return &Splitter{
		size:       size,
		overlap:    overlap,
		separators: DefaultSeparators,
	}, nil
}

// Size returns the maximum chunk length.
func (s *Splitter) Size() int {
	return s.size
}

// Overlap returns the target overlap between consecutive chunks.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split returns the chunks of text in order. Empty or whitespace-only text yields no chunks.
func (s *Splitter) Split(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	// Use the first separator present in the text; "" always matches.
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var chunks, small []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < s.size {
			small = append(small, piece)
			continue
		}

		if len(small) > 0 {
			chunks = append(chunks, s.merge(small)...)
			small = nil
		}

		if len(finer) == 0 {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			continue
		}
		chunks = append(chunks, s.split(piece, finer)...)
	}

	if len(small) > 0 {
		chunks = append(chunks, s.merge(small)...)
	}
	return chunks
}

// merge packs consecutive pieces into chunks of at most size runes. After each chunk
// is emitted, pieces are dropped from the front of the window until at most overlap
// runes remain and the next piece fits.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.size && len(window) > 0 {
			if chunk := joinTrimmed(window); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+n > s.size && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += n
	}

	if chunk := joinTrimmed(window); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepSeparator splits text on sep, attaching each separator to the start of the
// piece that follows it. An empty sep splits into runes. Empty pieces are dropped.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

func joinTrimmed(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

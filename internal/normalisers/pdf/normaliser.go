// Package pdf extracts the plain text of PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// MIMEType is the content type handled by this normaliser.
const MIMEType = "application/pdf"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts text from PDF documents page by page.
// Pages without a text layer contribute nothing; there is no OCR.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Normalise extracts the text of every page, in page order, with no separator
// between pages.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	detected := mimetype.Detect(raw.Content)
	if !detected.Is(MIMEType) {
		return nil, fmt.Errorf("%w: %s is %s, not a PDF", domain.ErrUnsupportedType, displayName(raw.URI), detected.String())
	}

	reader, err := openReader(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", displayName(raw.URI), err)
	}

	var text strings.Builder
	pages := reader.NumPage()
	empty := 0
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content := pageText(reader, i)
		if strings.TrimSpace(content) == "" {
			empty++
			logger.Debug("pdf: %s page %d has no text", displayName(raw.URI), i)
		}
		text.WriteString(content)
	}

	metadata := copyMetadata(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = MIMEType
	metadata["page_count"] = pages
	metadata["empty_pages"] = empty

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:        uuid.New().String(),
			URI:       raw.URI,
			Title:     extractTitle(raw),
			Content:   text.String(),
			Metadata:  metadata,
			CreatedAt: time.Now(),
		},
		Pages:      pages,
		EmptyPages: empty,
	}, nil
}

// openReader parses the PDF structure. The parser panics on some malformed
// cross-reference tables, which is reported as an error.
func openReader(content []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(content), int64(len(content)))
}

// pageText returns the plain text of page i, or "" if the page has no
// content or its text cannot be decoded.
func pageText(reader *pdf.Reader, i int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("pdf: page %d: %v", i, r)
			text = ""
		}
	}()

	page := reader.Page(i)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		logger.Debug("pdf: page %d: %v", i, err)
		return ""
	}
	return content
}

// extractTitle prefers a caller-supplied title, then the file name without extension.
func extractTitle(raw *domain.RawDocument) string {
	if raw.Metadata != nil {
		if title, ok := raw.Metadata["title"].(string); ok && title != "" {
			return title
		}
	}
	if raw.URI == "" {
		return ""
	}
	name := filepath.Base(raw.URI)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

func displayName(uri string) string {
	if uri == "" {
		return "document"
	}
	return filepath.Base(uri)
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

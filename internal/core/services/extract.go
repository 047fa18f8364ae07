package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Extraction is the text of a set of documents.
type Extraction struct {
	// Text is every document's text concatenated in input order.
	Text string

	// Pages is the total number of pages read.
	Pages int

	// EmptyPages is the number of pages that yielded no text.
	EmptyPages int
}

// ExtractText runs every document through normaliser and concatenates the results
// in input order with no separator. A document that cannot be read fails the
// whole extraction. progress may be nil.
func ExtractText(
	ctx context.Context, normaliser driven.Normaliser, docs []domain.RawDocument, progress domain.ProgressFunc,
) (*Extraction, error) {
	if len(docs) == 0 {
		return nil, domain.ErrNoDocuments
	}

	var text strings.Builder
	out := &Extraction{}
	for i := range docs {
		if progress != nil {
			progress(domain.StageExtract, i, len(docs))
		}

		result, err := normaliser.Normalise(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", displayURI(docs[i].URI, i), err)
		}
		logger.Debug("Extracted %s: %d pages, %d without text",
			displayURI(docs[i].URI, i), result.Pages, result.EmptyPages)

		text.WriteString(result.Document.Content)
		out.Pages += result.Pages
		out.EmptyPages += result.EmptyPages
	}
	if progress != nil {
		progress(domain.StageExtract, len(docs), len(docs))
	}

	out.Text = text.String()
	return out, nil
}

func displayURI(uri string, i int) string {
	if uri == "" {
		return fmt.Sprintf("document %d", i+1)
	}
	return uri
}

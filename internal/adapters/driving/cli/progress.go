package cli

import (
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// stageDescriptions label the progress bar for each stage.
var stageDescriptions = map[string]string{
	domain.StageExtract: "extracting",
	domain.StageChunk:   "chunking",
	domain.StageEmbed:   "embedding",
	domain.StageIndex:   "indexing",
}

// progressReporter draws one bar per stage that reports more than one step.
type progressReporter struct {
	w io.Writer

	mu    sync.Mutex
	stage string
	bar   *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w}
}

// Report implements domain.ProgressFunc.
func (p *progressReporter) Report(stage string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stage != p.stage {
		p.finishLocked()
		p.stage = stage
		if total > 1 {
			p.bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(p.w),
				progressbar.OptionSetDescription(stageDescriptions[stage]),
				progressbar.OptionSetWidth(32),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "=",
					SaucerHead:    ">",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
		}
	}
	if p.bar != nil {
		_ = p.bar.Set(done)
	}
}

// Finish clears any bar still drawn.
func (p *progressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
	p.stage = ""
}

func (p *progressReporter) finishLocked() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package service

import (
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/constants"
)

// noProgressEnv turns progress bars off even on a terminal
const noProgressEnv = constants.EnvVarPrefix + "_NO_PROGRESS"

// NewProgressManager draws progress bars on stderr when enabled and stderr
// is an interactive terminal outside CI, and stays silent otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if !enabled || !stderrIsInteractive() {
		return silentProgress{}
	}
	return newBarProgress(os.Stderr)
}

func stderrIsInteractive() bool {
	if os.Getenv("CI") != "" || os.Getenv(noProgressEnv) != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// barProgress draws one bar per started step
type barProgress struct {
	out io.Writer

	mu   sync.Mutex
	bars []*progressbar.ProgressBar
}

func newBarProgress(out io.Writer) *barProgress {
	return &barProgress{out: out}
}

func (p *barProgress) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(24),
		progressbar.OptionShowCount(),
		progressbar.OptionShowBytes(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	p.mu.Lock()
	p.bars = append(p.bars, bar)
	p.mu.Unlock()
	return &barStep{bar: bar, label: description}
}

func (p *barProgress) IsInteractive() bool { return true }

// Close finishes any bar a step left open
func (p *barProgress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, bar := range p.bars {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
	p.bars = nil
}

// barStep shows the item being worked on next to the step label
type barStep struct {
	bar   *progressbar.ProgressBar
	label string
}

func (s *barStep) Increment(n int) { _ = s.bar.Add(n) }

func (s *barStep) Describe(item string) { s.bar.Describe(s.label + ": " + item) }

func (s *barStep) Complete() { _ = s.bar.Finish() }

// silentProgress discards all progress
type silentProgress struct{}

func (silentProgress) StartTask(string, int) domain.TaskProgress { return silentProgress{} }
func (silentProgress) IsInteractive() bool                      { return false }
func (silentProgress) Close()                                    {}
func (silentProgress) Increment(int)                             {}
func (silentProgress) Describe(string)                           {}
func (silentProgress) Complete()                                 {}

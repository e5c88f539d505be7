package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

const tickInterval = 100 * time.Millisecond

// Progress is a decorative spinner shown on stderr during the fetch and
// scan stages. It carries no data and has no effect on correctness; a nil
// Progress is valid and does nothing, which is how quiet, verbose, and
// non-interactive runs opt out.
type Progress struct {
	s *spinner.Spinner
}

// NewProgress returns a Progress, or nil when disabled.
func NewProgress(enabled bool) *Progress {
	if !enabled {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], tickInterval, spinner.WithWriter(os.Stderr))
	return &Progress{s: s}
}

// Start begins spinning with the given checkpoint message.
func (p *Progress) Start(msg string) {
	if p == nil {
		return
	}
	p.s.Suffix = " " + msg
	p.s.Start()
}

// Update swaps the checkpoint message while the spinner keeps running.
func (p *Progress) Update(msg string) {
	if p == nil {
		return
	}
	p.s.Suffix = " " + msg
}

// Stop clears the spinner. Safe to call more than once.
func (p *Progress) Stop() {
	if p == nil {
		return
	}
	p.s.Stop()
}

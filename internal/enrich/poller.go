package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PollState is the live-watch connection state.
type PollState string

const (
	PollOff        PollState = "off"
	PollConnecting PollState = "connecting"
	PollLive       PollState = "live"
	PollError      PollState = "error"
)

// Poller re-imports the scouting sheet on an interval and reports new
// submissions. Only positive response-count deltas count as new; a shrinking
// sheet (rows deleted upstream) resets the baseline silently.
type Poller struct {
	imp      *SheetImport
	interval time.Duration
	onChange func(state PollState, newRows int)

	state PollState
	seen  int
}

// NewPoller builds a Poller. onChange may be nil.
func NewPoller(imp *SheetImport, interval time.Duration, onChange func(state PollState, newRows int)) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{
		imp:      imp,
		interval: interval,
		onChange: onChange,
		state:    PollOff,
	}
}

// State returns the current connection state.
func (p *Poller) State() PollState {
	return p.state
}

// Run polls until the context is canceled or a poll fails hard. The first
// poll imports the whole sheet; later polls import only rows beyond the last
// seen count.
func (p *Poller) Run(ctx context.Context) error {
	p.transition(PollConnecting, 0)

	if err := p.poll(ctx); err != nil {
		p.transition(PollError, 0)
		return err
	}
	p.transition(PollLive, 0)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.transition(PollOff, 0)
			return nil
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.transition(PollError, 0)
				return err
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	report, err := p.imp.Import(ctx, p.seen)
	if err != nil {
		return err
	}

	delta := report.Rows - p.seen
	p.seen = report.Rows

	if delta > 0 && p.state == PollLive {
		zap.L().Info("new form submissions", zap.Int("count", delta))
		p.transition(PollLive, delta)
	}
	return nil
}

func (p *Poller) transition(s PollState, newRows int) {
	p.state = s
	if p.onChange != nil {
		p.onChange(s, newRows)
	}
}

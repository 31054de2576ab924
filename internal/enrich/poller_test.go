package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollRows(n int) [][]string {
	rows := [][]string{formHeader()}
	for i := 0; i < n; i++ {
		rows = append(rows, []string{"1/11", "755", "4", "yes", "", ""})
	}
	return rows
}

func TestPollerReportsPositiveDeltaOnly(t *testing.T) {
	r := newTestRoster(t)
	sh := &fakeSheets{rows: pollRows(2)}
	si := NewSheetImport(sh, r, "id", "A:F", formColumns())

	var deltas []int
	p := NewPoller(si, time.Second, func(state PollState, newRows int) {
		if state == PollLive && newRows > 0 {
			deltas = append(deltas, newRows)
		}
	})

	// first poll is the baseline, not a burst of news
	require.NoError(t, p.poll(context.Background()))
	p.state = PollLive
	assert.Empty(t, deltas)

	// unchanged sheet: no delta
	require.NoError(t, p.poll(context.Background()))
	assert.Empty(t, deltas)

	// two new rows
	sh.rows = pollRows(4)
	require.NoError(t, p.poll(context.Background()))
	assert.Equal(t, []int{2}, deltas)

	rec, _ := r.Get("755")
	assert.Equal(t, 4, rec.MatchCount)

	// rows deleted upstream: baseline resets silently
	sh.rows = pollRows(1)
	require.NoError(t, p.poll(context.Background()))
	assert.Equal(t, []int{2}, deltas)
}

func TestPollerStateTransitions(t *testing.T) {
	r := newTestRoster(t)
	sh := &fakeSheets{rows: pollRows(1)}
	si := NewSheetImport(sh, r, "id", "A:F", formColumns())

	var states []PollState
	p := NewPoller(si, 10*time.Millisecond, func(state PollState, _ int) {
		states = append(states, state)
	})
	assert.Equal(t, PollOff, p.State())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// let at least one tick pass, then stop
	time.Sleep(35 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	require.GreaterOrEqual(t, len(states), 3)
	assert.Equal(t, PollConnecting, states[0])
	assert.Equal(t, PollLive, states[1])
	assert.Equal(t, PollOff, states[len(states)-1])
}

func TestPollerErrorState(t *testing.T) {
	r := newTestRoster(t)
	sh := &fakeSheets{err: errors.New("boom")}
	si := NewSheetImport(sh, r, "id", "A:F", formColumns())

	p := NewPoller(si, time.Second, nil)
	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, PollError, p.State())
}

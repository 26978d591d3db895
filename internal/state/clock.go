package state

import "sync/atomic"

// SeqSource hands out dispatch sequence numbers.
type SeqSource interface {
	// Next returns the seq for a new dispatch.
	Next() int64

	// Current returns the seq of the latest dispatch, 0 before the first.
	Current() int64
}

// Clock counts dispatches. Every Send and SendEvent takes one seq, failed
// ones included, so a trace has no gaps. The zero value is ready to use.
type Clock struct {
	dispatched atomic.Int64
}

// NewClock returns a clock whose first Next is 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next implements SeqSource.
func (c *Clock) Next() int64 {
	return c.dispatched.Add(1)
}

// Current implements SeqSource.
func (c *Clock) Current() int64 {
	return c.dispatched.Load()
}

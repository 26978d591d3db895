package testutil

import "github.com/roach88/contacts/internal/ir"

// CallbackSpy records every state handed to it. Pass Spy.Func to
// Store.OnUpdate or Store.Subscribe.
type CallbackSpy struct {
	Calls []ir.State
}

// Func is the callback to register.
func (c *CallbackSpy) Func(s ir.State) {
	c.Calls = append(c.Calls, s)
}

// Count returns how many times the callback ran.
func (c *CallbackSpy) Count() int {
	return len(c.Calls)
}

// Last returns the most recent state, or the zero State if never called.
func (c *CallbackSpy) Last() ir.State {
	if len(c.Calls) == 0 {
		return ir.State{}
	}
	return c.Calls[len(c.Calls)-1]
}

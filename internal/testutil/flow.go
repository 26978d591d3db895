package testutil

import (
	"fmt"
	"sync"
)

// DefaultFlowPrefix is used when NewFlowGenerator gets an empty prefix.
const DefaultFlowPrefix = "test-flow"

// FlowGenerator produces "<prefix>-1", "<prefix>-2", ... so every
// dispatched event gets a distinct but predictable flow token.
// It satisfies state.FlowTokenGenerator and never runs out.
type FlowGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFlowGenerator creates a generator with the given prefix.
func NewFlowGenerator(prefix string) *FlowGenerator {
	if prefix == "" {
		prefix = DefaultFlowPrefix
	}
	return &FlowGenerator{prefix: prefix}
}

// Generate returns the next token.
func (g *FlowGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Prefix returns the token prefix.
func (g *FlowGenerator) Prefix() string {
	return g.prefix
}

package transform

import (
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/afmark/internal/logging"
)

// ErrUnknownPass is returned when a chain is configured with a pass name
// the registry does not know.
var ErrUnknownPass = errors.New("unknown pass")

// Chain is the ordered list of enabled passes for a render.
type Chain struct {
	passes []Pass
}

// NewChain builds a chain from every pass in registry. overrides maps a
// pass name to an explicit enabled state; passes not named use their
// DefaultEnabled value.
func NewChain(registry *Registry, overrides map[string]bool) (*Chain, error) {
	for name := range overrides {
		if _, ok := registry.Get(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPass, name)
		}
	}

	var enabled []Pass
	for _, pass := range registry.Passes() {
		on := pass.DefaultEnabled()
		if v, ok := overrides[pass.Name()]; ok {
			on = v
		}
		if on {
			enabled = append(enabled, pass)
		}
	}
	return &Chain{passes: enabled}, nil
}

// Passes returns the enabled passes in run order.
func (c *Chain) Passes() []Pass {
	return c.passes
}

// Enabled reports whether the named pass is part of the chain.
func (c *Chain) Enabled(name string) bool {
	for _, pass := range c.passes {
		if pass.Name() == name {
			return true
		}
	}
	return false
}

// Run applies the chain's passes for one stage, in order.
func (c *Chain) Run(state *State, stage Stage) error {
	if err := Check(state); err != nil {
		return err
	}

	logger := state.Log()
	for _, pass := range c.passes {
		if pass.Stage() != stage {
			continue
		}
		if state.Cancelled() {
			return fmt.Errorf("%s stage cancelled: %w", stage, state.Ctx.Err())
		}

		start := time.Now()
		if err := pass.Apply(state); err != nil {
			return fmt.Errorf("pass %s: %w", pass.Name(), err)
		}
		logger.Debug("pass applied",
			logging.FieldPass, pass.Name(),
			logging.FieldStage, stage,
			logging.FieldTokens, state.Tokens.Len(),
			logging.FieldDuration, time.Since(start),
		)
	}
	return nil
}

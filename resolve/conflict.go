// Package resolve detects conflicts between incoming remote actions and
// the local pending queue, and resolves them under a configurable policy.
package resolve

import (
	"fmt"

	"github.com/cubeforge/collab/action"
)

// Policy selects the resolution strategy for an engine instance.
type Policy string

const (
	PolicyLastWriteWins  Policy = "last_write_wins"
	PolicyFirstWriteWins Policy = "first_write_wins"
	PolicyMerge          Policy = "merge"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyLastWriteWins, PolicyFirstWriteWins, PolicyMerge:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown conflict policy: %q", s)
	}
}

// Conflict pairs an incoming remote action with the pending local action
// it collides with.
type Conflict struct {
	Incoming action.Action
	Pending  action.Action
}

// Outcome captures the resolution decision and the single action to apply.
type Outcome struct {
	// Resolved is the action the pipeline applies in place of the raw
	// incoming action.
	Resolved action.Action

	// DiscardPending removes the superseded pending entry from the queue
	// so it is never re-applied or re-transmitted. When false the pending
	// action survived and will still be sent outward.
	DiscardPending bool

	Decision string
	Reasons  []string
}

// Resolver is the strategy interface for conflict resolution.
type Resolver interface {
	Resolve(c Conflict) (Outcome, error)
}

// NewResolver returns the resolver for a policy.
func NewResolver(p Policy) (Resolver, error) {
	switch p {
	case PolicyLastWriteWins:
		return &LastWriteWins{}, nil
	case PolicyFirstWriteWins:
		return &FirstWriteWins{}, nil
	case PolicyMerge:
		return &Merge{}, nil
	default:
		return nil, fmt.Errorf("unknown conflict policy: %q", p)
	}
}

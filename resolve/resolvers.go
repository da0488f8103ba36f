package resolve

import (
	"maps"

	"github.com/cubeforge/collab/action"
)

var (
	_ Resolver = (*LastWriteWins)(nil)
	_ Resolver = (*FirstWriteWins)(nil)
	_ Resolver = (*Merge)(nil)
)

// later orders two actions by timestamp. Exactly-equal timestamps are
// broken by comparing action ids; ULIDs sort in creation order, so the
// outcome is deterministic and identical on every replica.
func later(a, b action.Action) bool {
	if a.Timestamp.After(b.Timestamp) {
		return true
	}
	if b.Timestamp.After(a.Timestamp) {
		return false
	}
	return a.ID > b.ID
}

// LastWriteWins keeps whichever action carries the later timestamp.
type LastWriteWins struct{}

func (r *LastWriteWins) Resolve(c Conflict) (Outcome, error) {
	if later(c.Incoming, c.Pending) {
		return Outcome{
			Resolved:       c.Incoming,
			DiscardPending: true,
			Decision:       "keep_incoming",
			Reasons:        []string{"incoming newer"},
		}, nil
	}
	return Outcome{
		Resolved: c.Pending,
		Decision: "keep_pending",
		Reasons:  []string{"pending newer"},
	}, nil
}

// FirstWriteWins keeps whichever action carries the earlier timestamp.
type FirstWriteWins struct{}

func (r *FirstWriteWins) Resolve(c Conflict) (Outcome, error) {
	if later(c.Incoming, c.Pending) {
		return Outcome{
			Resolved: c.Pending,
			Decision: "keep_pending",
			Reasons:  []string{"pending earlier"},
		}, nil
	}
	return Outcome{
		Resolved:       c.Incoming,
		DiscardPending: true,
		Decision:       "keep_incoming",
		Reasons:        []string{"incoming earlier"},
	}, nil
}

// Merge overlays the pending changeset with the incoming changeset for
// update/update pairs; incoming keys win on overlap. Any other pairing
// falls back to last-write-wins.
type Merge struct {
	fallback LastWriteWins
}

func (r *Merge) Resolve(c Conflict) (Outcome, error) {
	in, inOK := c.Incoming.Payload.(*action.CubeUpdate)
	pe, peOK := c.Pending.Payload.(*action.CubeUpdate)
	if !inOK || !peOK {
		out, err := r.fallback.Resolve(c)
		if err == nil {
			out.Reasons = append([]string{"non-mergeable pair"}, out.Reasons...)
		}
		return out, err
	}

	changes := make(map[string]any, len(pe.Changes)+len(in.Changes))
	maps.Copy(changes, pe.Changes)
	maps.Copy(changes, in.Changes)

	merged := c.Incoming.Clone()
	merged.Payload = &action.CubeUpdate{CubeID: in.CubeID, Changes: changes}

	return Outcome{
		Resolved:       merged,
		DiscardPending: true,
		Decision:       "merged",
		Reasons:        []string{"changesets overlaid, incoming keys win"},
	}, nil
}

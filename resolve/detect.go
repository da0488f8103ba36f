package resolve

import "github.com/cubeforge/collab/action"

// Detect scans the pending queue for an action that conflicts with the
// incoming one and returns its index. Detection scope is limited to
// document-modifying actions targeting the same cube id.
func Detect(incoming action.Action, pending []action.Action) (int, bool) {
	if !incoming.ModifiesDocument() {
		return -1, false
	}
	for i, p := range pending {
		if collides(Conflict{Incoming: incoming, Pending: p}) {
			return i, true
		}
	}
	return -1, false
}

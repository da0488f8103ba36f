package resolve

import "github.com/cubeforge/collab/action"

// Spec is a predicate used to match conflicts to rules. Combinators allow
// building the detection logic from small, testable pieces.
type Spec func(Conflict) bool

// And returns a spec that requires both specs to match.
func And(a, b Spec) Spec {
	return func(c Conflict) bool { return a != nil && b != nil && a(c) && b(c) }
}

// Or returns a spec that requires at least one spec to match.
func Or(a, b Spec) Spec {
	return func(c Conflict) bool { return (a != nil && a(c)) || (b != nil && b(c)) }
}

// Not returns a spec that negates the provided spec.
func Not(a Spec) Spec {
	return func(c Conflict) bool { return a == nil || !a(c) }
}

// IncomingIs matches a specific incoming action type.
func IncomingIs(t action.Type) Spec {
	return func(c Conflict) bool { return c.Incoming.Type == t }
}

// PendingIs matches a specific pending action type.
func PendingIs(t action.Type) Spec {
	return func(c Conflict) bool { return c.Pending.Type == t }
}

// SameTarget matches when both actions operate on the same cube.
func SameTarget() Spec {
	return func(c Conflict) bool {
		in, ok1 := c.Incoming.TargetCubeID()
		pe, ok2 := c.Pending.TargetCubeID()
		return ok1 && ok2 && in == pe
	}
}

// collides is the closed set of meaningful collisions: update/update,
// delete/update, and update/delete on the same cube. Creates never
// conflict because a create implies a fresh id.
var collides = And(
	SameTarget(),
	Or(
		And(IncomingIs(action.TypeCubeUpdate), PendingIs(action.TypeCubeUpdate)),
		Or(
			And(IncomingIs(action.TypeCubeDelete), PendingIs(action.TypeCubeUpdate)),
			And(IncomingIs(action.TypeCubeUpdate), PendingIs(action.TypeCubeDelete)),
		),
	),
)

package resolve

import (
	"testing"
	"time"

	"github.com/cubeforge/collab/action"
)

func TestSpecCombinators(t *testing.T) {
	yes := Spec(func(Conflict) bool { return true })
	no := Spec(func(Conflict) bool { return false })
	c := Conflict{}

	if !And(yes, yes)(c) || And(yes, no)(c) || And(nil, yes)(c) {
		t.Error("And misbehaves")
	}
	if !Or(no, yes)(c) || Or(no, no)(c) || Or(nil, nil)(c) {
		t.Error("Or misbehaves")
	}
	if Not(yes)(c) || !Not(no)(c) || !Not(nil)(c) {
		t.Error("Not misbehaves")
	}
}

func TestTypeSpecs(t *testing.T) {
	up := mkAction(t, action.TypeCubeUpdate, "c1", time.Now(), nil)
	del := mkAction(t, action.TypeCubeDelete, "c1", time.Now(), nil)

	c := Conflict{Incoming: up, Pending: del}
	if !IncomingIs(action.TypeCubeUpdate)(c) {
		t.Error("IncomingIs should match")
	}
	if !PendingIs(action.TypeCubeDelete)(c) {
		t.Error("PendingIs should match")
	}
	if IncomingIs(action.TypeCubeDelete)(c) {
		t.Error("IncomingIs should not match a different type")
	}
}

func TestSameTarget(t *testing.T) {
	a := mkAction(t, action.TypeCubeUpdate, "c1", time.Now(), nil)
	b := mkAction(t, action.TypeCubeDelete, "c1", time.Now(), nil)
	other := mkAction(t, action.TypeCubeDelete, "c2", time.Now(), nil)
	cursor := mkAction(t, action.TypeCursorMove, "", time.Now(), nil)

	if !SameTarget()(Conflict{Incoming: a, Pending: b}) {
		t.Error("same cube must match")
	}
	if SameTarget()(Conflict{Incoming: a, Pending: other}) {
		t.Error("different cubes must not match")
	}
	if SameTarget()(Conflict{Incoming: a, Pending: cursor}) {
		t.Error("untargeted action must not match")
	}
}

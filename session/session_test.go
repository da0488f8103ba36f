package session

import (
	"testing"
	"time"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role Role
		op   Op
		want bool
	}{
		{RoleOwner, OpUpdateSettings, true},
		{RoleOwner, OpManageParticipants, true},
		{RoleOwner, OpEditCubes, true},
		{RoleEditor, OpEditCubes, true},
		{RoleEditor, OpUpdateSettings, false},
		{RoleEditor, OpManageParticipants, false},
		{RoleViewer, OpView, true},
		{RoleViewer, OpEditCubes, false},
		{Role("bogus"), OpView, false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.op); got != tt.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tt.role, tt.op, got, tt.want)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	if NormalizeRole("editor") != RoleEditor {
		t.Error("editor should normalize to itself")
	}
	if NormalizeRole("admin") != RoleViewer {
		t.Error("unknown roles should normalize to viewer")
	}
}

func TestSettingsApply(t *testing.T) {
	s := Settings{Name: "demo", MaxParticipants: 4, Open: true}

	name := "renamed"
	open := false
	s.Apply(SettingsPatch{Name: &name, Open: &open})

	if s.Name != "renamed" || s.Open {
		t.Errorf("patch not applied: %+v", s)
	}
	if s.MaxParticipants != 4 {
		t.Error("untouched field changed")
	}
}

func TestSessionFull(t *testing.T) {
	s := &Session{
		Settings:     Settings{MaxParticipants: 2},
		Participants: map[string]*Participant{"a": {}, "b": {}},
	}
	if !s.Full() {
		t.Error("session at cap should be full")
	}

	s.Settings.MaxParticipants = 0
	if s.Full() {
		t.Error("zero cap means unlimited")
	}
}

func TestCubeMerge(t *testing.T) {
	c := &Cube{ID: "c1", Params: map[string]any{"color": "red", "size": 2}}
	at := time.Now()

	c.Merge(map[string]any{"color": "blue", "opacity": 0.5}, at)

	if c.Params["color"] != "blue" {
		t.Errorf("color = %v, want blue", c.Params["color"])
	}
	if c.Params["size"] != 2 {
		t.Error("untouched param changed")
	}
	if c.Params["opacity"] != 0.5 {
		t.Error("new param missing")
	}
	if !c.ModifiedAt.Equal(at) {
		t.Error("ModifiedAt not stamped")
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := &Session{
		ID:      "s1",
		OwnerID: "p1",
		Participants: map[string]*Participant{
			"p1": {ID: "p1", Role: RoleOwner, Cursor: &Cursor{Position: Position{X: 1}}},
		},
		Cubes: map[string]*Cube{
			"c1": {ID: "c1", Params: map[string]any{"color": "red"}},
		},
	}

	clone := s.Clone()
	clone.Participants["p1"].Cursor.Position.X = 99
	clone.Cubes["c1"].Params["color"] = "green"
	clone.Participants["p2"] = &Participant{ID: "p2"}

	if s.Participants["p1"].Cursor.Position.X != 1 {
		t.Error("clone shares cursor state with original")
	}
	if s.Cubes["c1"].Params["color"] != "red" {
		t.Error("clone shares cube params with original")
	}
	if len(s.Participants) != 1 {
		t.Error("clone shares participant map with original")
	}
	if s.Clone().Owner().ID != "p1" {
		t.Error("owner lookup broken after clone")
	}
}

func TestColorForIsStable(t *testing.T) {
	if ColorFor(0) != ColorFor(0) {
		t.Error("color must be stable for an index")
	}
	if ColorFor(3) == "" {
		t.Error("color must be non-empty")
	}
	// Wraps instead of panicking.
	_ = ColorFor(1000)
	_ = ColorFor(-1)
}

// Command collab-demo runs two collaboration engines in one process and
// wires them together with an in-memory transport: every action one
// engine applies is delivered to the other through Receive. It exercises
// the whole pipeline including a deliberate conflicting edit.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cubeforge/collab"
	"github.com/cubeforge/collab/action"
	"github.com/cubeforge/collab/events"
	"github.com/cubeforge/collab/logging"
	"github.com/cubeforge/collab/session"
	"github.com/cubeforge/collab/storage/memstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "collab-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local experimentation.
	_ = godotenv.Load()

	log := logging.NewLogger(os.Stderr, logging.GetConfigFromEnv())

	cfg, err := collab.ConfigFromEnv()
	if err != nil {
		return err
	}
	cfg.Logger = log

	alice, err := collab.New(memstore.New(), cfg)
	if err != nil {
		return err
	}
	defer alice.Close()

	bob, err := collab.New(memstore.New(), cfg)
	if err != nil {
		return err
	}
	defer bob.Close()

	ctx := context.Background()

	// Deliver locally originated actions to the peer. Filtering on the
	// origin participant keeps relayed actions from echoing forever. A
	// real deployment replaces this with a network transport reading
	// PendingActions.
	forward := func(from, to *collab.Engine, name string) func() {
		return from.Subscribe(events.ActionApplied, func(ev events.Event) {
			a := ev.Payload.(action.Action)
			local := from.LocalParticipant()
			if local == nil || a.ParticipantID != local.ID {
				return
			}
			if a.Type == action.TypeParticipantJoin || a.Type == action.TypeParticipantLeave {
				return
			}
			if _, err := to.Receive(ctx, a); err != nil {
				log.Warn("delivery failed", "to", name, "error", err.Error())
			}
		})
	}

	sess, err := alice.CreateSession(ctx, "Alice", nil)
	if err != nil {
		return err
	}
	fmt.Printf("session %s created, join code %s\n", sess.ID, sess.Code)

	_, bobPart, err := bob.JoinSession(ctx, sess.Code, "Bob", sess)
	if err != nil {
		return err
	}
	join := action.New(action.TypeParticipantJoin, bobPart.ID, sess.ID,
		&action.ParticipantJoin{Participant: *bobPart})
	if _, err := alice.Receive(ctx, join); err != nil {
		return err
	}

	stopAB := forward(alice, bob, "bob")
	stopBA := forward(bob, alice, "alice")
	defer stopAB()
	defer stopBA()

	alice.SetConnectionState(session.Connected)
	bob.SetConnectionState(session.Connected)

	// Alice creates a cube; the forwarder replicates it to Bob.
	create := action.New(action.TypeCubeCreate, sess.OwnerID, sess.ID, &action.CubeCreate{
		Cube: session.Cube{
			ID:        "cube-1",
			CreatedBy: sess.OwnerID,
			Params:    map[string]any{"color": "red", "size": 1.0},
		},
	})
	if _, _, err := alice.Apply(ctx, create); err != nil {
		return err
	}

	// Both edit the same cube; the conflict policy reconciles.
	aliceEdit := action.New(action.TypeCubeUpdate, sess.OwnerID, sess.ID,
		&action.CubeUpdate{CubeID: "cube-1", Changes: map[string]any{"color": "blue"}})
	bobEdit := action.New(action.TypeCubeUpdate, bobPart.ID, sess.ID,
		&action.CubeUpdate{CubeID: "cube-1", Changes: map[string]any{"size": 2.0}})
	if _, _, err := alice.Apply(ctx, aliceEdit); err != nil {
		return err
	}
	if _, _, err := bob.Apply(ctx, bobEdit); err != nil {
		return err
	}

	for name, e := range map[string]*collab.Engine{"alice": alice, "bob": bob} {
		if c, ok := e.Cube("cube-1"); ok {
			fmt.Printf("%s sees cube-1 = %v\n", name, c.Params)
		}
	}

	if err := bob.LeaveSession(ctx); err != nil {
		return err
	}
	leave := action.New(action.TypeParticipantLeave, bobPart.ID, sess.ID,
		&action.ParticipantLeave{ParticipantID: bobPart.ID, Reason: action.LeaveReasonLeft})
	if _, err := alice.Receive(ctx, leave); err != nil {
		return err
	}
	fmt.Printf("alice now sees %d participant(s)\n", len(alice.Participants()))
	return nil
}

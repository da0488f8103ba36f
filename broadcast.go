package collab

import (
	"context"
	"fmt"
	"time"

	"github.com/cubeforge/collab/action"
	"github.com/cubeforge/collab/errors"
	"github.com/cubeforge/collab/session"
)

// CursorSampler reports the local participant's current cursor, or nil
// when there is nothing to broadcast this tick.
type CursorSampler func() *session.Cursor

// StartCursorBroadcast begins periodically sampling the local cursor and
// applying a cursor_move action at the configured interval. The broadcast
// stops when ctx is cancelled, StopCursorBroadcast is called, or the
// session is left.
func (e *Engine) StartCursorBroadcast(ctx context.Context, sample CursorSampler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.NewKind(errors.OpBroadcast, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}
	if e.sess == nil {
		return errors.NotInSession(errors.OpBroadcast)
	}
	if sample == nil {
		return errors.NewKind(errors.OpBroadcast, errors.KindInvalidAction, fmt.Errorf("cursor sampler is nil"))
	}
	if e.cursorStop != nil {
		return errors.NewKind(errors.OpBroadcast, errors.KindInvalidAction, fmt.Errorf("cursor broadcast is already running"))
	}

	stop := make(chan struct{})
	e.cursorStop = stop

	go func() {
		ticker := time.NewTicker(e.cfg.CursorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				cur := sample()
				if cur == nil {
					continue
				}
				e.broadcastCursor(ctx, *cur)
			}
		}
	}()

	return nil
}

// StopCursorBroadcast cancels the broadcast loop. Idempotent.
func (e *Engine) StopCursorBroadcast() {
	e.mu.Lock()
	e.stopCursorLocked()
	e.mu.Unlock()
}

// stopCursorLocked closes the broadcast stop channel if a loop is
// running. Caller holds the write lock.
func (e *Engine) stopCursorLocked() {
	if e.cursorStop != nil {
		close(e.cursorStop)
		e.cursorStop = nil
	}
}

// broadcastCursor applies one sampled cursor position. A tick racing a
// session teardown loses quietly.
func (e *Engine) broadcastCursor(ctx context.Context, cur session.Cursor) {
	e.mu.RLock()
	sessID, localID := "", ""
	if e.sess != nil {
		sessID = e.sess.ID
		localID = e.localID
	}
	e.mu.RUnlock()

	if sessID == "" {
		return
	}

	a := action.New(action.TypeCursorMove, localID, sessID, &action.CursorMove{Cursor: cur})
	if _, _, err := e.Apply(ctx, a); err != nil {
		e.log.DebugContext(ctx, "cursor broadcast skipped", "error", err.Error())
	}
}

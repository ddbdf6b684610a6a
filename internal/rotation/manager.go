// Package rotation applies screen rotation to the live windowing session and
// reapplies the persisted rotation after boot, tolerating a session that is
// not up yet.
package rotation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/css-signage/css-agent-go/internal/windowing"
)

// ErrNoOutput is returned when no connected output can be found.
var ErrNoOutput = errors.New("rotation: no connected display output")

const (
	reapplyInterval    = 5 * time.Second
	reapplyMaxAttempts = 20
)

// Manager applies rotation transforms to the connected output.
type Manager struct {
	session windowing.Session
}

// New returns a Manager using the given windowing session.
func New(session windowing.Session) *Manager {
	return &Manager{session: session}
}

// Apply rotates the connected output to the given angle. Returns ErrNoOutput
// if the session has no connected output; nothing is applied in that case.
// Persisting the angle is the caller's job.
func (m *Manager) Apply(ctx context.Context, angle int) error {
	transform, ok := windowing.TransformForAngle(angle)
	if !ok {
		return errors.New("rotation: unsupported angle")
	}

	output, found := m.session.ConnectedOutput(ctx)
	if !found {
		return ErrNoOutput
	}
	return m.session.SetRotation(ctx, output, transform)
}

// ReapplyLoop retries Apply on a fixed interval until it succeeds or the
// attempt budget is spent. Run in its own goroutine right after boot: the
// windowing session usually is not ready when the agent starts. Gives up
// silently (log only) — a device that never brings up X still has to serve
// its API.
func (m *Manager) ReapplyLoop(ctx context.Context, angle int) {
	if angle == 0 {
		return
	}

	ticker := time.NewTicker(reapplyInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= reapplyMaxAttempts; attempt++ {
		if err := m.Apply(ctx, angle); err == nil {
			slog.Info("rotation: reapplied persisted rotation", "angle", angle, "attempt", attempt)
			return
		} else if !errors.Is(err, ErrNoOutput) {
			slog.Warn("rotation: reapply attempt failed", "angle", angle, "attempt", attempt, "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	slog.Warn("rotation: giving up reapplying rotation", "angle", angle, "attempts", reapplyMaxAttempts)
}

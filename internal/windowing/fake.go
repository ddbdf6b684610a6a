package windowing

import (
	"context"
	"sync"
)

// FakeSession is an in-memory Session for tests and -mock mode.
// It records every rotation applied to it.
type FakeSession struct {
	mu       sync.Mutex
	User     string
	Output   string // "" means no connected output
	rotation Transform
	calls    []Transform
}

// NewFakeSession returns a fake session with a connected "HDMI-1" output.
func NewFakeSession() *FakeSession {
	return &FakeSession{User: "kiosk", Output: "HDMI-1", rotation: TransformNormal}
}

func (f *FakeSession) ActiveUser(ctx context.Context) (string, error) {
	return f.User, nil
}

func (f *FakeSession) ConnectedOutput(ctx context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Output == "" {
		return "", false
	}
	return f.Output, true
}

func (f *FakeSession) SetRotation(ctx context.Context, output string, t Transform) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotation = t
	f.calls = append(f.calls, t)
	return nil
}

// Rotation returns the last applied transform.
func (f *FakeSession) Rotation() Transform {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rotation
}

// Calls returns every transform applied so far.
func (f *FakeSession) Calls() []Transform {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Transform, len(f.calls))
	copy(out, f.calls)
	return out
}

// SetOutput changes the connected output name ("" disconnects it).
func (f *FakeSession) SetOutput(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Output = name
}

var _ Session = (*FakeSession)(nil)

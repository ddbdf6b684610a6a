package sysd

import (
	"context"
	"sync"
)

// Fake records systemd calls for tests and -mock mode.
type Fake struct {
	mu        sync.Mutex
	Restarted []string
	Timers    map[string]bool
	Rebooted  bool
	Err       error // returned from every call when set
}

// NewFake returns a Manager that records calls and never touches D-Bus.
func NewFake() *Fake {
	return &Fake{Timers: make(map[string]bool)}
}

func (f *Fake) RestartUnit(ctx context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Restarted = append(f.Restarted, unit)
	return nil
}

func (f *Fake) SetTimer(ctx context.Context, unit string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Timers[unit] = enabled
	return nil
}

func (f *Fake) Reboot(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Rebooted = true
	return nil
}

// RestartCount returns how many times unit was restarted.
func (f *Fake) RestartCount(unit string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.Restarted {
		if u == unit {
			n++
		}
	}
	return n
}

var _ Manager = (*Fake)(nil)

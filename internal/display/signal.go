package display

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const (
	sigtermTimeout = 3 * time.Second
	killPoll       = 100 * time.Millisecond
)

// ProcessSignal reloads the browser by terminating it: SIGTERM first, a
// bounded wait, then SIGKILL for anything still alive. The systemd unit
// supervising the browser relaunches it.
type ProcessSignal struct {
	procName string
}

// NewProcessSignal returns a signal targeting processes with the given name
// (e.g. "chromium-browser").
func NewProcessSignal(procName string) *ProcessSignal {
	return &ProcessSignal{procName: procName}
}

// Reload terminates the browser processes. Returns an error only if the
// process list could not be obtained; surviving SIGKILL is not reported since
// the supervisor owns the process from here.
func (p *ProcessSignal) Reload(ctx context.Context) error {
	pids, err := p.findPids(ctx)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		// Not running — the supervisor will start it with the new URL.
		slog.Debug("display: no browser process to signal", "proc", p.procName)
		return nil
	}

	for _, pid := range pids {
		_ = unix.Kill(pid, unix.SIGTERM)
	}

	deadline := time.Now().Add(sigtermTimeout)
	for time.Now().Before(deadline) {
		if !anyAlive(pids) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(killPoll):
		}
	}

	slog.Warn("display: browser ignored SIGTERM, escalating", "proc", p.procName)
	for _, pid := range pids {
		_ = unix.Kill(pid, unix.SIGKILL)
	}
	return nil
}

// findPids locates browser processes via pgrep with a bounded wait.
func (p *ProcessSignal) findPids(ctx context.Context) ([]int, error) {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(runCtx, "pgrep", "-x", p.procName).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, nil // no matching processes
		}
		return nil, fmt.Errorf("display: pgrep %s: %w", p.procName, err)
	}

	var pids []int
	for _, line := range strings.Fields(string(out)) {
		if pid, err := strconv.Atoi(line); err == nil {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

func anyAlive(pids []int) bool {
	for _, pid := range pids {
		if unix.Kill(pid, 0) == nil {
			return true
		}
	}
	return false
}

var _ Signal = (*ProcessSignal)(nil)

// FakeSignal counts reloads for tests.
type FakeSignal struct {
	mu      sync.Mutex
	reloads int
	Err     error // returned from Reload when set
}

// NewFakeSignal returns a signal that records calls and never fails.
func NewFakeSignal() *FakeSignal { return &FakeSignal{} }

func (f *FakeSignal) Reload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.Err
}

// Reloads returns how many times Reload has been called.
func (f *FakeSignal) Reloads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

var _ Signal = (*FakeSignal)(nil)

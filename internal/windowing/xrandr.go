package windowing

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const execTimeout = 5 * time.Second

// XrandrSession controls the X session of the kiosk user via xrandr.
// All invocations are bounded by a timeout so a wedged X server can never
// block a caller indefinitely.
type XrandrSession struct {
	display string // DISPLAY value, e.g. ":0"
}

// NewXrandrSession returns a session talking to the given X display.
// An empty display defaults to ":0", the kiosk session.
func NewXrandrSession(display string) *XrandrSession {
	if display == "" {
		display = ":0"
	}
	return &XrandrSession{display: display}
}

// ActiveUser returns the user logged into the local console, via `who`.
func (s *XrandrSession) ActiveUser(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "who")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && (strings.HasPrefix(fields[1], "tty") || strings.HasPrefix(fields[1], ":")) {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("windowing: no console user found")
}

// ConnectedOutput parses `xrandr --query` for the first connected output.
func (s *XrandrSession) ConnectedOutput(ctx context.Context) (string, bool) {
	out, err := s.run(ctx, "xrandr", "--query")
	if err != nil {
		slog.Debug("windowing: xrandr query failed", "err", err)
		return "", false
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "connected" {
			return fields[0], true
		}
	}
	return "", false
}

// SetRotation applies the transform to the named output.
func (s *XrandrSession) SetRotation(ctx context.Context, output string, t Transform) error {
	_, err := s.run(ctx, "xrandr", "--output", output, "--rotate", string(t))
	if err != nil {
		return fmt.Errorf("windowing: rotate %s to %s: %w", output, t, err)
	}
	return nil
}

// run executes a command with the session's DISPLAY set and a bounded wait.
func (s *XrandrSession) run(ctx context.Context, name string, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Env = append(cmd.Environ(), "DISPLAY="+s.display)
	out, err := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("windowing: %s timed out", name)
	}
	if err != nil {
		return "", fmt.Errorf("windowing: %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

var _ Session = (*XrandrSession)(nil)

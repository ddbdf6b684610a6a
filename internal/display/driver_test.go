package display

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDriver_ApplyWritesPointerAndSignals(t *testing.T) {
	dir := t.TempDir()
	sig := NewFakeSignal()
	d := New(dir, sig)

	if err := d.Apply(context.Background(), "http://example.com/a"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "display_url"))
	if err != nil {
		t.Fatalf("read pointer file: %v", err)
	}
	if string(data) != "http://example.com/a\n" {
		t.Errorf("pointer file = %q, want %q", data, "http://example.com/a\n")
	}
	if sig.Reloads() != 1 {
		t.Errorf("reloads = %d, want 1", sig.Reloads())
	}
}

func TestDriver_ApplyIsIdempotentOnContent(t *testing.T) {
	dir := t.TempDir()
	sig := NewFakeSignal()
	d := New(dir, sig)

	for i := 0; i < 2; i++ {
		if err := d.Apply(context.Background(), "http://example.com/same"); err != nil {
			t.Fatalf("Apply() #%d error = %v", i+1, err)
		}
	}

	got, err := d.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got != "http://example.com/same" {
		t.Errorf("Current() = %q, want %q", got, "http://example.com/same")
	}
	// No dedup: the signal fires each time.
	if sig.Reloads() != 2 {
		t.Errorf("reloads = %d, want 2", sig.Reloads())
	}
}

func TestDriver_FailedSignalIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	sig := NewFakeSignal()
	sig.Err = errors.New("browser went away")
	d := New(dir, sig)

	if err := d.Apply(context.Background(), "http://example.com/b"); err != nil {
		t.Fatalf("Apply() error = %v, want nil (signal failure is best-effort)", err)
	}

	got, err := d.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got != "http://example.com/b" {
		t.Errorf("Current() = %q, want %q", got, "http://example.com/b")
	}
}

func TestDriver_WritePointerDoesNotSignal(t *testing.T) {
	dir := t.TempDir()
	sig := NewFakeSignal()
	d := New(dir, sig)

	if err := d.WritePointer("http://example.com/boot"); err != nil {
		t.Fatalf("WritePointer() error = %v", err)
	}
	if sig.Reloads() != 0 {
		t.Errorf("reloads = %d, want 0", sig.Reloads())
	}
}

func TestDriver_ApplyFailsWhenPointerUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.MkdirAll(dir, 0555); err != nil {
		t.Fatal(err)
	}
	d := New(dir, NewFakeSignal())

	if err := d.Apply(context.Background(), "http://example.com"); err == nil {
		t.Error("Apply() = nil, want error for unwritable pointer file")
	}
}

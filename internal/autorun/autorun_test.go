package autorun

import (
	"errors"
	"testing"
)

type fakeEntry struct {
	enabled  bool
	enables  int
	disables int
	err      error
}

func (f *fakeEntry) IsEnabled() bool { return f.enabled }

func (f *fakeEntry) Enable() error {
	f.enables++
	if f.err != nil {
		return f.err
	}
	f.enabled = true
	return nil
}

func (f *fakeEntry) Disable() error {
	f.disables++
	if f.err != nil {
		return f.err
	}
	f.enabled = false
	return nil
}

func TestApply(t *testing.T) {
	fake := &fakeEntry{}
	l := &Launcher{app: fake}

	if err := l.Apply(false); err != nil || fake.enables+fake.disables != 0 {
		t.Fatalf("Apply(false) on disabled: err=%v calls=%d/%d", err, fake.enables, fake.disables)
	}
	if err := l.Apply(true); err != nil || !fake.enabled || fake.enables != 1 {
		t.Fatalf("Apply(true): err=%v enabled=%v enables=%d", err, fake.enabled, fake.enables)
	}
	if err := l.Apply(true); err != nil || fake.enables != 1 {
		t.Fatalf("Apply(true) twice: err=%v enables=%d, want 1", err, fake.enables)
	}
	if err := l.Apply(false); err != nil || fake.enabled || fake.disables != 1 {
		t.Fatalf("Apply(false): err=%v enabled=%v disables=%d", err, fake.enabled, fake.disables)
	}
}

func TestApplyWrapsErrors(t *testing.T) {
	boom := errors.New("read-only file system")
	l := &Launcher{app: &fakeEntry{err: boom}}
	err := l.Apply(true)
	if !errors.Is(err, boom) {
		t.Fatalf("Apply err = %v, want wrapped %v", err, boom)
	}
}

func TestNewBuildsExec(t *testing.T) {
	l := New("/usr/bin/weathertray", "tray")
	if l.app == nil {
		t.Fatal("New returned launcher without entry")
	}
}

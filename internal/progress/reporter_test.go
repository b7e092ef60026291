package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter(&bytes.Buffer{}).(*CIReporter); !ok {
		t.Error("expected a CIReporter when CI is set")
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter(&bytes.Buffer{}).(*TerminalReporter); !ok {
		t.Error("expected a TerminalReporter outside CI")
	}
}

func TestCIReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{out: &buf}
	r.Start(2)
	r.Update(1, "fifo on a.csv")
	r.Update(2, "knuth on a.csv")
	r.Finish()

	want := []string{
		"Starting 2 simulation runs",
		"[1/2] fifo on a.csv",
		"[2/2] knuth on a.csv",
		"Batch complete",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTerminalReporterWithoutStart(t *testing.T) {
	r := &TerminalReporter{out: &bytes.Buffer{}}
	// Update and Finish before Start must not panic.
	r.Update(1, "x")
	r.Finish()
}

func TestTerminalReporterWritesBar(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{out: &buf}
	r.Start(2)
	r.Update(1, "fifo on a.csv")
	r.Update(2, "knuth on a.csv")
	r.Finish()
	if buf.Len() == 0 {
		t.Error("expected progress bar output")
	}
}

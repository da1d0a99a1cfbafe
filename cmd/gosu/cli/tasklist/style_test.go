package tasklist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/creack/pty"
)

func TestStyler_PlainWhenNotTerminal(t *testing.T) {
	t.Parallel()
	s := NewStyler(&bytes.Buffer{})
	if got := s.Status(StatusDone); got != "done" {
		t.Errorf("Status(done) = %q, want plain text", got)
	}
	if got := s.quoted(StatusDone); got != "'done'" {
		t.Errorf("quoted(done) = %q", got)
	}
}

func TestStyler_ColorOnTerminal(t *testing.T) {
	t.Parallel()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	s := NewStyler(tty)
	got := s.Status(StatusPending)
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "pending") {
		t.Errorf("Status(pending) = %q, want ANSI-colored text", got)
	}
	if strings.Contains(s.quoted(StatusPending), "'") {
		t.Errorf("quoted status should not add quotes when colored")
	}
}

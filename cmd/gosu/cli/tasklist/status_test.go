package tasklist

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()
	for _, name := range StatusNames() {
		got, err := ParseStatus(name)
		if err != nil || string(got) != name {
			t.Errorf("ParseStatus(%q) = %q, %v", name, got, err)
		}
	}

	_, err := ParseStatus("finished")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("ParseStatus(finished) error = %v, want ErrInvalidStatus", err)
	}
	want := "Invalid status 'finished'. Valid statuses: pending, in-progress, done, review, deferred"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestCheckboxRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		box  string
		want Status
	}{
		{"[ ]", StatusPending},
		{"[-]", StatusInProgress},
		{"[x]", StatusDone},
		{"[+]", StatusReview},
		{"[*]", StatusDeferred},
		{"[?]", StatusPending},
	}
	for _, tt := range tests {
		if got := StatusFromCheckbox(tt.box); got != tt.want {
			t.Errorf("StatusFromCheckbox(%q) = %q, want %q", tt.box, got, tt.want)
		}
	}
	for _, s := range Statuses {
		if got := StatusFromCheckbox(s.Checkbox()); got != s {
			t.Errorf("round trip of %q gave %q", s, got)
		}
	}
}

func TestCompleted(t *testing.T) {
	t.Parallel()
	want := map[Status]bool{
		StatusPending:    false,
		StatusInProgress: false,
		StatusDone:       true,
		StatusReview:     true,
		StatusDeferred:   true,
	}
	for s, w := range want {
		if s.Completed() != w {
			t.Errorf("%s.Completed() = %v, want %v", s, s.Completed(), w)
		}
	}
}

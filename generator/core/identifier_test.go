package core

import (
	"strings"
	"testing"
)

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("NewRunID() returned %s twice", a)
	}
	if len(a.String()) != 36 {
		t.Errorf("len(%q) = %d, want 36", a, len(a.String()))
	}
	if short := a.Short(); len(short) != 8 || !strings.HasPrefix(a.String(), short) {
		t.Errorf("Short() = %q, want the first 8 characters of %q", short, a)
	}
}

func TestRunID_ShortWithoutDash(t *testing.T) {
	if got := RunID("plain").Short(); got != "plain" {
		t.Errorf("Short() = %q, want %q", got, "plain")
	}
}

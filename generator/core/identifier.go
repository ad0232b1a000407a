package core

import (
	"strings"

	"github.com/google/uuid"
)

// RunID identifies a single generation run. It names the run's scratch
// directory and tags its log lines.
type RunID string

func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// Short returns the first group of the identifier, enough to tell runs apart in logs.
func (id RunID) Short() string {
	s := string(id)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

func (id RunID) String() string {
	return string(id)
}

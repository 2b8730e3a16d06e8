package playback

import (
	"errors"
	"fmt"
)

// ErrNoSelection reports a play request without a valid file.
var ErrNoSelection = errors.New("no audio file selected")

// Stage names the step of a play call that failed.
type Stage string

const (
	StageOutput Stage = "open output"
	StageOpen   Stage = "open file"
	StageDecode Stage = "decode"
)

// Error describes a failed play call.
type Error struct {
	Stage Stage
	Path  string
	Err   error
}

// Error returns the formatted failure.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("playback %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("playback %s %q: %v", e.Stage, e.Path, e.Err)
}

// Unwrap returns the underlying failure.
func (e *Error) Unwrap() error {
	return e.Err
}

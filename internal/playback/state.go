package playback

import "time"

// Status identifies the playback state machine position.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
)

// String returns the display name for a status.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// DefaultVolume is the volume applied when none is configured.
const DefaultVolume = 0.8

// noIndex marks an unset current index.
const noIndex = -1

// State is a snapshot of the music player.
type State struct {
	Current  int
	Status   Status
	Position time.Duration
	Volume   float64
}

// CurrentIndex returns the selected file index when one is recorded.
func (s State) CurrentIndex() (int, bool) {
	if s.Current < 0 {
		return 0, false
	}
	return s.Current, true
}

// ClampVolume keeps a volume in [0, 1].
func ClampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

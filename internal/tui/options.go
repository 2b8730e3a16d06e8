package tui

import "time"

// Settings holds the pomodoro and playback preferences edited in the UI.
type Settings struct {
	DurationIndex int
	CustomMinutes int
	PlayDuring    bool
	PlayOnFinish  bool
	Volume        float64
}

// pomodoroDurations lists the selectable session lengths in minutes.
var pomodoroDurations = []int{15, 20, 25, 30, 45}

// DefaultSettings returns a 25 minute session with music enabled.
func DefaultSettings() Settings {
	return Settings{
		DurationIndex: 2,
		PlayDuring:    true,
		PlayOnFinish:  true,
		Volume:        0.8,
	}
}

// Minutes returns the effective session length.
func (s Settings) Minutes() int {
	if s.CustomMinutes > 0 {
		return s.CustomMinutes
	}
	return pomodoroDurations[clamp(s.DurationIndex, 0, len(pomodoroDurations)-1)]
}

type Option func(*Model)

func WithSettings(settings Settings) Option {
	return func(m *Model) {
		settings.DurationIndex = clamp(settings.DurationIndex, 0, len(pomodoroDurations)-1)
		m.state.settings = settings
	}
}

func WithPlayer(player Player) Option {
	return func(m *Model) {
		if player != nil {
			m.player = player
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDashboard controls the welcome screen and the version it shows.
func WithDashboard(show bool, version string) Option {
	return func(m *Model) {
		m.showDashboard = show
		m.version = version
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

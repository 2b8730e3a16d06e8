package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// DurationOptions lists the selectable pomodoro lengths in minutes.
var DurationOptions = []int{15, 20, 25, 30, 45}

type Config struct {
	Music    MusicConfig    `toml:"music"`
	Pomodoro PomodoroConfig `toml:"pomodoro"`
	Tasks    TasksConfig    `toml:"tasks"`
	UI       UIConfig       `toml:"ui"`
	Keys     KeyConfig      `toml:"keys"`
	Logging  LoggingConfig  `toml:"logging"`
}

type MusicConfig struct {
	Dir    string  `toml:"dir"`
	Volume float64 `toml:"volume"`
}

type PomodoroConfig struct {
	DurationIndex int  `toml:"duration_index"`
	CustomMinutes int  `toml:"custom_minutes"` // 0 means use duration_index
	PlayDuring    bool `toml:"play_during"`
	PlayOnFinish  bool `toml:"play_on_finish"`
}

type TasksConfig struct {
	SeedSamples bool `toml:"seed_samples"`
}

type UIConfig struct {
	ShowDashboard bool `toml:"show_dashboard"`
}

// KeyConfig overrides the secondary global shortcuts. Blank keeps the default.
type KeyConfig struct {
	Search     string `toml:"search"`
	TaskInfo   string `toml:"task_info"`
	Complete   string `toml:"complete"`
	CopyTitle  string `toml:"copy_title"`
	ToggleHelp string `toml:"toggle_help"`
}

type LoggingConfig struct {
	Level   string               `toml:"level"`
	DevFile LoggingDevFileConfig `toml:"dev_file"`
}

// LoggingDevFileConfig configures the rotating dev log. A blank Level follows logging.level.
type LoggingDevFileConfig struct {
	Enabled    bool   `toml:"enabled"`
	Level      string `toml:"level"`
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

func Default(musicDir string) Config {
	return Config{
		Music: MusicConfig{
			Dir:    musicDir,
			Volume: 0.8,
		},
		Pomodoro: PomodoroConfig{
			DurationIndex: 2,
			PlayDuring:    true,
			PlayOnFinish:  true,
		},
		Tasks: TasksConfig{
			SeedSamples: true,
		},
		UI: UIConfig{
			ShowDashboard: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: LoggingDevFileConfig{
				Enabled:    true,
				Dir:        ".pomotask/log",
				MaxSizeMB:  10,
				MaxBackups: 3,
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Music.Volume < 0 || c.Music.Volume > 1 {
		return fmt.Errorf("music.volume must be within [0, 1]: %v", c.Music.Volume)
	}
	if c.Pomodoro.DurationIndex < 0 || c.Pomodoro.DurationIndex >= len(DurationOptions) {
		return fmt.Errorf("pomodoro.duration_index must be within [0, %d]: %d", len(DurationOptions)-1, c.Pomodoro.DurationIndex)
	}
	if c.Pomodoro.CustomMinutes < 0 || c.Pomodoro.CustomMinutes > 240 {
		return fmt.Errorf("pomodoro.custom_minutes must be within [0, 240]: %d", c.Pomodoro.CustomMinutes)
	}

	if !validLogLevel(c.Logging.Level) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if lvl := c.Logging.DevFile.Level; strings.TrimSpace(lvl) != "" && !validLogLevel(lvl) {
		return fmt.Errorf("invalid logging.dev_file.level: %q", lvl)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when the dev file sink is enabled")
	}
	if err := c.Keys.validate(); err != nil {
		return err
	}
	if c.Logging.DevFile.MaxSizeMB < 0 {
		return fmt.Errorf("logging.dev_file.max_size_mb must be >= 0: %d", c.Logging.DevFile.MaxSizeMB)
	}
	if c.Logging.DevFile.MaxBackups < 0 {
		return fmt.Errorf("logging.dev_file.max_backups must be >= 0: %d", c.Logging.DevFile.MaxBackups)
	}

	return nil
}

func validLogLevel(raw string) bool {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "debug", "info", "warn", "error", "fatal":
		return true
	}
	return false
}

// FileLevel returns the dev file sink level, falling back to the console level.
func (c LoggingConfig) FileLevel() string {
	if lvl := strings.TrimSpace(c.DevFile.Level); lvl != "" {
		return lvl
	}
	return c.Level
}

// validate rejects overrides that collide with each other or with fixed keys.
func (k KeyConfig) validate() error {
	reserved := map[string]string{
		"q": "quit", "j": "navigation", "k": "navigation", "a": "new task", "n": "new task",
		"p": "pomodoro", "o": "settings", "esc": "close", "tab": "focus",
	}
	seen := map[string]string{}
	for _, entry := range []struct{ name, value string }{
		{"keys.search", k.Search},
		{"keys.task_info", k.TaskInfo},
		{"keys.complete", k.Complete},
		{"keys.copy_title", k.CopyTitle},
		{"keys.toggle_help", k.ToggleHelp},
	} {
		value := strings.TrimSpace(entry.value)
		if value == "" {
			continue
		}
		lookup := strings.ToLower(value)
		if owner, ok := reserved[lookup]; ok {
			return fmt.Errorf("%s %q is reserved for %s", entry.name, value, owner)
		}
		if prev, ok := seen[lookup]; ok {
			return fmt.Errorf("%s %q duplicates %s", entry.name, value, prev)
		}
		seen[lookup] = entry.name
	}
	return nil
}

// PomodoroMinutes returns the effective session length.
func (c Config) PomodoroMinutes() int {
	if c.Pomodoro.CustomMinutes > 0 {
		return c.Pomodoro.CustomMinutes
	}
	return DurationOptions[c.Pomodoro.DurationIndex]
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

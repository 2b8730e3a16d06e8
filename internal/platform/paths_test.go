package platform

import (
	"errors"
	"path/filepath"
	"testing"
)

// TestPathsFor verifies per-OS resolution of config, data, music and log paths.
func TestPathsFor(t *testing.T) {
	linuxBase := BaseDirs{Config: "/home/me/.config", Data: "/home/me/.local/share", Home: "/home/me"}
	cases := []struct {
		name       string
		goos       string
		env        map[string]string
		base       BaseDirs
		wantConfig string
		wantData   string
		wantMusic  string
	}{
		{
			name: "linux with xdg",
			goos: "linux",
			env: map[string]string{
				"XDG_CONFIG_HOME": "/xdg/config",
				"XDG_DATA_HOME":   "/xdg/data",
				"XDG_MUSIC_DIR":   "/media/tunes",
			},
			base:       linuxBase,
			wantConfig: filepath.Join("/xdg/config", "pomotask", "config.toml"),
			wantData:   filepath.Join("/xdg/data", "pomotask"),
			wantMusic:  "/media/tunes",
		},
		{
			name:       "linux without xdg",
			goos:       "linux",
			env:        map[string]string{},
			base:       linuxBase,
			wantConfig: filepath.Join("/home/me/.config", "pomotask", "config.toml"),
			wantData:   filepath.Join("/home/me/.local/share", "pomotask"),
			wantMusic:  filepath.Join("/home/me", "Music"),
		},
		{
			name: "windows uses appdata",
			goos: "windows",
			env: map[string]string{
				"APPDATA":      `C:\Users\me\AppData\Roaming`,
				"LOCALAPPDATA": `C:\Users\me\AppData\Local`,
			},
			base:       BaseDirs{Config: `C:\fallback\config`, Data: `C:\fallback\data`, Home: `C:\Users\me`},
			wantConfig: filepath.Join(`C:\Users\me\AppData\Roaming`, "pomotask", "config.toml"),
			wantData:   filepath.Join(`C:\Users\me\AppData\Local`, "pomotask"),
			wantMusic:  filepath.Join(`C:\Users\me`, "Music"),
		},
		{
			name: "darwin ignores xdg",
			goos: "darwin",
			env: map[string]string{
				"XDG_CONFIG_HOME": "/ignored",
				"XDG_MUSIC_DIR":   "/ignored",
			},
			base:       BaseDirs{Config: "/Users/me/Library/Application Support", Data: "/Users/me/Library/Application Support", Home: "/Users/me"},
			wantConfig: filepath.Join("/Users/me/Library/Application Support", "pomotask", "config.toml"),
			wantData:   filepath.Join("/Users/me/Library/Application Support", "pomotask"),
			wantMusic:  filepath.Join("/Users/me", "Music"),
		},
		{
			name:       "unknown os falls back to base dirs",
			goos:       "freebsd",
			env:        nil,
			base:       BaseDirs{Config: "/cfg", Data: "/data", Home: "/home/me"},
			wantConfig: filepath.Join("/cfg", "pomotask", "config.toml"),
			wantData:   filepath.Join("/data", "pomotask"),
			wantMusic:  filepath.Join("/home/me", "Music"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PathsFor(tc.goos, tc.env, tc.base, "pomotask")
			if err != nil {
				t.Fatalf("PathsFor() error = %v", err)
			}
			if p.ConfigPath != tc.wantConfig {
				t.Fatalf("unexpected config path %q, want %q", p.ConfigPath, tc.wantConfig)
			}
			if p.DataDir != tc.wantData {
				t.Fatalf("unexpected data dir %q, want %q", p.DataDir, tc.wantData)
			}
			if p.MusicDir != tc.wantMusic {
				t.Fatalf("unexpected music dir %q, want %q", p.MusicDir, tc.wantMusic)
			}
			if want := filepath.Join(tc.wantData, "log"); p.LogDir != want {
				t.Fatalf("unexpected log dir %q, want %q", p.LogDir, want)
			}
		})
	}
}

// TestPathsForRejectsMissingInputs verifies empty base dirs and app names fail.
func TestPathsForRejectsMissingInputs(t *testing.T) {
	if _, err := PathsFor("darwin", nil, BaseDirs{Data: "/tmp/data", Home: "/tmp"}, "pomotask"); !errors.Is(err, errEmptyBaseDirs) {
		t.Fatalf("expected errEmptyBaseDirs, got %v", err)
	}
	if _, err := PathsFor("linux", nil, BaseDirs{Config: "/cfg", Data: "/data"}, "pomotask"); !errors.Is(err, errEmptyBaseDirs) {
		t.Fatalf("expected errEmptyBaseDirs without home, got %v", err)
	}
	if _, err := PathsFor("linux", nil, BaseDirs{Config: "/cfg", Data: "/data", Home: "/home"}, "  "); err == nil {
		t.Fatal("expected error for empty app name")
	}
}

// TestDefaultPathsSmoke verifies behavior for the covered scenario.
func TestDefaultPathsSmoke(t *testing.T) {
	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if p.ConfigPath == "" || p.MusicDir == "" || p.LogDir == "" || p.DataDir == "" {
		t.Fatalf("expected non-empty paths, got %#v", p)
	}
}

// TestDefaultPathsWithOptionsDevMode verifies dev mode suffixes the app dirs.
func TestDefaultPathsWithOptionsDevMode(t *testing.T) {
	p, err := DefaultPathsWithOptions(Options{AppName: "pomotask", DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(filepath.Dir(p.ConfigPath)) != "pomotask-dev" {
		t.Fatalf("expected dev config dir suffix, got %q", p.ConfigPath)
	}
	if filepath.Base(filepath.Dir(p.LogDir)) != "pomotask-dev" {
		t.Fatalf("expected dev log dir, got %q", p.LogDir)
	}
}

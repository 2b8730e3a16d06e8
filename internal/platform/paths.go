package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths holds every on-disk location the app reads or writes.
type Paths struct {
	ConfigPath string
	DataDir    string
	MusicDir   string
	LogDir     string
}

// Options defines optional settings for path resolution.
type Options struct {
	AppName string
	DevMode bool
}

// BaseDirs are the per-user directories the OS reports before app-specific joins.
type BaseDirs struct {
	Config string
	Data   string
	Home   string
}

var errEmptyBaseDirs = errors.New("empty base dirs")

// DefaultPaths returns default paths.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{AppName: "pomotask"})
}

// DefaultPathsWithOptions resolves paths for the running OS and user.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = "pomotask"
	}
	if opts.DevMode {
		appName += "-dev"
	}

	base, err := userBaseDirs(runtime.GOOS)
	if err != nil {
		return Paths{}, err
	}
	env := map[string]string{}
	for _, key := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_MUSIC_DIR", "APPDATA", "LOCALAPPDATA"} {
		env[key] = os.Getenv(key)
	}
	return PathsFor(runtime.GOOS, env, base, appName)
}

// userBaseDirs asks the OS for config, data and home directories.
func userBaseDirs(goos string) (BaseDirs, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return BaseDirs{}, fmt.Errorf("user config dir: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return BaseDirs{}, fmt.Errorf("user home dir: %w", err)
	}
	dataDir := configDir
	if goos == "linux" {
		dataDir = filepath.Join(home, ".local", "share")
	}
	return BaseDirs{Config: configDir, Data: dataDir, Home: home}, nil
}

// PathsFor resolves per-app paths from explicit OS inputs.
func PathsFor(goos string, env map[string]string, base BaseDirs, appName string) (Paths, error) {
	if base.Config == "" || base.Data == "" || base.Home == "" {
		return Paths{}, errEmptyBaseDirs
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}

	configBase := base.Config
	dataBase := base.Data
	musicDir := filepath.Join(base.Home, "Music")

	switch goos {
	case "linux":
		if v := env["XDG_CONFIG_HOME"]; v != "" {
			configBase = v
		}
		if v := env["XDG_DATA_HOME"]; v != "" {
			dataBase = v
		}
		if v := env["XDG_MUSIC_DIR"]; v != "" {
			musicDir = v
		}
	case "windows":
		if v := env["APPDATA"]; v != "" {
			configBase = v
		}
		if v := env["LOCALAPPDATA"]; v != "" {
			dataBase = v
		}
	}

	appDataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    appDataDir,
		MusicDir:   musicDir,
		LogDir:     filepath.Join(appDataDir, "log"),
	}, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/pomotask/internal/adapters/audio"
	"github.com/evanschultz/pomotask/internal/adapters/library"
	"github.com/evanschultz/pomotask/internal/adapters/storage/sqlite"
	"github.com/evanschultz/pomotask/internal/app"
	"github.com/evanschultz/pomotask/internal/config"
	"github.com/evanschultz/pomotask/internal/platform"
	"github.com/evanschultz/pomotask/internal/playback"
	"github.com/evanschultz/pomotask/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// outputFactory builds the audio output handed to the playback controller.
var outputFactory = func() playback.Output {
	return audio.New()
}

// main handles main.
func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds flag values shared by every command.
type rootOptions struct {
	configPath string
	musicDir   string
	appName    string
	devMode    bool
}

// newRootCmd builds the command tree. No subcommand starts the TUI.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := &rootOptions{appName: "pomotask", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("POMOTASK_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("POMOTASK_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	cmd := &cobra.Command{
		Use:           "pomotask",
		Short:         "Terminal task list with a pomodoro timer and background music",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.musicDir, "music-dir", "", "directory scanned for mp3/wav files")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev) and the dev log file")

	cmd.AddCommand(newPathsCmd(opts, stdout), newVersionCmd(stdout))
	return cmd
}

// newPathsCmd prints the resolved runtime paths.
func newPathsCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data, music and log paths",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", resolveConfigPath(opts, paths))
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "music_dir: %s\n", resolveMusicDirOverride(opts, paths.MusicDir))
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// newVersionCmd prints the build version.
func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, _ = fmt.Fprintf(stdout, "pomotask %s\n", version)
			return nil
		},
	}
}

// resolvePaths resolves platform paths for the selected app name and mode.
func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// resolveConfigPath applies flag, then env, then platform default.
func resolveConfigPath(opts *rootOptions, paths platform.Paths) string {
	if p := strings.TrimSpace(opts.configPath); p != "" {
		return p
	}
	if envPath := strings.TrimSpace(os.Getenv("POMOTASK_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// resolveMusicDirOverride returns the flag or env music dir, else fallback.
func resolveMusicDirOverride(opts *rootOptions, fallback string) string {
	if dir := strings.TrimSpace(opts.musicDir); dir != "" {
		return dir
	}
	if envDir := strings.TrimSpace(os.Getenv("POMOTASK_MUSIC_DIR")); envDir != "" {
		return envDir
	}
	return fallback
}

// runTUI wires the store, music library and player, then runs the program loop.
func runTUI(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := resolvePaths(opts)
	if err != nil {
		return err
	}
	configPath := resolveConfigPath(opts, paths)

	cfg, err := config.Load(configPath, config.Default(paths.MusicDir))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	cfg.Music.Dir = resolveMusicDirOverride(opts, cfg.Music.Dir)

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the list is active.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil && logger.ConsoleEnabled() {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "music_dir", cfg.Music.Dir)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	files, err := library.Scan(cfg.Music.Dir, library.WithLogger(logger))
	if err != nil {
		logger.Warn("music library scan failed", "music_dir", cfg.Music.Dir, "err", err)
	}
	logger.Info("music library scanned", "music_dir", cfg.Music.Dir, "files", len(files))

	repo, err := sqlite.OpenInMemory()
	if err != nil {
		logger.Error("sqlite open failed", "err", err)
		return fmt.Errorf("open task store: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "err", closeErr)
		}
	}()

	svc := app.NewService(repo, uuid.NewString, time.Now)
	if cfg.Tasks.SeedSamples {
		created, err := svc.SeedSampleTasks(ctx)
		if err != nil {
			logger.Error("seed sample tasks failed", "err", err)
			return fmt.Errorf("seed sample tasks: %w", err)
		}
		logger.Debug("sample tasks seeded", "count", created)
	}

	player := playback.NewController(outputFactory(), files,
		playback.WithVolume(cfg.Music.Volume),
		playback.WithLogger(logger),
	)
	defer player.Stop()

	m := tui.NewModel(
		svc,
		tui.WithPlayer(player),
		tui.WithLogger(logger),
		tui.WithSettings(toTUISettings(cfg)),
		tui.WithKeyConfig(toTUIKeyConfig(cfg.Keys)),
		tui.WithDashboard(cfg.UI.ShowDashboard, version),
	)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("tui program loop finished")
	return nil
}

// toTUISettings maps config values into the UI settings.
func toTUISettings(cfg config.Config) tui.Settings {
	return tui.Settings{
		DurationIndex: cfg.Pomodoro.DurationIndex,
		CustomMinutes: cfg.Pomodoro.CustomMinutes,
		PlayDuring:    cfg.Pomodoro.PlayDuring,
		PlayOnFinish:  cfg.Pomodoro.PlayOnFinish,
		Volume:        cfg.Music.Volume,
	}
}

// toTUIKeyConfig maps configured shortcut overrides.
func toTUIKeyConfig(keys config.KeyConfig) tui.KeyConfig {
	return tui.KeyConfig{
		Search:     keys.Search,
		TaskInfo:   keys.TaskInfo,
		Complete:   keys.Complete,
		CopyTitle:  keys.CopyTitle,
		ToggleHelp: keys.ToggleHelp,
	}
}

// parseBoolEnv parses a boolean environment variable.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

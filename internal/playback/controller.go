package playback

import (
	"io"
	"sync"
	"time"

	"github.com/evanschultz/pomotask/internal/domain"
)

// Output opens the device, the file and the decoded stream for one play call.
type Output interface {
	OpenOutput() error
	OpenFile(path string) (io.ReadSeekCloser, error)
	Decode(path string, src io.ReadSeekCloser, volume float64) (Sink, error)
}

// Sink is a live, playing stream. Drained reports that the stream reached its end.
type Sink interface {
	SetPaused(paused bool)
	Position() time.Duration
	Drained() bool
	Close() error
}

// Logger receives playback diagnostics.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// nopLogger discards playback diagnostics.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes diagnostics to logger.
func WithLogger(logger Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithVolume sets the initial volume.
func WithVolume(volume float64) Option {
	return func(c *Controller) {
		c.state.Volume = ClampVolume(volume)
	}
}

// Controller owns the single live sink and the player state.
type Controller struct {
	mu     sync.Mutex
	output Output
	files  []domain.AudioFileInfo
	sink   Sink
	state  State
	logger Logger
}

// NewController constructs a stopped controller over the scanned files.
func NewController(output Output, files []domain.AudioFileInfo, opts ...Option) *Controller {
	c := &Controller{
		output: output,
		files:  append([]domain.AudioFileInfo(nil), files...),
		state: State{
			Current: noIndex,
			Status:  StatusStopped,
			Volume:  DefaultVolume,
		},
		logger: nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Files returns the playable files in display order.
func (c *Controller) Files() []domain.AudioFileInfo {
	return append([]domain.AudioFileInfo(nil), c.files...)
}

// Play stops any current sink and starts the file at index.
func (c *Controller) Play(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked(index)
}

// Toggle flips Playing and Paused, replaying the current file when the sink is gone.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseDrainedLocked()
	if c.sink != nil {
		switch c.state.Status {
		case StatusPlaying:
			c.sink.SetPaused(true)
			c.state.Status = StatusPaused
		default:
			c.sink.SetPaused(false)
			c.state.Status = StatusPlaying
		}
		return nil
	}
	if c.state.Current < 0 {
		return nil
	}
	return c.playLocked(c.state.Current)
}

// Stop releases the sink. Calling it with nothing playing is safe.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// SetVolume records the volume used by the next play call.
func (c *Controller) SetVolume(volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Volume = ClampVolume(volume)
}

// State returns a snapshot of the player.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseDrainedLocked()
	out := c.state
	if c.sink != nil {
		out.Position = c.sink.Position()
	}
	return out
}

// playLocked runs one play call. The caller holds c.mu.
func (c *Controller) playLocked(index int) error {
	c.stopLocked()
	if index < 0 || index >= len(c.files) {
		return ErrNoSelection
	}
	c.state.Current = index
	file := c.files[index]

	if err := c.output.OpenOutput(); err != nil {
		return c.failLocked(&Error{Stage: StageOutput, Err: err})
	}
	src, err := c.output.OpenFile(file.Path)
	if err != nil {
		return c.failLocked(&Error{Stage: StageOpen, Path: file.Path, Err: err})
	}
	sink, err := c.output.Decode(file.Path, src, c.state.Volume)
	if err != nil {
		_ = src.Close()
		return c.failLocked(&Error{Stage: StageDecode, Path: file.Path, Err: err})
	}
	c.sink = sink
	c.state.Status = StatusPlaying
	c.logger.Debug("playback started", "file", file.Name, "volume", c.state.Volume)
	return nil
}

// stopLocked releases the sink. The caller holds c.mu.
func (c *Controller) stopLocked() {
	if c.sink != nil {
		if err := c.sink.Close(); err != nil {
			c.logger.Warn("close audio sink failed", "err", err)
		}
	}
	c.sink = nil
	c.state.Status = StatusStopped
}

// releaseDrainedLocked drops a sink whose stream ended on its own, keeping the
// current index so Toggle replays it. The caller holds c.mu.
func (c *Controller) releaseDrainedLocked() {
	if c.sink == nil || !c.sink.Drained() {
		return
	}
	c.logger.Debug("playback finished", "file", c.files[c.state.Current].Name)
	c.stopLocked()
}

// failLocked resets to Stopped and reports err. The caller holds c.mu.
func (c *Controller) failLocked(err *Error) error {
	c.sink = nil
	c.state.Status = StatusStopped
	c.logger.Error("playback failed", "stage", string(err.Stage), "path", err.Path, "err", err.Err)
	return err
}

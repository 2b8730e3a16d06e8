package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/evanschultz/pomotask/internal/playback"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// SampleRate is the device rate every decoded stream is resampled to.
const SampleRate beep.SampleRate = 44100

// resampleQuality is passed to beep.Resample.
const resampleQuality = 4

// ErrUnsupportedFormat reports a file extension the decoder cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// device is the process-wide speaker.
type device interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// speakerDevice drives the beep speaker package.
type speakerDevice struct{}

func (speakerDevice) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerDevice) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerDevice) Clear()               { speaker.Clear() }
func (speakerDevice) Lock()                { speaker.Lock() }
func (speakerDevice) Unlock()              { speaker.Unlock() }

// Output plays mp3 and wav files through the speaker.
type Output struct {
	mu     sync.Mutex
	dev    device
	opened bool
}

var _ playback.Output = (*Output)(nil)

// New constructs an Output bound to the system speaker.
func New() *Output {
	return &Output{dev: speakerDevice{}}
}

// OpenOutput initializes the speaker on first use.
func (o *Output) OpenOutput() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.opened {
		return nil
	}
	if err := o.dev.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	o.opened = true
	return nil
}

// OpenFile opens one audio file for decoding.
func (o *Output) OpenFile(path string) (io.ReadSeekCloser, error) {
	return os.Open(path)
}

// Decode decodes src by extension and starts it on the speaker.
func (o *Output) Decode(path string, src io.ReadSeekCloser, volume float64) (playback.Sink, error) {
	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(src)
	case ".wav":
		stream, format, err = wav.Decode(src)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	var streamer beep.Streamer = stream
	if format.SampleRate != SampleRate {
		streamer = beep.Resample(resampleQuality, format.SampleRate, SampleRate, stream)
	}
	ctrl := &beep.Ctrl{Streamer: streamer}
	sink := &sink{
		dev:    o.dev,
		src:    src,
		stream: stream,
		format: format,
		ctrl:   ctrl,
		volume: volumeEffect(ctrl, volume),
	}
	o.dev.Play(beep.Seq(sink.volume, beep.Callback(func() { sink.drained.Store(true) })))
	return sink, nil
}

// volumeEffect maps a linear volume in [0, 1] onto a base-2 gain.
func volumeEffect(s beep.Streamer, volume float64) *effects.Volume {
	volume = playback.ClampVolume(volume)
	v := &effects.Volume{Streamer: s, Base: 2}
	if volume == 0 {
		v.Silent = true
		return v
	}
	v.Volume = math.Log2(volume)
	return v
}

// sink is one live speaker stream.
type sink struct {
	dev    device
	src    io.Closer
	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	volume *effects.Volume
	closed bool
	// drained is set from the speaker goroutine when the stream runs out.
	drained atomic.Bool
}

func (s *sink) SetPaused(paused bool) {
	s.dev.Lock()
	s.ctrl.Paused = paused
	s.dev.Unlock()
}

func (s *sink) Drained() bool { return s.drained.Load() }

func (s *sink) Position() time.Duration {
	s.dev.Lock()
	defer s.dev.Unlock()
	if s.closed {
		return 0
	}
	return s.format.SampleRate.D(s.stream.Position())
}

// Close halts the stream and releases the decoder and file.
func (s *sink) Close() error {
	s.dev.Lock()
	if s.closed {
		s.dev.Unlock()
		return nil
	}
	s.closed = true
	s.ctrl.Streamer = nil
	s.dev.Unlock()
	s.dev.Clear()

	err := s.stream.Close()
	if srcErr := s.src.Close(); srcErr != nil && !errors.Is(srcErr, os.ErrClosed) && err == nil {
		err = srcErr
	}
	return err
}

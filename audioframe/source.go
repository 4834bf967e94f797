package audioframe

import (
	"sync"
	"time"
)

// Clock supplies the current project time and play state. It is the
// external collaborator described in spec §6 ("Clock/Playback Binding");
// the engine never blocks on it.
type Clock interface {
	CurrentTimeSeconds() float64
	IsPlaying() bool
}

// Analyzer is the external collaborator described in spec §6 ("Audio
// analyzer source"): on demand it fills caller-provided buffers with the
// latest frequency and time-domain readings and reports the rates they were
// captured at. Implementations must never block past a bounded read and
// must never retain the passed-in slices.
type Analyzer interface {
	// Read fills freq (len fftSize/2) and timeDomain (len fftSize) with the
	// latest analysis. Returns false if no reading is currently available
	// (e.g. analyzer not yet started), in which case the caller treats the
	// tick as AnalyzerUnavailable and zero-fills instead.
	Read(freq, timeDomain []byte) (sampleRate, fftSize int, ok bool)
}

// Source is the Audio Frame Source contract (spec §4.1): Acquire is called
// exactly once per render tick, before any network evaluation or draw.
type Source interface {
	Acquire() Frame
}

// ManualClock is a minimal Clock used by tests, the CLI devkit, and any host
// that drives time itself rather than through a media element. It mirrors
// the teacher's pattern of a tiny struct with an atomic-free mutex guard
// since playback toggles and time advances happen from the same goroutine
// in the single-threaded tick model (spec §5).
type ManualClock struct {
	mu      sync.Mutex
	seconds float64
	playing bool
}

// NewManualClock returns a stopped clock at t=0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) CurrentTimeSeconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seconds
}

func (c *ManualClock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Advance moves the clock forward by dt seconds while playing; while
// stopped it is a no-op, matching a paused playhead.
func (c *ManualClock) Advance(dt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.seconds += dt.Seconds()
	}
}

// Seek jumps the clock to t seconds, regardless of play state.
func (c *ManualClock) Seek(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seconds = t
}

// SetPlaying toggles play state.
func (c *ManualClock) SetPlaying(playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = playing
}

// FrameClock derives time from a frame counter and fps, the preferred
// source per spec §4.1 ("time is sourced preferentially from the playback
// clock: frame number ÷ fps").
type FrameClock struct {
	mu      sync.Mutex
	frame   int64
	fps     float64
	playing bool
}

// NewFrameClock returns a FrameClock at frame 0 for the given fps.
func NewFrameClock(fps float64) *FrameClock {
	if fps <= 0 {
		fps = 60
	}
	return &FrameClock{fps: fps}
}

func (c *FrameClock) CurrentTimeSeconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.frame) / c.fps
}

func (c *FrameClock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Tick advances the frame counter by one while playing.
func (c *FrameClock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.frame++
	}
}

func (c *FrameClock) SetPlaying(playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = playing
}

package audioframe

import "testing"

func TestEmptyFallsBackToDefaultsWhenUnset(t *testing.T) {
	f := Empty(0, 0)
	if f.SampleRate != DefaultSampleRate {
		t.Fatalf("got sample rate %d, want default %d", f.SampleRate, DefaultSampleRate)
	}
	if f.FFTSize != DefaultFFTSize {
		t.Fatalf("got fft size %d, want default %d", f.FFTSize, DefaultFFTSize)
	}
	if len(f.FrequencyBins) != DefaultFFTSize/2 {
		t.Fatalf("got %d frequency bins, want %d", len(f.FrequencyBins), DefaultFFTSize/2)
	}
	if len(f.TimeDomainSamples) != DefaultFFTSize {
		t.Fatalf("got %d time-domain samples, want %d", len(f.TimeDomainSamples), DefaultFFTSize)
	}
}

func TestBinWidth(t *testing.T) {
	f := Empty(44100, 2048)
	got := f.BinWidth()
	want := (44100.0 / 2) / (2048.0 / 2)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBinWidthZeroFFTSize(t *testing.T) {
	f := Frame{}
	if got := f.BinWidth(); got != 0 {
		t.Fatalf("got %v, want 0 for an empty frame", got)
	}
}

func TestManualClockAdvanceOnlyWhilePlaying(t *testing.T) {
	c := NewManualClock()
	if c.IsPlaying() {
		t.Fatal("expected a fresh ManualClock to start stopped")
	}

	c.Advance(500_000_000) // 0.5s, should be a no-op while stopped
	if got := c.CurrentTimeSeconds(); got != 0 {
		t.Fatalf("got %v, want 0 (clock must not advance while stopped)", got)
	}

	c.SetPlaying(true)
	c.Advance(500_000_000)
	if got := c.CurrentTimeSeconds(); got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}

	c.SetPlaying(false)
	c.Advance(500_000_000)
	if got := c.CurrentTimeSeconds(); got != 0.5 {
		t.Fatalf("got %v, want 0.5 (must not advance once stopped again)", got)
	}
}

func TestManualClockSeek(t *testing.T) {
	c := NewManualClock()
	c.Seek(12.5)
	if got := c.CurrentTimeSeconds(); got != 12.5 {
		t.Fatalf("got %v, want 12.5", got)
	}
}

func TestFrameClockTicksOnlyWhilePlaying(t *testing.T) {
	c := NewFrameClock(60)
	c.Tick()
	if got := c.CurrentTimeSeconds(); got != 0 {
		t.Fatalf("got %v, want 0 (must not tick while stopped)", got)
	}

	c.SetPlaying(true)
	for i := 0; i < 60; i++ {
		c.Tick()
	}
	if got := c.CurrentTimeSeconds(); got != 1.0 {
		t.Fatalf("got %v, want 1.0 after 60 ticks at 60fps", got)
	}
}

func TestFrameClockDefaultsFPSWhenNonPositive(t *testing.T) {
	c := NewFrameClock(0)
	c.SetPlaying(true)
	for i := 0; i < 60; i++ {
		c.Tick()
	}
	if got := c.CurrentTimeSeconds(); got != 1.0 {
		t.Fatalf("got %v, want 1.0 (fps should default to 60)", got)
	}
}

// fakeAnalyzer lets tests control Read's return values deterministically.
type fakeAnalyzer struct {
	ok         bool
	sampleRate int
	fftSize    int
	fill       byte
}

func (a *fakeAnalyzer) Read(freq, timeDomain []byte) (int, int, bool) {
	if !a.ok {
		return 0, 0, false
	}
	for i := range freq {
		freq[i] = a.fill
	}
	for i := range timeDomain {
		timeDomain[i] = a.fill
	}
	return a.sampleRate, a.fftSize, true
}

func TestLiveSourceZeroFillsWhenAnalyzerUnavailable(t *testing.T) {
	var warned string
	src := NewLiveSource(&fakeAnalyzer{ok: false}, nil)
	src.OnWarning(func(kind, msg string) { warned = kind })

	f := src.Acquire()
	for _, b := range f.FrequencyBins {
		if b != 0 {
			t.Fatal("expected frequency bins to be zero-filled")
		}
	}
	for _, b := range f.TimeDomainSamples {
		if b != 128 {
			t.Fatal("expected time-domain samples to be centered at 128")
		}
	}
	if warned != "AnalyzerUnavailable" {
		t.Fatalf("got warning kind %q, want AnalyzerUnavailable", warned)
	}
}

func TestLiveSourceUsesAnalyzerReading(t *testing.T) {
	clock := NewManualClock()
	clock.Seek(2.0)
	// fftSize matches LiveSource's default pre-allocation (DefaultFFTSize)
	// so the reading survives without an Acquire-time buffer resize.
	src := NewLiveSource(&fakeAnalyzer{ok: true, sampleRate: 48000, fftSize: DefaultFFTSize, fill: 200}, clock)

	f := src.Acquire()
	if f.SampleRate != 48000 || f.FFTSize != DefaultFFTSize {
		t.Fatalf("got rate=%d fft=%d, want 48000/%d", f.SampleRate, f.FFTSize, DefaultFFTSize)
	}
	if f.Time != 2.0 {
		t.Fatalf("got time %v, want 2.0 from the clock", f.Time)
	}
	if len(f.FrequencyBins) != DefaultFFTSize/2 || f.FrequencyBins[0] != 200 {
		t.Fatalf("expected a %d-bin reading filled with 200, got len=%d v=%v", DefaultFFTSize/2, len(f.FrequencyBins), f.FrequencyBins)
	}
}

func TestLiveSourceNilAnalyzerYieldsZeroTime(t *testing.T) {
	src := NewLiveSource(nil, nil)
	f := src.Acquire()
	if f.Time != 0 {
		t.Fatalf("got time %v, want 0 with a nil clock", f.Time)
	}
	if f.SampleRate != DefaultSampleRate || f.FFTSize != DefaultFFTSize {
		t.Fatalf("got rate=%d fft=%d, want the package defaults with a nil analyzer", f.SampleRate, f.FFTSize)
	}
}

package audioframe

import "sync"

// LiveSource is the default Source implementation: it pulls from an
// Analyzer and a Clock on every Acquire call, reusing two pre-allocated
// buffers across ticks (spec §4.1: "Buffers ... are pre-allocated and
// reused"). It never throws; a missing or not-yet-ready Analyzer yields
// silent buffers (frequency bins 0, time-domain samples 128) and the last
// known-good sampleRate/fftSize, falling
// back to package defaults if none has ever been observed (§4.1 failure
// model, error kind AnalyzerUnavailable in §7).
//
// The struct shape — a mutex-guarded handle plus reused scratch buffers —
// follows the teacher's AudioEngine (client/audio.go): a single owner
// (Acquire, called once per tick) mutates state; the mutex exists only
// because hosts may swap the Analyzer from another goroutine (e.g. a GUI
// device picker) while a tick is in flight.
type LiveSource struct {
	mu       sync.Mutex
	analyzer Analyzer
	clock    Clock

	freqBuf    []byte
	timeBuf    []byte
	lastRate   int
	lastFFT    int
	warn       func(kind, msg string)
}

// NewLiveSource returns a Source that reads analyzer and clock on every
// Acquire. Either may be nil; a nil analyzer always yields silent buffers
// (frequency bins 0, time-domain samples 128), a nil clock always yields
// time=0.
func NewLiveSource(analyzer Analyzer, clock Clock) *LiveSource {
	return &LiveSource{
		analyzer: analyzer,
		clock:    clock,
		freqBuf:  make([]byte, DefaultFFTSize/2),
		timeBuf:  make([]byte, DefaultFFTSize),
		lastRate: DefaultSampleRate,
		lastFFT:  DefaultFFTSize,
	}
}

// OnWarning registers a callback invoked when the analyzer is unavailable
// for a tick (error kind AnalyzerUnavailable, spec §7). May be nil.
func (s *LiveSource) OnWarning(fn func(kind, msg string)) {
	s.mu.Lock()
	s.warn = fn
	s.mu.Unlock()
}

// SetAnalyzer swaps the underlying analyzer, e.g. when the host switches
// audio source (live capture vs. offline export render).
func (s *LiveSource) SetAnalyzer(a Analyzer) {
	s.mu.Lock()
	s.analyzer = a
	s.mu.Unlock()
}

// Acquire implements Source.
func (s *LiveSource) Acquire() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate, fft, ok := s.lastRate, s.lastFFT, false
	if s.analyzer != nil {
		if n := fft / 2; len(s.freqBuf) != n {
			s.freqBuf = make([]byte, n)
		}
		if len(s.timeBuf) != fft {
			s.timeBuf = make([]byte, fft)
		}
		r, f, got := s.analyzer.Read(s.freqBuf, s.timeBuf)
		if got && r > 0 && f > 0 {
			rate, fft, ok = r, f, true
			s.lastRate, s.lastFFT = r, f
			if len(s.freqBuf) != f/2 {
				s.freqBuf = make([]byte, f/2)
			}
			if len(s.timeBuf) != f {
				s.timeBuf = make([]byte, f)
			}
		}
	}

	if !ok {
		if s.warn != nil {
			s.warn("AnalyzerUnavailable", "audio analyzer not ready; zero-filling buffers")
		}
		for i := range s.freqBuf {
			s.freqBuf[i] = 0
		}
		for i := range s.timeBuf {
			s.timeBuf[i] = 128
		}
	}

	return Frame{
		FrequencyBins:     s.freqBuf,
		TimeDomainSamples: s.timeBuf,
		SampleRate:        rate,
		FFTSize:           fft,
		Time:              s.currentTime(),
	}
}

func (s *LiveSource) currentTime() float64 {
	if s.clock == nil {
		return 0
	}
	return s.clock.CurrentTimeSeconds()
}

package audioframe

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// PortAudioAnalyzer is a live Analyzer backed by a PortAudio input stream: it
// continuously captures mono float32 PCM in a callback (as the teacher's
// AudioEngine.captureLoop does for voice capture, client/audio.go) and keeps
// a rolling window that Read() turns into the byte-encoded frequency and
// time-domain arrays the rest of the engine expects.
//
// Frequency magnitudes and time-domain samples are encoded as unsigned
// bytes, matching the source analyzer contract's documented range: time
// domain is centered at 128, frequency magnitude is scaled into [0,255]
// against a fixed reference so a silent room reads near 0 and clipping
// reads near 255.
type PortAudioAnalyzer struct {
	mu         sync.Mutex
	stream     *portaudio.Stream
	ring       []float32
	ringLen    int
	head       int
	filled     bool
	sampleRate int
	fftSize    int
	fft        *fourier.FFT
	win        []float64
	scratch    []float64
}

// NewPortAudioAnalyzer opens a default-input PortAudio stream capturing mono
// float32 PCM at sampleRate, analyzed in windows of fftSize samples (must be
// a power of two >= 512 per spec §3). Call Close when done.
func NewPortAudioAnalyzer(sampleRate, fftSize int) (*PortAudioAnalyzer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	coeffs := make([]float64, fftSize)
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	a := &PortAudioAnalyzer{
		ring:       make([]float32, fftSize),
		ringLen:    fftSize,
		sampleRate: sampleRate,
		fftSize:    fftSize,
		fft:        fourier.NewFFT(fftSize),
		win:        window.Hann(coeffs),
		scratch:    make([]float64, fftSize),
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), fftSize/4, a.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	a.stream = stream
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	return a, nil
}

// callback is invoked by PortAudio on its own thread with newly captured
// samples; it only ever appends to the ring buffer, mirroring the teacher's
// rule that captureLoop is the sole writer of capture state.
func (a *PortAudioAnalyzer) callback(in []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range in {
		a.ring[a.head] = s
		a.head = (a.head + 1) % a.ringLen
		if a.head == 0 {
			a.filled = true
		}
	}
}

// Read implements Analyzer.
func (a *PortAudioAnalyzer) Read(freq, timeDomain []byte) (sampleRate, fftSize int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.filled {
		return 0, 0, false
	}

	// Unwind the ring buffer into windowed scratch, oldest sample first.
	for i := 0; i < a.ringLen; i++ {
		idx := (a.head + i) % a.ringLen
		a.scratch[i] = float64(a.ring[idx]) * a.win[i]
		if len(timeDomain) == a.ringLen {
			timeDomain[i] = floatToByteCentered(a.ring[idx])
		}
	}

	coeffs := a.fft.Coefficients(nil, a.scratch)
	n := a.ringLen / 2
	if len(freq) == n {
		for i := 0; i < n; i++ {
			mag := 0.0
			if i < len(coeffs) {
				mag = cabs(coeffs[i])
			}
			freq[i] = magnitudeToByte(mag, a.ringLen)
		}
	}

	return a.sampleRate, a.ringLen, true
}

// Close stops the capture stream and releases PortAudio resources.
func (a *PortAudioAnalyzer) Close() error {
	a.mu.Lock()
	stream := a.stream
	a.stream = nil
	a.mu.Unlock()
	if stream == nil {
		return nil
	}
	err := stream.Close()
	portaudio.Terminate()
	return err
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func floatToByteCentered(s float32) byte {
	v := (float64(s)*127.5 + 128)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}

// magnitudeToByte scales an FFT bin magnitude into [0,255] using a reference
// tied to the window size so full-scale input saturates near 255.
func magnitudeToByte(mag float64, fftSize int) byte {
	ref := float64(fftSize) / 4
	v := (mag / ref) * 255
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}

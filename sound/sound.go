// Package sound implements the sound device collaborator the simulation
// leaves abstract (play(asset_index, position, volume, pitch)), as a
// beep-backed procedural tone generator: an oscillator+envelope
// generator paired with a queued, non-blocking playback loop on top of
// github.com/gopxl/beep.
package sound

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = 44100

// waveform selects the oscillator shape for an Asset.
type waveform int

const (
	waveSine waveform = iota
	waveSquare
	waveSaw
	waveNoise
)

// Asset describes a synthesized sound effect: the waveform, its base
// frequency in Hz, and attack/release envelope times in seconds.
type Asset struct {
	Wave      waveform
	Freq      float64
	Duration  time.Duration
	Attack    float64
	Release   float64
}

// Default asset table, indexed by the netmsg.EventPayload.AssetIndex
// values the session/server package broadcasts. Index 0 is a short
// blank (silence), matching the "no sound" default.
var DefaultAssets = []Asset{
	{Wave: waveSine, Freq: 0, Duration: 0},
	{Wave: waveSquare, Freq: 440, Duration: 120 * time.Millisecond, Attack: 0.005, Release: 0.05},  // fire
	{Wave: waveSaw, Freq: 180, Duration: 300 * time.Millisecond, Attack: 0.01, Release: 0.2},       // impact
	{Wave: waveNoise, Freq: 0, Duration: 500 * time.Millisecond, Attack: 0.01, Release: 0.4},        // explosion
	{Wave: waveSine, Freq: 880, Duration: 80 * time.Millisecond, Attack: 0.002, Release: 0.03},      // pickup/arrival
}

// Device is the play(asset_index, position, volume, pitch) collaborator
// interface the simulation leaves abstract.
type Device interface {
	Play(assetIndex uint32, x, y, volume, pitch float32)
}

// BeepDevice plays Assets through the system audio device via beep's
// speaker package. It is safe for concurrent use by multiple goroutines
// broadcasting events.
type BeepDevice struct {
	mu     sync.Mutex
	assets []Asset
}

// NewBeepDevice initializes the speaker at sampleRate and returns a
// Device backed by assets (DefaultAssets if nil). Init tolerates
// repeated calls, so test harnesses may construct multiple devices.
func NewBeepDevice(assets []Asset) (*BeepDevice, error) {
	if assets == nil {
		assets = DefaultAssets
	}
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &BeepDevice{assets: assets}, nil
}

// Play synthesizes assetIndex's waveform scaled by volume and pitch and
// plays it asynchronously. Out-of-range indices and zero-duration
// assets are silently no-ops: an event with no registered asset is
// simply dropped, the same way an unknown message type is.
func (d *BeepDevice) Play(assetIndex uint32, x, y, volume, pitch float32) {
	d.mu.Lock()
	idx := int(assetIndex)
	if idx < 0 || idx >= len(d.assets) {
		d.mu.Unlock()
		return
	}
	asset := d.assets[idx]
	d.mu.Unlock()

	if asset.Duration <= 0 {
		return
	}
	freq := asset.Freq * float64(pitch)
	if freq <= 0 {
		freq = asset.Freq
	}
	samples := int(asset.Duration.Seconds() * sampleRate)
	buf := oscillator(asset.Wave, freq, samples)
	applyEnvelope(buf, asset.Attack, asset.Release)

	gain := float64(volume)
	streamer := &bufferStreamer{buf: buf, gain: gain}
	speaker.Play(streamer)
}

// oscillator generates samples samples of waveType at freq Hz.
func oscillator(waveType waveform, freq float64, samples int) []float64 {
	buf := make([]float64, samples)
	phase := 0.0
	phaseInc := freq / sampleRate

	for i := 0; i < samples; i++ {
		switch waveType {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1.0
			} else {
				buf[i] = -1.0
			}
		case waveSaw:
			buf[i] = 2.0 * (phase - 0.5)
		case waveNoise:
			buf[i] = rand.Float64()*2 - 1
		}
		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// applyEnvelope applies a linear attack/release envelope in place.
func applyEnvelope(buf []float64, attackSec, releaseSec float64) {
	total := len(buf)
	attackSamples := int(attackSec * sampleRate)
	releaseSamples := int(releaseSec * sampleRate)

	releaseStart := total - releaseSamples
	if releaseStart < attackSamples {
		releaseStart = attackSamples
	}

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attackSamples && attackSamples > 0 {
			vol = float64(i) / float64(attackSamples)
		} else if i >= releaseStart && releaseSamples > 0 {
			vol = float64(total-i) / float64(releaseSamples)
		}
		buf[i] *= vol
	}
}

// bufferStreamer adapts a mono float64 buffer, scaled by gain, into a
// beep.Streamer playing it once through both channels.
type bufferStreamer struct {
	buf  []float64
	gain float64
	pos  int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= len(s.buf) {
			return i, i > 0
		}
		v := s.buf[s.pos] * s.gain
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
	}
	return len(samples), true
}

func (s *bufferStreamer) Err() error { return nil }

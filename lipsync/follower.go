// Package lipsync drives a puppet parameter from audio loudness.
//
// A [Follower] wraps a beep.Streamer. Audio passes through unchanged; on the
// way it measures the loudness of each chunk and writes it, scaled to the
// parameter's range, into a [marionette.Param1D]. Hook it between a decoder
// and the speaker to open a puppet's mouth while a voice line plays:
//
//	f := lipsync.NewFollower(streamer, eng.Param1D("Mouth:: Open"), format.SampleRate)
//	speaker.Play(f)
package lipsync

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/phanxgames/marionette"
)

// Follower is a beep.Streamer that follows the loudness envelope of the
// wrapped streamer and stores it into a parameter.
//
// Stream runs on the audio goroutine. The parameter write is atomic, so the
// engine may read it concurrently. Fields must not be changed once playback
// has started.
type Follower struct {
	Streamer beep.Streamer
	Param    *marionette.Param1D
	Rate     beep.SampleRate

	// Floor is the RMS level mapped to the parameter minimum; Ceiling the
	// level mapped to the maximum.
	Floor, Ceiling float64

	// Attack and Release are the envelope time constants for rising and
	// falling loudness.
	Attack, Release time.Duration

	env   float64
	level marionette.AtomicFloat32
}

// NewFollower returns a Follower with defaults tuned for speech.
func NewFollower(s beep.Streamer, p *marionette.Param1D, rate beep.SampleRate) *Follower {
	return &Follower{
		Streamer: s,
		Param:    p,
		Rate:     rate,
		Floor:    0.02,
		Ceiling:  0.25,
		Attack:   15 * time.Millisecond,
		Release:  120 * time.Millisecond,
	}
}

// Stream reads from the wrapped streamer and updates the envelope.
func (f *Follower) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.Streamer.Stream(samples)
	if n == 0 {
		return n, ok
	}

	var sum float64
	for _, s := range samples[:n] {
		sum += (s[0]*s[0] + s[1]*s[1]) / 2
	}
	rms := math.Sqrt(sum / float64(n))

	tau := f.Release
	if rms > f.env {
		tau = f.Attack
	}
	f.env = rms + (f.env-rms)*f.decay(tau, n)

	level := 0.0
	if f.Ceiling > f.Floor {
		level = (f.env - f.Floor) / (f.Ceiling - f.Floor)
	}
	level = min(max(level, 0), 1)
	f.level.Store(float32(level))

	if f.Param != nil {
		axis := f.Param.Axis()
		f.Param.Set(axis.Min + float32(level)*(axis.Max-axis.Min))
	}
	return n, ok
}

// decay returns how much of the previous envelope survives n samples with
// time constant tau.
func (f *Follower) decay(tau time.Duration, n int) float64 {
	if tau <= 0 || f.Rate <= 0 {
		return 0
	}
	return math.Exp(-float64(n) / (tau.Seconds() * float64(f.Rate)))
}

// Err returns the wrapped streamer's error.
func (f *Follower) Err() error {
	return f.Streamer.Err()
}

// Level returns the last measured loudness in [0, 1]. It is safe to call
// from any goroutine.
func (f *Follower) Level() float32 {
	return f.level.Load()
}

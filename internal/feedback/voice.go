// Package feedback synthesizes click descriptions, plays them off the UI path and animates particles.
package feedback

import (
	"math/rand"
	"time"
	"unicode/utf16"

	"github.com/verte-zerg/keyzen/internal/model"
)

const jitterSpan = 0.1

// Filter is the noise filter of a click.
type Filter int

// Filters.
const (
	HighPass Filter = iota
	LowPass
)

func (f Filter) String() string {
	if f == LowPass {
		return "lowpass"
	}
	return "highpass"
}

// Voice describes one synthesized click: a filtered noise burst plus a falling tone.
type Voice struct {
	Profile model.Profile
	Rate    float64

	NoiseFilter   Filter
	NoiseCutoffHz float64
	NoiseLength   time.Duration

	ToneStartHz float64
	ToneEndHz   float64
	ToneLength  time.Duration
}

// Duration is how long the click sounds.
func (v Voice) Duration() time.Duration {
	return max(v.NoiseLength, v.ToneLength)
}

// Offset maps a seed to a stable pitch deviation in (-0.25, 0.25).
// The hash runs over UTF-16 code units with 32-bit wraparound and keeps its sign.
func Offset(seed string) float64 {
	var h int32
	for _, c := range utf16.Encode([]rune(seed)) {
		h = int32(c) + ((h << 5) - h)
	}
	return float64(h%100) / 400
}

// Rate returns the playback rate for seed. A nil rnd disables the random jitter.
func Rate(seed string, rnd *rand.Rand) float64 {
	r := 1 + Offset(seed)
	if rnd != nil {
		r += rnd.Float64()*jitterSpan - jitterSpan/2
	}
	return r
}

// NewVoice builds the click for profile at the given playback rate.
func NewVoice(profile model.Profile, rate float64) Voice {
	if profile == model.ProfileLinear {
		return Voice{
			Profile:       profile,
			Rate:          rate,
			NoiseFilter:   LowPass,
			NoiseCutoffHz: 400 * rate,
			NoiseLength:   100 * time.Millisecond,
			ToneStartHz:   200 * rate,
			ToneEndHz:     50,
			ToneLength:    150 * time.Millisecond,
		}
	}
	return Voice{
		Profile:       profile,
		Rate:          rate,
		NoiseFilter:   HighPass,
		NoiseCutoffHz: 2000 * rate,
		NoiseLength:   50 * time.Millisecond,
		ToneStartHz:   600,
		ToneEndHz:     100,
		ToneLength:    100 * time.Millisecond,
	}
}

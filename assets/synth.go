// Package assets synthesizes the ambient loops and interface chimes. Nothing
// is loaded from disk; every sound is generated with beep and handed to the
// ebiten audio context as raw PCM.
package assets

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/milk9111/neonfolio/prefabs"
)

const SampleRate = beep.SampleRate(44100)

const (
	defaultTrackLength = 8 * time.Second
	defaultTrackVolume = 0.3
	maxTrackLength     = 30 * time.Second
)

// Track describes one synthesized ambient loop.
type Track struct {
	Name    string
	Root    float64
	Pulse   float64
	Shimmer float64
	Length  time.Duration
	Volume  float64
}

func TrackFromSpec(spec prefabs.TrackSpec) Track {
	t := Track{
		Name:    spec.Name,
		Root:    spec.Root,
		Pulse:   spec.Pulse,
		Shimmer: spec.Shimmer,
		Length:  time.Duration(spec.Seconds * float64(time.Second)),
		Volume:  spec.Volume,
	}
	return t.normalized()
}

func (t Track) normalized() Track {
	if t.Root <= 0 {
		t.Root = 55
	}
	if t.Pulse < 0 {
		t.Pulse = 0
	}
	t.Shimmer = math.Max(0, math.Min(1, t.Shimmer))
	if t.Length <= 0 {
		t.Length = defaultTrackLength
	}
	if t.Length > maxTrackLength {
		t.Length = maxTrackLength
	}
	if t.Volume <= 0 {
		t.Volume = defaultTrackVolume
	}
	if t.Volume > 1 {
		t.Volume = 1
	}
	return t
}

// droneGenerator is a detuned root with a fifth and octave, amplitude pulsed
// at Pulse Hz. Shimmer mixes in a slowly beating upper partial.
type droneGenerator struct {
	sr      beep.SampleRate
	root    float64
	pulse   float64
	shimmer float64
	pos     int
}

// NewDrone returns a finite streamer for one pass of the track. The pulse is
// snapped to a whole number of cycles per pass so the loop point is silent.
func NewDrone(t Track, sr beep.SampleRate) beep.Streamer {
	t = t.normalized()
	seconds := t.Length.Seconds()
	pulse := t.Pulse
	if pulse > 0 {
		pulse = math.Max(1, math.Round(pulse*seconds)) / seconds
	}
	g := &droneGenerator{
		sr:      sr,
		root:    math.Round(t.Root*seconds) / seconds,
		pulse:   pulse,
		shimmer: t.Shimmer,
	}
	return beep.Take(sr.N(t.Length), g)
}

func (g *droneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		base := 0.5*math.Sin(2*math.Pi*g.root*t) +
			0.25*math.Sin(2*math.Pi*g.root*1.5*t) +
			0.15*math.Sin(2*math.Pi*g.root*2*t)

		amp := 1.0
		if g.pulse > 0 {
			amp = 0.65 + 0.35*math.Cos(2*math.Pi*g.pulse*t)
		}

		left := base * amp
		right := left
		if g.shimmer > 0 {
			s := g.shimmer * 0.2 * math.Sin(2*math.Pi*g.root*4*t)
			left += s * (0.5 + 0.5*math.Sin(2*math.Pi*0.25*t))
			right += s * (0.5 - 0.5*math.Sin(2*math.Pi*0.25*t))
		}

		samples[i][0] = left * 0.8
		samples[i][1] = right * 0.8
		g.pos++
	}
	return len(samples), true
}

func (g *droneGenerator) Err() error { return nil }

// toneGenerator is a single decaying sine, used for chimes.
type toneGenerator struct {
	sr    beep.SampleRate
	freq  float64
	total int
	pos   int
}

func newTone(freq float64, d time.Duration, sr beep.SampleRate) beep.Streamer {
	return &toneGenerator{sr: sr, freq: freq, total: sr.N(d)}
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		env := 1 - float64(g.pos)/float64(g.total)
		attack := math.Min(1, float64(g.pos)/float64(g.sr.N(5*time.Millisecond)+1))
		v := 0.6 * env * attack * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error { return nil }

type Effect int

const (
	EffectClick Effect = iota
	EffectLevelUp
	EffectAchievement
	EffectTransmit
)

func (e Effect) String() string {
	switch e {
	case EffectClick:
		return "click"
	case EffectLevelUp:
		return "levelup"
	case EffectAchievement:
		return "achievement"
	case EffectTransmit:
		return "transmit"
	default:
		return "unknown"
	}
}

// NewEffect returns a short one-shot streamer for e.
func NewEffect(e Effect, sr beep.SampleRate) beep.Streamer {
	note := func(freq float64, ms int) beep.Streamer {
		return newTone(freq, time.Duration(ms)*time.Millisecond, sr)
	}
	switch e {
	case EffectLevelUp:
		return beep.Seq(note(523.25, 90), note(659.25, 90), note(783.99, 90), note(1046.5, 260))
	case EffectAchievement:
		return beep.Mix(note(659.25, 400), beep.Seq(beep.Silence(sr.N(80*time.Millisecond)), note(987.77, 320)))
	case EffectTransmit:
		return beep.Seq(note(880, 60), note(1320, 60), note(1760, 160))
	default:
		return note(1200, 45)
	}
}

// RenderPCM drains s into 16-bit little endian stereo, the format
// audio.Context expects. At most max frames are rendered; max <= 0 means no
// limit, so s must be finite.
func RenderPCM(s beep.Streamer, max int) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	frames := 0
	for max <= 0 || frames < max {
		chunk := buf
		if max > 0 && max-frames < len(chunk) {
			chunk = chunk[:max-frames]
		}
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(chunk[i][0])))
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(chunk[i][1])))
		}
		frames += n
		if !ok || n == 0 {
			break
		}
	}
	return out
}

func toInt16(v float64) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(math.Round(v * math.MaxInt16))
}

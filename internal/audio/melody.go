package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Note is a pitch held for a number of beats. A zero frequency is a rest.
type Note struct {
	Freq  float64
	Beats float64
}

// HappyBirthday is the tune played when the celebration track is unavailable.
var HappyBirthday = []Note{
	{392.00, 0.75}, {392.00, 0.25}, {440.00, 1}, {392.00, 1}, {523.25, 1}, {493.88, 2},
	{392.00, 0.75}, {392.00, 0.25}, {440.00, 1}, {392.00, 1}, {587.33, 1}, {523.25, 2},
	{392.00, 0.75}, {392.00, 0.25}, {783.99, 1}, {659.25, 1}, {523.25, 1}, {493.88, 1}, {440.00, 2},
	{698.46, 0.75}, {698.46, 0.25}, {659.25, 1}, {523.25, 1}, {587.33, 1}, {523.25, 3},
}

// MelodyGenerator renders a note sequence as soft sine tones with a short
// attack and an exponential release on every note.
type MelodyGenerator struct {
	sr    beep.SampleRate
	notes []Note
	beat  int // samples per beat

	note   int // current note index
	pos    int // sample position inside the note
	length int // current note length in samples
}

// NewMelodyGenerator creates a generator playing notes at bpm.
func NewMelodyGenerator(sr beep.SampleRate, notes []Note, bpm float64) *MelodyGenerator {
	if bpm <= 0 {
		bpm = 120
	}
	g := &MelodyGenerator{
		sr:    sr,
		notes: notes,
		beat:  sr.N(time.Duration(float64(time.Minute) / bpm)),
	}
	g.resetNote()
	return g
}

// Len is the total number of samples the melody produces.
func (g *MelodyGenerator) Len() int {
	total := 0
	for _, n := range g.notes {
		total += int(n.Beats * float64(g.beat))
	}
	return total
}

func (g *MelodyGenerator) resetNote() {
	g.pos = 0
	g.length = 0
	if g.note < len(g.notes) {
		g.length = int(g.notes[g.note].Beats * float64(g.beat))
	}
}

// Stream implements beep.Streamer. It ends after the last note.
func (g *MelodyGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		for g.note < len(g.notes) && g.pos >= g.length {
			g.note++
			g.resetNote()
		}
		if g.note >= len(g.notes) {
			return i, i > 0
		}

		nt := g.notes[g.note]
		sample := 0.0
		if nt.Freq > 0 {
			t := float64(g.pos) / float64(g.sr)

			// Envelope - quick attack, exponential release
			attack := math.Min(t/0.01, 1.0)
			release := math.Exp(-3 * float64(g.pos) / float64(g.length))
			sample = 0.25 * attack * release * (math.Sin(2*math.Pi*nt.Freq*t) + 0.3*math.Sin(4*math.Pi*nt.Freq*t))
		}

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *MelodyGenerator) Err() error {
	return nil
}

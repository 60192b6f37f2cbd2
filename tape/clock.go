// SPDX-License-Identifier: EPL-2.0

package tape

import (
	"fmt"
	"math"
)

// BarClock maps tape positions to bars. It belongs to whatever keeps the
// tempo; the deck only asks it where bars start.
type BarClock interface {
	// BarOf returns the bar containing pos.
	BarOf(pos int) int
	// StartOf returns the position where bar begins.
	StartOf(bar int) int
}

// FixedBars is a BarClock whose bars all last the given number of frames.
type FixedBars int

// BarsAt returns the clock for a constant tempo.
func BarsAt(sampleRate int, bpm float64, beatsPerBar int) FixedBars {
	return FixedBars(math.Round(float64(sampleRate) * 60 / bpm * float64(beatsPerBar)))
}

func (b FixedBars) BarOf(pos int) int {
	n := max(int(b), 1)
	if pos < 0 {
		return -((-pos + n - 1) / n)
	}
	return pos / n
}

func (b FixedBars) StartOf(bar int) int { return bar * max(int(b), 1) }

// Timecode formats pos as MM:SS.ss.
func Timecode(pos, sampleRate int) string {
	if sampleRate <= 0 {
		return "00:00.00"
	}
	seconds := float64(pos) / float64(sampleRate)
	return fmt.Sprintf("%02d:%05.2f", int(seconds/60), math.Mod(seconds, 60))
}

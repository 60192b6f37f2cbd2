// SPDX-License-Identifier: EPL-2.0

package sampler

import "math"

type Direction uint8

const (
	Forward Direction = iota
	Backward
)

type Playback uint8

const (
	OneShot Playback = iota
	Loop
)

// Mode is how a voice walks its region.
type Mode struct {
	Direction Direction
	Playback  Playback
}

const modeCount = 4

func modeAt(i int) Mode {
	i = ((i % modeCount) + modeCount) % modeCount
	return Mode{Direction: Direction(i / 2), Playback: Playback(i % 2)}
}

func (m Mode) ordinal() int { return int(m.Direction)*2 + int(m.Playback) }

// Next cycles forward through the four modes, as the mode encoder does.
func (m Mode) Next() Mode { return modeAt(m.ordinal() + 1) }

// Prev cycles backward through the four modes.
func (m Mode) Prev() Mode { return modeAt(m.ordinal() - 1) }

func (m Mode) String() string {
	dir := "forward"
	if m.Direction == Backward {
		dir = "backward"
	}
	if m.Playback == Loop {
		return dir + " loop"
	}
	return dir + " one-shot"
}

const (
	MinSpeed = 1.0 / 64
	MaxSpeed = 16.0
)

// Region is the span [In, Out) of the buffer a voice plays, how it plays it
// and how fast. A zero Speed means 1.
type Region struct {
	In, Out int
	Mode    Mode
	Speed   float64
}

// Len is the number of frames in the region.
func (r Region) Len() int { return max(r.Out-r.In, 0) }

// clamp fits the region inside a buffer of length frames: In in [0, length]
// and Out in [In, length]. Speed is normalised to [MinSpeed, MaxSpeed].
func (r Region) clamp(length int) Region {
	r.In = min(max(r.In, 0), length)
	r.Out = min(max(r.Out, r.In), length)

	switch {
	case r.Speed == 0 || math.IsNaN(r.Speed):
		r.Speed = 1
	case r.Speed < 0:
		r.Speed = min(max(-r.Speed, MinSpeed), MaxSpeed)
	default:
		r.Speed = min(max(r.Speed, MinSpeed), MaxSpeed)
	}
	return r
}

// step is the signed cursor step for the region's direction.
func (r Region) step() float64 {
	if r.Mode.Direction == Backward {
		return -r.Speed
	}
	return r.Speed
}

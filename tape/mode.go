// SPDX-License-Identifier: EPL-2.0

package tape

// Mode is the transport state.
type Mode uint8

const (
	Stopped Mode = iota
	Playing
	Recording
	SpoolingForward
	SpoolingBackward
)

func (m Mode) String() string {
	switch m {
	case Playing:
		return "playing"
	case Recording:
		return "recording"
	case SpoolingForward:
		return "spooling forward"
	case SpoolingBackward:
		return "spooling backward"
	default:
		return "stopped"
	}
}

func (m Mode) Spooling() bool { return m == SpoolingForward || m == SpoolingBackward }

// controls is the transport state the render context follows. A published
// value is never modified.
type controls struct {
	mode    Mode
	track   int
	speed   float64 // base play speed, signed
	spool   float64 // signed spool rate
	looping bool
	loop    Slice

	// take identifies the recording pass so the render context can tell a
	// new take from the one it is writing.
	take      uint64
	takeTrack int
}

// rate is how far the head moves per frame.
func (c *controls) rate() float64 {
	switch {
	case c.mode == Playing:
		return c.speed
	case c.mode == Recording:
		return 1
	case c.mode.Spooling():
		return c.spool
	default:
		return 0
	}
}

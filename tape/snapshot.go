// SPDX-License-Identifier: EPL-2.0

package tape

// Snapshot is a read-only view of the deck for display.
type Snapshot struct {
	Mode       Mode
	Track      int
	Head       int
	Length     int
	SampleRate int
	// Speed is the base play speed; Rate is how far the head moves per
	// frame in the current mode.
	Speed   float64
	Rate    float64
	Looping bool
	Loop    Slice

	// Armed is set from the record press until punch-out. Writing is set
	// once the render context has started the take, and Take is the span
	// written so far.
	Armed     bool
	Writing   bool
	Take      Slice
	TakeTrack int

	Slices [Tracks]*SliceList
	Clip   int
}

// Snapshot gathers the deck state. It is safe to call from any goroutine
// but the render context.
func (d *Deck) Snapshot() Snapshot {
	c := d.controls.Load()
	st := d.state.Load()

	s := Snapshot{
		Mode:       c.mode,
		Track:      c.track,
		Head:       d.Position(),
		Length:     st.length,
		SampleRate: st.rate,
		Speed:      c.speed,
		Rate:       c.rate(),
		Looping:    c.looping,
		Loop:       c.loop,
		Armed:      c.mode == Recording,
		TakeTrack:  c.takeTrack,
		Clip:       d.Clip(),
	}
	for i := range s.Slices {
		s.Slices[i] = st.tracks[i].slices
	}

	if s.Armed && d.takeGen.Load() == c.take {
		s.Writing = true
		s.Take = Slice{In: max(int(d.takeIn.Load()), 0), Out: int(d.takeOut.Load())}
	}
	return s
}

// Timecode formats the snapshot head as MM:SS.ss.
func (s Snapshot) Timecode() string { return Timecode(s.Head, s.SampleRate) }

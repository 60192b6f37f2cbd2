// SPDX-License-Identifier: EPL-2.0

package tape

import "github.com/ik5/tapecore/utils"

// Process renders one block. The head moves as the transport says, the
// recorded audio of every track under it is added into out and, while
// recording, in is written to the take's track. in may be shorter than out
// or nil; missing input records silence.
//
// Process never blocks or allocates. It must only be called from the render
// context.
func (d *Deck) Process(in, out []float32) {
	d.seq.Add(1)

	// Controls before state: a take started after an edit writes to the
	// edited reel.
	c := d.controls.Load()
	st := d.state.Load()

	if p := d.seek.Load(); p >= 0 {
		d.head.Seek(min(int(p), st.length-1))
		d.headPos.Store(int64(d.head.Index()))
		d.seek.CompareAndSwap(p, -1)
	}

	d.follow(c)

	for off := 0; off < len(out); off += len(d.mix) {
		end := min(off+len(d.mix), len(out))
		var src []float32
		if off < len(in) {
			src = in[off:min(end, len(in))]
		}
		d.render(c, st, src, out[off:end])
	}

	d.headPos.Store(int64(d.head.Index()))
	d.seq.Add(1)
}

// follow opens a take when the controls ask for a new one and closes it when
// they no longer ask for recording.
func (d *Deck) follow(c *controls) {
	if c.mode != Recording {
		d.take.open = false
		return
	}
	if d.take.open && d.take.gen == c.take {
		return
	}

	in := d.head.Index()
	d.take = take{open: true, gen: c.take, track: c.takeTrack, in: in}
	d.takeIn.Store(int64(in))
	d.takeOut.Store(int64(in))
	d.takeGen.Store(c.take)
}

func (d *Deck) render(c *controls, st *tapeState, in, out []float32) {
	n := len(out)
	idx := d.idx[:n]
	d.move(c, st.length, idx)

	if d.take.open {
		d.record(st.tracks[d.take.track].audio, idx, in)
	}

	mix := d.mix[:n]
	for t := range st.tracks {
		tr := &st.tracks[t]
		if tr.slices.Len() == 0 || (d.take.open && t == d.take.track) {
			continue
		}
		d.play(t, tr, idx, mix)
		utils.MixInto(out, mix)
	}
}

// move fills idx with the tape position under the head for each frame, or
// -1 where the tape is still or the head is off the tape, and advances the
// head. Off the tape the head parks at -1 or at the tape length.
func (d *Deck) move(c *controls, length int, idx []int) {
	head, err := d.head.WithStep(c.rate())
	if err != nil {
		for f := range idx {
			idx[f] = -1
		}
		return
	}
	d.head = head

	loop := c.looping && c.mode != Recording && !c.loop.Empty()
	if loop {
		d.enter(c.loop)
	}
	for f := range idx {
		h := d.head.Index()
		if h >= 0 && h < length {
			idx[f] = h
		} else {
			idx[f] = -1
		}

		d.head.Inc()
		next := d.head.Index()
		if loop {
			next = d.wrap(h, next, c.loop)
		}

		switch {
		case next >= length:
			d.head.Seek(length)
		case next < 0:
			d.head.Seek(-1)
		}
	}
}

// wrap sends a head that just crossed the end of the loop section (its
// start, moving backward) to the matching place at the other end, and
// returns the new index. The remainder is kept so the loop length is exact.
func (d *Deck) wrap(prev, next int, loop Slice) int {
	n := loop.Len()
	target := next
	switch {
	case prev < loop.Out && next >= loop.Out:
		target = loop.In + (next-loop.In)%n
	case prev >= loop.In && next < loop.In:
		target = loop.Out - 1 - (loop.Out-1-next)%n
	}
	d.head.Shift(target - next)
	return target
}

// enter wraps a head that has already reached the end of the loop section
// in its direction of travel: on loop.Out moving forward, or on loop.In-1
// moving backward. GoToLoopOut leaves the head there.
func (d *Deck) enter(loop Slice) {
	h := d.head.Index()
	switch step := d.head.Step(); {
	case step > 0 && h == loop.Out:
		d.head.Shift(-loop.Len())
	case step < 0 && h == loop.In-1:
		d.head.Shift(loop.Len())
	}
}

func (d *Deck) record(r *reel, idx []int, in []float32) {
	last := -1
	for f, i := range idx {
		if i < 0 {
			continue
		}
		var v float32
		if f < len(in) {
			v = in[f]
		}
		r.set(i, v)
		last = i
	}
	if last >= 0 {
		d.takeOut.Store(int64(last + 1))
	}
}

// play writes the audio of tr under each head position into mix; positions
// no slice covers are silent.
func (d *Deck) play(t int, tr *track, idx []int, mix []float32) {
	sc := &d.spans[t]
	if sc.list != tr.slices {
		*sc = spanCache{list: tr.slices}
	}

	for f, i := range idx {
		if i < 0 {
			mix[f] = 0
			continue
		}
		if !sc.span.Contains(i) {
			sc.span, sc.covered = tr.slices.span(i)
		}
		if sc.covered {
			mix[f] = tr.audio.at(i)
		} else {
			mix[f] = 0
		}
	}
}

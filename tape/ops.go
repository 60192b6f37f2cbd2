// SPDX-License-Identifier: EPL-2.0

package tape

import (
	"errors"
	"fmt"

	"github.com/ik5/tapecore/audio"
)

// write copies src into the reel at [at, at+len(src)) in place. Only for
// reels not yet published.
func (r *reel) write(at int, src []float32) {
	for len(src) > 0 {
		c := r.chunks[at>>chunkBits]
		n := copy(c[at&chunkMask:], src)
		src = src[n:]
		at += n
	}
}

// covered returns the audio of tr from the start of the tape to the end of
// its last slice, silent where nothing is recorded.
func (tr track) covered() []float32 {
	out := make([]float32, tr.slices.End())
	for s := range tr.slices.All() {
		tr.audio.read(s.In, out[s.In:s.Out])
	}
	return out
}

// editSlices replaces the slices of the selected track with fn's result.
// Callers hold mu.
func (d *Deck) editSlices(fn func(*SliceList) *SliceList) error {
	if d.ctl.mode == Recording {
		return ErrRecording
	}

	st := d.state.Load()
	t := d.ctl.track
	cur := st.tracks[t].slices
	next := fn(cur)
	if next == cur {
		return nil
	}

	ns := *st
	ns.tracks[t].slices = next
	d.state.Store(&ns)
	return nil
}

// Cut splits the slice under pos on the selected track in two. Cutting at a
// boundary or in a gap changes nothing.
func (d *Deck) Cut(pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.editSlices(func(l *SliceList) *SliceList { return l.Cut(pos) })
}

// Glue joins the two slices of the selected track that meet at pos.
func (d *Deck) Glue(pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.editSlices(func(l *SliceList) *SliceList { return l.Glue(pos) })
}

// Lift takes the slice under the head off the selected track and holds its
// audio for Drop. The gap it leaves is silent.
func (d *Deck) Lift() (Slice, error) {
	pos := d.Position()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode == Recording {
		return Slice{}, ErrRecording
	}

	st := d.state.Load()
	tr := st.tracks[d.ctl.track]
	s, ok := tr.slices.Current(pos)
	if !ok {
		return Slice{}, ErrNoSlice
	}

	clip := make([]float32, s.Len())
	tr.audio.read(s.In, clip)
	d.clip = clip

	ns := *st
	ns.tracks[d.ctl.track].slices = tr.slices.Remove(s)
	d.state.Store(&ns)
	return s, nil
}

// Drop writes the lifted audio onto the selected track at the head,
// replacing whatever was there, and returns the slice it covers. The clip is
// kept, so it can be dropped again elsewhere.
func (d *Deck) Drop() (Slice, error) {
	pos := d.Position()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode == Recording {
		return Slice{}, ErrRecording
	}
	if len(d.clip) == 0 {
		return Slice{}, ErrEmptyClip
	}

	st := d.state.Load()
	s := Slice{In: pos, Out: min(pos+len(d.clip), st.length)}

	ns := *st
	tr := &ns.tracks[d.ctl.track]
	tr.audio = tr.audio.overwrite(s.In, d.clip[:s.Len()])
	tr.slices = tr.slices.Insert(s)
	d.state.Store(&ns)
	return s, nil
}

// Clip is the number of frames held by the last Lift.
func (d *Deck) Clip() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.clip)
}

// Bounce returns the audio of track t, modulo Tracks, up to the end of its
// last slice. Gaps are silent.
func (d *Deck) Bounce(t int) ([]float32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode == Recording {
		return nil, ErrRecording
	}
	return d.state.Load().tracks[trackOf(t)].covered(), nil
}

// SetSampleRate moves the tape to a new rate, keeping its length in
// seconds. Recorded audio and the lifted clip are resampled; slices, the
// loop section and the head are scaled to stay on the same material.
func (d *Deck) SetSampleRate(rate int) error {
	if rate <= 0 {
		return ErrInvalidRate
	}
	pos := d.Position()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode == Recording {
		return ErrRecording
	}

	st := d.state.Load()
	old := st.rate
	if rate == old {
		return nil
	}
	scale := func(v int) int { return int(int64(v) * int64(rate) / int64(old)) }

	ns := blankTape(d.seconds*rate, rate)
	for t, tr := range st.tracks {
		if tr.slices.Len() == 0 {
			continue
		}

		buf, err := resample(tr.covered(), old, rate, ns.length)
		if err != nil {
			return fmt.Errorf("resampling track %d: %w", t+1, err)
		}
		ns.tracks[t].audio.write(0, buf)

		// Scaling is monotonic, so order and cuts survive; only slices
		// that shrink to nothing are dropped.
		scaled := make([]Slice, 0, tr.slices.Len())
		for s := range tr.slices.All() {
			s = Slice{In: scale(s.In), Out: min(scale(s.Out), ns.length)}
			if !s.Empty() {
				scaled = append(scaled, s)
			}
		}
		ns.tracks[t].slices = tr.slices.with(scaled)
	}

	if len(d.clip) > 0 {
		clip, err := resample(d.clip, old, rate, ns.length)
		if err != nil {
			return fmt.Errorf("resampling clip: %w", err)
		}
		d.clip = clip
	}

	d.ctl.loop = Slice{In: scale(d.ctl.loop.In), Out: scale(d.ctl.loop.Out)}
	d.state.Store(ns)
	d.seek.Store(int64(min(scale(pos), ns.length-1)))
	d.publish()

	d.logger.Printf("tape: resampled from %d Hz to %d Hz", old, rate)
	return nil
}

func resample(samples []float32, from, to, capacity int) ([]float32, error) {
	buf, _, err := audio.ReadMono(audio.NewBufferSource(audio.NewBuffer(samples, from)), to, capacity, 4096)
	if err != nil && !errors.Is(err, audio.ErrEmptySource) {
		return nil, err
	}
	return buf.Samples(), nil
}

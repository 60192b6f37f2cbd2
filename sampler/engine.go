// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ik5/tapecore/audio"
	"github.com/ik5/tapecore/cursor"
)

// Voices is the size of the voice bank.
const Voices = 4

// DefaultMaxSeconds bounds the sample buffer when Options.MaxSeconds is 0.
const DefaultMaxSeconds = 16

// Loader reads the file at path into a mono buffer at rate, keeping at most
// capacity frames. It may return a partial or empty buffer together with an
// error.
type Loader func(path string, rate, capacity int) (*audio.Buffer, error)

type Options struct {
	// Logger receives load diagnostics. Nil discards them.
	Logger *log.Logger
	// Loader backs Load.
	Loader Loader
	// MaxSeconds bounds the buffer length in seconds of audio.
	MaxSeconds int
}

// patch is what the render context reads: a buffer and the regions already
// clamped to it. It is never modified after publication.
type patch struct {
	buf     *audio.Buffer
	regions [Voices]Region
}

// voice is render-owned playback state. pos is relative to the region's In.
type voice struct {
	pos     cursor.Position
	active  bool
	trigger bool
}

type Engine struct {
	// Control state, guarded by mu. The render path never takes mu.
	mu         sync.Mutex
	want       [Voices]Region
	buf        *audio.Buffer
	rate       int
	maxSeconds int
	loader     Loader
	logger     *log.Logger

	patch atomic.Pointer[patch]

	// Render state.
	voices   [Voices]voice
	progress [Voices]atomic.Int64
	current  atomic.Int32
}

// New returns an engine with an empty buffer. Every region starts as the
// whole buffer, forward one-shot at normal speed.
func New(sampleRate int, opts Options) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}

	e := &Engine{
		rate:       sampleRate,
		maxSeconds: opts.MaxSeconds,
		loader:     opts.Loader,
		logger:     opts.Logger,
		buf:        audio.NewBuffer(nil, sampleRate),
	}
	if e.maxSeconds <= 0 {
		e.maxSeconds = DefaultMaxSeconds
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}

	for i := range e.want {
		e.want[i] = Region{In: 0, Out: math.MaxInt, Speed: 1}
		e.progress[i].Store(-1)
	}

	e.mu.Lock()
	e.publish()
	e.mu.Unlock()

	return e, nil
}

func slotOf(key int) int { return ((key % Voices) + Voices) % Voices }

// publish clamps the requested regions to the current buffer and hands both
// to the render context in one store. Callers hold mu.
func (e *Engine) publish() {
	length := e.buf.Len()
	p := &patch{buf: e.buf}
	for i, r := range e.want {
		p.regions[i] = r.clamp(length)
	}
	e.patch.Store(p)
}

func (e *Engine) capacity() int { return e.maxSeconds * e.rate }

// Capacity is the largest buffer, in frames, the engine will hold.
func (e *Engine) Capacity() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capacity()
}

// SampleRate is the engine rate.
func (e *Engine) SampleRate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// Region returns the region slot plays, clamped to the loaded buffer.
func (e *Engine) Region(slot int) Region {
	return e.patch.Load().regions[slotOf(slot)]
}

// SetRegion sets the span and mode of a slot. Out-of-range bounds are clamped
// to the buffer; the request itself is kept so a longer buffer loaded later
// can honour it.
func (e *Engine) SetRegion(slot, in, out int, mode Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := &e.want[slotOf(slot)]
	r.In, r.Out, r.Mode = in, out, mode
	e.publish()
}

// SetSpeed sets a slot's playback speed; the sign is ignored, direction comes
// from the mode. It takes effect on the next block, also for a playing voice.
func (e *Engine) SetSpeed(slot int, speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.want[slotOf(slot)].Speed = speed
	e.publish()
}

// Nudge moves a slot's in and out points by the given number of frames,
// starting from the clamped region.
func (e *Engine) Nudge(slot, dIn, dOut int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := slotOf(slot)
	cur := e.patch.Load().regions[s]
	e.want[s].In = cur.In + dIn
	e.want[s].Out = cur.Out + dOut
	e.publish()
}

// CycleMode steps a slot's mode by delta positions through the four modes.
func (e *Engine) CycleMode(slot, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := &e.want[slotOf(slot)]
	r.Mode = modeAt(r.Mode.ordinal() + delta)
	e.publish()
}

// SetBuffer installs buf, truncated to the engine capacity, and re-clamps
// every region to it.
func (e *Engine) SetBuffer(buf *audio.Buffer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.install(buf)
}

func (e *Engine) install(buf *audio.Buffer) {
	if buf == nil {
		buf = audio.NewBuffer(nil, e.rate)
	}
	if c := e.capacity(); buf.Len() > c {
		buf = audio.NewBuffer(buf.Samples()[:c], buf.SampleRate())
	}
	e.buf = buf
	e.publish()
}

// Load replaces the buffer with the file at path. Whatever the loader
// returns is installed even on error, so a failed load leaves an empty
// buffer and every region clamped to it.
func (e *Engine) Load(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loader == nil {
		return ErrNoLoader
	}

	buf, err := e.loader(path, e.rate, e.capacity())
	e.install(buf)

	if e.buf.Len() == 0 {
		e.logger.Printf("sampler: empty sample file %q", path)
	}
	if err != nil {
		return fmt.Errorf("loading sample %q: %w", path, err)
	}
	return nil
}

// SetSampleRate moves the engine to a new rate: the buffer is resampled,
// the capacity recomputed and every region scaled to keep its place in the
// audio.
func (e *Engine) SetSampleRate(rate int) error {
	if rate <= 0 {
		return ErrInvalidRate
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if rate == e.rate {
		return nil
	}

	old := e.rate
	e.rate = rate

	for i := range e.want {
		r := &e.want[i]
		r.In = scale(r.In, rate, old)
		r.Out = scale(r.Out, rate, old)
	}

	if e.buf.Len() == 0 {
		e.install(nil)
		return nil
	}

	buf, truncated, err := audio.ReadMono(audio.NewBufferSource(e.buf), rate, e.capacity(), 4096)
	if truncated {
		e.logger.Printf("sampler: sample truncated to %d frames at %d Hz", buf.Len(), rate)
	}
	e.install(buf)

	if err != nil && !errors.Is(err, audio.ErrEmptySource) {
		return fmt.Errorf("resampling to %d Hz: %w", rate, err)
	}
	return nil
}

func scale(v, num, den int) int {
	if v == math.MaxInt || v <= 0 {
		return v
	}
	return int(int64(v) * int64(num) / int64(den))
}

// Process applies the block's events in order, then adds every active
// voice into out. It runs in the render context.
func (e *Engine) Process(events []audio.Event, out []float32) {
	p := e.patch.Load()

	for _, ev := range events {
		switch ev.Kind {
		case audio.KindNoteOn:
			e.noteOn(p, slotOf(ev.Key))
		case audio.KindNoteOff:
			e.noteOff(p, slotOf(ev.Key))
		}
	}

	samples := p.buf.Samples()
	for i := range e.voices {
		v := &e.voices[i]
		if v.active {
			v.render(p.regions[i], samples, out)
		}

		if v.active {
			e.progress[i].Store(int64(v.pos.Index()))
		} else {
			e.progress[i].Store(-1)
		}
	}
}

// noteOn restarts the voice at the near end of its region. A note on a busy
// slot replaces whatever was playing there.
func (e *Engine) noteOn(p *patch, s int) {
	e.current.Store(int32(s))

	r := p.regions[s]
	v := &e.voices[s]
	v.trigger = true

	start := 0
	if r.Mode.Direction == Backward {
		start = r.Len() - 1
	}

	pos, err := cursor.NewPosition(start, r.step())
	if err != nil || r.Len() == 0 {
		v.active = false
		return
	}
	v.pos = pos
	v.active = true
}

func (e *Engine) noteOff(p *patch, s int) {
	v := &e.voices[s]
	v.trigger = false
	if p.regions[s].Mode.Playback != Loop {
		v.active = false
	}
}

func (v *voice) render(r Region, samples []float32, out []float32) {
	n := r.Len()
	if n == 0 {
		v.active = false
		return
	}

	if pos, err := v.pos.WithStep(r.step()); err == nil {
		v.pos = pos
	}

	loop := r.Mode.Playback == Loop && v.trigger
	region := samples[r.In:r.Out]

	for f := range out {
		if !v.settle(n, loop) {
			return
		}
		out[f] += region[v.pos.Index()]
		v.pos.Inc()
	}
	v.settle(n, loop)
}

// settle keeps the voice inside [0, n): a held loop wraps around, anything
// else goes idle at the edge.
func (v *voice) settle(n int, loop bool) bool {
	i := v.pos.Index()
	if i >= 0 && i < n {
		return true
	}
	if !loop {
		v.active = false
		return false
	}
	v.pos.Shift(((i%n)+n)%n - i)
	return true
}

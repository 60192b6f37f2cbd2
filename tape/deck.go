// SPDX-License-Identifier: EPL-2.0

package tape

import (
	"io"
	"iter"
	"log"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ik5/tapecore/cursor"
)

// Tracks is the number of tracks on the tape.
const Tracks = 4

const (
	DefaultSeconds   = 180
	DefaultBlockSize = 512
	DefaultMaxSpeed  = 8.0
)

type Options struct {
	SampleRate int
	// Seconds is the tape length. Zero means DefaultSeconds.
	Seconds int
	// BlockSize sizes the render scratch buffers. Longer blocks are
	// rendered in several passes.
	BlockSize int
	// MaxSpeed bounds the magnitude of play and spool rates.
	MaxSpeed float64
	// Clock backs the bar jumps. It may be nil.
	Clock  BarClock
	Logger *log.Logger
}

// track is one track's audio and the slices marking where it was recorded.
type track struct {
	audio  *reel
	slices *SliceList
}

// tapeState is everything on the tape, replaced as a whole on every edit.
type tapeState struct {
	length int
	rate   int
	tracks [Tracks]track
}

// take is the render context's view of the pass being recorded.
type take struct {
	open  bool
	gen   uint64
	track int
	in    int
}

// spanCache remembers the slice or gap last found under the head so playback
// searches a track's slices only when the head crosses a boundary.
type spanCache struct {
	list    *SliceList
	span    Slice
	covered bool
}

// Deck is a four-track tape transport. The control methods may be called
// from any goroutine; Process must only be called from the render context.
type Deck struct {
	// Control state, guarded by mu.
	mu       sync.Mutex
	ctl      controls
	seconds  int
	maxSpeed float64
	clock    BarClock
	logger   *log.Logger
	clip     []float32
	playHeld bool
	deferred bool
	punchIn  bool

	controls atomic.Pointer[controls]
	state    atomic.Pointer[tapeState]
	seek     atomic.Int64

	// Published by the render context.
	seq     atomic.Uint64 // odd while a block is being rendered
	headPos atomic.Int64
	takeGen atomic.Uint64
	takeIn  atomic.Int64
	takeOut atomic.Int64

	// Render state.
	head  cursor.Position
	take  take
	spans [Tracks]spanCache
	idx   []int
	mix   []float32
}

// New returns a stopped deck with a blank tape and the head at 0.
func New(opts Options) (*Deck, error) {
	if opts.SampleRate <= 0 {
		return nil, ErrInvalidRate
	}
	if opts.Seconds <= 0 {
		opts.Seconds = DefaultSeconds
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if opts.MaxSpeed <= 0 {
		opts.MaxSpeed = DefaultMaxSpeed
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	head, err := cursor.NewPosition(0, 1)
	if err != nil {
		return nil, err
	}

	d := &Deck{
		ctl:      controls{speed: 1},
		seconds:  opts.Seconds,
		maxSpeed: opts.MaxSpeed,
		clock:    opts.Clock,
		logger:   opts.Logger,
		head:     head,
		idx:      make([]int, opts.BlockSize),
		mix:      make([]float32, opts.BlockSize),
	}
	d.seek.Store(-1)
	d.state.Store(blankTape(opts.SampleRate*opts.Seconds, opts.SampleRate))
	d.controls.Store(&controls{speed: 1})
	return d, nil
}

func blankTape(length, rate int) *tapeState {
	st := &tapeState{length: length, rate: rate}
	for i := range st.tracks {
		st.tracks[i].audio = newReel(length)
	}
	return st
}

func trackOf(t int) int { return ((t % Tracks) + Tracks) % Tracks }

// publish hands the control state to the render context. Callers hold mu.
func (d *Deck) publish() {
	c := d.ctl
	d.controls.Store(&c)
}

// quiesce returns once the render context has finished any block that may
// have started before the last publish. Blocks starting later see the new
// controls. Callers hold mu.
func (d *Deck) quiesce() {
	s := d.seq.Load()
	if s%2 == 0 {
		return
	}
	for d.seq.Load() == s {
		runtime.Gosched()
	}
}

func (d *Deck) clampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, -d.maxSpeed), d.maxSpeed)
}

// Length is the tape length in frames.
func (d *Deck) Length() int { return d.state.Load().length }

func (d *Deck) SampleRate() int { return d.state.Load().rate }

// Position is the head position, or the pending target of a jump.
func (d *Deck) Position() int {
	if s := d.seek.Load(); s >= 0 {
		return int(s)
	}
	return min(max(int(d.headPos.Load()), 0), max(d.Length()-1, 0))
}

// Timecode is the head position as MM:SS.ss.
func (d *Deck) Timecode() string {
	return Timecode(d.Position(), d.SampleRate())
}

// Mode is the transport mode last requested.
func (d *Deck) Mode() Mode {
	return d.controls.Load().mode
}

// Seek moves the head to pos, clamped to the tape. A take covers the frames
// it ran over in one piece, so the head cannot be moved while recording.
func (d *Deck) Seek(pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode == Recording {
		return ErrRecording
	}
	d.seek.Store(int64(min(max(pos, 0), max(d.Length()-1, 0))))
	return nil
}

// Jump moves the head by delta frames.
func (d *Deck) Jump(delta int) error { return d.Seek(d.Position() + delta) }

// GoToBarRel moves the head to the start of the bar n bars away from the
// one under the head.
func (d *Deck) GoToBarRel(n int) error {
	d.mu.Lock()
	clock := d.clock
	d.mu.Unlock()

	if clock == nil {
		return ErrNoClock
	}
	return d.Seek(clock.StartOf(clock.BarOf(d.Position()) + n))
}

// SetClock replaces the bar clock.
func (d *Deck) SetClock(c BarClock) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clock = c
}

// SelectTrack makes t, modulo Tracks, the track edits and recording apply
// to. A take already running stays on its track.
func (d *Deck) SelectTrack(t int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ctl.track = trackOf(t)
	d.publish()
}

// SetSpeed sets the signed play speed, clamped to the deck's maximum.
func (d *Deck) SetSpeed(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ctl.speed = d.clampSpeed(v)
	d.publish()
}

// Speed is the base play speed.
func (d *Deck) Speed() float64 { return d.controls.Load().speed }

// Play is the play key press. It starts playback from Stopped or Spooling
// and stops a playing tape. While recording it only marks the key as held,
// which defers the punch-out to ReleasePlay.
func (d *Deck) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.playHeld = true
	switch d.ctl.mode {
	case Recording:
		return
	case Playing:
		d.ctl.mode = Stopped
	default:
		d.ctl.mode = Playing
	}
	d.publish()
}

// ReleasePlay is the play key release. It ends a recording whose punch-out
// was deferred.
func (d *Deck) ReleasePlay() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.playHeld = false
	if d.deferred {
		d.deferred = false
		d.stopRecord()
	}
}

// Stop stops the transport, ending any take.
func (d *Deck) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deferred = false
	d.punchIn = false
	if d.ctl.mode == Recording {
		d.stopRecord()
		return
	}
	d.ctl.mode = Stopped
	d.publish()
}

// Record is the record key press: recording starts on the selected track at
// the head. Pressed during playback it punches in, and the transport goes
// back to playing on punch-out.
func (d *Deck) Record() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode == Recording {
		return
	}

	d.punchIn = d.ctl.mode == Playing
	d.ctl.mode = Recording
	d.ctl.take++
	d.ctl.takeTrack = d.ctl.track
	d.publish()
}

// ReleaseRecord is the record key release: the take is closed at the head
// and added to its track, unless play is held, in which case recording goes
// on until ReleasePlay.
func (d *Deck) ReleaseRecord() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode != Recording {
		return
	}
	if d.playHeld {
		d.deferred = true
		return
	}
	d.stopRecord()
}

// stopRecord punches out and commits the take. Callers hold mu.
func (d *Deck) stopRecord() {
	if d.ctl.mode != Recording {
		return
	}

	gen, t := d.ctl.take, d.ctl.takeTrack
	d.ctl.mode = Stopped
	if d.punchIn {
		d.ctl.mode = Playing
	}
	d.punchIn = false
	d.publish()
	d.quiesce()

	if d.takeGen.Load() != gen {
		// The render context never started this take.
		return
	}

	st := d.state.Load()
	s := Slice{
		In:  max(int(d.takeIn.Load()), 0),
		Out: min(int(d.takeOut.Load()), st.length),
	}
	if s.Empty() {
		return
	}

	next := *st
	next.tracks[t].slices = st.tracks[t].slices.Insert(s)
	d.state.Store(&next)
	d.logger.Printf("tape: recorded %v on track %d", s, t+1)
}

// Spool winds the tape at rate frames per frame while a direction key is
// held; the sign picks the direction. It is refused while recording.
func (d *Deck) Spool(rate float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode == Recording {
		return ErrRecording
	}

	d.ctl.spool = d.clampSpeed(rate)
	switch {
	case d.ctl.spool > 0:
		d.ctl.mode = SpoolingForward
	case d.ctl.spool < 0:
		d.ctl.mode = SpoolingBackward
	default:
		d.ctl.mode = Stopped
	}
	d.publish()
	return nil
}

// ReleaseSpool is the direction key release.
func (d *Deck) ReleaseSpool() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctl.mode.Spooling() {
		d.ctl.mode = Stopped
		d.publish()
	}
}

// ToggleLoop turns looping over the loop section on or off.
func (d *Deck) ToggleLoop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ctl.looping = !d.ctl.looping
	d.publish()
	return d.ctl.looping
}

// SetLoop sets the loop section, clamped to the tape.
func (d *Deck) SetLoop(s Slice) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.state.Load().length
	s.In = min(max(s.In, 0), n)
	s.Out = min(max(s.Out, s.In), n)
	d.ctl.loop = s
	d.publish()
}

// Loop returns the loop section and whether looping is on.
func (d *Deck) Loop() (Slice, bool) {
	c := d.controls.Load()
	return c.loop, c.looping
}

// LoopInHere starts the loop section at the head, pushing its end along if
// needed.
func (d *Deck) LoopInHere() {
	pos := d.Position()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.ctl.loop.In = pos
	d.ctl.loop.Out = max(d.ctl.loop.Out, pos)
	d.publish()
}

// LoopOutHere ends the loop section at the head, pulling its start back if
// needed.
func (d *Deck) LoopOutHere() {
	pos := d.Position()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.ctl.loop.Out = pos
	d.ctl.loop.In = min(d.ctl.loop.In, pos)
	d.publish()
}

func (d *Deck) GoToLoopIn() error { return d.Seek(d.controls.Load().loop.In) }

func (d *Deck) GoToLoopOut() error { return d.Seek(d.controls.Load().loop.Out) }

// Overlapping yields the slices of track t, modulo Tracks, sharing a
// position with r, in ascending order.
func (d *Deck) Overlapping(t int, r Slice) iter.Seq[Slice] {
	return d.state.Load().tracks[trackOf(t)].slices.Overlapping(r)
}

// Current returns the slice of track t, modulo Tracks, containing pos.
func (d *Deck) Current(t, pos int) (Slice, bool) {
	return d.state.Load().tracks[trackOf(t)].slices.Current(pos)
}

// Slices returns the slice list of track t, modulo Tracks.
func (d *Deck) Slices(t int) *SliceList {
	return d.state.Load().tracks[trackOf(t)].slices
}

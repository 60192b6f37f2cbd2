// SPDX-License-Identifier: EPL-2.0

package tapecore

import (
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ik5/tapecore/audio"
	"github.com/ik5/tapecore/config"
	"github.com/ik5/tapecore/formats"
	"github.com/ik5/tapecore/formats/wav"
	"github.com/ik5/tapecore/sampler"
	"github.com/ik5/tapecore/tape"
	"github.com/ik5/tapecore/utils"
)

type Options struct {
	// Logger receives diagnostics from both engines. Nil discards them.
	Logger *log.Logger
	// Registry decodes sample files. Nil means formats.NewRegistry().
	Registry *audio.Registry
}

// Studio is the instrument: the sampler plays into the tape, the tape
// records what it hears and plays its tracks back, and both are summed into
// the output.
//
// Control methods may be called from any goroutine. Render must only be
// called from the render context.
type Studio struct {
	mu     sync.Mutex
	cfg    config.Config
	logger *log.Logger

	sampler *sampler.Engine
	deck    *tape.Deck
	queue   *audio.EventQueue

	// Render state.
	events  []audio.Event
	scratch []float32
	peak    atomic.Uint32
}

// New builds a studio from cfg, which must be valid.
func New(cfg config.Config, opts Options) (*Studio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	reg := opts.Registry
	if reg == nil {
		reg = formats.NewRegistry()
	}

	smp, err := sampler.New(cfg.SampleRate, sampler.Options{
		Logger:     logger,
		Loader:     Loader(reg),
		MaxSeconds: cfg.MaxSampleSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("creating sampler: %w", err)
	}

	deck, err := tape.New(tape.Options{
		SampleRate: cfg.SampleRate,
		Seconds:    cfg.TapeSeconds,
		BlockSize:  cfg.BlockSize,
		MaxSpeed:   cfg.MaxSpeed,
		Clock:      tape.BarsAt(cfg.SampleRate, cfg.TempoBPM, cfg.BeatsPerBar),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating tape: %w", err)
	}
	deck.SetSpeed(cfg.BaseSpeed)

	return &Studio{
		cfg:     cfg,
		logger:  logger,
		sampler: smp,
		deck:    deck,
		queue:   audio.NewEventQueue(cfg.EventQueue),
		events:  make([]audio.Event, 0, cfg.EventQueue),
		scratch: make([]float32, cfg.BlockSize),
	}, nil
}

func (s *Studio) Sampler() *sampler.Engine { return s.sampler }

func (s *Studio) Deck() *tape.Deck { return s.deck }

// Events is the queue note events reach the render context through.
func (s *Studio) Events() *audio.EventQueue { return s.queue }

func (s *Studio) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// NoteOn queues a note-on for the next block and reports whether it fit.
func (s *Studio) NoteOn(key int) bool { return s.queue.Push(audio.NoteOn(key)) }

// NoteOff queues a note-off for the next block and reports whether it fit.
func (s *Studio) NoteOff(key int) bool { return s.queue.Push(audio.NoteOff(key)) }

// Render adds one block of the instrument into out. Pending events all
// apply before the first frame. Blocks longer than the configured block
// size are rendered in several passes; events only reach the first.
//
// Render never blocks or allocates.
func (s *Studio) Render(out []float32) {
	s.events = s.queue.Drain(s.events)
	events := s.events

	for off := 0; off < len(out); off += len(s.scratch) {
		block := out[off:min(off+len(s.scratch), len(out))]
		smp := s.scratch[:len(block)]
		clear(smp)

		s.sampler.Process(events, smp)
		events = nil

		s.deck.Process(smp, block)
		utils.MixInto(block, smp)
	}

	s.peak.Store(math.Float32bits(utils.Peak(out)))
}

// Peak is the largest magnitude in the last rendered block.
func (s *Studio) Peak() float32 { return math.Float32frombits(s.peak.Load()) }

// LoadSample loads the file at path into the sampler.
func (s *Studio) LoadSample(path string) error {
	if err := s.sampler.Load(path); err != nil {
		return err
	}
	s.logger.Printf("studio: loaded %q (%d frames)", path, s.sampler.Snapshot().Length)
	return nil
}

// Spool runs the tape at the configured spool speed, forward when forward
// is true.
func (s *Studio) Spool(forward bool) error {
	rate := s.Config().SpoolSpeed
	if !forward {
		rate = -rate
	}
	return s.deck.Spool(rate)
}

// SetSampleRate moves both engines to rate. The tape is moved first since it
// refuses while recording.
func (s *Studio) SetSampleRate(rate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deck.SetSampleRate(rate); err != nil {
		return fmt.Errorf("tape: %w", err)
	}
	if err := s.sampler.SetSampleRate(rate); err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	s.deck.SetClock(tape.BarsAt(rate, s.cfg.TempoBPM, s.cfg.BeatsPerBar))
	s.cfg.SampleRate = rate
	return nil
}

// BounceTrack writes track t up to the end of its last slice to w as a mono
// WAV at the configured bit depth. Gaps are silent.
func (s *Studio) BounceTrack(t int, w io.WriteSeeker) error {
	samples, err := s.deck.Bounce(t)
	if err != nil {
		return fmt.Errorf("bouncing track %d: %w", t+1, err)
	}
	if err := wav.Encode(w, s.deck.SampleRate(), s.Config().BounceBitDepth, samples); err != nil {
		return fmt.Errorf("bouncing track %d: %w", t+1, err)
	}
	return nil
}

// SPDX-License-Identifier: EPL-2.0

package midiin

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/ik5/tapecore/audio"
)

// AllChannels makes a Listener accept notes on every channel.
const AllChannels = -1

type Options struct {
	// Channel is the only MIDI channel (0-15) listened to, or AllChannels.
	Channel int
	Logger  *log.Logger
}

// Listener forwards note messages to a queue.
type Listener struct {
	queue   *audio.EventQueue
	channel int
	logger  *log.Logger

	mu   sync.Mutex
	in   drivers.In
	stop func()

	ignored atomic.Uint64
}

func NewListener(q *audio.EventQueue, opts Options) *Listener {
	l := &Listener{queue: q, channel: opts.Channel, logger: opts.Logger}
	if l.logger == nil {
		l.logger = log.New(io.Discard, "", 0)
	}
	return l
}

// HandleMessage is the gomidi receive callback. A note-on with velocity 0
// is a note-off. Anything other than a note is counted and ignored.
func (l *Listener) HandleMessage(msg midi.Message, timestampms int32) {
	var ch, key, vel uint8

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		if l.accepts(ch) {
			l.queue.Push(audio.NoteOn(int(key)))
		}
	case msg.GetNoteEnd(&ch, &key):
		if l.accepts(ch) {
			l.queue.Push(audio.NoteOff(int(key)))
		}
	default:
		l.ignored.Add(1)
	}
}

func (l *Listener) accepts(ch uint8) bool {
	return l.channel == AllChannels || int(ch) == l.channel
}

// Ignored is the number of messages that were not notes.
func (l *Listener) Ignored() uint64 { return l.ignored.Load() }

// Open starts listening on in, closing any input already open.
func (l *Listener) Open(in drivers.In) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closeLocked()

	if err := in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input %q: %w", in.String(), err)
	}

	name := in.String()
	stop, err := midi.ListenTo(in, l.HandleMessage, midi.HandleError(func(err error) {
		l.logger.Printf("midiin: %s: %v", name, err)
	}))
	if err != nil {
		in.Close()
		return fmt.Errorf("listening to MIDI input %q: %w", name, err)
	}

	l.in, l.stop = in, stop
	l.logger.Printf("midiin: listening to %q", name)
	return nil
}

// OpenByName opens the first input of drv whose name starts with prefix.
// An empty prefix takes the first input.
func (l *Listener) OpenByName(drv drivers.Driver, prefix string) error {
	if drv == nil {
		return ErrNoDriver
	}

	ins, err := drv.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs: %w", err)
	}
	for _, in := range ins {
		if strings.HasPrefix(in.String(), prefix) {
			return l.Open(in)
		}
	}
	return fmt.Errorf("%w: %q", ErrNoInput, prefix)
}

// Input is the name of the open input.
func (l *Listener) Input() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.in == nil {
		return "", ErrNotStarted
	}
	return l.in.String(), nil
}

// Close stops listening and closes the input.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.in == nil {
		return ErrNotStarted
	}
	return l.closeLocked()
}

func (l *Listener) closeLocked() error {
	if l.in == nil {
		return nil
	}

	l.stop()
	err := l.in.Close()
	l.in, l.stop = nil, nil
	if err != nil {
		return fmt.Errorf("closing MIDI input: %w", err)
	}
	return nil
}

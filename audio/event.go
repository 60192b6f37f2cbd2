// SPDX-License-Identifier: EPL-2.0

package audio

import "sync/atomic"

// EventKind tags an Event.
type EventKind uint8

const (
	KindNone EventKind = iota
	KindNoteOn
	KindNoteOff
)

func (k EventKind) String() string {
	switch k {
	case KindNoteOn:
		return "note-on"
	case KindNoteOff:
		return "note-off"
	default:
		return "none"
	}
}

// Event is a discrete note event for one render block. Events carry no
// intra-block timestamp: every event of a block applies before the block's
// samples are produced.
type Event struct {
	Kind EventKind
	Key  int
}

func NoteOn(key int) Event  { return Event{Kind: KindNoteOn, Key: key} }
func NoteOff(key int) Event { return Event{Kind: KindNoteOff, Key: key} }

// EventQueue hands events from the control context to the render context.
// Push never blocks: when the queue is full the event is dropped and
// counted, the same trade the MIDI input of a live instrument has to make.
type EventQueue struct {
	ch      chan Event
	dropped atomic.Uint64
}

func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{ch: make(chan Event, max(capacity, 1))}
}

// Push enqueues e and reports whether it was accepted.
func (q *EventQueue) Push(e Event) bool {
	select {
	case q.ch <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain moves pending events into dst[:0] without growing it; events that do
// not fit stay queued for the next block.
func (q *EventQueue) Drain(dst []Event) []Event {
	dst = dst[:0]
	for len(dst) < cap(dst) {
		select {
		case e := <-q.ch:
			dst = append(dst, e)
		default:
			return dst
		}
	}
	return dst
}

// Dropped is the number of events rejected because the queue was full.
func (q *EventQueue) Dropped() uint64 { return q.dropped.Load() }

// SPDX-License-Identifier: EPL-2.0

// Package midiin turns MIDI note messages into sampler events.
//
// A Listener is fed by gomidi's listener goroutine and pushes NoteOn and
// NoteOff events onto an audio.EventQueue without blocking. A full queue
// drops the message, which is counted by the queue.
package midiin

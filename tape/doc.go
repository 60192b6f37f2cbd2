// SPDX-License-Identifier: EPL-2.0

// Package tape is a four-track tape recorder for live looping.
//
// Each track holds a reel of audio and a sorted list of slices marking the
// spans that were actually recorded; playback reads a track only where a
// slice covers the head, so everything else is silent. Slices are edited
// without touching audio: Cut splits one in two, Glue joins two back, Lift
// takes one off the tape into a clip and Drop lays the clip down at the
// head.
//
// The Deck splits its work between two contexts. Control methods (Record,
// Play, Spool, Cut, ...) build new immutable state and publish it with an
// atomic store; Process runs once per audio block, follows whatever it finds
// published, and never blocks or allocates. The head is a cursor.Position,
// so spooling back and forth at fractional rates lands on the same frames
// it left.
package tape

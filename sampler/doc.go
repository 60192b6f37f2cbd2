// SPDX-License-Identifier: EPL-2.0

// Package sampler plays regions of one mono sample buffer on a fixed bank of
// voices.
//
// A note addresses voice key mod Voices. Note-on restarts the voice from the
// start of its region (or the end, for backward regions) and note-off
// releases it: one-shot voices stop at once, looping voices finish their
// current pass and then stop.
//
// The Engine splits its state between two contexts. Control methods
// (SetRegion, SetSpeed, Load, SetBuffer, SetSampleRate) build a new patch of
// buffer and regions and publish it atomically. Process runs in the render
// context, owns the playback position of every voice and never blocks or
// allocates.
package sampler

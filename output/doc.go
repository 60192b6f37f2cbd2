// SPDX-License-Identifier: EPL-2.0

// Package output plays a Renderer through the system audio device with
// ebitengine/oto.
//
// Oto pulls PCM from an io.Reader on its own goroutine; Reader adapts a
// Renderer to that, rendering one block at a time into a preallocated
// buffer and converting it to signed 16-bit little-endian PCM.
//
// Building with the headless tag replaces the device with a Player that
// accepts the same calls and plays nothing, for CI machines without audio.
package output

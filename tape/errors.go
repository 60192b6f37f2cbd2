// SPDX-License-Identifier: EPL-2.0

package tape

import "errors"

var (
	// ErrRecording is returned by tape edits and head moves attempted
	// while a take is being written.
	ErrRecording = errors.New("tape: recording in progress")

	// ErrNoSlice is returned by Lift when no slice lies under the head.
	ErrNoSlice = errors.New("tape: no slice at position")

	// ErrEmptyClip is returned by Drop when nothing has been lifted.
	ErrEmptyClip = errors.New("tape: nothing lifted")

	// ErrNoClock is returned by bar jumps on a deck built without a BarClock.
	ErrNoClock = errors.New("tape: no bar clock")

	ErrInvalidRate = errors.New("tape: sample rate must be positive")
)

// SPDX-License-Identifier: EPL-2.0

package midiin

import "errors"

var (
	ErrNoDriver   = errors.New("midiin: no MIDI driver available")
	ErrNoInput    = errors.New("midiin: no matching MIDI input")
	ErrNotStarted = errors.New("midiin: listener is not open")
)

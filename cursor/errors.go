// SPDX-License-Identifier: EPL-2.0

package cursor

import "errors"

var (
	// ErrZeroStep is returned when a step rounds to zero in fixed point.
	ErrZeroStep = errors.New("cursor step must be nonzero")

	// ErrStepRange is returned for steps whose magnitude cannot be held in
	// the fixed-point representation (or that are NaN).
	ErrStepRange = errors.New("cursor step out of range")
)

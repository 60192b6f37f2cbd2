// SPDX-License-Identifier: EPL-2.0

package sampler

import "errors"

var (
	// ErrNoLoader is returned by Load when the engine has no Loader.
	ErrNoLoader = errors.New("sampler: no sample loader configured")

	// ErrInvalidRate is returned for a non-positive sample rate.
	ErrInvalidRate = errors.New("sampler: invalid sample rate")
)

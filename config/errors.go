// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrInvalidRate     = errors.New("config: sample rate must be positive")
	ErrInvalidBlock    = errors.New("config: block size must be positive")
	ErrInvalidDuration = errors.New("config: durations must be positive")
	ErrInvalidSpeed    = errors.New("config: speeds must be positive and within max_speed")
	ErrInvalidTempo    = errors.New("config: tempo and beats per bar must be positive")
	ErrInvalidBitDepth = errors.New("config: bounce bit depth must be 16, 24 or 32")
	ErrInvalidQueue    = errors.New("config: event queue size must be positive")
)

// SPDX-License-Identifier: EPL-2.0

// Package utils holds the small numeric helpers shared by the decoders, the
// resampler and the render path.
package utils

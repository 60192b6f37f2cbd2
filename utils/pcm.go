// SPDX-License-Identifier: EPL-2.0

package utils

// PCMScale is the full-scale magnitude of a signed integer sample of the given
// bit depth: 2^(bitDepth-1). Unsupported depths return 0.
func PCMScale(bitDepth int) float32 {
	if bitDepth < 8 || bitDepth > 32 {
		return 0
	}
	return float32(uint64(1) << (bitDepth - 1))
}

// PCMToFloat maps a signed integer sample to [-1, 1).
func PCMToFloat(v int, bitDepth int) float32 {
	scale := PCMScale(bitDepth)
	if scale == 0 {
		return 0
	}
	return float32(v) / scale
}

// FloatToPCM maps x to a signed integer sample, clamping to [-1, 1] first.
// Positive full scale is 2^(bitDepth-1)-1 so +1 never overflows.
func FloatToPCM(x float32, bitDepth int) int {
	if bitDepth < 8 || bitDepth > 32 {
		return 0
	}
	peak := float64(uint64(1)<<(bitDepth-1)) - 1

	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int(float64(x) * peak)
}

func Float32ToInt16(x float32) int16 {
	return int16(FloatToPCM(x, 16))
}

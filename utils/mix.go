// SPDX-License-Identifier: EPL-2.0

package utils

import "github.com/viterin/vek/vek32"

// MixInto adds src to dst sample by sample. Only the common prefix is mixed.
func MixInto(dst, src []float32) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}
	vek32.Add_Inplace(dst[:n], src[:n])
}

// Peak is the largest absolute sample value in x.
func Peak(x []float32) float32 {
	if len(x) == 0 {
		return 0
	}
	return max(vek32.Max(x), -vek32.Min(x))
}

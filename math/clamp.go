// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// ClampIndex returns i limited to [0,n[. n must be positive.
func ClampIndex[K constraints.Integer](i K, n int) int {
	return Clamp(0, int(i), n-1)
}

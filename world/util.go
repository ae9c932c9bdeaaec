// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

func Lerp(a, b, factor float32) float32 {
	return a + (b-a)*factor
}

// InverseLerp returns where value lies between a and b, clamped to [0, 1].
// It returns 0 when a == b.
func InverseLerp(a, b, value float32) float32 {
	if a == b {
		return 0
	}
	return Clamp01((value - a) / (b - a))
}

func Clamp01(val float32) float32 {
	return clamp(val, 0, 1)
}

func clamp(val, minimum, maximum float32) float32 {
	if val < minimum {
		return minimum
	}
	if val > maximum {
		return maximum
	}
	return val
}

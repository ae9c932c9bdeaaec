// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import (
	"github.com/chewxy/math32"
	"sync"
)

const (
	falloffSteepness = 3
	falloffShift     = 2.2
)

// GenerateFalloff returns a size x size mask that is 0 in the centre and
// approaches 1 towards the edges.
func GenerateFalloff(size int) []float32 {
	values := make([]float32, size*size)

	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			x := float32(i)/float32(size)*2 - 1
			y := float32(j)/float32(size)*2 - 1

			values[i+j*size] = evaluateFalloff(math32.Max(math32.Abs(x), math32.Abs(y)))
		}
	}

	return values
}

func evaluateFalloff(v float32) float32 {
	a := math32.Pow(v, falloffSteepness)
	b := math32.Pow(falloffShift-falloffShift*v, falloffSteepness)
	return a / (a + b)
}

var falloffMaps sync.Map // int -> []float32

// FalloffMap is a memoized GenerateFalloff.
// The returned slice is shared and must not be modified.
func FalloffMap(size int) []float32 {
	if values, ok := falloffMaps.Load(size); ok {
		return values.([]float32)
	}
	values, _ := falloffMaps.LoadOrStore(size, GenerateFalloff(size))
	return values.([]float32)
}

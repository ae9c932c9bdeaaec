// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

// HeightMap is a grid of heights owned by one chunk.
// Values are stored row major (x + y*Width) and must not be modified once the
// HeightMap has been handed out.
type HeightMap struct {
	Values []float32
	Width  int
	Height int
	Min    float32
	Max    float32
}

// NewHeightMap wraps values, computing Min and Max.
func NewHeightMap(values []float32, width, height int) *HeightMap {
	hm := &HeightMap{
		Values: values,
		Width:  width,
		Height: height,
	}
	if len(values) > 0 {
		hm.Min, hm.Max = values[0], values[0]
		for _, v := range values[1:] {
			if v < hm.Min {
				hm.Min = v
			}
			if v > hm.Max {
				hm.Max = v
			}
		}
	}
	return hm
}

func (hm *HeightMap) At(x, y int) float32 {
	return hm.Values[x+y*hm.Width]
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"fmt"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"image"
	"image/color"
)

type ColorVec [3]float32

// Region colours heights at or above Height, normalized to [0, 1] over the
// heightmap's range, until the next region starts.
type Region struct {
	Name   string   `json:"name"`
	Height float32  `json:"height"`
	Colour ColorVec `json:"colour"`
}

func DefaultRegions() []Region {
	return []Region{
		{Name: "deep water", Height: 0, Colour: RGB(0, 50, 115)},
		{Name: "shallow water", Height: 0.3, Colour: RGB(0, 75, 130)},
		{Name: "sand", Height: 0.4, Colour: RGB(194, 178, 128)},
		{Name: "grass", Height: 0.45, Colour: RGB(90, 180, 30)},
		{Name: "rock", Height: 0.7, Colour: RGB(105, 110, 115)},
		{Name: "snow", Height: 0.9, Colour: Gray(220)},
	}
}

// RenderNoise draws a heightmap as grayscale, black at Min and white at Max.
func RenderNoise(hm *HeightMap) image.Image {
	black, white := Gray(0), Gray(255)
	return render(hm, func(v float32) ColorVec {
		return black.Lerp(white, v)
	})
}

// RenderColour draws a heightmap with the colour of the highest region each
// height reaches. Regions must be sorted by Height.
func RenderColour(hm *HeightMap, regions []Region) image.Image {
	return render(hm, func(v float32) ColorVec {
		var c ColorVec
		for i := range regions {
			if v < regions[i].Height {
				break
			}
			c = regions[i].Colour
		}
		return c
	})
}

func render(hm *HeightMap, colorOf func(v float32) ColorVec) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, hm.Width, hm.Height))

	for j := 0; j < hm.Height; j++ {
		for i := 0; i < hm.Width; i++ {
			v := world.InverseLerp(hm.Min, hm.Max, hm.At(i, j))
			img.SetRGBA(i, j, colorOf(v).Color())
		}
	}

	return img
}

func Gray(v byte) ColorVec {
	return RGB(v, v, v)
}

func RGB(r, g, b byte) ColorVec {
	const factor = 1.0 / 255
	return ColorVec{float32(r) * factor, float32(g) * factor, float32(b) * factor}
}

func (vec ColorVec) String() string {
	return fmt.Sprintf("vec4(%.3f, %.3f, %.3f, 1.0)", vec[0], vec[1], vec[2])
}

func (vec ColorVec) Mul(v float32) ColorVec {
	vec[0] *= v
	vec[1] *= v
	vec[2] *= v
	return vec
}

func (vec ColorVec) Lerp(other ColorVec, factor float32) ColorVec {
	for i := range vec {
		vec[i] = world.Lerp(vec[i], other[i], factor)
	}
	return vec
}

func (vec ColorVec) Color() color.RGBA {
	return color.RGBA{R: floatToByte(vec[0]), G: floatToByte(vec[1]), B: floatToByte(vec[2]), A: 255}
}

func floatToByte(f float32) byte {
	if f < 0 {
		return 0
	}
	if f > 1.0 {
		return 255
	}
	return byte(f * 255)
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"image/color"
	"testing"
)

func TestRenderColour(t *testing.T) {
	hm := NewHeightMap([]float32{0, 0.5, 1, 0.35}, 2, 2)
	regions := []Region{
		{Height: 0, Colour: Gray(0)},
		{Height: 0.4, Colour: Gray(100)},
		{Height: 0.9, Colour: Gray(200)},
	}

	img := RenderColour(hm, regions)
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("expected 2x2 image got %v", b)
	}

	tests := []struct {
		x, y int
		gray byte
	}{
		{0, 0, 0},
		{1, 0, 100},
		{0, 1, 200},
		{1, 1, 0},
	}
	for _, test := range tests {
		want := Gray(test.gray).Color()
		if got := color.RGBAModel.Convert(img.At(test.x, test.y)); got != want {
			t.Errorf("pixel (%d, %d) expected %v got %v", test.x, test.y, want, got)
		}
	}
}

func TestRenderNoise(t *testing.T) {
	hm := NewHeightMap([]float32{2, 4}, 2, 1)
	img := RenderNoise(hm)

	if got := color.RGBAModel.Convert(img.At(0, 0)); got != (color.RGBA{A: 255}) {
		t.Errorf("expected black at min got %v", got)
	}
	if got := color.RGBAModel.Convert(img.At(1, 0)); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected white at max got %v", got)
	}
}

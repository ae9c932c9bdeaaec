// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package heightmap

import (
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/noise"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
)

// Build generates the world heights of a width x height grid centred on
// sampleCentre.
//
// The height curve is cloned before use, so settings may be shared between
// concurrent calls as long as nobody modifies them.
func Build(width, height int, settings *terrain.HeightMapSettings, sampleCentre world.Vec2f) *terrain.HeightMap {
	values := noise.Generate(width, height, settings.Noise, sampleCentre)

	var falloff []float32
	falloffSize := width
	if settings.Noise.UseFalloff {
		if height > falloffSize {
			falloffSize = height
		}
		falloff = noise.FalloffMap(falloffSize)
	}

	curve := settings.HeightCurve.Clone()
	multiplier := settings.HeightMultiplier

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := x + y*width
			v := values[i]
			if falloff != nil {
				v = world.Clamp01(v - falloff[x+y*falloffSize])
			}
			values[i] = v * curve.Evaluate(v) * multiplier
		}
	}

	return terrain.NewHeightMap(values, width, height)
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import (
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
	"math"
	"math/rand"
)

const (
	// octaveOffsetRange bounds the random per octave offsets.
	octaveOffsetRange = 100000
	// globalHeadroom is the fraction of the largest possible octave sum that
	// maps to 1 in NormalizeGlobal mode. Sums that large are very rare.
	globalHeadroom = 0.9
	// perlinRange stretches single octave Perlin output to about [-1, 1].
	perlinRange = math.Sqrt2
	// perlinPeriod is the lattice period of the Perlin primitive. Its
	// coordinates must stay non negative or cell lookups truncate wrongly.
	perlinPeriod = 256
)

type sampler func(x, y float64) float64

func newSampler(primitive terrain.Primitive, seed int64) sampler {
	switch primitive {
	case terrain.Simplex:
		return opensimplex.New(seed).Eval2
	default:
		// alpha and beta are irrelevant with a single octave
		p := perlin.NewPerlin(2, 2, 1, seed)
		return func(x, y float64) float64 {
			return p.Noise2D(wrapPerlin(x), wrapPerlin(y)) * perlinRange
		}
	}
}

// wrapPerlin maps v into [0, perlinPeriod). The primitive repeats with that
// period, so the result samples the same field.
func wrapPerlin(v float64) float64 {
	v = math.Mod(v, perlinPeriod)
	if v < 0 {
		v += perlinPeriod
	}
	return v
}

type octaveOffset struct {
	x, y float64
}

// MaxPossibleHeight is the largest octave sum reachable with settings.
func MaxPossibleHeight(settings terrain.NoiseSettings) float64 {
	settings = settings.Validate()

	var sum float64
	amplitude := 1.0
	for i := 0; i < settings.Octaves; i++ {
		sum += amplitude
		amplitude *= settings.Persistance
	}
	return sum
}

// Generate samples a width x height grid of fractal noise around sampleCentre.
// The result is row major (x + y*width).
//
// In NormalizeGlobal mode, a cell depends only on its absolute sample position,
// so grids whose centres differ by whole cells agree where they overlap.
// Generate is safe to call concurrently.
func Generate(width, height int, settings terrain.NoiseSettings, sampleCentre world.Vec2f) []float32 {
	settings = settings.Validate()
	values := make([]float32, width*height)

	prng := rand.New(rand.NewSource(settings.Seed))
	offsets := make([]octaveOffset, settings.Octaves)
	for i := range offsets {
		// Grid rows run towards -y in world space, hence the flipped y terms
		offsets[i] = octaveOffset{
			x: float64(prng.Intn(2*octaveOffsetRange)-octaveOffsetRange) + float64(settings.Offset.X) + float64(sampleCentre.X),
			y: float64(prng.Intn(2*octaveOffsetRange)-octaveOffsetRange) - float64(settings.Offset.Y) - float64(sampleCentre.Y),
		}
	}

	sample := newSampler(settings.Primitive, settings.Seed)
	global := settings.NormalizeMode == terrain.NormalizeGlobal
	globalDivisor := MaxPossibleHeight(settings) / globalHeadroom

	halfWidth := float64(width / 2)
	halfHeight := float64(height / 2)

	minLocal := math.Inf(1)
	maxLocal := math.Inf(-1)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			amplitude := 1.0
			frequency := 1.0
			noiseHeight := 0.0

			for _, offset := range offsets {
				sampleX := (float64(x) - halfWidth + offset.x) / settings.Scale * frequency
				sampleY := (float64(y) - halfHeight + offset.y) / settings.Scale * frequency

				noiseHeight += sample(sampleX, sampleY) * amplitude

				amplitude *= settings.Persistance
				frequency *= settings.Lacunarity
			}

			if noiseHeight < minLocal {
				minLocal = noiseHeight
			}
			if noiseHeight > maxLocal {
				maxLocal = noiseHeight
			}

			if global {
				normalized := (noiseHeight + 1) / globalDivisor
				values[x+y*width] = float32(math.Max(0, math.Min(normalized, math.MaxFloat32)))
			} else {
				values[x+y*width] = float32(noiseHeight)
			}
		}
	}

	if !global {
		lo, hi := float32(minLocal), float32(maxLocal)
		for i, v := range values {
			values[i] = world.InverseLerp(lo, hi, v)
		}
	}

	return values
}

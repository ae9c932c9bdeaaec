// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"fmt"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"math"
)

// NormalizeMode selects how raw octave sums are mapped to heights.
type NormalizeMode uint8

const (
	// NormalizeLocal remaps the min/max of each generated grid to [0, 1].
	// Independently generated chunks get different ranges, so their borders
	// don't line up.
	NormalizeLocal NormalizeMode = iota
	// NormalizeGlobal divides by the largest reachable octave sum.
	// Chunks tile without seams.
	NormalizeGlobal
)

func (mode NormalizeMode) String() string {
	switch mode {
	case NormalizeLocal:
		return "local"
	case NormalizeGlobal:
		return "global"
	default:
		return fmt.Sprintf("NormalizeMode(%d)", uint8(mode))
	}
}

func (mode NormalizeMode) MarshalText() ([]byte, error) {
	switch mode {
	case NormalizeLocal, NormalizeGlobal:
		return []byte(mode.String()), nil
	}
	return nil, fmt.Errorf("invalid normalize mode %d", uint8(mode))
}

func (mode *NormalizeMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "local":
		*mode = NormalizeLocal
	case "global":
		*mode = NormalizeGlobal
	default:
		return fmt.Errorf("invalid normalize mode %q", text)
	}
	return nil
}

// Primitive is the coherent noise function sampled by each octave.
type Primitive uint8

const (
	Perlin Primitive = iota
	Simplex
)

func (primitive Primitive) String() string {
	switch primitive {
	case Perlin:
		return "perlin"
	case Simplex:
		return "simplex"
	default:
		return fmt.Sprintf("Primitive(%d)", uint8(primitive))
	}
}

func (primitive Primitive) MarshalText() ([]byte, error) {
	switch primitive {
	case Perlin, Simplex:
		return []byte(primitive.String()), nil
	}
	return nil, fmt.Errorf("invalid noise primitive %d", uint8(primitive))
}

func (primitive *Primitive) UnmarshalText(text []byte) error {
	switch string(text) {
	case "perlin":
		*primitive = Perlin
	case "simplex":
		*primitive = Simplex
	default:
		return fmt.Errorf("invalid noise primitive %q", text)
	}
	return nil
}

const minScale = 0.0001

// NoiseSettings describes a fractal noise field.
type NoiseSettings struct {
	Seed          int64         `json:"seed"`
	Scale         float64       `json:"scale"`
	Octaves       int           `json:"octaves"`
	Persistance   float64       `json:"persistance"` // amplitude factor per octave
	Lacunarity    float64       `json:"lacunarity"`  // frequency factor per octave
	Offset        world.Vec2f   `json:"offset"`
	NormalizeMode NormalizeMode `json:"normalizeMode"`
	UseFalloff    bool          `json:"useFalloff"`
	Primitive     Primitive     `json:"primitive"`
}

func DefaultNoiseSettings() NoiseSettings {
	return NoiseSettings{
		Seed:          0,
		Scale:         50,
		Octaves:       6,
		Persistance:   0.6,
		Lacunarity:    2,
		NormalizeMode: NormalizeGlobal,
	}
}

// Validate returns a copy with out of range values clamped.
func (settings NoiseSettings) Validate() NoiseSettings {
	if !(settings.Scale > 0) {
		settings.Scale = minScale
	}
	if settings.Octaves < 1 {
		settings.Octaves = 1
	}
	if !(settings.Lacunarity >= 1) {
		settings.Lacunarity = 1
	}
	settings.Persistance = math.Max(0, math.Min(1, settings.Persistance))
	if math.IsNaN(settings.Persistance) {
		settings.Persistance = 0
	}
	return settings
}

// HeightMapSettings turns a noise field into world heights.
type HeightMapSettings struct {
	Noise            NoiseSettings `json:"noise"`
	HeightMultiplier float32       `json:"heightMultiplier"`
	HeightCurve      *Curve        `json:"heightCurve"`
}

func (settings *HeightMapSettings) MinHeight() float32 {
	return settings.HeightMultiplier * settings.HeightCurve.Evaluate(0)
}

func (settings *HeightMapSettings) MaxHeight() float32 {
	return settings.HeightMultiplier * settings.HeightCurve.Evaluate(1)
}

const (
	// NumSupportedLODs is the number of distinct mesh decimation levels.
	NumSupportedLODs = 5
	// MaxVerticesPerMesh is the per mesh vertex ceiling of 16 bit index buffers.
	MaxVerticesPerMesh = 255 * 255
	// numSupportedFlatshadedChunkSizes flat shading triples vertices, so only
	// the smallest sizes fit under MaxVerticesPerMesh.
	numSupportedFlatshadedChunkSizes = 3
)

// SupportedChunkSizes are divisible by every skip increment (1, 2, 4, 6, 8).
var SupportedChunkSizes = [...]int{48, 72, 96, 120, 144, 168, 192, 216, 240}

var (
	ErrChunkSizeIndex = errors.New("chunk size index out of range")
	ErrMeshScale      = errors.New("mesh scale must be positive")
	ErrTooManyVerts   = errors.New("mesh exceeds vertex limit")
)

// MeshSettings describes chunk meshes.
type MeshSettings struct {
	MeshScale                float32 `json:"meshScale"` // world units between vertices
	UseFlatShading           bool    `json:"useFlatShading"`
	ChunkSizeIndex           int     `json:"chunkSizeIndex"`
	FlatshadedChunkSizeIndex int     `json:"flatshadedChunkSizeIndex"`
}

func DefaultMeshSettings() MeshSettings {
	return MeshSettings{
		MeshScale:      2.5,
		ChunkSizeIndex: len(SupportedChunkSizes) - 1,
	}
}

func (settings *MeshSettings) chunkSize() int {
	if settings.UseFlatShading {
		return SupportedChunkSizes[settings.FlatshadedChunkSizeIndex]
	}
	return SupportedChunkSizes[settings.ChunkSizeIndex]
}

// NumVertsPerLine is the width of a chunk heightmap at LOD 0, including the
// out of mesh ring used only for normals.
// Must only be called on validated settings.
func (settings *MeshSettings) NumVertsPerLine() int {
	return settings.chunkSize() + 5
}

// MeshWorldSize is the rendered width of one chunk in world units.
func (settings *MeshSettings) MeshWorldSize() float32 {
	return float32(settings.NumVertsPerLine()-3) * settings.MeshScale
}

// Validate checks that the settings select a supported chunk size.
func (settings *MeshSettings) Validate() error {
	if !(settings.MeshScale > 0) {
		return ErrMeshScale
	}

	if settings.UseFlatShading {
		if settings.FlatshadedChunkSizeIndex < 0 || settings.FlatshadedChunkSizeIndex >= numSupportedFlatshadedChunkSizes {
			return fmt.Errorf("%w: flat shaded index %d", ErrChunkSizeIndex, settings.FlatshadedChunkSizeIndex)
		}
	} else if settings.ChunkSizeIndex < 0 || settings.ChunkSizeIndex >= len(SupportedChunkSizes) {
		return fmt.Errorf("%w: index %d", ErrChunkSizeIndex, settings.ChunkSizeIndex)
	}

	n := settings.NumVertsPerLine()
	verts := (n - 2) * (n - 2)
	if settings.UseFlatShading {
		// Every rendered triangle gets its own 3 vertices
		verts = 2 * (n - 3) * (n - 3) * 3
	}
	if verts > MaxVerticesPerMesh {
		return fmt.Errorf("%w: %d > %d", ErrTooManyVerts, verts, MaxVerticesPerMesh)
	}
	return nil
}

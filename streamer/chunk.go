// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package streamer

import (
	"fmt"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/mesh"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
)

// Coord is the integer grid position of a chunk.
// Chunk (x, y) is centred on (x, y) * MeshWorldSize.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (coord Coord) Vec2f() world.Vec2f {
	return world.Vec2f{X: float32(coord.X), Y: float32(coord.Y)}
}

func (coord Coord) String() string {
	return fmt.Sprintf("(%d, %d)", coord.X, coord.Y)
}

type lodMesh struct {
	lod       int
	data      *mesh.Data
	requested bool
}

// Chunk is one tile of streamed terrain.
// Chunks are only modified by their Streamer, and never reused once evicted.
type Chunk struct {
	Coord        Coord
	Bounds       world.AABB
	SampleCentre world.Vec2f

	heightMap          *terrain.HeightMap
	heightMapRequested bool
	lodMeshes          []lodMesh
	visible            bool
	previousLODIndex   int
	hasSetCollider     bool

	generation uint64
	evicted    bool
}

func newChunk(coord Coord, generation uint64, settings *terrain.MeshSettings, detailLevels terrain.LODTable) *Chunk {
	meshWorldSize := settings.MeshWorldSize()
	position := coord.Vec2f().Mul(meshWorldSize)

	chunk := &Chunk{
		Coord:            coord,
		Bounds:           world.AABBAround(position, meshWorldSize),
		// position / MeshScale, computed without rounding error
		SampleCentre:     coord.Vec2f().Mul(float32(settings.NumVertsPerLine() - 3)),
		lodMeshes:        make([]lodMesh, len(detailLevels)),
		previousLODIndex: -1,
		generation:       generation,
	}
	for i, info := range detailLevels {
		chunk.lodMeshes[i].lod = info.LOD
	}
	return chunk
}

// HeightMap is nil until generated.
func (chunk *Chunk) HeightMap() *terrain.HeightMap {
	return chunk.heightMap
}

func (chunk *Chunk) Visible() bool {
	return chunk.visible
}

// LODIndex is the index into the detail levels of the displayed mesh, or -1.
func (chunk *Chunk) LODIndex() int {
	return chunk.previousLODIndex
}

// Mesh returns the mesh of a detail level, if generated.
func (chunk *Chunk) Mesh(lodIndex int) *mesh.Data {
	if lodIndex < 0 || lodIndex >= len(chunk.lodMeshes) {
		return nil
	}
	return chunk.lodMeshes[lodIndex].data
}

func (chunk *Chunk) HasCollider() bool {
	return chunk.hasSetCollider
}

func (chunk *Chunk) Evicted() bool {
	return chunk.evicted
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/Fesbaz/ProceduralLandmassGeneration/streamer"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/mesh"
)

type (
	// Settings describes how to interpret the other messages.
	// It is the first message every client receives.
	Settings struct {
		MeshWorldSize   float32          `json:"meshWorldSize"`
		NumVertsPerLine int              `json:"numVertsPerLine"`
		DetailLevels    terrain.LODTable `json:"detailLevels"`
		Regions         []terrain.Region `json:"regions"`
		MinHeight       float32          `json:"minHeight"`
		MaxHeight       float32          `json:"maxHeight"`
	}

	// HeightMap is a compressed chunk heightmap.
	HeightMap struct {
		Coord   streamer.Coord `json:"coord"`
		Terrain *terrain.Data  `json:"terrain"`
	}

	// Mesh is the mesh a chunk displays now.
	Mesh struct {
		Coord    streamer.Coord `json:"coord"`
		LODIndex int            `json:"lodIndex"`
		*mesh.Data
	}

	Visibility struct {
		Coord   streamer.Coord `json:"coord"`
		Visible bool           `json:"visible"`
	}

	// Collider is the mesh to collide with in a chunk.
	Collider struct {
		Coord streamer.Coord `json:"coord"`
		*mesh.Data
	}

	// Evicted means the chunk is forgotten and may be freed.
	Evicted struct {
		Coord streamer.Coord `json:"coord"`
	}
)

func init() {
	registerOutbound(
		Settings{},
		&HeightMap{},
		Mesh{},
		Visibility{},
		Collider{},
		Evicted{},
	)
}

func (heightMap *HeightMap) Pool() {
	if heightMap.Terrain != nil {
		heightMap.Terrain.Pool()
		heightMap.Terrain = nil
	}
}

// Meshes are shared and immutable, so they aren't pooled.

func (Settings) Pool()   {}
func (Mesh) Pool()       {}
func (Visibility) Pool() {}
func (Collider) Pool()   {}
func (Evicted) Pool()    {}

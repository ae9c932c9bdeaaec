// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package streamer keeps the chunks around a moving viewer generated, meshed
// at the right level of detail and reported to an Observer.
package streamer

import (
	"errors"
	"fmt"
	"github.com/Fesbaz/ProceduralLandmassGeneration/requester"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/heightmap"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/mesh"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"log/slog"
	"math"
)

const (
	// ViewerMoveThresholdForChunkUpdate is how far the viewer moves before
	// chunks are re-evaluated.
	ViewerMoveThresholdForChunkUpdate    = 25
	sqrViewerMoveThresholdForChunkUpdate = ViewerMoveThresholdForChunkUpdate * ViewerMoveThresholdForChunkUpdate

	// ColliderGenerationDistanceThreshold is how close the viewer must be to
	// a chunk for its collider to be set.
	ColliderGenerationDistanceThreshold    = 5
	sqrColliderGenerationDistanceThreshold = ColliderGenerationDistanceThreshold * ColliderGenerationDistanceThreshold
)

var ErrColliderLODIndex = errors.New("collider lod index out of range")

// Generator produces chunk data. It is called from worker goroutines, so it
// must be safe for concurrent use.
type Generator interface {
	HeightMap(sampleCentre world.Vec2f) (*terrain.HeightMap, error)
	Mesh(heightMap *terrain.HeightMap, lod int) (*mesh.Data, error)
}

type generator struct {
	heightMap terrain.HeightMapSettings
	mesh      terrain.MeshSettings
}

// NewGenerator returns the standard Generator. The settings are copied;
// the height curve must not be modified afterwards.
func NewGenerator(heightMap terrain.HeightMapSettings, meshSettings terrain.MeshSettings) Generator {
	return &generator{heightMap: heightMap, mesh: meshSettings}
}

func (g *generator) HeightMap(sampleCentre world.Vec2f) (*terrain.HeightMap, error) {
	n := g.mesh.NumVertsPerLine()
	return heightmap.Build(n, n, &g.heightMap, sampleCentre), nil
}

func (g *generator) Mesh(heightMap *terrain.HeightMap, lod int) (*mesh.Data, error) {
	return mesh.Generate(heightMap, g.mesh, lod)
}

// Observer is told about chunk changes. Its methods are called on the
// goroutine calling Streamer.Update or Requester.Drain.
type Observer interface {
	HeightMapReceived(chunk *Chunk)
	VisibilityChanged(chunk *Chunk, visible bool)
	// MeshChanged reports the mesh now displayed by a chunk.
	MeshChanged(chunk *Chunk, lodIndex int, data *mesh.Data)
	ColliderSet(chunk *Chunk, data *mesh.Data)
	ChunkEvicted(chunk *Chunk)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) HeightMapReceived(*Chunk)            {}
func (NopObserver) VisibilityChanged(*Chunk, bool)      {}
func (NopObserver) MeshChanged(*Chunk, int, *mesh.Data) {}
func (NopObserver) ColliderSet(*Chunk, *mesh.Data)      {}
func (NopObserver) ChunkEvicted(*Chunk)                 {}

type Options struct {
	Mesh             terrain.MeshSettings
	DetailLevels     terrain.LODTable
	ColliderLODIndex int

	// RetentionDst is how far from the viewer chunks outside the view window
	// are kept. Defaults to the max view distance plus one chunk.
	RetentionDst float32
	Logger       *slog.Logger
}

// Streamer manages chunks around a viewer.
// All methods, and Drain of its Requester, must be called from one goroutine.
type Streamer struct {
	generator Generator
	requester *requester.Requester
	observer  Observer
	logger    *slog.Logger

	meshSettings     terrain.MeshSettings
	detailLevels     terrain.LODTable
	colliderLODIndex int
	meshWorldSize    float32
	maxViewDst       float32
	chunksInViewDst  int
	retentionSqrDst  float32

	chunks         map[Coord]*Chunk
	visibleChunks  []*Chunk
	updated        map[Coord]struct{}
	scratch        []*Chunk
	nextGeneration uint64

	viewer    world.Vec2f
	viewerOld world.Vec2f
	started   bool
	closed    bool
}

// New creates a Streamer. observer may be nil.
func New(generator Generator, r *requester.Requester, options Options, observer Observer) (*Streamer, error) {
	if err := options.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("mesh settings: %w", err)
	}
	if err := options.DetailLevels.Validate(); err != nil {
		return nil, fmt.Errorf("detail levels: %w", err)
	}
	if options.ColliderLODIndex < 0 || options.ColliderLODIndex >= len(options.DetailLevels) {
		return nil, fmt.Errorf("%w: %d", ErrColliderLODIndex, options.ColliderLODIndex)
	}

	if observer == nil {
		observer = NopObserver{}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	meshWorldSize := options.Mesh.MeshWorldSize()
	maxViewDst := options.DetailLevels.MaxViewDst()
	retentionDst := options.RetentionDst
	if retentionDst <= 0 {
		retentionDst = maxViewDst + meshWorldSize
	}

	return &Streamer{
		generator:        generator,
		requester:        r,
		observer:         observer,
		logger:           logger,
		meshSettings:     options.Mesh,
		detailLevels:     append(terrain.LODTable(nil), options.DetailLevels...),
		colliderLODIndex: options.ColliderLODIndex,
		meshWorldSize:    meshWorldSize,
		maxViewDst:       maxViewDst,
		chunksInViewDst:  int(math.Ceil(float64(maxViewDst / meshWorldSize))),
		retentionSqrDst:  retentionDst * retentionDst,
		chunks:           make(map[Coord]*Chunk),
		updated:          make(map[Coord]struct{}),
	}, nil
}

// Update moves the viewer. Chunks are re-evaluated on the first call and
// whenever the viewer has moved far enough since the last evaluation.
func (s *Streamer) Update(viewer world.Vec2f) {
	if s.closed {
		return
	}
	s.viewer = viewer

	if !s.started {
		s.started = true
		s.viewerOld = viewer
		s.updateVisibleChunks()
		return
	}

	if viewer != s.viewerOld {
		s.scratch = append(s.scratch[:0], s.visibleChunks...)
		for _, chunk := range s.scratch {
			s.updateCollisionMesh(chunk)
		}
	}

	if s.viewerOld.DistanceSquared(viewer) > sqrViewerMoveThresholdForChunkUpdate {
		s.viewerOld = viewer
		s.updateVisibleChunks()
	}
}

// Close forgets every chunk without notifying the observer. Results still in
// flight are discarded when drained and request no further work. Update does
// nothing afterwards.
func (s *Streamer) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for coord, chunk := range s.chunks {
		chunk.evicted = true
		delete(s.chunks, coord)
	}
	clear(s.visibleChunks)
	s.visibleChunks = s.visibleChunks[:0]
}

func (s *Streamer) updateVisibleChunks() {
	clear(s.updated)

	// Visibility callbacks modify visibleChunks
	s.scratch = append(s.scratch[:0], s.visibleChunks...)
	for _, chunk := range s.scratch {
		s.updated[chunk.Coord] = struct{}{}
		s.updateChunk(chunk)
	}

	current := s.viewer.Div(s.meshWorldSize).Round()
	cx, cy := int(current.X), int(current.Y)
	k := s.chunksInViewDst

	window := make(map[Coord]struct{}, (2*k+1)*(2*k+1))
	for yOffset := -k; yOffset <= k; yOffset++ {
		for xOffset := -k; xOffset <= k; xOffset++ {
			coord := Coord{X: cx + xOffset, Y: cy + yOffset}
			window[coord] = struct{}{}
			if _, ok := s.updated[coord]; ok {
				continue
			}

			if chunk, ok := s.chunks[coord]; ok {
				s.updateChunk(chunk)
			} else {
				s.load(coord)
			}
		}
	}

	s.evictFarChunks(window)
}

// evictFarChunks forgets invisible chunks outside the window that are beyond
// the retention distance. Their pending results are discarded on arrival.
func (s *Streamer) evictFarChunks(window map[Coord]struct{}) {
	for coord, chunk := range s.chunks {
		if chunk.visible {
			continue
		}
		if _, ok := window[coord]; ok {
			continue
		}
		if chunk.Bounds.SqrDistance(s.viewer) <= s.retentionSqrDst {
			continue
		}

		delete(s.chunks, coord)
		chunk.evicted = true
		s.observer.ChunkEvicted(chunk)
	}
}

func (s *Streamer) load(coord Coord) {
	s.nextGeneration++
	chunk := newChunk(coord, s.nextGeneration, &s.meshSettings, s.detailLevels)
	s.chunks[coord] = chunk
	s.requestHeightMap(chunk)
}

// current reports whether a result for chunk should still be applied.
func (s *Streamer) current(chunk *Chunk, generation uint64) bool {
	return !s.closed && !chunk.evicted && chunk.generation == generation && s.chunks[chunk.Coord] == chunk
}

func (s *Streamer) requestHeightMap(chunk *Chunk) {
	chunk.heightMapRequested = true
	generation := chunk.generation
	centre := chunk.SampleCentre

	requester.Request(s.requester, func() (*terrain.HeightMap, error) {
		return s.generator.HeightMap(centre)
	}, func(hm *terrain.HeightMap, err error) {
		if !s.current(chunk, generation) {
			s.logger.Debug("discarding stale heightmap", "coord", chunk.Coord, "generation", generation)
			return
		}
		if err != nil {
			s.logger.Error("heightmap generation failed", "coord", chunk.Coord, "err", err)
			chunk.heightMapRequested = false
			return
		}

		chunk.heightMap = hm
		s.observer.HeightMapReceived(chunk)
		s.updateChunk(chunk)
	})
}

func (s *Streamer) requestMesh(chunk *Chunk, lodIndex int) {
	lodMesh := &chunk.lodMeshes[lodIndex]
	lodMesh.requested = true
	generation := chunk.generation
	hm := chunk.heightMap
	lod := lodMesh.lod

	requester.Request(s.requester, func() (*mesh.Data, error) {
		return s.generator.Mesh(hm, lod)
	}, func(data *mesh.Data, err error) {
		if !s.current(chunk, generation) {
			s.logger.Debug("discarding stale mesh", "coord", chunk.Coord, "lod", lod, "generation", generation)
			return
		}
		if err != nil {
			s.logger.Error("mesh generation failed", "coord", chunk.Coord, "lod", lod, "err", err)
			lodMesh.requested = false
			return
		}

		lodMesh.data = data
		s.updateChunk(chunk)
		if lodIndex == s.colliderLODIndex {
			s.updateCollisionMesh(chunk)
		}
	})
}

// updateChunk recomputes visibility and LOD of a chunk.
func (s *Streamer) updateChunk(chunk *Chunk) {
	if chunk.heightMap == nil {
		if !chunk.heightMapRequested {
			s.requestHeightMap(chunk)
		}
		return
	}

	dst := float32(math.Sqrt(float64(chunk.Bounds.SqrDistance(s.viewer))))
	wasVisible := chunk.visible
	lodIndex, visible := s.detailLevels.Select(dst)

	if visible && lodIndex != chunk.previousLODIndex {
		lodMesh := &chunk.lodMeshes[lodIndex]
		if lodMesh.data != nil {
			chunk.previousLODIndex = lodIndex
			s.observer.MeshChanged(chunk, lodIndex, lodMesh.data)
		} else if !lodMesh.requested {
			s.requestMesh(chunk, lodIndex)
		}
	}

	if wasVisible != visible {
		chunk.visible = visible
		if visible {
			s.visibleChunks = append(s.visibleChunks, chunk)
		} else {
			s.removeVisible(chunk)
		}
		s.observer.VisibilityChanged(chunk, visible)
	}
}

func (s *Streamer) removeVisible(chunk *Chunk) {
	for i, c := range s.visibleChunks {
		if c == chunk {
			copy(s.visibleChunks[i:], s.visibleChunks[i+1:])
			s.visibleChunks[len(s.visibleChunks)-1] = nil
			s.visibleChunks = s.visibleChunks[:len(s.visibleChunks)-1]
			return
		}
	}
}

// updateCollisionMesh requests the collider mesh once the viewer is within
// its detail level and sets it once the viewer is next to the chunk.
func (s *Streamer) updateCollisionMesh(chunk *Chunk) {
	if chunk.hasSetCollider || chunk.heightMap == nil {
		return
	}

	sqrDst := chunk.Bounds.SqrDistance(s.viewer)
	lodMesh := &chunk.lodMeshes[s.colliderLODIndex]

	if sqrDst < s.detailLevels[s.colliderLODIndex].SqrVisibleDstThreshold() && !lodMesh.requested {
		s.requestMesh(chunk, s.colliderLODIndex)
	}

	if sqrDst < sqrColliderGenerationDistanceThreshold && lodMesh.data != nil {
		chunk.hasSetCollider = true
		s.observer.ColliderSet(chunk, lodMesh.data)
	}
}

// Chunk returns the tracked chunk at coord, or nil.
func (s *Streamer) Chunk(coord Coord) *Chunk {
	return s.chunks[coord]
}

// Len is the number of tracked chunks.
func (s *Streamer) Len() int {
	return len(s.chunks)
}

func (s *Streamer) VisibleLen() int {
	return len(s.visibleChunks)
}

// ForChunks calls fn on every tracked chunk in no particular order.
func (s *Streamer) ForChunks(fn func(chunk *Chunk)) {
	for _, chunk := range s.chunks {
		fn(chunk)
	}
}

// ForVisibleChunks calls fn on every visible chunk in the order they became visible.
func (s *Streamer) ForVisibleChunks(fn func(chunk *Chunk)) {
	for _, chunk := range s.visibleChunks {
		fn(chunk)
	}
}

func (s *Streamer) Viewer() world.Vec2f {
	return s.viewer
}

func (s *Streamer) MeshWorldSize() float32 {
	return s.meshWorldSize
}

// CoordAt returns the coordinate of the chunk containing pos.
func (s *Streamer) CoordAt(pos world.Vec2f) Coord {
	c := pos.Div(s.meshWorldSize).Round()
	return Coord{X: int(c.X), Y: int(c.Y)}
}

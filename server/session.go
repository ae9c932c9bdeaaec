// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/Fesbaz/ProceduralLandmassGeneration/streamer"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/compressed"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/mesh"
)

// session streams terrain around one client's viewer.
// It observes its streamer and forwards every change to the client.
type session struct {
	client   Client
	streamer *streamer.Streamer
	closed   bool
}

func newSession(h *Hub, client Client) (*session, error) {
	s := &session{client: client}

	str, err := streamer.New(h.generator, h.requester, streamer.Options{
		Mesh:             h.config.Mesh,
		DetailLevels:     h.config.DetailLevels,
		ColliderLODIndex: h.config.ColliderLODIndex,
		Logger:           h.logger.With("client", client.Data().ID),
	}, s)
	if err != nil {
		return nil, err
	}
	s.streamer = str

	return s, nil
}

// close stops forwarding. Results of requests still in flight are dropped
// without queueing follow up work.
func (s *session) close() {
	s.closed = true
	s.streamer.Close()
}

func (s *session) HeightMapReceived(chunk *streamer.Chunk) {
	if s.closed {
		return
	}
	s.client.Send(&HeightMap{
		Coord:   chunk.Coord,
		Terrain: compressed.Encode(chunk.HeightMap(), chunk.Bounds),
	})
}

func (s *session) VisibilityChanged(chunk *streamer.Chunk, visible bool) {
	if s.closed {
		return
	}
	s.client.Send(Visibility{Coord: chunk.Coord, Visible: visible})
}

func (s *session) MeshChanged(chunk *streamer.Chunk, lodIndex int, data *mesh.Data) {
	if s.closed {
		return
	}
	s.client.Send(Mesh{Coord: chunk.Coord, LODIndex: lodIndex, Data: data})
}

func (s *session) ColliderSet(chunk *streamer.Chunk, data *mesh.Data) {
	if s.closed {
		return
	}
	s.client.Send(Collider{Coord: chunk.Coord, Data: data})
}

func (s *session) ChunkEvicted(chunk *streamer.Chunk) {
	if s.closed {
		return
	}
	s.client.Send(Evicted{Coord: chunk.Coord})
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"github.com/chewxy/math32"
)

// Make sure to register in init function
type (
	// InvalidInbound means invalid message type from client (possibly out of date).
	// NOTE: Do not register, otherwise client could send type "invalidInbound"
	InvalidInbound struct {
		messageType messageType
	}

	// Viewer moves the client's viewer, streaming the chunks around it.
	Viewer struct {
		world.Vec2f
	}
)

func init() {
	registerInbound(
		Viewer{},
	)
}

func (data Viewer) Inbound(h *Hub, client Client) {
	s := h.clients[client]
	if s == nil {
		return
	}

	pos := data.Vec2f
	if math32.IsNaN(pos.X) || math32.IsNaN(pos.Y) || math32.IsInf(pos.X, 0) || math32.IsInf(pos.Y, 0) {
		h.logger.Warn("ignoring invalid viewer position", "client", client.Data().ID)
		return
	}
	s.streamer.Update(pos)
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

type (
	// Client is a renderer connected to the Hub.
	Client interface {
		// Init is called once by the hub goroutine when the client is registered.
		// client.Data().Hub will be set by the time this is called
		Init()

		// Close is called by (only) the hub goroutine when the client is unregistered.
		Close()

		// Send is how the server sends a message to the client.
		// It is only called by the hub goroutine.
		Send(out Outbound)

		// Destroy marks the client for destruction. It must call hub.Unregister() only once (no matter how many
		// times it is called; use a sync.Once if necessary). It may be called anywhere.
		Destroy()

		Data() *ClientData
	}

	// ClientData is the data all clients must have.
	ClientData struct {
		Hub *Hub
		ID  uint32
	}
)

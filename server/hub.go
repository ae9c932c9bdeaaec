// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"github.com/Fesbaz/ProceduralLandmassGeneration/requester"
	"github.com/Fesbaz/ProceduralLandmassGeneration/streamer"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	drainPeriod  = time.Second / 60
	statusPeriod = time.Second
	debugPeriod  = time.Minute
)

type HubOptions struct {
	Config terrain.Config
	// Workers is the number of generation goroutines, one per CPU if <= 0.
	Workers int
	Cloud   Cloud
	Logger  *slog.Logger
	// DebugLog is a CSV file that Debug appends to. Empty disables it.
	DebugLog string
}

// Hub owns the terrain sessions of all clients. Everything but the HTTP
// handlers runs on the goroutine calling Run.
type Hub struct {
	config    terrain.Config
	generator streamer.Generator
	requester *requester.Requester
	cloud     Cloud
	logger    *slog.Logger
	debugLog  string

	clients map[Client]*session
	nextID  uint32

	// Served atomically by HTTP
	statusJSON atomic.Value

	// Inbound channels
	inbound    chan SignedInbound
	register   chan Client
	unregister chan Client

	// Timer based events
	drainTicker  *time.Ticker
	statusTicker *time.Ticker
	cloudTicker  *time.Ticker
	debugTicker  *time.Ticker

	funcBenches []funcBench
}

// NewHub validates the config and starts the generation workers.
func NewHub(options HubOptions) (*Hub, error) {
	config := options.Config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cloud := options.Cloud
	if cloud == nil {
		cloud = Offline{}
	}

	h := &Hub{
		config:       config,
		generator:    streamer.NewGenerator(config.HeightMapSettings, config.Mesh),
		requester:    requester.New(options.Workers),
		cloud:        cloud,
		logger:       logger,
		debugLog:     options.DebugLog,
		clients:      make(map[Client]*session),
		inbound:      make(chan SignedInbound, 64),
		register:     make(chan Client, 8),
		unregister:   make(chan Client, 16),
		drainTicker:  time.NewTicker(drainPeriod),
		statusTicker: time.NewTicker(statusPeriod),
		cloudTicker:  time.NewTicker(cloud.UpdatePeriod()),
		debugTicker:  time.NewTicker(debugPeriod),
	}
	h.updateStatus()
	return h, nil
}

// Run processes events until ctx is done, then closes all clients.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.drainTicker.Stop()
		h.statusTicker.Stop()
		h.cloudTicker.Stop()
		h.debugTicker.Stop()
		for client := range h.clients {
			h.remove(client)
		}
		h.requester.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.nextID++
			client.Data().ID = h.nextID

			s, err := newSession(h, client)
			if err != nil {
				h.logger.Error("could not create session", "err", err)
				continue
			}

			h.clients[client] = s
			client.Data().Hub = h
			client.Init()

			client.Send(Settings{
				MeshWorldSize:   h.config.Mesh.MeshWorldSize(),
				NumVertsPerLine: h.config.Mesh.NumVertsPerLine(),
				DetailLevels:    h.config.DetailLevels,
				Regions:         h.config.Regions,
				MinHeight:       h.config.MinHeight(),
				MaxHeight:       h.config.MaxHeight(),
			})
			h.logger.Info("client registered", "client", client.Data().ID, "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Info("client unregistered", "client", client.Data().ID, "clients", len(h.clients))
			}
		case in := <-h.inbound:
			// Read all messages currently in the channel
			n := len(h.inbound)

			start := time.Now()
			for {
				// If not same hub the message is old
				if in.Client.Data().Hub == h {
					in.Inbound.Inbound(h, in.Client)
				}

				if n--; n < 0 {
					break
				}

				in = <-h.inbound
			}
			h.timeFunction("inbound", start)
		case <-h.drainTicker.C:
			start := time.Now()
			if h.requester.Drain() > 0 {
				h.timeFunction("drain", start)
			}
		case <-h.statusTicker.C:
			h.updateStatus()
		case <-h.cloudTicker.C:
			h.Cloud()
		case <-h.debugTicker.C:
			h.Debug()
		}
	}
}

func (h *Hub) remove(client Client) {
	h.clients[client].close()
	delete(h.clients, client)
	client.Close()
}

func (h *Hub) updateStatus() {
	chunks := 0
	for _, s := range h.clients {
		chunks += s.streamer.Len()
	}

	statusJSON, err := json.Marshal(struct {
		Clients int `json:"clients"`
		Chunks  int `json:"chunks"`
		Pending int `json:"pending"`
	}{
		Clients: len(h.clients),
		Chunks:  chunks,
		Pending: h.requester.Pending(),
	})

	if err == nil {
		h.statusJSON.Store(statusJSON)
	} else {
		h.logger.Error("error marshaling status", "err", err)
	}
}

// Register adds a client. It may be called from any goroutine.
func (h *Hub) Register(client Client) {
	h.register <- client
}

// Unregister removes a client. It may be called from any goroutine.
func (h *Hub) Unregister(client Client) {
	h.unregister <- client
}

// ReceiveSigned queues an inbound message. It may be called from any goroutine.
func (h *Hub) ReceiveSigned(in SignedInbound) {
	h.inbound <- in
}

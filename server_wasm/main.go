// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build js && wasm

package main

import (
	"context"
	"github.com/Fesbaz/ProceduralLandmassGeneration/server"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"log"
)

func main() {
	hub, err := server.NewHub(server.HubOptions{
		Config: terrain.DefaultConfig(),
		Cloud:  server.Offline{},
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Println("terrain WASM server started")

	hub.Register(&localClient)

	hub.Run(context.Background())
}

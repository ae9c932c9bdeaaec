// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	config := terrain.DefaultConfig()
	config.Mesh.ChunkSizeIndex = 0

	for _, mode := range []string{"noise", "colour", "falloff"} {
		img, err := render(&config, options{mode: mode, size: 32})
		if err != nil {
			t.Errorf("%s: %s", mode, err)
			continue
		}
		if size := img.Bounds().Size(); size.X != 32 || size.Y != 32 {
			t.Errorf("%s: expected 32x32 got %v", mode, size)
		}
	}

	img, err := render(&config, options{mode: "colour"})
	if err != nil {
		t.Fatal(err)
	}
	if size := img.Bounds().Dx(); size != 53 {
		t.Errorf("expected chunk width 53 got %d", size)
	}

	img, err = render(&config, options{mode: "noise", size: 32, width: 128})
	if err != nil {
		t.Fatal(err)
	}
	if size := img.Bounds().Size(); size.X != 128 || size.Y != 128 {
		t.Errorf("expected 128x128 got %v", size)
	}

	if _, err = render(&config, options{mode: "sepia"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestWriteMesh(t *testing.T) {
	config := terrain.DefaultConfig()
	config.Mesh.ChunkSizeIndex = 0

	var buf bytes.Buffer
	if err := writeMesh(&buf, &config, options{lod: 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\nf ") {
		t.Error("expected faces")
	}

	if err := writeMesh(&buf, &config, options{lod: terrain.NumSupportedLODs}); err == nil {
		t.Error("expected error for unsupported lod")
	}
}

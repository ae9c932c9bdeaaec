// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	const input = `{
		"noise": {"seed": 7, "scale": -1, "octaves": 4, "persistance": 0.5, "lacunarity": 2, "normalizeMode": "local", "primitive": "simplex"},
		"heightMultiplier": 12,
		"mesh": {"meshScale": 1, "chunkSizeIndex": 0},
		"detailLevels": [{"lod": 0, "visibleDstThreshold": 100}, {"lod": 2, "visibleDstThreshold": 250}],
		"colliderLODIndex": 1
	}`

	config, err := LoadConfig(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	if config.Noise.Seed != 7 || config.Noise.Octaves != 4 {
		t.Errorf("expected seed 7 and 4 octaves got %+v", config.Noise)
	}
	if config.Noise.Scale != minScale {
		t.Errorf("expected clamped scale got %f", config.Noise.Scale)
	}
	if config.Noise.NormalizeMode != NormalizeLocal || config.Noise.Primitive != Simplex {
		t.Errorf("expected local simplex got %s %s", config.Noise.NormalizeMode, config.Noise.Primitive)
	}
	if config.HeightMultiplier != 12 {
		t.Errorf("expected height multiplier 12 got %f", config.HeightMultiplier)
	}
	if config.HeightCurve == nil || len(config.HeightCurve.Keys) != 3 {
		t.Errorf("expected default height curve to be kept")
	}
	if len(config.DetailLevels) != 2 || config.DetailLevels.MaxViewDst() != 250 {
		t.Errorf("expected 2 detail levels up to 250 got %+v", config.DetailLevels)
	}
	if len(config.Regions) != len(DefaultRegions()) {
		t.Errorf("expected default regions got %d", len(config.Regions))
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{`{"colliderLODIndex": 9}`, ErrColliderLODIndex},
		{`{"mesh": {"meshScale": 1, "chunkSizeIndex": 20}}`, ErrChunkSizeIndex},
		{`{"detailLevels": []}`, ErrNoDetailLevels},
	}

	for _, test := range tests {
		if _, err := LoadConfig(strings.NewReader(test.input)); !errors.Is(err, test.err) {
			t.Errorf("%s: expected %v got %v", test.input, test.err, err)
		}
	}

	if _, err := LoadConfig(strings.NewReader(`{"noise": {"normalizeMode": "sideways"}}`)); err == nil {
		t.Error("expected error for unknown normalize mode")
	}
}

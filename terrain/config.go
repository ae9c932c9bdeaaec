// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"fmt"
	jsoniter "github.com/json-iterator/go"
	"io"
	"os"
)

var json = jsoniter.Config{
	EscapeHTML:                    false,
	SortMapKeys:                   true,
	DisallowUnknownFields:         true,
	TagKey:                        "json",
	ObjectFieldMustBeSimpleString: true,
	CaseSensitive:                 true,
}.Froze()

var ErrColliderLODIndex = errors.New("collider lod index out of range")

// Config is everything needed to generate and stream terrain.
type Config struct {
	HeightMapSettings
	Mesh             MeshSettings `json:"mesh"`
	DetailLevels     LODTable     `json:"detailLevels"`
	ColliderLODIndex int          `json:"colliderLODIndex"`
	Regions          []Region     `json:"regions"`
}

func DefaultConfig() Config {
	return Config{
		HeightMapSettings: HeightMapSettings{
			Noise:            DefaultNoiseSettings(),
			HeightMultiplier: 30,
			HeightCurve: NewCurve(
				Keyframe{Time: 0, Value: 0},
				Keyframe{Time: 0.35, Value: 0.05, InTangent: 0.3, OutTangent: 0.3},
				Keyframe{Time: 1, Value: 1, InTangent: 2, OutTangent: 2},
			),
		},
		Mesh:         DefaultMeshSettings(),
		DetailLevels: DefaultLODTable(),
		Regions:      DefaultRegions(),
	}
}

// Validate clamps noise settings and checks everything else.
func (config *Config) Validate() error {
	config.Noise = config.Noise.Validate()

	if err := config.HeightCurve.Validate(); err != nil {
		return fmt.Errorf("height curve: %w", err)
	}
	if err := config.Mesh.Validate(); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	if err := config.DetailLevels.Validate(); err != nil {
		return fmt.Errorf("detail levels: %w", err)
	}
	if config.ColliderLODIndex < 0 || config.ColliderLODIndex >= len(config.DetailLevels) {
		return fmt.Errorf("%w: %d", ErrColliderLODIndex, config.ColliderLODIndex)
	}
	return nil
}

// LoadConfig decodes JSON over DefaultConfig and validates the result.
// Fields missing from r keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	if err := json.NewDecoder(r).Decode(&config); err != nil {
		return config, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// LoadConfigFile is LoadConfig on a file. An empty path means DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		config := DefaultConfig()
		return config, config.Validate()
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	return LoadConfig(file)
}

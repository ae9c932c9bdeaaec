// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"sync"
)

// Data describes a chunk heightmap for export.
// Heights are quantized to bytes between Min and Max, and Data may be in a
// compressed format.
type Data struct {
	world.AABB
	Data   []byte  `json:"data"`   // Data is a possibly compressed quantized heightmap.
	Stride int     `json:"stride"` // Stride is width of Data.
	Length int     `json:"length"` // Length is uncompressed length of Data for faster reading.
	Min    float32 `json:"min"`
	Max    float32 `json:"max"`
}

var dataPool = sync.Pool{
	New: func() interface{} {
		return &Data{
			Data: make([]byte, 0, 2048),
		}
	},
}

func NewData() *Data {
	return dataPool.Get().(*Data)
}

func (data *Data) Pool() {
	*data = Data{
		Data: data.Data[:0],
	}
	dataPool.Put(data)
}

// Quantize maps h in [min, max] to a byte.
func Quantize(h, min, max float32) byte {
	return byte(world.InverseLerp(min, max, h)*255 + 0.5)
}

// Dequantize is the inverse of Quantize, up to rounding.
func Dequantize(b byte, min, max float32) float32 {
	return world.Lerp(min, max, float32(b)*(1.0/255))
}

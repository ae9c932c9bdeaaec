// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package compressed

import (
	"errors"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
)

var ErrTruncated = errors.New("compressed heightmap is truncated")

// Encode quantizes and compresses a heightmap covering bounds.
// The result should be returned with Data.Pool once sent.
func Encode(hm *terrain.HeightMap, bounds world.AABB) *terrain.Data {
	data := terrain.NewData()
	data.AABB = bounds
	data.Stride = hm.Width
	data.Length = len(hm.Values)
	data.Min = hm.Min
	data.Max = hm.Max

	var buffer Buffer
	buffer.Reset(data.Data[:0])
	buffer.Grow(data.Length)
	for _, v := range hm.Values {
		buffer.writeByte(terrain.Quantize(v, hm.Min, hm.Max))
	}
	data.Data = buffer.Buffer()

	return data
}

// Decode reverses Encode up to quantization. data is left intact.
func Decode(data *terrain.Data) (*terrain.HeightMap, error) {
	raw := make([]byte, data.Length)

	var buffer Buffer
	buffer.Reset(append([]byte(nil), data.Data...))
	n, _ := buffer.Read(raw)
	if n != data.Length {
		return nil, ErrTruncated
	}

	values := make([]float32, data.Length)
	for i, b := range raw {
		values[i] = terrain.Dequantize(b, data.Min, data.Max)
	}

	height := 0
	if data.Stride > 0 {
		height = data.Length / data.Stride
	}
	return terrain.NewHeightMap(values, data.Stride, height), nil
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package mesh

import (
	"bufio"
	"io"
	"strconv"
)

// WriteOBJ writes the mesh in Wavefront OBJ format with positions, texture
// coordinates and normals sharing indices.
func (data *Data) WriteOBJ(w io.Writer) error {
	writer := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)

	writeFloats := func(prefix string, values ...float32) {
		buf = append(buf[:0], prefix...)
		for _, v := range values {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, float64(v), 'f', -1, 32)
		}
		buf = append(buf, '\n')
		_, _ = writer.Write(buf)
	}

	for _, v := range data.Vertices {
		writeFloats("v", v[0], v[1], v[2])
	}
	for _, uv := range data.UVs {
		writeFloats("vt", uv[0], uv[1])
	}
	for _, n := range data.Normals {
		writeFloats("vn", n[0], n[1], n[2])
	}

	for i := 0; i+2 < len(data.Triangles); i += 3 {
		buf = append(buf[:0], 'f')
		for _, index := range data.Triangles[i : i+3] {
			// OBJ indices are 1 based
			s := strconv.AppendInt(nil, int64(index)+1, 10)
			buf = append(buf, ' ')
			buf = append(buf, s...)
			buf = append(buf, '/')
			buf = append(buf, s...)
			buf = append(buf, '/')
			buf = append(buf, s...)
		}
		buf = append(buf, '\n')
		_, _ = writer.Write(buf)
	}

	return writer.Flush()
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package mesh

import (
	"errors"
	"fmt"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrHeightMapSize = errors.New("heightmap size does not match mesh settings")
	ErrLOD           = errors.New("lod out of range")
	ErrSkip          = errors.New("skip increment does not divide chunk size")
)

// SkipIncrement is the distance in heightmap cells between main vertices at lod.
func SkipIncrement(lod int) int {
	if lod == 0 {
		return 1
	}
	return lod * 2
}

// EdgeConnection is a vertex on the border of the main grid, between main
// vertices A and B, whose height and normal are interpolated from them so the
// border lines up with a neighbouring chunk of any LOD.
type EdgeConnection struct {
	Index int32   `json:"index"`
	A     int32   `json:"a"`
	B     int32   `json:"b"`
	T     float32 `json:"t"` // distance from A to B in [0, 1)
}

// Data is a finished chunk mesh. It must not be modified once returned.
type Data struct {
	Vertices        []mgl32.Vec3     `json:"vertices"`
	Triangles       []int32          `json:"triangles"` // clockwise when viewed from above in a left handed frame
	UVs             []mgl32.Vec2     `json:"uvs"`
	Normals         []mgl32.Vec3     `json:"normals"`
	FlatShaded      bool             `json:"flatShaded"`
	EdgeConnections []EdgeConnection `json:"edgeConnections,omitempty"`
}

type vertexKind uint8

const (
	skipped vertexKind = iota
	inMesh
	outOfMesh
)

// vertexIndex addresses either the mesh vertices or the ring of vertices
// outside the mesh that only contributes to normals.
type vertexIndex struct {
	kind  vertexKind
	index int32
}

type meshBuilder struct {
	data *Data

	outOfMeshVertices  []mgl32.Vec3
	outOfMeshTriangles []vertexIndex
}

func newMeshBuilder(numVertsPerLine, skip int, flatShaded bool) *meshBuilder {
	n := numVertsPerLine

	numMeshEdgeVertices := (n-2)*4 - 4
	numEdgeConnectionVertices := (skip - 1) * (n - 5) / skip * 4
	numMainVerticesPerLine := (n-5)/skip + 1
	numMainVertices := numMainVerticesPerLine * numMainVerticesPerLine
	numVertices := numMeshEdgeVertices + numEdgeConnectionVertices + numMainVertices

	numMeshEdgeTriangles := 8 * (n - 4)
	numMainTriangles := (numMainVerticesPerLine - 1) * (numMainVerticesPerLine - 1) * 2
	numTriangles := numMeshEdgeTriangles + numMainTriangles

	return &meshBuilder{
		data: &Data{
			Vertices:        make([]mgl32.Vec3, numVertices),
			UVs:             make([]mgl32.Vec2, numVertices),
			Triangles:       make([]int32, 0, numTriangles*3),
			FlatShaded:      flatShaded,
			EdgeConnections: make([]EdgeConnection, 0, numEdgeConnectionVertices),
		},
		outOfMeshVertices:  make([]mgl32.Vec3, n*4-4),
		outOfMeshTriangles: make([]vertexIndex, 0, 24*(n-2)),
	}
}

func (builder *meshBuilder) addVertex(position mgl32.Vec3, uv mgl32.Vec2, index vertexIndex) {
	if index.kind == outOfMesh {
		builder.outOfMeshVertices[index.index] = position
		return
	}
	builder.data.Vertices[index.index] = position
	builder.data.UVs[index.index] = uv
}

func (builder *meshBuilder) addTriangle(a, b, c vertexIndex) {
	if a.kind == outOfMesh || b.kind == outOfMesh || c.kind == outOfMesh {
		builder.outOfMeshTriangles = append(builder.outOfMeshTriangles, a, b, c)
		return
	}
	builder.data.Triangles = append(builder.data.Triangles, a.index, b.index, c.index)
}

func (builder *meshBuilder) position(index vertexIndex) mgl32.Vec3 {
	if index.kind == outOfMesh {
		return builder.outOfMeshVertices[index.index]
	}
	return builder.data.Vertices[index.index]
}

// Generate builds the mesh of a chunk at lod from its heightmap.
// The heightmap must be MeshSettings.NumVertsPerLine wide and tall.
func Generate(heightMap *terrain.HeightMap, settings terrain.MeshSettings, lod int) (*Data, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if lod < 0 || lod >= terrain.NumSupportedLODs {
		return nil, fmt.Errorf("%w: %d", ErrLOD, lod)
	}

	n := settings.NumVertsPerLine()
	if heightMap.Width != n || heightMap.Height != n || len(heightMap.Values) != n*n {
		return nil, fmt.Errorf("%w: expected %dx%d got %dx%d", ErrHeightMapSize, n, n, heightMap.Width, heightMap.Height)
	}

	skip := SkipIncrement(lod)
	if (n-5)%skip != 0 {
		return nil, fmt.Errorf("%w: %d into %d", ErrSkip, skip, n-5)
	}

	meshWorldSize := settings.MeshWorldSize()
	topLeft := mgl32.Vec2{-1, 1}.Mul(meshWorldSize / 2)

	builder := newMeshBuilder(n, skip, settings.UseFlatShading)

	isOutOfMesh := func(x, y int) bool {
		return y == 0 || y == n-1 || x == 0 || x == n-1
	}
	isSkipped := func(x, y int) bool {
		return x > 2 && x < n-3 && y > 2 && y < n-3 && ((x-2)%skip != 0 || (y-2)%skip != 0)
	}

	indices := make([]vertexIndex, n*n)
	var meshIndex, outOfMeshIndex int32
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			switch {
			case isOutOfMesh(x, y):
				indices[x+y*n] = vertexIndex{kind: outOfMesh, index: outOfMeshIndex}
				outOfMeshIndex++
			case !isSkipped(x, y):
				indices[x+y*n] = vertexIndex{kind: inMesh, index: meshIndex}
				meshIndex++
			}
		}
	}
	at := func(x, y int) vertexIndex {
		return indices[x+y*n]
	}

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			index := at(x, y)
			if index.kind == skipped {
				continue
			}

			outOfMeshVertex := index.kind == outOfMesh
			meshEdge := (y == 1 || y == n-2 || x == 1 || x == n-2) && !outOfMeshVertex
			mainVertex := (x-2)%skip == 0 && (y-2)%skip == 0 && !outOfMeshVertex && !meshEdge
			edgeConnection := (y == 2 || y == n-3 || x == 2 || x == n-3) && !outOfMeshVertex && !meshEdge && !mainVertex

			percent := mgl32.Vec2{float32(x - 1), float32(y - 1)}.Mul(1 / float32(n-3))
			position := topLeft.Add(mgl32.Vec2{percent.X(), -percent.Y()}.Mul(meshWorldSize))
			height := heightMap.At(x, y)

			if edgeConnection {
				vertical := x == 2 || x == n-3

				var dstToA int
				if vertical {
					dstToA = (y - 2) % skip
				} else {
					dstToA = (x - 2) % skip
				}
				dstToB := skip - dstToA
				t := float32(dstToA) / float32(skip)

				ax, ay, bx, by := x-dstToA, y, x+dstToB, y
				if vertical {
					ax, ay, bx, by = x, y-dstToA, x, y+dstToB
				}

				height = heightMap.At(ax, ay)*(1-t) + heightMap.At(bx, by)*t
				builder.data.EdgeConnections = append(builder.data.EdgeConnections, EdgeConnection{
					Index: index.index,
					A:     at(ax, ay).index,
					B:     at(bx, by).index,
					T:     t,
				})
			}

			builder.addVertex(mgl32.Vec3{position.X(), height, position.Y()}, percent, index)

			if x < n-1 && y < n-1 && (!edgeConnection || (x != 2 && y != 2)) {
				increment := 1
				if mainVertex && x != n-3 && y != n-3 {
					increment = skip
				}

				a := index
				b := at(x+increment, y)
				c := at(x, y+increment)
				d := at(x+increment, y+increment)
				builder.addTriangle(a, d, c)
				builder.addTriangle(d, a, b)
			}
		}
	}

	if builder.data.FlatShaded {
		builder.flatShade()
	} else {
		builder.bakeNormals()
	}

	return builder.data, nil
}

func surfaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// bakeNormals averages face normals, including faces outside the mesh, so
// normals agree along chunk borders.
func (builder *meshBuilder) bakeNormals() {
	data := builder.data
	normals := make([]mgl32.Vec3, len(data.Vertices))

	for i := 0; i+2 < len(data.Triangles); i += 3 {
		ia, ib, ic := data.Triangles[i], data.Triangles[i+1], data.Triangles[i+2]
		normal := surfaceNormal(data.Vertices[ia], data.Vertices[ib], data.Vertices[ic])
		normals[ia] = normals[ia].Add(normal)
		normals[ib] = normals[ib].Add(normal)
		normals[ic] = normals[ic].Add(normal)
	}

	for i := 0; i+2 < len(builder.outOfMeshTriangles); i += 3 {
		triangle := builder.outOfMeshTriangles[i : i+3]
		normal := surfaceNormal(builder.position(triangle[0]), builder.position(triangle[1]), builder.position(triangle[2]))
		for _, index := range triangle {
			if index.kind == inMesh {
				normals[index.index] = normals[index.index].Add(normal)
			}
		}
	}

	for i := range normals {
		normals[i] = normals[i].Normalize()
	}

	for _, e := range data.EdgeConnections {
		normals[e.Index] = normals[e.A].Mul(1 - e.T).Add(normals[e.B].Mul(e.T))
	}

	data.Normals = normals
	builder.outOfMeshVertices = nil
	builder.outOfMeshTriangles = nil
}

// flatShade gives every triangle its own vertices and face normal.
// Edge connections no longer address vertices afterwards, so they are dropped.
func (builder *meshBuilder) flatShade() {
	data := builder.data
	vertices := make([]mgl32.Vec3, len(data.Triangles))
	uvs := make([]mgl32.Vec2, len(data.Triangles))
	normals := make([]mgl32.Vec3, len(data.Triangles))

	for i, index := range data.Triangles {
		vertices[i] = data.Vertices[index]
		uvs[i] = data.UVs[index]
		data.Triangles[i] = int32(i)
	}

	for i := 0; i+2 < len(vertices); i += 3 {
		normal := surfaceNormal(vertices[i], vertices[i+1], vertices[i+2])
		normals[i], normals[i+1], normals[i+2] = normal, normal, normal
	}

	data.Vertices = vertices
	data.UVs = uvs
	data.Normals = normals
	data.EdgeConnections = nil
	builder.outOfMeshVertices = nil
	builder.outOfMeshTriangles = nil
}

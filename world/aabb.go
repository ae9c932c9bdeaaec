// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

// AABB is an axis aligned box on the horizontal plane.
// Vec2f is the corner with the smallest coordinates.
type AABB struct {
	Vec2f
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

func AABBFrom(x, y, width, height float32) AABB {
	return AABB{
		Vec2f:  Vec2f{X: x, Y: y},
		Width:  width,
		Height: height,
	}
}

// AABBAround returns a square box of side size centered on center.
func AABBAround(center Vec2f, size float32) AABB {
	return AABB{
		Vec2f:  Vec2f{X: center.X - size*0.5, Y: center.Y - size*0.5},
		Width:  size,
		Height: size,
	}
}

// ClosestPoint returns the point on or inside a nearest to pos.
func (a AABB) ClosestPoint(pos Vec2f) Vec2f {
	return Vec2f{
		X: clamp(pos.X, a.X, a.X+a.Width),
		Y: clamp(pos.Y, a.Y, a.Y+a.Height),
	}
}

// SqrDistance is the squared distance from pos to the nearest point of a.
// It is 0 when pos is inside a.
func (a AABB) SqrDistance(pos Vec2f) float32 {
	return a.ClosestPoint(pos).DistanceSquared(pos)
}

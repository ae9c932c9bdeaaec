// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "testing"

func TestAABB_SqrDistance(t *testing.T) {
	box := AABBAround(Vec2f{X: 0, Y: 0}, 10)

	tests := []struct {
		pos      Vec2f
		expected float32
	}{
		{Vec2f{0, 0}, 0},
		{Vec2f{5, 5}, 0},
		{Vec2f{8, 0}, 9},
		{Vec2f{0, -9}, 16},
		{Vec2f{8, 9}, 9 + 16},
	}

	for _, test := range tests {
		if got := box.SqrDistance(test.pos); !approx(got, test.expected) {
			t.Errorf("expected SqrDistance(%v): %f, got %f", test.pos, test.expected, got)
		}
	}
}

func TestAABBAround(t *testing.T) {
	box := AABBAround(Vec2f{X: 100, Y: -50}, 20)

	if box.X != 90 || box.Y != -60 || box.Width != 20 || box.Height != 20 {
		t.Errorf("unexpected box %+v", box)
	}
	if d := box.SqrDistance(Vec2f{X: 110, Y: -40}); d != 0 {
		t.Errorf("expected corner to be contained, got distance %f", d)
	}
	if d := box.SqrDistance(Vec2f{X: 111, Y: -40}); !approx(d, 1) {
		t.Errorf("expected squared distance 1, got %f", d)
	}
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"github.com/chewxy/math32"
	"testing"
)

func TestCurve_Evaluate(t *testing.T) {
	var empty *Curve
	for _, x := range []float32{-1, 0, 0.25, 1, 3} {
		if v := empty.Evaluate(x); v != x {
			t.Errorf("nil curve expected %f got %f", x, v)
		}
	}

	line := LinearCurve(0, 0, 1, 2)
	tests := []struct {
		in, out float32
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{1, 2},
		{2, 2},
	}
	for _, test := range tests {
		if v := line.Evaluate(test.in); math32.Abs(v-test.out) > 1e-5 {
			t.Errorf("linear curve at %f expected %f got %f", test.in, test.out, v)
		}
	}
}

func TestCurve_Monotonic(t *testing.T) {
	curve := DefaultConfig().HeightCurve
	if err := curve.Validate(); err != nil {
		t.Fatal(err)
	}

	prev := curve.Evaluate(0)
	for i := 1; i <= 1000; i++ {
		v := curve.Evaluate(float32(i) / 1000)
		if v < prev {
			t.Fatalf("expected non decreasing values at %d, got %f after %f", i, v, prev)
		}
		prev = v
	}
}

func TestCurve_Clone(t *testing.T) {
	curve := LinearCurve(0, 0, 1, 1)
	clone := curve.Clone()
	clone.Keys[1].Value = 5

	if v := curve.Evaluate(1); v != 1 {
		t.Errorf("expected original curve unchanged, got %f", v)
	}
	if v := clone.Evaluate(1); v != 5 {
		t.Errorf("expected clone to change, got %f", v)
	}
}

func TestCurve_Validate(t *testing.T) {
	unsorted := &Curve{Keys: []Keyframe{{Time: 1}, {Time: 0}}}
	if err := unsorted.Validate(); err != ErrCurveUnsorted {
		t.Errorf("expected %v got %v", ErrCurveUnsorted, err)
	}

	decreasing := NewCurve(Keyframe{Time: 0, Value: 1}, Keyframe{Time: 1, Value: 0})
	if err := decreasing.Validate(); err != ErrCurveNotMonotonic {
		t.Errorf("expected %v got %v", ErrCurveNotMonotonic, err)
	}
}

func BenchmarkCurve_Evaluate(b *testing.B) {
	curve := DefaultConfig().HeightCurve
	for i := 0; i < b.N; i++ {
		_ = curve.Evaluate(float32(i%1000) / 1000)
	}
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import "testing"

func TestGenerateFalloff(t *testing.T) {
	const size = 64
	values := GenerateFalloff(size)

	if len(values) != size*size {
		t.Fatalf("expected %d values got %d", size*size, len(values))
	}

	centre := size/2 + size/2*size
	if v := values[centre]; v != 0 {
		t.Errorf("expected 0 at centre got %f", v)
	}
	if v := values[0]; v != 1 {
		t.Errorf("expected 1 at corner got %f", v)
	}

	for _, v := range values {
		if v < 0 || v > 1 {
			t.Fatalf("expected values in [0, 1] got %f", v)
		}
	}

	// Rises from the centre towards the left edge
	row := size / 2 * size
	for i := size/2 - 1; i >= 0; i-- {
		if values[row+i] < values[row+i+1] {
			t.Fatalf("expected falloff to rise towards the edge at %d", i)
		}
	}
}

func TestFalloffMap(t *testing.T) {
	a := FalloffMap(10)
	b := FalloffMap(10)
	if &a[0] != &b[0] {
		t.Error("expected memoized falloff map")
	}
	if len(FalloffMap(12)) != 144 {
		t.Error("expected separate map per size")
	}
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"sort"
)

// Keyframe is a control point of a Curve. Tangents are slopes (dValue/dTime).
type Keyframe struct {
	Time       float32 `json:"time"`
	Value      float32 `json:"value"`
	InTangent  float32 `json:"inTangent"`
	OutTangent float32 `json:"outTangent"`
}

// Curve remaps heights through cubic Hermite segments between keyframes.
// Inputs outside the key range are clamped to the first/last key.
// A nil or empty Curve is the identity.
//
// A Curve may be shared by many generation requests; callers that evaluate it
// off the owning goroutine do so on a Clone.
type Curve struct {
	Keys []Keyframe `json:"keys"`
}

var (
	ErrCurveUnsorted     = errors.New("curve keys must have strictly increasing times")
	ErrCurveNotMonotonic = errors.New("curve values must not decrease")
)

// NewCurve returns a curve over keys sorted by time.
func NewCurve(keys ...Keyframe) *Curve {
	c := &Curve{Keys: append([]Keyframe(nil), keys...)}
	sort.Slice(c.Keys, func(i, j int) bool {
		return c.Keys[i].Time < c.Keys[j].Time
	})
	return c
}

// LinearCurve returns a straight line from (t0, v0) to (t1, v1).
func LinearCurve(t0, v0, t1, v1 float32) *Curve {
	slope := (v1 - v0) / (t1 - t0)
	return NewCurve(
		Keyframe{Time: t0, Value: v0, InTangent: slope, OutTangent: slope},
		Keyframe{Time: t1, Value: v1, InTangent: slope, OutTangent: slope},
	)
}

// Clone returns a deep copy.
func (c *Curve) Clone() *Curve {
	if c == nil {
		return nil
	}
	return &Curve{Keys: append([]Keyframe(nil), c.Keys...)}
}

// Validate checks key ordering and that key values never decrease.
func (c *Curve) Validate() error {
	if c == nil {
		return nil
	}
	for i := 1; i < len(c.Keys); i++ {
		if c.Keys[i].Time <= c.Keys[i-1].Time {
			return ErrCurveUnsorted
		}
		if c.Keys[i].Value < c.Keys[i-1].Value {
			return ErrCurveNotMonotonic
		}
	}
	return nil
}

// Evaluate returns the curve value at t.
func (c *Curve) Evaluate(t float32) float32 {
	if c == nil || len(c.Keys) == 0 {
		return t
	}

	keys := c.Keys
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t >= keys[last].Time {
		return keys[last].Value
	}

	// First key after t
	i := sort.Search(len(keys), func(i int) bool {
		return keys[i].Time > t
	})
	k0, k1 := &keys[i-1], &keys[i]

	dt := k1.Time - k0.Time
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*k0.OutTangent*dt + h01*k1.Value + h11*k1.InTangent*dt
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"fmt"
)

var (
	ErrNoDetailLevels = errors.New("at least one detail level is required")
	ErrLODRange       = errors.New("lod out of range")
	ErrLODThresholds  = errors.New("detail level thresholds must be strictly increasing")
)

// LODInfo pairs a mesh decimation level with the distance up to which it's used.
type LODInfo struct {
	LOD                 int     `json:"lod"`
	VisibleDstThreshold float32 `json:"visibleDstThreshold"`
}

func (info LODInfo) SqrVisibleDstThreshold() float32 {
	return info.VisibleDstThreshold * info.VisibleDstThreshold
}

// LODTable is ordered finest (nearest) first.
type LODTable []LODInfo

func DefaultLODTable() LODTable {
	return LODTable{
		{LOD: 0, VisibleDstThreshold: 200},
		{LOD: 1, VisibleDstThreshold: 400},
		{LOD: 3, VisibleDstThreshold: 600},
	}
}

func (table LODTable) Validate() error {
	if len(table) == 0 {
		return ErrNoDetailLevels
	}
	for i, info := range table {
		if info.LOD < 0 || info.LOD >= NumSupportedLODs {
			return fmt.Errorf("%w: detail level %d has lod %d", ErrLODRange, i, info.LOD)
		}
		if !(info.VisibleDstThreshold > 0) || (i > 0 && info.VisibleDstThreshold <= table[i-1].VisibleDstThreshold) {
			return fmt.Errorf("%w: detail level %d", ErrLODThresholds, i)
		}
	}
	return nil
}

// MaxViewDst is the distance beyond which chunks are invisible.
func (table LODTable) MaxViewDst() float32 {
	return table[len(table)-1].VisibleDstThreshold
}

// Select returns the index of the detail level for a chunk whose nearest edge is
// dst away from the viewer. The last level is never skipped past; visible is
// false beyond MaxViewDst.
func (table LODTable) Select(dst float32) (index int, visible bool) {
	if dst > table.MaxViewDst() {
		return 0, false
	}
	for i := 0; i < len(table)-1; i++ {
		if dst <= table[i].VisibleDstThreshold {
			break
		}
		index = i + 1
	}
	return index, true
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"time"
)

// A nil cloud is valid to use with any methods (acts as a no-op)
// This just means server is in offline mode
type Cloud interface {
	fmt.Stringer
	UploadStatus(statusJSON []byte) error
	UploadTerrainSnapshot(data []byte) error // takes an encoded PNG
	UpdatePeriod() time.Duration
}

type Offline struct{}

func (offline Offline) String() string {
	return "offline"
}

func (offline Offline) UploadStatus(statusJSON []byte) error {
	return nil
}

func (offline Offline) UploadTerrainSnapshot(data []byte) error {
	return nil
}

func (offline Offline) UpdatePeriod() time.Duration {
	return time.Hour
}

// Cloud uploads the status and a terrain snapshot without blocking the hub.
func (h *Hub) Cloud() {
	h.logger.Debug("updating cloud", "cloud", h.cloud.String())

	statusJSON, _ := h.statusJSON.Load().([]byte)

	go func() {
		if err := h.cloud.UploadStatus(statusJSON); err != nil {
			h.logger.Error("error uploading status", "err", err)
		}

		snapshot, err := h.SnapshotTerrain()
		if err != nil {
			h.logger.Error("error rendering terrain snapshot", "err", err)
			return
		}
		if err = h.cloud.UploadTerrainSnapshot(snapshot); err != nil {
			h.logger.Error("error uploading terrain snapshot", "err", err)
		}
	}()
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"image/png"
	"runtime"
	"time"
)

// Debug logs memory, session and timing stats, and appends them to the debug
// log if one is configured.
func (h *Hub) Debug() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	var chunks, visible int
	for _, s := range h.clients {
		chunks += s.streamer.Len()
		visible += s.streamer.VisibleLen()
	}

	// Function benchmarks
	var totalDuration time.Duration
	args := []any{
		"cloud", h.cloud.String(),
		"heapMB", stats.HeapInuse / 1e6,
		"nextGCMB", stats.NextGC / 1e6,
		"clients", len(h.clients),
		"chunks", chunks,
		"visible", visible,
		"pending", h.requester.Pending(),
	}
	for i := range h.funcBenches {
		bench := &h.funcBenches[i]

		duration := bench.reset()
		totalDuration += duration

		args = append(args, bench.name, duration)
	}
	args = append(args, "total", totalDuration)

	h.logger.Debug("debug", args...)

	if h.debugLog == "" {
		return
	}
	if err := AppendLog(h.debugLog, []interface{}{
		unixMillis(),
		len(h.clients),
		chunks,
		visible,
		h.requester.Pending(),
		totalDuration.Seconds() * 1000,
	}); err != nil {
		h.logger.Warn("error appending debug log", "err", err)
	}
}

// SnapshotTerrain renders the chunk at the origin as a PNG.
// It may be called from any goroutine.
func (h *Hub) SnapshotTerrain() ([]byte, error) {
	hm, err := h.generator.HeightMap(world.Vec2f{})
	if err != nil {
		return nil, err
	}

	img := terrain.RenderColour(hm, h.config.Regions)
	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// funcBench is a benchmark of a core function.
type funcBench struct {
	name     string
	duration time.Duration
	runs     int
}

// reset resets the benchmark and returns the average duration
func (bench *funcBench) reset() time.Duration {
	if bench.runs == 0 {
		return 0
	}
	average := bench.duration / time.Duration(bench.runs)
	bench.duration = 0
	bench.runs = 0
	return average
}

// timeFunction times a function.
// defer timeFunction("name", time.Now())
func (h *Hub) timeFunction(name string, start time.Time) {
	end := time.Now()

	var bench *funcBench
	for i := range h.funcBenches {
		b := &h.funcBenches[i]
		if name == b.name {
			bench = b
			break
		}
	}

	if bench == nil {
		h.funcBenches = append(h.funcBenches, funcBench{name: name})
		bench = &h.funcBenches[len(h.funcBenches)-1]
	}

	bench.duration += end.Sub(start)
	bench.runs++
}

func unixMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond/time.Nanosecond)
}

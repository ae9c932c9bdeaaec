// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"github.com/Fesbaz/ProceduralLandmassGeneration/streamer"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/compressed"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"github.com/chewxy/math32"
	"image/png"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chanClient forwards everything the hub sends to a channel.
type chanClient struct {
	ClientData
	out    chan Outbound
	inited chan struct{}
}

func newChanClient() *chanClient {
	return &chanClient{
		out:    make(chan Outbound, 4096),
		inited: make(chan struct{}),
	}
}

func (client *chanClient) Init()             { close(client.inited) }
func (client *chanClient) Close()            { close(client.out) }
func (client *chanClient) Send(out Outbound) { client.out <- out }
func (client *chanClient) Destroy()          { client.Hub.Unregister(client) }
func (client *chanClient) Data() *ClientData { return &client.ClientData }

func testConfig() terrain.Config {
	config := terrain.DefaultConfig()
	config.Noise.Octaves = 3
	config.Mesh = terrain.MeshSettings{MeshScale: 1, ChunkSizeIndex: 0}
	config.DetailLevels = terrain.LODTable{{LOD: 0, VisibleDstThreshold: 40}, {LOD: 2, VisibleDstThreshold: 60}}
	return config
}

func testHub(t *testing.T) (*Hub, context.CancelFunc) {
	h, err := NewHub(HubOptions{
		Config:  testConfig(),
		Workers: 2,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	return h, cancel
}

func receive(t *testing.T, client *chanClient) Outbound {
	t.Helper()
	select {
	case out, ok := <-client.out:
		if !ok {
			t.Fatal("client closed")
		}
		return out
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

func TestHubStreamsTerrain(t *testing.T) {
	h, cancel := testHub(t)
	defer cancel()

	client := newChanClient()
	h.Register(client)

	settings, ok := receive(t, client).(Settings)
	if !ok {
		t.Fatal("expected Settings first")
	}
	if settings.MeshWorldSize != 50 {
		t.Errorf("expected mesh world size 50 got %f", settings.MeshWorldSize)
	}
	if settings.NumVertsPerLine != 53 {
		t.Errorf("expected 53 verts per line got %d", settings.NumVertsPerLine)
	}
	<-client.inited

	h.ReceiveSigned(SignedInbound{Client: client, Inbound: Viewer{}})

	origin := streamer.Coord{}
	var gotHeightMap, gotVisible, gotMesh, gotCollider bool
	for !(gotHeightMap && gotVisible && gotMesh && gotCollider) {
		switch out := receive(t, client).(type) {
		case *HeightMap:
			if out.Coord == origin {
				gotHeightMap = true
				decoded, err := compressed.Decode(out.Terrain)
				if err != nil {
					t.Fatal(err)
				}
				if decoded.Width != 53 || decoded.Height != 53 {
					t.Errorf("expected 53x53 heightmap got %dx%d", decoded.Width, decoded.Height)
				}
			}
			out.Pool()
		case Visibility:
			if out.Coord == origin && out.Visible {
				gotVisible = true
			}
		case Mesh:
			if out.Coord == origin {
				if out.LODIndex != 0 {
					t.Errorf("expected lod index 0 at origin got %d", out.LODIndex)
				}
				if len(out.Vertices) == 0 {
					t.Error("expected vertices")
				}
				gotMesh = true
			}
		case Collider:
			if out.Coord == origin {
				gotCollider = true
			}
		}

		if gotHeightMap && !gotCollider {
			// Collider is only set once the viewer moves within range of a mesh
			h.ReceiveSigned(SignedInbound{Client: client, Inbound: Viewer{world.Vec2f{X: 0.5, Y: 0}}})
		}
	}

	h.Unregister(client)
	for range client.out {
		// Drain until closed
	}
}

func TestHubIgnoresInvalidViewer(t *testing.T) {
	h, cancel := testHub(t)
	defer cancel()

	client := newChanClient()
	h.Register(client)
	if _, ok := receive(t, client).(Settings); !ok {
		t.Fatal("expected Settings first")
	}
	<-client.inited

	nan := world.Vec2f{X: math32.NaN()}
	h.ReceiveSigned(SignedInbound{Client: client, Inbound: Viewer{nan}})

	select {
	case out := <-client.out:
		t.Errorf("expected no message got %T", out)
	case <-time.After(100 * time.Millisecond):
	}

	client.Destroy()
	for range client.out {
	}
}

func TestHubCloseOnCancel(t *testing.T) {
	h, cancel := testHub(t)

	client := newChanClient()
	h.Register(client)
	receive(t, client)
	<-client.inited

	cancel()

	select {
	case <-drained(client.out):
	case <-time.After(10 * time.Second):
		t.Fatal("expected client to be closed")
	}
}

func TestHubServeIndex(t *testing.T) {
	h, cancel := testHub(t)
	defer cancel()

	w := httptest.NewRecorder()
	h.ServeIndex(w, httptest.NewRequest("GET", "/", nil))

	const expected = `{"clients":0,"chunks":0,"pending":0}`
	if w.Body.String() != expected {
		t.Errorf("expected %s got %s", expected, w.Body.String())
	}
	if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("expected application/json got %s", contentType)
	}
}

func TestNewHubInvalidConfig(t *testing.T) {
	config := testConfig()
	config.ColliderLODIndex = 5
	if _, err := NewHub(HubOptions{Config: config}); err == nil {
		t.Error("expected error")
	}
}

func drained(out chan Outbound) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		for range out {
		}
		close(done)
	}()
	return done
}

func TestHubSnapshotTerrain(t *testing.T) {
	h, err := NewHub(HubOptions{Config: testConfig(), Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer h.requester.Close()

	snapshot, err := h.SnapshotTerrain()
	if err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(bytes.NewReader(snapshot))
	if err != nil {
		t.Fatal(err)
	}
	if size := img.Bounds().Size(); size.X != 53 || size.Y != 53 {
		t.Errorf("expected 53x53 got %v", size)
	}
}

func TestHubDebugLog(t *testing.T) {
	debugLog := filepath.Join(t.TempDir(), "debug.csv")
	h, err := NewHub(HubOptions{
		Config:   testConfig(),
		Workers:  1,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		DebugLog: debugLog,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer h.requester.Close()

	h.timeFunction("drain", time.Now().Add(-time.Millisecond))
	h.Debug()
	h.Debug()

	buf, err := os.ReadFile(debugLog)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records got %d", len(records))
	}
	if records[0][1] != "0" {
		t.Errorf("expected 0 clients got %s", records[0][1])
	}
	if len(h.funcBenches) != 1 || h.funcBenches[0].runs != 0 {
		t.Error("expected benchmarks to be reset")
	}
}

// recordingCloud captures uploads.
type recordingCloud struct {
	Offline
	snapshots chan []byte
}

func (cloud *recordingCloud) UploadTerrainSnapshot(data []byte) error {
	cloud.snapshots <- data
	return nil
}

func TestHubCloud(t *testing.T) {
	cloud := &recordingCloud{snapshots: make(chan []byte, 1)}
	h, err := NewHub(HubOptions{Config: testConfig(), Workers: 1, Cloud: cloud})
	if err != nil {
		t.Fatal(err)
	}
	defer h.requester.Close()

	h.Cloud()

	select {
	case snapshot := <-cloud.snapshots:
		if !bytes.HasPrefix(snapshot, []byte("\x89PNG")) {
			t.Error("expected PNG")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestNilCloud(t *testing.T) {
	var cloud *Cloud
	if cloud.String() != "[offline]" {
		t.Errorf("expected [offline] got %s", cloud.String())
	}
	if err := cloud.UploadStatus([]byte("{}")); err != nil {
		t.Error(err)
	}
	if err := cloud.UploadTerrainSnapshot(nil); err != nil {
		t.Error(err)
	}
}

func TestLocalCloud(t *testing.T) {
	dir := t.TempDir()
	cloud, err := New(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}

	if err := cloud.UploadStatus([]byte(`{"clients":0}`)); err != nil {
		t.Fatal(err)
	}
	if err := cloud.UploadTerrainSnapshot([]byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{statusFilename, snapshotFilename} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %s", name, err)
		}
	}

	if expected := "[" + dir + "]"; cloud.String() != expected {
		t.Errorf("expected %s got %s", expected, cloud.String())
	}
}

func TestNewMissingOptions(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error without bucket")
	}
	if _, err := New(Options{Bucket: "b"}); err == nil {
		t.Error("expected error without region")
	}
}

func TestParseIP(t *testing.T) {
	ip, err := parseIP("203.0.113.7\n")
	if err != nil {
		t.Fatal(err)
	}
	if !ip.Equal(net.IPv4(203, 0, 113, 7)) {
		t.Errorf("expected 203.0.113.7 got %s", ip)
	}

	if _, err := parseIP("not an ip"); err == nil {
		t.Error("expected error")
	}
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"github.com/Fesbaz/ProceduralLandmassGeneration/server_main/cloud/dns"
	"github.com/Fesbaz/ProceduralLandmassGeneration/server_main/cloud/fs"
	"net"
	"strings"
	"time"
)

const UpdatePeriod = 30 * time.Second

const (
	statusFilename   = "status.json"
	snapshotFilename = "terrain.png"
)

type Options struct {
	// Dir, if set, stores files locally instead of in Bucket.
	Dir     string
	Bucket  string
	Region  string
	Profile string

	// Domain and ZoneID, if set, point Host.Domain at this server.
	Domain string
	ZoneID string
	Host   string
}

// A nil cloud is valid to use with any methods (acts as a no-op)
// This just means server is in offline mode
type Cloud struct {
	name string
	ip   net.IP
	dns  dns.DNS
	fs   fs.Filesystem
}

func (cloud *Cloud) String() string {
	var builder strings.Builder
	builder.WriteByte('[')
	if cloud == nil {
		builder.WriteString("offline")
	} else {
		builder.WriteString(cloud.name)
		if cloud.ip != nil {
			builder.WriteByte(' ')
			builder.WriteString(cloud.ip.String())
		}
	}
	builder.WriteByte(']')
	return builder.String()
}

// Returns nil cloud on error
func New(options Options) (*Cloud, error) {
	if options.Dir != "" {
		local, err := fs.NewLocalFilesystem(options.Dir)
		if err != nil {
			return nil, err
		}
		return &Cloud{name: options.Dir, fs: local}, nil
	}

	if options.Bucket == "" {
		return nil, errors.New("missing bucket")
	}
	if options.Region == "" {
		return nil, errors.New("missing region")
	}

	session, err := getAWSSession(options.Region, options.Profile)
	if err != nil {
		return nil, err
	}

	cloud := &Cloud{name: options.Region + " " + options.Bucket}
	cloud.fs, err = fs.NewS3Filesystem(session, options.Bucket)
	if err != nil {
		return nil, err
	}

	if options.Domain != "" && options.ZoneID != "" {
		if options.Host == "" {
			return nil, errors.New("missing host")
		}

		cloud.ip, err = getPublicIP()
		if err != nil {
			return nil, err
		}
		cloud.dns, err = dns.NewRoute53DNS(session, options.Domain, options.ZoneID)
		if err != nil {
			return nil, err
		}
		err = cloud.dns.UpdateRoute(options.Host, cloud.ip)
		if err != nil {
			return nil, err
		}
	}

	return cloud, nil
}

func (cloud *Cloud) UploadStatus(statusJSON []byte) error {
	if cloud == nil {
		return nil
	}
	return cloud.fs.UploadStaticFile(statusFilename, 10, statusJSON)
}

func (cloud *Cloud) UploadTerrainSnapshot(data []byte) error {
	if cloud == nil {
		return nil
	}
	return cloud.fs.UploadStaticFile(snapshotFilename, 60, data)
}

func (cloud *Cloud) UpdatePeriod() time.Duration {
	return UpdatePeriod
}

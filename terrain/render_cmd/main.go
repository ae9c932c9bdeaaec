// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"flag"
	"fmt"
	"github.com/Fesbaz/ProceduralLandmassGeneration/server_main/cloud/fs"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/heightmap"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/mesh"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain/noise"
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/nfnt/resize"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
)

type options struct {
	mode   string
	size   int
	width  int
	centre world.Vec2f
	lod    int
}

func main() {
	var (
		configPath string
		cpuProfile string
		out        string
		objOut     string
		bucket     string
		region     string
		opts       options
	)

	flag.StringVar(&configPath, "config", "", "terrain config JSON (defaults if empty)")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&opts.mode, "mode", "colour", "what to draw: noise, colour or falloff")
	flag.IntVar(&opts.size, "size", 0, "width of the image in samples (chunk width if 0)")
	flag.IntVar(&opts.width, "width", 0, "resample the image to this many pixels wide (no resampling if 0)")
	flag.IntVar(&opts.lod, "lod", 0, "mesh decimation level for -obj")
	flag.StringVar(&out, "out", "out.png", "image file")
	flag.StringVar(&objOut, "obj", "", "also write the chunk mesh to this OBJ file")
	flag.StringVar(&bucket, "bucket", "", "upload outputs to this S3 bucket instead of writing files")
	flag.StringVar(&region, "region", "us-east-1", "AWS region of bucket")
	x := flag.Float64("x", 0, "sample centre x")
	y := flag.Float64("y", 0, "sample centre y")
	flag.Parse()

	opts.centre = world.Vec2f{X: float32(*x), Y: float32(*y)}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	config, err := terrain.LoadConfigFile(configPath)
	if err != nil {
		log.Fatal(err)
	}

	var filesystem fs.Filesystem
	if bucket != "" {
		sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
		if err != nil {
			log.Fatal(err)
		}
		if filesystem, err = fs.NewS3Filesystem(sess, bucket); err != nil {
			log.Fatal(err)
		}
	} else {
		local, err := fs.NewLocalFilesystem(".")
		if err != nil {
			log.Fatal(err)
		}
		filesystem = local
	}

	img, err := render(&config, opts)
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		log.Fatal(err)
	}
	if err = filesystem.UploadStaticFile(filepath.ToSlash(out), 60, buf.Bytes()); err != nil {
		log.Fatal(err)
	}

	if objOut != "" {
		buf.Reset()
		if err = writeMesh(&buf, &config, opts); err != nil {
			log.Fatal(err)
		}
		if err = filesystem.UploadStaticFile(filepath.ToSlash(objOut), 60, buf.Bytes()); err != nil {
			log.Fatal(err)
		}
	}
}

func render(config *terrain.Config, opts options) (image.Image, error) {
	size := opts.size
	if size <= 0 {
		size = config.Mesh.NumVertsPerLine()
	}

	var img image.Image
	switch opts.mode {
	case "noise":
		img = terrain.RenderNoise(heightmap.Build(size, size, &config.HeightMapSettings, opts.centre))
	case "colour", "color":
		img = terrain.RenderColour(heightmap.Build(size, size, &config.HeightMapSettings, opts.centre), config.Regions)
	case "falloff":
		img = terrain.RenderNoise(terrain.NewHeightMap(noise.FalloffMap(size), size, size))
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.mode)
	}

	if opts.width > 0 && opts.width != size {
		img = resize.Resize(uint(opts.width), 0, img, resize.Lanczos3)
	}
	return img, nil
}

func writeMesh(buf *bytes.Buffer, config *terrain.Config, opts options) error {
	n := config.Mesh.NumVertsPerLine()
	hm := heightmap.Build(n, n, &config.HeightMapSettings, opts.centre)

	data, err := mesh.Generate(hm, config.Mesh, opts.lod)
	if err != nil {
		return err
	}
	return data.WriteOBJ(buf)
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/Fesbaz/ProceduralLandmassGeneration/server"
	"github.com/Fesbaz/ProceduralLandmassGeneration/server_main/cloud"
	"github.com/Fesbaz/ProceduralLandmassGeneration/terrain"
	"golang.org/x/net/netutil"
	"log"
	"log/slog"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	var (
		configPath     string
		debug          bool
		debugLog       string
		port           int
		maxConnections int
		workers        int
		cloudOptions   cloud.Options
	)

	flag.StringVar(&configPath, "config", "", "terrain config JSON (defaults if empty)")
	flag.BoolVar(&debug, "debug", false, "log debug messages")
	flag.StringVar(&debugLog, "debug-log", "", "CSV file to append debug stats to")
	flag.IntVar(&port, "port", 8192, "http service port")
	flag.IntVar(&maxConnections, "max-connections", 256, "maximum number of inbound TCP connections")
	flag.IntVar(&workers, "workers", 0, "terrain generation goroutines (one per CPU if 0)")
	flag.StringVar(&cloudOptions.Dir, "static-dir", "", "directory to write status and snapshots to instead of S3")
	flag.StringVar(&cloudOptions.Bucket, "bucket", "", "S3 bucket for status and snapshots")
	flag.StringVar(&cloudOptions.Region, "region", "", "AWS region")
	flag.StringVar(&cloudOptions.Profile, "profile", cloud.DefaultProfile, "AWS shared credentials profile")
	flag.StringVar(&cloudOptions.Domain, "domain", "", "Route53 domain to register this server under")
	flag.StringVar(&cloudOptions.ZoneID, "zone-id", "", "Route53 hosted zone ID")
	flag.StringVar(&cloudOptions.Host, "host", "terrain", "host name under domain")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if maxConnections < 1 {
		log.Fatal("invalid argument max-connections: ", maxConnections)
	}

	config, err := terrain.LoadConfigFile(configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	var c server.Cloud = server.Offline{}
	if cloudOptions.Dir != "" || cloudOptions.Bucket != "" {
		cl, err := cloud.New(cloudOptions)
		if err != nil {
			// Cloud is not required for server to function, just log an error
			logger.Error("cloud error", "err", err)
		} else {
			c = cl
		}
	}

	hub, err := server.NewHub(server.HubOptions{
		Config:   config,
		Workers:  workers,
		Cloud:    c,
		Logger:   logger,
		DebugLog: debugLog,
	})
	if err != nil {
		log.Fatalf("Hub: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	http.HandleFunc("/", hub.ServeIndex)
	http.HandleFunc("/ws", hub.ServeSocket)

	l, err := net.Listen("tcp", fmt.Sprint(":", port))
	if err != nil {
		log.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	l = netutil.LimitListener(l, maxConnections)

	srv := &http.Server{}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Info("terrain server started", "port", port, "cloud", c.String())
	if err = srv.Serve(l); err != http.ErrServerClosed {
		log.Fatal("Serve: ", err)
	}
}

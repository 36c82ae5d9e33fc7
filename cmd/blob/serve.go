package main

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/samcharles93/blobkit/internal/api"
	"github.com/samcharles93/blobkit/internal/logger"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		preloadDir  string
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the blob inspection REST API",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "preload *.blob files from this directory",
				Destination: &preloadDir,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, LoadConfig(), &addr, &preloadDir)

			log := buildLogger()
			ctx = logger.WithContext(ctx, log)

			store := api.NewBlobStore()
			defer func() { _ = store.Close() }()

			if preloadDir != "" {
				matches, err := filepath.Glob(filepath.Join(preloadDir, "*.blob"))
				if err != nil {
					return err
				}
				for _, path := range matches {
					summary, err := store.AddFile(path)
					if err != nil {
						log.Warn("skipping invalid blob", "path", path, "error", err)
						continue
					}
					log.Info("preloaded blob", "id", summary.ID, "name", summary.Name, "chunks", len(summary.Chunks))
				}
			}

			server := api.NewServer(store)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "blobs", store.Len())
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// Package main runs the sitefeed HTTP front end.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sitefeed/sitefeed/config"
	"github.com/sitefeed/sitefeed/fetch"
	"github.com/sitefeed/sitefeed/logger"
	"github.com/sitefeed/sitefeed/sources"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := sources.NewStore(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		logger.Warnf("[api] saved sources unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	fetcher := fetch.NewFetcher(fetch.NewFileCache(cfg.Cache.Dir, cfg.Cache.TTL()))
	server := NewServer(fetcher, store)

	logger.Infof("[api] listening on %s", cfg.Server.Addr)
	if err := server.SetupRouter().Run(cfg.Server.Addr); err != nil {
		logger.Errorf("[api] server failed: %v", err)
		os.Exit(1)
	}
}

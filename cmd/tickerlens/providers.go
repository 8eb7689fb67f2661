package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"TickerLens/internal/collector"
	"TickerLens/internal/config"
	"TickerLens/internal/metrics"
	"TickerLens/internal/recorder"
)

func provideProvider(cfg *config.Config) (collector.Provider, func(), error) {
	var p collector.Provider
	switch cfg.DataSource.Provider {
	case "yahoo":
		p = collector.NewYahooProvider(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.RateLimit)
	case "csv":
		p = collector.NewCSVProvider(cfg.DataSource.CSVDir)
	case "mock":
		p = &collector.StaticProvider{BasePrice: 100}
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.DataSource.Provider)
	}

	if cfg.Cache.RedisAddr == "" {
		return p, func() {}, nil
	}
	client, err := collector.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		log.Printf("[WARN] redis cache unavailable, continuing without it: %v", err)
		return p, func() {}, nil
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Printf("[WARN] close redis: %v", err)
		}
	}
	return collector.NewCachedProvider(p, client, cfg.Cache.TTL), cleanup, nil
}

func provideRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Printf("[WARN] create database dir failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func provideCollector(cfg *config.Config, m *metrics.Metrics, rec recorder.Recorder) (*collector.Collector, func(), error) {
	p, cleanup, err := provideProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[INFO] data source: %s", p.Name())
	col := collector.NewCollector(p, cfg.DataSource.Timeout)
	col.Metrics = m
	col.Recorder = rec
	return col, cleanup, nil
}

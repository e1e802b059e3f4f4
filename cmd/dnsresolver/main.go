// Command dnsresolver runs the caching, recursive, partially-authoritative
// DNS server: it loads its configuration and data files, then serves UDP
// queries until terminated.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dnsresolver/internal/blocklist"
	"dnsresolver/internal/cache"
	"dnsresolver/internal/config"
	"dnsresolver/internal/pipeline"
	"dnsresolver/internal/resolver"
	"dnsresolver/internal/udpserver"
	"dnsresolver/internal/zone"
)

func main() {
	cfg := config.DefaultConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	zones, err := zone.Load(cfg.ZonesDir, logger)
	if err != nil {
		logger.Error("failed to load zones", "error", err)
		os.Exit(1)
	}

	blocked, err := blocklist.Load(cfg.BlocklistFile, logger)
	if err != nil {
		logger.Error("failed to load blocklist", "error", err)
		os.Exit(1)
	}

	answerCache := cache.New(cfg.CacheCapacity)
	iterativeResolver := resolver.New(cfg.RootHint, cfg.MaxRecursionDepth, cfg.HopTimeout, logger)
	p := pipeline.New(answerCache, zones, blocked, iterativeResolver, logger)
	server := udpserver.New(p, logger, 8)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting dnsresolver", "listen", cfg.ListenAddr, "root_hint", cfg.RootHint)
	if err := server.Run(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

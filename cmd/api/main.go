// Package main is the entry point for the ledgercore API server.
//
// Usage:
//
//	# Development (defaults)
//	go run cmd/api/main.go
//
//	# With config file
//	go run cmd/api/main.go -config ./configs
//
//	# With environment variables
//	LEDGERCORE_DATABASE_HOST=localhost \
//	LEDGERCORE_SERVER_PORT=3000 \
//	go run cmd/api/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vaultcoin/ledgercore/internal/config"
	"github.com/vaultcoin/ledgercore/internal/container"
)

// Build-time variables, set via -ldflags.
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "./configs", "Path to config directory")
	configName := flag.String("config-name", "config", "Config file name (without extension)")
	envOnly := flag.Bool("env-only", false, "Load config only from environment variables")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ledgercore\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	var cfg *config.Config
	var err error

	if *envOnly {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath, *configName)
	}

	if err != nil {
		log.Printf("warning: failed to load config: %v", err)
		log.Printf("using development defaults")
		cfg = config.Development()
	}

	cfg.App.Version = version
	cfg.App.BuildTime = buildTime
	cfg.App.GitCommit = gitCommit

	c := container.New(cfg)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	if err := c.Initialize(initCtx); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	printBanner(cfg)

	// c.Run() blocks until SIGINT/SIGTERM, shutting the HTTP server down
	// itself; the remaining infrastructure (poller, database, cache,
	// messaging) is torn down by c.Shutdown() below.
	if err := c.Run(); err != nil {
		c.Logger().Error("server error", "error", err)
	}

	c.Logger().Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := c.Shutdown(shutdownCtx); err != nil {
		c.Logger().Error("shutdown error", "error", err)
		os.Exit(1)
	}

	c.Logger().Info("server stopped gracefully")
}

func printBanner(cfg *config.Config) {
	fmt.Println("ledgercore — double-entry virtual-asset wallet ledger")
	fmt.Printf("  Version:     %s\n", cfg.App.Version)
	fmt.Printf("  Environment: %s\n", cfg.App.Environment)
	fmt.Printf("  Address:     http://%s\n", cfg.Server.Address())
	fmt.Printf("  Health:      http://%s/health\n", cfg.Server.Address())
	fmt.Printf("  API:         http://%s/api/v1\n", cfg.Server.Address())
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()
}

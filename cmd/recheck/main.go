package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/radathip2391/Recheck-Excel/internal/config"
	"github.com/radathip2391/Recheck-Excel/internal/server"
	"github.com/radathip2391/Recheck-Excel/internal/util"
)

var (
	port         = flag.Int("port", 0, "server port (config.toml wins unless unset there)")
	devMode      = flag.Bool("dev", false, "development mode")
	boundaryPath = flag.String("boundary", "", "address boundary file (overrides config)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Recheck-Excel - Employee Data Validator")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *boundaryPath != "" {
		cfg.Boundary.Path = *boundaryPath
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("failed to create data directory: %v", err)
	} else {
		fmt.Printf("data directory: %s\n", dataDir)
	}

	srv := server.NewServer(cfg)

	// Preload the boundary table so the first upload does not pay for it,
	// and so a broken reference file shows up at startup.
	if table, err := srv.Boundary().Table(); err != nil {
		log.Printf("address boundary table unavailable, address checks will be skipped: %v", err)
	} else {
		fmt.Printf("address boundary table: %d postal areas\n", table.Len())
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("starting server on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("opening browser: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("could not open browser, please visit: %s\n", url)
		}
	} else {
		fmt.Printf("dev mode: visit %s\n", url)
	}

	fmt.Println("\npress Ctrl+C to stop ...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down ...")
}

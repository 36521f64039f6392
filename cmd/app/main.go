package main

import (
	"flag"
	"log"
	"os"

	"SilverPulse/internal/di"
	"SilverPulse/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d snapshots=%t history=%t events=%t",
		cfg.Environment, cfg.Server.Port, cfg.Snapshot.Enabled, cfg.History.Enabled, cfg.Events.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

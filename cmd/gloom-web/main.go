package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/peterkuimelis/gloomdeck/internal/config"
	"github.com/peterkuimelis/gloomdeck/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	port := flag.String("port", cfg.HTTPPort, "HTTP port to listen on")
	loadouts := flag.String("loadouts", cfg.Loadouts, "path to loadout YAML file (default: built-in)")
	flag.Parse()

	cfg.Loadouts = *loadouts

	logger, err := cfg.NewLogger()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer logger.Sync()

	lf, err := cfg.LoadoutFile()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	srv, err := web.NewServer(lf, logger)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	addr := fmt.Sprintf(":%s", *port)
	logger.Info("gloom web UI listening", zap.String("url", "http://localhost"+addr))
	if err := srv.ListenAndServe(addr); err != nil {
		config.Exitf("Error: %v", err)
	}
}

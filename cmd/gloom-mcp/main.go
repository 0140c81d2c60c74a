package main

import (
	"flag"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/gloomdeck/internal/config"
	gloommcp "github.com/peterkuimelis/gloomdeck/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	loadouts := flag.String("loadouts", cfg.Loadouts, "path to loadout YAML file (default: built-in)")
	port := flag.String("port", cfg.Port, "TCP port for a human partner connection")
	difficulty := flag.String("difficulty", cfg.Difficulty, "default difficulty for start_encounter")
	seed := flag.Uint64("seed", cfg.Seed, "override every deck seed (0 keeps the file's seeds)")
	flag.Parse()

	cfg.Loadouts = *loadouts
	cfg.Difficulty = *difficulty

	// Stdout carries the MCP protocol; diagnostics go to stderr.
	logger, err := cfg.NewLogger()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer logger.Sync()

	lf, err := cfg.LoadoutFile()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	d, ok := cfg.ParsedDifficulty()
	if !ok {
		logger.Warn("unknown difficulty, events use default tuning", zap.String("difficulty", cfg.Difficulty))
	}

	gloommcp.SetLoadouts(lf)
	gloommcp.SetPort(*port)
	gloommcp.SetEncounterDefaults(d, *seed, cfg.MaxRounds)
	gloommcp.SetLogger(logger)

	s := server.NewMCPServer("gloomdeck", "1.0.0")
	gloommcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		config.Exitf("Error: %v", err)
	}
}

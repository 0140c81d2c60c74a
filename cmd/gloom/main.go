package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/gloomdeck/internal/config"
	gloomnet "github.com/peterkuimelis/gloomdeck/internal/net"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "host":
		runHost(ctx, cfg, os.Args[2:], false)
	case "solo":
		runHost(ctx, cfg, os.Args[2:], true)
	case "join":
		runJoin(ctx, cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  gloom host [--loadout N] [--port P] [--encounter NAME] [--difficulty D] [--seed S] [--loadouts FILE]")
	fmt.Println("  gloom solo [--loadout N] [--encounter NAME] [--difficulty D] [--seed S] [--loadouts FILE]")
	fmt.Println("  gloom join [--loadout N] [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Host an encounter and wait for a co-op partner")
	fmt.Println("  solo    Play an encounter alone")
	fmt.Println("  join    Join a hosted encounter as the second player")
	fmt.Println()
	fmt.Println("Defaults come from GLOOM_* environment variables.")
}

func runHost(ctx context.Context, cfg config.Config, args []string, solo bool) {
	name := "host"
	if solo {
		name = "solo"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	loadout := fs.Int("loadout", 1, "loadout number to use (from the loadout file)")
	port := fs.String("port", cfg.Port, "TCP port to listen on")
	encounterName := fs.String("encounter", "", "encounter to run (default: first in the file)")
	difficulty := fs.String("difficulty", cfg.Difficulty, "easy, normal, hard or nightmare")
	seed := fs.Uint64("seed", cfg.Seed, "override every deck seed (0 keeps the file's seeds)")
	loadouts := fs.String("loadouts", cfg.Loadouts, "path to loadout YAML file (default: built-in)")
	maxRounds := fs.Int("max-rounds", cfg.MaxRounds, "round limit before a stalemate")
	fs.Parse(args)

	cfg.Difficulty = *difficulty
	cfg.Loadouts = *loadouts

	logger, err := cfg.NewLogger()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer logger.Sync()

	d, ok := cfg.ParsedDifficulty()
	if !ok {
		logger.Warn("unknown difficulty, events use default tuning", zap.String("difficulty", cfg.Difficulty))
	}

	lf, err := cfg.LoadoutFile()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	srv := &gloomnet.Server{
		Loadouts:    lf,
		Port:        *port,
		HostLoadout: *loadout,
		Encounter:   *encounterName,
		Difficulty:  d,
		Seed:        *seed,
		MaxRounds:   *maxRounds,
		Solo:        solo,
		Diag:        logger,
	}

	if err := srv.Run(ctx); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func runJoin(ctx context.Context, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	loadout := fs.Int("loadout", 2, "loadout number to use (from the host's loadout file)")
	addr := fs.String("addr", "localhost:"+cfg.Port, "host address to connect to")
	fs.Parse(args)

	if err := gloomnet.Connect(ctx, *addr, *loadout); err != nil {
		config.Exitf("Error: %v", err)
	}
}

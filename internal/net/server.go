package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/encounter"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server hosts an encounter for a local player and, unless Solo, one
// co-op partner joining over TCP.
type Server struct {
	Loadouts    *combat.LoadoutFile
	Port        string
	HostLoadout int    // host's loadout number (1-indexed)
	Encounter   string // encounter name; empty selects the first
	Difficulty  combat.Difficulty
	Seed        uint64
	MaxRounds   int
	Solo        bool
	Diag        *zap.Logger
}

// Run starts the server, waits for a partner to join (unless Solo), then
// runs the encounter.
func (s *Server) Run(ctx context.Context) error {
	diag := s.Diag
	if diag == nil {
		diag = zap.NewNop()
	}
	loadouts := []int{s.HostLoadout}

	var conn net.Conn
	if !s.Solo {
		ln, err := net.Listen("tcp", ":"+s.Port)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		defer ln.Close()

		fmt.Printf("Waiting for a partner on port %s...\n", s.Port)

		// Accept exactly one connection (the joiner)
		conn, err = ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		defer conn.Close()

		fmt.Printf("Partner connected from %s\n", conn.RemoteAddr())

		// Read the joiner's loadout choice
		dec := json.NewDecoder(conn)
		var joinMsg ClientMessage
		if err := dec.Decode(&joinMsg); err != nil {
			return fmt.Errorf("read join message: %w", err)
		}
		joinerLoadout := joinMsg.LoadoutNumber
		if joinerLoadout == 0 {
			joinerLoadout = 2
		}
		fmt.Printf("Partner chose loadout %d\n", joinerLoadout)
		loadouts = append(loadouts, joinerLoadout)
	}

	cfg, err := encounter.Setup{
		Loadouts:   s.Loadouts,
		Players:    loadouts,
		Encounter:  s.Encounter,
		Seed:       s.Seed,
		Difficulty: s.Difficulty,
		MaxRounds:  s.MaxRounds,
		Logger:     log.NewTextLogger(os.Stdout),
		Diag:       diag,
	}.Config()
	if err != nil {
		return fmt.Errorf("set up encounter: %w", err)
	}
	for _, p := range cfg.Players {
		fmt.Printf("Player: %s (%d HP)\n", p.Name, p.MaxHP())
	}
	for _, e := range cfg.Enemies {
		fmt.Printf("Enemy: %s (%d HP)\n", e.Name, e.MaxHP())
	}

	// Create a pipe for the host's local connection
	hostConn, hostServerConn := net.Pipe()
	defer hostConn.Close()
	defer hostServerConn.Close()

	// Player 0 = host, player 1 = joiner
	ctrls := []*NetworkController{NewNetworkController(hostServerConn, 0)}
	if conn != nil {
		ctrls = append(ctrls, NewNetworkController(conn, 1))
	}
	players := make([]encounter.PlayerController, len(ctrls))
	for i, c := range ctrls {
		players[i] = c
	}

	enc, err := encounter.New(cfg, players...)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() {
		// Unblock any reader when either side fails or the caller cancels.
		hostConn.Close()
		hostServerConn.Close()
	})
	defer stop()

	// Run the host's local REPL
	g.Go(func() error {
		client := &Client{conn: hostConn, playerName: "P1"}
		return client.RunREPL(gctx)
	})

	// Run the encounter
	g.Go(func() error {
		winner, err := enc.Run(gctx)
		if err != nil {
			return fmt.Errorf("encounter error: %w", err)
		}
		diag.Info("encounter finished", zap.Stringer("winner", winner), zap.Int("rounds", enc.State.Round))
		for _, c := range ctrls {
			_ = c.SendGameOver(winner, enc.State.Result)
		}
		return nil
	})

	return g.Wait()
}

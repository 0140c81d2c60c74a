package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	stdnet "net"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/encounter"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	gloomnet "github.com/peterkuimelis/gloomdeck/internal/net"
)

// DecisionType identifies what kind of decision the encounter is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseTarget DecisionType = "choose_target"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the encounter is waiting for.
type PendingDecision struct {
	Type       DecisionType          `json:"type"`
	Player     int                   `json:"player"`
	State      *gloomnet.StateView   `json:"state"`
	Actions    []gloomnet.ActionView `json:"actions,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Candidates []gloomnet.EntityView `json:"candidates,omitempty"`
}

// Response types sent back from MCP tools to controllers.

type ActionResponse struct {
	Index int
}

type TargetResponse struct {
	Index int
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []gloomnet.EventView `json:"events"`
	State    *gloomnet.StateView  `json:"state,omitempty"`
	Pending  *PendingView         `json:"pending,omitempty"`
	GameOver bool                 `json:"game_over"`
	Winner   string               `json:"winner,omitempty"`
	Result   string               `json:"result,omitempty"`
	Port     string               `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType          `json:"type"`
	ForPlayer  string                `json:"for_player"`
	Actions    []gloomnet.ActionView `json:"actions,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Candidates []gloomnet.EntityView `json:"candidates,omitempty"`
}

// SessionOptions describes the encounter an agent asked for.
type SessionOptions struct {
	Loadouts   *combat.LoadoutFile
	Loadout    int    // agent's loadout number (1-indexed)
	Encounter  string // empty selects the first
	Difficulty combat.Difficulty
	Seed       uint64
	MaxRounds  int
	Partner    bool // wait for a human partner on Port
	Port       string
	Diag       *zap.Logger
}

// EncounterSession holds the state of a single MCP encounter.
type EncounterSession struct {
	enc         *encounter.Encounter
	agentCtrl   *MCPController
	partnerCtrl *gloomnet.NetworkController
	agentPlayer int

	listener    stdnet.Listener
	partnerConn stdnet.Conn
	cancel      context.CancelFunc

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []gloomnet.EventView
	gameOver bool
	winner   combat.Side
	result   string
}

// NewEncounterSession creates a session and starts the encounter. With
// Partner set it first waits for a human to connect via `gloom join`.
func NewEncounterSession(opts SessionOptions) (*EncounterSession, error) {
	diag := opts.Diag
	if diag == nil {
		diag = zap.NewNop()
	}
	sess := &EncounterSession{
		agentPlayer: 0,
		pendingCh:   make(chan *PendingDecision, 1),
		winner:      encounter.NoWinner,
	}
	loadouts := []int{opts.Loadout}

	if opts.Partner {
		// Start TCP listener for the human partner
		ln, err := stdnet.Listen("tcp", ":"+opts.Port)
		if err != nil {
			return nil, fmt.Errorf("listen on port %s: %w", opts.Port, err)
		}

		// Accept one connection (blocks until the human runs `gloom join`)
		conn, err := ln.Accept()
		if err != nil {
			ln.Close()
			return nil, fmt.Errorf("accept: %w", err)
		}

		// Read join message to get the partner's loadout choice
		dec := json.NewDecoder(conn)
		var joinMsg gloomnet.ClientMessage
		if err := dec.Decode(&joinMsg); err != nil {
			conn.Close()
			ln.Close()
			return nil, fmt.Errorf("read join message: %w", err)
		}
		partnerLoadout := joinMsg.LoadoutNumber
		if partnerLoadout == 0 {
			partnerLoadout = 2
		}
		loadouts = append(loadouts, partnerLoadout)
		sess.listener = ln
		sess.partnerConn = conn
	}

	cfg, err := encounter.Setup{
		Loadouts:   opts.Loadouts,
		Players:    loadouts,
		Encounter:  opts.Encounter,
		Seed:       opts.Seed,
		Difficulty: opts.Difficulty,
		MaxRounds:  opts.MaxRounds,
		Logger:     log.NewMemoryLogger(),
		Diag:       diag,
	}.Config()
	if err != nil {
		sess.closeTransport()
		return nil, fmt.Errorf("set up encounter: %w", err)
	}

	sess.agentCtrl = NewMCPController(sess.agentPlayer, sess)
	ctrls := []encounter.PlayerController{sess.agentCtrl}
	if sess.partnerConn != nil {
		sess.partnerCtrl = gloomnet.NewNetworkController(sess.partnerConn, 1)
		ctrls = append(ctrls, sess.partnerCtrl)
	}

	sess.enc, err = encounter.New(cfg, ctrls...)
	if err != nil {
		sess.closeTransport()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	// Start the encounter in a goroutine
	go func() {
		winner, err := sess.enc.Run(ctx)
		result := sess.enc.State.Result
		if err != nil {
			result = fmt.Sprintf("error: %v", err)
			diag.Warn("encounter failed", zap.Error(err))
		}
		if result == "" {
			result = fmt.Sprintf("Encounter over. Winner: %s", winner)
		}

		// Notify the partner over TCP
		if sess.partnerCtrl != nil {
			_ = sess.partnerCtrl.SendGameOver(winner, result)
		}
		sess.closeTransport()

		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.result = result
		sess.mu.Unlock()

		// Notify the agent via pending channel
		select {
		case sess.pendingCh <- &PendingDecision{
			Type:   DecisionGameOver,
			Player: sess.agentPlayer,
			State:  gloomnet.BuildStateView(sess.enc.State, sess.agentPlayer),
		}:
		case <-ctx.Done():
		}
	}()

	return sess, nil
}

// Close abandons the encounter.
func (s *EncounterSession) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.closeTransport()
}

func (s *EncounterSession) closeTransport() {
	if s.partnerConn != nil {
		s.partnerConn.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *EncounterSession) appendEvent(ev gloomnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *EncounterSession) drainEvents() []gloomnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// waitForPending blocks until the next decision arrives from the encounter,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *EncounterSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending

	resp := &ToolResponse{
		Events: s.drainEvents(),
		State:  pending.State,
	}
	if resp.Events == nil {
		resp.Events = []gloomnet.EventView{}
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner.String()
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Pending = &PendingView{
		Type:       pending.Type,
		ForPlayer:  s.playerLabel(pending.Player),
		Actions:    pending.Actions,
		Prompt:     pending.Prompt,
		Candidates: pending.Candidates,
	}
	return resp, nil
}

// playerLabel returns "agent" or "partner" for the given player index.
func (s *EncounterSession) playerLabel(player int) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return "partner"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}

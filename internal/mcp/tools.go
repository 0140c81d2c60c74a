package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	gloomnet "github.com/peterkuimelis/gloomdeck/internal/net"
)

// activeSession is the singleton encounter session (one per stdio process).
var activeSession *EncounterSession

// loadouts is the loadout file, set by main. Nil means the built-in file.
var loadouts *combat.LoadoutFile

// port is the TCP port for a human partner connection, set by main.
var port string

var (
	defaultDifficulty = combat.DifficultyNormal
	seed              uint64
	maxRounds         int
	diag              = zap.NewNop()
)

// SetLoadouts sets the loadout file used by start_encounter.
func SetLoadouts(lf *combat.LoadoutFile) {
	loadouts = lf
}

// SetPort sets the TCP port for the human partner connection.
func SetPort(p string) {
	port = p
}

// SetEncounterDefaults sets the difficulty, seed and round limit used when
// start_encounter does not override them.
func SetEncounterDefaults(d combat.Difficulty, s uint64, rounds int) {
	defaultDifficulty = d
	seed = s
	maxRounds = rounds
}

// SetLogger sets the diagnostics logger handed to encounters.
func SetLogger(l *zap.Logger) {
	if l != nil {
		diag = l
	}
}

// RegisterTools adds all encounter tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(listContentTool(), handleListContent)
	s.AddTool(startEncounterTool(), handleStartEncounter)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(chooseTargetTool(), handleChooseTarget)
	s.AddTool(getEncounterStateTool(), handleGetEncounterState)
	s.AddTool(abandonEncounterTool(), handleAbandonEncounter)
}

// --- Tool definitions ---

func listContentTool() mcp.Tool {
	return mcp.NewTool("list_content",
		mcp.WithDescription("List the available loadouts (numbered from 1), encounters, difficulties, and card names. Read-only."),
	)
}

func startEncounterTool() mcp.Tool {
	return mcp.NewTool("start_encounter",
		mcp.WithDescription("Start a new Gloomdeck encounter. Returns the initial state and first pending decision. "+
			"With partner=true a human joins as a second player via `gloom join --addr localhost:<port> --loadout N` "+
			"in a separate terminal, and this call blocks until they connect."),
		mcp.WithNumber("loadout", mcp.Required(), mcp.Description("Loadout number for the agent (1-indexed, see list_content)")),
		mcp.WithString("encounter", mcp.Description("Encounter name; defaults to the first encounter in the file")),
		mcp.WithString("difficulty", mcp.Description("easy, normal, hard or nightmare")),
		mcp.WithBoolean("partner", mcp.Description("Wait for a human co-op partner before starting")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Choose an entry from the pending action list: play a card from hand or end the turn. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the actions list")),
	)
}

func chooseTargetTool() mcp.Tool {
	return mcp.NewTool("choose_target",
		mcp.WithDescription("Pick a target from the pending candidates list. Use this when the pending decision type is 'choose_target'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the candidates list")),
	)
}

func getEncounterStateTool() mcp.Tool {
	return mcp.NewTool("get_encounter_state",
		mcp.WithDescription("Get the latest encounter state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func abandonEncounterTool() mcp.Tool {
	return mcp.NewTool("abandon_encounter",
		mcp.WithDescription("Stop the running encounter without a winner so a new one can be started."),
	)
}

// --- Tool handlers ---

type contentView struct {
	Loadouts     []string `json:"loadouts"`
	Encounters   []string `json:"encounters"`
	Difficulties []string `json:"difficulties"`
	Actions      []string `json:"actions"`
	Equipment    []string `json:"equipment"`
	Enemies      []string `json:"enemies"`
	Events       []string `json:"events"`
}

func handleListContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lf := loadouts
	if lf == nil {
		lf = combat.DefaultLoadoutFile()
	}
	view := contentView{
		Difficulties: []string{"easy", "normal", "hard", "nightmare"},
		Actions:      combat.ActionNames(),
		Equipment:    combat.EquipmentNames(),
		Enemies:      combat.EnemyNames(),
		Events:       combat.EventNames(),
	}
	for _, l := range lf.Loadouts {
		view.Loadouts = append(view.Loadouts, l.Name)
	}
	for _, e := range lf.Encounters {
		view.Encounters = append(view.Encounters, e.Name)
	}
	data, err := json.Marshal(view)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleStartEncounter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("An encounter is already running. Only one encounter at a time is supported."), nil
	}

	loadout := request.GetInt("loadout", 0)
	if loadout < 1 {
		return mcp.NewToolResultError("loadout must be >= 1"), nil
	}

	difficulty := defaultDifficulty
	if name := request.GetString("difficulty", ""); name != "" {
		d, ok := combat.ParseDifficulty(name)
		if !ok {
			return mcp.NewToolResultErrorf("Unknown difficulty %q. Use easy, normal, hard or nightmare.", name), nil
		}
		difficulty = d
	}
	partner := request.GetBool("partner", false)

	sess, err := NewEncounterSession(SessionOptions{
		Loadouts:   loadouts,
		Loadout:    loadout,
		Encounter:  request.GetString("encounter", ""),
		Difficulty: difficulty,
		Seed:       seed,
		MaxRounds:  maxRounds,
		Partner:    partner,
		Port:       port,
		Diag:       diag,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start encounter: %v", err), nil
	}

	activeSession = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	if resp.GameOver {
		activeSession = nil
	}

	if partner {
		resp.Port = port
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// agentPending returns the agent's current decision of the given type, or a
// tool error explaining why there is none.
func agentPending(want DecisionType) (*EncounterSession, *PendingDecision, *mcp.CallToolResult) {
	if activeSession == nil {
		return nil, nil, mcp.NewToolResultError("No encounter is running. Use start_encounter first.")
	}

	sess := activeSession
	pending := sess.currentPending
	if pending == nil {
		return nil, nil, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Player != sess.agentPlayer {
		return nil, nil, mcp.NewToolResultError("Waiting for the partner to respond via their terminal.")
	}
	if pending.Type != want {
		return nil, nil, mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pending.Type, want)
	}
	return sess, pending, nil
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, toolErr := agentPending(DecisionChooseAction)
	if toolErr != nil {
		return toolErr, nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Actions)-1), nil
	}

	sess.agentCtrl.responseCh <- ActionResponse{Index: index}

	return nextDecision(ctx, sess)
}

func handleChooseTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, toolErr := agentPending(DecisionChooseTarget)
	if toolErr != nil {
		return toolErr, nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Candidates) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Candidates)-1), nil
	}

	sess.agentCtrl.responseCh <- TargetResponse{Index: index}

	return nextDecision(ctx, sess)
}

func nextDecision(ctx context.Context, sess *EncounterSession) (*mcp.CallToolResult, error) {
	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}

	if resp.GameOver {
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetEncounterState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No encounter is running. Use start_encounter first."), nil
	}

	sess := activeSession
	events := sess.drainEvents()

	sess.mu.Lock()
	gameOver := sess.gameOver
	winner := sess.winner
	result := sess.result
	sess.mu.Unlock()

	resp := &ToolResponse{
		Events:   events,
		GameOver: gameOver,
		Result:   result,
	}
	if gameOver {
		resp.Winner = winner.String()
	}

	// The encounter goroutine owns the live state; report the snapshot taken
	// with the last decision.
	if p := sess.currentPending; p != nil {
		resp.State = p.State
		if !gameOver && p.Type != DecisionGameOver {
			resp.Pending = &PendingView{
				Type:       p.Type,
				ForPlayer:  sess.playerLabel(p.Player),
				Actions:    p.Actions,
				Prompt:     p.Prompt,
				Candidates: p.Candidates,
			}
		}
	}

	// Ensure events is never null in JSON
	if resp.Events == nil {
		resp.Events = []gloomnet.EventView{}
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleAbandonEncounter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No encounter is running."), nil
	}
	activeSession.Close()
	activeSession = nil
	return mcp.NewToolResultText(`{"abandoned": true}`), nil
}

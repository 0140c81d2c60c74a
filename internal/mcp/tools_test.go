package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
)

// resetTools restores the package defaults once a test finishes. The
// diagnostics logger stays a no-op: abandoned encounters may still log
// after the test returns.
func resetTools(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		if activeSession != nil {
			activeSession.Close()
			activeSession = nil
		}
		SetLoadouts(nil)
		SetEncounterDefaults(combat.DifficultyNormal, 0, 0)
	})
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text, res.IsError
	case *mcp.TextContent:
		return c.Text, res.IsError
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return "", false
}

func decode(t *testing.T, text string) ToolResponse {
	t.Helper()
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp), text)
	return resp
}

func TestListContent(t *testing.T) {
	resetTools(t)
	text, isErr := call(t, handleListContent, nil)
	require.False(t, isErr)

	var view contentView
	require.NoError(t, json.Unmarshal([]byte(text), &view))
	assert.Equal(t, []string{"Warden", "Hemomancer"}, view.Loadouts)
	assert.Equal(t, []string{"Cultist Den", "Plague Pit"}, view.Encounters)
	assert.Contains(t, view.Actions, "Leech Strike")
	assert.Contains(t, view.Events, "Hallowed Ground")
}

func TestToolsNeedARunningEncounter(t *testing.T) {
	resetTools(t)
	for name, h := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"play_card":           handlePlayCard,
		"choose_target":       handleChooseTarget,
		"get_encounter_state": handleGetEncounterState,
		"abandon_encounter":   handleAbandonEncounter,
	} {
		t.Run(name, func(t *testing.T) {
			text, isErr := call(t, h, map[string]any{"index": 0})
			assert.True(t, isErr)
			assert.Contains(t, text, "No encounter is running")
		})
	}
}

func TestStartEncounterValidatesArguments(t *testing.T) {
	resetTools(t)

	text, isErr := call(t, handleStartEncounter, map[string]any{"loadout": 0})
	assert.True(t, isErr)
	assert.Equal(t, "loadout must be >= 1", text)

	text, isErr = call(t, handleStartEncounter, map[string]any{"loadout": 1, "difficulty": "brutal"})
	assert.True(t, isErr)
	assert.Contains(t, text, `Unknown difficulty "brutal"`)

	text, isErr = call(t, handleStartEncounter, map[string]any{"loadout": 1, "encounter": "Dragon Lair"})
	assert.True(t, isErr)
	assert.Contains(t, text, `encounter "Dragon Lair" not found`)
	assert.Nil(t, activeSession)
}

func TestPlayEncounterToTheEnd(t *testing.T) {
	resetTools(t)
	SetEncounterDefaults(combat.DifficultyNormal, 0, 6)

	text, isErr := call(t, handleStartEncounter, map[string]any{"loadout": 1, "encounter": "Plague Pit"})
	require.False(t, isErr, text)
	resp := decode(t, text)
	require.NotNil(t, resp.Pending)
	assert.Equal(t, DecisionChooseAction, resp.Pending.Type)
	assert.Equal(t, "agent", resp.Pending.ForPlayer)
	require.NotNil(t, resp.State)
	assert.Equal(t, "Warden", resp.State.You.Name)
	assert.NotEmpty(t, resp.Events, "battle-start events are reported")

	// Only one encounter at a time.
	text, isErr = call(t, handleStartEncounter, map[string]any{"loadout": 2})
	assert.True(t, isErr)
	assert.Contains(t, text, "already running")

	// Answering with the wrong tool is refused without touching the encounter.
	text, isErr = call(t, handleChooseTarget, map[string]any{"index": 0})
	assert.True(t, isErr)
	assert.Contains(t, text, "Wrong tool")

	text, isErr = call(t, handlePlayCard, map[string]any{"index": 99})
	assert.True(t, isErr)
	assert.Contains(t, text, "Invalid index 99")

	sawTarget := false
	for steps := 0; !resp.GameOver; steps++ {
		require.Less(t, steps, 500, "encounter never ended")
		require.NotNil(t, resp.Pending)
		switch resp.Pending.Type {
		case DecisionChooseAction:
			text, isErr = call(t, handlePlayCard, map[string]any{"index": 0})
		case DecisionChooseTarget:
			sawTarget = true
			assert.Len(t, resp.Pending.Candidates, 2)
			text, isErr = call(t, handleChooseTarget, map[string]any{"index": len(resp.Pending.Candidates) - 1})
		default:
			t.Fatalf("unexpected decision %q", resp.Pending.Type)
		}
		require.False(t, isErr, text)
		resp = decode(t, text)
	}

	assert.True(t, sawTarget, "two enemies force a target choice")
	assert.NotEmpty(t, resp.Winner)
	assert.NotEmpty(t, resp.Result)
	assert.Nil(t, activeSession)
}

func TestGetStateAndAbandon(t *testing.T) {
	resetTools(t)

	text, isErr := call(t, handleStartEncounter, map[string]any{"loadout": 2, "difficulty": "hard"})
	require.False(t, isErr, text)
	started := decode(t, text)

	text, isErr = call(t, handleGetEncounterState, nil)
	require.False(t, isErr)
	state := decode(t, text)
	assert.False(t, state.GameOver)
	assert.Empty(t, state.Events, "events were drained by start_encounter")
	require.NotNil(t, state.Pending)
	assert.Equal(t, started.Pending.Actions, state.Pending.Actions)
	assert.Equal(t, "Hemomancer", state.State.You.Name)

	text, isErr = call(t, handleAbandonEncounter, nil)
	require.False(t, isErr)
	assert.JSONEq(t, `{"abandoned": true}`, text)
	assert.Nil(t, activeSession)
}

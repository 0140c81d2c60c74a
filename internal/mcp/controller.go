package mcp

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/encounter"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"github.com/peterkuimelis/gloomdeck/internal/net"
)

// MCPController implements encounter.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	session    *EncounterSession
	responseCh chan any
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player int, session *EncounterSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan any),
	}
}

// ChooseAction implements encounter.PlayerController.
func (c *MCPController) ChooseAction(ctx context.Context, state *encounter.State, choices []encounter.Choice) (encounter.Choice, error) {
	var views []net.ActionView
	for i, ch := range choices {
		views = append(views, net.ActionView{Index: i, Desc: ch.String()})
	}

	c.session.pendingCh <- &PendingDecision{
		Type:    DecisionChooseAction,
		Player:  c.player,
		State:   net.BuildStateView(state, c.player),
		Actions: views,
	}

	select {
	case resp := <-c.responseCh:
		ar := resp.(ActionResponse)
		if ar.Index < 0 || ar.Index >= len(choices) {
			return choices[0], nil
		}
		return choices[ar.Index], nil
	case <-ctx.Done():
		return encounter.Choice{}, ctx.Err()
	}
}

// ChooseTarget implements encounter.PlayerController.
func (c *MCPController) ChooseTarget(ctx context.Context, state *encounter.State, card *combat.ActionCard, candidates []*combat.Entity) (*combat.Entity, error) {
	var views []net.EntityView
	for i, e := range candidates {
		views = append(views, net.BuildEntityView(e, i))
	}

	c.session.pendingCh <- &PendingDecision{
		Type:       DecisionChooseTarget,
		Player:     c.player,
		State:      net.BuildStateView(state, c.player),
		Prompt:     fmt.Sprintf("Choose a target for %s", card.Name),
		Candidates: views,
	}

	select {
	case resp := <-c.responseCh:
		tr := resp.(TargetResponse)
		if tr.Index < 0 || tr.Index >= len(candidates) {
			return candidates[0], nil
		}
		return candidates[tr.Index], nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Notify implements encounter.PlayerController.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.BuildEventView(event))
	return nil
}

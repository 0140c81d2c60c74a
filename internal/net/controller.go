package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/encounter"
	"github.com/peterkuimelis/gloomdeck/internal/log"
)

// NetworkController implements encounter.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // index into State.Players
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(state *encounter.State, player int) *StateView {
	me := state.Players[player]
	sv := &StateView{
		You:        BuildEntityView(me, player),
		Round:      state.Round,
		Phase:      state.Phase.String(),
		IsYourTurn: state.Active == me,
	}
	for i, p := range state.Players {
		if i != player {
			sv.Allies = append(sv.Allies, BuildEntityView(p, i))
		}
	}
	for i, e := range state.Enemies {
		sv.Enemies = append(sv.Enemies, BuildEntityView(e, i))
	}
	for _, c := range state.Hand(me) {
		sv.Hand = append(sv.Hand, c.Name)
	}
	for _, h := range state.Handles() {
		sv.Ongoing = append(sv.Ongoing, HandleView{
			Caster:        h.Caster.Name,
			Card:          h.Card.Name,
			Remaining:     h.RemainingTurns,
			Concentration: h.Concentration,
		})
	}
	return sv
}

// BuildEntityView creates an EntityView for one combatant.
func BuildEntityView(e *combat.Entity, index int) EntityView {
	ev := EntityView{
		Index: index,
		Name:  e.Name,
		HP:    e.HP(),
		MaxHP: e.MaxHP(),
		Alive: e.IsAlive(),
		Decks: DeckView{
			Attack:  e.Decks.Attack.DrawCount(),
			Defense: e.Decks.Defense.DrawCount(),
			Action:  e.Decks.Action.DrawCount(),
		},
	}
	for _, s := range e.Statuses() {
		ev.Statuses = append(ev.Statuses, s.String())
	}
	if e.Equipment != nil {
		for _, eq := range e.Equipment.Equipped() {
			name := eq.Name
			if eq.Veiled {
				name += " (veiled)"
			}
			ev.Equipment = append(ev.Equipment, name)
		}
	}
	return ev
}

// BuildEventView creates an EventView from a combat event.
func BuildEventView(event log.GameEvent) *EventView {
	return &EventView{
		Round:   event.Round,
		Phase:   event.Phase,
		Actor:   event.Actor,
		Target:  event.Target,
		Type:    event.Type.String(),
		Card:    event.Card,
		Amount:  event.Amount,
		Details: event.Details,
	}
}

// buildStateView creates a StateView from the perspective of this controller's player.
func (nc *NetworkController) buildStateView(state *encounter.State) *StateView {
	return BuildStateView(state, nc.player)
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements encounter.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *encounter.State, choices []encounter.Choice) (encounter.Choice, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []ActionView
	for i, c := range choices {
		views = append(views, ActionView{Index: i, Desc: c.String()})
	}

	msg := ServerMessage{
		Type:    "choose_action",
		Actions: views,
		State:   nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return encounter.Choice{}, fmt.Errorf("send choose_action: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return encounter.Choice{}, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(choices) {
		return choices[0], nil // fallback to first choice
	}
	return choices[resp.Index], nil
}

// ChooseTarget implements encounter.PlayerController.
func (nc *NetworkController) ChooseTarget(ctx context.Context, state *encounter.State, card *combat.ActionCard, candidates []*combat.Entity) (*combat.Entity, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []EntityView
	for i, c := range candidates {
		views = append(views, BuildEntityView(c, i))
	}

	msg := ServerMessage{
		Type:       "choose_target",
		Prompt:     fmt.Sprintf("Choose a target for %s", card.Name),
		Candidates: views,
		State:      nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return nil, fmt.Errorf("send choose_target: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return nil, fmt.Errorf("recv target: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(candidates) {
		return candidates[0], nil
	}
	return candidates[resp.Index], nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner combat.Side, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner.String(), Result: result})
}

// Notify implements encounter.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "notify", Event: BuildEventView(event)})
}

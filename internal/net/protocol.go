package net

// Message types for the JSON protocol over TCP.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "choose_target"
	Prompt     string       `json:"prompt,omitempty"`
	Candidates []EntityView `json:"candidates,omitempty"`

	// For "game_over"
	Winner string `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified combat event for the client.
type EventView struct {
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	Actor   string `json:"actor,omitempty"`
	Target  string `json:"target,omitempty"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// StateView is the encounter from one player's perspective.
type StateView struct {
	You        EntityView   `json:"you"`
	Allies     []EntityView `json:"allies,omitempty"`
	Enemies    []EntityView `json:"enemies"`
	Hand       []string     `json:"hand,omitempty"`
	Ongoing    []HandleView `json:"ongoing,omitempty"`
	Round      int          `json:"round"`
	Phase      string       `json:"phase"`
	IsYourTurn bool         `json:"is_your_turn"`
}

// EntityView shows one combatant.
type EntityView struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	HP        int      `json:"hp"`
	MaxHP     int      `json:"max_hp"`
	Alive     bool     `json:"alive"`
	Statuses  []string `json:"statuses,omitempty"`
	Equipment []string `json:"equipment,omitempty"`
	Decks     DeckView `json:"decks"`
}

// DeckView counts the cards of each deck still in the draw sequence.
type DeckView struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Action  int `json:"action"`
}

// HandleView describes an ongoing action.
type HandleView struct {
	Caster        string `json:"caster"`
	Card          string `json:"card"`
	Remaining     int    `json:"remaining"`
	Concentration bool   `json:"concentration,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action" and "target"
	Index int `json:"index,omitempty"`

	// For "join" (initial handshake)
	LoadoutNumber int `json:"loadout_number,omitempty"`
}

package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn       net.Conn
	playerName string // "P1" or "P2"
}

// Connect connects to a server, sends the loadout choice, and runs the REPL.
func Connect(ctx context.Context, addr string, loadoutNumber int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with loadout choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", LoadoutNumber: loadoutNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the encounter to start...")

	client := &Client{conn: conn, playerName: "P2"}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(os.Stdin)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "choose_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx := c.readChoice(reader, len(msg.Actions))
			if err := enc.Encode(ClientMessage{Type: "action", Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "choose_target":
			c.renderTargets(msg.Prompt, msg.Candidates)
			idx := c.readChoice(reader, len(msg.Candidates))
			if err := enc.Encode(ClientMessage{Type: "target", Index: idx}); err != nil {
				return fmt.Errorf("send target: %w", err)
			}

		case "game_over":
			fmt.Println()
			fmt.Println("═══════════════════════════════════")
			fmt.Println("        ENCOUNTER OVER")
			fmt.Println("═══════════════════════════════════")
			fmt.Println(msg.Result)
			fmt.Println("═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	for len(phase) < 14 {
		phase += " "
	}
	fmt.Printf("R%-2d %s| %s\n", ev.Round, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════╗")
	for _, e := range sv.Enemies {
		fmt.Printf("║  %s\n", formatEntity(e))
	}
	fmt.Println("║──────────────────────────────────────────────────────")
	for _, a := range sv.Allies {
		fmt.Printf("║  %s\n", formatEntity(a))
	}
	fmt.Printf("║  YOU: %s\n", formatEntity(sv.You))
	if len(sv.You.Equipment) > 0 {
		fmt.Printf("║  Gear: %s\n", strings.Join(sv.You.Equipment, ", "))
	}
	for _, h := range sv.Ongoing {
		conc := ""
		if h.Concentration {
			conc = ", concentrating"
		}
		fmt.Printf("║  Ongoing: %s by %s (%d left%s)\n", h.Card, h.Caster, h.Remaining, conc)
	}
	fmt.Println("╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Round %d | %s", sv.Round, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	}
	fmt.Println(turnInfo)

	if len(sv.Hand) > 0 {
		fmt.Printf("\nHand: ")
		for i, name := range sv.Hand {
			fmt.Printf("[%d] %s  ", i+1, name)
		}
		fmt.Println()
	}
}

func formatEntity(e EntityView) string {
	if !e.Alive {
		return fmt.Sprintf("%s [fallen]", e.Name)
	}
	s := fmt.Sprintf("%s HP %d/%d  Decks A%d D%d X%d", e.Name, e.HP, e.MaxHP, e.Decks.Attack, e.Decks.Defense, e.Decks.Action)
	if len(e.Statuses) > 0 {
		s += "  {" + strings.Join(e.Statuses, ", ") + "}"
	}
	return s
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Println("\nActions:")
	for _, a := range actions {
		fmt.Printf("  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) renderTargets(prompt string, candidates []EntityView) {
	fmt.Printf("\n%s\n", prompt)
	for _, e := range candidates {
		fmt.Printf("  %d) %s\n", e.Index+1, formatEntity(e))
	}
}

func (c *Client) readChoice(reader *bufio.Reader, count int) int {
	for {
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Printf("Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1 // convert to 0-indexed
	}
}

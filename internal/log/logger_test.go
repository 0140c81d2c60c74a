package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoggerNumbersEvents(t *testing.T) {
	l := NewMemoryLogger()
	assert.Equal(t, GameEvent{}, l.LastEvent())

	l.Log(NewRoundEvent(1))
	l.Log(NewDamageEvent("Warden", "Blood Cultist", "Strike", 5, 11))
	l.Log(NewRoundEvent(2))

	events := l.Events()
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, i+1, ev.Seq)
	}
	assert.Len(t, l.EventsOfType(EventNewRound), 2)
	assert.Equal(t, EventNewRound, l.LastEvent().Type)
}

func TestTextLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)

	ev := NewDamageEvent("Warden", "Blood Cultist", "Strike", 5, 11)
	ev.Round = 3
	ev.Phase = "Player"
	l.Log(ev)

	assert.Equal(t, "R3  Player        | Warden deals 5 damage to Blood Cultist with Strike (HP 11)\n", buf.String())
	assert.Len(t, l.Events(), 1)
}

func TestFormatAll(t *testing.T) {
	out := FormatAll([]GameEvent{NewDeathEvent("Plague Hound"), NewStalemateEvent("round limit")})
	assert.Equal(t,
		"R0                | Plague Hound falls\n"+
			"R0                | Encounter ends without a victor (round limit)\n",
		out)
}

func TestEventConstructorsFillFields(t *testing.T) {
	tests := []struct {
		name string
		ev   GameEvent
		want GameEvent
	}{
		{
			"status applied",
			NewStatusAppliedEvent("Warden", "Infect", 3),
			GameEvent{Type: EventStatusApplied, Target: "Warden", Card: "Infect", Amount: 3},
		},
		{
			"heal",
			NewHealEvent("Hemomancer", "Leech Strike", 2, 14),
			GameEvent{Type: EventHeal, Target: "Hemomancer", Card: "Leech Strike", Amount: 2},
		},
		{
			"rejected",
			NewActionRejectedEvent("Hemomancer", "Dark Pact", "not enough HP"),
			GameEvent{Type: EventActionRejected, Actor: "Hemomancer", Card: "Dark Pact"},
		},
		{
			"win",
			NewWinEvent("Players", "the other side has fallen"),
			GameEvent{Type: EventWin, Actor: "Players"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEmpty(t, tc.ev.Details)
			tc.ev.Details = ""
			assert.Equal(t, tc.want, tc.ev)
		})
	}
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "ConcentrationBroken", EventConcentrationBroken.String())
	assert.Equal(t, "Unknown", EventType(99).String())
}

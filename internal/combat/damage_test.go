package combat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStrikeAgainstSixteenHP: a single Hit 5 against a defender whose
// defense deck cannot reduce it leaves the defender on 11.
func TestStrikeAgainstSixteenHP(t *testing.T) {
	tests := []struct {
		name    string
		defense []Card
	}{
		{"empty defense deck", nil},
		{"block 0", cards(DefenseBlockCard(0))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, logger := newTestServices(t)
			attacker := fighter("Hero", SidePlayer, 20, cards(AttackHitCard(5)), nil, svc)
			defender := fighter("Cultist", SideEnemy, 16, nil, tc.defense, svc)

			strike := Strike()
			ctx := duelContext(attacker, defender, svc)
			dealt := strike.DealAttackCombo(ctx, defender)

			assert.Equal(t, 5, dealt)
			assert.Equal(t, 11, defender.HP())
			assert.True(t, defender.IsAlive())

			// Drawn cards are back on the discard piles.
			assert.Equal(t, 0, attacker.Decks.Attack.HeldCount())
			assert.Equal(t, 0, defender.Decks.Defense.HeldCount())

			dmg := logger.EventsOfType(log.EventDamage)
			require.Len(t, dmg, 1)
			assert.Equal(t, 5, dmg[0].Amount)
			assert.Equal(t, "Cultist", dmg[0].Target)
		})
	}
}

func TestDealtNeverExceedsRemainingHP(t *testing.T) {
	svc, logger := newTestServices(t)
	attacker := fighter("Hero", SidePlayer, 20, cards(AttackHitCard(50)), nil, svc)
	defender := fighter("Rat", SideEnemy, 3, nil, nil, svc)

	dealt := Strike().DealAttackCombo(duelContext(attacker, defender, svc), defender)

	assert.Equal(t, 3, dealt)
	assert.Equal(t, 0, defender.HP())
	assert.False(t, defender.IsAlive())
	assert.Len(t, logger.EventsOfType(log.EventDeath), 1)

	// Dead entities take no further damage.
	assert.Equal(t, 0, Strike().DealAttackCombo(duelContext(attacker, defender, svc), defender))
}

func TestDefenseChainReducesAndEvadeNegates(t *testing.T) {
	tests := []struct {
		name    string
		defense []Card
		wantHP  int
	}{
		{"block subtracts", cards(DefenseBlockCard(2)), 7},
		{"block larger than hit", cards(DefenseBlockCard(9)), 10},
		{"evade negates", cards(DefenseEvadeCard()), 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defender := fighter("Target", SideEnemy, 10, nil, tc.defense, nil)
			defender.TakeDamage(5, true, 0, nil, DamageAttack, nil)
			assert.Equal(t, tc.wantHP, defender.HP())
		})
	}
}

func TestNonAttackDamageSkipsDefenseDeck(t *testing.T) {
	defender := fighter("Target", SideEnemy, 10, nil, cards(DefenseEvadeCard()), nil)
	defender.TakeDamage(4, false, 0, nil, DamageStatus, nil)
	assert.Equal(t, 6, defender.HP())
	assert.Equal(t, 1, defender.Decks.Defense.DrawCount())
}

func TestOutgoingModsRunEquipmentBeforeStatuses(t *testing.T) {
	src := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	require.NoError(t, src.Equip(&EquipmentCard{
		id:   uuid.New(),
		Name: "Doubler",
		Slot: SlotTrinket,
		ModifyOutgoing: func(eq *EquipmentCard, bearer *Entity, value int, info *DamageInfo) int {
			return value * 2
		},
	}))
	src.ApplyStatus(WeakenedStatus(3, 2))

	info := &DamageInfo{Attacker: src, Kind: DamageAttack}
	// (2*2)-3 = 1. Statuses first would give max(0, 2-3)*2 = 0.
	assert.Equal(t, 1, ApplyOutgoingDamageMods(src, 2, info))
}

func TestOutgoingModsClampEveryStep(t *testing.T) {
	src := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	require.NoError(t, src.Equip(&EquipmentCard{
		id:   uuid.New(),
		Name: "Cursed Ring",
		Slot: SlotTrinket,
		ModifyOutgoing: func(eq *EquipmentCard, bearer *Entity, value int, info *DamageInfo) int {
			return value - 10
		},
	}))
	src.ApplyStatus(EmpoweredStatus(5, 2))

	info := &DamageInfo{Attacker: src, Kind: DamageAttack}
	// The ring drives 2 to -8, clamped to 0, then Empowered adds 5.
	assert.Equal(t, 5, ApplyOutgoingDamageMods(src, 2, info))
	assert.Equal(t, 5, ApplyOutgoingDamageMods(src, -4, info))
}

func TestOutgoingModsSkipVeiledEquipment(t *testing.T) {
	src := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	blade := BloodthirstBlade()
	blade.Veiled = true
	require.NoError(t, src.Equip(blade))

	info := &DamageInfo{Attacker: src, Kind: DamageAttack}
	assert.Equal(t, 3, ApplyOutgoingDamageMods(src, 3, info))

	blade.Veiled = false
	assert.Equal(t, 4, ApplyOutgoingDamageMods(src, 3, info))
}

func TestOutgoingModsIgnoreNonAttackDamage(t *testing.T) {
	src := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	require.NoError(t, src.Equip(BloodthirstBlade()))
	src.ApplyStatus(EmpoweredStatus(2, 2))

	info := &DamageInfo{Attacker: src, Kind: DamageDrain}
	assert.Equal(t, 1, ApplyOutgoingDamageMods(src, 1, info))
}

func TestIncomingModsAegisThenVulnerable(t *testing.T) {
	dst := fighter("Target", SidePlayer, 20, nil, nil, nil)
	dst.ApplyStatus(AegisStatus(3))
	dst.ApplyStatus(VulnerableStatus(2, 2))

	// Aegis soaks 3 of 5, Vulnerable adds 2 to the remaining 2.
	dst.TakeDamage(5, false, 0, nil, DamageStatus, nil)
	assert.Equal(t, 16, dst.HP())
	assert.False(t, dst.HasStatus(StatusAegis))
	assert.True(t, dst.HasStatus(StatusVulnerable))

	// Fully absorbed damage is not amplified.
	dst.ApplyStatus(AegisStatus(10))
	require.Equal(t, StatusVulnerable, dst.Statuses()[0].Kind)
	dst.TakeDamage(0, false, 0, nil, DamageStatus, nil)
	assert.Equal(t, 16, dst.HP())
}

func TestDamageHooksSeeOnlyRealLoss(t *testing.T) {
	dst := fighter("Target", SidePlayer, 10, nil, nil, nil)
	var seen []int
	dst.OnDamaged(func(e *Entity, amount int, info *DamageInfo) {
		seen = append(seen, amount)
	})

	dst.ApplyStatus(AegisStatus(5))
	dst.TakeDamage(3, false, 0, nil, DamageStatus, nil)
	dst.TakeDamage(4, false, 0, nil, DamageStatus, nil)
	dst.TakeDamage(100, false, 0, nil, DamageStatus, nil)

	assert.Equal(t, []int{2, 8}, seen)
}

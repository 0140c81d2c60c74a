package combat

// DefaultCultistSeed is the seed base of the stock Blood Cultist.
const DefaultCultistSeed uint64 = 580

// BloodCultist creates the basic Blood Cultist. Its three decks are seeded
// seedBase+1, +2 and +3, so two cultists with the same base play
// identically.
func BloodCultist(seedBase uint64) *Entity {
	decks := NewDeckManager(seedBase+1, seedBase+2, seedBase+3)

	decks.Attack.Load([]Card{
		AttackHitCard(2),
		AttackComboCard(2),
		AttackCritCard(2),
		AttackHitCard(1),
	})
	decks.Defense.Load([]Card{
		DefenseBlockCard(1),
		DefenseBlockCard(2),
		DefenseEvadeCard(),
		DefenseChainCard(1),
	})
	decks.Action.Load([]Card{
		LeechStrike(),
		Infect(),
		CripplingBlow(),
		LeechStrike(),
	})

	e := NewEnemy("Blood Cultist", decks, BloodCultistAI(), 16)
	e.PowerLevel = 73.27
	return e
}

// BloodCultistAI opens with a bigger budget while it has no lifesteal,
// always plays once more, and presses harder when several foes remain.
func BloodCultistAI() *EnemyAI {
	return &EnemyAI{
		TakeTurn: func(enemy *Entity, ctx *ActionContext, sched Scheduler) {
			if !enemy.HasStatus(StatusLifesteal) {
				PlayFromActionDeck(enemy, ctx, sched, 4)
			}
			PlayFromActionDeck(enemy, ctx, sched, 3)
			if len(ctx.LivingEnemies()) > 1 {
				PlayFromActionDeck(enemy, ctx, sched, 2)
			}
		},
	}
}

// PlagueHound is a weaker, faster enemy that only infects and strikes.
func PlagueHound(seedBase uint64) *Entity {
	decks := NewDeckManager(seedBase+1, seedBase+2, seedBase+3)
	decks.Attack.Load([]Card{
		AttackHitCard(1),
		AttackHitCard(1),
		AttackComboCard(1),
		AttackMissCard(),
	})
	decks.Defense.Load([]Card{
		DefenseBlockCard(1),
		DefenseEvadeCard(),
		DefenseBlockCard(0),
	})
	decks.Action.Load([]Card{
		Infect(),
		Strike(),
		Strike(),
	})

	e := NewEnemy("Plague Hound", decks, SimpleAI(2), 10)
	e.PowerLevel = 31.5
	return e
}

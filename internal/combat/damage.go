package combat

// DamageInfo describes one damage event. It is passed by pointer through
// the modifier chains and must not be modified by them.
type DamageInfo struct {
	Attacker *Entity
	Kind     DamageKind
	Source   Card
}

func (i *DamageInfo) attackerName() string {
	if i.Attacker == nil {
		return ""
	}
	return i.Attacker.Name
}

func (i *DamageInfo) sourceName() string {
	if i.Source == nil {
		return i.Kind.String()
	}
	return i.Source.String()
}

// ApplyOutgoingDamageMods runs damage the source is about to deal through
// its modifiers in two fixed passes: equipment in equip order (veiled
// pieces skipped), then statuses in list order. Every intermediate value
// is clamped to >= 0. Both lists are snapshotted before the pass starts.
func ApplyOutgoingDamageMods(src *Entity, current int, info *DamageInfo) int {
	value := max(0, current)

	if src.Equipment != nil {
		for _, eq := range src.Equipment.Equipped() {
			if eq == nil || eq.Veiled || eq.ModifyOutgoing == nil {
				continue
			}
			value = max(0, eq.ModifyOutgoing(eq, src, value, info))
		}
	}

	for _, s := range src.Statuses() {
		if s.ModifyOutgoing == nil {
			continue
		}
		value = max(0, s.ModifyOutgoing(s, src, value, info))
	}

	return value
}

// ApplyIncomingDamageMods runs damage the target is about to take through
// its statuses in list order, clamping every intermediate value to >= 0.
func ApplyIncomingDamageMods(dst *Entity, current int, info *DamageInfo) int {
	value := max(0, current)
	for _, s := range dst.Statuses() {
		if s.ModifyIncoming == nil {
			continue
		}
		value = max(0, s.ModifyIncoming(s, dst, value, info))
	}
	return value
}

package combat

import (
	"math"

	"go.uber.org/zap"
)

// SelectTarget picks the living enemy with the lowest current hp, breaking
// ties by battle order. It returns nil when no enemy is alive.
func SelectTarget(s *State, actor *Unit) *Unit {
	var target *Unit
	for _, u := range s.units {
		if u.Side == actor.Side || !u.Alive() {
			continue
		}
		if target == nil || u.HP < target.HP {
			target = u
		}
	}
	return target
}

// ComputeDamage applies the attacker's outgoing multiplier, subtracts the
// target's defense with a floor of one, then applies the target's incoming
// multiplier. Every hit deals at least one damage.
func ComputeDamage(actor, target *Unit) int {
	raw := float64(actor.Attack) * actor.Modifiers.DamageOut
	mitigated := math.Max(1, raw-float64(target.Defense))
	final := int(roundHalfEven(mitigated * target.Modifiers.DamageIn))
	if final < 1 {
		final = 1
	}
	return final
}

// resolveAction runs one unit's turn. It reports false when the actor had no
// one left to attack; nothing is logged in that case.
func (s *State) resolveAction(actor *Unit) bool {
	if !actor.Alive() {
		return true
	}
	if SelectTarget(s, actor) == nil {
		return false
	}
	s.dispatch(hookBeforeAct, actor)
	target := SelectTarget(s, actor)
	if target == nil {
		s.dispatch(hookAfterAct, actor)
		return false
	}
	damage := ComputeDamage(actor, target)
	target.TakeDamage(damage)
	s.appendLog(actor, target, damage)
	s.logger.Debug("unit acted",
		zap.Int("round", s.round),
		zap.String("actor", actor.Name),
		zap.String("target", target.Name),
		zap.Int("damage", damage),
		zap.Int("target_hp", target.HP),
	)
	s.dispatch(hookAfterAct, actor)
	return true
}

package combat

import (
	"math"

	"github.com/bryanwahyu/sandai/src/domain/roster"
)

// Built-in ability keys.
const (
	KeyOverclockedSystems = "overclocked_systems"
	KeyRegenerativeTissue = "regenerative_tissue"
	KeyArcaneSurge        = "arcane_surge"
	KeyMythicPresence     = "mythic_presence"
)

// Passive state entries written by the built-in abilities.
const (
	FlagFirstAttack       = "first_attack"
	CounterLastHeal       = "last_heal"
	CounterOriginalSpeed  = "original_speed"
	CounterTurnsRemaining = "turns_remaining"
)

const (
	overclockMultiplier = 1.20
	regenerationRate    = 0.10
	surgeSpeedBonus     = 5
	surgeDuration       = 3
	presenceDamageOut   = 1.10
	presenceDamageIn    = 0.90
)

// OverclockedSystems boosts outgoing damage on the unit's first action only.
type OverclockedSystems struct{ BaseAbility }

func (OverclockedSystems) Name() string { return KeyOverclockedSystems }

func (OverclockedSystems) AppliesTo(u *Unit) bool { return u.PassiveKey == KeyOverclockedSystems }

func (OverclockedSystems) OnBattleStart(s *State, key UnitKey) {
	s.Unit(key).Passive.SetFlag(FlagFirstAttack, true)
}

func (OverclockedSystems) BeforeUnitActs(s *State, key UnitKey) {
	u := s.Unit(key)
	if !u.Passive.Flag(FlagFirstAttack) {
		return
	}
	u.Modifiers.DamageOut = overclockMultiplier
	u.Passive.SetFlag(FlagFirstAttack, false)
}

func (OverclockedSystems) AfterUnitActs(s *State, key UnitKey) {
	s.Unit(key).Modifiers.DamageOut = 1.0
}

// RegenerativeTissue heals a tenth of max hp after each of the unit's actions.
type RegenerativeTissue struct{ BaseAbility }

func (RegenerativeTissue) Name() string { return KeyRegenerativeTissue }

func (RegenerativeTissue) AppliesTo(u *Unit) bool { return u.PassiveKey == KeyRegenerativeTissue }

func (RegenerativeTissue) AfterUnitActs(s *State, key UnitKey) {
	u := s.Unit(key)
	if !u.Alive() {
		return
	}
	amount := int(roundHalfEven(regenerationRate * float64(u.MaxHP)))
	u.Passive.SetCounter(CounterLastHeal, u.Heal(amount))
}

// ArcaneSurge raises speed for the unit's first three actions.
type ArcaneSurge struct{ BaseAbility }

func (ArcaneSurge) Name() string { return KeyArcaneSurge }

func (ArcaneSurge) AppliesTo(u *Unit) bool { return u.PassiveKey == KeyArcaneSurge }

func (ArcaneSurge) OnBattleStart(s *State, key UnitKey) {
	u := s.Unit(key)
	u.Passive.SetCounter(CounterOriginalSpeed, u.Speed)
	u.Passive.SetCounter(CounterTurnsRemaining, surgeDuration)
	u.Speed += surgeSpeedBonus
}

func (ArcaneSurge) AfterUnitActs(s *State, key UnitKey) {
	u := s.Unit(key)
	remaining, ok := u.Passive.Counter(CounterTurnsRemaining)
	if !ok || remaining <= 0 {
		return
	}
	remaining--
	u.Passive.SetCounter(CounterTurnsRemaining, remaining)
	if remaining == 0 {
		u.Speed = u.Passive.MustCounter(CounterOriginalSpeed)
	}
}

// MythicPresence is innate to legendary units: more damage dealt, less taken.
type MythicPresence struct{ BaseAbility }

func (MythicPresence) Name() string { return KeyMythicPresence }

func (MythicPresence) AppliesTo(u *Unit) bool { return u.Rarity == roster.RarityLegendary }

func (MythicPresence) OnBattleStart(s *State, key UnitKey) {
	u := s.Unit(key)
	u.Modifiers.DamageOut *= presenceDamageOut
	u.Modifiers.DamageIn *= presenceDamageIn
}

// roundHalfEven is the rounding used by every combat and rating formula.
func roundHalfEven(x float64) float64 {
	return math.RoundToEven(x)
}

package combat

import (
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Side identifies which roster a unit fights for.
type Side string

const (
	SideAttacker Side = "attacker"
	SideDefender Side = "defender"
)

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == SideAttacker {
		return SideDefender
	}
	return SideAttacker
}

// UnitKey addresses a unit inside one battle. Keys follow battle order:
// attackers in roster order, then defenders in roster order.
type UnitKey int

// Modifiers is the runtime multiplier block. Both multipliers start at 1.0
// and stack by product.
type Modifiers struct {
	DamageOut float64 `json:"damage_out_multiplier"`
	DamageIn  float64 `json:"damage_in_multiplier"`
}

func neutralModifiers() Modifiers {
	return Modifiers{DamageOut: 1.0, DamageIn: 1.0}
}

// Unit is the combat snapshot of one roster member.
type Unit struct {
	Key        UnitKey
	SourceID   shared.UnitID
	Name       string
	Side       Side
	Rarity     roster.Rarity
	HP         int
	MaxHP      int
	Attack     int
	Defense    int
	Speed      int
	PassiveKey string
	Modifiers  Modifiers
	Passive    PassiveState

	abilities []Ability
}

// NewUnit snapshots a persisted unit at full health with neutral modifiers.
func NewUnit(record roster.Unit, side Side) (*Unit, error) {
	if err := record.Validate(); err != nil {
		return nil, &InvalidRosterError{Side: side, Reason: err.Error(), Err: err}
	}
	rarity := record.Rarity
	if rarity == "" {
		rarity = roster.RarityCommon
	}
	return &Unit{
		SourceID:   record.ID,
		Name:       record.Name,
		Side:       side,
		Rarity:     rarity,
		HP:         record.Stats.MaxHP,
		MaxHP:      record.Stats.MaxHP,
		Attack:     record.Stats.Attack,
		Defense:    record.Stats.Defense,
		Speed:      record.Stats.Speed,
		PassiveKey: record.PassiveKey,
		Modifiers:  neutralModifiers(),
	}, nil
}

// Alive reports whether the unit can still act and be targeted.
func (u *Unit) Alive() bool {
	return u.HP > 0
}

// Abilities returns the passive abilities attached at roster load.
func (u *Unit) Abilities() []Ability {
	return u.abilities
}

// TakeDamage lowers hp by amount, never below zero, and returns the new hp.
func (u *Unit) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	u.HP -= amount
	if u.HP < 0 {
		u.HP = 0
	}
	return u.HP
}

// Heal raises hp by amount, never above max hp, and returns the amount actually restored.
func (u *Unit) Heal(amount int) int {
	if amount <= 0 || u.HP >= u.MaxHP {
		return 0
	}
	before := u.HP
	u.HP += amount
	if u.HP > u.MaxHP {
		u.HP = u.MaxHP
	}
	return u.HP - before
}

// UnitState is the final, read-only view of a unit reported in a Result.
type UnitState struct {
	SourceID  shared.UnitID `json:"unit_id"`
	Name      string        `json:"name"`
	Side      Side          `json:"side"`
	Rarity    roster.Rarity `json:"rarity"`
	HP        int           `json:"hp"`
	MaxHP     int           `json:"max_hp"`
	Attack    int           `json:"attack"`
	Defense   int           `json:"defense"`
	Speed     int           `json:"speed"`
	Modifiers Modifiers     `json:"modifiers"`
	Alive     bool          `json:"alive"`
}

func (u *Unit) state() UnitState {
	return UnitState{
		SourceID:  u.SourceID,
		Name:      u.Name,
		Side:      u.Side,
		Rarity:    u.Rarity,
		HP:        u.HP,
		MaxHP:     u.MaxHP,
		Attack:    u.Attack,
		Defense:   u.Defense,
		Speed:     u.Speed,
		Modifiers: u.Modifiers,
		Alive:     u.Alive(),
	}
}

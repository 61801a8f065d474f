package roster

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Rarity grades a unit. Some passive abilities are granted by rarity alone.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether r is a known rarity. An empty rarity is treated as common.
func (r Rarity) Valid() bool {
	switch r {
	case "", RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Stats are the base combat numbers stored for a unit.
type Stats struct {
	MaxHP   int `json:"max_hp" yaml:"max_hp"`
	Attack  int `json:"attack" yaml:"attack"`
	Defense int `json:"defense" yaml:"defense"`
	Speed   int `json:"speed" yaml:"speed"`
}

// Total is the stat sum used when comparing team strength.
func (s Stats) Total() int {
	return s.MaxHP + s.Attack + s.Defense + s.Speed
}

// Unit is the persisted record of one collectible combatant.
type Unit struct {
	ID         shared.UnitID `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Rarity     Rarity        `json:"rarity" yaml:"rarity"`
	Stats      Stats         `json:"stats" yaml:"stats"`
	PassiveKey string        `json:"passive,omitempty" yaml:"passive,omitempty"`
}

// Validate reports the first missing or out of range field.
func (u Unit) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("unit %s: %w", u.ID, ErrUnitNameRequired)
	}
	if !u.Rarity.Valid() {
		return fmt.Errorf("unit %s: %w: %q", u.ID, ErrUnknownRarity, u.Rarity)
	}
	if u.Stats.MaxHP <= 0 {
		return fmt.Errorf("unit %s: %w: max_hp must be positive", u.ID, ErrInvalidStats)
	}
	if u.Stats.Attack < 0 || u.Stats.Defense < 0 || u.Stats.Speed < 0 {
		return fmt.Errorf("unit %s: %w: attack, defense and speed must be non-negative", u.ID, ErrInvalidStats)
	}
	return nil
}

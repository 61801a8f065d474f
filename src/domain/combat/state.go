package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Roster is one side's input to a battle: its owner and ordered units.
type Roster struct {
	OwnerID shared.PlayerID `json:"owner_id" yaml:"owner_id"`
	Units   []roster.Unit   `json:"units" yaml:"units"`
}

// State is the mutable context of a single battle. It is threaded through
// every hook and resolver call and must not be shared between battles.
type State struct {
	owners map[Side]shared.PlayerID
	units  []*Unit
	log    []TurnLogEntry
	round  int
	logger *zap.Logger
}

// NewState validates both rosters, snapshots every unit and attaches abilities
// from the registry.
func NewState(attacker, defender Roster, registry *Registry) (*State, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	s := &State{
		owners: map[Side]shared.PlayerID{
			SideAttacker: attacker.OwnerID,
			SideDefender: defender.OwnerID,
		},
		logger: zap.NewNop(),
	}
	if err := s.load(SideAttacker, attacker, registry); err != nil {
		return nil, err
	}
	if err := s.load(SideDefender, defender, registry); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *State) load(side Side, r Roster, registry *Registry) error {
	if len(r.Units) == 0 {
		return &InvalidRosterError{Side: side, Reason: "roster is empty", Err: roster.ErrTeamEmpty}
	}
	if len(r.Units) > roster.MaxTeamSize {
		return &InvalidRosterError{
			Side:   side,
			Reason: fmt.Sprintf("roster has %d units, max %d", len(r.Units), roster.MaxTeamSize),
			Err:    roster.ErrTeamTooLarge,
		}
	}
	alive := 0
	for _, record := range r.Units {
		u, err := NewUnit(record, side)
		if err != nil {
			return err
		}
		abilities, err := registry.Resolve(u)
		if err != nil {
			return &InvalidRosterError{Side: side, Reason: fmt.Sprintf("unit %s: %v", u.SourceID, err), Err: err}
		}
		u.abilities = abilities
		u.Key = UnitKey(len(s.units))
		s.units = append(s.units, u)
		if u.Alive() {
			alive++
		}
	}
	if alive == 0 {
		return &InvalidRosterError{Side: side, Reason: "roster has no living units"}
	}
	return nil
}

// Unit returns the unit addressed by key. An unknown key is a programming error.
func (s *State) Unit(key UnitKey) *Unit {
	if key < 0 || int(key) >= len(s.units) {
		panic(fmt.Sprintf("combat: unit key %d out of range [0,%d)", key, len(s.units)))
	}
	return s.units[key]
}

// Units returns every unit in battle order.
func (s *State) Units() []*Unit {
	return s.units
}

// Alive returns the living units of one side in roster order.
func (s *State) Alive(side Side) []*Unit {
	out := make([]*Unit, 0, roster.MaxTeamSize)
	for _, u := range s.units {
		if u.Side == side && u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

// Round is the number of the round in progress, 0 before the first round.
func (s *State) Round() int {
	return s.round
}

// Log returns the turn log recorded so far.
func (s *State) Log() []TurnLogEntry {
	return s.log
}

// Owner returns the player who fields side.
func (s *State) Owner(side Side) shared.PlayerID {
	return s.owners[side]
}

func (s *State) appendLog(actor, target *Unit, damage int) {
	s.log = append(s.log, TurnLogEntry{
		Sequence:   len(s.log) + 1,
		Turn:       s.round,
		ActorID:    actor.SourceID,
		ActorName:  actor.Name,
		ActorSide:  actor.Side,
		TargetID:   target.SourceID,
		TargetName: target.Name,
		TargetSide: target.Side,
		Damage:     damage,
		TargetHP:   target.HP,
	})
}

type hook int

const (
	hookBattleStart hook = iota
	hookBeforeAct
	hookAfterAct
)

// dispatch runs one hook on every ability attached to u. Dead units are skipped.
func (s *State) dispatch(h hook, u *Unit) {
	if !u.Alive() {
		return
	}
	for _, a := range u.abilities {
		switch h {
		case hookBattleStart:
			a.OnBattleStart(s, u.Key)
		case hookBeforeAct:
			a.BeforeUnitActs(s, u.Key)
		case hookAfterAct:
			a.AfterUnitActs(s, u.Key)
		}
	}
}

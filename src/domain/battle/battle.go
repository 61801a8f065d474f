package battle

import (
	"time"

	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Participants names both sides of a battle.
type Participants struct {
	InitiatorID    shared.PlayerID
	AttackerTeamID shared.TeamID
	AttackerID     shared.PlayerID
	DefenderTeamID shared.TeamID
	DefenderID     shared.PlayerID
	SeasonID       shared.SeasonID
}

// Record is the persisted summary of one resolved battle. The turn log is
// stored separately, one row per entry.
type Record struct {
	ID             shared.BattleID
	Participants   Participants
	Outcome        combat.Outcome
	WinnerID       *shared.PlayerID
	TotalTurns     int
	Survivors      combat.Survivors
	RatingDelta    int
	FinalUnits     []combat.UnitState
	IdempotencyKey shared.IdempotencyKey
	CreatedAt      time.Time
}

func NewRecord(id shared.BattleID, p Participants, result *combat.Result, delta int, key shared.IdempotencyKey, now time.Time) (*Record, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if result == nil || !result.Outcome.Valid() {
		return nil, ErrUnresolved
	}
	rec := &Record{
		ID:             id,
		Participants:   p,
		Outcome:        result.Outcome,
		TotalTurns:     result.TotalTurns,
		Survivors:      result.Survivors,
		RatingDelta:    delta,
		FinalUnits:     append([]combat.UnitState(nil), result.Units...),
		IdempotencyKey: key,
		CreatedAt:      now,
	}
	if result.WinnerID != nil {
		winner := *result.WinnerID
		rec.WinnerID = &winner
	}
	return rec, nil
}

func (p Participants) Validate() error {
	if err := p.InitiatorID.Validate(); err != nil {
		return err
	}
	if err := p.AttackerTeamID.Validate(); err != nil {
		return err
	}
	if err := p.DefenderTeamID.Validate(); err != nil {
		return err
	}
	if err := p.AttackerID.Validate(); err != nil {
		return err
	}
	if err := p.DefenderID.Validate(); err != nil {
		return err
	}
	if p.AttackerTeamID == p.DefenderTeamID {
		return ErrSameTeam
	}
	return p.SeasonID.Validate()
}

// Turns stamps a result's log entries for storage under battle id.
func Turns(id shared.BattleID, log []combat.TurnLogEntry) []Turn {
	out := make([]Turn, 0, len(log))
	for _, entry := range log {
		out = append(out, Turn{BattleID: id, TurnLogEntry: entry})
	}
	return out
}

// Turn is one persisted turn log row.
type Turn struct {
	BattleID shared.BattleID `json:"battle_id"`
	combat.TurnLogEntry
}

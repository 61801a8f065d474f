package combat

import "github.com/bryanwahyu/sandai/src/domain/shared"

// Outcome is the terminal verdict of a battle.
type Outcome string

const (
	OutcomeAttackerWin Outcome = "attacker_win"
	OutcomeDefenderWin Outcome = "defender_win"
	OutcomeDraw        Outcome = "draw"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeAttackerWin, OutcomeDefenderWin, OutcomeDraw:
		return true
	}
	return false
}

// TurnLogEntry records one completed action. Turn is the round number, so
// several entries share a turn; Sequence is the chronological position.
type TurnLogEntry struct {
	Sequence   int           `json:"sequence"`
	Turn       int           `json:"turn"`
	ActorID    shared.UnitID `json:"actor_id"`
	ActorName  string        `json:"actor_name"`
	ActorSide  Side          `json:"actor_side"`
	TargetID   shared.UnitID `json:"target_id"`
	TargetName string        `json:"target_name"`
	TargetSide Side          `json:"target_side"`
	Damage     int           `json:"damage"`
	TargetHP   int           `json:"target_hp"`
}

// Survivors counts living units per side at the end of a battle.
type Survivors struct {
	Attacker int `json:"attacker"`
	Defender int `json:"defender"`
}

// Result is the immutable outcome of one simulation.
type Result struct {
	Outcome    Outcome          `json:"outcome"`
	WinnerID   *shared.PlayerID `json:"winner_id"`
	Turns      []TurnLogEntry   `json:"turns"`
	Units      []UnitState      `json:"units"`
	TotalTurns int              `json:"total_turns"`
	Survivors  Survivors        `json:"survivors"`
}

func newResult(s *State, outcome Outcome) *Result {
	res := &Result{
		Outcome:    outcome,
		Turns:      append([]TurnLogEntry(nil), s.log...),
		Units:      make([]UnitState, 0, len(s.units)),
		TotalTurns: s.round,
		Survivors: Survivors{
			Attacker: len(s.Alive(SideAttacker)),
			Defender: len(s.Alive(SideDefender)),
		},
	}
	for _, u := range s.units {
		res.Units = append(res.Units, u.state())
	}
	var winner shared.PlayerID
	switch outcome {
	case OutcomeAttackerWin:
		winner = s.Owner(SideAttacker)
	case OutcomeDefenderWin:
		winner = s.Owner(SideDefender)
	}
	if winner != "" {
		res.WinnerID = &winner
	}
	return res
}

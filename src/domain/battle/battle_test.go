package battle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

func participants() battle.Participants {
	return battle.Participants{
		InitiatorID:    "alice",
		AttackerTeamID: "team-a",
		AttackerID:     "alice",
		DefenderTeamID: "team-b",
		DefenderID:     "bob",
		SeasonID:       "season-1",
	}
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	winner := shared.PlayerID("alice")
	result := &combat.Result{
		Outcome:    combat.OutcomeAttackerWin,
		WinnerID:   &winner,
		TotalTurns: 3,
		Survivors:  combat.Survivors{Attacker: 1},
		Units:      []combat.UnitState{{SourceID: "u1", HP: 5, MaxHP: 10, Alive: true}},
	}

	sameTeam := participants()
	sameTeam.DefenderTeamID = sameTeam.AttackerTeamID

	tests := []struct {
		name    string
		id      shared.BattleID
		p       battle.Participants
		result  *combat.Result
		key     shared.IdempotencyKey
		wantErr error
		invalid bool
	}{
		{name: "valid", id: "b1", p: participants(), result: result, key: "k1"},
		{name: "missing id", id: "", p: participants(), result: result, key: "k1", invalid: true},
		{name: "missing key", id: "b1", p: participants(), result: result, key: " ", invalid: true},
		{name: "missing season", id: "b1", p: battle.Participants{InitiatorID: "alice", AttackerTeamID: "a", AttackerID: "alice", DefenderTeamID: "b", DefenderID: "bob"}, result: result, key: "k1", invalid: true},
		{name: "same team", id: "b1", p: sameTeam, result: result, key: "k1", wantErr: battle.ErrSameTeam},
		{name: "nil result", id: "b1", p: participants(), result: nil, key: "k1", wantErr: battle.ErrUnresolved},
		{name: "unknown outcome", id: "b1", p: participants(), result: &combat.Result{Outcome: "pending"}, key: "k1", wantErr: battle.ErrUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := battle.NewRecord(tt.id, tt.p, tt.result, 19, tt.key, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewRecord() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.invalid {
				if err == nil {
					t.Fatal("NewRecord() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRecord() unexpected error: %v", err)
			}
			if rec.Outcome != combat.OutcomeAttackerWin || rec.TotalTurns != 3 || rec.RatingDelta != 19 {
				t.Errorf("NewRecord() = %+v", rec)
			}
			if rec.WinnerID == nil || *rec.WinnerID != "alice" {
				t.Errorf("WinnerID = %v, want alice", rec.WinnerID)
			}
			if !rec.CreatedAt.Equal(now) {
				t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, now)
			}
		})
	}
}

func TestNewRecordCopiesResult(t *testing.T) {
	winner := shared.PlayerID("bob")
	result := &combat.Result{
		Outcome:  combat.OutcomeDefenderWin,
		WinnerID: &winner,
		Units:    []combat.UnitState{{SourceID: "u1", HP: 7}},
	}

	rec, err := battle.NewRecord("b1", participants(), result, 5, "k1", time.Now())
	if err != nil {
		t.Fatalf("NewRecord() unexpected error: %v", err)
	}
	winner = "mallory"
	result.Units[0].HP = 0

	if *rec.WinnerID != "bob" {
		t.Errorf("WinnerID changed with result: %s", *rec.WinnerID)
	}
	if rec.FinalUnits[0].HP != 7 {
		t.Errorf("FinalUnits changed with result: %d", rec.FinalUnits[0].HP)
	}
}

func TestTurns(t *testing.T) {
	log := []combat.TurnLogEntry{
		{Sequence: 1, Turn: 1, ActorName: "Knight", Damage: 7},
		{Sequence: 2, Turn: 1, ActorName: "Goblin", Damage: 4},
	}

	turns := battle.Turns("b1", log)
	if len(turns) != 2 {
		t.Fatalf("Turns() len = %d, want 2", len(turns))
	}
	for i, turn := range turns {
		if turn.BattleID != "b1" {
			t.Errorf("turns[%d].BattleID = %s, want b1", i, turn.BattleID)
		}
		if turn.Sequence != log[i].Sequence {
			t.Errorf("turns[%d].Sequence = %d, want %d", i, turn.Sequence, log[i].Sequence)
		}
	}
}

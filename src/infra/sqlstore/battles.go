package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

const battleColumns = `id, initiator_id, attacker_team_id, attacker_id, defender_team_id, defender_id, season_id,
	outcome, winner_id, total_turns, survivors_attacker, survivors_defender, rating_delta, final_units,
	idempotency_key, created_at`

// SaveBattle inserts the battle summary and one row per turn log entry.
func (r repo) SaveBattle(ctx context.Context, record *battle.Record, turns []battle.Turn) error {
	units, err := encodeUnits(record.FinalUnits)
	if err != nil {
		return err
	}
	var winner sql.NullString
	if record.WinnerID != nil {
		winner = sql.NullString{String: string(*record.WinnerID), Valid: true}
	}
	p := record.Participants

	return r.atomic(ctx, func(r repo) error {
		_, err := r.q.ExecContext(ctx, r.d.rebind(
			`INSERT INTO battles (`+battleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			string(record.ID), string(p.InitiatorID), string(p.AttackerTeamID), string(p.AttackerID),
			string(p.DefenderTeamID), string(p.DefenderID), string(p.SeasonID),
			string(record.Outcome), winner, record.TotalTurns,
			record.Survivors.Attacker, record.Survivors.Defender, record.RatingDelta, units,
			string(record.IdempotencyKey), toMillis(record.CreatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return shared.ErrDuplicate
			}
			return fmt.Errorf("insert battle: %w", err)
		}
		for _, t := range turns {
			_, err := r.q.ExecContext(ctx, r.d.rebind(
				`INSERT INTO battle_turns (battle_id, sequence, turn, actor_id, actor_name, actor_side,
				   target_id, target_name, target_side, damage, target_hp)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				string(record.ID), t.Sequence, t.Turn, string(t.ActorID), t.ActorName, string(t.ActorSide),
				string(t.TargetID), t.TargetName, string(t.TargetSide), t.Damage, t.TargetHP,
			)
			if err != nil {
				return fmt.Errorf("insert battle turn %d: %w", t.Sequence, err)
			}
		}
		return nil
	})
}

func (r repo) GetBattle(ctx context.Context, id shared.BattleID) (*battle.Record, error) {
	row := r.q.QueryRowContext(ctx, r.d.rebind(`SELECT `+battleColumns+` FROM battles WHERE id = ?`), string(id))
	return scanBattle(row)
}

func (r repo) GetBattleByKey(ctx context.Context, initiator shared.PlayerID, key shared.IdempotencyKey) (*battle.Record, error) {
	row := r.q.QueryRowContext(ctx, r.d.rebind(
		`SELECT `+battleColumns+` FROM battles WHERE initiator_id = ? AND idempotency_key = ?`),
		string(initiator), string(key))
	return scanBattle(row)
}

func scanBattle(row *sql.Row) (*battle.Record, error) {
	var (
		rec                                     battle.Record
		id, initiator, attackerTeam, attackerID string
		defenderTeam, defenderID, season        string
		outcome, key                            string
		winner                                  sql.NullString
		units                                   []byte
		createdAt                               int64
	)
	err := row.Scan(&id, &initiator, &attackerTeam, &attackerID, &defenderTeam, &defenderID, &season,
		&outcome, &winner, &rec.TotalTurns, &rec.Survivors.Attacker, &rec.Survivors.Defender, &rec.RatingDelta, &units,
		&key, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, battle.ErrBattleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get battle: %w", err)
	}
	rec.ID = shared.BattleID(id)
	rec.Participants = battle.Participants{
		InitiatorID:    shared.PlayerID(initiator),
		AttackerTeamID: shared.TeamID(attackerTeam),
		AttackerID:     shared.PlayerID(attackerID),
		DefenderTeamID: shared.TeamID(defenderTeam),
		DefenderID:     shared.PlayerID(defenderID),
		SeasonID:       shared.SeasonID(season),
	}
	rec.Outcome = combat.Outcome(outcome)
	if winner.Valid {
		w := shared.PlayerID(winner.String)
		rec.WinnerID = &w
	}
	rec.IdempotencyKey = shared.IdempotencyKey(key)
	rec.CreatedAt = fromMillis(createdAt)
	if rec.FinalUnits, err = decodeUnits(units); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListTurns returns the stored turn rows of a battle in sequence order.
func (r repo) ListTurns(ctx context.Context, id shared.BattleID) ([]battle.Turn, error) {
	rows, err := r.q.QueryContext(ctx, r.d.rebind(
		`SELECT sequence, turn, actor_id, actor_name, actor_side, target_id, target_name, target_side, damage, target_hp
		 FROM battle_turns WHERE battle_id = ? ORDER BY sequence`), string(id))
	if err != nil {
		return nil, fmt.Errorf("list battle turns: %w", err)
	}
	defer rows.Close()

	turns := make([]battle.Turn, 0)
	for rows.Next() {
		t := battle.Turn{BattleID: id}
		var actorID, actorSide, targetID, targetSide string
		if err := rows.Scan(&t.Sequence, &t.Turn, &actorID, &t.ActorName, &actorSide,
			&targetID, &t.TargetName, &targetSide, &t.Damage, &t.TargetHP); err != nil {
			return nil, fmt.Errorf("scan battle turn: %w", err)
		}
		t.ActorID = shared.UnitID(actorID)
		t.ActorSide = combat.Side(actorSide)
		t.TargetID = shared.UnitID(targetID)
		t.TargetSide = combat.Side(targetSide)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate battle turns: %w", err)
	}
	return turns, nil
}

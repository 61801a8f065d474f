package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// SaveTeam inserts a team and its ordered units.
func (r repo) SaveTeam(ctx context.Context, team *roster.Team) error {
	return r.atomic(ctx, func(r repo) error {
		_, err := r.q.ExecContext(ctx, r.d.rebind(
			`INSERT INTO teams (id, owner_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`),
			string(team.ID), string(team.OwnerID), team.Name, toMillis(team.CreatedAt), toMillis(team.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return shared.ErrDuplicate
			}
			return fmt.Errorf("insert team: %w", err)
		}
		for slot, u := range team.Units {
			_, err := r.q.ExecContext(ctx, r.d.rebind(
				`INSERT INTO team_units (team_id, slot, unit_id, name, rarity, max_hp, attack, defense, speed, passive_key)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				string(team.ID), slot, string(u.ID), u.Name, string(u.Rarity),
				u.Stats.MaxHP, u.Stats.Attack, u.Stats.Defense, u.Stats.Speed, u.PassiveKey,
			)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("unit %s: %w", u.ID, roster.ErrDuplicateUnit)
				}
				return fmt.Errorf("insert team unit: %w", err)
			}
		}
		return nil
	})
}

func (r repo) GetTeam(ctx context.Context, id shared.TeamID) (*roster.Team, error) {
	team := &roster.Team{ID: id}
	var owner string
	var createdAt, updatedAt int64
	err := r.q.QueryRowContext(ctx, r.d.rebind(
		`SELECT owner_id, name, created_at, updated_at FROM teams WHERE id = ?`), string(id),
	).Scan(&owner, &team.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, roster.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	team.OwnerID = shared.PlayerID(owner)
	team.CreatedAt = fromMillis(createdAt)
	team.UpdatedAt = fromMillis(updatedAt)

	rows, err := r.q.QueryContext(ctx, r.d.rebind(
		`SELECT unit_id, name, rarity, max_hp, attack, defense, speed, passive_key
		 FROM team_units WHERE team_id = ? ORDER BY slot`), string(id))
	if err != nil {
		return nil, fmt.Errorf("list team units: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u roster.Unit
		var unitID, rarity string
		if err := rows.Scan(&unitID, &u.Name, &rarity, &u.Stats.MaxHP, &u.Stats.Attack, &u.Stats.Defense, &u.Stats.Speed, &u.PassiveKey); err != nil {
			return nil, fmt.Errorf("scan team unit: %w", err)
		}
		u.ID = shared.UnitID(unitID)
		u.Rarity = roster.Rarity(rarity)
		team.Units = append(team.Units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team units: %w", err)
	}
	return team, nil
}

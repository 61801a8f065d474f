package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bryanwahyu/sandai/src/domain/player"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// GetPlayer loads an account. Inside a Postgres transaction the row stays
// locked until commit so concurrent rating updates serialize.
func (r repo) GetPlayer(ctx context.Context, id shared.PlayerID) (*player.PlayerAccount, error) {
	acct := &player.PlayerAccount{ID: id}
	var createdAt, updatedAt int64
	err := r.q.QueryRowContext(ctx, r.d.rebind(
		`SELECT display_name, rating, battles_played, suspended, suspension_msg, created_at, updated_at
		 FROM players WHERE id = ?`+r.lock()), string(id),
	).Scan(&acct.DisplayName, &acct.Rating, &acct.BattlesPlayed, &acct.Suspended, &acct.SuspensionMsg, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, player.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	acct.CreatedAt = fromMillis(createdAt)
	acct.UpdatedAt = fromMillis(updatedAt)
	return acct, nil
}

// SavePlayer inserts or replaces an account.
func (r repo) SavePlayer(ctx context.Context, acct *player.PlayerAccount) error {
	_, err := r.q.ExecContext(ctx, r.d.rebind(
		`INSERT INTO players (id, display_name, rating, battles_played, suspended, suspension_msg, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   display_name = excluded.display_name,
		   rating = excluded.rating,
		   battles_played = excluded.battles_played,
		   suspended = excluded.suspended,
		   suspension_msg = excluded.suspension_msg,
		   updated_at = excluded.updated_at`),
		string(acct.ID), acct.DisplayName, acct.Rating, acct.BattlesPlayed, acct.Suspended, acct.SuspensionMsg,
		toMillis(acct.CreatedAt), toMillis(acct.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}

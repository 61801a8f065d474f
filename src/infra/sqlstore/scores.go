package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// SubmitScore records the idempotency key and replaces the season score.
// A key that was already applied returns shared.ErrDuplicate without
// aborting an enclosing transaction.
func (r repo) SubmitScore(ctx context.Context, sub leaderboard.ScoreSubmission) error {
	return r.atomic(ctx, func(r repo) error {
		res, err := r.q.ExecContext(ctx, r.d.rebind(
			`INSERT INTO leaderboard_submissions (idempotency_key, season_id, player_id, submitted_at)
			 VALUES (?, ?, ?, ?) ON CONFLICT (idempotency_key) DO NOTHING`),
			string(sub.IdempotencyKey), string(sub.SeasonID), string(sub.PlayerID), toMillis(sub.SubmittedAt),
		)
		if err != nil {
			return fmt.Errorf("record submission: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("record submission: %w", err)
		}
		if n == 0 {
			return shared.ErrDuplicate
		}
		_, err = r.q.ExecContext(ctx, r.d.rebind(
			`INSERT INTO leaderboard_scores (season_id, player_id, value, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (season_id, player_id) DO UPDATE SET
			   value = excluded.value,
			   updated_at = excluded.updated_at`),
			string(sub.SeasonID), string(sub.PlayerID), sub.Value, toMillis(sub.SubmittedAt),
		)
		if err != nil {
			return fmt.Errorf("upsert score: %w", err)
		}
		return nil
	})
}

func (r repo) GetScore(ctx context.Context, season shared.SeasonID, id shared.PlayerID) (*leaderboard.Score, error) {
	score := &leaderboard.Score{SeasonID: season, PlayerID: id}
	var updatedAt int64
	err := r.q.QueryRowContext(ctx, r.d.rebind(
		`SELECT value, updated_at FROM leaderboard_scores WHERE season_id = ? AND player_id = ?`),
		string(season), string(id),
	).Scan(&score.Value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leaderboard.ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get score: %w", err)
	}
	score.UpdatedAt = fromMillis(updatedAt)
	return score, nil
}

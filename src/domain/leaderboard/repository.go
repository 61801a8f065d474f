package leaderboard

import (
	"context"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Repository stores season scores. SubmitScore returns shared.ErrDuplicate
// when the idempotency key was already applied.
type Repository interface {
	SubmitScore(ctx context.Context, submission ScoreSubmission) error
	GetScore(ctx context.Context, season shared.SeasonID, player shared.PlayerID) (*Score, error)
}

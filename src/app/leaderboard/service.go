package leaderboard

import (
	"context"
	"errors"
	"time"

	domain "github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

type Repository interface {
	domain.Repository
}

// Service coordinates leaderboard submissions.
type Service struct {
	Repo  Repository
	Clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		Repo:  repo,
		Clock: func() time.Time { return time.Now().UTC() },
	}
}

type SubmitCommand struct {
	PlayerID       shared.PlayerID
	SeasonID       shared.SeasonID
	Score          int64
	IdempotencyKey shared.IdempotencyKey
}

type SubmitResult struct {
	Acknowledged bool
	Replayed     bool
}

// Submit writes a season score. Resubmitting an applied idempotency key is
// acknowledged without a second write.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (SubmitResult, error) {
	submission := domain.ScoreSubmission{
		PlayerID:       cmd.PlayerID,
		SeasonID:       cmd.SeasonID,
		Value:          cmd.Score,
		IdempotencyKey: cmd.IdempotencyKey,
		SubmittedAt:    s.Clock(),
	}
	if err := submission.Validate(); err != nil {
		return SubmitResult{}, err
	}
	if err := s.Repo.SubmitScore(ctx, submission); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return SubmitResult{Acknowledged: true, Replayed: true}, nil
		}
		return SubmitResult{}, err
	}
	return SubmitResult{Acknowledged: true}, nil
}

// Get returns a player's current season score.
func (s *Service) Get(ctx context.Context, season shared.SeasonID, player shared.PlayerID) (*domain.Score, error) {
	if err := season.Validate(); err != nil {
		return nil, err
	}
	if err := player.Validate(); err != nil {
		return nil, err
	}
	return s.Repo.GetScore(ctx, season, player)
}

package leaderboard

import (
	"time"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// ScoreSubmission enforces idempotent leaderboard writes. Value replaces the
// player's current season score.
type ScoreSubmission struct {
	PlayerID       shared.PlayerID
	SeasonID       shared.SeasonID
	Value          int64
	IdempotencyKey shared.IdempotencyKey
	SubmittedAt    time.Time
}

// Score is a player's standing in one season.
type Score struct {
	PlayerID  shared.PlayerID
	SeasonID  shared.SeasonID
	Value     int64
	UpdatedAt time.Time
}

func (submission ScoreSubmission) Validate() error {
	if err := submission.PlayerID.Validate(); err != nil {
		return err
	}
	if err := submission.SeasonID.Validate(); err != nil {
		return err
	}
	if err := submission.IdempotencyKey.Validate(); err != nil {
		return err
	}
	return nil
}

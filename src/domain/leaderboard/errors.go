package leaderboard

import "errors"

var ErrScoreNotFound = errors.New("leaderboard score not found")

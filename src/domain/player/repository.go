package player

import (
	"context"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

type Repository interface {
	GetPlayer(ctx context.Context, id shared.PlayerID) (*PlayerAccount, error)
	SavePlayer(ctx context.Context, account *PlayerAccount) error
}

package battle

import (
	"context"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Repository persists battle records together with their turn rows.
// SaveBattle returns shared.ErrDuplicate when the id or idempotency key is
// already stored.
type Repository interface {
	SaveBattle(ctx context.Context, record *Record, turns []Turn) error
	GetBattle(ctx context.Context, id shared.BattleID) (*Record, error)
	GetBattleByKey(ctx context.Context, initiator shared.PlayerID, key shared.IdempotencyKey) (*Record, error)
	ListTurns(ctx context.Context, id shared.BattleID) ([]Turn, error)
}

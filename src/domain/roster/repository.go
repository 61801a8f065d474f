package roster

import (
	"context"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Repository manages team persistence.
type Repository interface {
	SaveTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, id shared.TeamID) (*Team, error)
}

package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// MaxTeamSize caps how many units a player may field in one battle.
const MaxTeamSize = 5

// Team is an ordered roster owned by a player. Unit order is battle order.
type Team struct {
	ID        shared.TeamID
	OwnerID   shared.PlayerID
	Name      string
	Units     []Unit
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewTeam(id shared.TeamID, owner shared.PlayerID, name string, units []Unit, now time.Time) (*Team, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateUnits(units); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = string(id)
	}
	return &Team{
		ID:        id,
		OwnerID:   owner,
		Name:      name,
		Units:     append([]Unit(nil), units...),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateUnits checks the size cap, per-unit fields and duplicate unit ids.
func ValidateUnits(units []Unit) error {
	if len(units) == 0 {
		return ErrTeamEmpty
	}
	if len(units) > MaxTeamSize {
		return fmt.Errorf("%w: %d units, max %d", ErrTeamTooLarge, len(units), MaxTeamSize)
	}
	seen := make(map[shared.UnitID]struct{}, len(units))
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return err
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("unit %s: %w", u.ID, ErrDuplicateUnit)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}

package teams

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bryanwahyu/sandai/src/domain/player"
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// Service registers the rosters players bring to battle.
type Service struct {
	Teams   roster.Repository
	Players player.Repository
	NewID   func() (shared.TeamID, error)
	Clock   func() time.Time
}

func NewService(teams roster.Repository, players player.Repository) *Service {
	return &Service{
		Teams:   teams,
		Players: players,
		NewID: func() (shared.TeamID, error) {
			id, err := uuid.NewV4()
			if err != nil {
				return "", err
			}
			return shared.TeamID(id.String()), nil
		},
		Clock: func() time.Time { return time.Now().UTC() },
	}
}

type RegisterCommand struct {
	TeamID      shared.TeamID
	OwnerID     shared.PlayerID
	DisplayName string
	Name        string
	Units       []roster.Unit
}

type RegisterResult struct {
	Team          *roster.Team
	PlayerCreated bool
}

// Register stores a new team. The owning player account is created with the
// initial rating on first registration.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (RegisterResult, error) {
	if err := cmd.OwnerID.Validate(); err != nil {
		return RegisterResult{}, err
	}
	if err := roster.ValidateUnits(cmd.Units); err != nil {
		return RegisterResult{}, err
	}
	id := cmd.TeamID
	if id == "" {
		generated, err := s.NewID()
		if err != nil {
			return RegisterResult{}, err
		}
		id = generated
	}
	now := s.Clock()
	team, err := roster.NewTeam(id, cmd.OwnerID, cmd.Name, cmd.Units, now)
	if err != nil {
		return RegisterResult{}, err
	}

	var acct *player.PlayerAccount
	if _, err := s.Players.GetPlayer(ctx, cmd.OwnerID); err != nil {
		if !errors.Is(err, player.ErrPlayerNotFound) {
			return RegisterResult{}, err
		}
		acct, err = player.NewPlayerAccount(cmd.OwnerID, cmd.DisplayName, now)
		if err != nil {
			return RegisterResult{}, err
		}
	}

	// A rejected team must not leave a new account behind.
	if err := s.Teams.SaveTeam(ctx, team); err != nil {
		return RegisterResult{}, err
	}
	created := false
	if acct != nil {
		if err := s.Players.SavePlayer(ctx, acct); err != nil {
			return RegisterResult{}, err
		}
		created = true
	}
	return RegisterResult{Team: team, PlayerCreated: created}, nil
}

func (s *Service) Get(ctx context.Context, id shared.TeamID) (*roster.Team, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return s.Teams.GetTeam(ctx, id)
}

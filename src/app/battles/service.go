package battles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	leaderboardsvc "github.com/bryanwahyu/sandai/src/app/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/player"
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// ErrNotTeamOwner is returned when the initiator does not own the attacking team.
var ErrNotTeamOwner = errors.New("initiator does not own attacking team")

// Repositories is the transactional view handed to UnitOfWork callbacks.
type Repositories struct {
	Battles battle.Repository
	Players player.Repository
	Scores  leaderboard.Repository
}

// UnitOfWork runs fn atomically. Any error returned by fn rolls back every
// write made through repos.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Recorder observes resolved battles.
type Recorder interface {
	ObserveBattle(outcome combat.Outcome, totalTurns int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveBattle(combat.Outcome, int, time.Duration) {}

// Service resolves battles between stored teams and applies the rating change.
type Service struct {
	Teams    roster.Repository
	Players  player.Repository
	Battles  battle.Repository
	Tx       UnitOfWork
	Registry *combat.Registry
	TurnCap  int
	NewID    func() (shared.BattleID, error)
	Clock    func() time.Time
	Logger   *zap.Logger
	Metrics  Recorder
}

func NewService(teams roster.Repository, players player.Repository, battles battle.Repository, tx UnitOfWork) *Service {
	return &Service{
		Teams:    teams,
		Players:  players,
		Battles:  battles,
		Tx:       tx,
		Registry: combat.DefaultRegistry(),
		TurnCap:  combat.DefaultTurnCap,
		NewID: func() (shared.BattleID, error) {
			id, err := uuid.NewV4()
			if err != nil {
				return "", err
			}
			return shared.BattleID(id.String()), nil
		},
		Clock:   func() time.Time { return time.Now().UTC() },
		Logger:  zap.NewNop(),
		Metrics: nopRecorder{},
	}
}

type StartCommand struct {
	InitiatorID    shared.PlayerID
	AttackerTeamID shared.TeamID
	DefenderTeamID shared.TeamID
	SeasonID       shared.SeasonID
	IdempotencyKey shared.IdempotencyKey
}

type StartResult struct {
	Battle   *battle.Record
	Turns    []combat.TurnLogEntry
	Rating   int
	Replayed bool
}

// StartBattle simulates a battle between two stored teams, then persists the
// record, its turn log, the initiator's new rating and season score in one
// transaction. A repeated idempotency key returns the stored battle.
func (s *Service) StartBattle(ctx context.Context, cmd StartCommand) (StartResult, error) {
	if err := cmd.InitiatorID.Validate(); err != nil {
		return StartResult{}, err
	}
	if err := cmd.IdempotencyKey.Validate(); err != nil {
		return StartResult{}, err
	}
	if replay, ok, err := s.replay(ctx, cmd); err != nil || ok {
		return replay, err
	}

	initiator, err := s.Players.GetPlayer(ctx, cmd.InitiatorID)
	if err != nil {
		return StartResult{}, err
	}
	if err := initiator.CanStartBattle(cmd.IdempotencyKey); err != nil {
		return StartResult{}, err
	}

	attacker, err := s.Teams.GetTeam(ctx, cmd.AttackerTeamID)
	if err != nil {
		return StartResult{}, fmt.Errorf("attacker team %s: %w", cmd.AttackerTeamID, err)
	}
	if attacker.OwnerID != cmd.InitiatorID {
		return StartResult{}, ErrNotTeamOwner
	}
	defender, err := s.Teams.GetTeam(ctx, cmd.DefenderTeamID)
	if err != nil {
		return StartResult{}, fmt.Errorf("defender team %s: %w", cmd.DefenderTeamID, err)
	}

	started := time.Now()
	result, err := combat.Simulate(
		combat.Roster{OwnerID: attacker.OwnerID, Units: attacker.Units},
		combat.Roster{OwnerID: defender.OwnerID, Units: defender.Units},
		combat.WithRegistry(s.Registry),
		combat.WithTurnCap(s.TurnCap),
		combat.WithLogger(s.Logger),
	)
	if err != nil {
		return StartResult{}, err
	}
	elapsed := time.Since(started)
	delta := leaderboard.RatingDelta(result.TotalTurns, leaderboard.TeamPower(attacker.Units), leaderboard.TeamPower(defender.Units))

	id, err := s.NewID()
	if err != nil {
		return StartResult{}, err
	}
	now := s.Clock()
	record, err := battle.NewRecord(id, battle.Participants{
		InitiatorID:    cmd.InitiatorID,
		AttackerTeamID: attacker.ID,
		AttackerID:     attacker.OwnerID,
		DefenderTeamID: defender.ID,
		DefenderID:     defender.OwnerID,
		SeasonID:       cmd.SeasonID,
	}, result, delta, cmd.IdempotencyKey, now)
	if err != nil {
		return StartResult{}, err
	}

	var rating int
	err = s.Tx.Within(ctx, func(ctx context.Context, repos Repositories) error {
		if err := repos.Battles.SaveBattle(ctx, record, battle.Turns(record.ID, result.Turns)); err != nil {
			return err
		}
		acct, err := repos.Players.GetPlayer(ctx, cmd.InitiatorID)
		if err != nil {
			return err
		}
		acct.ApplyRatingDelta(delta, now)
		if err := repos.Players.SavePlayer(ctx, acct); err != nil {
			return err
		}
		rating = acct.Rating

		scores := leaderboardsvc.NewService(repos.Scores)
		scores.Clock = s.Clock
		_, err = scores.Submit(ctx, leaderboardsvc.SubmitCommand{
			PlayerID:       acct.ID,
			SeasonID:       cmd.SeasonID,
			Score:          int64(acct.Rating),
			IdempotencyKey: shared.IdempotencyKey("battle:" + string(record.ID)),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			// Lost a race with a concurrent request carrying the same key.
			if replay, ok, rerr := s.replay(ctx, cmd); rerr == nil && ok {
				return replay, nil
			}
		}
		return StartResult{}, err
	}

	s.Metrics.ObserveBattle(result.Outcome, result.TotalTurns, elapsed)
	s.Logger.Info("battle_resolved",
		zap.String("battle_id", string(record.ID)),
		zap.String("initiator_id", string(cmd.InitiatorID)),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("turns", result.TotalTurns),
		zap.Int("rating_delta", delta),
		zap.Int("rating", rating),
	)
	return StartResult{Battle: record, Turns: result.Turns, Rating: rating}, nil
}

func (s *Service) replay(ctx context.Context, cmd StartCommand) (StartResult, bool, error) {
	record, err := s.Battles.GetBattleByKey(ctx, cmd.InitiatorID, cmd.IdempotencyKey)
	if errors.Is(err, battle.ErrBattleNotFound) {
		return StartResult{}, false, nil
	}
	if err != nil {
		return StartResult{}, false, err
	}
	turns, err := s.Battles.ListTurns(ctx, record.ID)
	if err != nil {
		return StartResult{}, false, err
	}
	acct, err := s.Players.GetPlayer(ctx, cmd.InitiatorID)
	if err != nil {
		return StartResult{}, false, err
	}
	log := make([]combat.TurnLogEntry, 0, len(turns))
	for _, t := range turns {
		log = append(log, t.TurnLogEntry)
	}
	return StartResult{Battle: record, Turns: log, Rating: acct.Rating, Replayed: true}, true, nil
}

type SimulateCommand struct {
	Attacker combat.Roster
	Defender combat.Roster
	// TurnCap may only lower the service's cap; larger values are clamped.
	TurnCap int
}

type SimulateResult struct {
	Result      *combat.Result
	RatingDelta int
}

// Simulate runs inline rosters through the engine without persisting anything.
func (s *Service) Simulate(ctx context.Context, cmd SimulateCommand) (SimulateResult, error) {
	if err := ctx.Err(); err != nil {
		return SimulateResult{}, err
	}
	turnCap := s.TurnCap
	if turnCap < 1 {
		turnCap = combat.DefaultTurnCap
	}
	if cmd.TurnCap > 0 {
		turnCap = min(cmd.TurnCap, turnCap)
	}
	started := time.Now()
	result, err := combat.Simulate(cmd.Attacker, cmd.Defender,
		combat.WithRegistry(s.Registry),
		combat.WithTurnCap(turnCap),
		combat.WithLogger(s.Logger),
	)
	if err != nil {
		return SimulateResult{}, err
	}
	s.Metrics.ObserveBattle(result.Outcome, result.TotalTurns, time.Since(started))
	delta := leaderboard.RatingDelta(result.TotalTurns, leaderboard.TeamPower(cmd.Attacker.Units), leaderboard.TeamPower(cmd.Defender.Units))
	return SimulateResult{Result: result, RatingDelta: delta}, nil
}

func (s *Service) GetBattle(ctx context.Context, id shared.BattleID) (*battle.Record, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return s.Battles.GetBattle(ctx, id)
}

// ListTurns returns the stored turn log of a battle in sequence order.
func (s *Service) ListTurns(ctx context.Context, id shared.BattleID) ([]battle.Turn, error) {
	if _, err := s.GetBattle(ctx, id); err != nil {
		return nil, err
	}
	return s.Battles.ListTurns(ctx, id)
}

// Package memory keeps every repository in process memory. It backs tests and
// the default single-node deployment.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/bryanwahyu/sandai/src/app/battles"
	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/player"
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

type scoreKey struct {
	season shared.SeasonID
	player shared.PlayerID
}

type battleKey struct {
	initiator shared.PlayerID
	key       shared.IdempotencyKey
}

// Store implements the roster, player, battle and leaderboard repositories.
// Values are copied on the way in and out so callers never share state.
type Store struct {
	mu        sync.RWMutex
	teams     map[shared.TeamID]*roster.Team
	players   map[shared.PlayerID]*player.PlayerAccount
	battles   map[shared.BattleID]*battle.Record
	byKey     map[battleKey]shared.BattleID
	turns     map[shared.BattleID][]battle.Turn
	scores    map[scoreKey]*leaderboard.Score
	scoreKeys map[shared.IdempotencyKey]struct{}
}

func NewStore() *Store {
	return &Store{
		teams:     make(map[shared.TeamID]*roster.Team),
		players:   make(map[shared.PlayerID]*player.PlayerAccount),
		battles:   make(map[shared.BattleID]*battle.Record),
		byKey:     make(map[battleKey]shared.BattleID),
		turns:     make(map[shared.BattleID][]battle.Turn),
		scores:    make(map[scoreKey]*leaderboard.Score),
		scoreKeys: make(map[shared.IdempotencyKey]struct{}),
	}
}

// SaveTeam stores a new team. Team ids are never overwritten.
func (s *Store) SaveTeam(ctx context.Context, team *roster.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.teams[team.ID]; exists {
		return shared.ErrDuplicate
	}
	cp := *team
	cp.Units = append([]roster.Unit(nil), team.Units...)
	s.teams[team.ID] = &cp
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id shared.TeamID) (*roster.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, exists := s.teams[id]
	if !exists {
		return nil, roster.ErrTeamNotFound
	}
	cp := *team
	cp.Units = append([]roster.Unit(nil), team.Units...)
	return &cp, nil
}

func (s *Store) GetPlayer(ctx context.Context, id shared.PlayerID) (*player.PlayerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPlayer(id)
}

func (s *Store) SavePlayer(ctx context.Context, account *player.PlayerAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePlayer(account)
	return nil
}

func (s *Store) SaveBattle(ctx context.Context, record *battle.Record, turns []battle.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveBattle(record, turns)
}

func (s *Store) GetBattle(ctx context.Context, id shared.BattleID) (*battle.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBattle(id)
}

func (s *Store) GetBattleByKey(ctx context.Context, initiator shared.PlayerID, key shared.IdempotencyKey) (*battle.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBattleByKey(initiator, key)
}

func (s *Store) ListTurns(ctx context.Context, id shared.BattleID) ([]battle.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTurns(id), nil
}

func (s *Store) SubmitScore(ctx context.Context, submission leaderboard.ScoreSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitScore(submission)
}

func (s *Store) GetScore(ctx context.Context, season shared.SeasonID, id shared.PlayerID) (*leaderboard.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, exists := s.scores[scoreKey{season: season, player: id}]
	if !exists {
		return nil, leaderboard.ErrScoreNotFound
	}
	cp := *score
	return &cp, nil
}

// Within holds the write lock for the duration of fn and restores the
// battle, player and score tables if fn fails.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, repos battles.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	view := txView{s: s}
	err := fn(ctx, battles.Repositories{Battles: view, Players: view, Scores: view})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	players   map[shared.PlayerID]*player.PlayerAccount
	battles   map[shared.BattleID]*battle.Record
	byKey     map[battleKey]shared.BattleID
	turns     map[shared.BattleID][]battle.Turn
	scores    map[scoreKey]*leaderboard.Score
	scoreKeys map[shared.IdempotencyKey]struct{}
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		players:   maps.Clone(s.players),
		battles:   maps.Clone(s.battles),
		byKey:     maps.Clone(s.byKey),
		turns:     maps.Clone(s.turns),
		scores:    maps.Clone(s.scores),
		scoreKeys: maps.Clone(s.scoreKeys),
	}
}

func (s *Store) restore(snap snapshot) {
	s.players = snap.players
	s.battles = snap.battles
	s.byKey = snap.byKey
	s.turns = snap.turns
	s.scores = snap.scores
	s.scoreKeys = snap.scoreKeys
}

func (s *Store) getPlayer(id shared.PlayerID) (*player.PlayerAccount, error) {
	acct, exists := s.players[id]
	if !exists {
		return nil, player.ErrPlayerNotFound
	}
	cp := *acct
	return &cp, nil
}

func (s *Store) savePlayer(account *player.PlayerAccount) {
	cp := *account
	s.players[account.ID] = &cp
}

func (s *Store) saveBattle(record *battle.Record, turns []battle.Turn) error {
	key := battleKey{initiator: record.Participants.InitiatorID, key: record.IdempotencyKey}
	if _, exists := s.battles[record.ID]; exists {
		return shared.ErrDuplicate
	}
	if _, exists := s.byKey[key]; exists {
		return shared.ErrDuplicate
	}
	s.battles[record.ID] = copyRecord(record)
	s.byKey[key] = record.ID
	rows := append([]battle.Turn(nil), turns...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Sequence < rows[j].Sequence })
	s.turns[record.ID] = rows
	return nil
}

func (s *Store) getBattle(id shared.BattleID) (*battle.Record, error) {
	record, exists := s.battles[id]
	if !exists {
		return nil, battle.ErrBattleNotFound
	}
	return copyRecord(record), nil
}

func (s *Store) getBattleByKey(initiator shared.PlayerID, key shared.IdempotencyKey) (*battle.Record, error) {
	id, exists := s.byKey[battleKey{initiator: initiator, key: key}]
	if !exists {
		return nil, battle.ErrBattleNotFound
	}
	return s.getBattle(id)
}

func (s *Store) listTurns(id shared.BattleID) []battle.Turn {
	return append([]battle.Turn{}, s.turns[id]...)
}

func (s *Store) submitScore(submission leaderboard.ScoreSubmission) error {
	if _, seen := s.scoreKeys[submission.IdempotencyKey]; seen {
		return shared.ErrDuplicate
	}
	s.scoreKeys[submission.IdempotencyKey] = struct{}{}
	s.scores[scoreKey{season: submission.SeasonID, player: submission.PlayerID}] = &leaderboard.Score{
		PlayerID:  submission.PlayerID,
		SeasonID:  submission.SeasonID,
		Value:     submission.Value,
		UpdatedAt: submission.SubmittedAt,
	}
	return nil
}

func copyRecord(r *battle.Record) *battle.Record {
	cp := *r
	cp.FinalUnits = append([]combat.UnitState(nil), r.FinalUnits...)
	if r.WinnerID != nil {
		winner := *r.WinnerID
		cp.WinnerID = &winner
	}
	return &cp
}

// txView reaches the store without locking; Within already holds the lock.
type txView struct {
	s *Store
}

func (v txView) GetPlayer(ctx context.Context, id shared.PlayerID) (*player.PlayerAccount, error) {
	return v.s.getPlayer(id)
}

func (v txView) SavePlayer(ctx context.Context, account *player.PlayerAccount) error {
	v.s.savePlayer(account)
	return nil
}

func (v txView) SaveBattle(ctx context.Context, record *battle.Record, turns []battle.Turn) error {
	return v.s.saveBattle(record, turns)
}

func (v txView) GetBattle(ctx context.Context, id shared.BattleID) (*battle.Record, error) {
	return v.s.getBattle(id)
}

func (v txView) GetBattleByKey(ctx context.Context, initiator shared.PlayerID, key shared.IdempotencyKey) (*battle.Record, error) {
	return v.s.getBattleByKey(initiator, key)
}

func (v txView) ListTurns(ctx context.Context, id shared.BattleID) ([]battle.Turn, error) {
	return v.s.listTurns(id), nil
}

func (v txView) SubmitScore(ctx context.Context, submission leaderboard.ScoreSubmission) error {
	return v.s.submitScore(submission)
}

func (v txView) GetScore(ctx context.Context, season shared.SeasonID, id shared.PlayerID) (*leaderboard.Score, error) {
	score, exists := v.s.scores[scoreKey{season: season, player: id}]
	if !exists {
		return nil, leaderboard.ErrScoreNotFound
	}
	cp := *score
	return &cp, nil
}

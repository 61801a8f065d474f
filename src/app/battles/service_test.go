package battles_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bryanwahyu/sandai/src/app/battles"
	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/player"
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

type mockTeamRepo struct {
	teams map[shared.TeamID]*roster.Team
}

func (m *mockTeamRepo) SaveTeam(ctx context.Context, team *roster.Team) error { return nil }

func (m *mockTeamRepo) GetTeam(ctx context.Context, id shared.TeamID) (*roster.Team, error) {
	if team, ok := m.teams[id]; ok {
		return team, nil
	}
	return nil, roster.ErrTeamNotFound
}

type mockPlayerRepo struct {
	getFunc  func(ctx context.Context, id shared.PlayerID) (*player.PlayerAccount, error)
	saveFunc func(ctx context.Context, account *player.PlayerAccount) error
}

func (m *mockPlayerRepo) GetPlayer(ctx context.Context, id shared.PlayerID) (*player.PlayerAccount, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, player.ErrPlayerNotFound
}

func (m *mockPlayerRepo) SavePlayer(ctx context.Context, account *player.PlayerAccount) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, account)
	}
	return nil
}

type mockBattleRepo struct {
	saveFunc      func(ctx context.Context, record *battle.Record, turns []battle.Turn) error
	getFunc       func(ctx context.Context, id shared.BattleID) (*battle.Record, error)
	getByKeyFunc  func(ctx context.Context, initiator shared.PlayerID, key shared.IdempotencyKey) (*battle.Record, error)
	listTurnsFunc func(ctx context.Context, id shared.BattleID) ([]battle.Turn, error)
}

func (m *mockBattleRepo) SaveBattle(ctx context.Context, record *battle.Record, turns []battle.Turn) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, record, turns)
	}
	return nil
}

func (m *mockBattleRepo) GetBattle(ctx context.Context, id shared.BattleID) (*battle.Record, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, battle.ErrBattleNotFound
}

func (m *mockBattleRepo) GetBattleByKey(ctx context.Context, initiator shared.PlayerID, key shared.IdempotencyKey) (*battle.Record, error) {
	if m.getByKeyFunc != nil {
		return m.getByKeyFunc(ctx, initiator, key)
	}
	return nil, battle.ErrBattleNotFound
}

func (m *mockBattleRepo) ListTurns(ctx context.Context, id shared.BattleID) ([]battle.Turn, error) {
	if m.listTurnsFunc != nil {
		return m.listTurnsFunc(ctx, id)
	}
	return nil, nil
}

type mockScoreRepo struct {
	submitted []leaderboard.ScoreSubmission
	err       error
}

func (m *mockScoreRepo) SubmitScore(ctx context.Context, submission leaderboard.ScoreSubmission) error {
	if m.err != nil {
		return m.err
	}
	m.submitted = append(m.submitted, submission)
	return nil
}

func (m *mockScoreRepo) GetScore(ctx context.Context, season shared.SeasonID, id shared.PlayerID) (*leaderboard.Score, error) {
	return nil, leaderboard.ErrScoreNotFound
}

type mockUnitOfWork struct {
	repos battles.Repositories
	calls int
}

func (m *mockUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, repos battles.Repositories) error) error {
	m.calls++
	return fn(ctx, m.repos)
}

type recordedBattle struct {
	outcome combat.Outcome
	turns   int
}

type mockRecorder struct {
	observed []recordedBattle
}

func (m *mockRecorder) ObserveBattle(outcome combat.Outcome, totalTurns int, elapsed time.Duration) {
	m.observed = append(m.observed, recordedBattle{outcome: outcome, turns: totalTurns})
}

func fixtureTeams() *mockTeamRepo {
	return &mockTeamRepo{teams: map[shared.TeamID]*roster.Team{
		"team-a": {ID: "team-a", OwnerID: "alice", Units: []roster.Unit{
			{ID: "a1", Name: "Knight", Stats: roster.Stats{MaxHP: 30, Attack: 10, Defense: 2, Speed: 5}},
		}},
		"team-b": {ID: "team-b", OwnerID: "bob", Units: []roster.Unit{
			{ID: "d1", Name: "Goblin", Stats: roster.Stats{MaxHP: 20, Attack: 6, Defense: 3, Speed: 4}},
		}},
		"team-empty": {ID: "team-empty", OwnerID: "alice"},
	}}
}

type fixture struct {
	svc     *battles.Service
	players map[shared.PlayerID]*player.PlayerAccount
	battles *mockBattleRepo
	scores  *mockScoreRepo
	tx      *mockUnitOfWork
	metrics *mockRecorder
	saved   []*battle.Record
	turns   [][]battle.Turn
}

func newFixture() *fixture {
	f := &fixture{
		players: map[shared.PlayerID]*player.PlayerAccount{
			"alice": {ID: "alice", Rating: player.InitialRating},
			"bob":   {ID: "bob", Rating: player.InitialRating},
		},
		scores:  &mockScoreRepo{},
		metrics: &mockRecorder{},
	}
	players := &mockPlayerRepo{
		getFunc: func(ctx context.Context, id shared.PlayerID) (*player.PlayerAccount, error) {
			acct, ok := f.players[id]
			if !ok {
				return nil, player.ErrPlayerNotFound
			}
			cp := *acct
			return &cp, nil
		},
		saveFunc: func(ctx context.Context, account *player.PlayerAccount) error {
			f.players[account.ID] = account
			return nil
		},
	}
	f.battles = &mockBattleRepo{
		saveFunc: func(ctx context.Context, record *battle.Record, turns []battle.Turn) error {
			f.saved = append(f.saved, record)
			f.turns = append(f.turns, turns)
			return nil
		},
	}
	f.tx = &mockUnitOfWork{repos: battles.Repositories{Battles: f.battles, Players: players, Scores: f.scores}}

	f.svc = battles.NewService(fixtureTeams(), players, f.battles, f.tx)
	f.svc.NewID = func() (shared.BattleID, error) { return "battle-1", nil }
	f.svc.Clock = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	f.svc.Metrics = f.metrics
	return f
}

func validStart() battles.StartCommand {
	return battles.StartCommand{
		InitiatorID:    "alice",
		AttackerTeamID: "team-a",
		DefenderTeamID: "team-b",
		SeasonID:       "season-1",
		IdempotencyKey: "req-1",
	}
}

func TestService_StartBattle(t *testing.T) {
	f := newFixture()

	res, err := f.svc.StartBattle(context.Background(), validStart())
	if err != nil {
		t.Fatalf("StartBattle() unexpected error: %v", err)
	}
	if res.Replayed {
		t.Error("StartBattle() reported a replay")
	}
	if res.Battle.Outcome != combat.OutcomeAttackerWin || res.Battle.TotalTurns != 3 {
		t.Errorf("Battle = %+v", res.Battle)
	}
	// 47 vs 33 power over 3 rounds.
	if res.Battle.RatingDelta != 21 {
		t.Errorf("RatingDelta = %d, want 21", res.Battle.RatingDelta)
	}
	if res.Rating != player.InitialRating+21 || f.players["alice"].Rating != player.InitialRating+21 {
		t.Errorf("Rating = %d, stored %d", res.Rating, f.players["alice"].Rating)
	}
	if f.players["alice"].BattlesPlayed != 1 {
		t.Errorf("BattlesPlayed = %d, want 1", f.players["alice"].BattlesPlayed)
	}
	if f.players["bob"].Rating != player.InitialRating {
		t.Errorf("defender rating changed to %d", f.players["bob"].Rating)
	}
	if f.tx.calls != 1 || len(f.saved) != 1 {
		t.Fatalf("tx calls = %d, saved = %d", f.tx.calls, len(f.saved))
	}
	if len(f.turns[0]) != 5 || f.turns[0][0].BattleID != "battle-1" {
		t.Errorf("turn rows = %+v", f.turns[0])
	}
	if len(f.scores.submitted) != 1 || f.scores.submitted[0].Value != int64(player.InitialRating+21) {
		t.Errorf("scores = %+v", f.scores.submitted)
	}
	if f.scores.submitted[0].IdempotencyKey != "battle:battle-1" {
		t.Errorf("score key = %s", f.scores.submitted[0].IdempotencyKey)
	}
	if len(f.metrics.observed) != 1 || f.metrics.observed[0].outcome != combat.OutcomeAttackerWin {
		t.Errorf("metrics = %+v", f.metrics.observed)
	}
}

func TestService_StartBattleReplaysIdempotencyKey(t *testing.T) {
	f := newFixture()
	stored := &battle.Record{ID: "battle-0", Outcome: combat.OutcomeDraw, IdempotencyKey: "req-1"}
	f.battles.getByKeyFunc = func(ctx context.Context, initiator shared.PlayerID, key shared.IdempotencyKey) (*battle.Record, error) {
		if initiator == "alice" && key == "req-1" {
			return stored, nil
		}
		return nil, battle.ErrBattleNotFound
	}
	f.battles.listTurnsFunc = func(ctx context.Context, id shared.BattleID) ([]battle.Turn, error) {
		return []battle.Turn{{BattleID: id, TurnLogEntry: combat.TurnLogEntry{Sequence: 1}}}, nil
	}

	res, err := f.svc.StartBattle(context.Background(), validStart())
	if err != nil {
		t.Fatalf("StartBattle() unexpected error: %v", err)
	}
	if !res.Replayed || res.Battle != stored || len(res.Turns) != 1 {
		t.Errorf("StartBattle() = %+v", res)
	}
	if f.tx.calls != 0 {
		t.Errorf("replay opened %d transactions", f.tx.calls)
	}
}

func TestService_StartBattleErrors(t *testing.T) {
	txErr := errors.New("commit failed")

	tests := []struct {
		name    string
		mutate  func(f *fixture, cmd *battles.StartCommand)
		wantErr error
	}{
		{
			name:    "suspended initiator",
			mutate:  func(f *fixture, cmd *battles.StartCommand) { f.players["alice"].Suspended = true },
			wantErr: player.ErrAccountSuspended,
		},
		{
			name:    "unknown initiator",
			mutate:  func(f *fixture, cmd *battles.StartCommand) { cmd.InitiatorID = "carol" },
			wantErr: player.ErrPlayerNotFound,
		},
		{
			name:    "not the attacking team owner",
			mutate:  func(f *fixture, cmd *battles.StartCommand) { cmd.AttackerTeamID = "team-b"; cmd.DefenderTeamID = "team-a" },
			wantErr: battles.ErrNotTeamOwner,
		},
		{
			name:    "missing defender team",
			mutate:  func(f *fixture, cmd *battles.StartCommand) { cmd.DefenderTeamID = "team-x" },
			wantErr: roster.ErrTeamNotFound,
		},
		{
			name:    "invalid roster",
			mutate:  func(f *fixture, cmd *battles.StartCommand) { cmd.AttackerTeamID = "team-empty" },
			wantErr: combat.ErrInvalidRoster,
		},
		{
			name: "transaction failure",
			mutate: func(f *fixture, cmd *battles.StartCommand) {
				f.battles.saveFunc = func(ctx context.Context, record *battle.Record, turns []battle.Turn) error { return txErr }
			},
			wantErr: txErr,
		},
		{
			name:    "score failure",
			mutate:  func(f *fixture, cmd *battles.StartCommand) { f.scores.err = txErr },
			wantErr: txErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			cmd := validStart()
			tt.mutate(f, &cmd)

			_, err := f.svc.StartBattle(context.Background(), cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("StartBattle() error = %v, want %v", err, tt.wantErr)
			}
			if len(f.metrics.observed) != 0 {
				t.Errorf("metrics recorded for failed battle: %+v", f.metrics.observed)
			}
		})
	}
}

func TestService_Simulate(t *testing.T) {
	f := newFixture()
	teams := fixtureTeams()

	res, err := f.svc.Simulate(context.Background(), battles.SimulateCommand{
		Attacker: combat.Roster{OwnerID: "alice", Units: teams.teams["team-a"].Units},
		Defender: combat.Roster{OwnerID: "bob", Units: teams.teams["team-b"].Units},
	})
	if err != nil {
		t.Fatalf("Simulate() unexpected error: %v", err)
	}
	if res.Result.Outcome != combat.OutcomeAttackerWin || res.RatingDelta != 21 {
		t.Errorf("Simulate() = %+v, delta %d", res.Result, res.RatingDelta)
	}
	if f.tx.calls != 0 || len(f.saved) != 0 {
		t.Error("Simulate() persisted state")
	}

	res, err = f.svc.Simulate(context.Background(), battles.SimulateCommand{
		Attacker: combat.Roster{OwnerID: "alice", Units: []roster.Unit{{ID: "w", Name: "Wall", Stats: roster.Stats{MaxHP: 500, Defense: 9}}}},
		Defender: combat.Roster{OwnerID: "bob", Units: []roster.Unit{{ID: "r", Name: "Rock", Stats: roster.Stats{MaxHP: 500, Defense: 9}}}},
		TurnCap:  4,
	})
	if err != nil {
		t.Fatalf("Simulate() unexpected error: %v", err)
	}
	if res.Result.Outcome != combat.OutcomeDraw || res.Result.TotalTurns != 4 {
		t.Errorf("Simulate() capped = %s after %d turns", res.Result.Outcome, res.Result.TotalTurns)
	}

	_, err = f.svc.Simulate(context.Background(), battles.SimulateCommand{})
	if !errors.Is(err, combat.ErrInvalidRoster) {
		t.Errorf("Simulate() error = %v, want %v", err, combat.ErrInvalidRoster)
	}
}

func TestService_SimulateClampsTurnCap(t *testing.T) {
	f := newFixture()
	f.svc.TurnCap = 10
	walls := func(owner shared.PlayerID, id shared.UnitID) combat.Roster {
		return combat.Roster{OwnerID: owner, Units: []roster.Unit{{ID: id, Name: "Wall", Stats: roster.Stats{MaxHP: 500, Defense: 50}}}}
	}

	res, err := f.svc.Simulate(context.Background(), battles.SimulateCommand{
		Attacker: walls("alice", "w1"),
		Defender: walls("bob", "w2"),
		TurnCap:  200000,
	})
	if err != nil {
		t.Fatalf("Simulate() unexpected error: %v", err)
	}
	if res.Result.Outcome != combat.OutcomeDraw || res.Result.TotalTurns != 10 {
		t.Errorf("Simulate() = %s after %d turns, want draw after 10", res.Result.Outcome, res.Result.TotalTurns)
	}
	if len(res.Result.Turns) != 20 {
		t.Errorf("len(Turns) = %d, want 20", len(res.Result.Turns))
	}
}

func TestService_ListTurns(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.ListTurns(context.Background(), "missing"); !errors.Is(err, battle.ErrBattleNotFound) {
		t.Errorf("ListTurns() error = %v, want %v", err, battle.ErrBattleNotFound)
	}

	f.battles.getFunc = func(ctx context.Context, id shared.BattleID) (*battle.Record, error) {
		return &battle.Record{ID: id}, nil
	}
	f.battles.listTurnsFunc = func(ctx context.Context, id shared.BattleID) ([]battle.Turn, error) {
		return []battle.Turn{{BattleID: id}, {BattleID: id}}, nil
	}
	turns, err := f.svc.ListTurns(context.Background(), "battle-1")
	if err != nil {
		t.Fatalf("ListTurns() unexpected error: %v", err)
	}
	if len(turns) != 2 {
		t.Errorf("ListTurns() len = %d, want 2", len(turns))
	}
}

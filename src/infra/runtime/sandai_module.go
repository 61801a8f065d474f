package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
)

const (
	rpcBattleSimulate = "sandai_battle_simulate"

	// gRPC status codes surfaced to Nakama clients.
	codeInvalidArgument = 3
	codeInternal        = 13
)

// InitModule is the entrypoint for the Sand-ai Nakama runtime extension.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(rpcBattleSimulate, rpcSimulate); err != nil {
		return err
	}
	if err := initializer.RegisterBeforeWriteLeaderboardRecord(beforeWriteLeaderboardRecord); err != nil {
		return err
	}
	logger.Info("Sand-ai runtime module registered")
	return nil
}

var marshalMetadata = json.Marshal

type simulateRequest struct {
	Attacker combat.Roster `json:"attacker"`
	Defender combat.Roster `json:"defender"`
	TurnCap  int           `json:"turn_cap"`
}

type simulateResponse struct {
	*combat.Result
	RatingDelta int `json:"rating_delta"`
}

func rpcSimulate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req simulateRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("malformed simulate payload", codeInvalidArgument)
	}
	turnCap := combat.DefaultTurnCap
	if req.TurnCap > 0 {
		turnCap = min(req.TurnCap, combat.DefaultTurnCap)
	}
	result, err := combat.Simulate(req.Attacker, req.Defender, combat.WithTurnCap(turnCap))
	if err != nil {
		if errors.Is(err, combat.ErrInvalidRoster) {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		logger.Error("simulate failed: %v", err)
		return "", runtime.NewError("simulation failed", codeInternal)
	}
	out, err := json.Marshal(simulateResponse{
		Result:      result,
		RatingDelta: leaderboard.RatingDelta(result.TotalTurns, leaderboard.TeamPower(req.Attacker.Units), leaderboard.TeamPower(req.Defender.Units)),
	})
	if err != nil {
		return "", runtime.NewError("encode result", codeInternal)
	}
	logger.WithField("outcome", result.Outcome).Debug("battle simulated in %d turns", result.TotalTurns)
	return string(out), nil
}

// beforeWriteLeaderboardRecord only accepts non-negative ratings and
// stamps records that arrive without metadata.
func beforeWriteLeaderboardRecord(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, in *api.WriteLeaderboardRecordRequest) (*api.WriteLeaderboardRecordRequest, error) {
	if in.Record == nil {
		return nil, runtime.NewError("missing leaderboard record", codeInvalidArgument)
	}
	if in.Record.Score < 0 {
		return nil, runtime.NewError("rating cannot be negative", codeInvalidArgument)
	}
	if in.Record.Metadata == "" {
		metadata := map[string]any{"validated_at": time.Now().UTC()}
		payload, err := marshalMetadata(metadata)
		if err != nil {
			logger.Error("encode leaderboard metadata: %v", err)
			return nil, runtime.NewError("encode leaderboard metadata", codeInternal)
		}
		in.Record.Metadata = string(payload)
	}
	return in, nil
}

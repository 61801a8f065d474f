package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bryanwahyu/sandai/src/app/battles"
	"github.com/bryanwahyu/sandai/src/app/teams"
	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

type RegisterTeamRequest struct {
	TeamID      string        `json:"team_id"`
	OwnerID     string        `json:"owner_id"`
	DisplayName string        `json:"display_name"`
	Name        string        `json:"name"`
	Units       []roster.Unit `json:"units"`
}

type TeamResponse struct {
	TeamID    string        `json:"team_id"`
	OwnerID   string        `json:"owner_id"`
	Name      string        `json:"name"`
	Units     []roster.Unit `json:"units"`
	CreatedAt time.Time     `json:"created_at"`
}

func teamResponse(team *roster.Team) TeamResponse {
	return TeamResponse{
		TeamID:    string(team.ID),
		OwnerID:   string(team.OwnerID),
		Name:      team.Name,
		Units:     team.Units,
		CreatedAt: team.CreatedAt,
	}
}

func (s *Server) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req RegisterTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.cfg.TeamService.Register(r.Context(), teams.RegisterCommand{
		TeamID:      shared.TeamID(req.TeamID),
		OwnerID:     shared.PlayerID(req.OwnerID),
		DisplayName: req.DisplayName,
		Name:        req.Name,
		Units:       req.Units,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, teamResponse(result.Team))
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.cfg.TeamService.Get(r.Context(), shared.TeamID(mux.Vars(r)["id"]))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, teamResponse(team))
}

type StartBattleRequest struct {
	InitiatorID    string `json:"initiator_id"`
	AttackerTeamID string `json:"attacker_team_id"`
	DefenderTeamID string `json:"defender_team_id"`
	SeasonID       string `json:"season_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

type BattleResponse struct {
	BattleID       string                `json:"battle_id"`
	InitiatorID    string                `json:"initiator_id"`
	AttackerTeamID string                `json:"attacker_team_id"`
	DefenderTeamID string                `json:"defender_team_id"`
	SeasonID       string                `json:"season_id"`
	Outcome        combat.Outcome        `json:"outcome"`
	WinnerID       *shared.PlayerID      `json:"winner_id"`
	TotalTurns     int                   `json:"total_turns"`
	Survivors      combat.Survivors      `json:"survivors"`
	RatingDelta    int                   `json:"rating_delta"`
	FinalUnits     []combat.UnitState    `json:"units"`
	CreatedAt      time.Time             `json:"created_at"`
	Rating         *int                  `json:"rating,omitempty"`
	Replayed       bool                  `json:"replayed,omitempty"`
	Turns          []combat.TurnLogEntry `json:"turns,omitempty"`
}

func battleResponse(rec *battle.Record) BattleResponse {
	return BattleResponse{
		BattleID:       string(rec.ID),
		InitiatorID:    string(rec.Participants.InitiatorID),
		AttackerTeamID: string(rec.Participants.AttackerTeamID),
		DefenderTeamID: string(rec.Participants.DefenderTeamID),
		SeasonID:       string(rec.Participants.SeasonID),
		Outcome:        rec.Outcome,
		WinnerID:       rec.WinnerID,
		TotalTurns:     rec.TotalTurns,
		Survivors:      rec.Survivors,
		RatingDelta:    rec.RatingDelta,
		FinalUnits:     rec.FinalUnits,
		CreatedAt:      rec.CreatedAt,
	}
}

func (s *Server) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	var req StartBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}
	result, err := s.cfg.BattleService.StartBattle(r.Context(), battles.StartCommand{
		InitiatorID:    shared.PlayerID(req.InitiatorID),
		AttackerTeamID: shared.TeamID(req.AttackerTeamID),
		DefenderTeamID: shared.TeamID(req.DefenderTeamID),
		SeasonID:       shared.SeasonID(req.SeasonID),
		IdempotencyKey: shared.IdempotencyKey(req.IdempotencyKey),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := battleResponse(result.Battle)
	resp.Rating = &result.Rating
	resp.Replayed = result.Replayed
	resp.Turns = result.Turns
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.BattleService.GetBattle(r.Context(), shared.BattleID(mux.Vars(r)["id"]))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, battleResponse(rec))
}

type TurnsResponse struct {
	BattleID string                `json:"battle_id"`
	Turns    []combat.TurnLogEntry `json:"turns"`
}

func (s *Server) handleListTurns(w http.ResponseWriter, r *http.Request) {
	id := shared.BattleID(mux.Vars(r)["id"])
	turns, err := s.cfg.BattleService.ListTurns(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := TurnsResponse{BattleID: string(id), Turns: make([]combat.TurnLogEntry, 0, len(turns))}
	for _, t := range turns {
		resp.Turns = append(resp.Turns, t.TurnLogEntry)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type SimulateRequest struct {
	Attacker combat.Roster `json:"attacker"`
	Defender combat.Roster `json:"defender"`
	TurnCap  int           `json:"turn_cap"`
}

type SimulateResponse struct {
	*combat.Result
	RatingDelta int `json:"rating_delta"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.cfg.BattleService.Simulate(r.Context(), battles.SimulateCommand{
		Attacker: req.Attacker,
		Defender: req.Defender,
		TurnCap:  req.TurnCap,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SimulateResponse{Result: result.Result, RatingDelta: result.RatingDelta})
}

package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/bryanwahyu/sandai/src/app/battles"
	"github.com/bryanwahyu/sandai/src/app/teams"
	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/player"
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
	"github.com/bryanwahyu/sandai/src/infra/metrics"
)

type ServerConfig struct {
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	TeamService   *teams.Service
	BattleService *battles.Service
}

// Server wires HTTP endpoints to application services with observability instrumentation.
type Server struct {
	cfg     ServerConfig
	router  *mux.Router
	handler http.Handler
}

func NewServer(cfg ServerConfig) *Server {
	srv := &Server{cfg: cfg}
	srv.buildRouter()
	return srv
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) buildRouter() {
	r := mux.NewRouter()
	r.Use(s.correlationMiddleware)
	r.Use(s.observeMiddleware)

	apiRouter := r.PathPrefix("/v1").Subrouter()
	apiRouter.Handle("/teams", otelhttp.NewHandler(http.HandlerFunc(s.handleRegisterTeam), "RegisterTeam")).Methods(http.MethodPost)
	apiRouter.Handle("/teams/{id}", otelhttp.NewHandler(http.HandlerFunc(s.handleGetTeam), "GetTeam")).Methods(http.MethodGet)
	apiRouter.Handle("/battles", otelhttp.NewHandler(http.HandlerFunc(s.handleStartBattle), "StartBattle")).Methods(http.MethodPost)
	apiRouter.Handle("/battles/{id}", otelhttp.NewHandler(http.HandlerFunc(s.handleGetBattle), "GetBattle")).Methods(http.MethodGet)
	apiRouter.Handle("/battles/{id}/turns", otelhttp.NewHandler(http.HandlerFunc(s.handleListTurns), "ListBattleTurns")).Methods(http.MethodGet)
	apiRouter.Handle("/simulate", otelhttp.NewHandler(http.HandlerFunc(s.handleSimulate), "Simulate")).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	s.router = r

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.cfg.Logger.Named("recovery"))),
		handlers.PrintRecoveryStack(true),
	)
	s.handler = recovery(handlers.CompressHandler(r))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeServiceError maps domain errors onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", correlationIDFromContext(r.Context())),
			zap.Error(err),
		)
	}
	s.writeError(w, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, combat.ErrInvalidRoster),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, battle.ErrSameTeam),
		errors.Is(err, roster.ErrTeamEmpty),
		errors.Is(err, roster.ErrTeamTooLarge),
		errors.Is(err, roster.ErrDuplicateUnit),
		errors.Is(err, roster.ErrUnitNameRequired),
		errors.Is(err, roster.ErrUnknownRarity),
		errors.Is(err, roster.ErrInvalidStats):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound),
		errors.Is(err, roster.ErrTeamNotFound),
		errors.Is(err, battle.ErrBattleNotFound),
		errors.Is(err, player.ErrPlayerNotFound),
		errors.Is(err, leaderboard.ErrScoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, player.ErrAccountSuspended),
		errors.Is(err, battles.ErrNotTeamOwner):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrDuplicate),
		errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/sandai/src/app/battles"
	"github.com/bryanwahyu/sandai/src/domain/battle"
	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/player"
	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/infra/config"
	"github.com/bryanwahyu/sandai/src/infra/memory"
	"github.com/bryanwahyu/sandai/src/infra/sqlstore"
)

// store is the full repository set one backend provides.
type store interface {
	roster.Repository
	player.Repository
	battle.Repository
	leaderboard.Repository
	battles.UnitOfWork
}

var (
	_ store = (*memory.Store)(nil)
	_ store = (*sqlstore.Store)(nil)
)

func openStore(ctx context.Context, cfg config.Config) (store, func() error, error) {
	switch strings.ToLower(cfg.Store) {
	case config.StoreMemory:
		return memory.NewStore(), func() error { return nil }, nil
	case config.StoreSQLite:
		st, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case config.StorePostgres:
		st, err := sqlstore.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

package cli

import (
	"context"
	"database/sql"
	"fmt"

	"SearchAPI/internal/config"
	"SearchAPI/internal/db"
	"SearchAPI/internal/registry"
	"SearchAPI/internal/search"
	"SearchAPI/internal/sqlbuild"
	"SearchAPI/internal/store"
	"SearchAPI/internal/store/pgstore"
	"SearchAPI/internal/store/sqlstore"
)

// loadRegistry reads the whitelists from the configured source.
func loadRegistry(ctx context.Context, cfg *config.Config) (*registry.Registry, error) {
	switch cfg.Whitelists.Source {
	case config.WhitelistSourceFile:
		return registry.LoadDir(cfg.Whitelists.Dir)
	case config.WhitelistSourceRedis:
		db.InitRedis(cfg.Whitelists.RedisAddr)
		defer func() { _ = db.CloseRedis() }()
		return registry.LoadRedis(ctx, db.RDB, cfg.Whitelists.RedisKey)
	}
	return nil, fmt.Errorf("unknown whitelist source %q", cfg.Whitelists.Source)
}

// openBackend connects the configured database and returns a factory that
// builds one store per entity, plus the function releasing the connection.
func openBackend(cfg *config.Config) (search.BackendFactory[store.Row], func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		if err := db.InitPostgres(cfg.PostgresDSN); err != nil {
			return nil, nil, err
		}
		pool := db.Pool
		factory := func(e *registry.Entity) search.Backend[store.Row] {
			return pgstore.New(pool, e)
		}
		return factory, db.ClosePostgres, nil

	case config.BackendSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqliteFactory(conn), func() { _ = conn.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func sqliteFactory(conn *sql.DB) search.BackendFactory[store.Row] {
	return func(e *registry.Entity) search.Backend[store.Row] {
		return sqlstore.New(conn, sqlbuild.SQLite, e)
	}
}

func dialectOf(cfg *config.Config) (sqlbuild.Dialect, error) {
	return sqlbuild.ParseDialect(cfg.Backend)
}

// Package database manages the SurrealDB connection used by the analytics
// sink. The connection is entirely optional: the site renders without it and
// the analytics collector degrades to logging.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"

	"github.com/halcyonlabs/halcyon/internal/config"
)

// NewDB connects, signs in, and selects the analytics namespace/database.
func NewDB(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetAnalyticsDBURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: cfg.GetAnalyticsDBUser(),
		Password: cfg.GetAnalyticsDBPass(),
	}

	if _, err = db.SignIn(ctx, authData); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if err = db.Use(ctx, cfg.GetAnalyticsDBNs(), cfg.GetAnalyticsDBName()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}

	slog.Info("connected to analytics database",
		"ns", cfg.GetAnalyticsDBNs(), "db", cfg.GetAnalyticsDBName())
	return db, nil
}

// Query executes a SurrealQL query and unmarshals the first statement's rows
// into []T.
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	queryResults, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	if len(*queryResults) == 0 {
		return nil, nil
	}
	return (*queryResults)[0].Result, nil
}

// Execute runs a statement whose rows we do not care about.
func Execute(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) error {
	if _, err := surrealdb.Query[any](ctx, db, query, params); err != nil {
		return fmt.Errorf("query execution failed: %w", err)
	}
	return nil
}

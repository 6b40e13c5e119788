// Package store persists the run ledger: one row of operational metadata per
// pipeline invocation plus its degradation annotations. Result rows are
// never persisted; exports own those.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/kioskworks/sitescout/internal/config"
	"github.com/kioskworks/sitescout/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store is the run-ledger persistence interface.
type Store interface {
	CreateRun(ctx context.Context, source string, zipCount int) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, summary *model.Summary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	AddDegradations(ctx context.Context, runID string, degs []model.Degradation) error
	ListDegradations(ctx context.Context, runID string) ([]model.Degradation, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the configured ledger backend. Driver "sqlite" is the
// default; "postgres" expects a pgx-compatible database URL.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	}
	return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
}

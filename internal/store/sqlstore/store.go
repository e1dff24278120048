package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/explorationlab/explorations/internal/store"
	"github.com/explorationlab/explorations/internal/store/sqlstore/migrations"
)

// Cleaner empties every model table.
type Cleaner struct {
	db QueryInterceptor
}

func (c Cleaner) DeleteAll(ctx context.Context) error {
	for _, table := range tables {
		if _, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to empty %s: %w", table, err)
		}
	}
	return nil
}

// New runs the migrations on db and returns a store backed by it.
// Closing the store closes db.
func New(ctx context.Context, db *sql.DB) (*store.Store, error) {
	if err := migrations.Run(ctx, db); err != nil {
		return nil, err
	}

	qi := NewQueryInterceptor(db)
	return store.NewStore(
		NewExplorationStore(qi),
		NewConfigPropertyStore(qi),
		NewUserStore(qi),
		Cleaner{db: qi},
		db.Close,
	), nil
}

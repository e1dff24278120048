package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/explorationlab/explorations/internal/models"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

// ConfigPropertyStore handles config property storage using DuckDB.
type ConfigPropertyStore struct {
	db QueryInterceptor
}

// NewConfigPropertyStore creates a new config property store.
func NewConfigPropertyStore(db QueryInterceptor) *ConfigPropertyStore {
	return &ConfigPropertyStore{db: db}
}

// Get retrieves the stored value of a property.
func (s *ConfigPropertyStore) Get(ctx context.Context, name models.ConfigPropertyName) ([]string, error) {
	row := s.db.QueryRowContext(ctx, queryGetConfigProperty, string(name))

	var raw string
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewConfigPropertyNotFoundError(string(name))
	}
	if err != nil {
		return nil, err
	}

	var value []string
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	return value, nil
}

// Save stores or updates a property.
func (s *ConfigPropertyStore) Save(ctx context.Context, name models.ConfigPropertyName, value []string) error {
	if value == nil {
		value = []string{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, queryUpsertConfigProperty, string(name), string(raw))
	return err
}

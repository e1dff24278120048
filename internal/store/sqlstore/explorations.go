package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/store"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

var explorationColumns = []string{
	"id",
	"owner_id",
	"title",
	"category",
	"objective",
	"init_state_name",
	"states",
	"version",
	"published",
	"indexed",
	"created_at",
	"updated_at",
}

// ExplorationStore keeps explorations in DuckDB. States are stored as JSON.
type ExplorationStore struct {
	db QueryInterceptor
}

func NewExplorationStore(db QueryInterceptor) *ExplorationStore {
	return &ExplorationStore{db: db}
}

func (s *ExplorationStore) Get(ctx context.Context, id string) (*models.Exploration, error) {
	query, args, err := sq.Select(explorationColumns...).
		From("explorations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	exp, err := scanExploration(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewExplorationNotFoundError(id)
	}
	return exp, err
}

func (s *ExplorationStore) Save(ctx context.Context, exp *models.Exploration) error {
	states, err := json.Marshal(exp.States)
	if err != nil {
		return fmt.Errorf("failed to encode states of exploration %s: %w", exp.ID, err)
	}

	_, err = s.db.ExecContext(ctx, queryUpsertExploration,
		exp.ID,
		exp.OwnerID,
		exp.Title,
		exp.Category,
		exp.Objective,
		exp.InitStateName,
		string(states),
		exp.Version,
		exp.Published,
		exp.Indexed,
		exp.CreatedAt,
		exp.UpdatedAt,
	)
	return err
}

func (s *ExplorationStore) List(ctx context.Context, opts ...store.ListOption) ([]*models.Exploration, error) {
	f := store.NewListFilter(opts...)

	builder := sq.Select(explorationColumns...).
		From("explorations").
		OrderBy("created_at", "id")
	if f.OwnerID != "" {
		builder = builder.Where(sq.Eq{"owner_id": f.OwnerID})
	}
	if f.Published != nil {
		builder = builder.Where(sq.Eq{"published": *f.Published})
	}
	if f.Limit > 0 {
		builder = builder.Limit(f.Limit)
	}
	if f.Offset > 0 {
		builder = builder.Offset(f.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exps []*models.Exploration
	for rows.Next() {
		exp, err := scanExploration(rows)
		if err != nil {
			return nil, err
		}
		exps = append(exps, exp)
	}
	return exps, rows.Err()
}

func (s *ExplorationStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, queryDeleteExploration, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExploration(row rowScanner) (*models.Exploration, error) {
	var (
		exp    models.Exploration
		states string
	)
	err := row.Scan(
		&exp.ID,
		&exp.OwnerID,
		&exp.Title,
		&exp.Category,
		&exp.Objective,
		&exp.InitStateName,
		&states,
		&exp.Version,
		&exp.Published,
		&exp.Indexed,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(states), &exp.States); err != nil {
		return nil, fmt.Errorf("failed to decode states of exploration %s: %w", exp.ID, err)
	}
	return &exp, nil
}

package store

import (
	"context"

	"github.com/explorationlab/explorations/internal/models"
)

// ExplorationStore persists explorations.
type ExplorationStore interface {
	Get(ctx context.Context, id string) (*models.Exploration, error)
	Save(ctx context.Context, exp *models.Exploration) error
	List(ctx context.Context, opts ...ListOption) ([]*models.Exploration, error)
	Delete(ctx context.Context, id string) error
}

// ConfigPropertyStore persists site-wide config property values.
type ConfigPropertyStore interface {
	Get(ctx context.Context, name models.ConfigPropertyName) ([]string, error)
	Save(ctx context.Context, name models.ConfigPropertyName, value []string) error
}

// UserStore persists user settings.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	GetByUsername(ctx context.Context, username string) (*models.UserSettings, error)
	Save(ctx context.Context, settings *models.UserSettings) error
}

// Cleaner removes every stored record. Backends use it between tests.
type Cleaner interface {
	DeleteAll(ctx context.Context) error
}

// Store provides access to all storage repositories.
type Store struct {
	explorations ExplorationStore
	config       ConfigPropertyStore
	users        UserStore
	cleaner      Cleaner
	closeFn      func() error
}

func NewStore(explorations ExplorationStore, config ConfigPropertyStore, users UserStore, cleaner Cleaner, closeFn func() error) *Store {
	return &Store{
		explorations: explorations,
		config:       config,
		users:        users,
		cleaner:      cleaner,
		closeFn:      closeFn,
	}
}

func (s *Store) Exploration() ExplorationStore {
	return s.explorations
}

func (s *Store) ConfigProperty() ConfigPropertyStore {
	return s.config
}

func (s *Store) User() UserStore {
	return s.users
}

// DeleteAll removes every record of every kind.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.cleaner.DeleteAll(ctx)
}

func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// ListFilter is the backend-neutral form of the list options.
type ListFilter struct {
	OwnerID   string
	Published *bool
	Limit     uint64
	Offset    uint64
}

type ListOption func(*ListFilter)

func ByOwner(ownerID string) ListOption {
	return func(f *ListFilter) {
		f.OwnerID = ownerID
	}
}

func ByPublished(published bool) ListOption {
	return func(f *ListFilter) {
		f.Published = &published
	}
}

func WithLimit(limit uint64) ListOption {
	return func(f *ListFilter) {
		f.Limit = limit
	}
}

func WithOffset(offset uint64) ListOption {
	return func(f *ListFilter) {
		f.Offset = offset
	}
}

// NewListFilter applies the options to an empty filter.
func NewListFilter(opts ...ListOption) ListFilter {
	var f ListFilter
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

package gaestore

import (
	"context"
	"errors"
	"sort"

	ds "go.chromium.org/luci/gae/service/datastore"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/store"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

// ExplorationStore keeps explorations in the App Engine datastore.
type ExplorationStore struct{}

func NewExplorationStore() *ExplorationStore {
	return &ExplorationStore{}
}

func (s *ExplorationStore) Get(ctx context.Context, id string) (*models.Exploration, error) {
	e := &explorationEntity{ID: id}
	if err := ds.Get(ctx, e); err != nil {
		if errors.Is(err, ds.ErrNoSuchEntity) {
			return nil, srvErrors.NewExplorationNotFoundError(id)
		}
		return nil, err
	}
	return e.toModel()
}

func (s *ExplorationStore) Save(ctx context.Context, exp *models.Exploration) error {
	e, err := newExplorationEntity(exp)
	if err != nil {
		return err
	}
	return ds.Put(ctx, e)
}

func (s *ExplorationStore) List(ctx context.Context, opts ...store.ListOption) ([]*models.Exploration, error) {
	f := store.NewListFilter(opts...)

	q := ds.NewQuery(explorationKind)
	if f.OwnerID != "" {
		q = q.Eq("OwnerID", f.OwnerID)
	}
	if f.Published != nil {
		q = q.Eq("Published", *f.Published)
	}

	var entities []*explorationEntity
	if err := ds.GetAll(ctx, q, &entities); err != nil {
		return nil, err
	}

	// Ordering is done here so no composite index is needed.
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Created.Equal(entities[j].Created) {
			return entities[i].ID < entities[j].ID
		}
		return entities[i].Created.Before(entities[j].Created)
	})

	entities = page(entities, f.Offset, f.Limit)

	exps := make([]*models.Exploration, 0, len(entities))
	for _, e := range entities {
		exp, err := e.toModel()
		if err != nil {
			return nil, err
		}
		exps = append(exps, exp)
	}
	return exps, nil
}

func (s *ExplorationStore) Delete(ctx context.Context, id string) error {
	return ds.Delete(ctx, &explorationEntity{ID: id})
}

func page[T any](items []T, offset, limit uint64) []T {
	if offset >= uint64(len(items)) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < uint64(len(items)) {
		items = items[:limit]
	}
	return items
}

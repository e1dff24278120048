package gaestore

import (
	"context"
	"fmt"

	ds "go.chromium.org/luci/gae/service/datastore"
	mc "go.chromium.org/luci/gae/service/memcache"

	"github.com/explorationlab/explorations/internal/store"
)

// Cleaner deletes every entity of every kind this package writes and
// flushes memcache.
type Cleaner struct{}

func (Cleaner) DeleteAll(ctx context.Context) error {
	for _, kind := range kinds {
		var keys []*ds.Key
		if err := ds.GetAll(ctx, ds.NewQuery(kind).KeysOnly(true), &keys); err != nil {
			return fmt.Errorf("failed to list %s keys: %w", kind, err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := ds.Delete(ctx, keys); err != nil {
			return fmt.Errorf("failed to delete %s entities: %w", kind, err)
		}
	}
	if err := mc.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush memcache: %w", err)
	}
	return nil
}

// New returns a store whose operations must be called with a context that
// carries a datastore and memcache implementation.
func New() *store.Store {
	return store.NewStore(
		NewExplorationStore(),
		NewConfigPropertyStore(),
		NewUserStore(),
		Cleaner{},
		nil,
	)
}

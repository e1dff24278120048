package gaestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.chromium.org/luci/common/clock"
	ds "go.chromium.org/luci/gae/service/datastore"
	mc "go.chromium.org/luci/gae/service/memcache"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/models"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

// ConfigPropertyStore reads through memcache and writes to the datastore.
type ConfigPropertyStore struct{}

func NewConfigPropertyStore() *ConfigPropertyStore {
	return &ConfigPropertyStore{}
}

func (s *ConfigPropertyStore) Get(ctx context.Context, name models.ConfigPropertyName) ([]string, error) {
	key := cacheKey(name)

	item, err := mc.GetKey(ctx, key)
	switch {
	case err == nil:
		var value []string
		if err := json.Unmarshal(item.Value(), &value); err == nil {
			return value, nil
		}
	case !errors.Is(err, mc.ErrCacheMiss):
		zap.S().Named("config_store").Warnw("memcache read failed", "key", key, "error", err)
	}

	e := &configPropertyEntity{Name: string(name)}
	if err := ds.Get(ctx, e); err != nil {
		if errors.Is(err, ds.ErrNoSuchEntity) {
			return nil, srvErrors.NewConfigPropertyNotFoundError(string(name))
		}
		return nil, err
	}

	value := e.Value
	if value == nil {
		value = []string{}
	}
	if raw, err := json.Marshal(value); err == nil {
		if err := mc.Set(ctx, mc.NewItem(ctx, key).SetValue(raw)); err != nil {
			zap.S().Named("config_store").Warnw("memcache write failed", "key", key, "error", err)
		}
	}
	return value, nil
}

func (s *ConfigPropertyStore) Save(ctx context.Context, name models.ConfigPropertyName, value []string) error {
	e := &configPropertyEntity{
		Name:    string(name),
		Value:   value,
		Updated: clock.Now(ctx).UTC().Truncate(time.Microsecond),
	}
	if err := ds.Put(ctx, e); err != nil {
		return err
	}
	if err := mc.Delete(ctx, cacheKey(name)); err != nil && !errors.Is(err, mc.ErrCacheMiss) {
		return err
	}
	return nil
}

func cacheKey(name models.ConfigPropertyName) string {
	return "config_property:" + string(name)
}

package gaestore

import (
	"context"
	"errors"
	"strings"

	ds "go.chromium.org/luci/gae/service/datastore"

	"github.com/explorationlab/explorations/internal/models"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

type UserStore struct{}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	e := &userSettingsEntity{UserID: userID}
	if err := ds.Get(ctx, e); err != nil {
		if errors.Is(err, ds.ErrNoSuchEntity) {
			return nil, srvErrors.NewUserNotFoundError(userID)
		}
		return nil, err
	}
	return e.toModel(), nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.UserSettings, error) {
	q := ds.NewQuery(userSettingsKind).Eq("NormalizedUsername", strings.ToLower(username)).Limit(1)

	var entities []*userSettingsEntity
	if err := ds.GetAll(ctx, q, &entities); err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, srvErrors.NewUserNotFoundError(username)
	}
	return entities[0].toModel(), nil
}

func (s *UserStore) Save(ctx context.Context, u *models.UserSettings) error {
	return ds.Put(ctx, newUserSettingsEntity(u))
}

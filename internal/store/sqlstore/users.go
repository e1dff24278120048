package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/explorationlab/explorations/internal/models"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

type UserStore struct {
	db QueryInterceptor
}

func NewUserStore(db QueryInterceptor) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	return s.getBy(ctx, sq.Eq{"user_id": userID}, userID)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.UserSettings, error) {
	return s.getBy(ctx, sq.Eq{"lower(username)": strings.ToLower(username)}, username)
}

func (s *UserStore) Save(ctx context.Context, u *models.UserSettings) error {
	_, err := s.db.ExecContext(ctx, queryUpsertUserSettings,
		u.UserID,
		u.Email,
		u.Username,
		u.AgreedToTerms,
		u.RegisteredAt,
	)
	return err
}

func (s *UserStore) getBy(ctx context.Context, where sq.Eq, key string) (*models.UserSettings, error) {
	query, args, err := sq.Select("user_id", "email", "username", "agreed_to_terms", "registered_at").
		From("user_settings").
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u models.UserSettings
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.UserID,
		&u.Email,
		&u.Username,
		&u.AgreedToTerms,
		&u.RegisteredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewUserNotFoundError(key)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

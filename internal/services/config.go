package services

import (
	"context"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/store"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

type ConfigService struct {
	store *store.Store
}

func NewConfigService(st *store.Store) *ConfigService {
	return &ConfigService{store: st}
}

// Get returns the value of a property; properties never saved are empty.
func (s *ConfigService) Get(ctx context.Context, name models.ConfigPropertyName) ([]string, error) {
	if !name.Valid() {
		return nil, srvErrors.NewConfigPropertyNotFoundError(string(name))
	}
	value, err := s.store.ConfigProperty().Get(ctx, name)
	if err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return value, nil
}

// All returns every known property with its current value, sorted by name.
func (s *ConfigService) All(ctx context.Context) ([]models.ConfigProperty, error) {
	props := make([]models.ConfigProperty, 0, len(models.ConfigPropertyDescriptions))
	for name, desc := range models.ConfigPropertyDescriptions {
		value, err := s.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		props = append(props, models.ConfigProperty{Name: name, Description: desc, Value: value})
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
	return props, nil
}

// SetProperties saves every property in values. Nothing is saved when one of
// the names is unknown.
func (s *ConfigService) SetProperties(ctx context.Context, values map[string][]string) error {
	for name := range values {
		if !models.ConfigPropertyName(name).Valid() {
			return srvErrors.NewValidationError("unknown config property %q", name)
		}
	}
	for name, value := range values {
		cleaned := make([]string, 0, len(value))
		for _, v := range value {
			if v = strings.TrimSpace(v); v != "" {
				cleaned = append(cleaned, v)
			}
		}
		if err := s.store.ConfigProperty().Save(ctx, models.ConfigPropertyName(name), cleaned); err != nil {
			return err
		}
		zap.S().Named("config_service").Infow("config property saved", "name", name, "value", cleaned)
	}
	return nil
}

// IsAdmin reports whether id is a super admin or listed in admin_emails.
func (s *ConfigService) IsAdmin(ctx context.Context, id models.Identity) (bool, error) {
	if id.IsSuperAdmin {
		return true, nil
	}
	if id.IsAnonymous() {
		return false, nil
	}
	return s.listed(ctx, models.AdminEmails, id.Email)
}

func (s *ConfigService) IsModerator(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	return s.listed(ctx, models.ModeratorEmails, email)
}

func (s *ConfigService) IsBanned(ctx context.Context, username string) (bool, error) {
	return s.listed(ctx, models.BannedUsernames, username)
}

func (s *ConfigService) listed(ctx context.Context, name models.ConfigPropertyName, v string) (bool, error) {
	values, err := s.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(values, func(e string) bool {
		return strings.EqualFold(e, v)
	}), nil
}

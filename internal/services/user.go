package services

import (
	"context"
	"fmt"
	"regexp"

	"go.chromium.org/luci/common/clock"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/mail"
	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/store"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

const maxUsernameLength = 50

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

type UserService struct {
	store  *store.Store
	config *ConfigService
	mailer mail.Mailer
	clock  clock.Clock
	sender string
}

func NewUserService(st *store.Store, config *ConfigService, mailer mail.Mailer, clk clock.Clock, sender string) *UserService {
	return &UserService{store: st, config: config, mailer: mailer, clock: clk, sender: sender}
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	return s.store.User().Get(ctx, userID)
}

func (s *UserService) IsRegistered(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if _, err := s.store.User().Get(ctx, userID); err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Register makes the caller an editor under username and sends a welcome mail.
func (s *UserService) Register(ctx context.Context, id models.Identity, username string, agreedToTerms bool) (*models.UserSettings, error) {
	if id.IsAnonymous() {
		return nil, srvErrors.NewUnauthorizedError()
	}
	if !agreedToTerms {
		return nil, srvErrors.NewValidationError("you must agree to the terms of use")
	}
	if err := s.validateUsername(ctx, id.UserID, username); err != nil {
		return nil, err
	}

	settings := &models.UserSettings{
		UserID:        id.UserID,
		Email:         id.Email,
		Username:      username,
		AgreedToTerms: true,
		RegisteredAt:  s.clock.Now().UTC(),
	}
	if existing, err := s.store.User().Get(ctx, id.UserID); err == nil {
		settings.RegisteredAt = existing.RegisteredAt
	}

	if err := s.store.User().Save(ctx, settings); err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, models.MailMessage{
		Sender:  s.sender,
		To:      []string{id.Email},
		Subject: "Welcome to Explorations",
		Body:    fmt.Sprintf("Hi %s,\n\nyou can now create explorations.\n", username),
	}); err != nil {
		zap.S().Named("user_service").Warnw("failed to send welcome mail", "user", id.UserID, "error", err)
	}

	zap.S().Named("user_service").Infow("editor registered", "user", id.UserID, "username", username)
	return settings, nil
}

func (s *UserService) validateUsername(ctx context.Context, userID, username string) error {
	switch {
	case username == "":
		return srvErrors.NewValidationError("empty username")
	case len(username) > maxUsernameLength:
		return srvErrors.NewValidationError("username can have at most %d characters", maxUsernameLength)
	case !usernamePattern.MatchString(username):
		return srvErrors.NewValidationError("username can only have alphanumeric characters")
	}

	banned, err := s.config.IsBanned(ctx, username)
	if err != nil {
		return err
	}
	if banned {
		return srvErrors.NewValidationError("username %q is not allowed", username)
	}

	other, err := s.store.User().GetByUsername(ctx, username)
	switch {
	case err == nil && other.UserID != userID:
		return srvErrors.NewValidationError("username %q is already taken", username)
	case err != nil && !srvErrors.IsResourceNotFoundError(err):
		return err
	}
	return nil
}

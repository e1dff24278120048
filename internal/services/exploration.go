package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.chromium.org/luci/common/clock"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/explorationlab/explorations/internal/deferred"
	"github.com/explorationlab/explorations/internal/mail"
	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/queue"
	"github.com/explorationlab/explorations/internal/store"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

const (
	SearchQueue        = "search"
	NotificationsQueue = "notifications"

	IndexExplorationPath = "/tasks/index_exploration"

	// NotifyModeratorsFunc is the deferred function run after a publish.
	NotifyModeratorsFunc = "notify_moderators"

	maxImportSize = 1 << 20
)

// IndexRequest is the payload of an index task.
type IndexRequest struct {
	ExplorationID string `json:"exploration_id"`
}

type notifyArgs struct {
	ExplorationID string `json:"exploration_id"`
	Title         string `json:"title"`
}

type ExplorationService struct {
	store    *store.Store
	queue    queue.TaskQueue
	deferred *deferred.Registry
	config   *ConfigService
	mailer   mail.Mailer
	client   *http.Client
	clock    clock.Clock
	sender   string
}

type ExplorationServiceDeps struct {
	Store      *store.Store
	Queue      queue.TaskQueue
	Deferred   *deferred.Registry
	Config     *ConfigService
	Mailer     mail.Mailer
	HTTPClient *http.Client
	Clock      clock.Clock
	Sender     string
}

// NewExplorationService also registers the service's deferred functions.
func NewExplorationService(deps ExplorationServiceDeps) *ExplorationService {
	s := &ExplorationService{
		store:    deps.Store,
		queue:    deps.Queue,
		deferred: deps.Deferred,
		config:   deps.Config,
		mailer:   deps.Mailer,
		client:   deps.HTTPClient,
		clock:    deps.Clock,
		sender:   deps.Sender,
	}
	s.deferred.Register(NotifyModeratorsFunc, s.notifyModerators)
	return s
}

func (s *ExplorationService) Get(ctx context.Context, id string) (*models.Exploration, error) {
	return s.store.Exploration().Get(ctx, id)
}

func (s *ExplorationService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Exploration, error) {
	return s.store.Exploration().List(ctx, store.ByOwner(ownerID))
}

// SaveNew stores exp as version 1 owned by ownerID. exp is updated in place.
func (s *ExplorationService) SaveNew(ctx context.Context, ownerID string, exp *models.Exploration) error {
	if err := exp.Validate(false); err != nil {
		return err
	}

	if _, err := s.store.Exploration().Get(ctx, exp.ID); err == nil {
		return srvErrors.NewValidationError("exploration %q already exists", exp.ID)
	} else if !srvErrors.IsResourceNotFoundError(err) {
		return err
	}

	now := s.now()
	exp.OwnerID = ownerID
	exp.Version = 1
	exp.CreatedAt = now
	exp.UpdatedAt = now

	if err := s.store.Exploration().Save(ctx, exp); err != nil {
		return err
	}
	zap.S().Named("exploration_service").Infow("exploration created", "id", exp.ID, "owner", ownerID)
	return nil
}

// Save stores changes made to an existing exploration and bumps its version.
func (s *ExplorationService) Save(ctx context.Context, exp *models.Exploration) error {
	if err := exp.Validate(false); err != nil {
		return err
	}
	exp.Version++
	exp.UpdatedAt = s.now()
	return s.store.Exploration().Save(ctx, exp)
}

// CanEdit reports whether id may change the exploration.
func (s *ExplorationService) CanEdit(ctx context.Context, id models.Identity, exp *models.Exploration) (bool, error) {
	if id.IsAnonymous() {
		return false, nil
	}
	if exp.OwnerID == id.UserID {
		return true, nil
	}
	if admin, err := s.config.IsAdmin(ctx, id); err != nil || admin {
		return admin, err
	}
	return s.config.IsModerator(ctx, id.Email)
}

// Update applies changes to the exploration when version is current.
func (s *ExplorationService) Update(ctx context.Context, caller models.Identity, id string, version int64, changes models.ExplorationChanges) (*models.Exploration, error) {
	exp, err := s.store.Exploration().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.CanEdit(ctx, caller, exp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, srvErrors.NewForbiddenError(fmt.Sprintf("you cannot edit exploration %s", id))
	}

	if exp.Version != version {
		return nil, srvErrors.NewVersionMismatchError(id, version, exp.Version)
	}

	if changes.Title != nil {
		exp.Title = *changes.Title
	}
	if changes.Category != nil {
		exp.Category = *changes.Category
	}
	if changes.Objective != nil {
		exp.Objective = *changes.Objective
	}

	if err := s.Save(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// Publish makes the exploration public. It must pass strict validation.
// Indexing and the moderator notice run later on their queues. They are
// scheduled before the exploration is saved as published, so a publish that
// failed half way can be retried.
func (s *ExplorationService) Publish(ctx context.Context, caller models.Identity, id string) (*models.Exploration, error) {
	exp, err := s.store.Exploration().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp.OwnerID != caller.UserID {
		return nil, srvErrors.NewForbiddenError("only the owner can publish an exploration")
	}
	if exp.Published {
		return exp, nil
	}
	if err := exp.Validate(true); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(IndexRequest{ExplorationID: id})
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if err := s.queue.Add(ctx, SearchQueue, &models.Task{
		Path:    IndexExplorationPath,
		Method:  http.MethodPost,
		Payload: payload,
		Header:  header,
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule indexing of %s: %w", id, err)
	}

	if err := s.deferred.Defer(ctx, s.queue, NotificationsQueue, NotifyModeratorsFunc, notifyArgs{
		ExplorationID: id,
		Title:         exp.Title,
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule moderator notice for %s: %w", id, err)
	}

	exp.Published = true
	if err := s.Save(ctx, exp); err != nil {
		return nil, err
	}

	zap.S().Named("exploration_service").Infow("exploration published", "id", id)
	return exp, nil
}

// MarkIndexed records that the search index holds the exploration.
func (s *ExplorationService) MarkIndexed(ctx context.Context, id string) error {
	exp, err := s.store.Exploration().Get(ctx, id)
	if err != nil {
		return err
	}
	if !exp.Published {
		return srvErrors.NewValidationError("exploration %s is not published", id)
	}
	exp.Indexed = true
	return s.store.Exploration().Save(ctx, exp)
}

// ImportYAML fetches a YAML exploration from url and saves it for ownerID.
func (s *ExplorationService) ImportYAML(ctx context.Context, ownerID, url string) (*models.Exploration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, srvErrors.NewValidationError("invalid import url %q", url)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, srvErrors.NewValidationError("fetching %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImportSize))
	if err != nil {
		return nil, err
	}

	var exp models.Exploration
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, srvErrors.NewValidationError("invalid exploration yaml: %v", err)
	}

	if err := s.SaveNew(ctx, ownerID, &exp); err != nil {
		return nil, err
	}
	return &exp, nil
}

func (s *ExplorationService) notifyModerators(ctx context.Context, raw json.RawMessage) error {
	var args notifyArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return err
	}

	moderators, err := s.config.Get(ctx, models.ModeratorEmails)
	if err != nil {
		return err
	}
	if len(moderators) == 0 {
		return nil
	}

	return s.mailer.Send(ctx, models.MailMessage{
		Sender:  s.sender,
		To:      moderators,
		Subject: fmt.Sprintf("Exploration published: %s", args.Title),
		Body:    fmt.Sprintf("Exploration %s (%s) was published and may need review.\n", args.ExplorationID, args.Title),
	})
}

func (s *ExplorationService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

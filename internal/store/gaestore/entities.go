package gaestore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/explorationlab/explorations/internal/models"
)

const (
	explorationKind    = "Exploration"
	configPropertyKind = "ConfigProperty"
	userSettingsKind   = "UserSettings"
)

// kinds lists every entity kind written by this package.
var kinds = []string{explorationKind, configPropertyKind, userSettingsKind}

type explorationEntity struct {
	_kind string `gae:"$kind,Exploration"`

	ID            string `gae:"$id"`
	OwnerID       string
	Title         string
	Category      string
	Objective     string `gae:",noindex"`
	InitStateName string `gae:",noindex"`
	States        []byte `gae:",noindex"`
	Version       int64
	Published     bool
	Indexed       bool
	Created       time.Time
	Updated       time.Time
}

func newExplorationEntity(exp *models.Exploration) (*explorationEntity, error) {
	states, err := json.Marshal(exp.States)
	if err != nil {
		return nil, fmt.Errorf("failed to encode states of exploration %s: %w", exp.ID, err)
	}
	return &explorationEntity{
		ID:            exp.ID,
		OwnerID:       exp.OwnerID,
		Title:         exp.Title,
		Category:      exp.Category,
		Objective:     exp.Objective,
		InitStateName: exp.InitStateName,
		States:        states,
		Version:       exp.Version,
		Published:     exp.Published,
		Indexed:       exp.Indexed,
		Created:       exp.CreatedAt,
		Updated:       exp.UpdatedAt,
	}, nil
}

func (e *explorationEntity) toModel() (*models.Exploration, error) {
	exp := &models.Exploration{
		ID:            e.ID,
		OwnerID:       e.OwnerID,
		Title:         e.Title,
		Category:      e.Category,
		Objective:     e.Objective,
		InitStateName: e.InitStateName,
		Version:       e.Version,
		Published:     e.Published,
		Indexed:       e.Indexed,
		CreatedAt:     e.Created,
		UpdatedAt:     e.Updated,
	}
	if err := json.Unmarshal(e.States, &exp.States); err != nil {
		return nil, fmt.Errorf("failed to decode states of exploration %s: %w", e.ID, err)
	}
	return exp, nil
}

type configPropertyEntity struct {
	_kind string `gae:"$kind,ConfigProperty"`

	Name    string   `gae:"$id"`
	Value   []string `gae:",noindex"`
	Updated time.Time
}

type userSettingsEntity struct {
	_kind string `gae:"$kind,UserSettings"`

	UserID             string `gae:"$id"`
	Email              string
	Username           string `gae:",noindex"`
	NormalizedUsername string
	AgreedToTerms      bool
	RegisteredAt       time.Time
}

func newUserSettingsEntity(u *models.UserSettings) *userSettingsEntity {
	return &userSettingsEntity{
		UserID:             u.UserID,
		Email:              u.Email,
		Username:           u.Username,
		NormalizedUsername: strings.ToLower(u.Username),
		AgreedToTerms:      u.AgreedToTerms,
		RegisteredAt:       u.RegisteredAt,
	}
}

func (e *userSettingsEntity) toModel() *models.UserSettings {
	return &models.UserSettings{
		UserID:        e.UserID,
		Email:         e.Email,
		Username:      e.Username,
		AgreedToTerms: e.AgreedToTerms,
		RegisteredAt:  e.RegisteredAt,
	}
}

package testbed

import (
	"fmt"

	"github.com/explorationlab/explorations/internal/models"
)

const (
	DefaultCategory  = "A category"
	DefaultObjective = "The objective"

	// SuperAdminEmail is the account SetAdmins and SetModerators act as.
	SuperAdminEmail = "superadmin@example.com"

	// DefaultUsername is registered when RegisterEditor gets no username.
	DefaultUsername = "defaultusername"
)

// SaveNewDefaultExploration stores a minimal exploration. It passes
// non-strict validation only. The returned value is the one that was saved.
func (tb *TestBed) SaveNewDefaultExploration(id, ownerID, title string) (*models.Exploration, error) {
	if !tb.setUp {
		return nil, ErrNotSetUp
	}
	exp := models.NewDefaultExploration(id, title, DefaultCategory)
	if err := tb.app.Explorations.SaveNew(tb.Context(), ownerID, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// SaveNewValidExploration stores an exploration that passes strict
// validation: its first rule leads to END and it has an objective.
func (tb *TestBed) SaveNewValidExploration(id, ownerID, title string) (*models.Exploration, error) {
	if !tb.setUp {
		return nil, ErrNotSetUp
	}
	exp := models.NewDefaultExploration(id, title, DefaultCategory)
	exp.InitState().Widget.Handlers[0].RuleSpecs[0].Dest = models.EndDest
	exp.Objective = DefaultObjective
	if err := tb.app.Explorations.SaveNew(tb.Context(), ownerID, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// RegisterEditor signs email up as an editor with username, or
// DefaultUsername when it is empty, through the editor prerequisites page,
// then logs out.
func (tb *TestBed) RegisterEditor(email, username string) error {
	if !tb.setUp {
		return ErrNotSetUp
	}
	if username == "" {
		username = DefaultUsername
	}
	tb.Login(email, false)
	defer tb.Logout()

	token, err := tb.GetCSRFToken("/editor_prerequisites")
	if err != nil {
		return err
	}
	if _, err := tb.PostJSON("/editor_prerequisites_handler/data", map[string]any{
		"username":        username,
		"agreed_to_terms": true,
	}, WithCSRFToken(token)); err != nil {
		return fmt.Errorf("failed to register %s: %w", email, err)
	}
	return nil
}

// SetAdmins saves the admin_emails config property.
func (tb *TestBed) SetAdmins(emails []string) error {
	return tb.saveConfigProperty(models.AdminEmails, emails)
}

// SetModerators saves the moderator_emails config property.
func (tb *TestBed) SetModerators(emails []string) error {
	return tb.saveConfigProperty(models.ModeratorEmails, emails)
}

// saveConfigProperty goes through the admin page as a super admin and puts
// the current session back afterwards.
func (tb *TestBed) saveConfigProperty(name models.ConfigPropertyName, value []string) (err error) {
	if !tb.setUp {
		return ErrNotSetUp
	}
	guard, err := tb.Stash()
	if err != nil {
		return err
	}
	defer func() {
		tb.Logout()
		if rerr := guard.Restore(); err == nil {
			err = rerr
		}
	}()

	tb.Login(SuperAdminEmail, true)

	token, err := tb.GetCSRFToken("/admin")
	if err != nil {
		return err
	}
	if value == nil {
		value = []string{}
	}
	_, err = tb.PostJSON("/adminhandler", map[string]any{
		"action": "save_config_properties",
		"new_config_property_values": map[string][]string{
			string(name): value,
		},
	}, WithCSRFToken(token))
	return err
}

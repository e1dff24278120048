package models

import "time"

// Identity is the caller of a request as seen by the application.
type Identity struct {
	Email        string
	UserID       string
	IsSuperAdmin bool
}

// Anonymous is the identity of a caller that is not logged in.
var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// UserSettings is stored when a user registers as an editor.
type UserSettings struct {
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	AgreedToTerms bool      `json:"agreed_to_terms"`
	RegisteredAt  time.Time `json:"registered_at"`
}

package models

// ConfigPropertyName names a site-wide setting editable from the admin page.
type ConfigPropertyName string

const (
	AdminEmails     ConfigPropertyName = "admin_emails"
	ModeratorEmails ConfigPropertyName = "moderator_emails"
	BannedUsernames ConfigPropertyName = "banned_usernames"
)

// ConfigProperty is a named list of strings with a human description.
type ConfigProperty struct {
	Name        ConfigPropertyName `json:"name"`
	Description string             `json:"description"`
	Value       []string           `json:"value"`
}

// ConfigPropertyDescriptions lists every property the admin page accepts.
var ConfigPropertyDescriptions = map[ConfigPropertyName]string{
	AdminEmails:     "Email addresses of site admins",
	ModeratorEmails: "Email addresses of moderators",
	BannedUsernames: "Usernames that may not be registered",
}

func (n ConfigPropertyName) Valid() bool {
	_, ok := ConfigPropertyDescriptions[n]
	return ok
}

package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// userIDNamespace seeds the name based UUIDs handed out as user ids.
var userIDNamespace = uuid.MustParse("6f1c7b0e-3c1a-5d4e-9a5f-0b8e2f6c9d31")

// URLBuilder builds the platform login and logout pages for a destination.
type URLBuilder interface {
	LoginURL(ctx context.Context, dest string) (string, error)
	LogoutURL(ctx context.Context, dest string) (string, error)
}

// IdentityProvider maps emails to stable user ids and builds login URLs.
type IdentityProvider interface {
	URLBuilder
	DeriveID(email string) string
}

// DeriveID returns the opaque user id of email. The same email always gives
// the same id and the email is not validated.
func DeriveID(email string) string {
	return uuid.NewSHA1(userIDNamespace, []byte(email)).String()
}

// FakeIdentityProvider derives ids locally and delegates URLs to a builder.
type FakeIdentityProvider struct {
	URLBuilder
}

func NewFakeIdentityProvider(urls URLBuilder) *FakeIdentityProvider {
	return &FakeIdentityProvider{URLBuilder: urls}
}

func (p *FakeIdentityProvider) DeriveID(email string) string {
	return DeriveID(email)
}

// LocalURLBuilder points login and logout at the application's own
// /_ah/login page on Hostname.
type LocalURLBuilder struct {
	Hostname string
}

func (b LocalURLBuilder) LoginURL(_ context.Context, dest string) (string, error) {
	return b.build("/_ah/login", dest, url.Values{})
}

func (b LocalURLBuilder) LogoutURL(_ context.Context, dest string) (string, error) {
	return b.build("/_ah/login", dest, url.Values{"action": {"Logout"}})
}

func (b LocalURLBuilder) build(path, dest string, q url.Values) (string, error) {
	if !strings.HasPrefix(dest, "http://") && !strings.HasPrefix(dest, "https://") {
		dest = "http://" + b.Hostname + "/" + strings.TrimPrefix(dest, "/")
	}
	if _, err := url.Parse(dest); err != nil {
		return "", err
	}
	q.Set("continue", dest)
	u := url.URL{Scheme: "http", Host: b.Hostname, Path: path, RawQuery: q.Encode()}
	return u.String(), nil
}

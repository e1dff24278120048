package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.chromium.org/luci/common/clock"

	"github.com/explorationlab/explorations/internal/models"
)

// SessionCookie is the cookie that carries the signed session.
const SessionCookie = "explorations_session"

const sessionIssuer = "explorations"

type sessionClaims struct {
	Email        string `json:"email"`
	IsSuperAdmin bool   `json:"is_super_admin,omitempty"`
	jwt.RegisteredClaims
}

// SessionCodec signs identities into HS256 session tokens and reads them back.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewSessionCodec(secret string, ttl time.Duration, clk clock.Clock) *SessionCodec {
	if clk == nil {
		clk = clock.GetSystemClock()
	}
	return &SessionCodec{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (c *SessionCodec) Encode(id models.Identity) (string, error) {
	if id.IsAnonymous() {
		return "", errors.New("cannot encode an anonymous session")
	}

	now := c.clock.Now()
	claims := sessionClaims{
		Email:        id.Email,
		IsSuperAdmin: id.IsSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

func (c *SessionCodec) Decode(raw string) (models.Identity, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return models.Anonymous, fmt.Errorf("invalid session: %w", err)
	}
	if claims.Subject == "" {
		return models.Anonymous, errors.New("invalid session: no subject")
	}

	return models.Identity{
		Email:        claims.Email,
		UserID:       claims.Subject,
		IsSuperAdmin: claims.IsSuperAdmin,
	}, nil
}

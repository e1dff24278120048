package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/models"
)

const identityKey = "identity"

type identityCtxKey struct{}

// Authenticate reads the session cookie and stores the caller's identity in
// the gin context. A missing or invalid cookie makes the caller anonymous.
func Authenticate(codec *SessionCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := models.Anonymous
		if raw, err := c.Cookie(SessionCookie); err == nil && raw != "" {
			decoded, err := codec.Decode(raw)
			if err != nil {
				zap.S().Named("auth").Debugw("ignoring session cookie", "error", err)
			} else {
				id = decoded
			}
		}
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// IdentityFrom returns the caller set by Authenticate.
func IdentityFrom(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Anonymous
}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the identity attached with WithIdentity.
func IdentityFromContext(ctx context.Context) models.Identity {
	if id, ok := ctx.Value(identityCtxKey{}).(models.Identity); ok {
		return id
	}
	return models.Anonymous
}

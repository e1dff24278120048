package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"go.chromium.org/luci/common/clock"

	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

// CSRFField is the form field state-changing requests carry the token in.
const CSRFField = "csrf_token"

// CSRFTokens issues and checks anti-forgery tokens of the form
// "<issued unix seconds>/<base64url hmac>". Tokens are bound to a user id;
// anonymous callers get tokens bound to the empty id.
type CSRFTokens struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewCSRFTokens(secret string, ttl time.Duration, clk clock.Clock) *CSRFTokens {
	if clk == nil {
		clk = clock.GetSystemClock()
	}
	return &CSRFTokens{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (t *CSRFTokens) Issue(userID string) string {
	issued := strconv.FormatInt(t.clock.Now().Unix(), 10)
	return issued + "/" + t.sign(userID, issued)
}

// Validate returns an InvalidCSRFError unless token was issued for userID
// and has not expired.
func (t *CSRFTokens) Validate(userID, token string) error {
	if token == "" {
		return srvErrors.NewInvalidCSRFError("missing token")
	}

	issued, mac, ok := strings.Cut(token, "/")
	if !ok {
		return srvErrors.NewInvalidCSRFError("malformed token")
	}
	ts, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return srvErrors.NewInvalidCSRFError("malformed token")
	}
	if !hmac.Equal([]byte(mac), []byte(t.sign(userID, issued))) {
		return srvErrors.NewInvalidCSRFError("token does not match user")
	}
	if t.clock.Now().Sub(time.Unix(ts, 0)) > t.ttl {
		return srvErrors.NewInvalidCSRFError("token expired")
	}
	return nil
}

func (t *CSRFTokens) sign(userID, issued string) string {
	h := hmac.New(sha256.New, t.secret)
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(issued))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.chromium.org/luci/common/clock/testclock"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/models"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

var t0 = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

var _ = Describe("DeriveID", func() {
	It("should return the same id for the same email", func() {
		Expect(auth.DeriveID("a@example.com")).To(Equal(auth.DeriveID("a@example.com")))
	})

	It("should return different ids for different emails", func() {
		Expect(auth.DeriveID("a@example.com")).NotTo(Equal(auth.DeriveID("b@example.com")))
	})

	It("should accept anything as an email", func() {
		Expect(auth.DeriveID("not an email")).NotTo(BeEmpty())
	})
})

var _ = Describe("LocalURLBuilder", func() {
	var b auth.LocalURLBuilder

	BeforeEach(func() {
		b = auth.LocalURLBuilder{Hostname: "localhost:8080"}
	})

	It("should point login at the local login page with the destination", func() {
		raw, err := b.LoginURL(context.Background(), "/create")
		Expect(err).NotTo(HaveOccurred())

		u, err := url.Parse(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Host).To(Equal("localhost:8080"))
		Expect(u.Path).To(Equal("/_ah/login"))
		Expect(u.Query().Get("continue")).To(Equal("http://localhost:8080/create"))
		Expect(u.Query().Has("action")).To(BeFalse())
	})

	It("should mark logout URLs", func() {
		raw, err := b.LogoutURL(context.Background(), "https://elsewhere.example.com/x")
		Expect(err).NotTo(HaveOccurred())

		u, err := url.Parse(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Query().Get("action")).To(Equal("Logout"))
		Expect(u.Query().Get("continue")).To(Equal("https://elsewhere.example.com/x"))
	})
})

var _ = Describe("SessionCodec", func() {
	var (
		clk   testclock.TestClock
		codec *auth.SessionCodec
		id    models.Identity
	)

	BeforeEach(func() {
		clk = testclock.New(t0)
		codec = auth.NewSessionCodec("secret", time.Hour, clk)
		id = models.Identity{Email: "a@example.com", UserID: auth.DeriveID("a@example.com"), IsSuperAdmin: true}
	})

	// Given an identity encoded into a session
	// When the session is decoded
	// Then the same identity comes back
	It("should round trip an identity", func() {
		raw, err := codec.Encode(id)
		Expect(err).NotTo(HaveOccurred())

		got, err := codec.Decode(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(id))
	})

	It("should refuse to encode an anonymous identity", func() {
		_, err := codec.Encode(models.Anonymous)
		Expect(err).To(HaveOccurred())
	})

	It("should reject an expired session", func() {
		raw, err := codec.Encode(id)
		Expect(err).NotTo(HaveOccurred())

		clk.Add(2 * time.Hour)

		_, err = codec.Decode(raw)
		Expect(err).To(HaveOccurred())
	})

	It("should reject a session signed with another secret", func() {
		raw, err := auth.NewSessionCodec("other", time.Hour, clk).Encode(id)
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Decode(raw)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("CSRFTokens", func() {
	var (
		clk    testclock.TestClock
		tokens *auth.CSRFTokens
	)

	BeforeEach(func() {
		clk = testclock.New(t0)
		tokens = auth.NewCSRFTokens("secret", time.Hour, clk)
	})

	It("should accept a token issued for the same user", func() {
		token := tokens.Issue("uid")

		Expect(tokens.Validate("uid", token)).To(Succeed())
	})

	It("should accept anonymous tokens for anonymous callers", func() {
		Expect(tokens.Validate("", tokens.Issue(""))).To(Succeed())
	})

	DescribeTable("should reject bad tokens",
		func(mutate func(token string) (string, string)) {
			userID, token := mutate(tokens.Issue("uid"))

			err := tokens.Validate(userID, token)

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsInvalidCSRFError(err)).To(BeTrue())
		},
		Entry("missing", func(string) (string, string) { return "uid", "" }),
		Entry("without separator", func(string) (string, string) { return "uid", "abc" }),
		Entry("with a bad timestamp", func(string) (string, string) { return "uid", "x/abc" }),
		Entry("for another user", func(t string) (string, string) { return "other", t }),
		Entry("with a forged mac", func(t string) (string, string) { return "uid", t + "A" }),
	)

	It("should reject an expired token", func() {
		token := tokens.Issue("uid")

		clk.Add(2 * time.Hour)

		err := tokens.Validate("uid", token)
		Expect(srvErrors.IsInvalidCSRFError(err)).To(BeTrue())
	})
})

var _ = Describe("Authenticate", func() {
	var (
		codec  *auth.SessionCodec
		engine *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		codec = auth.NewSessionCodec("secret", time.Hour, nil)
		engine = gin.New()
		engine.Use(auth.Authenticate(codec))
		engine.GET("/whoami", func(c *gin.Context) {
			fromGin := auth.IdentityFrom(c)
			fromCtx := auth.IdentityFromContext(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"gin": fromGin.Email, "ctx": fromCtx.Email})
		})
	})

	It("should treat a request without a cookie as anonymous", func() {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"gin": "", "ctx": ""}`))
	})

	It("should expose the session identity", func() {
		raw, err := codec.Encode(models.Identity{Email: "a@example.com", UserID: "uid"})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: raw})
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		Expect(rec.Body.String()).To(MatchJSON(`{"gin": "a@example.com", "ctx": "a@example.com"}`))
	})

	It("should ignore a corrupt cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "garbage"})
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"gin": "", "ctx": ""}`))
	})
})

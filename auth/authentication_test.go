package auth_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/auth"
)

func newEchoContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

var _ = Describe("Token Authenticator", func() {
	var cfg *auth.Config
	var authenticator auth.Authenticator

	BeforeEach(func() {
		cfg = &auth.Config{
			Secret:        "test-secret",
			TokenDuration: time.Hour,
		}
		authenticator = auth.NewTokenAuthenticator(cfg)
	})

	It("validates tokens it granted and sets the auth data", func() {
		token, err := auth.GrantToken(cfg, 7, "doc@clinic.org", "doctor")
		Expect(err).ToNot(HaveOccurred())

		ec := newEchoContext()
		valid, err := authenticator.ValidateAndSetAuthData(token, ec)
		Expect(err).ToNot(HaveOccurred())
		Expect(valid).To(BeTrue())

		data := auth.GetAuthData(ec.Request().Context())
		Expect(data).ToNot(BeNil())
		Expect(data.ClinicianId).To(Equal(7))
		Expect(data.Email).To(Equal("doc@clinic.org"))
		Expect(data.Role).To(Equal("doctor"))
	})

	It("rejects garbage tokens", func() {
		ec := newEchoContext()
		valid, err := authenticator.ValidateAndSetAuthData("not-a-token", ec)
		Expect(err).To(Equal(auth.ErrUnauthenticated))
		Expect(valid).To(BeFalse())
	})

	It("rejects tokens signed with a different secret", func() {
		other := &auth.Config{Secret: "other-secret", TokenDuration: time.Hour}
		token, err := auth.GrantToken(other, 7, "doc@clinic.org", "doctor")
		Expect(err).ToNot(HaveOccurred())

		ec := newEchoContext()
		valid, err := authenticator.ValidateAndSetAuthData(token, ec)
		Expect(err).To(Equal(auth.ErrUnauthenticated))
		Expect(valid).To(BeFalse())
	})

	It("rejects expired tokens", func() {
		expired := &auth.Config{Secret: cfg.Secret, TokenDuration: -time.Hour}
		token, err := auth.GrantToken(expired, 7, "doc@clinic.org", "doctor")
		Expect(err).ToNot(HaveOccurred())

		ec := newEchoContext()
		valid, err := authenticator.ValidateAndSetAuthData(token, ec)
		Expect(err).To(Equal(auth.ErrUnauthenticated))
		Expect(valid).To(BeFalse())
	})
})

type countingAuthenticator struct {
	calls int
	data  *auth.Auth
}

func (c *countingAuthenticator) ValidateAndSetAuthData(token string, ec echo.Context) (bool, error) {
	c.calls++
	auth.SetAuthData(ec, c.data)
	return true, nil
}

var _ = Describe("Caching Authenticator", func() {
	It("only consults the delegate once per token", func() {
		delegate := &countingAuthenticator{data: &auth.Auth{ClinicianId: 7, Role: "doctor"}}
		authenticator, err := auth.NewCachingAuthenticator(10, time.Minute, delegate, func(a *auth.Auth) bool {
			return a != nil
		})
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < 3; i++ {
			ec := newEchoContext()
			valid, err := authenticator.ValidateAndSetAuthData("token", ec)
			Expect(err).ToNot(HaveOccurred())
			Expect(valid).To(BeTrue())
			Expect(auth.GetAuthData(ec.Request().Context()).ClinicianId).To(Equal(7))
		}

		Expect(delegate.calls).To(Equal(1))
	})
})

var _ = Describe("Auth Middleware", func() {
	var cfg *auth.Config
	var middlewareFunc echo.MiddlewareFunc
	var next echo.HandlerFunc

	BeforeEach(func() {
		cfg = &auth.Config{Secret: "test-secret", TokenDuration: time.Hour}
		middlewareFunc = auth.NewAuthMiddleware(auth.NewTokenAuthenticator(cfg), auth.AuthMiddlewareOpts{})
		next = func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	})

	It("rejects requests without a bearer token", func() {
		ec := newEchoContext()
		err := middlewareFunc(next)(ec)

		httpErr, ok := err.(*echo.HTTPError)
		Expect(ok).To(BeTrue())
		Expect(httpErr.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects requests with an invalid token", func() {
		ec := newEchoContext()
		ec.Request().Header.Set(auth.AuthorizationHeaderKey, auth.BearerTokenPrefix+"garbage")
		err := middlewareFunc(next)(ec)

		httpErr, ok := err.(*echo.HTTPError)
		Expect(ok).To(BeTrue())
		Expect(httpErr.Code).To(Equal(http.StatusUnauthorized))
	})

	It("passes requests with a valid token through", func() {
		token, err := auth.GrantToken(cfg, 7, "doc@clinic.org", "doctor")
		Expect(err).ToNot(HaveOccurred())

		ec := newEchoContext()
		ec.Request().Header.Set(auth.AuthorizationHeaderKey, auth.BearerTokenPrefix+token)
		Expect(middlewareFunc(next)(ec)).To(Succeed())
		Expect(ec.Response().Status).To(Equal(http.StatusOK))
	})

	It("honors the skipper", func() {
		skipping := auth.NewAuthMiddleware(auth.NewTokenAuthenticator(cfg), auth.AuthMiddlewareOpts{
			Skipper: func(echo.Context) bool { return true },
		})

		ec := newEchoContext()
		Expect(skipping(next)(ec)).To(Succeed())
		Expect(ec.Response().Status).To(Equal(http.StatusOK))
	})
})

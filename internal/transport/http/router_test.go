package httptransport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup/internal/account"
	accountmetrics "signup/internal/account/metrics"
	"signup/internal/account/secrets"
	"signup/internal/account/service"
	"signup/internal/account/store"
	"signup/internal/account/store/token"
	"signup/internal/i18n"
	"signup/internal/mail"
	"signup/internal/platform/metrics"
	"signup/pkg/platform/middleware/requestid"
	"signup/pkg/testutil"
)

type stack struct {
	router   http.Handler
	accounts *store.InMemoryStore
	outbox   *mail.Recorder
}

func newStack(t *testing.T, checks ...HealthCheck) *stack {
	t.Helper()
	catalog, err := i18n.NewCatalog("en")
	require.NoError(t, err)

	reg := metrics.NewRegistry()
	accounts := store.NewInMemory()
	outbox := mail.NewRecorder(nil)
	svc, err := account.NewService(
		accounts,
		token.NewInMemory(),
		secrets.NewHasher(secrets.DefaultCost),
		mail.NewComposer("My App <me@mail.com>", catalog),
		outbox,
		catalog,
		service.WithMetrics(accountmetrics.New(reg)),
	)
	require.NoError(t, err)

	router := NewRouter(Dependencies{
		Locales:  catalog,
		Modules:  []RouteRegistrar{account.NewHandler(svc, nil, catalog.Default())},
		Registry: reg,
		Checks:   checks,
	})
	return &stack{router: router, accounts: accounts, outbox: outbox}
}

func registerBody(username, email, password string) map[string]string {
	return map[string]string{"username": username, "email": email, "password": password}
}

func TestRegistrationOverHTTP(t *testing.T) {
	testutil.Given(t, "a running signup API", func(t *testing.T) {
		s := newStack(t)

		testutil.When(t, "a valid user registers", func(t *testing.T) {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, APIPrefix+"/register",
				registerBody("user1", "user1@mail.com", "P4ssword")))

			testutil.Then(t, "the account is created and an activation email is sent", func(t *testing.T) {
				testutil.AssertMessage(t, rr, "User created")
				assert.Equal(t, "en", rr.Header().Get("Content-Language"))
				assert.NotEmpty(t, rr.Header().Get(requestid.Header))

				all, err := s.accounts.FindAll(context.Background())
				require.NoError(t, err)
				require.Len(t, all, 1)
				assert.NotEqual(t, "P4ssword", all[0].PasswordHash)

				sent := s.outbox.Sent()
				require.Len(t, sent, 1)
				assert.Contains(t, sent[0].HTML, "user1@mail.com")
			})
		})

		testutil.When(t, "the same user registers again", func(t *testing.T) {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, APIPrefix+"/register",
				registerBody("user1", "user1@mail.com", "P4ssword")))

			testutil.Then(t, "the duplicate is accepted and stored", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				all, _ := s.accounts.FindAll(context.Background())
				assert.Len(t, all, 2)
			})
		})
	})
}

func TestValidationOverHTTP(t *testing.T) {
	s := newStack(t)

	t.Run("null username", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(t, http.MethodPost, APIPrefix+"/register",
			`{"username": null, "email": "user1@mail.com", "password": "P4ssword"}`))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Equal(t, map[string]string{"username": "Username cannot be null"}, testutil.ValidationErrors(t, rr))
	})

	t.Run("three invalid fields", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, APIPrefix+"/register",
			registerBody("usr", "email.com", "")))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Equal(t, map[string]string{
			"username": "Must have min 4 and max 32 characters",
			"email":    "Email is not valid",
			"password": "Password cannot be null",
		}, testutil.ValidationErrors(t, rr))
	})

	t.Run("thai locale", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, APIPrefix+"/register",
			map[string]any{"username": nil, "email": "user1@mail.com", "password": "P4ssword"})
		req.Header.Set("Accept-Language", "th-TH,th;q=0.9,en;q=0.5")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Equal(t, "th", rr.Header().Get("Content-Language"))
		assert.Equal(t, "กรุณาระบุชื่อผู้ใช้งาน", testutil.ValidationErrors(t, rr)["username"])
	})

	t.Run("unsupported locale falls back", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, APIPrefix+"/register",
			map[string]any{"email": "user1@mail.com", "password": "P4ssword"})
		req.Header.Set("Accept-Language", "de-DE")
		rr := testutil.DoRequest(s.router, req)
		assert.Equal(t, "Username cannot be null", testutil.ValidationErrors(t, rr)["username"])
	})

	t.Run("empty body reports every field", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(t, http.MethodPost, APIPrefix+"/register", ``))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Equal(t, map[string]string{
			"username": "Username cannot be null",
			"email":    "E-mail cannot be null",
			"password": "Password cannot be null",
		}, testutil.ValidationErrors(t, rr))
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(t, http.MethodPost, APIPrefix+"/register", `{`))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	assert.Empty(t, s.outbox.Sent())
}

func TestMailFailureOverHTTP(t *testing.T) {
	s := newStack(t)
	s.outbox.FailWith(errors.New("relay refused"))

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, APIPrefix+"/register",
		registerBody("user1", "user1@mail.com", "P4ssword")))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	assert.NotContains(t, rr.Body.String(), "relay")

	all, _ := s.accounts.FindAll(context.Background())
	assert.Len(t, all, 1)
}

func TestRoutes(t *testing.T) {
	t.Run("register is only served under the api prefix", func(t *testing.T) {
		s := newStack(t)
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, "/register",
			registerBody("user1", "user1@mail.com", "P4ssword")))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("liveness", func(t *testing.T) {
		s := newStack(t)
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("readiness reports every check", func(t *testing.T) {
		s := newStack(t,
			HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }},
			HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
		)
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodGet, "/readyz", nil))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

		body := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "unavailable", body.Status)
		assert.Equal(t, "ok", body.Checks["postgres"])
		assert.Equal(t, "connection refused", body.Checks["redis"])
	})

	t.Run("readiness without checks", func(t *testing.T) {
		s := newStack(t)
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodGet, "/readyz", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("metrics", func(t *testing.T) {
		s := newStack(t)
		testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, APIPrefix+"/register",
			registerBody("user1", "user1@mail.com", "P4ssword")))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.True(t, strings.Contains(rr.Body.String(), `signup_registrations_total{outcome="created"} 1`))
	})
}

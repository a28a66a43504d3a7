package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionauth "github.com/prepwise/sessionauth"
	"github.com/prepwise/sessionauth/credstore"
)

// stubIdentity satisfies the identity interface; guard tests never reach the
// provider.
type stubIdentity struct{}

func (stubIdentity) Register(context.Context, string, string) error            { return nil }
func (stubIdentity) ConfirmRegistration(context.Context, string, string) error { return nil }
func (stubIdentity) ResendConfirmationCode(context.Context, string) error      { return nil }
func (stubIdentity) SignIn(context.Context, string, string) (sessionauth.TokenBundle, error) {
	return sessionauth.TokenBundle{}, nil
}
func (stubIdentity) Refresh(context.Context, string) (sessionauth.TokenBundle, error) {
	return sessionauth.TokenBundle{}, nil
}
func (stubIdentity) RequestPasswordReset(context.Context, string) error { return nil }
func (stubIdentity) ConfirmPasswordReset(context.Context, string, string, string) error {
	return nil
}

func newGuardManager(t *testing.T, seed *credstore.Record) *sessionauth.Manager {
	t.Helper()

	store := credstore.NewMemStore()
	if seed != nil {
		require.NoError(t, store.Save(context.Background(), seed))
	}

	m, err := sessionauth.New().
		WithIdentityClient(stubIdentity{}).
		WithStore(store).
		WithLogger(zerolog.Nop()).
		Build()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	return m
}

func freshRecord() *credstore.Record {
	return &credstore.Record{
		AccessToken: "access-1",
		Email:       "alice@example.com",
		ExpiresAt:   time.Now().Add(time.Hour).UnixMilli(),
	}
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardRedirectsAnonymous(t *testing.T) {
	m := newGuardManager(t, nil)
	guard := Guard(m, GuardConfig{SignInPath: "/signin"})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?tab=1", nil)
	rec := httptest.NewRecorder()
	guard(okHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signin?next=%2Fdashboard%3Ftab%3D1", rec.Header().Get("Location"))
}

func TestGuardCustomNextParam(t *testing.T) {
	m := newGuardManager(t, nil)
	guard := Guard(m, GuardConfig{SignInPath: "/signin", NextParam: "return_to"})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	guard(okHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, "/signin?return_to=%2Fdashboard", rec.Header().Get("Location"))
}

func TestGuardAPIModeAnswers401(t *testing.T) {
	m := newGuardManager(t, nil)
	guard := Guard(m, GuardConfig{SignInPath: "/signin", APIMode: true})

	req := httptest.NewRequest(http.MethodGet, "/api/things", nil)
	rec := httptest.NewRecorder()
	guard(okHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestGuardPassesAuthenticatedRequests(t *testing.T) {
	m := newGuardManager(t, freshRecord())
	guard := Guard(m, GuardConfig{SignInPath: "/signin"})

	var got sessionauth.Principal
	var ok bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	guard(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok, "principal must be injected")
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestGuardNilManager(t *testing.T) {
	guard := Guard(nil, GuardConfig{APIMode: true})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	guard(okHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPrincipalFromContextAbsent(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)
}

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/inhaus-automation/backend/internal/auth"
	"github.com/inhaus-automation/backend/internal/common"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, password string) *auth.Service {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	require.NoError(t, err)
	svc, err := auth.NewService(auth.Config{
		Username:     "admin",
		PasswordHash: hash,
		Secret:       testSecret,
		Issuer:       "inhaus-backend",
		Audience:     "inhaus-admin",
	})
	require.NoError(t, err)
	return svc
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, "correct horse battery staple")

	result, err := svc.Login("admin", "correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.True(t, result.AccessExpiry.After(time.Now()))

	subject, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", subject)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	svc := newTestService(t, "secret-password")

	_, err := svc.Login("admin", "wrong")
	require.Error(t, err)

	_, err = svc.Login("root", "secret-password")
	require.Error(t, err)
}

func TestParseRejectsForeignAlgorithm(t *testing.T) {
	svc := newTestService(t, "secret-password")

	token, err := jwt.NewBuilder().
		Subject("admin").
		Issuer("inhaus-backend").
		Audience([]string{"inhaus-admin"}).
		Expiration(time.Now().Add(time.Hour)).
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS512, []byte(testSecret)))
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(string(signed))
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, "secret-password")
	svc.WithNow(func() time.Time { return time.Now().Add(-48 * time.Hour) })

	result, err := svc.Login("admin", "secret-password")
	require.NoError(t, err)

	svc.WithNow(time.Now)
	_, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestNewServiceRequiresStrongSecret(t *testing.T) {
	_, err := auth.NewService(auth.Config{
		Username:     "admin",
		PasswordHash: "hash",
		Secret:       "short",
	})
	require.Error(t, err)
}

func TestRequireAuthMiddleware(t *testing.T) {
	svc := newTestService(t, "secret-password")
	mw := auth.Middleware{Service: svc}

	var sawAdmin string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAdmin, _ = common.Admin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quotations", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	result, err := svc.Login("admin", "secret-password")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/quotations", nil)
	req.Header.Set("Authorization", "Bearer "+result.AccessToken)
	rec = httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "admin", sawAdmin)
}

func TestLoginHandler(t *testing.T) {
	svc := newTestService(t, "secret-password")
	handler := auth.NewHandler(auth.HandlerConfig{Service: svc})

	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"secret-password"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"nope"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

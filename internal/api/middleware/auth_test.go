package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nik/article-hub/internal/api/middleware"
	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/repository/postgres"
	"github.com/nik/article-hub/internal/repository/redisdb"
	"github.com/nik/article-hub/internal/service"
	"github.com/nik/article-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	testRedis := testutil.NewTestRedis(t)
	tokens := testutil.NewTokenService(t, 15*time.Minute, 30*24*time.Hour)
	denylist := redisdb.NewDenylist(testRedis.Client)
	authService := service.NewAuthService(postgres.NewUserRepository(testDB.DB), denylist, tokens, &testutil.StubMailer{})

	activeUser, _ := testutil.NewUserBuilder().WithUsername("alice").Active().Build(t, testDB.DB)
	inactiveUser, _ := testutil.NewUserBuilder().WithUsername("bob").WithEmail("bob@example.com").Build(t, testDB.DB)

	accessToken, err := tokens.IssueAccess(activeUser)
	require.NoError(t, err)
	refreshToken, err := tokens.IssueRefresh(activeUser)
	require.NoError(t, err)
	inactiveToken, err := tokens.IssueAccess(inactiveUser)
	require.NoError(t, err)

	revokedToken, err := tokens.IssueAccess(activeUser)
	require.NoError(t, err)
	require.NoError(t, denylist.Revoke(context.Background(), revokedToken, 15*time.Minute))

	echoUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.Username))
	})

	protected := middleware.Authenticate(authService, auth.TokenTypeAccess)(echoUser)
	activeOnly := middleware.Authenticate(authService, auth.TokenTypeAccess)(middleware.RequireActive(echoUser))

	tests := []struct {
		name       string
		handler    http.Handler
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			handler:    protected,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			handler:    protected,
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			handler:    protected,
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "revoked token with valid signature",
			handler:    protected,
			authHeader: "Bearer " + revokedToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token on access route",
			handler:    protected,
			authHeader: "Bearer " + refreshToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid access token",
			handler:    protected,
			authHeader: "Bearer " + accessToken,
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "inactive user allowed without activation gate",
			handler:    protected,
			authHeader: "Bearer " + inactiveToken,
			wantStatus: http.StatusOK,
			wantBody:   "bob",
		},
		{
			name:       "inactive user behind activation gate",
			handler:    activeOnly,
			authHeader: "Bearer " + inactiveToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "active user behind activation gate",
			handler:    activeOnly,
			authHeader: "Bearer " + accessToken,
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

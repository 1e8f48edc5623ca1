package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nik/article-hub/internal/api"
	"github.com/nik/article-hub/internal/repository"
	"github.com/nik/article-hub/internal/repository/postgres"
	"github.com/nik/article-hub/internal/repository/redisdb"
	"github.com/nik/article-hub/internal/service"
	"github.com/nik/article-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (http.Handler, *testutil.TestDB) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	testRedis := testutil.NewTestRedis(t)
	tokens := testutil.NewTokenService(t, 15*time.Minute, 30*24*time.Hour)

	repos := &repository.Repositories{
		User:     postgres.NewUserRepository(testDB.DB),
		Article:  postgres.NewArticleRepository(testDB.DB, testutil.SearchLanguage),
		Blob:     testutil.NewFakeBlobStore(),
		Denylist: redisdb.NewDenylist(testRedis.Client),
	}

	services := service.NewServices(repos, tokens, &testutil.StubMailer{})
	return api.NewRouter(services), testDB
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/users/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthEndpoints_RegisterLoginRefreshLogout(t *testing.T) {
	router, _ := newTestServer(t)

	// Register
	rec := postJSON(t, router, "/users/register/", `{"username":"alice","password":"password123","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Active   bool   `json:"active"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.False(t, profile.Active)
	assert.NotContains(t, rec.Body.String(), "password")

	// Duplicate registration conflicts
	rec = postJSON(t, router, "/users/register/", `{"username":"alice","password":"password123","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Login with bad credentials
	rec = login(t, router, "alice", "wrongpassword")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Login with good credentials
	rec = login(t, router, "alice", "password123")
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)

	// Refresh requires a refresh token, not an access token
	req := httptest.NewRequest(http.MethodPost, "/users/refresh/", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/users/refresh/", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	// Logout always answers 200, and the token stops working
	req = httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/users/refresh/", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out the same token again is still a 200
	req = httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthEndpoints_Confirm(t *testing.T) {
	router, testDB := newTestServer(t)

	rec := postJSON(t, router, "/users/register/", `{"username":"bob","password":"password123","email":"bob@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = login(t, router, "bob", "password123")
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))

	rec = postJSON(t, router, "/users/confirm/"+tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, testDB.DB.Table("users").Where("username = ? AND active", "bob").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Garbage confirmation token
	rec = postJSON(t, router, "/users/confirm/not.a.jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

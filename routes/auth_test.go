package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lim28y/Sleep-Disorder-Prediction/db"
	"github.com/lim28y/Sleep-Disorder-Prediction/middleware"
	"github.com/lim28y/Sleep-Disorder-Prediction/testutil"
	"github.com/lim28y/Sleep-Disorder-Prediction/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db.DB = testutil.OpenTestDB(t)

	r := gin.New()
	r.POST("/api/register", Register)
	r.POST("/api/login", Login)
	r.GET("/api/logout", Logout)
	r.GET("/api/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginFlow(t *testing.T) {
	r := authRouter(t)

	creds := map[string]string{"username": "alice", "password": "secret123"}

	w := postJSON(t, r, "/api/register", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var regResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &regResp))
	require.NotEmpty(t, regResp.Token)

	claims, err := utils.ParseToken(regResp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// duplicate username conflicts
	w = postJSON(t, r, "/api/register", creds)
	assert.Equal(t, http.StatusConflict, w.Code)

	// wrong password rejected
	w = postJSON(t, r, "/api/login", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// correct login returns a usable token
	w = postJSON(t, r, "/api/login", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	r := authRouter(t)
	w := postJSON(t, r, "/api/register", map[string]string{"username": "bob", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	r := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

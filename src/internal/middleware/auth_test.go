package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter(m *AuthMiddleware, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", m.RequireAuth(), m.RequireRole(role), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("user_id"),
			"role":   c.GetString("user_role"),
		})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAcceptsIssuedToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := newTestRouter(m, RoleTeacher)

	token, err := NewAccessToken(testSecret, "T001", "John Doe", RoleTeacher, time.Hour)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "T001")
}

func TestRequireAuthMissingHeader(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := newTestRouter(m, RoleTeacher)

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := newTestRouter(m, RoleTeacher)

	w := doRequest(router, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := newTestRouter(m, RoleTeacher)

	token, err := NewAccessToken("other-secret", "T001", "John Doe", RoleTeacher, time.Hour)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := newTestRouter(m, RoleTeacher)

	token, err := NewAccessToken(testSecret, "T001", "John Doe", RoleTeacher, -time.Minute)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleForbidsOtherRole(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := newTestRouter(m, RoleTeacher)

	token, err := NewAccessToken(testSecret, "02FE24BCS410", "Student", RoleStudent, time.Hour)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

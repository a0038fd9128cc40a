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

func newTestAuth() *Auth {
	return NewAuth("test-secret", time.Hour, "token")
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuth()

	token, err := auth.BuildToken("owner-1")
	require.NoError(t, err)

	ownerID, err := auth.ParseOwnerID(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", ownerID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewAuth("secret-a", time.Hour, "token").BuildToken("owner-1")
	require.NoError(t, err)

	_, err = NewAuth("secret-b", time.Hour, "token").ParseOwnerID(token)
	assert.Error(t, err)
}

func setupAuthRouter(auth *Auth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(auth.Middleware())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, OwnerID(c))
	})
	return router
}

func TestMiddleware_IssuesIdentityOnFirstVisit(t *testing.T) {
	auth := newTestAuth()
	router := setupAuthRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	ownerID, err := auth.ParseOwnerID(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), ownerID)
}

func TestMiddleware_ReusesIdentityFromCookie(t *testing.T) {
	auth := newTestAuth()
	router := setupAuthRouter(auth)

	token, err := auth.BuildToken("owner-42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner-42", w.Body.String())
}

func TestMiddleware_RejectsTamperedToken(t *testing.T) {
	auth := newTestAuth()
	router := setupAuthRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage.token.value"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnerID_MissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", OwnerID(c))
}

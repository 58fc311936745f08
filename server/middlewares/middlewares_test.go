package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, Setup())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", JWT(), func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.Header.Get("sub"))
	})
	return router
}

func TestJWTRejectsMissingToken(t *testing.T) {
	router := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	router := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami?token=garbage", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAcceptsQueryToken(t *testing.T) {
	router := newProtectedRouter(t)
	token, err := IssueToken("u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami?token="+token, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestJWTAcceptsBearerHeader(t *testing.T) {
	router := newProtectedRouter(t)
	token, err := IssueToken("u2")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", w.Body.String())
}

func TestJWTRejectsForgedSignature(t *testing.T) {
	router := newProtectedRouter(t)
	token, err := IssueToken("u1")
	require.NoError(t, err)

	// Re-signing with another secret invalidates the token.
	os.Setenv("JWT_SECRET", "other-secret")
	require.NoError(t, Setup())
	forged, err := IssueToken("u1")
	require.NoError(t, err)

	os.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, Setup())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami?token="+forged, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/whoami?token="+token, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

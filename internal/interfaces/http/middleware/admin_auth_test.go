package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-launchpad.backend/pkg/jwt"
)

func newAdminRouter(svc *jwt.JWTService, hash string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AdminAuthMiddleware(svc, hash))
	r.POST("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString(AdminSubjectKey)})
	})
	return r
}

func doAdmin(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth_JWT(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	r := newAdminRouter(svc, "")

	admin, err := svc.GenerateAdminToken("ops@example.com")
	require.NoError(t, err)
	w := doAdmin(r, map[string]string{AuthorizationHeader: BearerPrefix + admin})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@example.com")

	viewer, err := svc.GenerateToken("viewer", "viewer")
	require.NoError(t, err)
	w = doAdmin(r, map[string]string{AuthorizationHeader: BearerPrefix + viewer})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doAdmin(r, map[string]string{AuthorizationHeader: BearerPrefix + "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAdmin(r, map[string]string{AuthorizationHeader: "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAdmin(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_ExpiredJWT(t *testing.T) {
	expired := jwt.NewJWTService("secret", -time.Minute)
	token, err := expired.GenerateAdminToken("ops")
	require.NoError(t, err)

	r := newAdminRouter(jwt.NewJWTService("secret", time.Hour), "")
	w := doAdmin(r, map[string]string{AuthorizationHeader: BearerPrefix + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAdminAuth_AdminKey(t *testing.T) {
	orig := checkSecret
	t.Cleanup(func() { checkSecret = orig })
	checkSecret = func(secret, hash string) bool { return secret == "good-key" && hash == "stored-hash" }

	r := newAdminRouter(nil, "stored-hash")
	w := doAdmin(r, map[string]string{AdminKeyHeader: "good-key"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin-key")

	w = doAdmin(r, map[string]string{AdminKeyHeader: "bad-key"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// key auth is off without a configured hash
	w = doAdmin(newAdminRouter(nil, ""), map[string]string{AdminKeyHeader: "good-key"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nft-launchpad.backend/pkg/crypto"
	"nft-launchpad.backend/pkg/jwt"
	"nft-launchpad.backend/pkg/logger"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	AdminKeyHeader      = "X-Admin-Key"

	// AdminSubjectKey holds the authenticated operator in the gin context.
	AdminSubjectKey = "adminSubject"
)

var checkSecret = crypto.CheckSecret

// AdminAuthMiddleware admits a request carrying either a Bearer JWT with the
// admin role or an X-Admin-Key matching adminKeyHash. An empty hash
// disables key auth.
func AdminAuthMiddleware(jwtService *jwt.JWTService, adminKeyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(AdminKeyHeader); key != "" {
			if adminKeyHash == "" || !checkSecret(key, adminKeyHash) {
				logger.Warn(c.Request.Context(), "admin key rejected", zap.String("path", c.Request.URL.Path))
				abortUnauthorized(c, "invalid admin key")
				return
			}
			c.Set(AdminSubjectKey, "admin-key")
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			abortUnauthorized(c, "authorization required")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) || jwtService == nil {
			abortUnauthorized(c, "invalid authorization format, use: Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(c.Request.Context(), "admin token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortUnauthorized(c, "token has expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}
		if claims.Role != jwt.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"code":    "FORBIDDEN",
				"error":   "admin role required",
			})
			return
		}

		c.Set(AdminSubjectKey, claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"code":    "UNAUTHORIZED",
		"error":   msg,
	})
}

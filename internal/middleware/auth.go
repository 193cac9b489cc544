package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"videotube-api/internal/auth"
	"videotube-api/internal/errno"
)

const claimsKey = "claims"

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// VersionSource reports the token version an account currently accepts.
type VersionSource interface {
	TokenVersion(ctx context.Context, accountID string) (int64, error)
}

// AuthMiddleware admits requests carrying a valid, unrevoked bearer token and stores
// its claims on the context for Claims.
func AuthMiddleware(tokens TokenVerifier, versions VersionSource, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			rejectToken(c)
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			log.WithError(err).WithField("path", c.Request.URL.Path).Debug("token rejected")
			rejectToken(c)
			return
		}

		current, err := versions.TokenVersion(c.Request.Context(), claims.AccountID)
		if err != nil {
			if errors.Is(err, errno.ErrAccountNotFound) {
				rejectToken(c)
				return
			}
			log.WithError(err).WithField("account_id", claims.AccountID).Error("failed to read token version")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
			return
		}
		if current != claims.Version {
			rejectToken(c)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func rejectToken(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errno.ErrInvalidToken.Msg})
}

// Claims returns the identity attached by AuthMiddleware.
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

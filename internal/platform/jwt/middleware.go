package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/feature/auth/domain"
	"blog_backend/internal/feature/auth/domain/entity"
)

// bearerPattern matches "Bearer <token>" with a case-insensitive scheme.
var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(\S+)\s*$`)

// TokenVerifier verifies raw bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// UserFinder resolves a token subject to a live user record.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// unauthorizedBody is the single rejection body. It never says why.
var unauthorizedBody = gin.H{"success": false, "message": "Unauthorized"}

// AuthRequired returns a Gin middleware that admits only requests carrying a
// valid bearer token whose subject still exists. On success the public user
// view and the claims are stored in the request context (see CurrentUser).
//
// Token and lookup failures answer 401; storage failures answer 500 so that
// operational problems stay distinguishable from authentication failures.
func AuthRequired(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract the bearer token
		m := bearerPattern.FindStringSubmatch(c.GetHeader("Authorization"))
		if m == nil {
			slog.Debug("auth rejected", "reason", "missing bearer token", "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}
		raw := m[1]

		// 2. Verify signature and claims
		claims, err := tokens.Verify(raw)
		if err != nil {
			slog.Debug("auth rejected", "reason", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		// 3. Resolve the subject to a live user
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				slog.Debug("auth rejected", "reason", "user not found", "user_id", userID)
				c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
				return
			}
			slog.Error("auth user lookup failed", "error", err, "user_id", userID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error",
			})
			return
		}

		// 4. Attach identity and continue
		ctx := WithIdentity(c.Request.Context(), Identity{
			User:   user.Public(),
			Claims: claims,
			Token:  raw,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

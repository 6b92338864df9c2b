package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/taskhub-api/internal/domain/repository"
	"github.com/taskhub/taskhub-api/pkg/helpers"
	"github.com/taskhub/taskhub-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// RequireAuth validates the bearer token and re-confirms the subject still
// exists, so stale tokens for deleted accounts are rejected. On success the
// verified identity is set on the Gin context under CtxUserIDKey and
// CtxUserEmailKey. Each failure mode carries its own message.
func RequireAuth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "No token provided", nil)
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				response.AbortError(c, http.StatusUnauthorized, "Token expired", nil)
				return
			}
			response.AbortError(c, http.StatusUnauthorized, "Invalid token", nil)
			return
		}

		if _, err := users.GetByID(c.Request.Context(), claims.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.AbortError(c, http.StatusUnauthorized, "User account no longer exists", nil)
				return
			}
			response.AbortError(c, http.StatusInternalServerError, "something went wrong", nil)
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Anything else, including a lowercase scheme or a missing token,
// does not count.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" || strings.ContainsRune(token, ' ') {
		return "", false
	}
	return token, true
}

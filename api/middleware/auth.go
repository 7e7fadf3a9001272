package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"todoai-api/internal/common"
	"todoai-api/internal/user"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// UserLookup resolves the user a bearer token belongs to
type UserLookup interface {
	GetUser(ctx context.Context, id common.UserID) (*user.User, error)
}

// BearerAuth treats the bearer token as the user id. Unknown users are
// rejected with 401.
func BearerAuth(users UserLookup, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		u, err := users.GetUser(c.Request.Context(), common.UserID(token))
		if err != nil {
			var notFound common.NotFoundError
			if errors.As(err, &notFound) {
				abortUnauthorized(c, "invalid bearer token")
				return
			}
			LoggerFrom(c, log).Errorw("Failed to authenticate request", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "INTERNAL", "message": "internal server error"},
			})
			return
		}

		c.Set(userIDKey, u.ID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by BearerAuth
func UserID(c *gin.Context) common.UserID {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(common.UserID); ok {
			return id
		}
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}

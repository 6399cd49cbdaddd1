package middleware

import (
	"context"
	"strings"

	autherrors "github.com/dilinamewan/Employee-Directory/internal/auth/errors"
	"github.com/dilinamewan/Employee-Directory/internal/domain"
	"github.com/dilinamewan/Employee-Directory/internal/shared/apperror"
	"github.com/dilinamewan/Employee-Directory/internal/shared/contextutil"
	"github.com/dilinamewan/Employee-Directory/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const AccessTokenCookie = "access_token"

// Gin context keys set by AuthMiddleware.
const (
	ContextUserID      = "user_id"
	ContextRole        = "role"
	ContextAccessToken = "access_token"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (domain.Claims, error)
}

// BearerToken reads the access token from the Authorization header, falling
// back to the access_token cookie.
func BearerToken(c *gin.Context) string {
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && token != "" {
		return token
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abortWithError(c, autherrors.ErrTokenNotFound)
			return
		}

		claims, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextAccessToken, token)
		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(contextutil.WithRole(ctx, claims.Role))

		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}

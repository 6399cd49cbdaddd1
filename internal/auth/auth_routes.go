package auth

import (
	"github.com/dilinamewan/Employee-Directory/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	verifier middleware.TokenVerifier,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	auth := r.Group("/auth")
	auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)

	authed := auth.Group("")
	authed.Use(middleware.AuthMiddleware(verifier))
	authed.Use(middleware.ContextLogger(logger))
	{
		authed.GET("/me", middleware.RateLimitByUser(2, 5), handler.Me)
		authed.POST("/logout", middleware.RateLimitByUser(2, 5), handler.Logout)
		authed.POST("/register",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "user", "create"),
			handler.Register,
		)
	}
}

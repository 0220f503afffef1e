// Package router assembles the gin engine: global middleware, operational
// endpoints and the /api/v1 routes.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SuwethaV/bookreview/internal/infrastructure/config"
	"github.com/SuwethaV/bookreview/internal/interface/http/handler"
	"github.com/SuwethaV/bookreview/internal/interface/http/middleware"
	"github.com/SuwethaV/bookreview/pkg/metrics"
	"github.com/SuwethaV/bookreview/pkg/response"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Book    *handler.BookHandler
	Review  *handler.ReviewHandler
	Profile *handler.ProfileHandler
}

// New builds the engine. Reads are public; every mutation and the
// profile sit behind RequireAuth.
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.Tracing(),
		metrics.Middleware(),
		middleware.CORS(cfg.CORS),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", metrics.Handler())

	// API docs are not served in release builds
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", auth.RequireAuth(), h.Auth.Logout)
		}

		profile := v1.Group("/profile", auth.RequireAuth())
		{
			profile.GET("", h.Profile.GetProfile)
			profile.PUT("", h.Profile.UpdateProfile)
		}

		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)
			books.POST("", auth.RequireAuth(), h.Book.CreateBook)
			books.PUT("/:id", auth.RequireAuth(), h.Book.UpdateBook)
			books.DELETE("/:id", auth.RequireAuth(), h.Book.DeleteBook)
		}

		v1.POST("/reviews", auth.RequireAuth(), h.Review.AddReview)
	}

	return r
}

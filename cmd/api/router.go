package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authorHandler "bookapi-backend/internal/domains/author/handler"
	bookHandler "bookapi-backend/internal/domains/book/handler"
	"bookapi-backend/internal/shared/middleware"
	"bookapi-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.OptionalAuth(c.JWTManager))
	{
		api.GET("/health", healthCheckHandler(c))
		api.POST("/login_check", c.UserHandler.Login)

		setupBookRoutes(api, c)
		setupAuthorRoutes(api, c)
	}

	return router
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBookDetail)

		books.POST("", auth, middleware.AdminMiddleware(bookHandler.ForbiddenCreate), c.BookHandler.CreateBook)
		books.PUT("/:id", auth, middleware.AdminMiddleware(bookHandler.ForbiddenUpdate), c.BookHandler.UpdateBook)
		books.DELETE("/:id", auth, middleware.AdminMiddleware(bookHandler.ForbiddenDelete), c.BookHandler.DeleteBook)
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	authors := api.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/:id", c.AuthorHandler.GetByID)

		authors.POST("", auth, middleware.AdminMiddleware(authorHandler.ForbiddenCreate), c.AuthorHandler.Create)
		authors.PUT("/:id", auth, middleware.AdminMiddleware(authorHandler.ForbiddenUpdate), c.AuthorHandler.Update)
		authors.DELETE("/:id", auth, middleware.AdminMiddleware(authorHandler.ForbiddenDelete), c.AuthorHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================

// healthCheckHandler reports 503 only when the database is down; Redis
// being down degrades the service without breaking it.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		statusCode := http.StatusOK
		services := gin.H{}

		for name, checker := range appCtx.HealthChecks {
			if err := checker.HealthCheck(ctx); err != nil {
				services[name] = "error: " + err.Error()
				status = "degraded"
				if name == "database" {
					statusCode = http.StatusServiceUnavailable
				}
				continue
			}
			services[name] = "ok"
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}

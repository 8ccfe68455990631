package app

import (
	"github.com/pawell24/TimeTracker/internal/auth"
	"github.com/pawell24/TimeTracker/internal/cache"
	"github.com/pawell24/TimeTracker/internal/config"
	"github.com/pawell24/TimeTracker/internal/handlers"
	"github.com/pawell24/TimeTracker/internal/repo"
	"github.com/pawell24/TimeTracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	secret := []byte(cfg.Auth.Secret)
	confirmTokens := auth.NewTokenStore(rdb, cfg.Auth.ConfirmTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, confirmTokens, secret, cfg.Auth.TokenTTL.Duration())
	authHandler := handlers.NewAuthHandler(userSvc, cfg.App.BaseURL)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireAuth(secret))
	workRepo := repo.NewPGWorkRepo(db)
	reportCache := cache.NewReportCache(rdb, cfg.Redis.DefaultTTL.Duration())
	workSvc := service.NewWorkService(userRepo, workRepo, reportCache)
	workHandler := handlers.NewWorkHandler(workSvc)
	registerWorkRoutes(protected, workHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "TimeTracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.GET("/auth/confirm", h.Confirm)
	api.POST("/auth/login", h.Login)
}

func registerWorkRoutes(api *gin.RouterGroup, h *handlers.WorkHandler) {
	api.POST("/work/start", h.Start)
	api.POST("/work/stop", h.Stop)
	api.GET("/work/status", h.Status)
	api.GET("/work/total-working-time-by-day", h.TotalByDay)
	api.GET("/work/total-working-time-for-all-users", h.TotalAllUsers)
}

package api

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scientifictooffi/itransition-4task/internal/api/handler"
	"github.com/scientifictooffi/itransition-4task/internal/api/middleware"
	"github.com/scientifictooffi/itransition-4task/internal/core/service"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/config"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/db/postgres"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/db/redis"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *sql.DB, rdb *goredis.Client, mailQueue *queue.Dispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.BodyLimit("256K"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("task4"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	sessionStore := redis.NewSessionStore(rdb)
	sessions := middleware.NewSessionManager(sessionStore, userRepo, cfg.SessionSecret, cfg.IsProduction(), log)

	authService := service.NewAuthService(userRepo, mailQueue, cfg.PublicAPIURL)
	userService := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authService, sessions)
	userHandler := handler.NewUserHandler(userService)
	gate := sessions.Gate()

	// --- Auth & lifecycle routes ---
	g := e.Group("/api")
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.GET("/verify", authHandler.Verify)
	g.POST("/logout", authHandler.Logout, gate)
	g.GET("/me", authHandler.Me, gate)

	// --- Administration routes ---
	users := g.Group("/users", gate)
	users.GET("", userHandler.List)
	users.POST("/block", userHandler.Block)
	users.POST("/unblock", userHandler.Unblock)
	users.POST("/delete", userHandler.Delete)
	users.POST("/delete-unverified", userHandler.DeleteUnverified)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

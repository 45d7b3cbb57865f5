package router

import (
	"context"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/activity"
	"github.com/anonto42/bookmarks/backend/internal/handlers"
	"github.com/anonto42/bookmarks/backend/internal/middleware"
	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
	"github.com/anonto42/bookmarks/backend/pkg/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	if len(cfg.CORSAllowOrigins) > 0 {
		e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowCredentials: true,
		}))
	} else {
		e.Use(eMiddleware.CORS())
	}
	log.Debug().Msg("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB) {
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.SQL)
	profileRepo := repositories.NewPostgresProfileRepository(db.SQL)
	contactRepo := repositories.NewPostgresContactRepository(db.SQL)
	actionRepo := newActionRepository(cfg, db)

	// --- Activity ---
	targets := activity.NewRegistry()
	targets.Register(models.TargetUser, activity.UserResolver(userRepo))
	recorder := activity.NewRecorder(actionRepo, cfg.ActionDedupeWindow)
	feed := activity.NewFeed(actionRepo, contactRepo, userRepo, targets)

	// --- Unprotected routes for authentication ---
	account := e.Group("/account")
	authHandler := handlers.NewAuthHandler(userRepo, recorder, handlers.SessionConfig{
		Secret:     cfg.JWTSecret,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.IsProduction(),
	})
	var loginMiddleware []echo.MiddlewareFunc
	if db.Redis != nil {
		limiter := middleware.NewRateLimiter(db.Redis, middleware.RateLimitConfig{
			Window:    cfg.LoginRateWindow,
			Limit:     cfg.LoginRateLimit,
			KeyPrefix: "ratelimit:login",
		})
		loginMiddleware = append(loginMiddleware, limiter.Middleware())
		log.Info().Int("limit", cfg.LoginRateLimit).Dur("window", cfg.LoginRateWindow).Msg("Login rate limiting enabled.")
	}
	authHandler.RegisterAuthRoutes(account, loginMiddleware...)
	log.Debug().Msg("Auth routes configured.")

	// --- Protected routes (require a session) ---
	protected := e.Group("/account", middleware.JWTAuthMiddleware(cfg.JWTSecret, cfg.SessionCookie))

	handlers.NewFeedHandler(feed).RegisterFeedRoutes(protected)
	handlers.NewUserHandler(userRepo, profileRepo, contactRepo).RegisterProfileRoutes(protected)
	handlers.NewFollowHandler(contactRepo, userRepo, recorder).RegisterFollowRoutes(protected)

	log.Info().Str("action_store", cfg.ActionStore).Msg("All routes configured.")
}

func newActionRepository(cfg *config.Config, db *config.DB) repositories.ActionRepository {
	if cfg.ActionStore != config.ActionStoreMongo || db.Mongo == nil {
		return repositories.NewPostgresActionRepository(db.SQL)
	}

	repo := repositories.NewMongoActionRepository(db.Mongo.Database(cfg.MongoDatabase))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create action indexes")
	}
	return repo
}

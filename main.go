package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lifetrack/lifetrack-api/config"
	"github.com/lifetrack/lifetrack-api/handlers"
	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/routes"
	"github.com/lifetrack/lifetrack-api/services"
	"github.com/lifetrack/lifetrack-api/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := utils.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		log.Fatal("JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	if len(cfg.DataEncryptionKey) != 32 {
		log.Fatal("DATA_ENCRYPTION_KEY must be exactly 32 bytes")
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := config.RunMigrations(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("database ready")

	scheduleSweeper(db, cfg.AICacheTTL, log)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimiter(cfg.RateLimit, cfg.RateWindow))

	r.GET("/health", handlers.Health(cfg.Variant, db.Ping))

	tokens := utils.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	routes.Setup(r, db, cfg, tokens, log)

	log.WithFields(logrus.Fields{"port": cfg.Port, "variant": cfg.Variant}).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// scheduleSweeper periodically clears expired AI cache rows and sessions.
func scheduleSweeper(db *sql.DB, ttl time.Duration, log *logrus.Logger) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := services.CleanExpiredCache(ctx, db, ttl)
			cancel()
			if err != nil {
				log.WithError(err).Warn("cache sweep failed")
				continue
			}
			if removed > 0 {
				log.WithField("removed", removed).Debug("swept expired ai cache rows")
			}
		}
	}()
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}).Info("request")
	}
}

package main

import (
	"AuthGate/middleware"
	"AuthGate/pkg/config"
	"AuthGate/pkg/database"
	tokenstore "AuthGate/pkg/token"
	"AuthGate/routes"
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// config is loaded by init of pkg/config

	db, err := database.Open(config.DBDriver, config.DatabaseDSN)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	// revocation backend is chosen once here and shared by every handler
	store, err := tokenstore.NewStore(context.Background(), tokenstore.Options{
		Backend:  tokenstore.Mode(config.RevocationBackend),
		RedisURL: config.RedisURL,
		Timeout:  time.Duration(config.RevocationTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		logrus.Fatalf("failed to init revocation store: %v", err)
	}
	defer store.Close()

	issuer := tokenstore.NewIssuer(config.JWTSecret, time.Duration(config.AccessTokenTTLMinutes)*time.Minute)
	middleware.SetRateLimitConfig(time.Duration(config.RateLimitWindowSeconds)*time.Second, config.RateLimitCapacity)

	if config.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, issuer, store)
	if err := r.Run(":" + config.Port); err != nil {
		logrus.WithError(err).Error("server stopped")
	}
}

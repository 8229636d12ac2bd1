package routes

import (
	"AuthGate/controllers"
	"AuthGate/middleware"
	tokenstore "AuthGate/pkg/token"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authRoutes "AuthGate/routes/auth"
	profileRoutes "AuthGate/routes/profile"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, issuer *tokenstore.Issuer, store tokenstore.Store) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "Go auth backend running"})
	})
	r.GET("/health", controllers.Health(store))

	public := r.Group("/auth")
	public.Use(middleware.RateLimit())
	authRoutes.RegisterPublic(public, db, issuer)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(issuer, store))
	authRoutes.RegisterProtected(protected, db, issuer, store)
	profileRoutes.Register(protected, db)
}

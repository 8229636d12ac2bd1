package auth

import (
	"AuthGate/controllers"
	tokenstore "AuthGate/pkg/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterPublic registers public auth routes on the /auth group: register, login
func RegisterPublic(g *gin.RouterGroup, db *gorm.DB, issuer *tokenstore.Issuer) {
	g.POST("/register", controllers.Register(db))
	g.POST("/login", controllers.Login(db, issuer))
}

// RegisterProtected registers routes that need a live token: logout, refresh
func RegisterProtected(g *gin.RouterGroup, db *gorm.DB, issuer *tokenstore.Issuer, store tokenstore.Store) {
	g.POST("/auth/logout", controllers.Logout(store))
	g.POST("/auth/refresh", controllers.Refresh(db, issuer, store))
}

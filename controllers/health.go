package controllers

import (
	tokenstore "AuthGate/pkg/token"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports which revocation backend is active so a memory fallback is
// visible to operators.
func Health(store tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "revocation_backend": store.Mode()})
	}
}

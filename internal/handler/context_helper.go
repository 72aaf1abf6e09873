package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/catequesis-api/internal/middleware"
	"github.com/noah-isme/catequesis-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext returns the authenticated user's identity for history
// entries, falling back to the payload actor when the route is unprotected.
func actorFromContext(c *gin.Context, fallback string) string {
	if claims := claimsFromContext(c); claims != nil {
		if claims.Email != "" {
			return claims.Email
		}
		return claims.UserID
	}
	return fallback
}

package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medeasy/internal/models"
)

// RequireRole checks the stored role of the authenticated user against
// requiredRole. It must run after VerifyToken. The forbidden payload
// includes the role that was actually found, for client-side diagnostics.
// Roles do not nest: each route names exactly the role it needs.
func RequireRole(db *mongo.Database, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		emailValue, ok := c.Get(ContextEmailKey)
		if !ok {
			log.Println("[ROLE] [ERROR] email missing in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}
		email, _ := emailValue.(string)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			log.Println("[ROLE] [ERROR] no user record for:", email)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "role": ""})
			return
		}
		if err != nil {
			log.Println("[ROLE] [ERROR] role lookup failed:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if user.Role != requiredRole {
			log.Printf("[ROLE] [ERROR] %s has role %q, route needs %q", email, user.Role, requiredRole)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "role": user.Role})
			return
		}

		c.Next()
	}
}

func RequireAdmin(db *mongo.Database) gin.HandlerFunc {
	return RequireRole(db, models.RoleAdmin)
}

func RequireSeller(db *mongo.Database) gin.HandlerFunc {
	return RequireRole(db, models.RoleSeller)
}

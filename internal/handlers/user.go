package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"medeasy/internal/models"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
	Role  string `json:"role"`
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// CreateUser handles POST /user. Registration is idempotent on email:
// a second registration with the same email answers 200 without inserting.
func CreateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user"
		defer handlePanic(c, route)

		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := normalizeEmail(req.Email)
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		role := strings.TrimSpace(req.Role)
		if role == "" {
			role = models.RoleBuyer
		}
		if !models.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[USER] [ERROR] register lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusOK, gin.H{"message": "User already exists"})
			return
		}

		user := models.User{
			Name:      strings.TrimSpace(req.Name),
			Email:     email,
			Role:      role,
			CreatedAt: time.Now(),
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusOK, gin.H{"message": "User already exists"})
				return
			}
			log.Println("[USER] [ERROR] register insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		user.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[USER] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, user)
	}
}

// GetUsers handles GET /users (admin only).
func GetUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// UpdateUserRole handles PATCH /users/role/:id (admin only). Setting a
// role to its current value succeeds without error.
func UpdateUserRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		role := strings.TrimSpace(req.Role)
		if !models.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("users").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"role": role}},
		)
		if err != nil {
			log.Println("[USER] [ERROR] role update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		log.Printf("[USER] [INFO] role of %s set to %s", id.Hex(), role)
		c.JSON(http.StatusOK, gin.H{"matchedCount": result.MatchedCount, "modifiedCount": result.ModifiedCount})
	}
}

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

type addCartItemRequest struct {
	MedicineID   string  `json:"medicineId" binding:"required"`
	MedicineName string  `json:"medicineName"`
	Seller       string  `json:"seller"`
	Price        float64 `json:"price"`
}

type updateCartItemRequest struct {
	Quantity *int     `json:"quantity"`
	Subtotal *float64 `json:"subtotal"`
}

// AddCartItem handles POST /carts. Quantity and subtotal always start at
// zero regardless of the body. A second add of the same medicine by the
// same user answers 409 and leaves exactly one document in place.
func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /carts"
		defer handlePanic(c, route)

		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		medicineID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.MedicineID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medicineId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("carts").CountDocuments(ctx, bson.M{
			"medicineId": medicineID,
			"userEmail":  email,
		})
		if err != nil {
			log.Println("[CART] [ERROR] duplicate lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Already in cart"})
			return
		}

		item := models.CartItem{
			MedicineID:   medicineID,
			UserEmail:    email,
			MedicineName: strings.TrimSpace(req.MedicineName),
			Seller:       normalizeEmail(req.Seller),
			Price:        req.Price,
			Quantity:     0,
			Subtotal:     0,
			CreatedAt:    time.Now(),
		}

		res, err := db.Collection("carts").InsertOne(ctx, item)
		if err != nil {
			// The unique (medicineId, userEmail) index closes the race the
			// CountDocuments check leaves open.
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Already in cart"})
				return
			}
			log.Println("[CART] [ERROR] insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		item.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[CART] [INFO] cart item added for:", email)
		c.JSON(http.StatusCreated, item)
	}
}

// GetCartItems handles GET /carts, listing the authenticated user's cart.
// An ?email= naming anyone but the token identity is refused, never honored.
func GetCartItems(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /carts"
		defer handlePanic(c, route)

		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}
		if q := normalizeEmail(c.Query("email")); q != "" && q != email {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("carts").Find(ctx, bson.M{"userEmail": email})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		items := []models.CartItem{}
		if err := cursor.All(ctx, &items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// UpdateCartItem handles PATCH /carts/:id, adjusting quantity and subtotal.
func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.Quantity != nil {
			if *req.Quantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quantity cannot be negative"})
				return
			}
			update["quantity"] = *req.Quantity
		}
		if req.Subtotal != nil {
			if *req.Subtotal < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "subtotal cannot be negative"})
				return
			}
			update["subtotal"] = *req.Subtotal
		}
		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("carts").UpdateOne(
			ctx,
			bson.M{"_id": id, "userEmail": email},
			bson.M{"$set": update},
		)
		if err != nil {
			log.Println("[CART] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"matchedCount": result.MatchedCount, "modifiedCount": result.ModifiedCount})
	}
}

// DeleteCartItem handles DELETE /carts/:id.
func DeleteCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("carts").DeleteOne(ctx, bson.M{"_id": id, "userEmail": email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"deletedCount": result.DeletedCount})
	}
}

// ClearCart handles DELETE /carts, removing every item of the
// authenticated user's cart. As with GetCartItems, a mismatching ?email=
// is refused.
func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}
		if q := normalizeEmail(c.Query("email")); q != "" && q != email {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("carts").DeleteMany(ctx, bson.M{"userEmail": email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Printf("[CART] [INFO] cleared %d items for %s", result.DeletedCount, email)
		c.JSON(http.StatusOK, gin.H{"deletedCount": result.DeletedCount})
	}
}

package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"medeasy/internal/models"
)

type checkoutItemRequest struct {
	MedicineID string  `json:"medicineId" binding:"required"`
	Name       string  `json:"name"`
	Seller     string  `json:"seller"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity" binding:"required"`
	Subtotal   float64 `json:"subtotal"`
}

type checkoutRequest struct {
	Items      []checkoutItemRequest `json:"items" binding:"required"`
	GrandTotal float64               `json:"grandTotal" binding:"required"`
}

// CreateCheckout handles POST /checkout, capturing a staging snapshot of
// the cart. The snapshot is deleted again when the payment settles.
func CreateCheckout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one item is required"})
			return
		}
		if req.GrandTotal <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "grandTotal must be greater than zero"})
			return
		}

		items := make([]models.CheckoutItem, 0, len(req.Items))
		for _, item := range req.Items {
			medicineID, err := primitive.ObjectIDFromHex(item.MedicineID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medicineId"})
				return
			}
			if item.Quantity <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be greater than zero"})
				return
			}
			items = append(items, models.CheckoutItem{
				MedicineID: medicineID,
				Name:       item.Name,
				Seller:     normalizeEmail(item.Seller),
				Price:      item.Price,
				Quantity:   item.Quantity,
				Subtotal:   item.Subtotal,
			})
		}

		record := models.CheckoutRecord{
			UserEmail:  email,
			Items:      items,
			GrandTotal: req.GrandTotal,
			CreatedAt:  time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("checkout").InsertOne(ctx, record)
		if err != nil {
			log.Println("[CHECKOUT] [ERROR] insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		record.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[CHECKOUT] [INFO] checkout staged for:", email)
		c.JSON(http.StatusCreated, record)
	}
}

package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"medeasy/internal/models"
)

type paymentIntentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// amountToCents converts a store-currency amount to integer cents.
// Rounding, not truncation: 19.99 is not representable exactly and
// 19.99*100 can land just under 1999.
func amountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type paymentItemRequest struct {
	MedicineID string  `json:"medicineId" binding:"required"`
	Name       string  `json:"name"`
	Seller     string  `json:"seller" binding:"required"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity" binding:"required"`
}

type createPaymentRequest struct {
	Items      []paymentItemRequest `json:"items" binding:"required"`
	Amount     float64              `json:"amount" binding:"required"`
	Status     string               `json:"status"`
	PaymentRef string               `json:"paymentRef"`
}

type updatePaymentRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreatePaymentIntent handles POST /create-payment-intent. The amount is
// in the store currency; Stripe wants cents.
func CreatePaymentIntent() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		var req paymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than zero"})
			return
		}

		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(amountToCents(req.Amount)),
			Currency: stripe.String(string(stripe.CurrencyUSD)),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
			Metadata: map[string]string{
				"email": email,
			},
		}

		intent, err := paymentintent.New(params)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] stripe intent failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment provider error"})
			return
		}

		log.Printf("[PAYMENT] [INFO] intent %s created for %s", intent.ID, email)
		c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
	}
}

// CreatePayment handles POST /payments by running the settlement workflow:
// the payment insert and the cart/checkout cleanup land atomically.
func CreatePayment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments"
		defer handlePanic(c, route)

		email, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		items := make([]models.PaymentItem, 0, len(req.Items))
		for _, item := range req.Items {
			medicineID, err := primitive.ObjectIDFromHex(item.MedicineID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medicineId"})
				return
			}
			items = append(items, models.PaymentItem{
				MedicineID: medicineID,
				Name:       item.Name,
				Seller:     normalizeEmail(item.Seller),
				Price:      item.Price,
				Quantity:   item.Quantity,
			})
		}

		payment := models.Payment{
			UserEmail:  email,
			Items:      items,
			Amount:     req.Amount,
			Status:     strings.TrimSpace(req.Status),
			PaymentRef: strings.TrimSpace(req.PaymentRef),
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		result, err := settlePayment(ctx, db, payment)
		if err != nil {
			var dupErr duplicatePaymentRefError
			if errors.As(err, &dupErr) {
				c.JSON(http.StatusConflict, gin.H{
					"error":      "payment already settled",
					"paymentRef": dupErr.PaymentRef,
				})
				return
			}
			var validationErr settlementValidationError
			if errors.As(err, &validationErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
				return
			}
			log.Println("[PAYMENT] [ERROR] settlement failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Printf("[PAYMENT] [INFO] settled %s for %s (carts=%d checkouts=%d)",
			result.Payment.PaymentRef, email, result.CartsCleared, result.CheckoutsCleared)
		c.JSON(http.StatusCreated, result.Payment)
	}
}

// GetPayments handles GET /payments (admin only). An optional ?email=
// query narrows the listing to one buyer.
func GetPayments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payments"
		defer handlePanic(c, route)

		filter := bson.M{}
		if email := normalizeEmail(c.Query("email")); email != "" {
			filter["userEmail"] = email
		}

		listPayments(c, db, filter, route)
	}
}

// GetSellerPayments handles GET /payments/seller (seller only), returning
// payments containing at least one of the caller's items.
func GetSellerPayments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payments/seller"
		defer handlePanic(c, route)

		seller, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		listPayments(c, db, bson.M{"items.seller": seller}, route)
	}
}

// UpdatePaymentStatus handles PATCH /payments/:id (admin only), moving a
// payment between states, typically pending to paid. A missing target is
// a plain 404, not a failure.
func UpdatePaymentStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.TrimSpace(req.Status)
		if !models.ValidPaymentStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment status"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("payments").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": status}},
		)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] status update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}

		log.Printf("[PAYMENT] [INFO] payment %s marked %s", id.Hex(), status)
		c.JSON(http.StatusOK, gin.H{"matchedCount": result.MatchedCount, "modifiedCount": result.ModifiedCount})
	}
}

func listPayments(c *gin.Context, db *mongo.Database, filter bson.M, route string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.Collection("payments").Find(ctx, filter)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "decode error")
		return
	}

	c.JSON(http.StatusOK, payments)
}

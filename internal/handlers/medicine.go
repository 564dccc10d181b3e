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

type createMedicineRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Company     string  `json:"company"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Discount    float64 `json:"discount"`
	ImageURL    string  `json:"imageUrl"`
}

// CreateMedicine handles POST /medicines (seller only). The seller field
// is taken from the authenticated identity, never from the body.
func CreateMedicine(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /medicines"
		defer handlePanic(c, route)

		seller, ok := emailFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		var req createMedicineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than zero"})
			return
		}
		if req.Discount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discount cannot be negative"})
			return
		}

		medicine := models.Medicine{
			Name:        strings.TrimSpace(req.Name),
			Seller:      seller,
			Category:    strings.TrimSpace(req.Category),
			Company:     strings.TrimSpace(req.Company),
			Description: strings.TrimSpace(req.Description),
			Price:       req.Price,
			Discount:    req.Discount,
			ImageURL:    strings.TrimSpace(req.ImageURL),
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("medicines").InsertOne(ctx, medicine)
		if err != nil {
			log.Println("[MEDICINE] [ERROR] insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		medicine.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[MEDICINE] [INFO] medicine created by:", seller)
		c.JSON(http.StatusCreated, medicine)
	}
}

// GetMedicines handles GET /medicines. An optional ?seller= query narrows
// the listing to one seller's inventory.
func GetMedicines(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if seller := normalizeEmail(c.Query("seller")); seller != "" {
			filter["seller"] = seller
		}
		listMedicines(c, db, filter, "GET /medicines")
	}
}

// GetRequestedMedicines handles GET /medicines/requested (admin only).
func GetRequestedMedicines(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		listMedicines(c, db, bson.M{"requested": true}, "GET /medicines/requested")
	}
}

// GetAdvertisedMedicines handles GET /medicines/advertised.
func GetAdvertisedMedicines(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		listMedicines(c, db, bson.M{"advertised": true}, "GET /medicines/advertised")
	}
}

// GetDiscountedMedicines handles GET /medicines/discounted.
func GetDiscountedMedicines(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		listMedicines(c, db, bson.M{"discount": bson.M{"$gt": 0}}, "GET /medicines/discounted")
	}
}

// GetMedicinesByCategory handles GET /medicines/category/:category.
func GetMedicinesByCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := strings.TrimSpace(c.Param("category"))
		if category == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
			return
		}
		listMedicines(c, db, bson.M{"category": category}, "GET /medicines/category")
	}
}

// RequestMedicine handles PATCH /medicines/request/:id (seller only).
// The requested flag only ever moves false to true.
func RequestMedicine(db *mongo.Database) gin.HandlerFunc {
	return setMedicineFlag(db, "requested", "PATCH /medicines/request")
}

// AdvertiseMedicine handles PATCH /medicines/advertise/:id (admin only).
// The advertised flag only ever moves false to true.
func AdvertiseMedicine(db *mongo.Database) gin.HandlerFunc {
	return setMedicineFlag(db, "advertised", "PATCH /medicines/advertise")
}

func setMedicineFlag(db *mongo.Database, flag, route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("medicines").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{flag: true}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "medicine not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"matchedCount": result.MatchedCount, "modifiedCount": result.ModifiedCount})
	}
}

func listMedicines(c *gin.Context, db *mongo.Database, filter bson.M, route string) {
	defer handlePanic(c, route)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.Collection("medicines").Find(ctx, filter)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}
	defer cursor.Close(ctx)

	medicines := []models.Medicine{}
	if err := cursor.All(ctx, &medicines); err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "decode error")
		return
	}

	c.JSON(http.StatusOK, medicines)
}

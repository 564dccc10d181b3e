package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

// EnsureCartIndexes enforces at most one cart entry per (medicineId, userEmail).
func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("carts").Indexes()

	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "medicineId", Value: 1},
			{Key: "userEmail", Value: 1},
		},
		Options: options.Index().
			SetName("medicine_user_unique").
			SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating medicine_user_unique index")
	_, err := indexes.CreateOne(ctx, pairIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: cart index error:", err)
		return err
	}
	return nil
}

// EnsurePaymentIndexes adds the userEmail lookup index and a sparse unique
// index on paymentRef so client-supplied refs make settlement retries
// at-most-once.
func EnsurePaymentIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("payments").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userEmail", Value: 1}},
			Options: options.Index().SetName("userEmail_index"),
		},
		{
			Keys: bson.D{{Key: "paymentRef", Value: 1}},
			Options: options.Index().
				SetName("paymentRef_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"paymentRef": bson.M{
						"$exists": true,
					},
				}),
		},
	}

	log.Println("EnsurePaymentIndexes: creating payment indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsurePaymentIndexes: payment index error:", err)
		return err
	}
	return nil
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("categories").Indexes()

	nameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
		Options: options.Index().
			SetName("name_unique").
			SetUnique(true),
	}

	log.Println("EnsureCategoryIndexes: creating name_unique index")
	_, err := indexes.CreateOne(ctx, nameIndex)
	if err != nil {
		log.Println("EnsureCategoryIndexes: category index error:", err)
		return err
	}
	return nil
}

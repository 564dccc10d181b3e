package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a single medicine placed in a user's cart. At most one
// document may exist per (medicineId, userEmail) pair; the compound
// unique index enforces it.
type CartItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MedicineID   primitive.ObjectID `bson:"medicineId" json:"medicineId"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	MedicineName string             `bson:"medicineName,omitempty" json:"medicineName,omitempty"`
	Seller       string             `bson:"seller,omitempty" json:"seller,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Subtotal     float64            `bson:"subtotal" json:"subtotal"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

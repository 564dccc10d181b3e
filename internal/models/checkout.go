package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutItem mirrors a cart line at the moment of checkout.
type CheckoutItem struct {
	MedicineID primitive.ObjectID `bson:"medicineId" json:"medicineId"`
	Name       string             `bson:"name" json:"name"`
	Seller     string             `bson:"seller" json:"seller"`
	Price      float64            `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Subtotal   float64            `bson:"subtotal" json:"subtotal"`
}

// CheckoutRecord is a transient snapshot of cart contents captured before
// payment. It is deleted when the payment for its user settles.
type CheckoutRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail  string             `bson:"userEmail" json:"userEmail"`
	Items      []CheckoutItem     `bson:"items" json:"items"`
	GrandTotal float64            `bson:"grandTotal" json:"grandTotal"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

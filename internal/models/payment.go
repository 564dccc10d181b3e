package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// PaymentItem is one purchased line inside a payment. Each line carries
// the seller's email so seller dashboards can find their sales.
type PaymentItem struct {
	MedicineID primitive.ObjectID `bson:"medicineId" json:"medicineId"`
	Name       string             `bson:"name" json:"name"`
	Seller     string             `bson:"seller" json:"seller"`
	Price      float64            `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

// Payment is the persisted record of a settled checkout.
type Payment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail  string             `bson:"userEmail" json:"userEmail"`
	Items      []PaymentItem      `bson:"items" json:"items"`
	Amount     float64            `bson:"amount" json:"amount"`
	Status     string             `bson:"status" json:"status"`
	PaymentRef string             `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidPaymentStatus reports whether status is a known payment state.
func ValidPaymentStatus(status string) bool {
	return status == PaymentPending || status == PaymentPaid
}

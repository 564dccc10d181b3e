package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Medicine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Seller      string             `bson:"seller" json:"seller"`
	Category    string             `bson:"category" json:"category"`
	Company     string             `bson:"company,omitempty" json:"company,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Discount    float64            `bson:"discount" json:"discount"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Requested   bool               `bson:"requested" json:"requested"`
	Advertised  bool               `bson:"advertised" json:"advertised"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"medeasy/internal/models"
)

// settlementResult reports what the settlement transaction did.
type settlementResult struct {
	Payment          models.Payment
	CartsCleared     int64
	CheckoutsCleared int64
}

type duplicatePaymentRefError struct {
	PaymentRef string
}

func (e duplicatePaymentRefError) Error() string {
	return "payment already settled"
}

type settlementValidationError struct {
	Reason string
}

func (e settlementValidationError) Error() string {
	return e.Reason
}

// validateSettlement checks the payment payload before any write happens.
func validateSettlement(payment models.Payment) error {
	if strings.TrimSpace(payment.UserEmail) == "" {
		return settlementValidationError{Reason: "userEmail is required"}
	}
	if len(payment.Items) == 0 {
		return settlementValidationError{Reason: "at least one item is required"}
	}
	if payment.Amount <= 0 {
		return settlementValidationError{Reason: "amount must be greater than zero"}
	}
	for _, item := range payment.Items {
		if item.Quantity <= 0 {
			return settlementValidationError{Reason: "quantity must be greater than zero"}
		}
	}
	if payment.Status != "" && !models.ValidPaymentStatus(payment.Status) {
		return settlementValidationError{Reason: "unknown payment status"}
	}
	return nil
}

// settlePayment records the payment and clears the user's cart and checkout
// staging rows in one transaction, so a failure partway through leaves no
// payment without cleanup. A client-supplied paymentRef hits the unique
// sparse index on retry and surfaces as duplicatePaymentRefError; without
// one a fresh ref is generated and a second settlement simply finds nothing
// left to clear.
func settlePayment(ctx context.Context, db *mongo.Database, payment models.Payment) (settlementResult, error) {
	if err := validateSettlement(payment); err != nil {
		return settlementResult{}, err
	}

	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}
	if strings.TrimSpace(payment.PaymentRef) == "" {
		payment.PaymentRef = uuid.NewString()
	}
	payment.UserEmail = normalizeEmail(payment.UserEmail)
	payment.CreatedAt = time.Now()

	session, err := db.Client().StartSession()
	if err != nil {
		return settlementResult{}, err
	}
	defer session.EndSession(ctx)

	var result settlementResult
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := db.Collection("payments").InsertOne(sessCtx, payment)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, duplicatePaymentRefError{PaymentRef: payment.PaymentRef}
			}
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			payment.ID = id
		}

		carts, err := db.Collection("carts").DeleteMany(sessCtx, bson.M{"userEmail": payment.UserEmail})
		if err != nil {
			return nil, err
		}

		checkouts, err := db.Collection("checkout").DeleteMany(sessCtx, bson.M{"userEmail": payment.UserEmail})
		if err != nil {
			return nil, err
		}

		result = settlementResult{
			Payment:          payment,
			CartsCleared:     carts.DeletedCount,
			CheckoutsCleared: checkouts.DeletedCount,
		}
		return nil, nil
	})
	if err != nil {
		return settlementResult{}, err
	}

	return result, nil
}

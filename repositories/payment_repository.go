package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/config"
	"github.com/madrasa-platform/madrasa_backend/models"
)

// ErrPaymentNotFound is returned when a payment id matches nothing.
var ErrPaymentNotFound = fmt.Errorf("payment not found")

type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Client) *PaymentRepository {
	return &PaymentRepository{
		collection: config.GetCollection(db, "payments"),
	}
}

// Insert stores a new payment proof.
func (r *PaymentRepository) Insert(payment models.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// FindByID returns the payment with the given id.
func (r *PaymentRepository) FindByID(paymentID primitive.ObjectID) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": paymentID}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}

// ListPending returns every payment awaiting review.
func (r *PaymentRepository) ListPending() ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"status": models.PaymentStatusPending})
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

// Decide records an admin decision on a pending payment.
func (r *PaymentRepository) Decide(paymentID, reviewerID primitive.ObjectID, status, note string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": paymentID, "status": models.PaymentStatusPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"note":       note,
			"reviewedBy": reviewerID,
			"updatedAt":  time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

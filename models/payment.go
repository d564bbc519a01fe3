package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// Payment is a student-submitted payment proof awaiting admin review.
type Payment struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	CourseID     primitive.ObjectID `json:"courseId" bson:"courseId"`
	Amount       float64            `json:"amount" bson:"amount"`
	ProofURL     string             `json:"proofUrl" bson:"proofUrl"`
	ThumbnailURL string             `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Status       string             `json:"status" bson:"status"`
	Note         string             `json:"note,omitempty" bson:"note,omitempty"`
	ReviewedBy   primitive.ObjectID `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PaymentDecisionRequest is the body of the admin approve/reject endpoint.
type PaymentDecisionRequest struct {
	Note string `json:"note"`
}

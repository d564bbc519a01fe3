package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeConfirmation       = "confirmation"
	NotificationTypePaymentSubmitted   = "payment_submitted"
	NotificationTypePaymentApproved    = "payment_approved"
	NotificationTypePaymentRejected    = "payment_rejected"
	NotificationTypeCourseEnrolled     = "course_enrolled"
	NotificationTypeCourseActivated    = "course_activated"
	NotificationTypeNewVideoAdded      = "new_video_added"
	NotificationTypeNewExamAdded       = "new_exam_added"
	NotificationTypeCourseUpdated      = "course_updated"
	NotificationTypeSystemAnnouncement = "system_announcement"
	NotificationTypeGeneral            = "general"
	NotificationTypeAlert              = "alert"
)

// Notification priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification categories
const (
	CategoryFinancial     = "financial"
	CategoryAcademic      = "academic"
	CategorySystem        = "system"
	CategoryCommunication = "communication"
)

// ConfirmationPayload carries the extra data present only on
// confirmation-type notifications.
type ConfirmationPayload struct {
	Code  string `json:"code" bson:"code"`
	QRUrl string `json:"qrUrl,omitempty" bson:"qrUrl,omitempty"`
}

// Notification model
type Notification struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID   `json:"userId" bson:"userId"`
	Type         string               `json:"type" bson:"type"`
	Title        string               `json:"title" bson:"title"`
	Message      string               `json:"message" bson:"message"`
	Priority     string               `json:"priority" bson:"priority"`
	Category     string               `json:"category,omitempty" bson:"category,omitempty"`
	Read         bool                 `json:"read" bson:"read"`
	ReadAt       *time.Time           `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	ExpiresAt    *time.Time           `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	Confirmation *ConfirmationPayload `json:"confirmation,omitempty" bson:"confirmation,omitempty"`
	Data         interface{}          `json:"data,omitempty" bson:"data,omitempty"`
}

// NotificationFilter carries the query parameters accepted by the
// notification list endpoint.
type NotificationFilter struct {
	Page     int
	Limit    int
	Type     string
	Category string
	Read     *bool
}

// Pagination describes the page window returned alongside a notification list.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NotificationListData is the data payload of GET /api/notifications.
type NotificationListData struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
}

// UnreadCountData is the data payload of GET /api/notifications/unread-count.
type UnreadCountData struct {
	UnreadCount int64 `json:"unreadCount"`
}

// BulkNotificationRequest is the body of the bulk mark-read and bulk delete endpoints.
type BulkNotificationRequest struct {
	NotificationIDs []string `json:"notificationIds" validate:"required,min=1"`
}

// AnnouncementRequest is the body of the admin broadcast endpoint.
type AnnouncementRequest struct {
	Title     string     `json:"title" validate:"required"`
	Message   string     `json:"message" validate:"required"`
	Priority  string     `json:"priority"`
	Category  string     `json:"category"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ValidNotificationType reports whether t is one of the known notification types.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeConfirmation, NotificationTypePaymentSubmitted,
		NotificationTypePaymentApproved, NotificationTypePaymentRejected,
		NotificationTypeCourseEnrolled, NotificationTypeCourseActivated,
		NotificationTypeNewVideoAdded, NotificationTypeNewExamAdded,
		NotificationTypeCourseUpdated, NotificationTypeSystemAnnouncement,
		NotificationTypeGeneral, NotificationTypeAlert:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

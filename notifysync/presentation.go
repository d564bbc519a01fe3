package notifysync

import (
	"fmt"
	"time"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// NotificationIcon maps a notification type to the icon name the UI
// renders. Unknown types fall back to the bell.
func NotificationIcon(notifType string) string {
	switch notifType {
	case models.NotificationTypeConfirmation:
		return "check-circle"
	case models.NotificationTypePaymentSubmitted:
		return "clock"
	case models.NotificationTypePaymentApproved:
		return "badge-check"
	case models.NotificationTypePaymentRejected:
		return "x-circle"
	case models.NotificationTypeCourseEnrolled, models.NotificationTypeCourseActivated:
		return "book-open"
	case models.NotificationTypeNewVideoAdded:
		return "video"
	case models.NotificationTypeNewExamAdded:
		return "clipboard-list"
	case models.NotificationTypeCourseUpdated:
		return "refresh"
	case models.NotificationTypeSystemAnnouncement:
		return "megaphone"
	case models.NotificationTypeAlert:
		return "alert-triangle"
	default:
		return "bell"
	}
}

// NotificationColor maps type and priority to a display color. Urgent
// and high priorities override the per-type color.
func NotificationColor(notifType, priority string) string {
	switch priority {
	case models.PriorityUrgent:
		return "red"
	case models.PriorityHigh:
		return "orange"
	}

	switch notifType {
	case models.NotificationTypePaymentApproved, models.NotificationTypeCourseActivated:
		return "green"
	case models.NotificationTypePaymentRejected, models.NotificationTypeAlert:
		return "red"
	case models.NotificationTypePaymentSubmitted:
		return "yellow"
	case models.NotificationTypeNewVideoAdded, models.NotificationTypeNewExamAdded,
		models.NotificationTypeCourseUpdated, models.NotificationTypeCourseEnrolled:
		return "blue"
	case models.NotificationTypeSystemAnnouncement:
		return "purple"
	default:
		return "gray"
	}
}

// FormatTimeAgo buckets the age of a timestamp for display: under a
// minute is "now", then whole minutes, whole hours, whole days. Floor
// division, not rounding.
func FormatTimeAgo(t time.Time) string {
	since := time.Since(t)
	switch {
	case since < time.Minute:
		return "now"
	case since < time.Hour:
		return fmt.Sprintf("%dm", int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%dh", int(since.Hours()))
	default:
		return fmt.Sprintf("%dd", int(since.Hours())/24)
	}
}

// IsExpired reports whether a notification carries an expiry in the
// past. Expired notifications stay listed; the UI only renders them
// differently.
func IsExpired(n models.Notification) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(time.Now())
}

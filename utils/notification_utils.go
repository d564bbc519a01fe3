package utils

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/config"
	"github.com/madrasa-platform/madrasa_backend/models"
	"github.com/madrasa-platform/madrasa_backend/repositories"
	"github.com/madrasa-platform/madrasa_backend/websocket"
)

// NotificationParams describes a notification to create and deliver.
type NotificationParams struct {
	UserID       primitive.ObjectID
	Type         string
	Title        string
	Message      string
	Priority     string
	Category     string
	ExpiresAt    *time.Time
	Confirmation *models.ConfirmationPayload
	Data         interface{}
}

// CreateNotification persists a notification, pushes it over the
// websocket hub, and mirrors it to the user's device over FCM when a
// token is registered. Delivery failures on the mirror channels are
// logged, not returned: the record is already stored and fetchable.
func CreateNotification(db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub, p NotificationParams) (*models.Notification, error) {
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}

	notification := models.Notification{
		ID:           primitive.NewObjectID(),
		UserID:       p.UserID,
		Type:         p.Type,
		Title:        p.Title,
		Message:      p.Message,
		Priority:     p.Priority,
		Category:     p.Category,
		Read:         false,
		CreatedAt:    time.Now(),
		ExpiresAt:    p.ExpiresAt,
		Confirmation: p.Confirmation,
		Data:         p.Data,
	}

	repo := repositories.NewNotificationRepository(db, redisClient)
	if err := repo.Insert(notification); err != nil {
		return nil, err
	}

	if hub != nil {
		if err := hub.NotifyUser(notification); err != nil {
			// User not connected; they will pick it up on next fetch.
			log.Printf("Websocket push skipped for user %s: %v", p.UserID.Hex(), err)
		}
	}

	if err := sendFCMToUser(db, p.UserID, notification); err != nil {
		log.Printf("FCM mirror failed for user %s: %v", p.UserID.Hex(), err)
	}

	return &notification, nil
}

// NotifyEnrolledUsers creates the same notification for every user in
// the list. Used for course-level events like new videos and exams.
func NotifyEnrolledUsers(db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub, userIDs []primitive.ObjectID, p NotificationParams) {
	for _, userID := range userIDs {
		p.UserID = userID
		if _, err := CreateNotification(db, redisClient, hub, p); err != nil {
			log.Printf("Failed to notify user %s: %v", userID.Hex(), err)
		}
	}
}

// BroadcastAnnouncement persists a system announcement for every
// active user and pushes it to everyone connected.
func BroadcastAnnouncement(db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub, req models.AnnouncementRequest) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(db, "users").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return 0, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	category := req.Category
	if category == "" {
		category = models.CategorySystem
	}

	repo := repositories.NewNotificationRepository(db, redisClient)
	created := 0
	for _, user := range users {
		notification := models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    user.ID,
			Type:      models.NotificationTypeSystemAnnouncement,
			Title:     req.Title,
			Message:   req.Message,
			Priority:  priority,
			Category:  category,
			Read:      false,
			CreatedAt: time.Now(),
			ExpiresAt: req.ExpiresAt,
		}
		if err := repo.Insert(notification); err != nil {
			log.Printf("Failed to store announcement for user %s: %v", user.ID.Hex(), err)
			continue
		}
		created++

		if hub != nil {
			hub.SendToUser(user.ID, websocket.Message{
				Event: websocket.EventSystemAnnouncement,
				Data:  notification,
			})
		}
	}

	return created, nil
}

// sendFCMToUser mirrors a stored notification to the user's device.
func sendFCMToUser(db *mongo.Client, userID primitive.ObjectID, notification models.Notification) error {
	if config.FirebaseApp == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := config.GetCollection(db, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return err
	}
	if user.FCMToken == "" {
		return nil
	}

	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		return err
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Data: map[string]string{
			"notificationId": notification.ID.Hex(),
			"type":           notification.Type,
			"priority":       notification.Priority,
			"timestamp":      notification.CreatedAt.Format(time.RFC3339),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "madrasa_fcm_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: notification.Title,
						Body:  notification.Message,
					},
					Sound: "default",
				},
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		return err
	}

	log.Printf("FCM notification sent to user %s: %s", userID.Hex(), response)
	return nil
}

package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madrasa-platform/madrasa_backend/config"
	"github.com/madrasa-platform/madrasa_backend/models"
)

// ErrNotificationNotFound is returned when a notification does not
// exist or belongs to another user.
var ErrNotificationNotFound = fmt.Errorf("notification not found")

const unreadCacheTTL = 5 * time.Minute

type NotificationRepository struct {
	collection *mongo.Collection
	redis      *redis.Client
}

// NewNotificationRepository builds the repository. redisClient may be
// nil, in which case unread counts always hit Mongo.
func NewNotificationRepository(db *mongo.Client, redisClient *redis.Client) *NotificationRepository {
	return &NotificationRepository{
		collection: config.GetCollection(db, "notifications"),
		redis:      redisClient,
	}
}

func unreadCacheKey(userID primitive.ObjectID) string {
	return "notifications:unread:" + userID.Hex()
}

// invalidateUnread drops the cached unread count after any mutation.
func (r *NotificationRepository) invalidateUnread(userID primitive.ObjectID) {
	if r.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.redis.Del(ctx, unreadCacheKey(userID)).Err(); err != nil {
		log.Printf("Error invalidating unread cache for %s: %v", userID.Hex(), err)
	}
}

// Insert stores a new notification.
func (r *NotificationRepository) Insert(notification models.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	r.invalidateUnread(notification.UserID)
	return nil
}

// List returns one page of a user's notifications, newest first,
// narrowed by the optional type/category/read filters.
func (r *NotificationRepository) List(userID primitive.ObjectID, filter models.NotificationFilter) (models.NotificationListData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := bson.M{"userId": userID}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Read != nil {
		query["read"] = *filter.Read
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return models.NotificationListData{}, fmt.Errorf("failed to count notifications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return models.NotificationListData{}, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return models.NotificationListData{}, fmt.Errorf("failed to decode notifications: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return models.NotificationListData{
		Notifications: notifications,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// UnreadCount returns the user's unread tally, served from Redis when
// the cached value is still warm.
func (r *NotificationRepository) UnreadCount(userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, unreadCacheKey(userID)).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if r.redis != nil {
		if err := r.redis.Set(ctx, unreadCacheKey(userID), count, unreadCacheTTL).Err(); err != nil {
			log.Printf("Error caching unread count for %s: %v", userID.Hex(), err)
		}
	}
	return count, nil
}

// MarkAsRead flips one notification to read. Marking an already-read
// notification is a no-op; an unknown id is an error.
func (r *NotificationRepository) MarkAsRead(userID, notificationID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": notificationID, "userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	if result.MatchedCount == 0 {
		// Either already read (fine) or not this user's notification.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": notificationID, "userId": userID})
		if err != nil {
			return fmt.Errorf("failed to look up notification: %w", err)
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
		return nil
	}

	r.invalidateUnread(userID)
	return nil
}

// MarkAllAsRead flips every unread notification of the user.
func (r *NotificationRepository) MarkAllAsRead(userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	r.invalidateUnread(userID)
	return nil
}

// Delete removes one notification.
func (r *NotificationRepository) Delete(userID, notificationID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": notificationID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotificationNotFound
	}

	r.invalidateUnread(userID)
	return nil
}

// BulkMarkAsRead marks a batch of the user's notifications read in a
// single update.
func (r *NotificationRepository) BulkMarkAsRead(userID primitive.ObjectID, notificationIDs []primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": notificationIDs}, "userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to bulk mark notifications as read: %w", err)
	}

	r.invalidateUnread(userID)
	return nil
}

// BulkDelete removes a batch of the user's notifications in a single delete.
func (r *NotificationRepository) BulkDelete(userID primitive.ObjectID, notificationIDs []primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx,
		bson.M{"_id": bson.M{"$in": notificationIDs}, "userId": userID},
	)
	if err != nil {
		return fmt.Errorf("failed to bulk delete notifications: %w", err)
	}

	r.invalidateUnread(userID)
	return nil
}

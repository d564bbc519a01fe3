package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/middleware"
	"github.com/madrasa-platform/madrasa_backend/models"
	"github.com/madrasa-platform/madrasa_backend/repositories"
	"github.com/madrasa-platform/madrasa_backend/utils"
	"github.com/madrasa-platform/madrasa_backend/websocket"
)

type NotificationController struct {
	db    *mongo.Client
	redis *redis.Client
	hub   *websocket.Hub
	repo  *repositories.NotificationRepository
}

func NewNotificationController(db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) *NotificationController {
	return &NotificationController{
		db:    db,
		redis: redisClient,
		hub:   hub,
		repo:  repositories.NewNotificationRepository(db, redisClient),
	}
}

// currentUserID resolves the authenticated user, answering 401 when absent.
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	userID := middleware.GetUserIDFromToken(c)
	if userID == "" {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return objID, nil
}

// GetNotifications lists the user's notifications, newest first, with
// optional page/limit/type/read/category filters.
func (nc *NotificationController) GetNotifications(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	filter := models.NotificationFilter{
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
	}
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			filter.Page = page
		}
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if readStr := c.QueryParam("read"); readStr != "" {
		if read, err := strconv.ParseBool(readStr); err == nil {
			filter.Read = &read
		}
	}
	if filter.Type != "" && !models.ValidNotificationType(filter.Type) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown notification type",
		})
	}

	data, err := nc.repo.List(userID, filter)
	if err != nil {
		log.Printf("Error listing notifications for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications fetched successfully",
		Data:    data,
	})
}

// GetUnreadCount returns the authoritative unread tally.
func (nc *NotificationController) GetUnreadCount(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	count, err := nc.repo.UnreadCount(userID)
	if err != nil {
		log.Printf("Error counting unread notifications for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch unread count",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Unread count fetched successfully",
		Data:    models.UnreadCountData{UnreadCount: count},
	})
}

// MarkAsRead marks one notification read. Re-marking is a no-op.
func (nc *NotificationController) MarkAsRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	if err := nc.repo.MarkAsRead(userID, notificationID); err != nil {
		if err == repositories.ErrNotificationNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Notification not found",
			})
		}
		log.Printf("Error marking notification %s as read: %v", notificationID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to mark notification as read",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}

// MarkAllAsRead marks every notification of the user read.
func (nc *NotificationController) MarkAllAsRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := nc.repo.MarkAllAsRead(userID); err != nil {
		log.Printf("Error marking all notifications as read for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to mark notifications as read",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "All notifications marked as read",
	})
}

// DeleteNotification removes one notification.
func (nc *NotificationController) DeleteNotification(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	if err := nc.repo.Delete(userID, notificationID); err != nil {
		if err == repositories.ErrNotificationNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Notification not found",
			})
		}
		log.Printf("Error deleting notification %s: %v", notificationID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete notification",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification deleted",
	})
}

// parseBulkIDs binds and validates the bulk request body.
func parseBulkIDs(c echo.Context) ([]primitive.ObjectID, error) {
	var req models.BulkNotificationRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "notificationIds is required")
	}

	// De-duplicate so overlapping ids are applied once.
	seen := make(map[string]bool, len(req.NotificationIDs))
	ids := make([]primitive.ObjectID, 0, len(req.NotificationIDs))
	for _, raw := range req.NotificationIDs {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID: "+raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// BulkMarkAsRead marks a batch of notifications read in one update.
func (nc *NotificationController) BulkMarkAsRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ids, err := parseBulkIDs(c)
	if err != nil {
		return err
	}

	if err := nc.repo.BulkMarkAsRead(userID, ids); err != nil {
		log.Printf("Error bulk marking notifications as read for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to mark notifications as read",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications marked as read",
	})
}

// BulkDelete removes a batch of notifications in one delete.
func (nc *NotificationController) BulkDelete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ids, err := parseBulkIDs(c)
	if err != nil {
		return err
	}

	if err := nc.repo.BulkDelete(userID, ids); err != nil {
		log.Printf("Error bulk deleting notifications for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications deleted",
	})
}

// Announce broadcasts a system announcement to every active user.
func (nc *NotificationController) Announce(c echo.Context) error {
	var req models.AnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title and message are required",
		})
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown priority",
		})
	}

	created, err := utils.BroadcastAnnouncement(nc.db, nc.redis, nc.hub, req)
	if err != nil {
		log.Printf("Error broadcasting announcement: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to broadcast announcement",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Announcement broadcast",
		Data:    map[string]int{"recipients": created},
	})
}

// RegisterFCMToken stores the device token used to mirror pushes.
func (nc *NotificationController) RegisterFCMToken(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.FCMTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "fcmToken is required",
		})
	}

	userRepo := repositories.NewUserRepository(nc.db)
	if err := userRepo.UpdateFCMToken(userID, req.FCMToken); err != nil {
		log.Printf("Error updating FCM token for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update FCM token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "FCM token updated",
	})
}

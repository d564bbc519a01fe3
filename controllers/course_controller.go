package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/models"
	"github.com/madrasa-platform/madrasa_backend/repositories"
	"github.com/madrasa-platform/madrasa_backend/utils"
	"github.com/madrasa-platform/madrasa_backend/websocket"
)

type CourseController struct {
	db      *mongo.Client
	redis   *redis.Client
	hub     *websocket.Hub
	courses *repositories.CourseRepository
}

func NewCourseController(db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) *CourseController {
	return &CourseController{
		db:      db,
		redis:   redisClient,
		hub:     hub,
		courses: repositories.NewCourseRepository(db),
	}
}

// ListCourses returns the published course catalog.
func (cc *CourseController) ListCourses(c echo.Context) error {
	courses, err := cc.courses.List()
	if err != nil {
		log.Printf("Error listing courses: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list courses",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Courses listed",
		Data:    courses,
	})
}

// GetCourse returns a single course.
func (cc *CourseController) GetCourse(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid course ID",
		})
	}

	course, err := cc.courses.FindByID(courseID)
	if err != nil {
		if err == repositories.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Course not found",
			})
		}
		log.Printf("Error loading course %s: %v", courseID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load course",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Course loaded",
		Data:    course,
	})
}

// CreateCourse creates a course owned by the requesting teacher.
func (cc *CourseController) CreateCourse(c echo.Context) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title is required",
		})
	}

	now := time.Now()
	course := models.Course{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   teacherID,
		Price:       req.Price,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := cc.courses.Insert(course); err != nil {
		log.Printf("Error inserting course: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create course",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Course created",
		Data:    course,
	})
}

// Enroll creates a pending enrollment for the requesting student. The
// enrollment stays pending until a payment proof is approved.
func (cc *CourseController) Enroll(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid course ID",
		})
	}

	course, err := cc.courses.FindByID(courseID)
	if err != nil {
		if err == repositories.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Course not found",
			})
		}
		log.Printf("Error loading course %s: %v", courseID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load course",
		})
	}

	enrollment, err := cc.courses.Enroll(userID, courseID)
	if err != nil {
		if err == repositories.ErrAlreadyEnrolled {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Already enrolled in this course",
			})
		}
		log.Printf("Error enrolling user %s in course %s: %v", userID.Hex(), courseID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to enroll",
		})
	}

	go func() {
		_, err := utils.CreateNotification(cc.db, cc.redis, cc.hub, utils.NotificationParams{
			UserID:   userID,
			Type:     models.NotificationTypeCourseEnrolled,
			Title:    "تم التسجيل في الدورة",
			Message:  "تم تسجيلك في دورة \"" + course.Title + "\". أكمل الدفع لتفعيل الوصول",
			Priority: models.PriorityMedium,
			Category: models.CategoryAcademic,
			Data:     map[string]string{"courseId": courseID.Hex()},
		})
		if err != nil {
			log.Printf("Error sending enrollment notification: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Enrolled",
		Data:    enrollment,
	})
}

// AddVideo attaches a lecture video to a course. The video file is
// expected to already be on disk; its duration is probed and a
// thumbnail is extracted before the course document is updated.
func (cc *CourseController) AddVideo(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid course ID",
		})
	}

	course, err := cc.courses.FindByID(courseID)
	if err != nil {
		if err == repositories.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Course not found",
			})
		}
		log.Printf("Error loading course %s: %v", courseID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load course",
		})
	}

	var req models.AddVideoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title and URL are required",
		})
	}

	video := models.CourseVideo{
		ID:        primitive.NewObjectID(),
		Title:     req.Title,
		URL:       req.URL,
		Order:     len(course.Videos) + 1,
		CreatedAt: time.Now(),
	}

	if duration, err := utils.ProbeVideoDuration(req.URL); err != nil {
		log.Printf("Error probing video duration for %s: %v", req.URL, err)
	} else {
		video.Duration = duration
	}
	if thumb, err := utils.GenerateVideoThumbnail(req.URL); err != nil {
		log.Printf("Error generating video thumbnail for %s: %v", req.URL, err)
	} else {
		video.ThumbnailURL = thumb
	}

	if err := cc.courses.AddVideo(courseID, video); err != nil {
		log.Printf("Error adding video to course %s: %v", courseID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to add video",
		})
	}

	go func() {
		userIDs, err := cc.courses.EnrolledUserIDs(courseID)
		if err != nil {
			log.Printf("Error finding enrolled users for course %s: %v", courseID.Hex(), err)
			return
		}
		utils.NotifyEnrolledUsers(cc.db, cc.redis, cc.hub, userIDs, utils.NotificationParams{
			Type:     models.NotificationTypeNewVideoAdded,
			Title:    "فيديو جديد",
			Message:  "تمت إضافة فيديو \"" + video.Title + "\" إلى دورة \"" + course.Title + "\"",
			Priority: models.PriorityMedium,
			Category: models.CategoryAcademic,
			Data:     map[string]string{"courseId": courseID.Hex(), "videoId": video.ID.Hex()},
		})
	}()

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Video added",
		Data:    video,
	})
}

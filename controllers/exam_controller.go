package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madrasa-platform/madrasa_backend/examform"
	"github.com/madrasa-platform/madrasa_backend/models"
	"github.com/madrasa-platform/madrasa_backend/repositories"
	"github.com/madrasa-platform/madrasa_backend/utils"
	"github.com/madrasa-platform/madrasa_backend/websocket"
)

type ExamController struct {
	db      *mongo.Client
	redis   *redis.Client
	hub     *websocket.Hub
	exams   *repositories.ExamRepository
	courses *repositories.CourseRepository
}

func NewExamController(db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) *ExamController {
	return &ExamController{
		db:      db,
		redis:   redisClient,
		hub:     hub,
		exams:   repositories.NewExamRepository(db),
		courses: repositories.NewCourseRepository(db),
	}
}

// GetExamForm loads an exam in the editable shape for the exam builder.
func (ec *ExamController) GetExamForm(c echo.Context) error {
	exam, err := ec.exams.FindByID(c.Param("id"))
	if err != nil {
		if err == repositories.ErrExamNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Exam not found",
			})
		}
		log.Printf("Error loading exam %s: %v", c.Param("id"), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load exam",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exam loaded",
		Data:    examform.ServerToUI(*exam),
	})
}

// ListCourseExams returns every exam attached to a course.
func (ec *ExamController) ListCourseExams(c echo.Context) error {
	exams, err := ec.exams.FindByCourse(c.Param("id"))
	if err != nil {
		log.Printf("Error listing exams for course %s: %v", c.Param("id"), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list exams",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exams listed",
		Data:    exams,
	})
}

// ValidateExamForm dry-runs validation for the exam builder without
// persisting anything.
func (ec *ExamController) ValidateExamForm(c echo.Context) error {
	var form examform.ExamForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Validation complete",
		Data:    examform.Validate(form),
	})
}

// CreateExam validates and persists a new exam for a course, then
// notifies enrolled students.
func (ec *ExamController) CreateExam(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid course ID",
		})
	}

	course, err := ec.courses.FindByID(courseID)
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

	var form examform.ExamForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if result := examform.Validate(form); !result.Valid {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Exam validation failed",
			Data:    result,
		})
	}

	form.CourseID = courseID.Hex()
	exam := examform.UIToServer(form, "")
	now := time.Now()
	exam.CreatedAt = now
	exam.UpdatedAt = now

	if err := ec.exams.Insert(exam); err != nil {
		log.Printf("Error inserting exam: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create exam",
		})
	}
	if err := ec.courses.AttachExam(courseID, exam.ID); err != nil {
		log.Printf("Error attaching exam %s to course %s: %v", exam.ID, courseID.Hex(), err)
	}

	go ec.notifyEnrolled(courseID, utils.NotificationParams{
		Type:     models.NotificationTypeNewExamAdded,
		Title:    "امتحان جديد",
		Message:  "تمت إضافة امتحان \"" + exam.Title + "\" إلى دورة \"" + course.Title + "\"",
		Priority: models.PriorityHigh,
		Category: models.CategoryAcademic,
		Data:     map[string]string{"courseId": courseID.Hex(), "examId": exam.ID},
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Exam created",
		Data:    exam,
	})
}

// UpdateExam validates and replaces an existing exam.
func (ec *ExamController) UpdateExam(c echo.Context) error {
	examID := c.Param("id")

	existing, err := ec.exams.FindByID(examID)
	if err != nil {
		if err == repositories.ErrExamNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Exam not found",
			})
		}
		log.Printf("Error loading exam %s: %v", examID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load exam",
		})
	}

	var form examform.ExamForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if result := examform.Validate(form); !result.Valid {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Exam validation failed",
			Data:    result,
		})
	}

	form.CourseID = existing.CourseID
	exam := examform.UIToServer(form, examID)
	exam.CreatedAt = existing.CreatedAt
	exam.UpdatedAt = time.Now()

	if err := ec.exams.Update(exam); err != nil {
		log.Printf("Error updating exam %s: %v", examID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update exam",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exam updated",
		Data:    exam,
	})
}

// DeleteExam removes an exam.
func (ec *ExamController) DeleteExam(c echo.Context) error {
	if err := ec.exams.Delete(c.Param("id")); err != nil {
		if err == repositories.ErrExamNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Exam not found",
			})
		}
		log.Printf("Error deleting exam %s: %v", c.Param("id"), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete exam",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exam deleted",
	})
}

// notifyEnrolled fans a notification out to the course's active students.
func (ec *ExamController) notifyEnrolled(courseID primitive.ObjectID, params utils.NotificationParams) {
	userIDs, err := ec.courses.EnrolledUserIDs(courseID)
	if err != nil {
		log.Printf("Error finding enrolled users for course %s: %v", courseID.Hex(), err)
		return
	}
	utils.NotifyEnrolledUsers(ec.db, ec.redis, ec.hub, userIDs, params)
}

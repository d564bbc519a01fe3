package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
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

type PaymentController struct {
	db       *mongo.Client
	redis    *redis.Client
	hub      *websocket.Hub
	payments *repositories.PaymentRepository
	courses  *repositories.CourseRepository
	users    *repositories.UserRepository
}

func NewPaymentController(db *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) *PaymentController {
	return &PaymentController{
		db:       db,
		redis:    redisClient,
		hub:      hub,
		payments: repositories.NewPaymentRepository(db),
		courses:  repositories.NewCourseRepository(db),
		users:    repositories.NewUserRepository(db),
	}
}

// SubmitProof stores an uploaded payment-proof image for a course and
// alerts the admins that a payment is awaiting review.
func (pc *PaymentController) SubmitProof(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	courseID, err := primitive.ObjectIDFromHex(c.FormValue("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid course ID",
		})
	}

	course, err := pc.courses.FindByID(courseID)
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

	amount := course.Price
	if amountStr := c.FormValue("amount"); amountStr != "" {
		if parsed, err := strconv.ParseFloat(amountStr, 64); err == nil {
			amount = parsed
		}
	}

	file, err := c.FormFile("proof")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Proof image is required",
		})
	}
	if !utils.IsValidImageFile(file) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Proof must be a JPG or PNG image",
		})
	}

	proofURL, thumbURL, err := utils.SavePaymentProof(file)
	if err != nil {
		log.Printf("Error saving payment proof: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save proof image",
		})
	}

	now := time.Now()
	payment := models.Payment{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		CourseID:     courseID,
		Amount:       amount,
		ProofURL:     proofURL,
		ThumbnailURL: thumbURL,
		Status:       models.PaymentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := pc.payments.Insert(payment); err != nil {
		log.Printf("Error inserting payment: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit payment",
		})
	}

	go pc.notifyAdmins(payment, course.Title)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Payment submitted for review",
		Data:    payment,
	})
}

// ListPending returns every payment awaiting admin review.
func (pc *PaymentController) ListPending(c echo.Context) error {
	payments, err := pc.payments.ListPending()
	if err != nil {
		log.Printf("Error listing pending payments: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list payments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending payments listed",
		Data:    payments,
	})
}

// Approve accepts a pending payment, activates the student's
// enrollment, and sends a confirmation notification carrying a QR code
// the student can present in person.
func (pc *PaymentController) Approve(c echo.Context) error {
	return pc.decide(c, models.PaymentStatusApproved)
}

// Reject declines a pending payment.
func (pc *PaymentController) Reject(c echo.Context) error {
	return pc.decide(c, models.PaymentStatusRejected)
}

func (pc *PaymentController) decide(c echo.Context, status string) error {
	reviewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	paymentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment ID",
		})
	}

	var req models.PaymentDecisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	payment, err := pc.payments.FindByID(paymentID)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payment not found",
			})
		}
		log.Printf("Error loading payment %s: %v", paymentID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load payment",
		})
	}
	if payment.Status != models.PaymentStatusPending {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Payment has already been reviewed",
		})
	}

	if err := pc.payments.Decide(paymentID, reviewerID, status, req.Note); err != nil {
		log.Printf("Error deciding payment %s: %v", paymentID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payment",
		})
	}

	activated := false
	if status == models.PaymentStatusApproved {
		if err := pc.courses.ActivateEnrollment(payment.UserID, payment.CourseID); err != nil {
			log.Printf("Error activating enrollment for payment %s: %v", paymentID.Hex(), err)
		} else {
			activated = true
		}
	}

	go pc.notifyStudent(*payment, status, req.Note, activated)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment " + status,
	})
}

// notifyAdmins alerts every admin account about a newly submitted
// payment proof.
func (pc *PaymentController) notifyAdmins(payment models.Payment, courseTitle string) {
	admins, err := pc.users.FindAdmins()
	if err != nil {
		log.Printf("Error finding admins: %v", err)
		return
	}

	for _, admin := range admins {
		_, err := utils.CreateNotification(pc.db, pc.redis, pc.hub, utils.NotificationParams{
			UserID:   admin.ID,
			Type:     models.NotificationTypePaymentSubmitted,
			Title:    "إثبات دفع جديد",
			Message:  fmt.Sprintf("إثبات دفع بقيمة %.2f لدورة \"%s\" بانتظار المراجعة", payment.Amount, courseTitle),
			Priority: models.PriorityHigh,
			Category: models.CategoryFinancial,
			Data:     map[string]string{"paymentId": payment.ID.Hex(), "courseId": payment.CourseID.Hex()},
		})
		if err != nil {
			log.Printf("Error notifying admin %s: %v", admin.ID.Hex(), err)
		}
	}
}

// notifyStudent tells the payer the outcome of the review. Approvals
// are followed by a confirmation notification carrying the entry code
// and QR image, and the outcome is mirrored over email when SMTP is
// configured.
func (pc *PaymentController) notifyStudent(payment models.Payment, status, note string, activated bool) {
	course, err := pc.courses.FindByID(payment.CourseID)
	courseTitle := ""
	if err == nil {
		courseTitle = course.Title
	}

	params := utils.NotificationParams{
		UserID:   payment.UserID,
		Priority: models.PriorityHigh,
		Category: models.CategoryFinancial,
		Data:     map[string]string{"paymentId": payment.ID.Hex(), "courseId": payment.CourseID.Hex()},
	}

	if status == models.PaymentStatusApproved {
		params.Type = models.NotificationTypePaymentApproved
		params.Title = "تم قبول الدفع"
		params.Message = "تم قبول دفعتك وتفعيل اشتراكك في دورة \"" + courseTitle + "\""
	} else {
		params.Type = models.NotificationTypePaymentRejected
		params.Title = "تم رفض الدفع"
		params.Message = "تم رفض إثبات الدفع الخاص بدورة \"" + courseTitle + "\""
		if note != "" {
			params.Message += ". السبب: " + note
		}
	}

	if _, err := utils.CreateNotification(pc.db, pc.redis, pc.hub, params); err != nil {
		log.Printf("Error notifying user %s about payment %s: %v", payment.UserID.Hex(), payment.ID.Hex(), err)
	}

	if status == models.PaymentStatusApproved {
		code, err := utils.GenerateConfirmationCode()
		if err != nil {
			log.Printf("Error generating confirmation code: %v", err)
		} else {
			qrURL, err := utils.GenerateConfirmationQR(code)
			if err != nil {
				log.Printf("Error generating confirmation QR: %v", err)
			}
			confirmation := utils.BuildConfirmationNotification(payment.UserID, payment.CourseID, courseTitle, code, qrURL)
			if _, err := utils.CreateNotification(pc.db, pc.redis, pc.hub, confirmation); err != nil {
				log.Printf("Error sending confirmation code to user %s: %v", payment.UserID.Hex(), err)
			}
		}
	}

	if activated {
		_, err := utils.CreateNotification(pc.db, pc.redis, pc.hub, utils.NotificationParams{
			UserID:   payment.UserID,
			Type:     models.NotificationTypeCourseActivated,
			Title:    "تم تفعيل الدورة",
			Message:  "أصبح بإمكانك الوصول الكامل إلى دورة \"" + courseTitle + "\"",
			Priority: models.PriorityMedium,
			Category: models.CategoryAcademic,
			Data:     map[string]string{"courseId": payment.CourseID.Hex()},
		})
		if err != nil {
			log.Printf("Error sending activation notification: %v", err)
		}
	}

	user, err := pc.users.FindByID(payment.UserID)
	if err != nil {
		log.Printf("Error loading user %s for payment email: %v", payment.UserID.Hex(), err)
		return
	}
	if err := utils.SendNotificationEmail(user.Email, params.Title, params.Message); err != nil {
		log.Printf("Error sending payment email to %s: %v", user.Email, err)
	}
}

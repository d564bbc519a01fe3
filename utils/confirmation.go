package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// ConfirmationValidity is how long an enrollment confirmation code
// stays usable after approval.
const ConfirmationValidity = 7 * 24 * time.Hour

// BuildConfirmationNotification assembles the confirmation notification
// sent to a student after their payment is approved. The code and QR
// always ship together with an expiry ConfirmationValidity from now.
func BuildConfirmationNotification(userID, courseID primitive.ObjectID, courseTitle, code, qrURL string) NotificationParams {
	expiresAt := time.Now().Add(ConfirmationValidity)
	return NotificationParams{
		UserID:       userID,
		Type:         models.NotificationTypeConfirmation,
		Title:        "رمز تأكيد الاشتراك",
		Message:      "استخدم هذا الرمز عند الحاجة لإثبات اشتراكك في دورة \"" + courseTitle + "\": " + code,
		Priority:     models.PriorityHigh,
		Category:     models.CategoryFinancial,
		ExpiresAt:    &expiresAt,
		Confirmation: &models.ConfirmationPayload{Code: code, QRUrl: qrURL},
		Data:         map[string]string{"courseId": courseID.Hex()},
	}
}

// GenerateConfirmationCode returns a short random code paired with
// confirmation notifications.
func GenerateConfirmationCode() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base32.StdEncoding.EncodeToString(bytes)[:8], nil
}

// GenerateConfirmationQR renders a confirmation code as a QR PNG under
// uploads/qr and returns the file's URL path.
func GenerateConfirmationQR(code string) (string, error) {
	qrCode, err := qr.Encode(code, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return "", fmt.Errorf("failed to scale QR code: %w", err)
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, qrCode); err != nil {
		return "", fmt.Errorf("failed to encode QR code as PNG: %w", err)
	}

	dir := filepath.Join("uploads", "qr")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create qr directory: %w", err)
	}

	filename := code + ".png"
	if err := os.WriteFile(filepath.Join(dir, filename), buffer.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save QR code: %w", err)
	}

	return "/uploads/qr/" + filename, nil
}

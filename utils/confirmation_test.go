package utils

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madrasa-platform/madrasa_backend/models"
)

func TestGenerateConfirmationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateConfirmationCode()
		if err != nil {
			t.Fatalf("GenerateConfirmationCode: %v", err)
		}
		if len(code) != 8 {
			t.Fatalf("code %q has length %d, want 8", code, len(code))
		}
		if seen[code] {
			t.Fatalf("code %q generated twice", code)
		}
		seen[code] = true
	}
}

func TestBuildConfirmationNotification(t *testing.T) {
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	before := time.Now()
	params := BuildConfirmationNotification(userID, courseID, "الرياضيات", "ABCD2345", "/uploads/qr/ABCD2345.png")
	after := time.Now()

	if params.Type != models.NotificationTypeConfirmation {
		t.Errorf("Type = %q, want %q", params.Type, models.NotificationTypeConfirmation)
	}
	if params.UserID != userID {
		t.Errorf("UserID = %v, want %v", params.UserID, userID)
	}
	if params.Confirmation == nil {
		t.Fatal("Confirmation payload is nil")
	}
	if params.Confirmation.Code != "ABCD2345" {
		t.Errorf("Confirmation.Code = %q, want ABCD2345", params.Confirmation.Code)
	}
	if params.Confirmation.QRUrl != "/uploads/qr/ABCD2345.png" {
		t.Errorf("Confirmation.QRUrl = %q", params.Confirmation.QRUrl)
	}
	if params.ExpiresAt == nil {
		t.Fatal("ExpiresAt is nil, confirmation codes must expire")
	}
	if params.ExpiresAt.Before(before.Add(ConfirmationValidity)) || params.ExpiresAt.After(after.Add(ConfirmationValidity)) {
		t.Errorf("ExpiresAt = %v, want ConfirmationValidity from now", params.ExpiresAt)
	}
	if !strings.Contains(params.Message, "ABCD2345") {
		t.Errorf("Message %q does not include the code", params.Message)
	}
	data, ok := params.Data.(map[string]string)
	if !ok || data["courseId"] != courseID.Hex() {
		t.Errorf("Data = %v, want courseId %s", params.Data, courseID.Hex())
	}
}

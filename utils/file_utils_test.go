package utils

import (
	"mime/multipart"
	"testing"
)

func TestIsValidImageFile(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"proof.jpg", true},
		{"proof.jpeg", true},
		{"proof.PNG", true},
		{"proof.webp", false},
		{"proof.gif", false},
		{"proof.pdf", false},
		{"proof", false},
	}
	for _, tc := range cases {
		file := &multipart.FileHeader{Filename: tc.filename}
		if got := IsValidImageFile(file); got != tc.want {
			t.Errorf("IsValidImageFile(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

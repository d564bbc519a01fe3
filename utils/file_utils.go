package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const uploadBaseDir = "uploads"

// IsValidImageFile checks if the uploaded file is a valid image
func IsValidImageFile(file *multipart.FileHeader) bool {
	allowedExtensions := []string{".jpg", ".jpeg", ".png"}
	filename := strings.ToLower(file.Filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// SavePaymentProof stores an uploaded payment-proof image and a 320px
// thumbnail next to it, returning both URL paths.
func SavePaymentProof(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	dir := filepath.Join(uploadBaseDir, "payments")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create payments directory: %w", err)
	}

	base := fmt.Sprintf("%d%s", time.Now().UnixNano(), strings.ToLower(filepath.Ext(file.Filename)))
	fullPath := filepath.Join(dir, base)
	if err := imaging.Save(img, fullPath); err != nil {
		return "", "", fmt.Errorf("failed to save image: %w", err)
	}

	// Thumbnail for the admin review list.
	resized := imaging.Resize(img, 320, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	thumbName := strings.TrimSuffix(base, filepath.Ext(base)) + "_thumb.jpg"
	if err := os.WriteFile(filepath.Join(dir, thumbName), buf.Bytes(), 0644); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/uploads/payments/" + base, "/uploads/payments/" + thumbName, nil
}

// ProbeVideoDuration reads a video's duration in seconds via ffprobe.
func ProbeVideoDuration(videoPath string) (float64, error) {
	data, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return 0, fmt.Errorf("failed to probe video: %w", err)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse probe output: %w", err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}
	return duration, nil
}

// GenerateVideoThumbnail extracts a frame one second in and stores a
// 320px JPEG under uploads/thumbnails, returning its URL path.
func GenerateVideoThumbnail(videoPath string) (string, error) {
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("thumb_%d.jpg", time.Now().UnixNano()))

	err := ffmpeg.Input(videoPath).
		Output(tempPath, ffmpeg.KwArgs{"vframes": 1, "ss": "00:00:01"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to extract frame: %w", err)
	}
	defer os.Remove(tempPath)

	img, err := imaging.Open(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to open frame: %w", err)
	}
	resized := imaging.Resize(img, 320, 0, imaging.Lanczos)

	dir := filepath.Join(uploadBaseDir, "thumbnails")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnails directory: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath)) + ".jpg"
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/uploads/thumbnails/" + name, nil
}

package controllers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aquawatch-be/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const (
	maxPhotos    = 5
	maxPhotoSize = 5 << 20 // 5MB
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// validatePhoto enforces the image-only, 5MB-per-file upload contract
func validatePhoto(file *multipart.FileHeader) error {
	if file.Size > maxPhotoSize {
		return fmt.Errorf("photo %s exceeds the 5MB limit", file.Filename)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExts[ext] {
		return fmt.Errorf("photo %s must be a jpeg or png image", file.Filename)
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return fmt.Errorf("photo %s is not an image", file.Filename)
	}

	return nil
}

// PhotoRoutePrefix is where stored photos are served from. The router mounts
// UploadDir at this prefix, so stored references stay valid wherever the
// directory lives on disk.
const PhotoRoutePrefix = "/uploads/issues"

// UploadDir is the on-disk destination for uploaded photos.
func UploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads/issues"
	}
	return dir
}

// savePhotos writes uploads to the shared directory keyed by upload time
// and returns their public references
func savePhotos(c *gin.Context, files []*multipart.FileHeader) ([]models.Photo, error) {
	dir := UploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(files))
	for _, file := range files {
		now := time.Now()
		name := fmt.Sprintf("%d%s", now.UnixNano(), strings.ToLower(filepath.Ext(file.Filename)))
		if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		photos = append(photos, models.Photo{
			URL:        PhotoRoutePrefix + "/" + name,
			UploadedAt: now,
		})
	}
	return photos, nil
}

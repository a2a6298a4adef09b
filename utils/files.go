package utils

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tixplate/logger"
	"tixplate/models"
)

// Uploaded images wider than this get scaled down before storage.
const maxImageWidth = 1600

// SaveImage decodes an uploaded image, scales it down when oversized and
// stores it under dir with a generated name. The returned Image carries
// the public URL under the static mount.
func SaveImage(fileHeader *multipart.FileHeader, dir string) (models.Image, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return models.Image{}, err
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.Image{}, err
	}

	filename := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(dir, filename), imaging.JPEGQuality(85)); err != nil {
		return models.Image{}, err
	}

	return models.Image{
		URL:      "/uploads/images/" + filename,
		Filename: filename,
	}, nil
}

// RemoveImage deletes a stored image. Best effort: a missing or locked
// file is logged, never surfaced to the caller.
func RemoveImage(dir, filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(filepath.Join(dir, filename)); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not remove stored image", zap.String("filename", filename), zap.Error(err))
	}
}

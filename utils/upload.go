package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AllowedImageTypes defines the allowed image file extensions
var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidateImageFile checks if the uploaded file is a valid image
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return fmt.Errorf(ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedImageTypes[ext] {
		return fmt.Errorf(ErrInvalidFileType)
	}

	return nil
}

// UploadedImage is a validated image read fully into memory
type UploadedImage struct {
	Data        []byte
	Ext         string
	ContentType string
}

// ReadImageFile validates and reads an uploaded image
func ReadImageFile(file *multipart.FileHeader) (*UploadedImage, error) {
	if err := ValidateImageFile(file); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %v", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf(ErrFileTooLarge)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf(ErrInvalidFileType)
	}

	return &UploadedImage{
		Data:        data,
		Ext:         strings.ToLower(filepath.Ext(file.Filename)),
		ContentType: contentType,
	}, nil
}

// ProofPath returns a unique object path for a payment proof
func ProofPath(userID uint, ext string) string {
	return fmt.Sprintf("proofs/%d/%s%s", userID, uuid.New().String(), ext)
}

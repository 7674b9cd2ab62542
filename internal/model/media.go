package model

import (
	"errors"
	"time"
)

const (
	CarImageFolder        = "cars"
	MaxCarImageSize       = 10 * 1024 * 1024 // 10MB per image
	CarImagePresignExpiry = 15 * time.Minute
	CarImageCacheControl  = "public, max-age=31536000" // 1 year
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]string{
	ContentTypeJPEG: ".jpg",
	ContentTypePNG:  ".png",
	ContentTypeWebP: ".webp",
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// PresignCarImageRequest asks for a presigned URL to upload one listing photo.
// The client PUTs the bytes to UploadURL, then puts PublicURL in the car's images.
type PresignCarImageRequest struct {
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"` // optional, validated when present
}

// PresignCarImageResponse returns upload details for direct-to-bucket uploads.
type PresignCarImageResponse struct {
	UploadURL  string `json:"uploadUrl"`
	PublicURL  string `json:"publicUrl"`
	Key        string `json:"key"`
	ExpiresInS int    `json:"expiresIn"`
}

// ImageExtension reports the file extension for a supported content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[contentType]
	return ext, ok
}

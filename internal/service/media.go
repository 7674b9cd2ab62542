package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"carmarket/internal/config"
	"carmarket/internal/model"
)

type objectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// MediaService hands out presigned Cloudflare R2 upload URLs for listing photos.
// Image bytes never pass through this service.
type MediaService struct {
	presigner objectPresigner
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if !cfg.MediaEnabled() {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		presigner: s3.NewPresignClient(s3Client),
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// PresignCarImageUpload validates the declared upload and returns a short-lived PUT URL.
func (s *MediaService) PresignCarImageUpload(ctx context.Context, p model.Principal, req *model.PresignCarImageRequest) (*model.PresignCarImageResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	ext, ok := model.ImageExtension(contentType)
	if !ok {
		return nil, model.ErrInvalidImageType
	}
	if req.FileSize < 0 {
		return nil, model.NewValidationError("fileSize", "must not be negative")
	}
	if req.FileSize > model.MaxCarImageSize {
		return nil, model.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%s/%s%s", model.CarImageFolder, p.ID, uuid.NewString(), ext)

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(model.CarImageCacheControl),
	}
	if req.FileSize > 0 {
		input.ContentLength = aws.Int64(req.FileSize)
	}

	signed, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(model.CarImagePresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign r2 upload: %w", err)
	}

	return &model.PresignCarImageResponse{
		UploadURL:  signed.URL,
		PublicURL:  fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:        key,
		ExpiresInS: int(model.CarImagePresignExpiry.Seconds()),
	}, nil
}

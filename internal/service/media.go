package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/port"
)

var mediaTracer = otel.Tracer("service/media")

// Image types accepted for mockups and after-photos.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Media uploads mockup and visit photos to the storage service.
type Media struct {
	files  port.FileStore
	logger *zap.Logger
}

// NewMedia creates the media service.
func NewMedia(files port.FileStore, logger *zap.Logger) *Media {
	return &Media{files: files, logger: logger}
}

// Upload validates the file type and relays the upload, returning the
// public URL.
func (s *Media) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	ctx, span := mediaTracer.Start(ctx, "Media.Upload")
	defer span.End()
	span.SetAttributes(attribute.String("upload.filename", filename))

	if !allowedImageTypes[strings.ToLower(contentType)] {
		return "", &domain.ErrValidation{
			Field:   "file",
			Message: fmt.Sprintf("unsupported content type %q", contentType),
		}
	}

	// Strip any client-supplied directory components and prefix a UUID so
	// two uploads named photo.jpg never collide in the bucket.
	filename = path.Base(strings.ReplaceAll(filename, `\`, "/"))
	filename = fmt.Sprintf("%s-%s", uuid.New().String(), filename)

	url, err := s.files.Upload(ctx, filename, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("filename", filename),
		zap.String("url", url),
	)
	return url, nil
}

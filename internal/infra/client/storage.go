package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
)

// StorageClient uploads files (mockups, after-photos) through the
// gateway's storage endpoint. Uploads are capped by a bulkhead so a burst
// of large photo uploads cannot starve the connection pool.
type StorageClient struct {
	base
	bulkhead *resilience.Bulkhead
}

// NewStorageClient creates a new StorageClient.
func NewStorageClient(httpClient *http.Client, baseURL string, token TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config, maxConcurrent int) *StorageClient {
	return &StorageClient{
		base:     newBase(httpClient, baseURL, "storage", token, cb, cfg),
		bulkhead: resilience.NewBulkhead(maxConcurrent),
	}
}

// Upload streams a file as multipart form data and returns the public URL
// the storage service assigned.
func (c *StorageClient) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	ctx, span := tracer.Start(ctx, "StorageClient.Upload")
	defer span.End()
	span.SetAttributes(attribute.String("upload.filename", filename))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return "", &domain.ErrTimeout{Operation: "storage upload"}
	}
	defer c.bulkhead.Release()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build multipart request: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish multipart request: %w", err)
	}

	result, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/storage/upload", &buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		if tok := c.token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := c.checkStatus(resp, "upload", filename); err != nil {
			return nil, err
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		// The storage service returns the URL as a bare string, sometimes
		// JSON-quoted depending on the gateway.
		return strings.Trim(strings.TrimSpace(string(raw)), `"`), nil
	})
	if err != nil {
		return "", c.wrap(err)
	}

	return result.(string), nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
)

const contentServicePrefix = "/content-service/api"

// ContentServiceClient talks to the content service for public service
// pages.
type ContentServiceClient struct {
	base
}

// NewContentServiceClient creates a new ContentServiceClient.
func NewContentServiceClient(httpClient *http.Client, baseURL string, token TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ContentServiceClient {
	return &ContentServiceClient{base: newBase(httpClient, baseURL, "content-service", token, cb, cfg)}
}

// ListPages fetches all service pages.
func (c *ContentServiceClient) ListPages(ctx context.Context) ([]domain.ServicePage, error) {
	ctx, span := tracer.Start(ctx, "ContentServiceClient.ListPages")
	defer span.End()

	var pages []domain.ServicePage
	if err := c.get(ctx, contentServicePrefix+"/v1/content/pages", "pages", "", &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// GetPageBySlug fetches one service page.
func (c *ContentServiceClient) GetPageBySlug(ctx context.Context, slug string) (*domain.ServicePage, error) {
	ctx, span := tracer.Start(ctx, "ContentServiceClient.GetPageBySlug")
	defer span.End()
	span.SetAttributes(attribute.String("page.slug", slug))

	var page domain.ServicePage
	path := fmt.Sprintf("%s/v1/content/pages/%s", contentServicePrefix, slug)
	if err := c.get(ctx, path, "page", slug, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePage publishes a new service page.
func (c *ContentServiceClient) CreatePage(ctx context.Context, req *domain.SavePageRequest) (*domain.ServicePage, error) {
	ctx, span := tracer.Start(ctx, "ContentServiceClient.CreatePage")
	defer span.End()

	var page domain.ServicePage
	if err := c.send(ctx, http.MethodPost, contentServicePrefix+"/v1/content/pages", req, "page", "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage replaces an existing service page by slug.
func (c *ContentServiceClient) UpdatePage(ctx context.Context, slug string, req *domain.SavePageRequest) (*domain.ServicePage, error) {
	ctx, span := tracer.Start(ctx, "ContentServiceClient.UpdatePage")
	defer span.End()
	span.SetAttributes(attribute.String("page.slug", slug))

	var page domain.ServicePage
	path := fmt.Sprintf("%s/v1/content/pages/%s", contentServicePrefix, slug)
	if err := c.send(ctx, http.MethodPut, path, req, "page", slug, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

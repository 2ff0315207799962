package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/port"
)

var contentTracer = otel.Tracer("service/content")

const pagesCacheKey = "pages:all"

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Content serves and edits the public service pages. Page lists are
// cached with a TTL: they feed both the marketing site and the job/quote
// classifier, so every list view reads them.
type Content struct {
	store   port.ContentStore
	cache   port.Cache[[]domain.ServicePage]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewContent creates the content service.
func NewContent(store port.ContentStore, cache port.Cache[[]domain.ServicePage], metrics *observability.Metrics, logger *zap.Logger) *Content {
	return &Content{store: store, cache: cache, metrics: metrics, logger: logger}
}

// ListPages returns all service pages, from cache when fresh.
func (s *Content) ListPages(ctx context.Context) ([]domain.ServicePage, error) {
	ctx, span := contentTracer.Start(ctx, "Content.ListPages")
	defer span.End()

	if pages, ok := s.cache.Get(pagesCacheKey); ok {
		s.metrics.IncrCacheHit("pages")
		return pages, nil
	}
	s.metrics.IncrCacheMiss("pages")

	pages, err := s.store.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(pagesCacheKey, pages)
	return pages, nil
}

// GetPageBySlug returns one page. Single pages bypass the cache; only
// the list is hot enough to matter.
func (s *Content) GetPageBySlug(ctx context.Context, slug string) (*domain.ServicePage, error) {
	ctx, span := contentTracer.Start(ctx, "Content.GetPageBySlug")
	defer span.End()
	span.SetAttributes(attribute.String("page.slug", slug))

	return s.store.GetPageBySlug(ctx, slug)
}

// SavePage creates or updates a page depending on whether slug names an
// existing one, then invalidates the list cache.
func (s *Content) SavePage(ctx context.Context, slug string, req *domain.SavePageRequest) (*domain.ServicePage, error) {
	ctx, span := contentTracer.Start(ctx, "Content.SavePage")
	defer span.End()
	span.SetAttributes(attribute.String("page.slug", slug))

	if err := validatePageRequest(req); err != nil {
		return nil, err
	}

	var (
		page *domain.ServicePage
		err  error
	)
	if slug == "" {
		page, err = s.store.CreatePage(ctx, req)
	} else {
		page, err = s.store.UpdatePage(ctx, slug, req)
	}
	if err != nil {
		return nil, fmt.Errorf("save page: %w", err)
	}

	s.cache.Delete(pagesCacheKey)
	s.logger.Info("service page saved",
		zap.String("page_slug", page.PageSlug),
		zap.String("page_id", page.ID),
	)
	return page, nil
}

func validatePageRequest(req *domain.SavePageRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &domain.ErrValidation{Field: "title", Message: "title is required"}
	}
	if req.PageSlug != "" && !slugRe.MatchString(req.PageSlug) {
		return &domain.ErrValidation{Field: "pageSlug", Message: "slug must be lowercase kebab-case"}
	}
	return nil
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/cache"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/service"
	"github.com/olives-green/fieldops-bff-go/internal/view"
)

func newContentService(store *mockContentStore) *service.Content {
	pageCache := cache.New[[]domain.ServicePage](time.Minute)
	return service.NewContent(store, pageCache, observability.NewMetrics(), zap.NewNop())
}

func TestListPagesCachesAcrossCalls(t *testing.T) {
	store := taxonomy()
	svc := newContentService(store)

	first, err := svc.ListPages(context.Background())
	require.NoError(t, err)
	second, err := svc.ListPages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.listCalls, "second read should come from cache")
}

func TestSavePageInvalidatesListCache(t *testing.T) {
	store := taxonomy()
	svc := newContentService(store)

	_, err := svc.ListPages(context.Background())
	require.NoError(t, err)

	_, err = svc.SavePage(context.Background(), "", &domain.SavePageRequest{
		PageSlug: "tree-trimming",
		Title:    "Tree Trimming",
	})
	require.NoError(t, err)

	pages, err := svc.ListPages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, store.listCalls, "save should evict the cached list")
	titles := make([]string, 0, len(pages))
	for _, p := range pages {
		titles = append(titles, p.Title)
	}
	assert.Contains(t, titles, "Tree Trimming")
}

func TestSavePageRoutesCreateVersusUpdate(t *testing.T) {
	store := taxonomy()
	svc := newContentService(store)

	created, err := svc.SavePage(context.Background(), "", &domain.SavePageRequest{
		PageSlug: "snow-removal",
		Title:    "Snow Removal",
	})
	require.NoError(t, err)
	assert.Equal(t, "pg-new", created.ID)

	updated, err := svc.SavePage(context.Background(), "lawn-care", &domain.SavePageRequest{
		PageSlug: "lawn-care",
		Title:    "Lawn Care & Maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, "lawn-care", updated.PageSlug)
	assert.Equal(t, "Lawn Care & Maintenance", updated.Title)
}

func TestSavePageValidation(t *testing.T) {
	svc := newContentService(taxonomy())

	cases := []struct {
		name string
		req  domain.SavePageRequest
	}{
		{"missing title", domain.SavePageRequest{PageSlug: "lawn-care"}},
		{"uppercase slug", domain.SavePageRequest{PageSlug: "Lawn-Care", Title: "Lawn Care"}},
		{"trailing hyphen", domain.SavePageRequest{PageSlug: "lawn-", Title: "Lawn Care"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := svc.SavePage(context.Background(), "", &req)
			var verr *domain.ErrValidation
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestGetPageBySlugBypassesCache(t *testing.T) {
	store := taxonomy()
	svc := newContentService(store)

	page, err := svc.GetPageBySlug(context.Background(), store.pages[0].PageSlug)
	require.NoError(t, err)
	assert.Equal(t, store.pages[0].Title, page.Title)

	_, err = svc.GetPageBySlug(context.Background(), "no-such-page")
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestListViewsReadTaxonomyThroughPageCache(t *testing.T) {
	store := taxonomy()
	contentSvc := newContentService(store)

	quotes := newMockQuoteStore()
	quotes.list = []domain.Quote{
		{ID: "q-1", Title: "Lawn Care", Status: domain.QuoteRequested},
	}
	estimates := service.NewEstimates(quotes, contentSvc, observability.NewMetrics(), zap.NewNop())
	jobs := service.NewJobs(
		newMockJobStore(&domain.Job{ID: "j-1", Title: "Landscaping", Status: domain.JobScheduled}),
		&mockUserStore{}, contentSvc, observability.NewMetrics(), zap.NewNop(),
	)

	_, err := estimates.List(context.Background(), view.Query{})
	require.NoError(t, err)
	_, err = estimates.List(context.Background(), view.Query{})
	require.NoError(t, err)
	_, err = jobs.List(context.Background(), view.Query{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.listCalls, "repeated list views should classify against the cached taxonomy")
}

package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

func testClassifier() *Classifier {
	return NewClassifierFromTitles([]string{"Lawn Care", "Landscaping", "Snow Removal"})
}

func testRows() []Row {
	return []Row{
		{ID: "j-1", Title: "Lawn Care Spring Cleanup", ClientName: "Acme", Status: "SCHEDULED", assigneeID: "e-1"},
		{ID: "j-2", Title: "Landscaping for patio", ClientName: "Birch Ltd", Status: "PENDING", assigneeID: "e-2"},
		{ID: "j-3", Title: "Gutter fix", ClientName: "Cedar Co", Status: "SCHEDULED", assigneeID: "e-1"},
		{ID: "j-4", Title: "Snow Removal contract", ClientName: "Acme", Status: "COMPLETED", assigneeID: "e-2"},
	}
}

func TestApplyClassifiesAndDerivesTabs(t *testing.T) {
	res := Apply(testRows(), testClassifier(), Query{})

	require.Len(t, res.Rows, 4)
	assert.Equal(t, "Lawn Care", res.Rows[0].Category)
	assert.Equal(t, "Landscaping", res.Rows[1].Category)
	assert.Equal(t, OtherCategory, res.Rows[2].Category)

	// "Other" appears because j-3 matched no service.
	assert.Equal(t, []string{AllSentinel, "Lawn Care", "Landscaping", "Snow Removal", OtherCategory}, res.Tabs)
}

func TestApplyOmitsOtherTabWhenAllClassified(t *testing.T) {
	rows := []Row{{ID: "j-1", Title: "Lawn Care weekly", assigneeID: "e-1"}}
	res := Apply(rows, testClassifier(), Query{})
	assert.NotContains(t, res.Tabs, OtherCategory)
}

func TestApplyEmployeeRestrictionRunsFirst(t *testing.T) {
	// j-2 matches the Landscaping service filter by title, but belongs to
	// e-2. The restriction must drop it before the service filter can
	// keep it.
	res := Apply(testRows(), testClassifier(), Query{
		Role:          string(domain.RoleEmployee),
		ViewerID:      "e-1",
		ServiceFilter: "Landscaping",
	})
	assert.Empty(t, res.Rows)
}

func TestApplyTabsDeriveFromVisibleRows(t *testing.T) {
	// j-3 is the only unclassified row and belongs to e-1. e-2's own
	// rows all classify, so e-2 must not see an "Other" tab for a
	// record the restriction hides.
	res := Apply(testRows(), testClassifier(), Query{
		Role:     string(domain.RoleEmployee),
		ViewerID: "e-2",
	})
	assert.NotContains(t, res.Tabs, OtherCategory)

	res = Apply(testRows(), testClassifier(), Query{
		Role:     string(domain.RoleEmployee),
		ViewerID: "e-1",
	})
	assert.Contains(t, res.Tabs, OtherCategory)
}

func TestApplyServiceFilterMatchesCategoryOrTitle(t *testing.T) {
	rows := testRows()
	res := Apply(rows, testClassifier(), Query{ServiceFilter: "Lawn Care"})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "j-1", res.Rows[0].ID)
}

func TestApplyTabFilter(t *testing.T) {
	res := Apply(testRows(), testClassifier(), Query{Tab: OtherCategory})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "j-3", res.Rows[0].ID)

	res = Apply(testRows(), testClassifier(), Query{Tab: AllSentinel})
	assert.Len(t, res.Rows, 4)
}

func TestApplySearchMatchesTitleClientAndID(t *testing.T) {
	for _, search := range []string{"patio", "birch", "j-2"} {
		res := Apply(testRows(), testClassifier(), Query{Search: search})
		require.Len(t, res.Rows, 1, "search %q", search)
		assert.Equal(t, "j-2", res.Rows[0].ID)
	}
}

func TestApplyStatusFilter(t *testing.T) {
	res := Apply(testRows(), testClassifier(), Query{Status: "SCHEDULED"})
	assert.Len(t, res.Rows, 2)

	res = Apply(testRows(), testClassifier(), Query{Status: AllSentinel})
	assert.Len(t, res.Rows, 4)
}

func TestApplySortDirection(t *testing.T) {
	res := Apply(testRows(), testClassifier(), Query{SortKey: SortByClient, SortAsc: true})
	assert.Equal(t, "Acme", res.Rows[0].ClientName)

	res = Apply(testRows(), testClassifier(), Query{SortKey: SortByClient, SortAsc: false})
	assert.Equal(t, "Cedar Co", res.Rows[0].ClientName)
}

func TestApplyEmptyInput(t *testing.T) {
	res := Apply(nil, NewClassifierFromTitles(nil), Query{Search: "anything"})
	assert.Empty(t, res.Rows)
	assert.Equal(t, []string{AllSentinel}, res.Tabs)
}

func TestApplyMissingTitleTreatedAsOther(t *testing.T) {
	rows := []Row{{ID: "j-9", Title: "", ClientName: "Acme"}}
	res := Apply(rows, testClassifier(), Query{})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, OtherCategory, res.Rows[0].Category)
}

func TestSortStateToggle(t *testing.T) {
	var s SortState

	s = s.Click(SortByTitle)
	assert.Equal(t, SortState{Key: SortByTitle, Asc: true}, s)

	s = s.Click(SortByTitle)
	assert.False(t, s.Asc)

	s = s.Click(SortByTitle)
	assert.True(t, s.Asc)

	// Switching columns always restarts ascending.
	s = s.Click(SortByTitle)
	s = s.Click(SortByClient)
	assert.Equal(t, SortState{Key: SortByClient, Asc: true}, s)
}

func TestJobRowProjection(t *testing.T) {
	date := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	j := &domain.Job{
		ID:                 "j-1",
		Title:              "Lawn Care weekly",
		ClientName:         "Acme",
		Status:             domain.JobScheduled,
		ScheduledDate:      &date,
		AssignedEmployeeID: "e-1",
	}
	r := JobRow(j)
	assert.Equal(t, "2024-01-10", r.ScheduledDate)
	assert.Equal(t, "SCHEDULED", r.Status)
}

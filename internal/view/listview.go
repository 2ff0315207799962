// Package view derives the list, calendar and availability projections
// the admin panel renders from raw upstream collections. Everything here
// is pure: collections in, ordered subsets out.
package view

import (
	"sort"
	"strings"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

// OtherCategory is the bucket for records whose title matches no known
// service.
const OtherCategory = "Other"

// AllSentinel selects every tab or status.
const AllSentinel = "ALL"

// Row is the common list projection for jobs and quotes.
type Row struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	ClientName    string  `json:"clientName"`
	Status        string  `json:"status"`
	Category      string  `json:"category"`
	ScheduledDate string  `json:"scheduledDate,omitempty"`
	Amount        float64 `json:"amount"`
	assigneeID    string
}

// JobRow projects a job for list rendering.
func JobRow(j *domain.Job) Row {
	r := Row{
		ID:         j.ID,
		Title:      j.Title,
		ClientName: j.ClientName,
		Status:     string(j.Status),
		assigneeID: j.AssignedEmployeeID,
	}
	if j.ScheduledDate != nil {
		r.ScheduledDate = j.ScheduledDate.Format("2006-01-02")
	}
	return r
}

// QuoteRow projects a quote for list rendering. Quotes carry no
// assignee, so under an EMPLOYEE query the restriction drops every
// quote row; quote lists must stay admin-scoped unless quotes grow an
// assignment field.
func QuoteRow(q *domain.Quote, clientName string) Row {
	return Row{
		ID:         q.ID,
		Title:      q.Title,
		ClientName: clientName,
		Status:     string(q.Status),
		Amount:     q.TotalAmount,
	}
}

// Classifier buckets records into service categories by title.
type Classifier struct {
	services []string
}

// NewClassifier builds a classifier from the live service-page taxonomy.
func NewClassifier(pages []domain.ServicePage) *Classifier {
	services := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Title != "" {
			services = append(services, p.Title)
		}
	}
	return &Classifier{services: services}
}

// NewClassifierFromTitles builds a classifier from bare service titles.
func NewClassifierFromTitles(titles []string) *Classifier {
	return &Classifier{services: titles}
}

// Classify returns the first known service whose title is a
// case-insensitive substring of the record title, or OtherCategory.
func (c *Classifier) Classify(title string) string {
	lower := strings.ToLower(title)
	for _, svc := range c.services {
		if strings.Contains(lower, strings.ToLower(svc)) {
			return svc
		}
	}
	return OtherCategory
}

// Services returns the known service titles in taxonomy order.
func (c *Classifier) Services() []string {
	return c.services
}

// MatchesFilter reports whether a title passes an external service
// filter, either through its derived category or a raw title substring.
// Older records carry the service name only as a title tag, hence the
// second check.
func (c *Classifier) MatchesFilter(title, filter string) bool {
	return c.Classify(title) == c.Classify(filter) ||
		strings.Contains(strings.ToLower(title), strings.ToLower(filter))
}

// SortKey names a sortable column.
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByClient SortKey = "clientName"
	SortByStatus SortKey = "status"
	SortByDate   SortKey = "scheduledDate"
	SortByAmount SortKey = "amount"
)

// Query is the full local UI state a list view applies to a collection.
type Query struct {
	Role          string
	ViewerID      string
	ServiceFilter string // external, from a service-scoped dashboard link
	Tab           string // local tab selection; "" or AllSentinel means all
	Search        string
	Status        string // "" or AllSentinel means all
	SortKey       SortKey
	SortAsc       bool
}

// Result is the derived list plus the tab labels the data supports.
type Result struct {
	Rows []Row    `json:"rows"`
	Tabs []string `json:"tabs"`
}

// Apply filters and sorts rows. The steps run in a fixed order: the
// employee restriction first, then service classification, tab, search
// and status, then the sort. The employee restriction is not optional
// and nothing later can reintroduce a dropped record.
func Apply(rows []Row, c *Classifier, q Query) Result {
	// The restriction runs first and everything downstream, tabs
	// included, sees only what the viewer is allowed to see.
	visible := rows
	if q.Role == string(domain.RoleEmployee) {
		visible = make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.assigneeID == q.ViewerID {
				visible = append(visible, r)
			}
		}
	}

	kept := make([]Row, 0, len(visible))

	for _, r := range visible {
		r.Category = c.Classify(r.Title)

		if q.ServiceFilter != "" {
			if !c.MatchesFilter(r.Title, q.ServiceFilter) {
				continue
			}
		} else if q.Tab != "" && q.Tab != AllSentinel && r.Category != q.Tab {
			continue
		}

		if !matchesSearch(r, q.Search) {
			continue
		}
		if q.Status != "" && q.Status != AllSentinel && r.Status != q.Status {
			continue
		}

		kept = append(kept, r)
	}

	sortRows(kept, q.SortKey, q.SortAsc)

	return Result{Rows: kept, Tabs: deriveTabs(visible, c)}
}

func matchesSearch(r Row, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.ClientName), needle) ||
		strings.Contains(strings.ToLower(r.ID), needle)
}

func sortRows(rows []Row, key SortKey, asc bool) {
	if key == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !asc {
			i, j = j, i
		}
		switch key {
		case SortByAmount:
			return rows[i].Amount < rows[j].Amount
		case SortByClient:
			return strings.ToLower(rows[i].ClientName) < strings.ToLower(rows[j].ClientName)
		case SortByStatus:
			return rows[i].Status < rows[j].Status
		case SortByDate:
			return rows[i].ScheduledDate < rows[j].ScheduledDate
		default:
			return strings.ToLower(rows[i].Title) < strings.ToLower(rows[j].Title)
		}
	})
}

// deriveTabs computes the tab set from the viewer-visible collection:
// the sentinel, every known service, and OtherCategory only when at
// least one visible record classifies as it. Tab and status filters do
// not shrink the set, so switching tabs never loses tabs.
func deriveTabs(rows []Row, c *Classifier) []string {
	tabs := append([]string{AllSentinel}, c.Services()...)
	for _, r := range rows {
		if c.Classify(r.Title) == OtherCategory {
			return append(tabs, OtherCategory)
		}
	}
	return tabs
}

// SortState tracks the column toggle behavior: clicking the active
// column flips direction, switching columns resets to ascending.
type SortState struct {
	Key SortKey
	Asc bool
}

// Click applies a column header click and returns the new state.
func (s SortState) Click(key SortKey) SortState {
	if s.Key == key {
		return SortState{Key: key, Asc: !s.Asc}
	}
	return SortState{Key: key, Asc: true}
}

package domain

// ============================================================
// Service Pages (marketing content + taxonomy source)
// ============================================================

// ServicePage is a content-service page. Its title doubles as the taxonomy
// label used to classify jobs and quotes by title substring match.
type ServicePage struct {
	ID          string   `json:"id"`
	PageSlug    string   `json:"pageSlug"`
	Title       string   `json:"title"`
	SubTitle    string   `json:"subTitle"`
	ImageURL    string   `json:"imageUrl"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// SavePageRequest is the create/update shape for the content service.
type SavePageRequest struct {
	PageSlug    string   `json:"pageSlug"`
	Title       string   `json:"title"`
	SubTitle    string   `json:"subTitle"`
	ImageURL    string   `json:"imageUrl"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

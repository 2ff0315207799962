package domain

// OpsMetrics is an operational summary derived from the Prometheus
// registry, served to admin tooling without a full scrape.
type OpsMetrics struct {
	TotalRequests int64   `json:"totalRequests"`
	ErrorRate     float64 `json:"errorRate"`
	CacheHitRate  float64 `json:"cacheHitRate"`
	Period        string  `json:"period"`
}

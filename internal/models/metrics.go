package models

import "time"

// SystemMetrics is a lightweight snapshot of service health counters.
type SystemMetrics struct {
	CacheHitRatio             float64   `json:"cacheHitRatio"`
	CacheHits                 uint64    `json:"cacheHits"`
	CacheMisses               uint64    `json:"cacheMisses"`
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"averageRequestDurationMs"`
	AnalysesTotal             uint64    `json:"analysesTotal"`
	AverageAnalysisDurationMs float64   `json:"averageAnalysisDurationMs"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}

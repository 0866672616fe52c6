package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsRecord is one normalized observation produced by a data provider.
// Cost and Revenue are money and therefore decimal; count metrics are ints.
type AnalyticsRecord struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	CampaignID  string          `json:"campaign_id"`
	Source      string          `json:"source"`
	Medium      string          `json:"medium,omitempty"`
	Clicks      int             `json:"clicks"`
	Impressions int             `json:"impressions"`
	Conversions int             `json:"conversions"`
	Cost        decimal.Decimal `json:"cost"`
	Revenue     decimal.Decimal `json:"revenue"`
	// Extra keeps unrecognized source columns under snake_cased keys.
	Extra map[string]any `json:"extra,omitempty"`
}

// BatchMetadata describes where a batch of records came from.
type BatchMetadata struct {
	BatchID        string            `json:"batch_id"`
	Provider       ProviderType      `json:"provider"`
	ProviderName   string            `json:"provider_name"`
	Version        string            `json:"version"`
	SourceColumns  []string          `json:"source_columns,omitempty"`
	ColumnMappings map[string]string `json:"column_mappings,omitempty"`
}

// AnalyticsData is a batch of normalized records. It is created fresh on every
// fetch and never mutated in place; query filtering returns a new batch.
// TotalCount is the post-filter, pre-pagination count, so a paged response
// still reports how many records matched overall.
type AnalyticsData struct {
	Records     []AnalyticsRecord `json:"records"`
	TotalCount  int               `json:"total_count"`
	LastUpdated time.Time         `json:"last_updated"`
	Metadata    BatchMetadata     `json:"metadata"`
}

// PageSize returns the number of records in the current page.
func (d *AnalyticsData) PageSize() int {
	return len(d.Records)
}

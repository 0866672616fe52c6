package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIs are derived aggregates over all records returned by a query.
// Percentages (ROI, CTR, ConversionRate) are float64, money stays decimal.
type KPIs struct {
	Revenue        decimal.Decimal `json:"revenue"`
	Cost           decimal.Decimal `json:"cost"`
	Profit         decimal.Decimal `json:"profit"`
	Conversions    int             `json:"conversions"`
	Clicks         int             `json:"clicks"`
	Impressions    int             `json:"impressions"`
	ROI            float64         `json:"roi"`
	CTR            float64         `json:"ctr"`
	CPA            decimal.Decimal `json:"cpa"`
	ConversionRate float64         `json:"conversion_rate"`
}

// ChartPoint is one calendar day of summed metrics, ordered chronologically.
type ChartPoint struct {
	Date        string          `json:"date"`
	Clicks      int             `json:"clicks"`
	Impressions int             `json:"impressions"`
	Conversions int             `json:"conversions"`
	Cost        decimal.Decimal `json:"cost"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TableRow is the fixed projection the dashboard table renders.
type TableRow struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	CampaignID  string          `json:"campaign_id"`
	Source      string          `json:"source"`
	Medium      string          `json:"medium,omitempty"`
	Clicks      int             `json:"clicks"`
	Impressions int             `json:"impressions"`
	Conversions int             `json:"conversions"`
	Cost        decimal.Decimal `json:"cost"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// FilterOptions lists the distinct dimensions observed in a result set so the
// dashboard can populate its filter dropdowns.
type FilterOptions struct {
	Campaigns []string  `json:"campaigns"`
	Sources   []string  `json:"sources"`
	DateRange DateRange `json:"date_range"`
}

// DashboardData is the UI-ready shape the analytics service produces.
type DashboardData struct {
	KPIs        KPIs          `json:"kpis"`
	Chart       []ChartPoint  `json:"chart"`
	Table       []TableRow    `json:"table"`
	Filters     FilterOptions `json:"filters"`
	TotalCount  int           `json:"total_count"`
	LastUpdated time.Time     `json:"last_updated"`
}

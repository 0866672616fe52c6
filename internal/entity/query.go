package entity

import "time"

type OrderFactor string

const (
	Ascending  OrderFactor = "ASC"
	Descending OrderFactor = "DESC"
)

func (of *OrderFactor) String() string {
	if of != nil && *of == Descending {
		return "DESC"
	}
	return "ASC"
}

// Sortable record fields. Sorting on anything else falls back to the Extra bag.
const (
	FieldTimestamp   = "timestamp"
	FieldCampaignID  = "campaign_id"
	FieldSource      = "source"
	FieldMedium      = "medium"
	FieldClicks      = "clicks"
	FieldImpressions = "impressions"
	FieldConversions = "conversions"
	FieldCost        = "cost"
	FieldRevenue     = "revenue"
)

// DateRange is an inclusive [From, To] interval.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r DateRange) Contains(ts time.Time) bool {
	return !ts.Before(r.From) && !ts.After(r.To)
}

type OrderBy struct {
	Field  string      `json:"field"`
	Factor OrderFactor `json:"factor"`
}

// AnalyticsQuery describes one request against a provider. Filters are exact
// match and combined with AND. Limit == 0 means the rest of the batch.
type AnalyticsQuery struct {
	DateRange DateRange         `json:"date_range"`
	Metrics   []string          `json:"metrics"`
	Filters   map[string]string `json:"filters,omitempty"`
	GroupBy   string            `json:"group_by,omitempty"`
	OrderBy   *OrderBy          `json:"order_by,omitempty"`
	Limit     int               `json:"limit,omitempty"`
	Offset    int               `json:"offset,omitempty"`
}

package provider

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/affistats/insights-manager/internal/entity"
)

// ApplyQuery filters, sorts and paginates a transformed batch in memory,
// returning a new batch. The input is never mutated. TotalCount on the result
// is the filtered count before pagination.
func ApplyQuery(data *entity.AnalyticsData, q entity.AnalyticsQuery) (*entity.AnalyticsData, error) {
	if q.DateRange.From.After(q.DateRange.To) {
		return nil, NewValidationError(data.Metadata.Provider,
			fmt.Sprintf("query date range start %s is after end %s",
				q.DateRange.From.Format(time.DateOnly), q.DateRange.To.Format(time.DateOnly)))
	}

	filtered := make([]entity.AnalyticsRecord, 0, len(data.Records))
	for _, rec := range data.Records {
		if !q.DateRange.Contains(rec.Timestamp) {
			continue
		}
		if !matchesFilters(&rec, q.Filters) {
			continue
		}
		filtered = append(filtered, rec)
	}

	if q.OrderBy != nil {
		sortRecords(filtered, q.OrderBy.Field, q.OrderBy.Factor == entity.Descending)
	}

	total := len(filtered)
	page := paginate(filtered, q.Offset, q.Limit)

	return &entity.AnalyticsData{
		Records:     page,
		TotalCount:  total,
		LastUpdated: data.LastUpdated,
		Metadata:    data.Metadata,
	}, nil
}

func matchesFilters(rec *entity.AnalyticsRecord, filters map[string]string) bool {
	for field, want := range filters {
		if fieldString(rec, field) != want {
			return false
		}
	}
	return true
}

// fieldString renders a record field for exact-match comparison.
func fieldString(rec *entity.AnalyticsRecord, field string) string {
	switch field {
	case entity.FieldCampaignID:
		return rec.CampaignID
	case entity.FieldSource:
		return rec.Source
	case entity.FieldMedium:
		return rec.Medium
	case entity.FieldClicks:
		return strconv.Itoa(rec.Clicks)
	case entity.FieldImpressions:
		return strconv.Itoa(rec.Impressions)
	case entity.FieldConversions:
		return strconv.Itoa(rec.Conversions)
	case entity.FieldCost:
		return rec.Cost.String()
	case entity.FieldRevenue:
		return rec.Revenue.String()
	case entity.FieldTimestamp:
		return rec.Timestamp.Format(time.RFC3339)
	default:
		if v, ok := rec.Extra[field]; ok {
			return NormalizeString(v)
		}
		return ""
	}
}

// sortRecords orders by a typed per-field comparator; ties keep input order.
func sortRecords(records []entity.AnalyticsRecord, field string, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		c := compareRecords(&records[i], &records[j], field)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareRecords(a, b *entity.AnalyticsRecord, field string) int {
	switch field {
	case entity.FieldTimestamp:
		return a.Timestamp.Compare(b.Timestamp)
	case entity.FieldCampaignID:
		return strings.Compare(a.CampaignID, b.CampaignID)
	case entity.FieldSource:
		return strings.Compare(a.Source, b.Source)
	case entity.FieldMedium:
		return strings.Compare(a.Medium, b.Medium)
	case entity.FieldClicks:
		return compareInt(a.Clicks, b.Clicks)
	case entity.FieldImpressions:
		return compareInt(a.Impressions, b.Impressions)
	case entity.FieldConversions:
		return compareInt(a.Conversions, b.Conversions)
	case entity.FieldCost:
		return a.Cost.Cmp(b.Cost)
	case entity.FieldRevenue:
		return a.Revenue.Cmp(b.Revenue)
	default:
		return strings.Compare(NormalizeString(a.Extra[field]), NormalizeString(b.Extra[field]))
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func paginate(records []entity.AnalyticsRecord, offset, limit int) []entity.AnalyticsRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []entity.AnalyticsRecord{}
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	page := make([]entity.AnalyticsRecord, end-offset)
	copy(page, records[offset:end])
	return page
}

package provider

import (
	"strings"

	"github.com/affistats/insights-manager/internal/entity"
)

// columnSynonyms maps each canonical field to the header spellings it accepts.
// Matching is case-insensitive on trimmed headers; the first matching header
// wins per field so duplicate columns never remap an already-bound field.
var columnSynonyms = map[string][]string{
	entity.FieldTimestamp:   {"date", "timestamp", "day", "time"},
	entity.FieldCampaignID:  {"campaign_id", "campaign id", "campaign", "campaign name", "utm_campaign"},
	entity.FieldSource:      {"source", "utm_source", "traffic source", "channel"},
	entity.FieldMedium:      {"medium", "utm_medium"},
	entity.FieldClicks:      {"clicks", "click", "link clicks"},
	entity.FieldImpressions: {"impressions", "impr", "views"},
	entity.FieldCost:        {"cost", "spend", "ad spend", "amount spent"},
	entity.FieldConversions: {"conversions", "conv", "purchases", "leads"},
	entity.FieldRevenue:     {"revenue", "income", "earnings", "sales value"},
}

// canonicalFields fixes the iteration order so mapping is deterministic.
var canonicalFields = []string{
	entity.FieldTimestamp,
	entity.FieldCampaignID,
	entity.FieldSource,
	entity.FieldMedium,
	entity.FieldClicks,
	entity.FieldImpressions,
	entity.FieldCost,
	entity.FieldConversions,
	entity.FieldRevenue,
}

// MapColumns resolves source headers to canonical schema fields. The result
// maps the original header text to the field it feeds; headers that match
// nothing are absent and end up in the record's Extra bag.
func MapColumns(headers []string) map[string]string {
	mappings := make(map[string]string)
	claimed := make(map[int]bool)

	for _, field := range canonicalFields {
		for i, header := range headers {
			if claimed[i] {
				continue
			}
			if matchesField(header, field) {
				mappings[header] = field
				claimed[i] = true
				break
			}
		}
	}
	return mappings
}

func matchesField(header, field string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, syn := range columnSynonyms[field] {
		if h == syn {
			return true
		}
	}
	return false
}

// SnakeCase converts an arbitrary header into a snake_cased Extra key.
func SnakeCase(header string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(header), func(r rune) bool {
		return r == ' ' || r == '-' || r == '.' || r == '/'
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return strings.Join(fields, "_")
}

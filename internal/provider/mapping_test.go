package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/affistats/insights-manager/internal/entity"
)

func TestMapColumns_CaseAndWhitespace(t *testing.T) {
	headers := []string{"Clicks", " cost ", "CONVERSIONS", "Revenue"}
	m := MapColumns(headers)

	assert.Equal(t, entity.FieldClicks, m["Clicks"])
	assert.Equal(t, entity.FieldCost, m[" cost "])
	assert.Equal(t, entity.FieldConversions, m["CONVERSIONS"])
	assert.Equal(t, entity.FieldRevenue, m["Revenue"])
}

func TestMapColumns_OrderIndependent(t *testing.T) {
	a := MapColumns([]string{"Revenue", "Cost", "Conversions", "Clicks"})
	b := MapColumns([]string{"Clicks", "Conversions", "Cost", "Revenue"})

	for _, m := range []map[string]string{a, b} {
		assert.Equal(t, entity.FieldClicks, m["Clicks"])
		assert.Equal(t, entity.FieldCost, m["Cost"])
		assert.Equal(t, entity.FieldConversions, m["Conversions"])
		assert.Equal(t, entity.FieldRevenue, m["Revenue"])
	}
}

func TestMapColumns_FirstMatchWins(t *testing.T) {
	// two headers could both feed timestamp; only the first binds
	m := MapColumns([]string{"Date", "Timestamp"})
	assert.Equal(t, entity.FieldTimestamp, m["Date"])
	_, mapped := m["Timestamp"]
	assert.False(t, mapped)
}

func TestMapColumns_Synonyms(t *testing.T) {
	m := MapColumns([]string{"utm_campaign", "utm_source", "utm_medium", "Spend", "Purchases"})
	assert.Equal(t, entity.FieldCampaignID, m["utm_campaign"])
	assert.Equal(t, entity.FieldSource, m["utm_source"])
	assert.Equal(t, entity.FieldMedium, m["utm_medium"])
	assert.Equal(t, entity.FieldCost, m["Spend"])
	assert.Equal(t, entity.FieldConversions, m["Purchases"])
}

func TestMapColumns_UnknownHeadersUnmapped(t *testing.T) {
	m := MapColumns([]string{"Date", "Landing Page URL"})
	_, mapped := m["Landing Page URL"]
	assert.False(t, mapped)
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "landing_page_url", SnakeCase("Landing Page URL"))
	assert.Equal(t, "sub_id", SnakeCase("Sub-ID"))
	assert.Equal(t, "already_snake", SnakeCase("already_snake"))
}

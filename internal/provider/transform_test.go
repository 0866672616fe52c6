package provider

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affistats/insights-manager/internal/entity"
)

func TestTransformTabular_NilInput(t *testing.T) {
	res := TransformTabular(entity.ProviderGoogleSheets, "test", nil)
	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.NotEmpty(t, res.Errors)
}

func TestTransformTabular_EmptyInput(t *testing.T) {
	res := TransformTabular(entity.ProviderGoogleSheets, "test", [][]any{})
	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	assert.Empty(t, res.Data.Records)
	assert.Zero(t, res.Data.TotalCount)
	assert.Equal(t, entity.ProviderGoogleSheets, res.Data.Metadata.Provider)
}

func TestTransformTabular_BasicScenario(t *testing.T) {
	raw := [][]any{
		{"Date", "Campaign", "Clicks", "Cost"},
		{"2024-01-01", "A", 100, 50},
		{"2024-01-02", "B", 150, 75},
	}

	res := TransformTabular(entity.ProviderGoogleSheets, "test", raw)
	require.True(t, res.Success)
	require.Len(t, res.Data.Records, 2)
	assert.Empty(t, res.Errors)

	rec := res.Data.Records[0]
	assert.Equal(t, "A", rec.CampaignID)
	assert.Equal(t, 100, rec.Clicks)
	assert.True(t, decimal.NewFromInt(50).Equal(rec.Cost))
	assert.Equal(t, 0, rec.Conversions)
	assert.True(t, rec.Revenue.IsZero())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, "unknown", rec.Source)
	assert.NotEmpty(t, rec.ID)
}

func TestTransformTabular_Defaulting(t *testing.T) {
	raw := [][]any{
		{"Date", "Campaign"},
		{"2024-03-01", "spring-sale"},
	}

	res := TransformTabular(entity.ProviderGoogleSheets, "test", raw)
	require.True(t, res.Success)
	require.Len(t, res.Data.Records, 1)

	rec := res.Data.Records[0]
	assert.Equal(t, "spring-sale", rec.CampaignID)
	assert.Equal(t, "unknown", rec.Source)
	assert.Zero(t, rec.Clicks)
	assert.Zero(t, rec.Impressions)
	assert.Zero(t, rec.Conversions)
	assert.True(t, rec.Cost.IsZero())
	assert.True(t, rec.Revenue.IsZero())
}

func TestTransformTabular_MalformedRowsSkipped(t *testing.T) {
	raw := [][]any{
		{"Date", "Campaign", "Clicks", "Cost"},
		{"2024-01-01", "A", 100, 50},
		{"2024-01-02", "B", "-10", 20}, // negative clicks
		{"2024-01-03", "C", 5, "-1"},   // negative cost
		{"2024-01-04", "D", 1, 1},
	}

	res := TransformTabular(entity.ProviderGoogleSheets, "test", raw)
	require.True(t, res.Success)
	assert.Len(t, res.Data.Records, 2)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "row 2:")
	assert.Contains(t, res.Errors[0], "negative clicks")
	assert.Contains(t, res.Errors[1], "row 3:")
	assert.Contains(t, res.Errors[1], "negative cost")
}

func TestTransformTabular_UnknownColumnsKept(t *testing.T) {
	raw := [][]any{
		{"Date", "Campaign", "Landing Page URL"},
		{"2024-01-01", "A", "https://example.com/lp"},
	}

	res := TransformTabular(entity.ProviderGoogleSheets, "test", raw)
	require.True(t, res.Success)
	require.Len(t, res.Data.Records, 1)
	assert.Equal(t, "https://example.com/lp", res.Data.Records[0].Extra["landing_page_url"])
}

func TestTransformTabular_ColumnMappingsReported(t *testing.T) {
	raw := [][]any{
		{"Date", "Campaign", "Clicks"},
		{"2024-01-01", "A", 1},
	}

	res := TransformTabular(entity.ProviderGoogleSheets, "test", raw)
	require.True(t, res.Success)
	assert.Equal(t, entity.FieldTimestamp, res.ColumnMappings["Date"])
	assert.Equal(t, entity.FieldCampaignID, res.ColumnMappings["Campaign"])
	assert.Equal(t, entity.FieldClicks, res.ColumnMappings["Clicks"])
	assert.Equal(t, res.ColumnMappings, res.Data.Metadata.ColumnMappings)
	assert.Equal(t, []string{"Date", "Campaign", "Clicks"}, res.Data.Metadata.SourceColumns)
}

func TestTransformTabular_Idempotent(t *testing.T) {
	raw := [][]any{
		{"Date", "Campaign", "Source", "Clicks"},
		{"2024-01-01", "A", "google", 10},
		{"2024-01-02", "B", "meta", 20},
	}

	first := TransformTabular(entity.ProviderGoogleSheets, "test", raw)
	second := TransformTabular(entity.ProviderGoogleSheets, "test", raw)
	require.True(t, first.Success)
	require.True(t, second.Success)
	require.Len(t, second.Data.Records, len(first.Data.Records))

	for i := range first.Data.Records {
		a, b := first.Data.Records[i], second.Data.Records[i]
		assert.Equal(t, a.ID, b.ID)
		assert.Equal(t, a.CampaignID, b.CampaignID)
		assert.Equal(t, a.Source, b.Source)
		assert.Equal(t, a.Clicks, b.Clicks)
		assert.True(t, a.Timestamp.Equal(b.Timestamp))
	}
}

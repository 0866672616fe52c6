package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/affistats/insights-manager/internal/entity"
)

const schemaVersion = "1.0"

// unknownDimension is the default for absent campaign and source columns.
const unknownDimension = "unknown"

// TransformTabular converts a raw 2D table (header row first) into a
// normalized batch. Rows that fail record validation are skipped and reported
// in Errors; the batch itself still succeeds as long as the table shape is
// sound. This is shared by every tabular provider.
func TransformTabular(p entity.ProviderType, providerName string, raw [][]any) entity.TransformationResult {
	if raw == nil {
		return entity.TransformationResult{
			Success: false,
			Errors:  []string{"raw data is not a table"},
		}
	}

	if len(raw) == 0 {
		return entity.TransformationResult{
			Success: true,
			Data:    emptyBatch(p, providerName, nil, nil),
		}
	}

	headers := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		headers[i] = NormalizeString(cell)
	}
	mappings := MapColumns(headers)

	records := make([]entity.AnalyticsRecord, 0, len(raw)-1)
	var rowErrors []string

	for i, row := range raw[1:] {
		rec := buildRecord(p, headers, mappings, row, i)
		if verrs := ValidateRecord(&rec); len(verrs) > 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %s", i+1, strings.Join(verrs, "; ")))
			continue
		}
		records = append(records, rec)
	}

	data := &entity.AnalyticsData{
		Records:     records,
		TotalCount:  len(records),
		LastUpdated: time.Now().UTC(),
		Metadata: entity.BatchMetadata{
			BatchID:        uuid.NewString(),
			Provider:       p,
			ProviderName:   providerName,
			Version:        schemaVersion,
			SourceColumns:  headers,
			ColumnMappings: mappings,
		},
	}

	return entity.TransformationResult{
		Success:        true,
		Data:           data,
		Errors:         rowErrors,
		ColumnMappings: mappings,
	}
}

func buildRecord(p entity.ProviderType, headers []string, mappings map[string]string, row []any, idx int) entity.AnalyticsRecord {
	var rec entity.AnalyticsRecord

	for j, cell := range row {
		if j >= len(headers) {
			break
		}
		header := headers[j]
		field, mapped := mappings[header]
		if !mapped {
			if header != "" {
				if rec.Extra == nil {
					rec.Extra = make(map[string]any)
				}
				rec.Extra[SnakeCase(header)] = cell
			}
			continue
		}

		switch field {
		case entity.FieldTimestamp:
			if ts, ok := NormalizeDate(cell); ok {
				rec.Timestamp = ts
			}
		case entity.FieldCampaignID:
			rec.CampaignID = NormalizeString(cell)
		case entity.FieldSource:
			rec.Source = NormalizeString(cell)
		case entity.FieldMedium:
			rec.Medium = NormalizeString(cell)
		case entity.FieldClicks:
			rec.Clicks = NormalizeInt(cell)
		case entity.FieldImpressions:
			rec.Impressions = NormalizeInt(cell)
		case entity.FieldConversions:
			rec.Conversions = NormalizeInt(cell)
		case entity.FieldCost:
			rec.Cost = NormalizeDecimal(cell)
		case entity.FieldRevenue:
			rec.Revenue = NormalizeDecimal(cell)
		}
	}

	// Required fields fall back to defaults when the source omits them.
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.CampaignID == "" {
		rec.CampaignID = unknownDimension
	}
	if rec.Source == "" {
		rec.Source = unknownDimension
	}

	rec.ID = RecordID(p, rec.Timestamp, rec.CampaignID, rec.Source, idx)
	return rec
}

func emptyBatch(p entity.ProviderType, providerName string, headers []string, mappings map[string]string) *entity.AnalyticsData {
	return &entity.AnalyticsData{
		Records:     []entity.AnalyticsRecord{},
		TotalCount:  0,
		LastUpdated: time.Now().UTC(),
		Metadata: entity.BatchMetadata{
			BatchID:        uuid.NewString(),
			Provider:       p,
			ProviderName:   providerName,
			Version:        schemaVersion,
			SourceColumns:  headers,
			ColumnMappings: mappings,
		},
	}
}

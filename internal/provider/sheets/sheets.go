// Package sheets implements the Google Sheets data provider. It reads a
// configured range of a spreadsheet through the Sheets API and funnels the
// rows through the shared tabular transform.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/affistats/insights-manager/internal/dependency"
	"github.com/affistats/insights-manager/internal/entity"
	"github.com/affistats/insights-manager/internal/provider"
)

const (
	defaultSheetName  = "Sheet1"
	defaultSampleRows = 5
	defaultFetchLimit = 1000
)

type Provider struct {
	provider.Base
	svc *sheetsapi.Service
}

// New builds an unconfigured Google Sheets provider.
func New() dependency.DataProvider {
	return &Provider{Base: provider.NewBase(entity.ProviderGoogleSheets)}
}

func (p *Provider) TestConnection(ctx context.Context) entity.ConnectionTestResult {
	return p.RunConnectionTest(ctx, p.connect)
}

// connect authenticates, checks the spreadsheet is reachable and pulls a
// small sample. Only service-account auth is supported.
func (p *Provider) connect(ctx context.Context) (entity.ConnectionTestResult, error) {
	cfg := p.Config()
	gs := cfg.GoogleSheets
	if gs == nil {
		return entity.ConnectionTestResult{}, provider.NewValidationError(p.Type(),
			"google_sheets config section is missing")
	}

	switch gs.AuthType {
	case entity.AuthServiceAccount:
	case entity.AuthOAuth2:
		return entity.ConnectionTestResult{}, provider.NewAuthenticationError(p.Type(),
			"oauth2 auth is not yet implemented")
	default:
		return entity.ConnectionTestResult{}, provider.NewAuthenticationError(p.Type(),
			fmt.Sprintf("unsupported auth type %q", gs.AuthType))
	}

	start := time.Now()

	svc, err := newService(ctx, gs.Credentials)
	if err != nil {
		return entity.ConnectionTestResult{}, provider.NewConnectionError(p.Type(),
			"cannot create sheets client", err)
	}

	meta, err := svc.Spreadsheets.Get(gs.SpreadsheetID).
		Fields(googleapi.Field("properties.title"), googleapi.Field("sheets.properties.title")).
		Context(ctx).Do()
	if err != nil {
		return entity.ConnectionTestResult{}, provider.NewConnectionError(p.Type(),
			fmt.Sprintf("cannot reach spreadsheet %q", gs.SpreadsheetID), err)
	}

	p.svc = svc
	latency := time.Since(start).Milliseconds()

	sample, err := p.SampleData(ctx, defaultSampleRows)
	if err != nil {
		slog.Default().WarnContext(ctx, "connected but sample read failed",
			slog.String("err", err.Error()))
		sample = nil
	}

	return entity.ConnectionTestResult{
		Success: true,
		Message: fmt.Sprintf("connected to spreadsheet %q (%d sheets)",
			meta.Properties.Title, len(meta.Sheets)),
		LatencyMS:   latency,
		RecordCount: len(sample),
		SampleData:  sample,
	}, nil
}

// newService builds the Sheets API client from service-account credentials.
// Raw key JSON is recognized by its leading '{', anything else is a file path.
func newService(ctx context.Context, creds *entity.ServiceAccountCredentials) (*sheetsapi.Service, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope)}
	if creds != nil && creds.JSON != "" {
		if strings.HasPrefix(strings.TrimSpace(creds.JSON), "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(creds.JSON)))
		} else {
			opts = append(opts, option.WithCredentialsFile(creds.JSON))
		}
	}
	return sheetsapi.NewService(ctx, opts...)
}

func (p *Provider) Disconnect() {
	p.svc = nil
	p.Base.Disconnect()
}

// Fetch reads the configured range, transforms the rows and applies the query
// in memory. Transform failures here are structural and abort the call.
func (p *Provider) Fetch(ctx context.Context, q entity.AnalyticsQuery) (*entity.AnalyticsData, error) {
	cfg := p.Config()
	if p.svc == nil || cfg == nil {
		return nil, provider.NewConnectionError(p.Type(), "provider not connected", nil)
	}
	gs := cfg.GoogleSheets

	readRange := gs.Range
	if readRange == "" {
		limit := q.Limit
		if limit <= 0 {
			limit = defaultFetchLimit
		}
		readRange = fmt.Sprintf("%s!A1:Z%d", p.sheetName(), limit+1)
	}

	resp, err := p.svc.Spreadsheets.Values.Get(gs.SpreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, provider.NewConnectionError(p.Type(),
			fmt.Sprintf("cannot read range %q", readRange), err)
	}

	res := p.Transform(resp.Values)
	if !res.Success {
		return nil, provider.NewTransformationError(p.Type(),
			strings.Join(res.Errors, "; "), nil)
	}
	if len(res.Errors) > 0 {
		slog.Default().WarnContext(ctx, "rows skipped during transform",
			slog.Int("skipped", len(res.Errors)),
			slog.String("first", res.Errors[0]))
	}

	return provider.ApplyQuery(res.Data, q)
}

func (p *Provider) Transform(raw [][]any) entity.TransformationResult {
	return provider.TransformTabular(p.Type(), p.providerName(), raw)
}

// SampleData returns up to limit records, or nothing when unconnected.
func (p *Provider) SampleData(ctx context.Context, limit int) ([]entity.AnalyticsRecord, error) {
	cfg := p.Config()
	if p.svc == nil || cfg == nil {
		return []entity.AnalyticsRecord{}, nil
	}
	if limit <= 0 {
		limit = defaultSampleRows
	}

	readRange := fmt.Sprintf("%s!A1:Z%d", p.sheetName(), limit+1)
	resp, err := p.svc.Spreadsheets.Values.Get(cfg.GoogleSheets.SpreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, provider.NewConnectionError(p.Type(),
			fmt.Sprintf("cannot read sample range %q", readRange), err)
	}

	res := p.Transform(resp.Values)
	if !res.Success || res.Data == nil {
		return []entity.AnalyticsRecord{}, nil
	}
	records := res.Data.Records
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// AvailableColumns reads the header row, empty when unconnected.
func (p *Provider) AvailableColumns(ctx context.Context) ([]string, error) {
	cfg := p.Config()
	if p.svc == nil || cfg == nil {
		return []string{}, nil
	}

	readRange := fmt.Sprintf("%s!A1:Z1", p.sheetName())
	resp, err := p.svc.Spreadsheets.Values.Get(cfg.GoogleSheets.SpreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, provider.NewConnectionError(p.Type(), "cannot read header row", err)
	}
	if len(resp.Values) == 0 {
		return []string{}, nil
	}

	columns := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		columns = append(columns, provider.NormalizeString(cell))
	}
	return columns, nil
}

// RecordCount counts data rows in the first column, zero when unconnected.
func (p *Provider) RecordCount(ctx context.Context) (int, error) {
	cfg := p.Config()
	if p.svc == nil || cfg == nil {
		return 0, nil
	}

	readRange := fmt.Sprintf("%s!A2:A", p.sheetName())
	resp, err := p.svc.Spreadsheets.Values.Get(cfg.GoogleSheets.SpreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return 0, provider.NewConnectionError(p.Type(), "cannot count rows", err)
	}
	return len(resp.Values), nil
}

func (p *Provider) sheetName() string {
	if cfg := p.Config(); cfg != nil && cfg.GoogleSheets != nil && cfg.GoogleSheets.SheetName != "" {
		return cfg.GoogleSheets.SheetName
	}
	return defaultSheetName
}

func (p *Provider) providerName() string {
	if cfg := p.Config(); cfg != nil && cfg.Name != "" {
		return cfg.Name
	}
	return string(entity.ProviderGoogleSheets)
}

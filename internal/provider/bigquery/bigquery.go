// Package bigquery implements the BigQuery data provider. It selects from a
// configured table and funnels the rows through the shared tabular transform,
// so column-mapping heuristics behave identically to the spreadsheet path.
package bigquery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	bq "cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/affistats/insights-manager/internal/dependency"
	"github.com/affistats/insights-manager/internal/entity"
	"github.com/affistats/insights-manager/internal/provider"
)

const (
	defaultSampleRows = 5
	defaultFetchLimit = 1000
)

type Provider struct {
	provider.Base
	client *bq.Client
}

// New builds an unconfigured BigQuery provider.
func New() dependency.DataProvider {
	return &Provider{Base: provider.NewBase(entity.ProviderBigQuery)}
}

func (p *Provider) TestConnection(ctx context.Context) entity.ConnectionTestResult {
	return p.RunConnectionTest(ctx, p.connect)
}

func (p *Provider) connect(ctx context.Context) (entity.ConnectionTestResult, error) {
	cfg := p.Config()
	bc := cfg.BigQuery
	if bc == nil {
		return entity.ConnectionTestResult{}, provider.NewValidationError(p.Type(),
			"bigquery config section is missing")
	}

	start := time.Now()

	client, err := newClient(ctx, bc)
	if err != nil {
		return entity.ConnectionTestResult{}, provider.NewConnectionError(p.Type(),
			"cannot create bigquery client", err)
	}

	md, err := client.Dataset(bc.Dataset).Table(bc.Table).Metadata(ctx)
	if err != nil {
		_ = client.Close()
		return entity.ConnectionTestResult{}, provider.NewConnectionError(p.Type(),
			fmt.Sprintf("cannot reach table %s.%s", bc.Dataset, bc.Table), err)
	}

	p.client = client
	latency := time.Since(start).Milliseconds()

	sample, err := p.SampleData(ctx, defaultSampleRows)
	if err != nil {
		slog.Default().WarnContext(ctx, "connected but sample read failed",
			slog.String("err", err.Error()))
		sample = nil
	}

	return entity.ConnectionTestResult{
		Success: true,
		Message: fmt.Sprintf("connected to table %s.%s (%d rows)",
			bc.Dataset, bc.Table, md.NumRows),
		LatencyMS:   latency,
		RecordCount: len(sample),
		SampleData:  sample,
	}, nil
}

func newClient(ctx context.Context, c *entity.BigQueryConfig) (*bq.Client, error) {
	var opts []option.ClientOption
	if c.Credentials != nil && c.Credentials.JSON != "" {
		if strings.HasPrefix(strings.TrimSpace(c.Credentials.JSON), "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(c.Credentials.JSON)))
		} else {
			opts = append(opts, option.WithCredentialsFile(c.Credentials.JSON))
		}
	}
	return bq.NewClient(ctx, c.ProjectID, opts...)
}

func (p *Provider) Disconnect() {
	if p.client != nil {
		_ = p.client.Close()
		p.client = nil
	}
	p.Base.Disconnect()
}

func (p *Provider) Fetch(ctx context.Context, q entity.AnalyticsQuery) (*entity.AnalyticsData, error) {
	cfg := p.Config()
	if p.client == nil || cfg == nil {
		return nil, provider.NewConnectionError(p.Type(), "provider not connected", nil)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultFetchLimit
	}

	raw, err := p.readRows(ctx, limit)
	if err != nil {
		return nil, err
	}

	res := p.Transform(raw)
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

// readRows queries the table and rebuilds the tabular header-first shape the
// shared transform expects, with the schema field names as the header row.
func (p *Provider) readRows(ctx context.Context, limit int) ([][]any, error) {
	bc := p.Config().BigQuery

	md, err := p.client.Dataset(bc.Dataset).Table(bc.Table).Metadata(ctx)
	if err != nil {
		return nil, provider.NewConnectionError(p.Type(), "cannot read table schema", err)
	}

	header := make([]any, len(md.Schema))
	for i, f := range md.Schema {
		header[i] = f.Name
	}
	raw := [][]any{header}

	query := p.client.Query(fmt.Sprintf(
		"SELECT * FROM `%s.%s.%s` LIMIT %d", bc.ProjectID, bc.Dataset, bc.Table, limit))
	it, err := query.Read(ctx)
	if err != nil {
		return nil, provider.NewConnectionError(p.Type(), "query failed", err)
	}

	for {
		var row []bq.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, provider.NewConnectionError(p.Type(), "row iteration failed", err)
		}
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = normalizeValue(v)
		}
		raw = append(raw, cells)
	}
	return raw, nil
}

// normalizeValue maps BigQuery calendar types onto time.Time so the shared
// date normalization recognizes them.
func normalizeValue(v bq.Value) any {
	switch val := v.(type) {
	case civil.Date:
		return val.In(time.UTC)
	case civil.DateTime:
		return val.In(time.UTC)
	default:
		return v
	}
}

func (p *Provider) Transform(raw [][]any) entity.TransformationResult {
	return provider.TransformTabular(p.Type(), p.providerName(), raw)
}

func (p *Provider) SampleData(ctx context.Context, limit int) ([]entity.AnalyticsRecord, error) {
	if p.client == nil || p.Config() == nil {
		return []entity.AnalyticsRecord{}, nil
	}
	if limit <= 0 {
		limit = defaultSampleRows
	}

	raw, err := p.readRows(ctx, limit)
	if err != nil {
		return nil, err
	}
	res := p.Transform(raw)
	if !res.Success || res.Data == nil {
		return []entity.AnalyticsRecord{}, nil
	}
	records := res.Data.Records
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (p *Provider) AvailableColumns(ctx context.Context) ([]string, error) {
	cfg := p.Config()
	if p.client == nil || cfg == nil {
		return []string{}, nil
	}
	bc := cfg.BigQuery
	md, err := p.client.Dataset(bc.Dataset).Table(bc.Table).Metadata(ctx)
	if err != nil {
		return nil, provider.NewConnectionError(p.Type(), "cannot read table schema", err)
	}
	columns := make([]string, len(md.Schema))
	for i, f := range md.Schema {
		columns[i] = f.Name
	}
	return columns, nil
}

func (p *Provider) RecordCount(ctx context.Context) (int, error) {
	cfg := p.Config()
	if p.client == nil || cfg == nil {
		return 0, nil
	}
	bc := cfg.BigQuery
	md, err := p.client.Dataset(bc.Dataset).Table(bc.Table).Metadata(ctx)
	if err != nil {
		return 0, provider.NewConnectionError(p.Type(), "cannot read table metadata", err)
	}
	return int(md.NumRows), nil
}

func (p *Provider) providerName() string {
	if cfg := p.Config(); cfg != nil && cfg.Name != "" {
		return cfg.Name
	}
	return string(entity.ProviderBigQuery)
}

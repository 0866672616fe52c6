// Package clickhouse registers the ClickHouse provider type so configs for it
// validate and surface a clear "not implemented" instead of an unknown-type
// error. The actual driver integration has not landed yet.
package clickhouse

import (
	"context"

	"github.com/affistats/insights-manager/internal/dependency"
	"github.com/affistats/insights-manager/internal/entity"
	"github.com/affistats/insights-manager/internal/provider"
)

type Provider struct {
	provider.Base
}

func New() dependency.DataProvider {
	return &Provider{Base: provider.NewBase(entity.ProviderClickHouse)}
}

func (p *Provider) TestConnection(ctx context.Context) entity.ConnectionTestResult {
	return p.RunConnectionTest(ctx, p.connect)
}

func (p *Provider) connect(_ context.Context) (entity.ConnectionTestResult, error) {
	return entity.ConnectionTestResult{}, provider.NewConnectionError(p.Type(),
		"clickhouse provider is not implemented yet", nil)
}

func (p *Provider) Fetch(_ context.Context, _ entity.AnalyticsQuery) (*entity.AnalyticsData, error) {
	return nil, provider.NewConnectionError(p.Type(), "provider not connected", nil)
}

func (p *Provider) Transform(raw [][]any) entity.TransformationResult {
	return provider.TransformTabular(p.Type(), string(entity.ProviderClickHouse), raw)
}

func (p *Provider) SampleData(_ context.Context, _ int) ([]entity.AnalyticsRecord, error) {
	return []entity.AnalyticsRecord{}, nil
}

func (p *Provider) AvailableColumns(_ context.Context) ([]string, error) {
	return []string{}, nil
}

func (p *Provider) RecordCount(_ context.Context) (int, error) {
	return 0, nil
}

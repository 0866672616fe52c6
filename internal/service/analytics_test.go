package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affistats/insights-manager/internal/dependency"
	"github.com/affistats/insights-manager/internal/entity"
	"github.com/affistats/insights-manager/internal/provider"
)

// fakeProvider implements dependency.DataProvider around a canned batch.
type fakeProvider struct {
	provider.Base
	batch    *entity.AnalyticsData
	dialOK   bool
	fetchErr error
}

func newFakeProvider(batch *entity.AnalyticsData, dialOK bool) *fakeProvider {
	return &fakeProvider{
		Base:   provider.NewBase(entity.ProviderGoogleSheets),
		batch:  batch,
		dialOK: dialOK,
	}
}

func (p *fakeProvider) TestConnection(ctx context.Context) entity.ConnectionTestResult {
	return p.RunConnectionTest(ctx, func(ctx context.Context) (entity.ConnectionTestResult, error) {
		if !p.dialOK {
			return entity.ConnectionTestResult{Success: false, Message: "upstream unreachable"}, nil
		}
		return entity.ConnectionTestResult{Success: true, Message: "ok"}, nil
	})
}

func (p *fakeProvider) Fetch(ctx context.Context, q entity.AnalyticsQuery) (*entity.AnalyticsData, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return provider.ApplyQuery(p.batch, q)
}

func (p *fakeProvider) Transform(raw [][]any) entity.TransformationResult {
	return provider.TransformTabular(p.Type(), "fake", raw)
}

func (p *fakeProvider) SampleData(ctx context.Context, limit int) ([]entity.AnalyticsRecord, error) {
	return []entity.AnalyticsRecord{}, nil
}

func (p *fakeProvider) AvailableColumns(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (p *fakeProvider) RecordCount(ctx context.Context) (int, error) {
	if p.batch == nil {
		return 0, nil
	}
	return len(p.batch.Records), nil
}

// fakeFactory hands out a prepared provider regardless of config.
type fakeFactory struct {
	provider   *fakeProvider
	validation entity.ConfigValidation
	createErr  error
	created    int
}

func (f *fakeFactory) Create(cfg entity.DataProviderConfig) (dependency.DataProvider, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	if err := f.provider.Configure(cfg); err != nil {
		return nil, err
	}
	return f.provider, nil
}

func (f *fakeFactory) ValidateConfig(cfg entity.DataProviderConfig) entity.ConfigValidation {
	return f.validation
}

func (f *fakeFactory) RegisteredTypes() []entity.ProviderType {
	return []entity.ProviderType{entity.ProviderGoogleSheets}
}

func validCfg() entity.DataProviderConfig {
	return entity.DataProviderConfig{
		Name:    "fake",
		Type:    entity.ProviderGoogleSheets,
		Enabled: true,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func sampleBatch() *entity.AnalyticsData {
	records := []entity.AnalyticsRecord{
		{
			ID: "r1", Timestamp: day(2), CampaignID: "alpha", Source: "google",
			Clicks: 60, Impressions: 600, Conversions: 3,
			Cost: decimal.NewFromInt(30), Revenue: decimal.NewFromInt(150),
		},
		{
			ID: "r2", Timestamp: day(1), CampaignID: "beta", Source: "meta",
			Clicks: 40, Impressions: 400, Conversions: 2,
			Cost: decimal.NewFromInt(20), Revenue: decimal.NewFromInt(100),
		},
	}
	return &entity.AnalyticsData{
		Records:     records,
		TotalCount:  len(records),
		LastUpdated: time.Now(),
		Metadata:    entity.BatchMetadata{Provider: entity.ProviderGoogleSheets},
	}
}

func fullRangeQuery() entity.AnalyticsQuery {
	return entity.AnalyticsQuery{DateRange: entity.DateRange{From: day(1), To: day(31)}}
}

func TestSetDataProvider_Success(t *testing.T) {
	f := &fakeFactory{
		provider:   newFakeProvider(sampleBatch(), true),
		validation: entity.ConfigValidation{Valid: true},
	}
	a := New(f)

	res := a.SetDataProvider(context.Background(), validCfg())
	require.True(t, res.Success)
	require.NotNil(t, a.CurrentProvider())
	assert.True(t, a.CurrentProvider().IsReady())
}

func TestSetDataProvider_InvalidConfig(t *testing.T) {
	f := &fakeFactory{
		provider: newFakeProvider(sampleBatch(), true),
		validation: entity.ConfigValidation{
			Valid:       false,
			Errors:      []string{"spreadsheet_id is required"},
			Suggestions: []string{"set google_sheets.spreadsheet_id"},
		},
	}
	a := New(f)

	res := a.SetDataProvider(context.Background(), validCfg())
	assert.False(t, res.Success)
	assert.Equal(t, []string{"spreadsheet_id is required"}, res.Errors)
	assert.Equal(t, []string{"set google_sheets.spreadsheet_id"}, res.Suggestions)
	assert.Nil(t, a.CurrentProvider())
	// nothing was instantiated for an invalid config
	assert.Zero(t, f.created)
}

func TestSetDataProvider_ConnectionFailureKeepsCurrent(t *testing.T) {
	good := &fakeFactory{
		provider:   newFakeProvider(sampleBatch(), true),
		validation: entity.ConfigValidation{Valid: true},
	}
	a := New(good)
	require.True(t, a.SetDataProvider(context.Background(), validCfg()).Success)
	committed := a.CurrentProvider()

	good.provider = newFakeProvider(nil, false)
	res := a.SetDataProvider(context.Background(), validCfg())
	assert.False(t, res.Success)
	assert.Equal(t, "upstream unreachable", res.Message)
	assert.Same(t, committed, a.CurrentProvider())
}

func TestTestDataProvider_DoesNotCommit(t *testing.T) {
	f := &fakeFactory{
		provider:   newFakeProvider(sampleBatch(), true),
		validation: entity.ConfigValidation{Valid: true},
	}
	a := New(f)

	res := a.TestDataProvider(context.Background(), validCfg())
	assert.True(t, res.Success)
	assert.Nil(t, a.CurrentProvider())
	// the ephemeral instance was disconnected after the test
	assert.Equal(t, entity.StatusDisconnected, f.provider.Status())
}

func TestGetDashboardData_NoProvider(t *testing.T) {
	a := New(&fakeFactory{validation: entity.ConfigValidation{Valid: true}})
	_, err := a.GetDashboardData(context.Background(), fullRangeQuery())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestGetDashboardData_FetchErrorPropagates(t *testing.T) {
	p := newFakeProvider(sampleBatch(), true)
	p.fetchErr = provider.NewConnectionError(entity.ProviderGoogleSheets, "token expired", nil)
	f := &fakeFactory{provider: p, validation: entity.ConfigValidation{Valid: true}}
	a := New(f)
	require.True(t, a.SetDataProvider(context.Background(), validCfg()).Success)

	_, err := a.GetDashboardData(context.Background(), fullRangeQuery())
	require.Error(t, err)
	assert.Equal(t, provider.CodeConnection, provider.CodeOf(err))
}

func TestGetDashboardData_KPIs(t *testing.T) {
	f := &fakeFactory{
		provider:   newFakeProvider(sampleBatch(), true),
		validation: entity.ConfigValidation{Valid: true},
	}
	a := New(f)
	require.True(t, a.SetDataProvider(context.Background(), validCfg()).Success)

	dd, err := a.GetDashboardData(context.Background(), fullRangeQuery())
	require.NoError(t, err)

	k := dd.KPIs
	assert.True(t, decimal.NewFromInt(250).Equal(k.Revenue))
	assert.True(t, decimal.NewFromInt(50).Equal(k.Cost))
	assert.True(t, decimal.NewFromInt(200).Equal(k.Profit))
	assert.Equal(t, 100, k.Clicks)
	assert.Equal(t, 1000, k.Impressions)
	assert.Equal(t, 5, k.Conversions)
	assert.InDelta(t, 400, k.ROI, 1e-9)
	assert.InDelta(t, 10, k.CTR, 1e-9)
	assert.InDelta(t, 5, k.ConversionRate, 1e-9)
	assert.True(t, decimal.NewFromInt(10).Equal(k.CPA))
	assert.Equal(t, 2, dd.TotalCount)
}

func TestGetDashboardData_ZeroDenominators(t *testing.T) {
	batch := &entity.AnalyticsData{
		Records: []entity.AnalyticsRecord{
			{ID: "r1", Timestamp: day(1), CampaignID: "alpha", Source: "google"},
		},
		TotalCount:  1,
		LastUpdated: time.Now(),
	}
	f := &fakeFactory{
		provider:   newFakeProvider(batch, true),
		validation: entity.ConfigValidation{Valid: true},
	}
	a := New(f)
	require.True(t, a.SetDataProvider(context.Background(), validCfg()).Success)

	dd, err := a.GetDashboardData(context.Background(), fullRangeQuery())
	require.NoError(t, err)
	assert.Zero(t, dd.KPIs.ROI)
	assert.Zero(t, dd.KPIs.CTR)
	assert.Zero(t, dd.KPIs.ConversionRate)
	assert.True(t, dd.KPIs.CPA.IsZero())
}

func TestGetDashboardData_ChartChronological(t *testing.T) {
	f := &fakeFactory{
		provider:   newFakeProvider(sampleBatch(), true),
		validation: entity.ConfigValidation{Valid: true},
	}
	a := New(f)
	require.True(t, a.SetDataProvider(context.Background(), validCfg()).Success)

	dd, err := a.GetDashboardData(context.Background(), fullRangeQuery())
	require.NoError(t, err)

	// records arrive newest first; the chart is still oldest first
	require.Len(t, dd.Chart, 2)
	assert.Equal(t, "2024-01-01", dd.Chart[0].Date)
	assert.Equal(t, "2024-01-02", dd.Chart[1].Date)
	assert.Equal(t, 40, dd.Chart[0].Clicks)
	assert.Equal(t, 60, dd.Chart[1].Clicks)
}

func TestGetDashboardData_TableAndFilters(t *testing.T) {
	f := &fakeFactory{
		provider:   newFakeProvider(sampleBatch(), true),
		validation: entity.ConfigValidation{Valid: true},
	}
	a := New(f)
	require.True(t, a.SetDataProvider(context.Background(), validCfg()).Success)

	q := fullRangeQuery()
	dd, err := a.GetDashboardData(context.Background(), q)
	require.NoError(t, err)

	require.Len(t, dd.Table, 2)
	assert.Equal(t, "r1", dd.Table[0].ID)
	assert.Equal(t, "alpha", dd.Table[0].CampaignID)

	assert.Equal(t, []string{"alpha", "beta"}, dd.Filters.Campaigns)
	assert.Equal(t, []string{"google", "meta"}, dd.Filters.Sources)
	assert.True(t, dd.Filters.DateRange.From.Equal(q.DateRange.From))
}

// Package service bridges a connected data provider to the UI-ready
// dashboard shapes: KPIs, daily chart, table rows and filter options.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/affistats/insights-manager/internal/cache"
	"github.com/affistats/insights-manager/internal/dependency"
	"github.com/affistats/insights-manager/internal/entity"
)

var ErrNoProvider = errors.New("no data provider configured")

// dashboardTTL bounds how stale a cached dashboard payload can get.
const dashboardTTL = time.Minute

type Analytics struct {
	factory dependency.ProviderFactory
	cache   *cache.Dashboard

	mu      sync.RWMutex
	current dependency.DataProvider
}

func New(f dependency.ProviderFactory) *Analytics {
	return &Analytics{
		factory: f,
		cache:   cache.NewDashboard(dashboardTTL),
	}
}

// SetDataProvider validates the config, creates the provider and tests the
// connection. The new provider becomes current only on success, so a failed
// attempt leaves any previously working provider untouched.
func (a *Analytics) SetDataProvider(ctx context.Context, cfg entity.DataProviderConfig) entity.SetProviderResult {
	if res := a.factory.ValidateConfig(cfg); !res.Valid {
		return entity.SetProviderResult{
			Success:     false,
			Message:     "invalid provider config",
			Errors:      res.Errors,
			Suggestions: res.Suggestions,
		}
	}

	p, err := a.factory.Create(cfg)
	if err != nil {
		slog.Default().ErrorContext(ctx, "cannot create provider",
			slog.String("type", cfg.Type.String()),
			slog.String("err", err.Error()))
		return entity.SetProviderResult{Success: false, Message: err.Error()}
	}

	tr := p.TestConnection(ctx)
	if !tr.Success {
		slog.Default().WarnContext(ctx, "provider connection test failed",
			slog.String("type", cfg.Type.String()),
			slog.String("message", tr.Message))
		return entity.SetProviderResult{Success: false, Message: tr.Message}
	}

	a.mu.Lock()
	a.current = p
	a.mu.Unlock()
	a.cache.Invalidate()

	slog.Default().InfoContext(ctx, "data provider set",
		slog.String("type", cfg.Type.String()),
		slog.String("name", cfg.Name))
	return entity.SetProviderResult{Success: true, Message: tr.Message}
}

// TestDataProvider validates and dials a config without committing it.
func (a *Analytics) TestDataProvider(ctx context.Context, cfg entity.DataProviderConfig) entity.SetProviderResult {
	if res := a.factory.ValidateConfig(cfg); !res.Valid {
		return entity.SetProviderResult{
			Success:     false,
			Message:     "invalid provider config",
			Errors:      res.Errors,
			Suggestions: res.Suggestions,
		}
	}

	p, err := a.factory.Create(cfg)
	if err != nil {
		return entity.SetProviderResult{Success: false, Message: err.Error()}
	}
	defer p.Disconnect()

	tr := p.TestConnection(ctx)
	return entity.SetProviderResult{Success: tr.Success, Message: tr.Message}
}

// CurrentProvider returns the committed provider, nil when none was set.
func (a *Analytics) CurrentProvider() dependency.DataProvider {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// GetDashboardData fetches through the current provider and aggregates the
// batch into KPI, chart, table and filter shapes.
func (a *Analytics) GetDashboardData(ctx context.Context, q entity.AnalyticsQuery) (*entity.DashboardData, error) {
	p := a.CurrentProvider()
	if p == nil {
		return nil, ErrNoProvider
	}

	key := cache.Key(q)
	if dd, ok := a.cache.Get(key); ok {
		return dd, nil
	}

	data, err := p.Fetch(ctx, q)
	if err != nil {
		slog.Default().ErrorContext(ctx, "dashboard fetch failed",
			slog.String("provider", p.Type().String()),
			slog.String("err", err.Error()))
		return nil, err
	}

	dd := buildDashboard(data, q)
	a.cache.Set(key, dd)
	return dd, nil
}

func buildDashboard(data *entity.AnalyticsData, q entity.AnalyticsQuery) *entity.DashboardData {
	return &entity.DashboardData{
		KPIs:        computeKPIs(data.Records),
		Chart:       computeChart(data.Records),
		Table:       computeTable(data.Records),
		Filters:     computeFilters(data.Records, q.DateRange),
		TotalCount:  data.TotalCount,
		LastUpdated: data.LastUpdated,
	}
}

func computeKPIs(records []entity.AnalyticsRecord) entity.KPIs {
	k := entity.KPIs{
		Revenue: decimal.Zero,
		Cost:    decimal.Zero,
		CPA:     decimal.Zero,
	}
	for _, rec := range records {
		k.Revenue = k.Revenue.Add(rec.Revenue)
		k.Cost = k.Cost.Add(rec.Cost)
		k.Conversions += rec.Conversions
		k.Clicks += rec.Clicks
		k.Impressions += rec.Impressions
	}

	k.Profit = k.Revenue.Sub(k.Cost)
	if !k.Cost.IsZero() {
		k.ROI = k.Profit.Div(k.Cost).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	if k.Impressions > 0 {
		k.CTR = float64(k.Clicks) / float64(k.Impressions) * 100
	}
	if k.Conversions > 0 {
		k.CPA = k.Cost.Div(decimal.NewFromInt(int64(k.Conversions)))
	}
	if k.Clicks > 0 {
		k.ConversionRate = float64(k.Conversions) / float64(k.Clicks) * 100
	}
	return k
}

// computeChart groups records by calendar day and sums each day's metrics.
// Days come out in chronological order regardless of record order.
func computeChart(records []entity.AnalyticsRecord) []entity.ChartPoint {
	byDay := make(map[string]*entity.ChartPoint)
	for _, rec := range records {
		day := rec.Timestamp.Format(time.DateOnly)
		pt, ok := byDay[day]
		if !ok {
			pt = &entity.ChartPoint{Date: day, Cost: decimal.Zero, Revenue: decimal.Zero}
			byDay[day] = pt
		}
		pt.Clicks += rec.Clicks
		pt.Impressions += rec.Impressions
		pt.Conversions += rec.Conversions
		pt.Cost = pt.Cost.Add(rec.Cost)
		pt.Revenue = pt.Revenue.Add(rec.Revenue)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	chart := make([]entity.ChartPoint, 0, len(days))
	for _, day := range days {
		chart = append(chart, *byDay[day])
	}
	return chart
}

func computeTable(records []entity.AnalyticsRecord) []entity.TableRow {
	rows := make([]entity.TableRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, entity.TableRow{
			ID:          rec.ID,
			Date:        rec.Timestamp.Format(time.DateOnly),
			CampaignID:  rec.CampaignID,
			Source:      rec.Source,
			Medium:      rec.Medium,
			Clicks:      rec.Clicks,
			Impressions: rec.Impressions,
			Conversions: rec.Conversions,
			Cost:        rec.Cost,
			Revenue:     rec.Revenue,
		})
	}
	return rows
}

func computeFilters(records []entity.AnalyticsRecord, dr entity.DateRange) entity.FilterOptions {
	campaigns := dedupe(records, func(r *entity.AnalyticsRecord) string { return r.CampaignID })
	sources := dedupe(records, func(r *entity.AnalyticsRecord) string { return r.Source })
	return entity.FilterOptions{
		Campaigns: campaigns,
		Sources:   sources,
		DateRange: dr,
	}
}

func dedupe(records []entity.AnalyticsRecord, key func(*entity.AnalyticsRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range records {
		k := key(&records[i])
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

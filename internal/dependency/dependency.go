package dependency

import (
	"context"

	"github.com/affistats/insights-manager/internal/entity"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// DataProvider is the uniform contract every analytics data source exposes.
	DataProvider interface {
		// Type returns the provider type tag.
		Type() entity.ProviderType
		// Config returns the stored config, nil when unconfigured.
		Config() *entity.DataProviderConfig
		// Status returns the current connection status.
		Status() entity.ConnectionStatus
		// LastError returns the last connection error, nil when none.
		LastError() error
		// IsReady reports whether the provider is configured and connected.
		IsReady() bool
		// Configure stores the config without attempting a connection.
		Configure(cfg entity.DataProviderConfig) error
		// TestConnection dials the upstream and reports a result object,
		// never an error; failures are captured into LastError.
		TestConnection(ctx context.Context) entity.ConnectionTestResult
		// Disconnect resets config, status and last error. Idempotent.
		Disconnect()
		// Fetch pulls raw data upstream, transforms it and applies the query.
		Fetch(ctx context.Context, q entity.AnalyticsQuery) (*entity.AnalyticsData, error)
		// Transform converts raw tabular input into normalized records.
		Transform(raw [][]any) entity.TransformationResult
		// Validate is a minimal shape check over already-transformed data.
		Validate(data any) entity.ValidationResult
		// SampleData returns up to limit records for connection previews.
		SampleData(ctx context.Context, limit int) ([]entity.AnalyticsRecord, error)
		// AvailableColumns returns the source column headers.
		AvailableColumns(ctx context.Context) ([]string, error)
		// RecordCount returns the number of data rows upstream.
		RecordCount(ctx context.Context) (int, error)
	}

	// ProviderFactory creates and validates configured provider instances.
	ProviderFactory interface {
		Create(cfg entity.DataProviderConfig) (DataProvider, error)
		ValidateConfig(cfg entity.DataProviderConfig) entity.ConfigValidation
		RegisteredTypes() []entity.ProviderType
	}

	// Analytics bridges a connected provider to UI-ready dashboard shapes.
	Analytics interface {
		SetDataProvider(ctx context.Context, cfg entity.DataProviderConfig) entity.SetProviderResult
		TestDataProvider(ctx context.Context, cfg entity.DataProviderConfig) entity.SetProviderResult
		GetDashboardData(ctx context.Context, q entity.AnalyticsQuery) (*entity.DashboardData, error)
		CurrentProvider() DataProvider
	}
)

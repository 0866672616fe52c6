package entity

import (
	"time"
)

// ProviderType tags a data-provider implementation.
type ProviderType string

const (
	ProviderGoogleSheets ProviderType = "google-sheets"
	ProviderBigQuery     ProviderType = "bigquery"
	ProviderClickHouse   ProviderType = "clickhouse"
)

func (p ProviderType) String() string {
	return string(p)
}

// ConnectionStatus tracks the lifecycle of a provider instance.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// AuthType selects how a provider authenticates against its upstream.
type AuthType string

const (
	AuthServiceAccount AuthType = "service-account"
	AuthOAuth2         AuthType = "oauth2"
)

// ServiceAccountCredentials is the subset of a Google service-account key the
// providers care about. Raw JSON or a key-file path is carried alongside so the
// upstream client can be built either way.
type ServiceAccountCredentials struct {
	ClientEmail string `json:"client_email" mapstructure:"client_email"`
	PrivateKey  string `json:"private_key" mapstructure:"private_key"`
	ProjectID   string `json:"project_id" mapstructure:"project_id"`
	// JSON holds the full key material: raw JSON if it starts with '{',
	// otherwise a path to the key file.
	JSON string `json:"json" mapstructure:"json"`
}

// GoogleSheetsConfig configures the Google Sheets provider.
type GoogleSheetsConfig struct {
	SpreadsheetID string                     `json:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SheetName     string                     `json:"sheet_name,omitempty" mapstructure:"sheet_name"`
	Range         string                     `json:"range,omitempty" mapstructure:"range"`
	AuthType      AuthType                   `json:"auth_type" mapstructure:"auth_type"`
	Credentials   *ServiceAccountCredentials `json:"credentials,omitempty" mapstructure:"credentials"`
}

// BigQueryConfig configures the BigQuery provider.
type BigQueryConfig struct {
	ProjectID   string                     `json:"project_id" mapstructure:"project_id"`
	Dataset     string                     `json:"dataset" mapstructure:"dataset"`
	Table       string                     `json:"table" mapstructure:"table"`
	Credentials *ServiceAccountCredentials `json:"credentials,omitempty" mapstructure:"credentials"`
}

// ClickHouseConfig is accepted and validated but has no registered provider yet.
type ClickHouseConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Database string `json:"database" mapstructure:"database"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Table    string `json:"table" mapstructure:"table"`
}

// DataProviderConfig is the tagged union the settings surface produces. Type
// selects which of the per-provider sections applies.
type DataProviderConfig struct {
	Name       string       `json:"name" mapstructure:"name"`
	Type       ProviderType `json:"type" mapstructure:"type"`
	Enabled    bool         `json:"enabled" mapstructure:"enabled"`
	LastTested *time.Time   `json:"last_tested,omitempty" mapstructure:"-"`

	GoogleSheets *GoogleSheetsConfig `json:"google_sheets,omitempty" mapstructure:"google_sheets"`
	BigQuery     *BigQueryConfig     `json:"bigquery,omitempty" mapstructure:"bigquery"`
	ClickHouse   *ClickHouseConfig   `json:"clickhouse,omitempty" mapstructure:"clickhouse"`
}

// ConnectionTestResult is what testing a provider connection reports back to
// the settings surface. It is a result object, never an error.
type ConnectionTestResult struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	LatencyMS   int64             `json:"latency_ms,omitempty"`
	RecordCount int               `json:"record_count,omitempty"`
	SampleData  []AnalyticsRecord `json:"sample_data,omitempty"`
}

// TransformationResult carries a transformed batch plus per-row errors for the
// rows that were skipped. A failed result has Success=false and no data.
type TransformationResult struct {
	Success        bool              `json:"success"`
	Data           *AnalyticsData    `json:"data,omitempty"`
	Errors         []string          `json:"errors,omitempty"`
	ColumnMappings map[string]string `json:"column_mappings,omitempty"`
}

// ValidationResult is the weak shape-check result of DataProvider.Validate.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ConfigValidation accumulates every structural problem found in a provider
// config, plus suggestions such as the list of registered types.
type ConfigValidation struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SetProviderResult reports the outcome of switching the active provider.
type SetProviderResult struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Errors      []string `json:"errors,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

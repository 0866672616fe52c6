package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	httpapi "github.com/affistats/insights-manager/internal/api/http"
	"github.com/affistats/insights-manager/internal/entity"
	"github.com/affistats/insights-manager/log"
)

// Config represents the global configuration for the service.
type Config struct {
	Logger log.Config     `mapstructure:"logger"`
	HTTP   httpapi.Config `mapstructure:"http"`
	// Provider optionally bootstraps a data provider at startup so the
	// dashboard works without touching the settings API first.
	Provider entity.DataProviderConfig `mapstructure:"provider"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/insights-manager")
		viper.AddConfigPath("/etc/insights-manager")
		// Config file is optional, env vars can carry everything.
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	return &config, nil
}

// bindEnvVars binds flat environment variable names to nested config keys.
func bindEnvVars() {
	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Bootstrap provider
	viper.BindEnv("provider.type", "PROVIDER_TYPE")
	viper.BindEnv("provider.name", "PROVIDER_NAME")
	viper.BindEnv("provider.enabled", "PROVIDER_ENABLED")

	// Google Sheets
	viper.BindEnv("provider.google_sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID")
	viper.BindEnv("provider.google_sheets.sheet_name", "GOOGLE_SHEETS_SHEET_NAME")
	viper.BindEnv("provider.google_sheets.range", "GOOGLE_SHEETS_RANGE")
	viper.BindEnv("provider.google_sheets.auth_type", "GOOGLE_SHEETS_AUTH_TYPE")
	viper.BindEnv("provider.google_sheets.credentials.json", "GOOGLE_SHEETS_CREDENTIALS_JSON")
	viper.BindEnv("provider.google_sheets.credentials.client_email", "GOOGLE_SHEETS_CLIENT_EMAIL")

	// BigQuery
	viper.BindEnv("provider.bigquery.project_id", "BIGQUERY_PROJECT_ID")
	viper.BindEnv("provider.bigquery.dataset", "BIGQUERY_DATASET")
	viper.BindEnv("provider.bigquery.table", "BIGQUERY_TABLE")
	viper.BindEnv("provider.bigquery.credentials.json", "BIGQUERY_CREDENTIALS_JSON")

	// ClickHouse (accepted, provider not implemented yet)
	viper.BindEnv("provider.clickhouse.host", "CLICKHOUSE_HOST")
	viper.BindEnv("provider.clickhouse.port", "CLICKHOUSE_PORT")
	viper.BindEnv("provider.clickhouse.database", "CLICKHOUSE_DATABASE")
	viper.BindEnv("provider.clickhouse.username", "CLICKHOUSE_USERNAME")
	viper.BindEnv("provider.clickhouse.password", "CLICKHOUSE_PASSWORD")
	viper.BindEnv("provider.clickhouse.table", "CLICKHOUSE_TABLE")
}

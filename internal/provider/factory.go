package provider

import (
	"fmt"
	"strings"

	v "github.com/asaskevich/govalidator"

	"github.com/affistats/insights-manager/internal/dependency"
	"github.com/affistats/insights-manager/internal/entity"
)

// Factory creates configured provider instances and validates configs before
// anything touches an upstream.
type Factory struct {
	registry *Registry
}

func NewFactory(r *Registry) *Factory {
	return &Factory{registry: r}
}

// Create instantiates the provider for cfg.Type and configures it before
// returning. Unregistered types fail by name.
func (f *Factory) Create(cfg entity.DataProviderConfig) (dependency.DataProvider, error) {
	ctor, ok := f.registry.constructor(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("no provider registered for type %q", cfg.Type)
	}
	p := ctor()
	if err := p.Configure(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// RegisteredTypes exposes the registry contents for UI suggestions.
func (f *Factory) RegisteredTypes() []entity.ProviderType {
	return f.registry.Registered()
}

// ValidateConfig runs layered structural validation and accumulates every
// error instead of stopping at the first. It never returns a Go error so the
// settings surface can render the result inline.
func (f *Factory) ValidateConfig(cfg entity.DataProviderConfig) entity.ConfigValidation {
	if cfg.Type == "" {
		return entity.ConfigValidation{Valid: false, Errors: []string{"provider type is required"}}
	}

	if !f.registry.IsRegistered(cfg.Type) {
		return entity.ConfigValidation{
			Valid:       false,
			Errors:      []string{fmt.Sprintf("unknown provider type %q", cfg.Type)},
			Suggestions: []string{fmt.Sprintf("available types: %s", f.registeredList())},
		}
	}

	var errs []string
	switch cfg.Type {
	case entity.ProviderGoogleSheets:
		errs = validateGoogleSheets(cfg.GoogleSheets)
	case entity.ProviderBigQuery:
		errs = validateBigQuery(cfg.BigQuery)
	case entity.ProviderClickHouse:
		errs = validateClickHouse(cfg.ClickHouse)
	}

	if len(errs) > 0 {
		return entity.ConfigValidation{Valid: false, Errors: errs}
	}
	return entity.ConfigValidation{Valid: true}
}

func (f *Factory) registeredList() string {
	types := f.registry.Registered()
	ss := make([]string, len(types))
	for i, t := range types {
		ss[i] = string(t)
	}
	return strings.Join(ss, ", ")
}

func validateGoogleSheets(c *entity.GoogleSheetsConfig) []string {
	if c == nil {
		return []string{"google_sheets config section is required"}
	}
	var errs []string
	if c.SpreadsheetID == "" {
		errs = append(errs, "spreadsheet_id is required")
	}
	switch c.AuthType {
	case "":
		errs = append(errs, "auth_type is required")
	case entity.AuthServiceAccount:
		if c.Credentials == nil || (c.Credentials.JSON == "" && c.Credentials.PrivateKey == "") {
			errs = append(errs, "credentials are required for service-account auth")
		} else if c.Credentials.ClientEmail != "" && !v.IsEmail(c.Credentials.ClientEmail) {
			errs = append(errs, fmt.Sprintf("credentials client_email %q is not a valid email", c.Credentials.ClientEmail))
		}
	case entity.AuthOAuth2:
		// accepted structurally; connect rejects it as unimplemented
	default:
		errs = append(errs, fmt.Sprintf("unsupported auth_type %q", c.AuthType))
	}
	return errs
}

func validateBigQuery(c *entity.BigQueryConfig) []string {
	if c == nil {
		return []string{"bigquery config section is required"}
	}
	var errs []string
	if c.ProjectID == "" {
		errs = append(errs, "project_id is required")
	}
	if c.Dataset == "" {
		errs = append(errs, "dataset is required")
	}
	if c.Table == "" {
		errs = append(errs, "table is required")
	}
	return errs
}

func validateClickHouse(c *entity.ClickHouseConfig) []string {
	if c == nil {
		return []string{"clickhouse config section is required"}
	}
	var errs []string
	if c.Host == "" {
		errs = append(errs, "host is required")
	} else if !v.IsHost(c.Host) {
		errs = append(errs, fmt.Sprintf("host %q is not a valid hostname", c.Host))
	}
	if c.Port != "" && !v.IsPort(c.Port) {
		errs = append(errs, fmt.Sprintf("port %q is not a valid port", c.Port))
	}
	if c.Database == "" {
		errs = append(errs, "database is required")
	}
	if c.Table == "" {
		errs = append(errs, "table is required")
	}
	return errs
}

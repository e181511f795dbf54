package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/chart"
)

// Config represents the top-level buchex.yaml configuration.
type Config struct {
	Tenant   TenantConfig   `yaml:"tenant"`
	Chart    ChartConfig    `yaml:"chart"`
	Datev    DatevConfig    `yaml:"datev"`
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
}

// TenantConfig identifies the company whose ledger this is.
type TenantConfig struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// ChartConfig selects a chart of accounts: a named standard chart, or
// custom ranges that override it.
type ChartConfig struct {
	Name                 string             `yaml:"name"`
	FiscalYearStartMonth int                `yaml:"fiscal_year_start_month,omitempty"`
	KindRanges           []chart.KindRange  `yaml:"kind_ranges,omitempty"`
	PartyRanges          []chart.PartyRange `yaml:"party_ranges,omitempty"`
}

// Resolve turns the configuration into a concrete chart. Custom ranges take
// precedence over the named chart; the fiscal-year start month always
// applies when set.
func (c ChartConfig) Resolve() (chart.Chart, error) {
	resolved, err := chart.ByName(c.Name)
	if err != nil {
		return chart.Chart{}, err
	}
	if len(c.KindRanges) > 0 {
		resolved.KindRanges = c.KindRanges
	}
	if len(c.PartyRanges) > 0 {
		resolved.PartyRanges = c.PartyRanges
	}
	if c.FiscalYearStartMonth != 0 {
		if c.FiscalYearStartMonth < 1 || c.FiscalYearStartMonth > 12 {
			return chart.Chart{}, fmt.Errorf("fiscal_year_start_month %d out of range", c.FiscalYearStartMonth)
		}
		resolved.FiscalYearStartMonth = c.FiscalYearStartMonth
	}
	return resolved, nil
}

// DatevConfig holds the consultant and client numbers stamped into EXTF
// export headers.
type DatevConfig struct {
	AdvisorNumber int `yaml:"advisor_number"`
	ClientNumber  int `yaml:"client_number"`
}

// DatabaseConfig locates the ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ImportConfig controls batch persistence.
type ImportConfig struct {
	ChunkSize int    `yaml:"chunk_size,omitempty"`
	CreatedBy string `yaml:"created_by,omitempty"`
}

// Load reads a buchex.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(tenantID int64, tenantName string) *Config {
	return &Config{
		Tenant: TenantConfig{
			ID:   tenantID,
			Name: tenantName,
		},
		Chart: ChartConfig{
			Name: "SKR04",
		},
		Database: DatabaseConfig{
			Path: "buchex.db",
		},
		Import: ImportConfig{
			ChunkSize: 50,
			CreatedBy: "import",
		},
	}
}

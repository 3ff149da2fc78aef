package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"portfolio-api/domain"
)

// SheetConfig names the sheet to proxy and how its columns map onto use case
// fields.
type SheetConfig struct {
	SheetID   string          `json:"sheet_id" yaml:"sheet_id"`
	ColumnMap domain.FieldMap `json:"column_map" yaml:"column_map"`
}

// Validate performs presence checks only.
func (c SheetConfig) Validate() error {
	if strings.TrimSpace(c.SheetID) == "" {
		return fmt.Errorf("%w: sheet_id is required", ErrConfigInvalid)
	}
	if len(c.ColumnMap) == 0 {
		return fmt.Errorf("%w: column_map is empty", ErrConfigInvalid)
	}
	for _, m := range c.ColumnMap {
		switch {
		case strings.TrimSpace(m.Field) == "":
			return fmt.Errorf("%w: column_map has a blank field name", ErrConfigInvalid)
		case m.Field == domain.FieldID:
			return fmt.Errorf("%w: column_map field %q is reserved", ErrConfigInvalid, domain.FieldID)
		case strings.TrimSpace(m.Title) == "":
			return fmt.Errorf("%w: column_map field %q has a blank column title", ErrConfigInvalid, m.Field)
		}
	}
	return nil
}

// LoadSheetConfig reads the sheet configuration at path. Files ending in
// .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadSheetConfig(path string) (SheetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SheetConfig{}, fmt.Errorf("%w: %v", ErrConfigMissing, err)
	}

	var cfg SheetConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = sonic.ConfigStd.Unmarshal(data, &cfg)
	}
	if err != nil {
		return SheetConfig{}, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return SheetConfig{}, err
	}
	return cfg, nil
}

// Loaded is the outcome of loading the sheet configuration at startup. A
// failed load is kept so that requests can report it.
type Loaded struct {
	cfg SheetConfig
	err error
}

// LoadOnce loads the configuration at path and captures the result.
func LoadOnce(path string) *Loaded {
	cfg, err := LoadSheetConfig(path)
	return &Loaded{cfg: cfg, err: err}
}

// Static wraps an already validated configuration.
func Static(cfg SheetConfig) *Loaded {
	return &Loaded{cfg: cfg}
}

// SheetConfig returns the loaded configuration or the load error.
func (l *Loaded) SheetConfig() (SheetConfig, error) {
	if l == nil {
		return SheetConfig{}, fmt.Errorf("%w: not loaded", ErrConfigMissing)
	}
	return l.cfg, l.err
}

// Package config holds process configuration for the document data layer.
//
// Configuration is an explicit struct constructed once at process start and
// injected into the components that need it; there is no global settings
// object.
package config

import (
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/spf13/afero"

	"github.com/docvault-io/docvault/pkg/database"
)

// Config is the process configuration.
type Config struct {
	// Database is the relational datastore connection.
	Database database.Config `yaml:"database"`

	// StorageRoot is the directory version blobs are stored under.
	StorageRoot string `yaml:"storage_root"`

	// DocumentTypesPath is the YAML data file the document type catalog
	// is bootstrapped from. Relative paths resolve against BaseDir.
	DocumentTypesPath string `yaml:"document_types_path"`

	// BaseDir anchors relative paths. Defaults to the config file's
	// directory when loaded from a file.
	BaseDir string `yaml:"-"`

	// LogLevel is an hclog level name ("trace" ... "error").
	LogLevel string `yaml:"log_level"`
}

// Validate checks the configuration for required fields.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.StorageRoot, validation.Required),
		validation.Field(&c.DocumentTypesPath, validation.Required),
	)
}

// Load reads configuration from a YAML file.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolvedDocumentTypesPath returns DocumentTypesPath anchored at BaseDir
// when relative.
func (c *Config) ResolvedDocumentTypesPath() string {
	if filepath.IsAbs(c.DocumentTypesPath) || c.BaseDir == "" {
		return c.DocumentTypesPath
	}
	return filepath.Join(c.BaseDir, c.DocumentTypesPath)
}

// NewLogger builds the process logger from the configured level.
func (c *Config) NewLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.LevelFromString(c.LogLevel),
	})
}

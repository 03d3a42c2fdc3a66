// Package catalog bootstraps the document type catalog from a YAML data
// file. Document types are reference data: the catalog is loaded once at
// process start and synced into the database insert-only, so existing
// types are never mutated by a reload.
package catalog

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/docvault-io/docvault/pkg/models"
)

// Entry is one document type in the data file.
type Entry struct {
	Code               string   `yaml:"code"`
	Name               string   `yaml:"name"`
	FileExtensions     []string `yaml:"file_extensions"`
	MaxFileSizeMB      int      `yaml:"max_file_size_mb"`
	RequiresValidation bool     `yaml:"requires_validation"`
	IsFinancial        bool     `yaml:"is_financial"`
	MaxCountPerOwner   int      `yaml:"max_count_per_owner"`
}

// File is the data file shape.
type File struct {
	DocumentTypes []Entry `yaml:"document_types"`
}

// Load reads and validates the document type data file.
//
// Per-entry problems are aggregated so one pass reports every bad entry,
// not just the first.
func Load(fs afero.Fs, path string) ([]models.DocumentType, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document types file %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse document types file %s: %w", path, err)
	}
	if len(file.DocumentTypes) == 0 {
		return nil, fmt.Errorf("document types file %s declares no document types", path)
	}

	var result *multierror.Error
	seen := make(map[string]bool)
	types := make([]models.DocumentType, 0, len(file.DocumentTypes))

	for i, entry := range file.DocumentTypes {
		if entry.Code == "" {
			result = multierror.Append(result, fmt.Errorf("entry %d: code is required", i))
			continue
		}
		if seen[entry.Code] {
			result = multierror.Append(result, fmt.Errorf("entry %d: duplicate code %q", i, entry.Code))
			continue
		}
		seen[entry.Code] = true

		if entry.Name == "" {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): name is required", i, entry.Code))
			continue
		}
		if entry.MaxFileSizeMB < 0 {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): max_file_size_mb cannot be negative", i, entry.Code))
			continue
		}
		if entry.MaxCountPerOwner < 0 {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): max_count_per_owner cannot be negative", i, entry.Code))
			continue
		}

		types = append(types, models.DocumentType{
			Code:               entry.Code,
			Name:               entry.Name,
			FileExtensions:     models.NormalizeExtensions(entry.FileExtensions),
			MaxFileSizeMB:      entry.MaxFileSizeMB,
			RequiresValidation: entry.RequiresValidation,
			IsFinancial:        entry.IsFinancial,
			MaxCountPerOwner:   entry.MaxCountPerOwner,
		})
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid document types in %s: %w", path, err)
	}
	return types, nil
}

// Sync inserts catalog types missing from the database. Existing types are
// left untouched; a changed data file never rewrites live reference data.
func Sync(db *gorm.DB, types []models.DocumentType, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	for i := range types {
		dt := types[i]

		existing, err := models.GetDocumentTypeByCode(db, dt.Code)
		if err != nil {
			return fmt.Errorf("failed to check document type %s: %w", dt.Code, err)
		}
		if existing != nil {
			continue
		}

		if err := dt.Create(db); err != nil {
			return fmt.Errorf("failed to create document type %s: %w", dt.Code, err)
		}
		logger.Info("created document type", "code", dt.Code, "name", dt.Name)
	}
	return nil
}

// Bootstrap loads the data file and syncs it into the database.
func Bootstrap(db *gorm.DB, fs afero.Fs, path string, logger hclog.Logger) error {
	types, err := Load(fs, path)
	if err != nil {
		return err
	}
	if err := Sync(db, types, logger); err != nil {
		return err
	}
	return nil
}

// ErrNotBootstrapped is returned by Require when the catalog is empty.
var ErrNotBootstrapped = errors.New("document type catalog is empty")

// Require verifies at least one document type exists.
func Require(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.DocumentType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count document types: %w", err)
	}
	if count == 0 {
		return ErrNotBootstrapped
	}
	return nil
}

package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// DocumentType declares per-type constraints for uploaded documents.
// Types are reference data: created during catalog bootstrap and read-only
// during normal operation.
type DocumentType struct {
	gorm.Model

	// Code is the unique key used to reference the type.
	Code string `gorm:"type:varchar(100);not null;uniqueIndex"`

	// Name is the display name.
	Name string `gorm:"type:varchar(200);not null"`

	// FileExtensions is the allowed extension set, normalized to dot-less
	// lowercase. Empty means unrestricted.
	FileExtensions StringList `gorm:"type:json"`

	// MaxFileSizeMB caps uploaded file size. Zero means unrestricted.
	MaxFileSizeMB int `gorm:"not null;default:10"`

	// RequiresValidation marks types that need manual validation.
	RequiresValidation bool `gorm:"not null;default:false"`

	// IsFinancial marks financial documents requiring special handling.
	IsFinancial bool `gorm:"not null;default:false"`

	// MaxCountPerOwner limits non-deleted documents of this type per
	// owner. Zero means unlimited.
	MaxCountPerOwner int `gorm:"not null;default:0"`
}

// TableName specifies the table name.
func (DocumentType) TableName() string {
	return "document_types"
}

// BeforeSave normalizes the extension set.
func (dt *DocumentType) BeforeSave(tx *gorm.DB) error {
	dt.FileExtensions = NormalizeExtensions(dt.FileExtensions)
	return nil
}

// NormalizeExtensions lower-cases, dot-strips, and deduplicates an
// extension list. The allowed extensions are a set; first occurrence wins
// the ordering.
func NormalizeExtensions(exts []string) StringList {
	out := make(StringList, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}

// Create validates and inserts the document type.
func (dt *DocumentType) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(dt,
		validation.Field(&dt.Code, validation.Required),
		validation.Field(&dt.Name, validation.Required),
		validation.Field(&dt.MaxFileSizeMB, validation.Min(0)),
		validation.Field(&dt.MaxCountPerOwner, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	return db.Create(&dt).Error
}

// GetDocumentTypeByCode retrieves a document type by its unique code.
// Returns nil (not an error) when the code is unknown.
func GetDocumentTypeByCode(db *gorm.DB, code string) (*DocumentType, error) {
	var dt DocumentType
	err := db.Where("code = ?", code).First(&dt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dt, nil
}

// ValidateFile checks a candidate file against this type's constraints.
//
// Both checks run independently (no short-circuit) so a file can report an
// extension issue and a size issue at once. The returned slice is empty
// when the file is acceptable. The per-owner count limit is not checked
// here; it belongs to document creation (see CreateDocumentWithFile).
func (dt *DocumentType) ValidateFile(filename string, sizeBytes int64) []ValidationIssue {
	var issues []ValidationIssue

	if len(dt.FileExtensions) > 0 {
		ext := NormalizeExtension(filename)
		if !dt.FileExtensions.Contains(ext) {
			issues = append(issues, ValidationIssue{
				Code: IssueInvalidExtension,
				Message: fmt.Sprintf("file extension %q is not allowed for document type %s (allowed: %s)",
					ext, dt.Code, strings.Join(dt.FileExtensions, ", ")),
				Meta: map[string]interface{}{
					"extension": ext,
					"allowed":   []string(dt.FileExtensions),
				},
			})
		}
	}

	if dt.MaxFileSizeMB > 0 {
		sizeMB := float64(sizeBytes) / (1024 * 1024)
		if sizeBytes > int64(dt.MaxFileSizeMB)*1024*1024 {
			issues = append(issues, ValidationIssue{
				Code: IssueFileTooLarge,
				Message: fmt.Sprintf("file size %.2f MB exceeds the %d MB limit for document type %s",
					sizeMB, dt.MaxFileSizeMB, dt.Code),
				Meta: map[string]interface{}{
					"size_mb": sizeMB,
					"max_mb":  dt.MaxFileSizeMB,
				},
			})
		}
	}

	return issues
}

// NormalizeExtension returns the lower-cased, dot-stripped extension of a
// filename, e.g. "REPORT.PDF" -> "pdf".
func NormalizeExtension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentVersion is an immutable version of a document's content.
//
// Rows are created exclusively through Document.AddVersion; version number,
// hash, size and MIME type are computed there, never client-supplied. After
// creation only the IsCurrent flag, the ReplacedByID back-pointer and the
// soft-deletion timestamp change.
type DocumentVersion struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Owning document. Versions are cascade-deleted with their document.
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_version_document;index:idx_version_document_current" json:"documentId"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Version is a positive integer, strictly increasing and gapless from
	// 1 over the document's non-deleted versions.
	Version int `gorm:"not null;index:idx_version_document" json:"version"`

	// IsCurrent marks the single authoritative version of the document.
	IsCurrent bool `gorm:"not null;default:false;index:idx_version_document_current" json:"isCurrent"`

	// ReplacedByID points at the version that superseded this one.
	ReplacedByID *uuid.UUID       `gorm:"type:uuid" json:"replacedById,omitempty"`
	ReplacedBy   *DocumentVersion `gorm:"foreignKey:ReplacedByID;constraint:OnDelete:SET NULL" json:"-"`

	// File information, computed at write time.
	FilePath         string `gorm:"type:varchar(255);not null" json:"filePath"`
	FileSizeBytes    int64  `gorm:"not null" json:"fileSizeBytes"`
	FileHash         string `gorm:"type:varchar(64);not null;index:idx_version_hash" json:"fileHash"`
	MimeType         string `gorm:"type:varchar(100);not null" json:"mimeType"`
	FileOriginalName string `gorm:"type:varchar(255)" json:"fileOriginalName"`

	// DocumentDate is the optional effective date of the content.
	DocumentDate *time.Time `gorm:"index:idx_version_document_date" json:"documentDate,omitempty"`
}

// TableName specifies the table name.
func (DocumentVersion) TableName() string {
	return "document_versions"
}

// BeforeCreate assigns a time-ordered primary key.
func (v *DocumentVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate version ID: %w", err)
		}
		v.ID = id
	}
	return nil
}

// FileSizeDisplay returns a human-readable file size.
func (v *DocumentVersion) FileSizeDisplay() string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case v.FileSizeBytes < kb:
		return fmt.Sprintf("%d B", v.FileSizeBytes)
	case v.FileSizeBytes < mb:
		return fmt.Sprintf("%.1f KB", float64(v.FileSizeBytes)/kb)
	case v.FileSizeBytes < gb:
		return fmt.Sprintf("%.1f MB", float64(v.FileSizeBytes)/mb)
	default:
		return fmt.Sprintf("%.1f GB", float64(v.FileSizeBytes)/gb)
	}
}

// GetVersionByHash finds a non-deleted version of a document with the given
// content digest. Returns nil when none exists.
func GetVersionByHash(db *gorm.DB, documentID uuid.UUID, hash string) (*DocumentVersion, error) {
	var v DocumentVersion
	err := db.Where("document_id = ? AND file_hash = ?", documentID, hash).First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// nextVersionNumber computes max(version)+1 over the document's non-deleted
// versions, excluding the row being written. Callers must hold the document
// row lock.
func nextVersionNumber(tx *gorm.DB, documentID uuid.UUID, exclude uuid.UUID) (int, error) {
	var max int64
	q := tx.Model(&DocumentVersion{}).
		Where("document_id = ?", documentID)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	err := q.Select("COALESCE(MAX(version), 0)").Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute next version number: %w", err)
	}
	return int(max) + 1, nil
}

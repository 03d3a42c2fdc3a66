package models

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/docvault-io/docvault/pkg/ownerid"
	"github.com/docvault-io/docvault/pkg/storage"
)

// Validation status values.
const (
	ValidationStatusPending        = "pending"
	ValidationStatusValidated      = "validated"
	ValidationStatusRejected       = "rejected"
	ValidationStatusRequiresUpdate = "requires_update"
)

// Access level values.
const (
	AccessLevelPublic       = "public"
	AccessLevelInternal     = "internal"
	AccessLevelRestricted   = "restricted"
	AccessLevelConfidential = "confidential"
)

// Document is the addressable document entity. It owns a set of immutable
// versions, carries mutable metadata, and references its owner through a
// polymorphic (type tag, identifier) pair.
//
// The primary key is a UUIDv7, so ordering by ID approximates ordering by
// creation time.
type Document struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Classification. Types are delete-protected reference data.
	DocumentTypeID uint          `gorm:"not null;index:idx_document_type" json:"documentTypeId"`
	DocumentType   *DocumentType `gorm:"constraint:OnDelete:RESTRICT" json:"documentType,omitempty"`

	// Polymorphic owner reference. Both fields are always present; a
	// document without an owner reference is a data-integrity violation.
	OwnerTag string     `gorm:"type:varchar(255);not null" json:"ownerTag"`
	OwnerID  ownerid.ID `gorm:"type:uuid;not null;index:idx_document_owner;index:idx_document_owner_type" json:"ownerId"`

	// Metadata. (OwnerID, Title) is unique among non-deleted documents.
	Title          string     `gorm:"type:varchar(200);not null;index:idx_document_owner_title" json:"title"`
	Description    *string    `json:"description,omitempty"`
	ExpirationDate *time.Time `gorm:"index:idx_document_expiration" json:"expirationDate,omitempty"`

	// Validation state.
	ValidationStatus string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_document_validation" json:"validationStatus"`
	ValidatedBy      *string    `gorm:"type:varchar(255)" json:"validatedBy,omitempty"`
	ValidationDate   *time.Time `json:"validationDate,omitempty"`
	ValidationNotes  *string    `json:"validationNotes,omitempty"`
	ValidationErrors StringList `gorm:"type:json" json:"validationErrors"`

	// AI extraction output. Storage only; extraction itself is external.
	AIExtractedData   JSON     `gorm:"type:json" json:"aiExtractedData,omitempty"`
	AIConfidenceScore *float64 `json:"aiConfidenceScore,omitempty"`

	// Access control.
	IsConfidential bool   `gorm:"not null;default:false;index:idx_document_confidential" json:"isConfidential"`
	AccessLevel    string `gorm:"type:varchar(20);not null;default:'internal';index:idx_document_access" json:"accessLevel"`

	// Versions, cascade-deleted with the document.
	Versions []DocumentVersion `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Groups, many-to-many with independent lifecycle.
	Groups []*DocumentGroup `gorm:"many2many:document_group_memberships" json:"-"`

	// Owner-resolution cache, scoped to this loaded instance only.
	resolvedOwner ownerid.Owner `gorm:"-"`
	ownerResolved bool          `gorm:"-"`
}

// TableName specifies the table name.
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate assigns a time-ordered primary key and defaults.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate document ID: %w", err)
		}
		d.ID = id
	}
	if d.ValidationStatus == "" {
		d.ValidationStatus = ValidationStatusPending
	}
	if d.AccessLevel == "" {
		d.AccessLevel = AccessLevelInternal
	}
	return nil
}

// Validate checks field-level rules.
func (d *Document) Validate() error {
	if d.OwnerTag == "" || d.OwnerID.IsZero() {
		return NewValidationError(ValidationIssue{
			Code:    IssueMissingOwner,
			Message: "document must reference an owner (type tag and identifier)",
		})
	}
	if d.AIConfidenceScore != nil && (*d.AIConfidenceScore < 0 || *d.AIConfidenceScore > 100) {
		return NewValidationError(ValidationIssue{
			Code:    IssueInvalidConfidence,
			Message: fmt.Sprintf("AI confidence score must be between 0 and 100, got %v", *d.AIConfidenceScore),
			Meta:    map[string]interface{}{"score": *d.AIConfidenceScore},
		})
	}

	return validation.ValidateStruct(d,
		validation.Field(&d.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&d.ValidationStatus, validation.Required, validation.In(
			ValidationStatusPending,
			ValidationStatusValidated,
			ValidationStatusRejected,
			ValidationStatusRequiresUpdate,
		)),
		validation.Field(&d.AccessLevel, validation.Required, validation.In(
			AccessLevelPublic,
			AccessLevelInternal,
			AccessLevelRestricted,
			AccessLevelConfidential,
		)),
	)
}

// CreateDocumentOptions carries the optional metadata accepted by
// CreateDocumentWithFile.
type CreateDocumentOptions struct {
	Description    *string
	ExpirationDate *time.Time
	AccessLevel    string
	IsConfidential bool
	DocumentDate   *time.Time
}

// CreateDocumentWithFile creates a document together with its first
// version in a single transaction.
//
// documentType is either a *DocumentType or a type code string. The
// per-owner count limit is enforced inside the same transaction as the
// insert, so concurrent requests cannot both slip under the limit. If
// version creation fails the document row does not survive: the whole
// operation rolls back.
func CreateDocumentWithFile(
	ctx context.Context,
	db *gorm.DB,
	store storage.Store,
	owner ownerid.Owner,
	file io.Reader,
	filename string,
	documentType interface{},
	title string,
	opts CreateDocumentOptions,
) (*Document, error) {
	if owner == nil || owner.DocumentOwnerID().IsZero() {
		return nil, NewValidationError(ValidationIssue{
			Code:    IssueMissingOwner,
			Message: "document must have an owner with an assigned identifier",
		})
	}

	var dt *DocumentType
	switch v := documentType.(type) {
	case *DocumentType:
		dt = v
	case DocumentType:
		dt = &v
	case string:
		found, err := GetDocumentTypeByCode(db, v)
		if err != nil {
			return nil, fmt.Errorf("failed to look up document type %q: %w", v, err)
		}
		if found == nil {
			return nil, NewValidationError(ValidationIssue{
				Code:    IssueInvalidDocumentType,
				Message: fmt.Sprintf("invalid document type: %s", v),
				Meta:    map[string]interface{}{"code": v},
			})
		}
		dt = found
	default:
		return nil, NewValidationError(ValidationIssue{
			Code:    IssueInvalidDocumentType,
			Message: fmt.Sprintf("invalid document type reference: %T", documentType),
		})
	}
	if dt == nil || dt.ID == 0 {
		return nil, NewValidationError(ValidationIssue{
			Code:    IssueInvalidDocumentType,
			Message: "document type is not persisted",
		})
	}

	doc := &Document{
		DocumentTypeID:   dt.ID,
		DocumentType:     dt,
		OwnerTag:         ownerid.TagFor(owner),
		OwnerID:          owner.DocumentOwnerID(),
		Title:            title,
		Description:      opts.Description,
		ExpirationDate:   opts.ExpirationDate,
		IsConfidential:   opts.IsConfidential,
		ValidationStatus: ValidationStatusPending,
		AccessLevel:      AccessLevelInternal,
	}
	if opts.AccessLevel != "" {
		doc.AccessLevel = opts.AccessLevel
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Serialize creation per type so the count check cannot race.
		var locked DocumentType
		if err := lockForUpdate(tx).First(&locked, dt.ID).Error; err != nil {
			return fmt.Errorf("failed to lock document type: %w", err)
		}

		if locked.MaxCountPerOwner > 0 {
			var count int64
			if err := tx.Model(&Document{}).
				Where("owner_id = ? AND document_type_id = ?", doc.OwnerID, dt.ID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count owner documents: %w", err)
			}
			if count >= int64(locked.MaxCountPerOwner) {
				return NewValidationError(ValidationIssue{
					Code: IssueMaxCountExceeded,
					Message: fmt.Sprintf("owner already has %d documents of type %s (limit %d)",
						count, locked.Code, locked.MaxCountPerOwner),
					Meta: map[string]interface{}{
						"count": count,
						"limit": locked.MaxCountPerOwner,
					},
				})
			}
		}

		// (OwnerID, Title) unique among non-deleted documents.
		var titleCount int64
		if err := tx.Model(&Document{}).
			Where("owner_id = ? AND title = ?", doc.OwnerID, doc.Title).
			Count(&titleCount).Error; err != nil {
			return fmt.Errorf("failed to check title uniqueness: %w", err)
		}
		if titleCount > 0 {
			return NewValidationError(ValidationIssue{
				Code:    IssueDuplicateTitle,
				Message: fmt.Sprintf("owner already has a document titled %q", doc.Title),
				Meta:    map[string]interface{}{"title": doc.Title},
			})
		}

		if err := doc.Validate(); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(doc).Error; err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}

		_, err := doc.addVersionTx(ctx, tx, store, file, filename, AddVersionOptions{
			SetCurrent:   true,
			Strict:       true,
			DocumentDate: opts.DocumentDate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// AddVersionOptions controls the add-version protocol. Use
// DefaultAddVersionOptions for the standard behavior (set current, strict
// deduplication).
type AddVersionOptions struct {
	// SetCurrent promotes the new (or reused) version to current.
	SetCurrent bool

	// Strict makes byte-identical content an error rather than reusing
	// the existing version.
	Strict bool

	// DocumentDate is the optional effective date of the content.
	DocumentDate *time.Time
}

// DefaultAddVersionOptions returns the standard add-version behavior.
func DefaultAddVersionOptions() AddVersionOptions {
	return AddVersionOptions{SetCurrent: true, Strict: true}
}

// AddVersion adds an immutable version to the document as one atomic
// transaction: hash and size are computed from the stream, the type
// catalog's extension/size checks run against the computed values, content
// is deduplicated by digest, the version number is computed under a
// document-row lock, the blob is written, and the current flag is flipped.
func (d *Document) AddVersion(
	ctx context.Context,
	db *gorm.DB,
	store storage.Store,
	file io.Reader,
	filename string,
	opts AddVersionOptions,
) (*DocumentVersion, error) {
	var version *DocumentVersion
	err := db.Transaction(func(tx *gorm.DB) error {
		v, err := d.addVersionTx(ctx, tx, store, file, filename, opts)
		if err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

func (d *Document) addVersionTx(
	ctx context.Context,
	tx *gorm.DB,
	store storage.Store,
	file io.Reader,
	filename string,
	opts AddVersionOptions,
) (*DocumentVersion, error) {
	if store == nil {
		return nil, fmt.Errorf("storage store is required")
	}

	// Step 1: stream the content through the digest, computing the real
	// size. Client-supplied sizes and hashes are never trusted.
	var content bytes.Buffer
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(hasher, &content), file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	digest := hex.EncodeToString(hasher.Sum(nil))

	// Step 2: type-catalog checks against the computed size. All issues
	// are collected before aborting, before any storage write.
	dt := d.DocumentType
	if dt == nil {
		var loaded DocumentType
		if err := tx.First(&loaded, d.DocumentTypeID).Error; err != nil {
			return nil, fmt.Errorf("failed to load document type: %w", err)
		}
		dt = &loaded
		d.DocumentType = dt
	}
	if issues := dt.ValidateFile(filename, size); len(issues) > 0 {
		return nil, NewValidationError(issues...)
	}

	// Step 4 (before 3 so dedup lookup and numbering share one lock):
	// lock the parent document row. Concurrent additions for the same
	// document must serialize, never both compute the same next number.
	var locked Document
	if err := lockForUpdate(tx).First(&locked, "id = ?", d.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to lock document: %w", err)
	}

	// Step 3: digest-based deduplication within this document.
	existing, err := GetVersionByHash(tx, d.ID, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate content: %w", err)
	}
	if existing != nil {
		if opts.Strict {
			return nil, NewValidationError(ValidationIssue{
				Code: IssueDuplicateContent,
				Message: fmt.Sprintf("document already has version %d with identical content (hash %s)",
					existing.Version, digest),
				Meta: map[string]interface{}{
					"version": existing.Version,
					"hash":    digest,
				},
			})
		}
		if opts.SetCurrent {
			if err := d.setCurrentVersionTx(tx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate version ID: %w", err)
	}
	next, err := nextVersionNumber(tx, d.ID, id)
	if err != nil {
		return nil, err
	}

	// Step 5: persist the blob and the version row. A blob-write failure
	// aborts the transaction so no row points at a missing blob.
	path := storage.VersionPath(d.OwnerID, next, filename)
	if err := store.Put(ctx, path, &content); err != nil {
		return nil, fmt.Errorf("failed to store version content: %w", err)
	}

	version := &DocumentVersion{
		ID:               id,
		DocumentID:       d.ID,
		Version:          next,
		FilePath:         path,
		FileSizeBytes:    size,
		FileHash:         digest,
		MimeType:         detectMimeType(filename),
		FileOriginalName: filename,
		DocumentDate:     opts.DocumentDate,
	}
	if err := tx.Omit(clause.Associations).Create(version).Error; err != nil {
		return nil, fmt.Errorf("failed to create document version: %w", err)
	}

	// Step 6: flip the current flag, unset then set, adjacent in the same
	// transaction so no reader observes zero or two current versions.
	if opts.SetCurrent {
		if err := d.setCurrentVersionTx(tx, version); err != nil {
			return nil, err
		}
	}

	return version, nil
}

// SetCurrentVersion atomically makes v the document's current version.
// Returns a version_mismatch validation error when v belongs to another
// document.
func (d *Document) SetCurrentVersion(db *gorm.DB, v *DocumentVersion) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var locked Document
		if err := lockForUpdate(tx).First(&locked, "id = ?", d.ID).Error; err != nil {
			return fmt.Errorf("failed to lock document: %w", err)
		}
		return d.setCurrentVersionTx(tx, v)
	})
}

func (d *Document) setCurrentVersionTx(tx *gorm.DB, v *DocumentVersion) error {
	if v == nil {
		return fmt.Errorf("version cannot be nil")
	}
	if v.DocumentID != d.ID {
		return NewValidationError(ValidationIssue{
			Code:    IssueVersionMismatch,
			Message: "version does not belong to this document",
			Meta: map[string]interface{}{
				"document_id": d.ID.String(),
				"version_id":  v.ID.String(),
			},
		})
	}
	if v.DeletedAt.Valid {
		return NewValidationError(ValidationIssue{
			Code:    IssueVersionDeleted,
			Message: "a deleted version cannot be made current",
			Meta:    map[string]interface{}{"version_id": v.ID.String()},
		})
	}

	if err := tx.Model(&DocumentVersion{}).
		Where("document_id = ? AND is_current = ? AND id <> ?", d.ID, true, v.ID).
		Updates(map[string]interface{}{
			"is_current":     false,
			"replaced_by_id": v.ID,
		}).Error; err != nil {
		return fmt.Errorf("failed to unset current version: %w", err)
	}

	// The set must land on a live row: a stale struct whose row was
	// deleted after loading would otherwise demote the current version
	// and promote nothing.
	res := tx.Model(v).Update("is_current", true)
	if res.Error != nil {
		return fmt.Errorf("failed to set current version: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewValidationError(ValidationIssue{
			Code:    IssueVersionDeleted,
			Message: "version no longer exists",
			Meta:    map[string]interface{}{"version_id": v.ID.String()},
		})
	}
	v.IsCurrent = true
	return nil
}

// CurrentVersion returns the document's current version, or nil when none
// is marked current. Soft-deleted versions are excluded.
func (d *Document) CurrentVersion(db *gorm.DB) (*DocumentVersion, error) {
	var v DocumentVersion
	err := db.Where("document_id = ? AND is_current = ?", d.ID, true).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// Version returns version n of the document, or nil when it does not
// exist.
func (d *Document) Version(db *gorm.DB, n int) (*DocumentVersion, error) {
	var v DocumentVersion
	err := db.Where("document_id = ? AND version = ?", d.ID, n).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// LatestVersion returns the highest-numbered non-deleted version, or nil
// when the document has no versions.
func (d *Document) LatestVersion(db *gorm.DB) (*DocumentVersion, error) {
	var v DocumentVersion
	err := db.Where("document_id = ?", d.ID).Order("version DESC").First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// VersionCount returns the number of non-deleted versions.
func (d *Document) VersionCount(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&DocumentVersion{}).
		Where("document_id = ?", d.ID).
		Count(&count).Error
	return count, err
}

// Owner resolves the document's owner through the registry, caching the
// result on this instance for its in-memory lifetime.
//
// Resolution failures are soft: owner entities can be deleted out-of-band,
// so an unknown tag or a missing entity logs a warning and yields a nil
// owner rather than an error.
func (d *Document) Owner(db *gorm.DB, registry *ownerid.Registry, logger hclog.Logger) (ownerid.Owner, error) {
	if d.ownerResolved {
		return d.resolvedOwner, nil
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	owner, err := registry.Resolve(db, d.OwnerTag, d.OwnerID)
	if err != nil {
		if errors.Is(err, ownerid.ErrUnknownOwnerType) || errors.Is(err, ownerid.ErrOwnerNotFound) {
			logger.Warn("failed to resolve document owner",
				"document_id", d.ID.String(),
				"owner_tag", d.OwnerTag,
				"owner_id", d.OwnerID.String(),
				"error", err,
			)
			d.resolvedOwner = nil
			d.ownerResolved = true
			return nil, nil
		}
		return nil, err
	}

	d.resolvedOwner = owner
	d.ownerResolved = true
	return owner, nil
}

// OwnerDisplayName returns the resolved owner's display name, or a
// fallback when no owner resolves.
func (d *Document) OwnerDisplayName(db *gorm.DB, registry *ownerid.Registry, logger hclog.Logger) string {
	owner, err := d.Owner(db, registry, logger)
	if err != nil || owner == nil {
		return "no owner resolved"
	}
	return owner.DisplayName()
}

// IsExpired reports whether the document's expiration date has passed.
func (d *Document) IsExpired() bool {
	if d.ExpirationDate == nil {
		return false
	}
	return d.ExpirationDate.Before(time.Now())
}

// immutableUpdateFields are stripped from bulk metadata updates. The
// owner reference is immutable once set; the current flag only moves
// through SetCurrentVersion/AddVersion.
var immutableUpdateFields = []string{
	"id", "ID",
	"owner_id", "OwnerID",
	"owner_tag", "OwnerTag",
	"is_current", "IsCurrent",
}

// StripImmutableFields removes keys that may never be bulk-updated.
// Returns a filtered copy; the input map is not modified.
func StripImmutableFields(updates map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		out[k] = v
	}
	for _, field := range immutableUpdateFields {
		delete(out, field)
	}
	return out
}

// UpdateMetadata applies a bulk metadata update with the immutable fields
// (owner reference, current flag) silently stripped rather than applied.
// Enum and range rules still hold on this path: a bulk update can never
// persist a status, access level, or confidence score Validate would
// reject.
func (d *Document) UpdateMetadata(db *gorm.DB, updates map[string]interface{}) error {
	filtered := StripImmutableFields(updates)
	if len(filtered) == 0 {
		return nil
	}

	if score, ok := filtered["ai_confidence_score"]; ok {
		if f, ok := toFloat(score); ok && (f < 0 || f > 100) {
			return NewValidationError(ValidationIssue{
				Code:    IssueInvalidConfidence,
				Message: fmt.Sprintf("AI confidence score must be between 0 and 100, got %v", f),
				Meta:    map[string]interface{}{"score": f},
			})
		}
	}
	if v, ok := filtered["validation_status"]; ok {
		if s, isString := v.(string); !isString || !isValidationStatus(s) {
			return NewValidationError(ValidationIssue{
				Code:    IssueInvalidStatus,
				Message: fmt.Sprintf("invalid validation status: %v", v),
				Meta:    map[string]interface{}{"status": v},
			})
		}
	}
	if v, ok := filtered["access_level"]; ok {
		if s, isString := v.(string); !isString || !isAccessLevel(s) {
			return NewValidationError(ValidationIssue{
				Code:    IssueInvalidAccessLevel,
				Message: fmt.Sprintf("invalid access level: %v", v),
				Meta:    map[string]interface{}{"access_level": v},
			})
		}
	}

	return db.Model(d).Updates(filtered).Error
}

func isValidationStatus(s string) bool {
	switch s {
	case ValidationStatusPending, ValidationStatusValidated,
		ValidationStatusRejected, ValidationStatusRequiresUpdate:
		return true
	}
	return false
}

func isAccessLevel(s string) bool {
	switch s {
	case AccessLevelPublic, AccessLevelInternal,
		AccessLevelRestricted, AccessLevelConfidential:
		return true
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	default:
		return 0, false
	}
}

// GetDocument retrieves a non-deleted document by ID.
func GetDocument(db *gorm.DB, id uuid.UUID) (*Document, error) {
	var doc Document
	err := db.Preload("DocumentType").First(&doc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocumentsByOwner retrieves all non-deleted documents for an owner,
// newest first (UUIDv7 primary keys make ID order time order).
func GetDocumentsByOwner(db *gorm.DB, ownerID ownerid.ID) ([]Document, error) {
	var docs []Document
	err := db.Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&docs).Error
	return docs, err
}

// RecentDocuments returns the owner's most recent documents, using ID
// order instead of a timestamp index.
func RecentDocuments(db *gorm.DB, ownerID ownerid.ID, limit int) ([]Document, error) {
	var docs []Document
	err := db.Where("owner_id = ?", ownerID).
		Order("id DESC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}

// DocumentsSince returns the owner's documents created at or after the
// cutoff, using a UUIDv7 range instead of a timestamp index.
func DocumentsSince(db *gorm.DB, ownerID ownerid.ID, since time.Time) ([]Document, error) {
	cutoff := ownerid.NewAt(since)
	var docs []Document
	err := db.Where("owner_id = ? AND id >= ?", ownerID, cutoff.String()).
		Order("id DESC").
		Find(&docs).Error
	return docs, err
}

// SoftDelete marks the document deleted. Versions stay addressable through
// unscoped queries; the core never hard-deletes.
func (d *Document) SoftDelete(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", d.ID).Delete(&DocumentVersion{}).Error; err != nil {
			return fmt.Errorf("failed to soft-delete versions: %w", err)
		}
		if err := tx.Delete(d).Error; err != nil {
			return fmt.Errorf("failed to soft-delete document: %w", err)
		}
		return nil
	})
}

// detectMimeType derives a MIME type from the filename extension, falling
// back to a generic octet-stream type when undetected.
func detectMimeType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// lockForUpdate applies a SELECT ... FOR UPDATE row lock. SQLite does not
// support the clause; its single-writer model serializes writers at the
// connection level instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

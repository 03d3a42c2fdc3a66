package models

import (
	"fmt"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentGroup is an owner-defined label documents can be filtered by.
// Groups and documents have independent lifecycles; membership is
// many-to-many.
type DocumentGroup struct {
	gorm.Model

	// GroupUUID is the caller-visible group identifier (UUIDv7).
	GroupUUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"groupUuid"`

	Name        string  `gorm:"type:varchar(200);not null" json:"name"`
	Description *string `json:"description,omitempty"`

	Documents []*Document `gorm:"many2many:document_group_memberships" json:"-"`
}

// TableName specifies the table name.
func (DocumentGroup) TableName() string {
	return "document_groups"
}

// BeforeCreate assigns a time-ordered group identifier.
func (g *DocumentGroup) BeforeCreate(tx *gorm.DB) error {
	if g.GroupUUID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate group UUID: %w", err)
		}
		g.GroupUUID = id
	}
	return nil
}

// Create validates and inserts the group.
func (g *DocumentGroup) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(g,
		validation.Field(&g.Name, validation.Required),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return db.Create(&g).Error
}

// AddDocument adds a document to the group. Adding twice is a no-op.
func (g *DocumentGroup) AddDocument(db *gorm.DB, doc *Document) error {
	return db.Model(g).Association("Documents").Append(doc)
}

// RemoveDocument removes a document from the group.
func (g *DocumentGroup) RemoveDocument(db *gorm.DB, doc *Document) error {
	return db.Model(g).Association("Documents").Delete(doc)
}

// DocumentsInAnyGroupQuery builds a chainable query for non-deleted
// documents belonging to at least one of the given groups.
//
// groups is accepted polymorphically: a single group (value or pointer), a
// slice of groups, a slice of uuid.UUID, a slice of identifier strings, or
// a mixed []interface{} of any of those. Empty input yields a query
// matching nothing — absence of a filter criterion never silently means
// unfiltered. Any element that is neither a group nor a parseable
// identifier fails with an *InvalidGroupReferenceError naming its position
// and value.
func DocumentsInAnyGroupQuery(db *gorm.DB, groups interface{}) (*gorm.DB, error) {
	ids, err := normalizeGroupRefs(groups)
	if err != nil {
		return nil, err
	}

	base := db.Model(&Document{})
	if len(ids) == 0 {
		return base.Where("1 = 0"), nil
	}

	idStrings := make([]string, 0, len(ids))
	for id := range ids {
		idStrings = append(idStrings, id.String())
	}

	return base.
		Joins("JOIN document_group_memberships m ON m.document_id = documents.id").
		Joins("JOIN document_groups g ON g.id = m.document_group_id").
		Where("g.group_uuid IN ?", idStrings).
		Where("g.deleted_at IS NULL").
		Distinct("documents.*"), nil
}

// DocumentsInAnyGroup materializes DocumentsInAnyGroupQuery.
func DocumentsInAnyGroup(db *gorm.DB, groups interface{}) ([]Document, error) {
	q, err := DocumentsInAnyGroupQuery(db, groups)
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// normalizeGroupRefs reduces the polymorphic input to a set of group
// identifiers.
func normalizeGroupRefs(input interface{}) (map[uuid.UUID]struct{}, error) {
	ids := make(map[uuid.UUID]struct{})

	switch v := input.(type) {
	case nil:
		return ids, nil
	case DocumentGroup:
		ids[v.GroupUUID] = struct{}{}
		return ids, nil
	case *DocumentGroup:
		if v == nil {
			return ids, nil
		}
		ids[v.GroupUUID] = struct{}{}
		return ids, nil
	case uuid.UUID:
		ids[v] = struct{}{}
		return ids, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, &InvalidGroupReferenceError{Position: -1, Value: v}
		}
		ids[id] = struct{}{}
		return ids, nil
	}

	rv := reflect.ValueOf(input)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &InvalidGroupReferenceError{Position: -1, Value: input}
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		switch e := elem.(type) {
		case DocumentGroup:
			ids[e.GroupUUID] = struct{}{}
		case *DocumentGroup:
			if e == nil {
				return nil, &InvalidGroupReferenceError{Position: i, Value: elem}
			}
			ids[e.GroupUUID] = struct{}{}
		case uuid.UUID:
			ids[e] = struct{}{}
		case string:
			id, err := uuid.Parse(e)
			if err != nil {
				return nil, &InvalidGroupReferenceError{Position: i, Value: elem}
			}
			ids[id] = struct{}{}
		default:
			return nil, &InvalidGroupReferenceError{Position: i, Value: elem}
		}
	}

	return ids, nil
}

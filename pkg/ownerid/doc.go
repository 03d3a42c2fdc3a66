// Package ownerid provides type-safe owner identification for the document
// data layer.
//
// Any entity that can hold documents carries a stable, globally unique
// identifier assigned by this package. Documents reference their owner
// through a (type tag, identifier) pair instead of a hard foreign key, so
// the data layer never needs to know the owner's concrete schema.
//
// # Core Concepts
//
//  1. ID: Time-ordered unique identifier (UUIDv7). Sorting by ID
//     approximates sorting by creation time, letting "recent" queries use
//     identifier ranges instead of a timestamp index.
//
//  2. Owner: Capability interface implemented by any entity type that can
//     own documents (gettable/settable ID plus a display name).
//
//  3. Provider: Assigns identifiers on first persistence, with bounded
//     retry on the pathological collision case.
//
//  4. Registry: Maps a type tag back to a lookup function so a stored
//     (tag, id) pair can be resolved to the concrete owner entity.
//
// # Database Integration
//
// ID implements sql.Scanner and driver.Valuer for direct database
// integration:
//
//	type Company struct {
//	    gorm.Model
//	    DocOwnerID ownerid.ID `gorm:"type:uuid;uniqueIndex"`
//	    Name       string
//	}
package ownerid

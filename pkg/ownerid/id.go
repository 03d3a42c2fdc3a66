package ownerid

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is a stable, globally unique owner identifier.
//
// IDs are UUIDv7 values: generation is safe under concurrency without a
// central sequence, and the encoded timestamp makes lexical order
// approximate creation order.
type ID struct {
	value uuid.UUID
}

// New generates a new time-ordered ID (UUIDv7).
func New() (ID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return ID{}, fmt.Errorf("failed to generate owner ID: %w", err)
	}
	return ID{value: u}, nil
}

// NewAt generates an ID whose embedded timestamp is t. Useful for building
// range cutoffs when querying by creation time.
func NewAt(t time.Time) ID {
	var u uuid.UUID
	ms := uint64(t.UnixMilli())
	u[0] = byte(ms >> 40)
	u[1] = byte(ms >> 32)
	u[2] = byte(ms >> 24)
	u[3] = byte(ms >> 16)
	u[4] = byte(ms >> 8)
	u[5] = byte(ms)
	u[6] = 0x70 // version 7
	u[8] = 0x80 // variant 10
	return ID{value: u}
}

// MustParse parses an ID from string, panicking on error.
// Useful for test fixtures where the value is known valid.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("invalid owner ID: %s: %v", s, err))
	}
	return id
}

// Parse parses an ID from its canonical string form.
// Accepts standard UUID formats (with or without hyphens).
func Parse(s string) (ID, error) {
	if s == "" {
		return ID{}, fmt.Errorf("owner ID cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("invalid owner ID format: %w", err)
	}
	return ID{value: u}, nil
}

// FromUUID wraps a raw UUID value as an ID.
func FromUUID(u uuid.UUID) ID {
	return ID{value: u}
}

// String returns the canonical lowercase hyphenated form.
func (id ID) String() string {
	return id.value.String()
}

// UUID returns the underlying UUID value.
func (id ID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true for the zero/nil ID.
func (id ID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equal returns true if two IDs are equal.
func (id ID) Equal(other ID) bool {
	return id.value == other.value
}

// Timestamp returns the creation time encoded in the ID.
func (id ID) Timestamp() time.Time {
	s, ns := id.value.Time().UnixTime()
	return time.Unix(s, ns)
}

// MarshalJSON implements json.Marshaler. IDs serialize as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("owner ID must be a string: %w", err)
	}
	if s == "" || s == "null" {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Scan implements sql.Scanner for database reading.
// Supports string and []byte input from the database.
func (id *ID) Scan(value interface{}) error {
	if value == nil {
		*id = ID{}
		return nil
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			*id = ID{}
			return nil
		}
		parsed, err := Parse(v)
		if err != nil {
			return fmt.Errorf("cannot scan string into owner ID: %w", err)
		}
		*id = parsed
		return nil
	case []byte:
		if len(v) == 0 {
			*id = ID{}
			return nil
		}
		parsed, err := Parse(string(v))
		if err != nil {
			return fmt.Errorf("cannot scan bytes into owner ID: %w", err)
		}
		*id = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into owner ID", value)
	}
}

// Value implements driver.Valuer for database writing.
// Returns nil for the zero ID, string otherwise.
func (id ID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.String(), nil
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSON is an opaque structured payload stored in a JSON column (AI
// extraction output). It implements driver.Valuer and sql.Scanner and
// works with both PostgreSQL JSONB and SQLite JSON columns.
type JSON json.RawMessage

// Value implements driver.Valuer for database writes.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	var tmp interface{}
	if err := json.Unmarshal(j, &tmp); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner for database reads.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = JSON("null")
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSON value: unsupported type")
	}

	var tmp interface{}
	if err := json.Unmarshal(bytes, &tmp); err != nil {
		return fmt.Errorf("invalid JSON in database: %w", err)
	}

	*j = JSON(bytes)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// String returns the JSON as a string.
func (j JSON) String() string {
	return string(j)
}

// StringList is an ordered list of strings stored as a JSON column
// (allowed file extensions, validation error codes).
type StringList []string

// Value implements driver.Valuer for database writes.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database reads.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into string list", value)
	}

	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(bytes, &out); err != nil {
		return fmt.Errorf("invalid string list in database: %w", err)
	}
	*l = StringList(out)
	return nil
}

// Contains reports whether the list contains s.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

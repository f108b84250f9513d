// internal/pkg/jsonmap/jsonmap.go
//
// Package jsonmap provides an opaque key/value document type backed by a
// Postgres jsonb column. Variant attributes and order metadata only need
// pass-through storage and lookup by key, never schema-validated fields.
package jsonmap

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Map is a free-form JSON object stored in a jsonb column.
type Map map[string]interface{}

// Value implements driver.Valuer.
func (m Map) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Map) Scan(value interface{}) error {
	if value == nil {
		*m = Map{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("jsonmap: cannot scan %T into Map", value)
	}

	if len(data) == 0 {
		*m = Map{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// GormDataType tells GORM which column type to migrate to.
func (Map) GormDataType() string {
	return "jsonb"
}

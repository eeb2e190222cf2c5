package jsondoc

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON holds a raw JSON document destined for a jsonb column or a JSON file.
// It satisfies sql.Scanner and driver.Valuer so the same value flows through
// both storage backends without a fixed schema, which is what the open-ended
// extraction documents require.
type JSON []byte

// MarshalJSON returns the stored document or null when empty.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("jsondoc: invalid JSON value")
	}
	return append([]byte(nil), j...), nil
}

// UnmarshalJSON stores the provided payload verbatim.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("jsondoc: invalid JSON payload")
	}
	*j = append((*j)[:0], data...)
	return nil
}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("jsondoc: invalid JSON value")
	}
	return append([]byte(nil), j...), nil
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if !json.Valid(v) {
			return fmt.Errorf("jsondoc: invalid JSON payload")
		}
		*j = append((*j)[:0], v...)
	case string:
		if !json.Valid([]byte(v)) {
			return fmt.Errorf("jsondoc: invalid JSON payload")
		}
		*j = append((*j)[:0], v...)
	default:
		return fmt.Errorf("jsondoc: unsupported scan type %T", value)
	}
	return nil
}

// Object marshals an arbitrary value into a JSON document. Marshal failures
// collapse to an empty document since extraction contents are advisory.
func Object(v any) JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return JSON(b)
}

// services/hal/internal/util/util.go
package util

import "encoding/json"

// DecodeJSON converts a loosely typed bus payload (raw JSON, a string, or a
// decoded map) into dst.
func DecodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}

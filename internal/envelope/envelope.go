// Package envelope extracts uniform record lists from backend response envelopes.
//
// The backend nests the same logical collection differently per endpoint:
// sometimes the body is the array, sometimes it lives under "data", under
// "data.data", or under "data.<entityName>". Callers declare their own ordered
// candidate paths and the first one resolving to an array wins; nothing here
// knows about specific entities.
package envelope

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Common candidate paths. [Root] matches a body that is itself the array.
const (
	Root     = "@this"
	Data     = "data"
	DataData = "data.data"
)

// DataKey returns the candidate path for a collection nested under its entity name,
// e.g. DataKey("branches") resolves {"data": {"branches": [...]}}.
func DataKey(name string) string {
	return Data + "." + name
}

// Normalize resolves the first candidate path that yields a JSON array and
// returns its elements. Returns an empty (non-nil) slice when no candidate
// resolves, including for empty or malformed bodies. Never panics.
func Normalize(body []byte, candidates []string) []gjson.Result {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return []gjson.Result{}
	}

	for _, path := range candidates {
		r := gjson.GetBytes(body, path)
		if r.IsArray() {
			return r.Array()
		}
	}

	return []gjson.Result{}
}

// DecodeList normalizes the body with the given candidates and unmarshals the
// winning array into a slice of T. An unresolvable envelope decodes to an
// empty slice, not an error.
func DecodeList[T any](body []byte, candidates []string) ([]T, error) {
	items := Normalize(body, candidates)
	records := make([]T, 0, len(items))

	for i, item := range items {
		var rec T
		if err := json.Unmarshal([]byte(item.Raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Truthy coerces a status-like value to a boolean. The backend sends status
// flags as 0/1, "0"/"1" or true/false depending on the endpoint; the rule is
// "numeric value equals one", applied uniformly wherever a record's status
// drives UI state.
func Truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val == 1
	case int64:
		return val == 1
	case float64:
		return val == 1
	case string:
		n, err := strconv.ParseFloat(val, 64)
		return err == nil && n == 1
	case json.Number:
		n, err := val.Float64()
		return err == nil && n == 1
	default:
		return false
	}
}

package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeID canonicalizes the heterogeneous id representations the server
// emits (numeric in creation responses, string in list queries) into one
// comparable string form. nil normalizes to "". Every keyed lookup on ids
// must go through this; comparing raw representations is how "works
// sometimes" membership bugs happen.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return strings.TrimSpace(id.String())
	case float64:
		// JSON numbers decode as float64. Snowflake-sized ids arrive as
		// json.Number instead (the client decodes with UseNumber), so any
		// float64 seen here is small enough to round-trip.
		if id == math.Trunc(id) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", id))
	}
}

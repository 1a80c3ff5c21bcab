package shared

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Money is a lenient monetary amount for request payloads. Missing, null,
// empty-string, and unparsable values all decode to 0 rather than failing
// the request; numeric strings are accepted alongside JSON numbers.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = 0
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			*m = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			*m = 0
			return nil
		}
		*m = Money(parsed)
		return nil
	}

	var parsed float64
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		*m = 0
		return nil
	}
	*m = Money(parsed)
	return nil
}

func (m Money) Float64() float64 {
	return float64(m)
}

package ai

import (
	"encoding/json"
	"strconv"
)

// StatusUnknown is shown when a detail payload carries no usable status.
const StatusUnknown = "unknown"

// ExtractHTTPStatus pulls a numeric "status" field out of a stored detail
// payload. Malformed or missing payloads degrade to "unknown" rather than
// surfacing a parse error.
func ExtractHTTPStatus(detail json.RawMessage) string {
	if len(detail) == 0 {
		return StatusUnknown
	}
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(detail, &shape); err != nil {
		return StatusUnknown
	}
	raw, ok := shape["status"]
	if !ok {
		return StatusUnknown
	}
	var status float64
	if err := json.Unmarshal(raw, &status); err != nil {
		return StatusUnknown
	}
	code := int(status)
	if code < 100 || code > 599 {
		return StatusUnknown
	}
	return strconv.Itoa(code)
}

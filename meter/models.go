// Package meter defines physical meter records and the prefix-coded meter
// numbering scheme. Meter numbers have the form "<prefix>_<seq>" where the
// prefix encodes the location and the sequence is a zero-padded per-partition
// counter, e.g. "DH_000042".
package meter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xraph/gridbill/types"
)

// Info is the per-meter usage record, created once when the customer
// account is provisioned.
type Info struct {
	types.Entity
	MeterNo   string  `json:"meter_no"`
	Location  string  `json:"location"`
	UnitUsage float64 `json:"unit_usage"`
}

// sequenceWidth is the zero-padded width of the numeric segment.
const sequenceWidth = 6

// LocationPrefix returns the meter number prefix for a location.
// Unrecognized locations share the "AL" prefix.
func LocationPrefix(location string) string {
	switch strings.ToLower(strings.TrimSpace(location)) {
	case "dhaka":
		return "DH"
	case "rajshahi":
		return "RH"
	default:
		return "AL"
	}
}

// Format builds a meter number from a prefix and sequence.
func Format(prefix string, seq int64) string {
	return fmt.Sprintf("%s_%0*d", prefix, sequenceWidth, seq)
}

// Sequence extracts the numeric segment after the last underscore of a
// meter number. Malformed numbers yield 0 so a damaged record never blocks
// allocation; the allocator restarts the count and relies on the
// uniqueness check for safety.
func Sequence(meterNo string) int64 {
	idx := strings.LastIndex(meterNo, "_")
	if idx < 0 || idx == len(meterNo)-1 {
		return 0
	}
	n, err := strconv.ParseInt(meterNo[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

package automation

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAddress accepts the four address notations spec.md §6 documents:
// `0x1234`, `$1234`, `#1234` (all hex) and `1234` (decimal), rejecting
// anything above maxValue.
func ParseAddress(s string, maxValue uint32) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}

	var (
		value uint64
		err   error
	)
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		value, err = strconv.ParseUint(s[2:], 16, 32)
	case strings.HasPrefix(s, "$") || strings.HasPrefix(s, "#"):
		value, err = strconv.ParseUint(s[1:], 16, 32)
	default:
		value, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	if value > uint64(maxValue) {
		return 0, fmt.Errorf("address %q out of range (must be 0-%d)", s, maxValue)
	}
	return uint16(value), nil
}

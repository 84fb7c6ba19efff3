package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat is a finite float64 that can be unmarshaled from either a JSON number or a JSON string.
type FlexFloat float64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("FlexFloat: invalid number string %q: %w", s, err)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("FlexFloat: non-finite number %q", s)
		}
		*f = FlexFloat(val)
		return nil
	}

	return fmt.Errorf("FlexFloat: unexpected type, expected number or string")
}

// Float64 converts FlexFloat back to float64.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}

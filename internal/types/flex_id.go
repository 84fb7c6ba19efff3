// flex_id.go
//
// Laboratory chemical inventory tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of chemtrack.
// chemtrack is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// chemtrack is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with chemtrack.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is a record id that can be unmarshaled from either a JSON number or a
// JSON string. Mobile clients send ids both ways ("room_id": "12").
type FlexID uint

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Try unmarshaling as a number first
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n)
		return nil
	}

	// Try unmarshaling as a string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		val, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("FlexID: invalid id string %q: %w", s, err)
		}
		*f = FlexID(val)
		return nil
	}

	return fmt.Errorf("FlexID: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint(f))
}

// Uint converts FlexID back to uint.
func (f FlexID) Uint() uint {
	return uint(f)
}

// PtrUint returns the id of an optional FlexID, nil when absent or zero.
func PtrUint(f *FlexID) *uint {
	if f == nil || *f == 0 {
		return nil
	}
	v := uint(*f)
	return &v
}

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexList is a batch request body sent either as one object or as an array
// of objects, as the mobile client does for spaces.
type FlexList[T any] []T

func (f *FlexList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*f = items
	case '{':
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*f = FlexList[T]{item}
	default:
		return fmt.Errorf("FlexList: expected an object or an array of objects")
	}
	return nil
}

// Items returns the batch as a plain slice.
func (f FlexList[T]) Items() []T {
	return []T(f)
}

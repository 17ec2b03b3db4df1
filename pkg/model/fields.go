package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString holds a JSON scalar that the dashboard may send either as a
// string or as a bare number (ids, lat, lng). Numbers keep their exact
// textual form so exported coordinates round-trip verbatim.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("FlexString: cannot parse %s: %w", data, err)
		}
		*f = FlexString(n.String())
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*f = FlexString(data)
	default:
		return fmt.Errorf("FlexString: unexpected JSON value %s", data)
	}
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Tags is the device tag list. Older API versions send a space-separated
// string (" a b "), newer ones an array; both decode to the string form.
type Tags string

func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Tags(s)
	case data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("Tags: %w", err)
		}
		*t = Tags(strings.Join(list, " "))
	default:
		return fmt.Errorf("Tags: unexpected JSON value %s", data)
	}
	return nil
}

func (t Tags) String() string {
	return string(t)
}

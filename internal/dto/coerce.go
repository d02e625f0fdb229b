package dto

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexID decodes a JSON string or number into a string identifier. Upstream
// exports are inconsistent about whether ids are quoted, so both forms are
// accepted and compared as strings from here on.
type FlexID string

// UnmarshalJSON accepts strings, numbers, and null. Anything else decodes to
// the empty id rather than failing the whole payload.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n.String())
		return nil
	}
	*f = ""
	return nil
}

// String returns the id value.
func (f FlexID) String() string {
	return string(f)
}

// OptionalInt is a leniently decoded integer. Absent, null, or malformed
// values stay unset and fall back to whatever default the caller supplies.
type OptionalInt struct {
	value int
	valid bool
}

// Int builds a set OptionalInt (handy for building requests in code).
func Int(v int) OptionalInt {
	return OptionalInt{value: v, valid: true}
}

// UnmarshalJSON never fails: non-numeric input leaves the value unset.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			*o = OptionalInt{}
			return nil
		}
		*o = OptionalInt{value: int(f), valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(s)); convErr == nil {
			*o = OptionalInt{value: n, valid: true}
			return nil
		}
	}
	*o = OptionalInt{}
	return nil
}

// MarshalJSON renders the value or null, keeping request hashing stable.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// IsSet reports whether a usable value was decoded.
func (o OptionalInt) IsSet() bool {
	return o.valid
}

// Or returns the decoded value or the provided default.
func (o OptionalInt) Or(def int) int {
	if o.valid {
		return o.value
	}
	return def
}

// OptionalBool is the boolean counterpart of OptionalInt.
type OptionalBool struct {
	value bool
	valid bool
}

// Bool builds a set OptionalBool.
func Bool(v bool) OptionalBool {
	return OptionalBool{value: v, valid: true}
}

// UnmarshalJSON never fails: non-boolean input leaves the value unset.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*o = OptionalBool{value: b, valid: true}
		return nil
	}
	*o = OptionalBool{}
	return nil
}

// MarshalJSON renders the value or null.
func (o OptionalBool) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// IsSet reports whether a usable value was decoded.
func (o OptionalBool) IsSet() bool {
	return o.valid
}

// Or returns the decoded value or the provided default.
func (o OptionalBool) Or(def bool) bool {
	if o.valid {
		return o.value
	}
	return def
}

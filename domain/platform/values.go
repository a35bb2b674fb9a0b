package platform

import (
	"bytes"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Count is a counter field that accepts any JSON value. Upstream payloads mix
// numbers, objects and arrays under the same key, so decoding never fails;
// the flags record what was actually there.
type Count struct {
	N       int64
	Number  bool // value was a JSON number
	Present bool // value was non-null
	Truthy  bool
}

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count{}
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	c.Present = true
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			c.Truthy = s != ""
		}
	case 't', '{', '[':
		c.Truthy = true
	case 'f':
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return nil
		}
		c.Number = true
		c.N = int64(math.Round(f))
		c.Truthy = f != 0
	}
	return nil
}

// value returns the numeric value, or 0 when the field held a non-number.
func (c Count) value() int64 {
	if c.Number {
		return c.N
	}
	return 0
}

// firstNumber returns the first count that is a JSON number.
func firstNumber(counts ...Count) (int64, bool) {
	for _, c := range counts {
		if c.Number {
			return c.N, true
		}
	}
	return 0, false
}

// firstTruthy returns the first count that is a non-zero number.
func firstTruthy(counts ...Count) (int64, bool) {
	for _, c := range counts {
		if c.Number && c.Truthy {
			return c.N, true
		}
	}
	return 0, false
}

// firstPresent mirrors a nullish-coalescing chain: the first non-null value
// wins, even when it is zero or not a number.
func firstPresent(counts ...Count) int64 {
	for _, c := range counts {
		if c.Present {
			return c.value()
		}
	}
	return 0
}

// Text is a string field that also accepts JSON numbers (ids are sent as
// either). Any other JSON type decodes to the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = ""
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			*t = Text(s)
		}
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		*t = Text(raw)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Str is a string field that decodes to the empty string for any non-string
// JSON value.
type Str string

func (s *Str) UnmarshalJSON(data []byte) error {
	*s = ""
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || raw[0] != '"' {
		return nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err == nil {
		*s = Str(v)
	}
	return nil
}

func (s Str) String() string { return string(s) }

// Flag is a boolean field that is set only by a JSON true.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag(bytes.Equal(bytes.TrimSpace(data), []byte("true")))
	return nil
}

// List decodes a JSON array element by element. A non-array decodes to an
// empty list, and elements that fail to decode are dropped.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	*l = nil
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make(List[T], 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

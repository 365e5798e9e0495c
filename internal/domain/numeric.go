package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Numeric is a nullable numeric value tolerant of the messy representations
// an extraction provider produces: raw numbers, numeric strings carrying
// currency symbols and grouping separators, or null. Unparseable input
// normalizes to the null value instead of failing the decode.
type Numeric struct {
	Value float64
	Valid bool
}

// Num returns a valid Numeric holding v.
func Num(v float64) Numeric { return Numeric{Value: v, Valid: true} }

var reNumericJunk = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumeric normalizes a value of unknown representation.
func ParseNumeric(v any) Numeric {
	switch t := v.(type) {
	case nil:
		return Numeric{}
	case float64:
		return numFromFloat(t)
	case float32:
		return numFromFloat(float64(t))
	case int:
		return Num(float64(t))
	case int64:
		return Num(float64(t))
	case json.Number:
		return parseNumericString(t.String())
	case string:
		return parseNumericString(t)
	default:
		return Numeric{}
	}
}

func parseNumericString(s string) Numeric {
	s = reNumericJunk.ReplaceAllString(s, "")
	if s == "" {
		return Numeric{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Numeric{}
	}
	return numFromFloat(f)
}

func numFromFloat(f float64) Numeric {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Numeric{}
	}
	return Numeric{Value: f, Valid: true}
}

// MarshalJSON emits the value as a JSON number, or null when not set.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number, a numeric string with junk characters, or
// null. Anything else (arrays, objects, booleans) normalizes to null rather
// than aborting the decode of the surrounding document.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = Numeric{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = numFromFloat(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*n = parseNumericString(str)
		return nil
	}
	*n = Numeric{}
	return nil
}

// Package core provides the fundamental data structures and logic for the GrafoDB engine.
//
// This file defines the Value type: the tagged scalar stored inside vertex and
// edge property bags. Property bags are loosely typed (any key can hold any
// scalar), so every stored value carries its own kind tag instead of relying
// on runtime type assertions scattered through the engine.
package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ValueKind identifies the concrete type held by a Value.
type ValueKind uint8

const (
	// KindNull is the zero Value. It never compares equal to anything,
	// including another null (absent-property semantics).
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// Value is a tagged union over the scalar types a property may hold:
// string, int64, float64, bool, or a calendar date.
type Value struct {
	kind ValueKind
	str  string
	i    int64
	f    float64
	b    bool
	d    time.Time
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func IntValue(i int64) Value     { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func DateValue(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, d: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate builds a date Value from its "2006-01-02" representation.
func ParseDate(s string) (Value, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Value{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateValue(t), nil
}

// FromAny coerces a dynamically typed scalar (as produced by encoding/json or
// yaml decoding) into a Value. Strings always stay strings, even when they
// look like dates: dates are explicit via DateValue/ParseDate, never guessed.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint64:
		return IntValue(int64(x)), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case time.Time:
		return DateValue(x), nil
	case Value:
		return x, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("unsupported number %q: %w", x.String(), err)
		}
		return FloatValue(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported property type %T", v)
	}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) Str() string     { return v.str }
func (v Value) Int() int64      { return v.i }
func (v Value) Float() float64  { return v.f }
func (v Value) Bool() bool      { return v.b }
func (v Value) Date() time.Time { return v.d }

// Equal reports typed scalar equality. Ints and floats compare numerically
// across kinds (5000 == 5000.0, matching agtype numerics); strings compare by
// exact byte sequence; dates by calendar value. Null equals nothing.
//
// Cross-kind numeric comparison is exact: an int equals a float only when the
// float holds exactly that integral value, so large int64s are never collapsed
// through float64 rounding.
func (v Value) Equal(o Value) bool {
	if v.kind == KindNull || o.kind == KindNull {
		return false
	}
	if v.isNumeric() && o.isNumeric() {
		if v.kind == o.kind {
			if v.kind == KindInt {
				return v.i == o.i
			}
			return v.f == o.f
		}
		if v.kind == KindInt {
			return floatEqualsInt(o.f, v.i)
		}
		return floatEqualsInt(v.f, o.i)
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.d.Equal(o.d)
	}
	return false
}

func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// floatAsInt reports whether f holds an integral value representable as int64
// and returns it.
func floatAsInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func floatEqualsInt(f float64, i int64) bool {
	fi, ok := floatAsInt(f)
	return ok && fi == i
}

// ordered returns the rank used by tree indexes and whether this kind is
// tree-indexable at all. Numerics share one rank space; dates rank by their
// unix timestamp so calendar order is preserved.
func (v Value) ordered() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindDate:
		return float64(v.d.Unix()), true
	default:
		return 0, false
	}
}

// bucketKey returns the hash-bucket key for equality indexes. Kinds are
// prefix-disambiguated; int and float share the numeric prefix so that
// cross-kind numeric equality lands in the same bucket. Ints and integral
// floats format through int64, keeping full precision for values beyond
// float64's 2^53 integer range; remaining collisions are harmless because
// every candidate is re-checked against the full property bag.
func (v Value) bucketKey() string {
	switch v.kind {
	case KindString:
		return "s:" + v.str
	case KindInt:
		return "n:" + strconv.FormatInt(v.i, 10)
	case KindFloat:
		if i, ok := floatAsInt(v.f); ok {
			return "n:" + strconv.FormatInt(i, 10)
		}
		return "n:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "b:1"
		}
		return "b:0"
	case KindDate:
		return "d:" + v.d.Format(DateLayout)
	default:
		return ""
	}
}

// String implements fmt.Stringer for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.d.Format(DateLayout)
	default:
		return "null"
	}
}

// MarshalJSON emits the native scalar (dates as "2006-01-02" strings).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	case KindDate:
		return json.Marshal(v.d.Format(DateLayout))
	default:
		return []byte("null"), nil
	}
}

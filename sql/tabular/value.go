// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular

import (
	"strconv"
	"strings"
)

// Kind reports which variant a Value holds.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindText
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Declared type names written to (and read from) the schema section
// of the exchange format. Any other name decodes to a Null value.
const (
	TypeBoolean = "boolean"
	TypeText    = "text"
	TypeNumber  = "number"
)

// DriverType is the type tag a relational source attaches to a fetched
// column, normalized to the PostgreSQL names (e.g. INT4, TEXT).
type DriverType string

// Recognized driver types. Anything else is UNKNOWN and its cells
// are always fetched as Null.
const (
	DriverBool    DriverType = "BOOL"
	DriverInt2    DriverType = "INT2"
	DriverInt4    DriverType = "INT4"
	DriverInt8    DriverType = "INT8"
	DriverText    DriverType = "TEXT"
	DriverUnknown DriverType = "UNKNOWN"
)

// A Value is a single cell: a boolean, a 32-bit integer, a text or null.
// Only the payload field matching the kind is meaningful.
type Value struct {
	kind Kind
	b    bool
	i    int32
	s    string
}

// Null returns the null value. It is also the zero Value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int32) Value { return Value{kind: KindInt, i: i} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports if v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload and reports if v is a boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer payload and reports if v is an integer.
func (v Value) Int() (int32, bool) { return v.i, v.kind == KindInt }

// Text returns the text payload and reports if v is a text.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Render returns the canonical text of v. Null renders as the empty
// string, same as an empty Text; the format cannot tell them apart.
func (v Value) Render() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(int64(v.i), 10)
	case KindText:
		return v.s
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Render() }

// Param returns v in a form suitable for binding as a query argument.
// The second result is false for Null, which has no parameter.
func (v Value) Param() (any, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		return v.i, true
	case KindText:
		return v.s, true
	default:
		return nil, false
	}
}

// FromDriver builds a Value from a cell fetched by a relational source.
// Unknown types and values that cannot be extracted as the given type
// yield Null. Integers are stored as 32-bit and are not range checked.
func FromDriver(t DriverType, raw any) Value {
	switch t {
	case DriverBool:
		if b, ok := extractBool(raw); ok {
			return Bool(b)
		}
	case DriverInt2, DriverInt4, DriverInt8:
		if i, ok := extractInt(raw); ok {
			return Int(int32(i))
		}
	case DriverText:
		switch s := raw.(type) {
		case string:
			return Text(s)
		case []byte:
			return Text(string(s))
		}
	}
	return Null()
}

func extractBool(raw any) (bool, bool) {
	switch b := raw.(type) {
	case bool:
		return b, true
	case int64:
		return b != 0, true
	case []byte:
		return parseBool(string(b))
	case string:
		return parseBool(b)
	}
	return false, false
}

// parseBool accepts the strconv boolean forms and any integer text,
// which is true when non-zero (e.g. MySQL TINYINT columns).
func parseBool(s string) (bool, bool) {
	if v, err := strconv.ParseBool(s); err == nil {
		return v, true
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i != 0, true
	}
	return false, false
}

func extractInt(raw any) (int64, bool) {
	switch i := raw.(type) {
	case int64:
		return i, true
	case int32:
		return int64(i), true
	case int16:
		return int64(i), true
	case int:
		return int64(i), true
	case []byte:
		v, err := strconv.ParseInt(string(i), 10, 64)
		return v, err == nil
	case string:
		v, err := strconv.ParseInt(i, 10, 64)
		return v, err == nil
	}
	return 0, false
}

// FromDeclared builds a Value from its text form and the declared type
// name found in a schema section. A number that does not parse becomes
// Int(0) and any boolean text other than "true" becomes Bool(false).
func FromDeclared(typeName, raw string) Value {
	v, _ := fromDeclared(typeName, raw, CoerceLenient)
	return v
}

// fromDeclared is FromDeclared with an explicit coercion policy.
// Under CoerceStrict, empty boolean and number texts decode to Null
// and malformed ones are reported instead of defaulted.
func fromDeclared(typeName, raw string, c Coercion) (Value, error) {
	switch typeName {
	case TypeBoolean:
		if c == CoerceStrict {
			switch raw {
			case "":
				return Null(), nil
			case "true", "false":
			default:
				return Null(), &valueError{typ: typeName, raw: raw}
			}
		}
		return Bool(raw == "true"), nil
	case TypeText:
		return Text(raw), nil
	case TypeNumber:
		i, err := strconv.ParseInt(raw, 10, 32)
		switch {
		case err == nil:
			return Int(int32(i)), nil
		case c != CoerceStrict:
			return Int(0), nil
		case strings.TrimSpace(raw) == "":
			return Null(), nil
		default:
			return Null(), &valueError{typ: typeName, raw: raw}
		}
	default:
		return Null(), nil
	}
}

// NormalizeType maps a catalog type name (e.g. "integer", "character
// varying") to the declared type name that decodes to the same kind
// of value. Unknown names are returned as is.
func NormalizeType(catalog string) string {
	switch strings.ToLower(strings.TrimSpace(catalog)) {
	case "boolean", "bool", "tinyint":
		return TypeBoolean
	case "smallint", "integer", "int", "bigint", "mediumint", "int2", "int4", "int8":
		return TypeNumber
	case "text", "character varying", "varchar", "character", "char":
		return TypeText
	default:
		return catalog
	}
}

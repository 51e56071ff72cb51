// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular_test

import (
	"testing"

	"ariga.io/dbport/sql/tabular"

	"github.com/stretchr/testify/require"
)

func TestValue_Render(t *testing.T) {
	for _, tt := range []struct {
		v    tabular.Value
		want string
	}{
		{v: tabular.Bool(true), want: "true"},
		{v: tabular.Bool(false), want: "false"},
		{v: tabular.Int(-42), want: "-42"},
		{v: tabular.Int(2147483647), want: "2147483647"},
		{v: tabular.Text("a b|c"), want: "a b|c"},
		{v: tabular.Text(""), want: ""},
		{v: tabular.Null(), want: ""},
	} {
		require.Equal(t, tt.want, tt.v.Render())
		require.Equal(t, tt.want, tt.v.String())
	}
}

func TestValue_NullEmptyTextCollapse(t *testing.T) {
	// Known ambiguity of the format: both render to the same text.
	require.Equal(t, tabular.Null().Render(), tabular.Text("").Render())
	require.Empty(t, tabular.Null().Render())
	require.NotEqual(t, tabular.Null(), tabular.Text(""))
	require.Equal(t, tabular.Null(), tabular.Value{})
}

func TestValue_Accessors(t *testing.T) {
	b, ok := tabular.Bool(true).Bool()
	require.True(t, ok)
	require.True(t, b)
	_, ok = tabular.Int(1).Bool()
	require.False(t, ok)

	i, ok := tabular.Int(7).Int()
	require.True(t, ok)
	require.EqualValues(t, 7, i)

	s, ok := tabular.Text("x").Text()
	require.True(t, ok)
	require.Equal(t, "x", s)

	require.True(t, tabular.Null().IsNull())
	require.Equal(t, tabular.KindText, tabular.Text("").Kind())
	require.Equal(t, "null", tabular.Null().Kind().String())
}

func TestValue_Param(t *testing.T) {
	p, ok := tabular.Null().Param()
	require.False(t, ok)
	require.Nil(t, p)

	p, ok = tabular.Int(3).Param()
	require.True(t, ok)
	require.Equal(t, int32(3), p)

	p, ok = tabular.Bool(true).Param()
	require.True(t, ok)
	require.Equal(t, true, p)

	p, ok = tabular.Text("t").Param()
	require.True(t, ok)
	require.Equal(t, "t", p)
}

func TestFromDriver(t *testing.T) {
	for _, tt := range []struct {
		typ  tabular.DriverType
		raw  any
		want tabular.Value
	}{
		{typ: tabular.DriverBool, raw: true, want: tabular.Bool(true)},
		{typ: tabular.DriverBool, raw: int64(0), want: tabular.Bool(false)},
		{typ: tabular.DriverBool, raw: []byte("1"), want: tabular.Bool(true)},
		{typ: tabular.DriverBool, raw: "t", want: tabular.Bool(true)},
		{typ: tabular.DriverBool, raw: "maybe", want: tabular.Null()},
		{typ: tabular.DriverBool, raw: []byte("5"), want: tabular.Bool(true)},
		{typ: tabular.DriverBool, raw: "-3", want: tabular.Bool(true)},
		{typ: tabular.DriverBool, raw: []byte("00"), want: tabular.Bool(false)},
		{typ: tabular.DriverBool, raw: nil, want: tabular.Null()},
		{typ: tabular.DriverInt2, raw: int64(12), want: tabular.Int(12)},
		{typ: tabular.DriverInt4, raw: int32(-1), want: tabular.Int(-1)},
		{typ: tabular.DriverInt8, raw: []byte("99"), want: tabular.Int(99)},
		{typ: tabular.DriverInt8, raw: "1x", want: tabular.Null()},
		{typ: tabular.DriverInt4, raw: nil, want: tabular.Null()},
		{typ: tabular.DriverText, raw: "hello", want: tabular.Text("hello")},
		{typ: tabular.DriverText, raw: []byte("bytes"), want: tabular.Text("bytes")},
		{typ: tabular.DriverText, raw: int64(1), want: tabular.Null()},
		{typ: tabular.DriverText, raw: nil, want: tabular.Null()},
		{typ: tabular.DriverUnknown, raw: "x", want: tabular.Null()},
		{typ: "NUMERIC", raw: "1.5", want: tabular.Null()},
	} {
		require.Equal(t, tt.want, tabular.FromDriver(tt.typ, tt.raw), "%s %v", tt.typ, tt.raw)
	}
}

func TestFromDeclared(t *testing.T) {
	for _, tt := range []struct {
		typ, raw string
		want     tabular.Value
	}{
		{typ: "boolean", raw: "true", want: tabular.Bool(true)},
		{typ: "boolean", raw: "false", want: tabular.Bool(false)},
		{typ: "boolean", raw: "yes", want: tabular.Bool(false)},
		{typ: "boolean", raw: "TRUE", want: tabular.Bool(false)},
		{typ: "boolean", raw: "", want: tabular.Bool(false)},
		{typ: "number", raw: "42", want: tabular.Int(42)},
		{typ: "number", raw: "-7", want: tabular.Int(-7)},
		{typ: "number", raw: "notanumber", want: tabular.Int(0)},
		{typ: "number", raw: "", want: tabular.Int(0)},
		{typ: "number", raw: "4294967296", want: tabular.Int(0)},
		{typ: "text", raw: "", want: tabular.Text("")},
		{typ: "text", raw: " spaced ", want: tabular.Text(" spaced ")},
		{typ: "integer", raw: "1", want: tabular.Null()},
		{typ: "", raw: "1", want: tabular.Null()},
	} {
		require.Equal(t, tt.want, tabular.FromDeclared(tt.typ, tt.raw), "%s %q", tt.typ, tt.raw)
	}
}

func TestNormalizeType(t *testing.T) {
	require.Equal(t, tabular.TypeNumber, tabular.NormalizeType("integer"))
	require.Equal(t, tabular.TypeNumber, tabular.NormalizeType("BIGINT"))
	require.Equal(t, tabular.TypeText, tabular.NormalizeType("character varying"))
	require.Equal(t, tabular.TypeBoolean, tabular.NormalizeType("boolean"))
	require.Equal(t, "numeric", tabular.NormalizeType("numeric"))
}

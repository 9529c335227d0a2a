// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package byml_test

import (
	"errors"
	"testing"

	"github.com/woozymasta/rombuilder/internal/byml"
	"github.com/woozymasta/rombuilder/internal/testutil"
)

func TestParse_ScalarTypes(t *testing.T) {
	t.Parallel()

	root := testutil.Dict(
		"Str", "hello",
		"Int", int32(-5),
		"Float", float32(1.5),
		"UInt", uint32(0xdeadbeef),
		"Int64", int64(-1<<40),
		"UInt64", uint64(1<<63),
		"Double", 2.25,
		"Bool", true,
		"Null", nil,
		"List", []any{int32(1), "two", testutil.Dict("Nested", false)},
	)

	for _, bigEndian := range []bool{false, true} {
		bigEndian := bigEndian
		t.Run(map[bool]string{false: "little", true: "big"}[bigEndian], func(t *testing.T) {
			t.Parallel()

			doc, err := byml.Parse(testutil.MustBYML(root, bigEndian))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if doc.BigEndian != bigEndian || doc.Version != 2 {
				t.Fatalf("doc BigEndian=%v Version=%d", doc.BigEndian, doc.Version)
			}

			d, ok := doc.Root.(*byml.Dict)
			if !ok {
				t.Fatalf("root type %T, want *byml.Dict", doc.Root)
			}

			want := map[string]any{
				"Str":    "hello",
				"Int":    int32(-5),
				"Float":  float32(1.5),
				"UInt":   uint32(0xdeadbeef),
				"Int64":  int64(-1 << 40),
				"UInt64": uint64(1 << 63),
				"Double": 2.25,
				"Bool":   true,
				"Null":   nil,
			}
			for k, w := range want {
				got, ok := d.Get(k)
				if !ok {
					t.Fatalf("missing key %s", k)
				}
				if got != w {
					t.Fatalf("%s=%#v, want %#v", k, got, w)
				}
			}

			list, _ := d.Get("List")
			items, ok := list.([]any)
			if !ok || len(items) != 3 {
				t.Fatalf("List=%#v", list)
			}
			if items[0] != int32(1) || items[1] != "two" {
				t.Fatalf("List items=%#v", items)
			}
			nested, ok := items[2].(*byml.Dict)
			if !ok {
				t.Fatalf("items[2] type %T", items[2])
			}
			if v, _ := nested.Get("Nested"); v != false {
				t.Fatalf("Nested=%#v", v)
			}
		})
	}
}

func TestParse_KeepsStoredKeyOrder(t *testing.T) {
	t.Parallel()

	root := testutil.Dict("b", int32(1), "a", int32(2), "c", int32(3))
	d, err := byml.ParseRoot(testutil.MustBYML(root, false))
	if err != nil {
		t.Fatalf("ParseRoot: %v", err)
	}

	keys := d.(*byml.Dict).Keys()
	want := []string{"b", "a", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys=%v, want %v", keys, want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	v1 := testutil.MustBYML(testutil.Dict("a", int32(1)), true)
	v1[3] = 1

	truncated := testutil.MustBYML(testutil.Dict("a", []any{int32(1), int32(2)}), false)
	truncated = truncated[:len(truncated)-4]

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: byml.ErrInvalidHeader},
		{name: "not byml", data: []byte("SARC0000000000000000"), want: byml.ErrInvalidHeader},
		{name: "version 1", data: v1, want: byml.ErrUnsupportedVersion},
		{name: "truncated", data: truncated, want: byml.ErrOutOfBounds},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := byml.Parse(tc.data)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Parse err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestDict_SetDelete(t *testing.T) {
	t.Parallel()

	d := byml.NewDict()
	d.Set("x", 1)
	d.Set("y", 2)
	d.Set("x", 3)
	d.Delete("missing")
	d.Delete("y")

	if d.Len() != 1 {
		t.Fatalf("Len=%d, want 1", d.Len())
	}
	if v, _ := d.Get("x"); v != 3 {
		t.Fatalf("x=%v, want 3", v)
	}
}

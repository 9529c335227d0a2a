// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"errors"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestIsUnhandledContent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		path string
		want bool
	}{
		{name: "model", path: "Model/Link.sbfres", want: true},
		{name: "sound nested", path: "Sound/Resource/Stream/a.bfstm", want: true},
		{name: "system", path: "System/Resource/ResourceSizeTable.product.srsizetable", want: true},
		{name: "system version", path: "System/Version.txt", want: false},
		{name: "system aoc version", path: "System/AocVersion.txt", want: false},
		{name: "windows separators", path: `UI\StaticTex\a.bflim`, want: true},
		{name: "actor pack", path: "Actor/Pack/Foo.sbactorpack", want: false},
		{name: "map", path: "Map/MainField/A-1/A-1_Static.smubin", want: false},
		{name: "prefix is not a directory", path: "Models.txt", want: false},
		{name: "nested unhandled name", path: "Actor/Model/a.bin", want: false},
		{name: "case sensitive", path: "model/a.bin", want: false},
		{name: "empty", path: "", want: true},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := IsUnhandledContent(tc.path); got != tc.want {
				t.Fatalf("IsUnhandledContent(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestContentRulesSkipEmpty(t *testing.T) {
	t.Parallel()

	rules := contentRules([]string{"Sound/", " ", ""}, []string{"", "./Sound/keep.txt"})
	if len(rules) != 2 {
		t.Fatalf("len(rules)=%d, want 2: %+v", len(rules), rules)
	}
	if rules[0].Pattern != "/Sound/**" || rules[0].Action != pathrules.ActionExclude {
		t.Fatalf("rules[0]=%+v", rules[0])
	}
	if rules[1].Pattern != "/Sound/keep.txt" || rules[1].Action != pathrules.ActionInclude {
		t.Fatalf("rules[1]=%+v", rules[1])
	}

	f, err := newContentFilter(rules)
	if err != nil {
		t.Fatalf("newContentFilter: %v", err)
	}
	if f.Handled("Sound/a.bin") {
		t.Fatal("Sound/a.bin must be unhandled")
	}
	if !f.Handled("Sound/keep.txt") {
		t.Fatal("Sound/keep.txt must be re-included")
	}
}

func TestNewContentFilterInvalidRule(t *testing.T) {
	t.Parallel()

	_, err := newContentFilter([]pathrules.Rule{{
		Action:  pathrules.ActionUnknown,
		Pattern: "/Sound/**",
	}})
	if !errors.Is(err, ErrInvalidContentRules) {
		t.Fatalf("expected ErrInvalidContentRules, got %v", err)
	}
}

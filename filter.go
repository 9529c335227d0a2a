// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"fmt"
	"sync"

	"github.com/woozymasta/pathrules"
)

// UnhandledContentPrefixes are top-level directories skipped by unbuild.
// They have no tooling, are platform-specific, do not belong in source or
// are regenerated at build time.
var UnhandledContentPrefixes = []string{
	"Camera",
	"Effect",
	"ELink2",
	"Env",
	"Font",
	"Game",
	"Layout",
	"Model",
	"Movie",
	"NavMesh",
	"Physics",
	"Shader",
	"SLink2",
	"Sound",
	"System",
	"Terrain",
	"UI",
	"Voice",
}

// HandledSystemFiles are handled even though System is unhandled.
var HandledSystemFiles = []string{
	"System/Version.txt",
	"System/AocVersion.txt",
}

// contentFilter holds compiled rules for unhandled content.
type contentFilter struct {
	matcher *pathrules.Matcher
}

// defaultContentFilter compiles the built-in rules once.
var defaultContentFilter = sync.OnceValues(func() (*contentFilter, error) {
	return newContentFilter(contentRules(UnhandledContentPrefixes, HandledSystemFiles))
})

// contentRules builds ordered rules: prefixes are excluded, exceptions re-included.
// Later rules win.
func contentRules(prefixes []string, exceptions []string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(prefixes)+len(exceptions))
	for _, prefix := range prefixes {
		prefix = NormalizePath(prefix)
		if prefix == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionExclude,
			Pattern: "/" + prefix + "/**",
		})
	}

	for _, exception := range exceptions {
		exception = NormalizePath(exception)
		if exception == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: "/" + exception,
		})
	}

	return rules
}

// newContentFilter compiles content rules. Paths match case-sensitively and
// anything no rule matches is handled.
func newContentFilter(rules []pathrules.Rule) (*contentFilter, error) {
	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionInclude,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidContentRules, err)
	}

	return &contentFilter{matcher: matcher}, nil
}

// Handled reports whether rel should be unbuilt.
func (f *contentFilter) Handled(rel string) bool {
	if f == nil || f.matcher == nil {
		return true
	}

	candidate := NormalizePath(rel)
	if candidate == "" {
		return false
	}

	return f.matcher.Included(candidate, false)
}

// IsUnhandledContent reports whether rel falls under an unhandled prefix
// and is not one of the handled exceptions.
func IsUnhandledContent(rel string) bool {
	f, err := defaultContentFilter()
	if err != nil {
		// Built-in rules are static; a compile failure is a programming error.
		panic(err)
	}

	return !f.Handled(rel)
}

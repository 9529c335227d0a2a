// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import "errors"

// Sentinel errors for unbuild operations. Use errors.Is in callers.
var (
	// ErrFileNotFound means a path is not present in a file source.
	ErrFileNotFound = errors.New("file not found in source")
	// ErrInvalidResourcePath means a resource path is empty or escapes its root.
	ErrInvalidResourcePath = errors.New("invalid resource path")
	// ErrInvalidPlatform means the platform is not one of cafe or nx.
	ErrInvalidPlatform = errors.New("invalid platform")
	// ErrMissingSourceDir means the source or destination directory is missing.
	ErrMissingSourceDir = errors.New("missing source directory")
	// ErrMissingHashID means a map unit entity has no numeric HashId.
	ErrMissingHashID = errors.New("map unit entity has no HashId")
	// ErrInvalidMapUnit means a map unit half is not a dictionary or has malformed entity lists.
	ErrInvalidMapUnit = errors.New("invalid map unit")
	// ErrMessageConverter means the external message table converter failed.
	ErrMessageConverter = errors.New("message converter failed")
	// ErrInvalidContentRules means unhandled content rules failed to compile.
	ErrInvalidContentRules = errors.New("invalid content rules")
	// ErrUnknownPostProcessor means a configured post-processing stage does not exist.
	ErrUnknownPostProcessor = errors.New("unknown post-processor")
)

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package sarc

import "errors"

// Sentinel errors for SARC operations. Use errors.Is in callers.
var (
	// ErrInvalidHeader means the SARC data is missing or has a bad header.
	ErrInvalidHeader = errors.New("invalid SARC data: missing or bad header")
	// ErrInvalidByteOrder means the byte order mark is neither big nor little endian.
	ErrInvalidByteOrder = errors.New("invalid SARC byte order mark")
	// ErrInvalidFAT means the SFAT section is missing or malformed.
	ErrInvalidFAT = errors.New("invalid SARC file allocation table")
	// ErrInvalidFNT means the SFNT section is missing or malformed.
	ErrInvalidFNT = errors.New("invalid SARC file name table")
	// ErrMemberOutOfBounds means a member payload range exceeds the archive data.
	ErrMemberOutOfBounds = errors.New("SARC member payload out of bounds")
	// ErrMemberNotFound means the member is not found.
	ErrMemberNotFound = errors.New("SARC member not found")
	// ErrInvalidExtractPath means member path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
)

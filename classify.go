// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"bytes"
	"path"
	"strings"

	"github.com/woozymasta/rombuilder/internal/aamp"
)

// ArchiveExtensions are pack archives expanded recursively instead of written out.
var ArchiveExtensions = []string{
	".sbactorpack",
	".sbeventpack",
	".bactorpack",
	".beventpack",
	".pack",
}

// Conversion exemptions.
const (
	animationInfoPrefix = "Actor/AnimationInfo"
	mapUnitExtension    = ".mubin"
)

// bymlMagics are the big- and little-endian BYML v2 signatures.
var bymlMagics = [][]byte{
	[]byte("BY\x00\x02"),
	[]byte("YB\x02\x00"),
}

// Classify decides from the path alone whether rel is unhandled, a pack archive
// or a regular resource.
func Classify(rel string) ResourceKind {
	if IsUnhandledContent(rel) {
		return KindUnhandled
	}
	if IsArchivePath(rel) {
		return KindArchive
	}

	return KindResource
}

// IsArchivePath reports whether the final extension of rel is a pack archive extension.
func IsArchivePath(rel string) bool {
	_, ext := splitExt(NormalizePath(rel))
	for _, archiveExt := range ArchiveExtensions {
		if ext == archiveExt {
			return true
		}
	}

	return false
}

// SniffConversion picks the text conversion for decompressed data.
// rel is the path with the compression marker already removed; animation info
// and map units are never converted here.
func SniffConversion(rel string, data []byte) Conversion {
	rel = NormalizePath(rel)
	if strings.HasPrefix(rel, animationInfoPrefix) {
		return ConversionNone
	}
	if path.Ext(rel) == mapUnitExtension {
		return ConversionNone
	}

	if aamp.IsAAMP(data) {
		return ConversionAAMP
	}
	if len(data) < 4 {
		return ConversionNone
	}
	for _, magic := range bymlMagics {
		if bytes.Equal(data[:4], magic) {
			return ConversionBYML
		}
	}

	return ConversionNone
}

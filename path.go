// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"path"
	"strings"
)

// Extension markers and overlay rewrite constants.
const (
	// CompressionMarker prefixes extensions of Yaz0-compressed resources (".sbactorpack").
	CompressionMarker = 's'
	// BinaryMarker prefixes extensions of binary forms that have a text form (".bxml").
	BinaryMarker = 'b'
	// AocMarker tags overlay outputs until they are reconciled with base outputs.
	AocMarker = ".aoc"

	mainFieldPrefix    = "Map/MainField"
	aocMainFieldPrefix = "Map/AocMainField"
	textExtension      = ".yml"
)

// doubleExtensions are collapsed after text conversion.
var doubleExtensions = []struct{ from, to string }{
	{from: ".yml.yml", to: ".yml"},
	{from: ".xml.yml", to: ".yml"},
}

// NormalizePath converts a resource path to normalized slash-separated relative form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." and ".." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	return p
}

// splitExt splits p into everything before the final extension and the extension itself.
// A leading dot of the base name does not start an extension.
func splitExt(p string) (string, string) {
	base := path.Base(p)
	ext := path.Ext(base)
	if ext == base {
		return p, ""
	}

	return p[:len(p)-len(ext)], ext
}

// RemoveExtensionMarker drops marker from the final extension when it starts with it.
// "Foo.sbactorpack" with 's' becomes "Foo.bactorpack".
func RemoveExtensionMarker(p string, marker byte) string {
	stem, ext := splitExt(p)
	if len(ext) <= 2 || ext[1] != marker {
		return p
	}

	return stem + "." + ext[2:]
}

// StripCompressionMarker removes the compression marker from the final extension.
func StripCompressionMarker(p string) string {
	return RemoveExtensionMarker(p, CompressionMarker)
}

// HasCompressionMarker reports whether the final extension marks compressed content.
func HasCompressionMarker(p string) bool {
	return StripCompressionMarker(p) != p
}

// FixDoubleExtensions collapses ".yml.yml" and ".xml.yml" into ".yml".
func FixDoubleExtensions(p string) string {
	for _, pair := range doubleExtensions {
		if strings.HasSuffix(p, pair.from) {
			return strings.TrimSuffix(p, pair.from) + pair.to
		}
	}

	return p
}

// AocPath rewrites a destination path produced by the overlay pass:
// main field map units move to the overlay map directory and the final
// extension is prefixed with the overlay marker.
func AocPath(p string) string {
	p = strings.ReplaceAll(p, mainFieldPrefix, aocMainFieldPrefix)
	stem, ext := splitExt(p)
	return stem + AocMarker + ext
}

// NonAocPath strips the overlay marker inserted by AocPath from the base name.
// It reports false when p carries no marker.
func NonAocPath(p string) (string, bool) {
	dir, base := path.Split(p)
	if idx := strings.LastIndex(base, AocMarker+"."); idx > 0 {
		return dir + base[:idx] + base[idx+len(AocMarker):], true
	}
	if strings.HasSuffix(base, AocMarker) && len(base) > len(AocMarker) {
		return dir + strings.TrimSuffix(base, AocMarker), true
	}

	return p, false
}

// DestinationPath maps a source-relative resource path to its destination-relative path.
// Rules apply in order: compression marker removal, text extension for converted
// resources (dropping the binary marker first), double extension collapse and,
// for the overlay pass, the overlay rewrite.
func DestinationPath(rel string, conv Conversion, isOverlay bool) string {
	p := StripCompressionMarker(NormalizePath(rel))

	if ext := conv.Extension(); ext != "" {
		p = RemoveExtensionMarker(p, BinaryMarker) + ext
	}
	p = FixDoubleExtensions(p)

	if isOverlay {
		p = AocPath(p)
	}

	return p
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"fmt"

	"github.com/woozymasta/rombuilder/internal/yaz0"
)

// decompressIfMarked decompresses data when rel carries the compression marker.
// Marked resources without a Yaz0 header (".sarc", ".sbfres" stubs) pass through unchanged.
func decompressIfMarked(rel string, data []byte) ([]byte, error) {
	if !HasCompressionMarker(NormalizePath(rel)) {
		return data, nil
	}
	if !yaz0.IsCompressed(data) {
		return data, nil
	}

	out, err := yaz0.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", rel, err)
	}

	return out, nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/woozymasta/rombuilder/internal/logger"
)

// RemoveUnneededAocSuffixes collapses overlay outputs that duplicate base outputs.
// For every overlay-tagged file under destDir whose untagged counterpart exists
// with identical content, the tagged file replaces the counterpart. Tagged files
// without a counterpart, or with different content, stay where they are.
// It must run after both extraction passes have finished.
func RemoveUnneededAocSuffixes(destDir string) (ReconcileStats, error) {
	var stats ReconcileStats

	tagged, err := collectAocTagged(destDir)
	if err != nil {
		return stats, err
	}

	for _, rel := range tagged {
		stats.Scanned++

		base, _ := NonAocPath(rel)
		taggedPath := filepath.Join(destDir, filepath.FromSlash(rel))
		basePath := filepath.Join(destDir, filepath.FromSlash(base))

		same, found, err := sameFileContent(taggedPath, basePath)
		if err != nil {
			return stats, err
		}

		switch {
		case !found:
			stats.Exclusive++
		case !same:
			stats.Differing++
		default:
			if err := os.Rename(taggedPath, basePath); err != nil {
				return stats, fmt.Errorf("collapse %s: %w", rel, err)
			}
			stats.Collapsed++
			logger.Debug("collapsed overlay duplicate", "path", base)
		}
	}

	logger.Info("reconciled overlay",
		"scanned", stats.Scanned, "collapsed", stats.Collapsed,
		"exclusive", stats.Exclusive, "differing", stats.Differing)

	return stats, nil
}

// collectAocTagged lists regular files under root whose base name carries the overlay marker.
func collectAocTagged(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, tagged := NonAocPath(d.Name()); !tagged {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan overlay outputs in %s: %w", root, err)
	}

	return out, nil
}

// sameFileContent compares two files, sizes first. found is false when b
// is missing or not a regular file.
func sameFileContent(a string, b string) (same bool, found bool, err error) {
	bInfo, err := os.Stat(b)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("stat %s: %w", b, err)
	}
	if !bInfo.Mode().IsRegular() {
		return false, false, nil
	}

	aInfo, err := os.Stat(a)
	if err != nil {
		return false, true, fmt.Errorf("stat %s: %w", a, err)
	}
	if aInfo.Size() != bInfo.Size() {
		return false, true, nil
	}

	aData, err := os.ReadFile(a)
	if err != nil {
		return false, true, fmt.Errorf("read %s: %w", a, err)
	}
	bData, err := os.ReadFile(b)
	if err != nil {
		return false, true, fmt.Errorf("read %s: %w", b, err)
	}

	return bytes.Equal(aData, bData), true, nil
}

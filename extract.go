// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/woozymasta/rombuilder/internal/fsutil"
	"github.com/woozymasta/rombuilder/internal/logger"
	"github.com/woozymasta/rombuilder/internal/sarc"
)

// ExtractStats counts what one UnbuildResources pass did.
type ExtractStats struct {
	// Resources is the number of handled top-level resources.
	Resources int64 `json:"resources" yaml:"resources"`
	// Archives is the number of pack archives expanded, nested ones included.
	Archives int64 `json:"archives" yaml:"archives"`
	// Written is the number of files written.
	Written int64 `json:"written" yaml:"written"`
	// Converted is the number of written files that were converted to text.
	Converted int64 `json:"converted" yaml:"converted"`
	// Skipped is the number of resources whose destination already existed.
	Skipped int64 `json:"skipped" yaml:"skipped"`
	// InPlace is the number of archives extracted as directories.
	InPlace int64 `json:"in_place" yaml:"in_place"`
}

// extractor holds state shared by the workers of one pass.
type extractor struct {
	destDir   string
	overlay   bool
	archives  atomic.Int64
	written   atomic.Int64
	converted atomic.Int64
	skipped   atomic.Int64
	inPlace   atomic.Int64
}

// UnbuildResources extracts every handled resource under srcDir into destDir.
// Pack archives are expanded recursively, BYML and AAMP resources are written
// as YAML and everything else is copied decompressed. Existing destinations are
// never overwritten. The overlay pass tags outputs with the overlay marker and
// dispatches resources one at a time; the base pass batches them.
func UnbuildResources(ctx context.Context, srcDir string, destDir string, isOverlay bool, workers int) error {
	_, err := unbuildResources(ctx, srcDir, destDir, isOverlay, workers)
	return err
}

// unbuildResources is UnbuildResources that also reports counters.
func unbuildResources(ctx context.Context, srcDir string, destDir string, isOverlay bool, workers int) (ExtractStats, error) {
	src := NewDirSource(srcDir)
	all, err := src.ListFiles()
	if err != nil {
		return ExtractStats{}, err
	}
	resources := handledResources(all)

	workers = workerCount(workers)
	batch := 1
	if !isOverlay {
		batch = autoBatchSize(len(resources), workers)
	}

	logger.Info("extracting resources",
		"src", src.Root(), "dest", destDir, "overlay", isOverlay,
		"resources", len(resources), "workers", workers, "batch", batch)

	e := &extractor{destDir: destDir, overlay: isOverlay}
	err = dispatch(ctx, workers, batch, resources, func(ctx context.Context, rel string) error {
		return e.processResource(ctx, src, rel)
	})

	stats := e.stats(len(resources))
	if err != nil {
		return stats, err
	}

	logger.Info("extracted resources",
		"overlay", isOverlay, "archives", stats.Archives, "written", stats.Written,
		"converted", stats.Converted, "skipped", stats.Skipped, "in_place", stats.InPlace)

	return stats, nil
}

// handledResources drops unhandled content from paths.
func handledResources(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, rel := range paths {
		if Classify(rel) == KindUnhandled {
			continue
		}

		out = append(out, rel)
	}

	return out
}

// stats snapshots the counters.
func (e *extractor) stats(resources int) ExtractStats {
	return ExtractStats{
		Resources: int64(resources),
		Archives:  e.archives.Load(),
		Written:   e.written.Load(),
		Converted: e.converted.Load(),
		Skipped:   e.skipped.Load(),
		InPlace:   e.inPlace.Load(),
	}
}

// processSource handles every resource of src in order.
func (e *extractor) processSource(ctx context.Context, src FileSource) error {
	paths, err := src.ListFiles()
	if err != nil {
		return err
	}

	for _, rel := range handledResources(paths) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.processResource(ctx, src, rel); err != nil {
			return err
		}
	}

	return nil
}

// processResource expands one pack archive or writes one terminal resource.
func (e *extractor) processResource(ctx context.Context, src FileSource, rel string) error {
	clean := NormalizePath(rel)
	if clean == "" {
		return fmt.Errorf("%w: %q", ErrInvalidResourcePath, rel)
	}

	kind := Classify(clean)
	if kind == KindUnhandled {
		logger.Debug("unhandled content", "path", clean)
		return nil
	}

	data, err := ReadDecompressed(src, rel)
	if err != nil {
		return err
	}

	if kind == KindArchive {
		archive, err := sarc.Parse(data)
		if err != nil {
			return fmt.Errorf("open archive %s: %w", rel, err)
		}

		e.archives.Add(1)
		logger.Debug("expanding archive", "path", clean,
			"members", len(archive.Members()), "byte_order", archive.ByteOrder())
		if err := e.processSource(ctx, NewArchiveSource(archive)); err != nil {
			return fmt.Errorf("%s: %w", clean, err)
		}
		return nil
	}

	conv := SniffConversion(StripCompressionMarker(clean), data)
	destRel := DestinationPath(clean, conv, e.overlay)
	destPath := filepath.Join(e.destDir, filepath.FromSlash(destRel))

	if fsutil.IsFile(destPath) {
		e.skipped.Add(1)
		logger.Debug("destination exists", "path", destRel)
		return nil
	}

	if sarc.IsArchive(data) {
		return e.extractInPlace(ctx, clean, data, destPath)
	}

	out := data
	if conv != ConversionNone {
		if out, err = convertToText(conv, data); err != nil {
			return fmt.Errorf("convert %s: %w", clean, err)
		}
	}

	written, err := fsutil.WriteFileIfAbsent(destPath, out)
	if err != nil {
		return fmt.Errorf("write %s: %w", destRel, err)
	}
	if !written {
		e.skipped.Add(1)
		return nil
	}

	e.written.Add(1)
	if conv != ConversionNone {
		e.converted.Add(1)
	}
	logger.Debug("wrote resource", "path", destRel, "conversion", conv)

	return nil
}

// extractInPlace writes archive members below a directory named after destPath.
func (e *extractor) extractInPlace(ctx context.Context, rel string, data []byte, destPath string) error {
	archive, err := sarc.Parse(data)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", rel, err)
	}

	err = archive.ExtractToDir(ctx, destPath, sarc.ExtractOptions{
		MaxWorkers: 1,
		OnMemberDone: func(_ sarc.Member, _ string, written bool) {
			if written {
				e.written.Add(1)
			} else {
				e.skipped.Add(1)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("extract %s: %w", rel, err)
	}

	e.inPlace.Add(1)
	logger.Debug("extracted archive in place", "path", rel, "members", len(archive.Members()))

	return nil
}

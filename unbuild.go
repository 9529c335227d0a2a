// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/rombuilder/internal/fsutil"
	"github.com/woozymasta/rombuilder/internal/logger"
)

// Unbuild converts a ROM directory into an editable source tree. Passes run
// strictly in order: base extraction, overlay extraction and reconciliation
// (when AocDir is set), message tables, map units and post-processors.
// Re-running over a partially populated destination finishes the work without
// rewriting existing outputs.
func Unbuild(ctx context.Context, opts Options) error {
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return err
	}

	if err := requireDir(opts.SrcDir); err != nil {
		return err
	}
	if opts.AocDir != "" {
		if err := requireDir(opts.AocDir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(opts.DestDir, fsutil.DirPerm); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	start := time.Now()
	logger.Info("unbuilding", "src", opts.SrcDir, "dest", opts.DestDir,
		"platform", opts.Platform, "aoc", opts.AocDir, "workers", opts.MaxWorkers)

	if _, err := unbuildResources(ctx, opts.SrcDir, opts.DestDir, false, opts.MaxWorkers); err != nil {
		return fmt.Errorf("extract base resources: %w", err)
	}

	if opts.AocDir != "" {
		if _, err := unbuildResources(ctx, opts.AocDir, opts.DestDir, true, opts.MaxWorkers); err != nil {
			return fmt.Errorf("extract overlay resources: %w", err)
		}
		stats, err := RemoveUnneededAocSuffixes(opts.DestDir)
		if err != nil {
			return fmt.Errorf("reconcile overlay: %w", err)
		}
		if stats.Differing > 0 {
			logger.AddSummaryWarn("overlay resources differ from base and keep the .aoc marker", "count", stats.Differing)
		}
	}

	if opts.SkipMessages {
		logger.Info("message tables disabled")
	} else if err := ConvertMessages(ctx, opts.DestDir, opts.MessageConverter); err != nil {
		return fmt.Errorf("convert messages: %w", err)
	}

	if err := ProcessMapUnits(ctx, opts.DestDir, opts.MaxWorkers); err != nil {
		return fmt.Errorf("process map units: %w", err)
	}

	env := PostProcessEnv{
		DestDir:                opts.DestDir,
		Platform:               opts.Platform,
		OtherPlatformActorInfo: opts.OtherPlatformActorInfo,
	}
	for _, stage := range opts.PostProcessors {
		if stage.Run == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Debug("running post-processor", "stage", stage.Name)
		if err := stage.Run(ctx, env); err != nil {
			return fmt.Errorf("post-process %s: %w", stage.Name, err)
		}
	}

	logger.Info("unbuild finished", "dest", opts.DestDir, "duration", time.Since(start).Round(time.Millisecond))

	return nil
}

// requireDir fails with ErrMissingSourceDir unless dir is a directory.
func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingSourceDir, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrMissingSourceDir, dir)
	}

	return nil
}

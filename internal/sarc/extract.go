// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package sarc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/rombuilder/internal/fsutil"
)

// ExtractOptions configures ExtractToDir behavior.
type ExtractOptions struct {
	// OnMemberDone is called after one member is handled; written is false when skipped.
	OnMemberDone func(member Member, outputPath string, written bool) `json:"-" yaml:"-"`
	// MaxWorkers is number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
}

// ExtractToDir writes every member to dstDir, preserving member paths.
// Existing files are left untouched.
// All member names are validated before anything is written. Members are
// written by up to MaxWorkers goroutines and the first error stops the rest.
func (a *Archive) ExtractToDir(ctx context.Context, dstDir string, opts ExtractOptions) error {
	if a == nil {
		return ErrInvalidHeader
	}
	opts.applyDefaults()

	outputs := make([]string, len(a.members))
	for i, member := range a.members {
		rel, err := NormalizeMemberPath(member.Name)
		if err != nil {
			return fmt.Errorf("member %q: %w", member.Name, err)
		}
		outputs[i] = filepath.Join(dstDir, filepath.FromSlash(rel))
	}
	if len(outputs) == 0 {
		return nil
	}

	if err := os.MkdirAll(dstDir, fsutil.DirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.MaxWorkers)
	for i := range a.members {
		if ctx.Err() != nil {
			break
		}

		member, out := a.members[i], outputs[i]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.writeMember(member, out, opts)
		})
	}

	return eg.Wait()
}

// writeMember stores one member payload at out unless a file already exists there.
func (a *Archive) writeMember(member Member, out string, opts ExtractOptions) error {
	payload := a.data[member.Offset : member.Offset+member.Size]

	written, err := fsutil.WriteFileIfAbsent(out, payload)
	if err != nil {
		return fmt.Errorf("extract %s: %w", member.Name, err)
	}

	if opts.OnMemberDone != nil {
		opts.OnMemberDone(member, out, written)
	}

	return nil
}

// NormalizeMemberPath converts a member name to a clean relative slash path.
// Absolute names, drive prefixes, NUL bytes and ".." segments are rejected
// with ErrInvalidExtractPath.
func NormalizeMemberPath(name string) (string, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	switch {
	case raw == "", strings.IndexByte(raw, 0) >= 0:
		return "", ErrInvalidExtractPath
	case raw[0] == '/', hasDrivePrefix(raw):
		return "", ErrInvalidExtractPath
	}

	var b strings.Builder
	for _, segment := range strings.Split(raw, "/") {
		if segment == "" || segment == "." {
			continue
		}
		if segment == ".." {
			return "", ErrInvalidExtractPath
		}
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(segment)
	}
	if b.Len() == 0 {
		return "", ErrInvalidExtractPath
	}

	return b.String(), nil
}

// hasDrivePrefix reports whether p starts with a drive root such as "C:/".
func hasDrivePrefix(p string) bool {
	if len(p) < 3 || p[1] != ':' || p[2] != '/' {
		return false
	}

	c := p[0] | 0x20
	return c >= 'a' && c <= 'z'
}

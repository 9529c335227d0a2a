// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/woozymasta/rombuilder/internal/sarc"
)

// FileSource enumerates and reads resources under one root.
// Paths are relative and slash-separated.
type FileSource interface {
	// ListFiles returns every non-directory entry beneath the root.
	ListFiles() ([]string, error)
	// ReadFile returns the full content of rel.
	ReadFile(rel string) ([]byte, error)
}

// ReadDecompressed reads rel from src and applies Yaz0 decompression
// when its extension carries the compression marker.
func ReadDecompressed(src FileSource, rel string) ([]byte, error) {
	data, err := src.ReadFile(rel)
	if err != nil {
		return nil, err
	}

	return decompressIfMarked(rel, data)
}

// DirSource is a FileSource over a host directory tree.
type DirSource struct {
	root string
}

// NewDirSource returns a source rooted at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Root returns the host directory.
func (s *DirSource) Root() string {
	return s.root
}

// ListFiles walks the tree in lexical order.
func (s *DirSource) ListFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}

	return files, nil
}

// ReadFile reads rel from the host directory.
func (s *DirSource) ReadFile(rel string) ([]byte, error) {
	clean := NormalizePath(rel)
	if clean == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourcePath, rel)
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, rel, err)
		}
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	return data, nil
}

// ArchiveSource is a FileSource over a decoded SARC archive.
type ArchiveSource struct {
	archive *sarc.Archive
}

// NewArchiveSource returns a source over archive members.
func NewArchiveSource(archive *sarc.Archive) *ArchiveSource {
	return &ArchiveSource{archive: archive}
}

// ListFiles returns member names in table order.
func (s *ArchiveSource) ListFiles() ([]string, error) {
	return s.archive.ListFiles(), nil
}

// ReadFile returns the member payload. The slice aliases archive data.
func (s *ArchiveSource) ReadFile(rel string) ([]byte, error) {
	data, err := s.archive.ReadFile(rel)
	if err != nil {
		if errors.Is(err, sarc.ErrMemberNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, rel, err)
		}
		return nil, err
	}

	return data, nil
}

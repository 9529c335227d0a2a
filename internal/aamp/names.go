// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package aamp

import (
	"hash/crc32"
	"strconv"
)

// commonNames seeds the name table with structural keys present in most archives.
var commonNames = []string{
	"param_root",
	"Elements",
	"Children",
	"Name",
	"Type",
	"Value",
	"Params",
	"Param",
	"Ref",
}

// NameTable resolves CRC32 hashes back to names.
type NameTable struct {
	names map[uint32]string
}

// NewNameTable returns a table seeded with common names and extra.
func NewNameTable(extra ...map[uint32]string) *NameTable {
	t := &NameTable{names: make(map[uint32]string, len(commonNames))}
	for _, name := range commonNames {
		t.Add(name)
	}
	for _, m := range extra {
		for h, name := range m {
			t.names[h] = name
		}
	}

	return t
}

// Add registers name under its CRC32.
func (t *NameTable) Add(name string) {
	t.names[crc32.ChecksumIEEE([]byte(name))] = name
}

// Lookup returns the name for hash.
func (t *NameTable) Lookup(hash uint32) (string, bool) {
	name, ok := t.names[hash]
	return name, ok
}

// LookupChild resolves hash as a known name, or as a numbered child of parent
// ("<parent>0" or "<parent>_0") for index below limit.
func (t *NameTable) LookupChild(hash uint32, parent string, limit int) (string, bool) {
	if name, ok := t.Lookup(hash); ok {
		return name, true
	}
	if parent == "" {
		return "", false
	}

	for i := 0; i < limit; i++ {
		idx := strconv.Itoa(i)
		for _, candidate := range []string{parent + idx, parent + "_" + idx} {
			if crc32.ChecksumIEEE([]byte(candidate)) == hash {
				t.names[hash] = candidate
				return candidate, true
			}
		}
	}

	return "", false
}

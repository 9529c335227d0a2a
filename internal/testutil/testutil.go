// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

// Package testutil builds binary fixtures for tests. Builders emit the
// minimal valid layout each reader accepts; they are not production encoders.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Yaz0Store wraps data in a Yaz0 block made only of literal groups.
func Yaz0Store(data []byte) []byte {
	out := make([]byte, 0x10, 0x10+len(data)+len(data)/8+1)
	copy(out, "Yaz0")
	binary.BigEndian.PutUint32(out[4:8], uint32(len(data)))

	for i := 0; i < len(data); i += 8 {
		end := min(i+8, len(data))
		out = append(out, 0xff)
		out = append(out, data[i:end]...)
	}

	return out
}

// File is one named payload.
type File struct {
	Name string
	Data []byte
}

// SARC builds a SARC archive with members in the given order.
func SARC(files []File, bigEndian bool) []byte {
	var order binary.ByteOrder = binary.LittleEndian
	bom := []byte{0xff, 0xfe}
	if bigEndian {
		order = binary.BigEndian
		bom = []byte{0xfe, 0xff}
	}

	// Name table.
	var names []byte
	nameOffsets := make([]int, len(files))
	for i, f := range files {
		nameOffsets[i] = len(names)
		names = append(names, f.Name...)
		names = append(names, 0)
		for len(names)%4 != 0 {
			names = append(names, 0)
		}
	}

	fatSize := 0x0c + 0x10*len(files)
	fntSize := 0x08 + len(names)
	dataOffset := align(0x14+fatSize+fntSize, 0x10)

	var payload []byte
	ranges := make([][2]int, len(files))
	for i, f := range files {
		for len(payload)%4 != 0 {
			payload = append(payload, 0)
		}
		ranges[i] = [2]int{len(payload), len(payload) + len(f.Data)}
		payload = append(payload, f.Data...)
	}

	out := make([]byte, dataOffset+len(payload))
	copy(out[0:4], "SARC")
	order.PutUint16(out[4:6], 0x14)
	copy(out[6:8], bom)
	order.PutUint32(out[8:12], uint32(len(out)))
	order.PutUint32(out[12:16], uint32(dataOffset))
	order.PutUint16(out[16:18], 0x0100)

	fat := out[0x14:]
	copy(fat[0:4], "SFAT")
	order.PutUint16(fat[4:6], 0x0c)
	order.PutUint16(fat[6:8], uint16(len(files)))
	order.PutUint32(fat[8:12], 0x65)
	for i, f := range files {
		node := fat[0x0c+i*0x10:]
		order.PutUint32(node[0:4], nameHash(f.Name))
		order.PutUint32(node[4:8], 0x01000000|uint32(nameOffsets[i]/4))
		order.PutUint32(node[8:12], uint32(ranges[i][0]))
		order.PutUint32(node[12:16], uint32(ranges[i][1]))
	}

	fnt := out[0x14+fatSize:]
	copy(fnt[0:4], "SFNT")
	order.PutUint16(fnt[4:6], 0x08)
	copy(fnt[8:], names)

	copy(out[dataOffset:], payload)
	return out
}

// nameHash mirrors the SFAT name hash with key 0x65.
func nameHash(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*0x65 + uint32(int32(int8(name[i])))
	}

	return h
}

// align rounds n up to a multiple of a.
func align(n int, a int) int {
	return (n + a - 1) / a * a
}

// WriteTree writes files below root, creating directories; names use forward slashes.
func WriteTree(t testing.TB, root string, files map[string][]byte) {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// ReadTree returns every regular file below root keyed by slash-separated relative path.
func ReadTree(t testing.TB, root string) map[string][]byte {
	t.Helper()

	out := make(map[string][]byte)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		t.Fatalf("read tree %s: %v", root, err)
	}

	return out
}

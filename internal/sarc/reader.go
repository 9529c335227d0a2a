// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

// Package sarc reads SARC archives: a flat table of named byte blobs.
package sarc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Internal binary layout.
const (
	headerSize     = 0x14 // fixed SARC header size in bytes
	fatHeaderSize  = 0x0c // SFAT section header size
	fatNodeSize    = 0x10 // one SFAT node
	fntHeaderSize  = 0x08 // SFNT section header size
	nameFlag       = 0x01000000
	nameOffsetMask = 0x0000ffff
	// DefaultHashKey is the multiplier used by SFAT name hashes.
	DefaultHashKey = 0x65
)

// Magic is the 4-byte SARC signature.
var Magic = []byte("SARC")

// Member describes a single archive member.
type Member struct {
	// Name is the member path as stored in the name table.
	Name string `json:"name" yaml:"name"`
	// Hash is the SFAT name hash.
	Hash uint32 `json:"hash" yaml:"hash"`
	// Offset is the absolute payload offset inside archive data.
	Offset uint32 `json:"offset" yaml:"offset"`
	// Size is payload size in bytes.
	Size uint32 `json:"size" yaml:"size"`
}

// Archive provides read-only access to a parsed in-memory SARC.
type Archive struct {
	// data is the full archive image; member payloads alias it.
	data []byte
	// order is the byte order declared by the BOM.
	order binary.ByteOrder
	// members are kept in table order.
	members []Member
	// byName indexes members by name.
	byName map[string]int
	// hashKey is the SFAT hash multiplier.
	hashKey uint32
}

// IsArchive reports whether data starts with the SARC signature.
func IsArchive(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], Magic)
}

// Parse parses an in-memory SARC image. The returned archive aliases data.
func Parse(data []byte) (*Archive, error) {
	if len(data) < headerSize || !IsArchive(data) {
		return nil, ErrInvalidHeader
	}

	order, err := byteOrder(data[6:8])
	if err != nil {
		return nil, err
	}

	if order.Uint16(data[4:6]) != headerSize {
		return nil, fmt.Errorf("%w: header size %d", ErrInvalidHeader, order.Uint16(data[4:6]))
	}

	dataOffset := order.Uint32(data[12:16])
	if int64(dataOffset) > int64(len(data)) {
		return nil, fmt.Errorf("%w: data offset %d beyond end", ErrInvalidHeader, dataOffset)
	}

	a := &Archive{data: data, order: order}
	nodes, fntOffset, err := a.parseFAT(headerSize)
	if err != nil {
		return nil, err
	}

	if err := a.resolveMembers(nodes, fntOffset, dataOffset); err != nil {
		return nil, err
	}

	return a, nil
}

// byteOrder decodes the byte order mark.
func byteOrder(bom []byte) (binary.ByteOrder, error) {
	switch {
	case bom[0] == 0xfe && bom[1] == 0xff:
		return binary.BigEndian, nil
	case bom[0] == 0xff && bom[1] == 0xfe:
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("%w: % x", ErrInvalidByteOrder, bom)
	}
}

// fatNode is one raw SFAT record.
type fatNode struct {
	hash  uint32
	attrs uint32
	begin uint32
	end   uint32
}

// parseFAT reads SFAT nodes and returns them with the SFNT section offset.
func (a *Archive) parseFAT(off int) ([]fatNode, int, error) {
	if off+fatHeaderSize > len(a.data) || !bytes.Equal(a.data[off:off+4], []byte("SFAT")) {
		return nil, 0, ErrInvalidFAT
	}

	count := int(a.order.Uint16(a.data[off+6 : off+8]))
	a.hashKey = a.order.Uint32(a.data[off+8 : off+12])

	nodesStart := off + fatHeaderSize
	nodesEnd := nodesStart + count*fatNodeSize
	if nodesEnd > len(a.data) {
		return nil, 0, fmt.Errorf("%w: %d nodes overflow archive", ErrInvalidFAT, count)
	}

	nodes := make([]fatNode, count)
	for i := range nodes {
		raw := a.data[nodesStart+i*fatNodeSize : nodesStart+(i+1)*fatNodeSize]
		nodes[i] = fatNode{
			hash:  a.order.Uint32(raw[0:4]),
			attrs: a.order.Uint32(raw[4:8]),
			begin: a.order.Uint32(raw[8:12]),
			end:   a.order.Uint32(raw[12:16]),
		}
	}

	return nodes, nodesEnd, nil
}

// resolveMembers decodes member names from SFNT and converts node ranges to absolute offsets.
func (a *Archive) resolveMembers(nodes []fatNode, fntOffset int, dataOffset uint32) error {
	if fntOffset+fntHeaderSize > len(a.data) || !bytes.Equal(a.data[fntOffset:fntOffset+4], []byte("SFNT")) {
		return ErrInvalidFNT
	}

	namesStart := fntOffset + fntHeaderSize
	a.members = make([]Member, 0, len(nodes))
	a.byName = make(map[string]int, len(nodes))
	for i, node := range nodes {
		if node.end < node.begin || uint64(dataOffset)+uint64(node.end) > uint64(len(a.data)) {
			return fmt.Errorf("%w: node %d range [%d, %d)", ErrMemberOutOfBounds, i, node.begin, node.end)
		}

		name := fmt.Sprintf("_%08x", node.hash)
		if node.attrs&nameFlag != 0 {
			stored, err := readCString(a.data, namesStart+int(node.attrs&nameOffsetMask)*4)
			if err != nil {
				return fmt.Errorf("%w: node %d: %w", ErrInvalidFNT, i, err)
			}
			name = stored
		}

		a.byName[name] = len(a.members)
		a.members = append(a.members, Member{
			Name:   name,
			Hash:   node.hash,
			Offset: dataOffset + node.begin,
			Size:   node.end - node.begin,
		})
	}

	return nil
}

// readCString reads a NUL-terminated string at offset.
func readCString(data []byte, offset int) (string, error) {
	if offset < 0 || offset >= len(data) {
		return "", fmt.Errorf("name offset %d out of range", offset)
	}

	idx := bytes.IndexByte(data[offset:], 0)
	if idx < 0 {
		return "", fmt.Errorf("unterminated name at %d", offset)
	}

	return string(data[offset : offset+idx]), nil
}

// Members returns a copy of parsed members in table order.
func (a *Archive) Members() []Member {
	if a == nil {
		return nil
	}

	members := make([]Member, len(a.members))
	copy(members, a.members)
	return members
}

// ListFiles returns member names in table order.
func (a *Archive) ListFiles() []string {
	if a == nil {
		return nil
	}

	names := make([]string, len(a.members))
	for i := range a.members {
		names[i] = a.members[i].Name
	}

	return names
}

// ReadFile returns the payload of the named member. The slice aliases archive data.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}

	idx, ok := a.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}

	m := a.members[idx]
	return a.data[m.Offset : m.Offset+m.Size], nil
}

// ByteOrder returns the byte order declared by the archive.
func (a *Archive) ByteOrder() binary.ByteOrder {
	return a.order
}

// NameHash computes the SFAT hash for a member name.
func NameHash(name string, key uint32) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*key + uint32(int32(int8(name[i])))
	}

	return h
}

// HashKey returns the SFAT hash multiplier stored in the archive.
func (a *Archive) HashKey() uint32 {
	return a.hashKey
}

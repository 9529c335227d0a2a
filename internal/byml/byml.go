// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

/*
Package byml parses BYML (binary YAML) documents into plain Go values.

Node types map to Go types as follows:

	string  -> string
	binary  -> []byte
	array   -> []any
	hash    -> *Dict (key order as stored)
	bool    -> bool
	int     -> int32
	float   -> float32
	uint    -> uint32
	int64   -> int64
	uint64  -> uint64
	double  -> float64
	null    -> nil

Width-specific Go types are kept so that text dumps can round-trip the
original node types.
*/
package byml

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Node type markers.
const (
	NodeString      byte = 0xa0
	NodeBinary      byte = 0xa1
	NodeArray       byte = 0xc0
	NodeHash        byte = 0xc1
	NodeStringTable byte = 0xc2
	NodeBool        byte = 0xd0
	NodeInt         byte = 0xd1
	NodeFloat       byte = 0xd2
	NodeUInt        byte = 0xd3
	NodeInt64       byte = 0xd4
	NodeUInt64      byte = 0xd5
	NodeDouble      byte = 0xd6
	NodeNull        byte = 0xff
)

// headerSize is the BYML v2+ header size in bytes.
const headerSize = 0x10

// Sentinel errors for BYML parsing. Use errors.Is in callers.
var (
	// ErrInvalidHeader means data is missing or has a bad BYML header.
	ErrInvalidHeader = errors.New("invalid BYML data: missing or bad header")
	// ErrUnsupportedVersion means the BYML version is outside the supported range.
	ErrUnsupportedVersion = errors.New("unsupported BYML version")
	// ErrUnsupportedNode means a node type is unknown or not allowed at its position.
	ErrUnsupportedNode = errors.New("unsupported BYML node type")
	// ErrOutOfBounds means an offset or index points outside the document.
	ErrOutOfBounds = errors.New("BYML offset out of bounds")
)

// Document is a parsed BYML file.
type Document struct {
	// Root is the root node value (nil for an empty document).
	Root any
	// Version is the BYML format version.
	Version uint16
	// BigEndian reports the document byte order.
	BigEndian bool
}

// parser holds state for one Parse call.
type parser struct {
	data    []byte
	order   binary.ByteOrder
	keys    []string
	strings []string
	depth   int
}

// maxDepth bounds container nesting to reject self-referencing documents.
const maxDepth = 256

// IsBYML reports whether data starts with a BYML signature of any version.
func IsBYML(data []byte) bool {
	if len(data) < 4 {
		return false
	}

	return (data[0] == 'B' && data[1] == 'Y') || (data[0] == 'Y' && data[1] == 'B')
}

// Parse parses a BYML v2/v3 document.
func Parse(data []byte) (*Document, error) {
	if len(data) < headerSize || !IsBYML(data) {
		return nil, ErrInvalidHeader
	}

	p := &parser{data: data, order: binary.LittleEndian}
	doc := &Document{}
	if data[0] == 'B' {
		p.order = binary.BigEndian
		doc.BigEndian = true
	}

	doc.Version = p.order.Uint16(data[2:4])
	if doc.Version < 2 || doc.Version > 3 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	var err error
	if p.keys, err = p.parseStringTable(p.order.Uint32(data[4:8])); err != nil {
		return nil, fmt.Errorf("key table: %w", err)
	}
	if p.strings, err = p.parseStringTable(p.order.Uint32(data[8:12])); err != nil {
		return nil, fmt.Errorf("string table: %w", err)
	}

	rootOffset := p.order.Uint32(data[12:16])
	if rootOffset == 0 {
		return doc, nil
	}

	if err := p.check(int64(rootOffset), 1); err != nil {
		return nil, err
	}

	rootType := data[rootOffset]
	if rootType != NodeArray && rootType != NodeHash {
		return nil, fmt.Errorf("%w: root type 0x%02x", ErrUnsupportedNode, rootType)
	}

	if doc.Root, err = p.parseContainer(rootType, rootOffset); err != nil {
		return nil, err
	}

	return doc, nil
}

// ParseRoot parses data and returns only the root node.
func ParseRoot(data []byte) (any, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return doc.Root, nil
}

// check validates that [off, off+n) lies within data.
func (p *parser) check(off int64, n int64) error {
	if off < 0 || n < 0 || off+n > int64(len(p.data)) {
		return fmt.Errorf("%w: [%d, %d)", ErrOutOfBounds, off, off+n)
	}

	return nil
}

// nodeHeader reads type and 24-bit count of a container node.
func (p *parser) nodeHeader(off uint32) (byte, int, error) {
	if err := p.check(int64(off), 4); err != nil {
		return 0, 0, err
	}

	b := p.data[off : off+4]
	var count uint32
	if p.order == binary.BigEndian {
		count = uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	} else {
		count = uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16
	}

	return b[0], int(count), nil
}

// parseStringTable parses a string table node; offset zero means no table.
func (p *parser) parseStringTable(off uint32) ([]string, error) {
	if off == 0 {
		return nil, nil
	}

	typ, count, err := p.nodeHeader(off)
	if err != nil {
		return nil, err
	}
	if typ != NodeStringTable {
		return nil, fmt.Errorf("%w: expected string table, got 0x%02x", ErrUnsupportedNode, typ)
	}

	if err := p.check(int64(off)+4, int64(count+1)*4); err != nil {
		return nil, err
	}

	out := make([]string, count)
	for i := 0; i < count; i++ {
		start := int64(off) + int64(p.order.Uint32(p.data[int(off)+4+i*4:]))
		end := start
		for {
			if err := p.check(end, 1); err != nil {
				return nil, err
			}
			if p.data[end] == 0 {
				break
			}
			end++
		}
		out[i] = string(p.data[start:end])
	}

	return out, nil
}

// parseContainer parses an array or hash node at off.
func (p *parser) parseContainer(typ byte, off uint32) (any, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrOutOfBounds, maxDepth)
	}

	nodeType, count, err := p.nodeHeader(off)
	if err != nil {
		return nil, err
	}
	if nodeType != typ {
		return nil, fmt.Errorf("%w: expected 0x%02x at %d, got 0x%02x", ErrUnsupportedNode, typ, off, nodeType)
	}

	if typ == NodeArray {
		return p.parseArray(off, count)
	}

	return p.parseHash(off, count)
}

// parseArray parses array entries: type bytes, padding, then 4-byte values.
func (p *parser) parseArray(off uint32, count int) ([]any, error) {
	typesStart := int64(off) + 4
	valuesStart := typesStart + int64(align4(count))
	if err := p.check(valuesStart, int64(count)*4); err != nil {
		return nil, err
	}

	out := make([]any, count)
	for i := 0; i < count; i++ {
		typ := p.data[typesStart+int64(i)]
		raw := p.order.Uint32(p.data[valuesStart+int64(i)*4:])
		v, err := p.parseValue(typ, raw)
		if err != nil {
			return nil, fmt.Errorf("array at %d item %d: %w", off, i, err)
		}
		out[i] = v
	}

	return out, nil
}

// parseHash parses hash entries: 24-bit key index, type byte, 4-byte value.
func (p *parser) parseHash(off uint32, count int) (*Dict, error) {
	entriesStart := int64(off) + 4
	if err := p.check(entriesStart, int64(count)*8); err != nil {
		return nil, err
	}

	d := NewDict()
	for i := 0; i < count; i++ {
		e := p.data[entriesStart+int64(i)*8:]
		var keyIdx uint32
		if p.order == binary.BigEndian {
			keyIdx = uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2])
		} else {
			keyIdx = uint32(e[0]) | uint32(e[1])<<8 | uint32(e[2])<<16
		}
		typ := e[3]

		if int(keyIdx) >= len(p.keys) {
			return nil, fmt.Errorf("%w: key index %d", ErrOutOfBounds, keyIdx)
		}
		key := p.keys[keyIdx]

		v, err := p.parseValue(typ, p.order.Uint32(e[4:8]))
		if err != nil {
			return nil, fmt.Errorf("hash at %d key %q: %w", off, key, err)
		}
		d.Set(key, v)
	}

	return d, nil
}

// parseValue decodes one value slot.
func (p *parser) parseValue(typ byte, raw uint32) (any, error) {
	switch typ {
	case NodeString:
		if int(raw) >= len(p.strings) {
			return nil, fmt.Errorf("%w: string index %d", ErrOutOfBounds, raw)
		}
		return p.strings[raw], nil
	case NodeBinary:
		if err := p.check(int64(raw), 4); err != nil {
			return nil, err
		}
		size := int64(p.order.Uint32(p.data[raw:]))
		if err := p.check(int64(raw)+4, size); err != nil {
			return nil, err
		}
		out := make([]byte, size)
		copy(out, p.data[int64(raw)+4:int64(raw)+4+size])
		return out, nil
	case NodeArray, NodeHash:
		return p.parseContainer(typ, raw)
	case NodeBool:
		return raw != 0, nil
	case NodeInt:
		return int32(raw), nil
	case NodeFloat:
		return math.Float32frombits(raw), nil
	case NodeUInt:
		return raw, nil
	case NodeInt64, NodeUInt64, NodeDouble:
		if err := p.check(int64(raw), 8); err != nil {
			return nil, err
		}
		bits := p.order.Uint64(p.data[raw:])
		switch typ {
		case NodeInt64:
			return int64(bits), nil
		case NodeUInt64:
			return bits, nil
		default:
			return math.Float64frombits(bits), nil
		}
	case NodeNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedNode, typ)
	}
}

// align4 rounds n up to a multiple of four.
func align4(n int) int {
	return (n + 3) &^ 3
}

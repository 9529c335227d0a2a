// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

// Package aamp parses AAMP parameter archives (little-endian, version 2).
package aamp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
)

// Internal binary layout.
const (
	headerSize     = 0x30
	listSize       = 0x0c
	objectSize     = 0x08
	parameterSize  = 0x08
	flagLittleEnd  = 1 << 0
	supportedVer   = 2
	maxDepth       = 128
	curveSize      = 0x80
	curveFloatSize = 30
)

// Magic is the 4-byte AAMP signature.
var Magic = []byte("AAMP")

// Sentinel errors for AAMP parsing. Use errors.Is in callers.
var (
	// ErrInvalidHeader means data is missing or has a bad AAMP header.
	ErrInvalidHeader = errors.New("invalid AAMP data: missing or bad header")
	// ErrUnsupportedVersion means the archive version is not 2.
	ErrUnsupportedVersion = errors.New("unsupported AAMP version")
	// ErrUnsupportedByteOrder means the archive is not little endian.
	ErrUnsupportedByteOrder = errors.New("unsupported AAMP byte order")
	// ErrUnsupportedType means a parameter type is unknown.
	ErrUnsupportedType = errors.New("unsupported AAMP parameter type")
	// ErrOutOfBounds means an offset points outside the archive.
	ErrOutOfBounds = errors.New("AAMP offset out of bounds")
)

// ParamType is the one-byte parameter type tag.
type ParamType byte

// Parameter type tags.
const (
	TypeBool ParamType = iota
	TypeF32
	TypeInt
	TypeVec2
	TypeVec3
	TypeVec4
	TypeColor
	TypeString32
	TypeString64
	TypeCurve1
	TypeCurve2
	TypeCurve3
	TypeCurve4
	TypeBufferInt
	TypeBufferF32
	TypeString256
	TypeQuat
	TypeU32
	TypeBufferU32
	TypeBufferBinary
	TypeStringRef
)

// Parameter is one typed value.
type Parameter struct {
	// Value holds the decoded value; see Type for its Go shape.
	Value any
	// Hash is the CRC32 of the parameter name.
	Hash uint32
	// Type is the stored type tag.
	Type ParamType
}

// Object is a named group of parameters, in stored order.
type Object struct {
	Params []Parameter
	Hash   uint32
}

// List is a named group of child lists and objects, in stored order.
type List struct {
	Lists   []List
	Objects []Object
	Hash    uint32
}

// ParameterIO is a parsed archive.
type ParameterIO struct {
	// Root is the top-level list ("param_root").
	Root List
	// Type is the data type string stored after the header (usually "xml").
	Type string
	// Version is the parameter IO version.
	Version uint32
}

// ReaderOptions configures parsing.
type ReaderOptions struct {
	// TrackStrings records every string value seen so names can be resolved from them.
	TrackStrings bool
}

// Reader parses one archive and optionally tracks string values.
type Reader struct {
	data    []byte
	opts    ReaderOptions
	strings map[uint32]string
	depth   int
}

// NewReader returns a reader over data.
func NewReader(data []byte, opts ReaderOptions) *Reader {
	return &Reader{data: data, opts: opts, strings: make(map[uint32]string)}
}

// IsAAMP reports whether data starts with the AAMP signature.
func IsAAMP(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], Magic)
}

// Parse parses data with default options.
func Parse(data []byte) (*ParameterIO, error) {
	return NewReader(data, ReaderOptions{}).Parse()
}

// Parse decodes the archive.
func (r *Reader) Parse() (*ParameterIO, error) {
	if len(r.data) < headerSize || !IsAAMP(r.data) {
		return nil, ErrInvalidHeader
	}

	le := binary.LittleEndian
	if v := le.Uint32(r.data[4:8]); v != supportedVer {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	if le.Uint32(r.data[8:12])&flagLittleEnd == 0 {
		return nil, ErrUnsupportedByteOrder
	}

	pio := &ParameterIO{Version: le.Uint32(r.data[0x10:0x14])}
	typ, err := r.cString(headerSize)
	if err != nil {
		return nil, fmt.Errorf("read type: %w", err)
	}
	pio.Type = typ

	rootOffset := int64(headerSize) + int64(le.Uint32(r.data[0x14:0x18]))
	if pio.Root, err = r.parseList(rootOffset); err != nil {
		return nil, err
	}

	return pio, nil
}

// TrackedStrings returns string values seen during Parse keyed by their CRC32.
func (r *Reader) TrackedStrings() map[uint32]string {
	out := make(map[uint32]string, len(r.strings))
	for k, v := range r.strings {
		out[k] = v
	}

	return out
}

// check validates that [off, off+n) lies within data.
func (r *Reader) check(off int64, n int64) error {
	if off < 0 || n < 0 || off+n > int64(len(r.data)) {
		return fmt.Errorf("%w: [%d, %d)", ErrOutOfBounds, off, off+n)
	}

	return nil
}

// parseList parses one parameter list and its children.
func (r *Reader) parseList(off int64) (List, error) {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > maxDepth {
		return List{}, fmt.Errorf("%w: nesting deeper than %d", ErrOutOfBounds, maxDepth)
	}

	if err := r.check(off, listSize); err != nil {
		return List{}, err
	}

	le := binary.LittleEndian
	b := r.data[off : off+listSize]
	list := List{Hash: le.Uint32(b[0:4])}
	listsOff := off + int64(le.Uint16(b[4:6]))*4
	numLists := int(le.Uint16(b[6:8]))
	objsOff := off + int64(le.Uint16(b[8:10]))*4
	numObjs := int(le.Uint16(b[10:12]))

	list.Lists = make([]List, 0, numLists)
	for i := 0; i < numLists; i++ {
		child, err := r.parseList(listsOff + int64(i)*listSize)
		if err != nil {
			return List{}, err
		}
		list.Lists = append(list.Lists, child)
	}

	list.Objects = make([]Object, 0, numObjs)
	for i := 0; i < numObjs; i++ {
		obj, err := r.parseObject(objsOff + int64(i)*objectSize)
		if err != nil {
			return List{}, err
		}
		list.Objects = append(list.Objects, obj)
	}

	return list, nil
}

// parseObject parses one parameter object.
func (r *Reader) parseObject(off int64) (Object, error) {
	if err := r.check(off, objectSize); err != nil {
		return Object{}, err
	}

	le := binary.LittleEndian
	b := r.data[off : off+objectSize]
	obj := Object{Hash: le.Uint32(b[0:4])}
	paramsOff := off + int64(le.Uint16(b[4:6]))*4
	numParams := int(le.Uint16(b[6:8]))

	obj.Params = make([]Parameter, 0, numParams)
	for i := 0; i < numParams; i++ {
		param, err := r.parseParameter(paramsOff + int64(i)*parameterSize)
		if err != nil {
			return Object{}, fmt.Errorf("object 0x%08x: %w", obj.Hash, err)
		}
		obj.Params = append(obj.Params, param)
	}

	return obj, nil
}

// parseParameter parses one parameter record and its payload.
func (r *Reader) parseParameter(off int64) (Parameter, error) {
	if err := r.check(off, parameterSize); err != nil {
		return Parameter{}, err
	}

	le := binary.LittleEndian
	b := r.data[off : off+parameterSize]
	p := Parameter{
		Hash: le.Uint32(b[0:4]),
		Type: ParamType(b[7]),
	}
	dataOff := off + int64(uint32(b[4])|uint32(b[5])<<8|uint32(b[6])<<16)*4

	v, err := r.parseValue(p.Type, dataOff)
	if err != nil {
		return Parameter{}, fmt.Errorf("parameter 0x%08x: %w", p.Hash, err)
	}
	p.Value = v

	return p, nil
}

// parseValue decodes a parameter payload at off.
func (r *Reader) parseValue(typ ParamType, off int64) (any, error) {
	switch typ {
	case TypeBool:
		v, err := r.u32(off)
		return v != 0, err
	case TypeF32:
		v, err := r.u32(off)
		return math.Float32frombits(v), err
	case TypeInt:
		v, err := r.u32(off)
		return int32(v), err
	case TypeU32:
		return r.u32(off)
	case TypeVec2:
		return r.floats(off, 2)
	case TypeVec3:
		return r.floats(off, 3)
	case TypeVec4, TypeColor, TypeQuat:
		return r.floats(off, 4)
	case TypeString32, TypeString64, TypeString256, TypeStringRef:
		s, err := r.cString(off)
		if err != nil {
			return nil, err
		}
		if r.opts.TrackStrings {
			r.strings[crc32.ChecksumIEEE([]byte(s))] = s
		}
		return s, nil
	case TypeCurve1, TypeCurve2, TypeCurve3, TypeCurve4:
		n := int(typ-TypeCurve1) + 1
		curves := make([]Curve, n)
		for i := range curves {
			c, err := r.curve(off + int64(i)*curveSize)
			if err != nil {
				return nil, err
			}
			curves[i] = c
		}
		return curves, nil
	case TypeBufferInt, TypeBufferF32, TypeBufferU32, TypeBufferBinary:
		return r.buffer(typ, off)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, typ)
	}
}

// Curve is one stored curve: two header words and 30 floats.
type Curve struct {
	A      uint32
	B      uint32
	Floats []float32
}

// u32 reads one little-endian word.
func (r *Reader) u32(off int64) (uint32, error) {
	if err := r.check(off, 4); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(r.data[off:]), nil
}

// floats reads n consecutive float32 values.
func (r *Reader) floats(off int64, n int) ([]float32, error) {
	if err := r.check(off, int64(n)*4); err != nil {
		return nil, err
	}

	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[off+int64(i)*4:]))
	}

	return out, nil
}

// curve reads one curve record.
func (r *Reader) curve(off int64) (Curve, error) {
	if err := r.check(off, curveSize); err != nil {
		return Curve{}, err
	}

	fl, err := r.floats(off+8, curveFloatSize)
	if err != nil {
		return Curve{}, err
	}

	le := binary.LittleEndian
	return Curve{A: le.Uint32(r.data[off:]), B: le.Uint32(r.data[off+4:]), Floats: fl}, nil
}

// buffer reads a size-prefixed buffer; the element count is stored in the word before off.
func (r *Reader) buffer(typ ParamType, off int64) (any, error) {
	count, err := r.u32(off - 4)
	if err != nil {
		return nil, err
	}

	switch typ {
	case TypeBufferBinary:
		if err := r.check(off, int64(count)); err != nil {
			return nil, err
		}
		out := make([]byte, count)
		copy(out, r.data[off:off+int64(count)])
		return out, nil
	case TypeBufferF32:
		return r.floats(off, int(count))
	}

	if err := r.check(off, int64(count)*4); err != nil {
		return nil, err
	}

	if typ == TypeBufferInt {
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(r.data[off+int64(i)*4:]))
		}
		return out, nil
	}

	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(r.data[off+int64(i)*4:])
	}
	return out, nil
}

// cString reads a NUL-terminated string at off.
func (r *Reader) cString(off int64) (string, error) {
	if err := r.check(off, 1); err != nil {
		return "", err
	}

	idx := bytes.IndexByte(r.data[off:], 0)
	if idx < 0 {
		return "", fmt.Errorf("%w: unterminated string at %d", ErrOutOfBounds, off)
	}

	return string(r.data[off : off+int64(idx)]), nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package testutil

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/woozymasta/rombuilder/internal/aamp"
)

// AAMPParam is one fixture parameter.
type AAMPParam struct {
	Value any
	Name  string
	Type  aamp.ParamType
}

// AAMPObject is one fixture parameter object.
type AAMPObject struct {
	Name   string
	Params []AAMPParam
}

// AAMPList is one fixture parameter list.
type AAMPList struct {
	Name    string
	Lists   []AAMPList
	Objects []AAMPObject
}

// aampWriter accumulates one AAMP v2 archive.
type aampWriter struct {
	buf []byte
}

// AAMP encodes root as a little-endian AAMP v2 archive with type "xml".
func AAMP(root AAMPList) ([]byte, error) {
	w := &aampWriter{buf: make([]byte, 0x30)}
	le := binary.LittleEndian
	copy(w.buf[0:4], "AAMP")
	le.PutUint32(w.buf[4:8], 2)
	le.PutUint32(w.buf[8:12], 3)
	w.buf = append(w.buf, "xml\x00"...)
	le.PutUint32(w.buf[0x14:0x18], 4)

	off := w.reserve(0x0c)
	if err := w.fillList(off, root); err != nil {
		return nil, err
	}

	le.PutUint32(w.buf[0x0c:0x10], uint32(len(w.buf)))
	return w.buf, nil
}

// MustAAMP is AAMP that panics on error.
func MustAAMP(root AAMPList) []byte {
	data, err := AAMP(root)
	if err != nil {
		panic(err)
	}

	return data
}

// reserve appends n zero bytes at a 4-byte boundary and returns their offset.
func (w *aampWriter) reserve(n int) int {
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
	off := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)

	return off
}

// fillList writes list contents for a record reserved at off.
func (w *aampWriter) fillList(off int, list AAMPList) error {
	le := binary.LittleEndian
	le.PutUint32(w.buf[off:], crc32.ChecksumIEEE([]byte(list.Name)))

	listsOff := w.reserve(0x0c * len(list.Lists))
	objsOff := w.reserve(0x08 * len(list.Objects))
	le.PutUint16(w.buf[off+4:], uint16((listsOff-off)/4))
	le.PutUint16(w.buf[off+6:], uint16(len(list.Lists)))
	le.PutUint16(w.buf[off+8:], uint16((objsOff-off)/4))
	le.PutUint16(w.buf[off+10:], uint16(len(list.Objects)))

	for i, child := range list.Lists {
		if err := w.fillList(listsOff+i*0x0c, child); err != nil {
			return err
		}
	}

	for i, obj := range list.Objects {
		if err := w.fillObject(objsOff+i*0x08, obj); err != nil {
			return err
		}
	}

	return nil
}

// fillObject writes object contents for a record reserved at off.
func (w *aampWriter) fillObject(off int, obj AAMPObject) error {
	le := binary.LittleEndian
	le.PutUint32(w.buf[off:], crc32.ChecksumIEEE([]byte(obj.Name)))

	paramsOff := w.reserve(0x08 * len(obj.Params))
	le.PutUint16(w.buf[off+4:], uint16((paramsOff-off)/4))
	le.PutUint16(w.buf[off+6:], uint16(len(obj.Params)))

	for i, p := range obj.Params {
		pOff := paramsOff + i*0x08
		dataOff, err := w.writeValue(p)
		if err != nil {
			return fmt.Errorf("param %s: %w", p.Name, err)
		}
		rel := uint32((dataOff - pOff) / 4)
		le.PutUint32(w.buf[pOff:], crc32.ChecksumIEEE([]byte(p.Name)))
		w.buf[pOff+4], w.buf[pOff+5], w.buf[pOff+6] = byte(rel), byte(rel>>8), byte(rel>>16)
		w.buf[pOff+7] = byte(p.Type)
	}

	return nil
}

// writeValue writes a parameter payload and returns its offset.
func (w *aampWriter) writeValue(p AAMPParam) (int, error) {
	le := binary.LittleEndian
	word := func(v uint32) int {
		off := w.reserve(4)
		le.PutUint32(w.buf[off:], v)
		return off
	}
	words := func(vs []uint32, sized bool) int {
		if sized {
			word(uint32(len(vs)))
		}
		off := w.reserve(4 * len(vs))
		for i, v := range vs {
			le.PutUint32(w.buf[off+i*4:], v)
		}
		return off
	}
	floatWords := func(fs []float32) []uint32 {
		out := make([]uint32, len(fs))
		for i, f := range fs {
			out[i] = math.Float32bits(f)
		}
		return out
	}

	switch p.Type {
	case aamp.TypeBool:
		if p.Value.(bool) {
			return word(1), nil
		}
		return word(0), nil
	case aamp.TypeF32:
		return word(math.Float32bits(p.Value.(float32))), nil
	case aamp.TypeInt:
		return word(uint32(p.Value.(int32))), nil
	case aamp.TypeU32:
		return word(p.Value.(uint32)), nil
	case aamp.TypeVec2, aamp.TypeVec3, aamp.TypeVec4, aamp.TypeColor, aamp.TypeQuat:
		return words(floatWords(p.Value.([]float32)), false), nil
	case aamp.TypeString32, aamp.TypeString64, aamp.TypeString256, aamp.TypeStringRef:
		s := p.Value.(string)
		off := w.reserve(len(s) + 1)
		copy(w.buf[off:], s)
		return off, nil
	case aamp.TypeBufferInt:
		vs := p.Value.([]int32)
		raw := make([]uint32, len(vs))
		for i, v := range vs {
			raw[i] = uint32(v)
		}
		return words(raw, true), nil
	case aamp.TypeBufferF32:
		return words(floatWords(p.Value.([]float32)), true), nil
	case aamp.TypeBufferU32:
		return words(p.Value.([]uint32), true), nil
	case aamp.TypeBufferBinary:
		b := p.Value.([]byte)
		word(uint32(len(b)))
		off := w.reserve(len(b))
		copy(w.buf[off:], b)
		return off, nil
	default:
		return 0, fmt.Errorf("unsupported AAMP fixture type %d", p.Type)
	}
}

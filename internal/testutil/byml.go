// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package testutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/woozymasta/rombuilder/internal/byml"
)

// bymlWriter accumulates one BYML v2 document.
type bymlWriter struct {
	order   binary.ByteOrder
	buf     []byte
	keys    map[string]int
	strings map[string]int
}

// BYML encodes root (a *byml.Dict or []any tree) as a BYML v2 document.
// Go int values are written as int nodes.
func BYML(root any, bigEndian bool) ([]byte, error) {
	w := &bymlWriter{order: binary.LittleEndian, keys: map[string]int{}, strings: map[string]int{}}
	magic := "YB"
	if bigEndian {
		w.order = binary.BigEndian
		magic = "BY"
	}

	keySet := map[string]struct{}{}
	strSet := map[string]struct{}{}
	collectBYMLStrings(root, keySet, strSet)
	keys := sortedSet(keySet)
	strs := sortedSet(strSet)
	for i, k := range keys {
		w.keys[k] = i
	}
	for i, s := range strs {
		w.strings[s] = i
	}

	w.buf = make([]byte, 0x10)
	copy(w.buf[0:2], magic)
	w.order.PutUint16(w.buf[2:4], 2)

	// writeStringTable grows buf, so offsets are taken before slicing the header.
	if len(keys) > 0 {
		off := w.writeStringTable(keys)
		w.order.PutUint32(w.buf[4:8], uint32(off))
	}
	if len(strs) > 0 {
		off := w.writeStringTable(strs)
		w.order.PutUint32(w.buf[8:12], uint32(off))
	}

	if root != nil {
		typ, _, err := w.typeOf(root)
		if err != nil {
			return nil, err
		}
		if typ != byml.NodeArray && typ != byml.NodeHash {
			return nil, fmt.Errorf("root must be a container, got %T", root)
		}
		off, err := w.writeContainer(root)
		if err != nil {
			return nil, err
		}
		w.order.PutUint32(w.buf[12:16], uint32(off))
	}

	return w.buf, nil
}

// MustBYML is BYML that panics on error.
func MustBYML(root any, bigEndian bool) []byte {
	data, err := BYML(root, bigEndian)
	if err != nil {
		panic(err)
	}

	return data
}

// collectBYMLStrings gathers hash keys and string values.
func collectBYMLStrings(v any, keys map[string]struct{}, strs map[string]struct{}) {
	switch val := v.(type) {
	case string:
		strs[val] = struct{}{}
	case []any:
		for _, item := range val {
			collectBYMLStrings(item, keys, strs)
		}
	case *byml.Dict:
		for _, k := range val.Keys() {
			keys[k] = struct{}{}
			item, _ := val.Get(k)
			collectBYMLStrings(item, keys, strs)
		}
	}
}

// sortedSet returns set members in ascending order.
func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)

	return out
}

// pad4 pads the buffer to a 4-byte boundary.
func (w *bymlWriter) pad4() {
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
}

// reserve appends n zero bytes and returns their offset.
func (w *bymlWriter) reserve(n int) int {
	w.pad4()
	off := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)

	return off
}

// putHeader writes a node type and 24-bit count at off.
func (w *bymlWriter) putHeader(off int, typ byte, count int) {
	w.buf[off] = typ
	if w.order == binary.BigEndian {
		w.buf[off+1], w.buf[off+2], w.buf[off+3] = byte(count>>16), byte(count>>8), byte(count)
	} else {
		w.buf[off+1], w.buf[off+2], w.buf[off+3] = byte(count), byte(count>>8), byte(count>>16)
	}
}

// writeStringTable writes a string table node and returns its offset.
func (w *bymlWriter) writeStringTable(values []string) int {
	off := w.reserve(4 + (len(values)+1)*4)
	w.putHeader(off, byml.NodeStringTable, len(values))
	for i, s := range values {
		w.order.PutUint32(w.buf[off+4+i*4:], uint32(len(w.buf)-off))
		w.buf = append(w.buf, s...)
		w.buf = append(w.buf, 0)
	}
	w.order.PutUint32(w.buf[off+4+len(values)*4:], uint32(len(w.buf)-off))
	w.pad4()

	return off
}

// typeOf returns the node type and inline value for scalars.
func (w *bymlWriter) typeOf(v any) (byte, uint32, error) {
	switch val := v.(type) {
	case nil:
		return byml.NodeNull, 0, nil
	case string:
		return byml.NodeString, uint32(w.strings[val]), nil
	case bool:
		if val {
			return byml.NodeBool, 1, nil
		}
		return byml.NodeBool, 0, nil
	case int:
		return byml.NodeInt, uint32(int32(val)), nil
	case int32:
		return byml.NodeInt, uint32(val), nil
	case float32:
		return byml.NodeFloat, math.Float32bits(val), nil
	case uint32:
		return byml.NodeUInt, val, nil
	case int64:
		return byml.NodeInt64, 0, nil
	case uint64:
		return byml.NodeUInt64, 0, nil
	case float64:
		return byml.NodeDouble, 0, nil
	case []any:
		return byml.NodeArray, 0, nil
	case *byml.Dict:
		return byml.NodeHash, 0, nil
	default:
		return 0, 0, fmt.Errorf("unsupported BYML fixture value %T", v)
	}
}

// valueOf returns the type and 4-byte slot value, writing out-of-line data as needed.
func (w *bymlWriter) valueOf(v any) (byte, uint32, error) {
	typ, raw, err := w.typeOf(v)
	if err != nil {
		return 0, 0, err
	}

	switch typ {
	case byml.NodeArray, byml.NodeHash:
		off, err := w.writeContainer(v)
		return typ, uint32(off), err
	case byml.NodeInt64, byml.NodeUInt64, byml.NodeDouble:
		var bits uint64
		switch val := v.(type) {
		case int64:
			bits = uint64(val)
		case uint64:
			bits = val
		case float64:
			bits = math.Float64bits(val)
		}
		off := w.reserve(8)
		w.order.PutUint64(w.buf[off:], bits)
		return typ, uint32(off), nil
	}

	return typ, raw, nil
}

// writeContainer writes an array or hash node and its children, returning its offset.
func (w *bymlWriter) writeContainer(v any) (int, error) {
	switch val := v.(type) {
	case []any:
		n := len(val)
		off := w.reserve(4 + ((n+3)&^3) + n*4)
		w.putHeader(off, byml.NodeArray, n)
		valuesStart := off + 4 + ((n + 3) &^ 3)
		for i, item := range val {
			typ, raw, err := w.valueOf(item)
			if err != nil {
				return 0, err
			}
			w.buf[off+4+i] = typ
			w.order.PutUint32(w.buf[valuesStart+i*4:], raw)
		}
		return off, nil
	case *byml.Dict:
		keys := val.Keys()
		off := w.reserve(4 + len(keys)*8)
		w.putHeader(off, byml.NodeHash, len(keys))
		for i, k := range keys {
			item, _ := val.Get(k)
			typ, raw, err := w.valueOf(item)
			if err != nil {
				return 0, err
			}
			entry := off + 4 + i*8
			idx := w.keys[k]
			if w.order == binary.BigEndian {
				w.buf[entry], w.buf[entry+1], w.buf[entry+2] = byte(idx>>16), byte(idx>>8), byte(idx)
			} else {
				w.buf[entry], w.buf[entry+1], w.buf[entry+2] = byte(idx), byte(idx>>8), byte(idx>>16)
			}
			w.buf[entry+3] = typ
			w.order.PutUint32(w.buf[entry+4:], raw)
		}
		return off, nil
	default:
		return 0, fmt.Errorf("not a BYML container: %T", v)
	}
}

// Dict builds a *byml.Dict from alternating key/value arguments.
func Dict(kv ...any) *byml.Dict {
	d := byml.NewDict()
	for i := 0; i+1 < len(kv); i += 2 {
		d.Set(kv[i].(string), kv[i+1])
	}

	return d
}

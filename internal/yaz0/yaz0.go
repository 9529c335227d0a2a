// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

// Package yaz0 decodes Yaz0 compressed blocks.
package yaz0

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// headerSize is the fixed Yaz0 header size in bytes.
	headerSize = 0x10
	// maxRatio bounds output bytes per input byte: a 3-byte back-reference
	// yields at most 0x111 bytes.
	maxRatio = 0x111 / 3
)

// Magic is the 4-byte Yaz0 signature.
var Magic = []byte("Yaz0")

var (
	// ErrInvalidHeader means the input is missing or has a bad Yaz0 header.
	ErrInvalidHeader = errors.New("invalid Yaz0 data: missing or bad header")
	// ErrTruncated means the compressed stream ended before the declared size was produced.
	ErrTruncated = errors.New("truncated Yaz0 stream")
	// ErrBadBackReference means a back-reference points before the start of output.
	ErrBadBackReference = errors.New("Yaz0 back-reference out of range")
)

// IsCompressed reports whether data starts with the Yaz0 signature.
func IsCompressed(data []byte) bool {
	return len(data) >= headerSize && bytes.Equal(data[:4], Magic)
}

// DecompressedSize returns the size declared in the Yaz0 header.
func DecompressedSize(data []byte) (int, error) {
	if !IsCompressed(data) {
		return 0, ErrInvalidHeader
	}

	return int(binary.BigEndian.Uint32(data[4:8])), nil
}

// Decompress decodes one Yaz0 block and returns the uncompressed bytes.
func Decompress(data []byte) ([]byte, error) {
	size, err := DecompressedSize(data)
	if err != nil {
		return nil, err
	}

	if size > (len(data)-headerSize)*maxRatio {
		return nil, fmt.Errorf("%w: declared size %d exceeds what %d input bytes can encode",
			ErrTruncated, size, len(data))
	}

	out := make([]byte, size)
	src := headerSize
	dst := 0

	var group byte
	var groupBits int
	for dst < size {
		if groupBits == 0 {
			if src >= len(data) {
				return nil, fmt.Errorf("%w: at output offset %d", ErrTruncated, dst)
			}
			group = data[src]
			src++
			groupBits = 8
		}

		if group&0x80 != 0 {
			if src >= len(data) {
				return nil, fmt.Errorf("%w: at output offset %d", ErrTruncated, dst)
			}
			out[dst] = data[src]
			dst++
			src++
		} else {
			if src+1 >= len(data) {
				return nil, fmt.Errorf("%w: at output offset %d", ErrTruncated, dst)
			}
			b1, b2 := data[src], data[src+1]
			src += 2

			back := dst - ((int(b1&0x0f) << 8) | int(b2)) - 1
			n := int(b1 >> 4)
			if n == 0 {
				if src >= len(data) {
					return nil, fmt.Errorf("%w: at output offset %d", ErrTruncated, dst)
				}
				n = int(data[src]) + 0x12
				src++
			} else {
				n += 2
			}
			if back < 0 {
				return nil, fmt.Errorf("%w: at output offset %d", ErrBadBackReference, dst)
			}

			// Byte-wise copy: source and destination windows may overlap.
			for i := 0; i < n && dst < size; i++ {
				out[dst] = out[back+i]
				dst++
			}
		}

		group <<= 1
		groupBits--
	}

	return out, nil
}

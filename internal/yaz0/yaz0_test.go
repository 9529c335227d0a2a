// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package yaz0

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// header builds a Yaz0 header declaring size uncompressed bytes.
func header(size int) []byte {
	h := make([]byte, headerSize)
	copy(h, Magic)
	binary.BigEndian.PutUint32(h[4:8], uint32(size))
	return h
}

func TestDecompress_Literals(t *testing.T) {
	t.Parallel()

	payload := []byte("ABCDEFGHIJ")
	data := header(len(payload))
	data = append(data, 0xff)
	data = append(data, payload[:8]...)
	data = append(data, 0xff)
	data = append(data, payload[8:]...)

	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Decompress=%q, want %q", got, payload)
	}
}

func TestDecompress_ShortBackReference(t *testing.T) {
	t.Parallel()

	// "ab" literal, then copy 4 bytes from distance 2: "ababab".
	data := header(6)
	data = append(data, 0xc0, 'a', 'b', 0x20, 0x01)

	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(got) != "ababab" {
		t.Fatalf("Decompress=%q, want %q", got, "ababab")
	}
}

func TestDecompress_LongBackReference(t *testing.T) {
	t.Parallel()

	// "x" literal then 0x12+2 byte run copied from distance 1.
	want := bytes.Repeat([]byte("x"), 1+0x14)
	data := header(len(want))
	data = append(data, 0x80, 'x', 0x00, 0x00, 0x02)

	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Decompress len=%d, want %d", len(got), len(want))
	}
}

func TestDecompress_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: ErrInvalidHeader},
		{name: "bad magic", data: append([]byte("Yaz1"), make([]byte, 12)...), want: ErrInvalidHeader},
		{name: "truncated", data: append(header(4), 0xff, 'a'), want: ErrTruncated},
		{name: "bad back reference", data: append(header(4), 0x00, 0x10, 0x05), want: ErrBadBackReference},
		{name: "declared size beyond input", data: append(header(0xf0000000), 0xff), want: ErrTruncated},
		{name: "header only", data: header(1), want: ErrTruncated},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decompress(tc.data)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Decompress err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestIsCompressed(t *testing.T) {
	t.Parallel()

	if !IsCompressed(header(0)) {
		t.Fatal("expected header to be recognized")
	}
	if IsCompressed([]byte("Yaz0")) {
		t.Fatal("short input must not be recognized")
	}
}

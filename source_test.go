// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/rombuilder/internal/sarc"
	"github.com/woozymasta/rombuilder/internal/testutil"
)

func TestDirSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string][]byte{
		"Actor/Foo.sbyml": testutil.Yaz0Store([]byte("YB\x02\x00data")),
		"Pack/Bootup.bin": []byte("raw"),
		"b.txt":           []byte("b"),
	})

	src := NewDirSource(root)
	assert.Equal(t, root, src.Root())

	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"Actor/Foo.sbyml", "Pack/Bootup.bin", "b.txt"}, files)

	data, err := src.ReadFile("Pack/Bootup.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), data)

	data, err = ReadDecompressed(src, "Actor/Foo.sbyml")
	require.NoError(t, err)
	assert.Equal(t, []byte("YB\x02\x00data"), data)

	_, err = src.ReadFile("Missing.bin")
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = src.ReadFile("")
	assert.ErrorIs(t, err, ErrInvalidResourcePath)
}

func TestArchiveSource(t *testing.T) {
	t.Parallel()

	inner := []byte("AAMP-ish")
	archive, err := sarc.Parse(testutil.SARC([]testutil.File{
		{Name: "Actor/ActorLink/Foo.bxml", Data: inner},
		{Name: "Actor/Physics/Foo.sbphysics", Data: testutil.Yaz0Store([]byte("physics"))},
	}, false))
	require.NoError(t, err)

	src := NewArchiveSource(archive)
	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"Actor/ActorLink/Foo.bxml", "Actor/Physics/Foo.sbphysics"}, files)

	data, err := ReadDecompressed(src, "Actor/ActorLink/Foo.bxml")
	require.NoError(t, err)
	assert.Equal(t, inner, data)

	data, err = ReadDecompressed(src, "Actor/Physics/Foo.sbphysics")
	require.NoError(t, err)
	assert.Equal(t, []byte("physics"), data)

	_, err = src.ReadFile("Actor/Missing.bxml")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, sarc.ErrMemberNotFound)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/rombuilder/internal/byml"
	"github.com/woozymasta/rombuilder/internal/testutil"
)

// entitySummary flattens merged entities to (HashId, IsStatic) pairs.
func entitySummary(t *testing.T, unit *byml.Dict, key string) [][2]any {
	t.Helper()

	raw, ok := unit.Get(key)
	require.True(t, ok, "missing %s", key)

	var out [][2]any
	for _, item := range raw.([]any) {
		entity := item.(*byml.Dict)
		id, _ := entity.Get("HashId")
		isStatic, _ := entity.Get("IsStatic")
		out = append(out, [2]any{id, isStatic})
	}

	return out
}

func TestMergeMapUnitsOrdersByHashID(t *testing.T) {
	t.Parallel()

	static := testutil.Dict(
		"LocationPosX", float32(-4000),
		"Objs", []any{
			testutil.Dict("HashId", uint32(5), "UnitConfigName", "TreeA"),
			testutil.Dict("HashId", uint32(1), "UnitConfigName", "TreeB"),
		},
		"Rails", []any{testutil.Dict("HashId", uint32(9))},
	)
	dynamic := testutil.Dict(
		"LocationPosX", float32(1234),
		"LocationSize", float32(999),
		"Objs", []any{testutil.Dict("HashId", uint32(3))},
	)

	merged, err := MergeMapUnits(static, dynamic)
	require.NoError(t, err)

	assert.Equal(t, [][2]any{
		{uint32(1), true},
		{uint32(3), false},
		{uint32(5), true},
	}, entitySummary(t, merged, "Objs"))
	assert.Equal(t, [][2]any{{uint32(9), true}}, entitySummary(t, merged, "Rails"))

	assert.Equal(t, []string{"LocationPosX", "Objs", "Rails"}, merged.Keys())
	posX, _ := merged.Get("LocationPosX")
	assert.Equal(t, float32(-4000), posX)
	_, hasSize := merged.Get("LocationSize")
	assert.False(t, hasSize, "layout keys must come from the static half only")

	objs, _ := static.Get("Objs")
	first := objs.([]any)[0].(*byml.Dict)
	_, tagged := first.Get("IsStatic")
	assert.False(t, tagged, "inputs must not be modified")
}

func TestMergeMapUnitsTieKeepsStaticFirst(t *testing.T) {
	t.Parallel()

	static := testutil.Dict("Objs", []any{
		testutil.Dict("HashId", uint32(7), "Name", "s1"),
		testutil.Dict("HashId", uint32(7), "Name", "s2"),
	})
	dynamic := testutil.Dict("Objs", []any{
		testutil.Dict("HashId", uint32(7), "Name", "d1"),
		testutil.Dict("HashId", uint32(2), "Name", "d0"),
	})

	merged, err := MergeMapUnits(static, dynamic)
	require.NoError(t, err)

	raw, _ := merged.Get("Objs")
	var names []string
	for _, item := range raw.([]any) {
		name, _ := item.(*byml.Dict).Get("Name")
		names = append(names, name.(string))
	}
	assert.Equal(t, []string{"d0", "s1", "s2", "d1"}, names)
}

func TestMergeMapUnitsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		static  *byml.Dict
		dynamic *byml.Dict
		want    error
	}{
		{
			name:    "missing hash id",
			static:  testutil.Dict("Objs", []any{testutil.Dict("Name", "x")}),
			dynamic: testutil.Dict(),
			want:    ErrMissingHashID,
		},
		{
			name:    "string hash id",
			static:  testutil.Dict(),
			dynamic: testutil.Dict("Rails", []any{testutil.Dict("HashId", "1")}),
			want:    ErrMissingHashID,
		},
		{
			name:    "objs not array",
			static:  testutil.Dict("Objs", testutil.Dict()),
			dynamic: testutil.Dict(),
			want:    ErrInvalidMapUnit,
		},
		{
			name:    "entity not hash",
			static:  testutil.Dict(),
			dynamic: testutil.Dict("Objs", []any{int32(1)}),
			want:    ErrInvalidMapUnit,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := MergeMapUnits(tt.static, tt.dynamic)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMergeMapUnitsEmptyHalves(t *testing.T) {
	t.Parallel()

	merged, err := MergeMapUnits(testutil.Dict(), testutil.Dict())
	require.NoError(t, err)
	assert.Equal(t, []string{"Objs", "Rails"}, merged.Keys())

	objs, _ := merged.Get("Objs")
	assert.Empty(t, objs)
}

func TestProcessMapUnits(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	testutil.WriteTree(t, dest, map[string][]byte{
		"Map/MainField/A-1/A-1_Static.mubin": testutil.MustBYML(testutil.Dict(
			"LocationPosX", float32(-4500),
			"LocationPosZ", float32(-3500),
			"LocationSize", float32(1000),
			"Objs", []any{testutil.Dict("HashId", uint32(5)), testutil.Dict("HashId", uint32(1))},
			"Rails", []any{},
		), true),
		"Map/MainField/A-1/A-1_Dynamic.mubin": testutil.MustBYML(testutil.Dict(
			"Objs", []any{testutil.Dict("HashId", uint32(3))},
			"Rails", []any{},
		), true),
		"Map/MainField/B-2/B-2_Static.mubin": testutil.MustBYML(testutil.Dict("Objs", []any{}), false),
		"Map/CDungeon/Dungeon000/Dungeon000_Static.mubin": testutil.MustBYML(testutil.Dict(
			"Objs", []any{testutil.Dict("HashId", uint32(2))},
		), false),
		"Map/CDungeon/Dungeon000/Dungeon000_Dynamic.mubin": testutil.MustBYML(testutil.Dict(
			"Objs", []any{testutil.Dict("HashId", uint32(1))},
		), false),
		"Map/MainField/Static.mubin": testutil.MustBYML(testutil.Dict("Objs", []any{}), true),
		"Map/MainField/A-1/notes.txt": []byte("keep"),
	})

	require.NoError(t, ProcessMapUnits(context.Background(), dest, 2))

	tree := testutil.ReadTree(t, dest)
	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{
		"Map/MainField/A-1/A-1.muunt.yml",
		"Map/MainField/A-1/notes.txt",
		"Map/MainField/B-2/B-2_Static.mubin.yml",
		"Map/CDungeon/Dungeon000/Dungeon000.muunt.yml",
		"Map/MainField/Static.mubin.yml",
	}, names)

	var doc struct {
		LocationPosX float64 `yaml:"LocationPosX"`
		LocationPosZ float64 `yaml:"LocationPosZ"`
		LocationSize float64 `yaml:"LocationSize"`
		Objs         []struct {
			IsStatic bool `yaml:"IsStatic"`
		} `yaml:"Objs"`
	}
	require.NoError(t, yaml.Unmarshal(tree["Map/MainField/A-1/A-1.muunt.yml"], &doc))
	assert.Equal(t, -4500.0, doc.LocationPosX)
	assert.Equal(t, -3500.0, doc.LocationPosZ)
	assert.Equal(t, 1000.0, doc.LocationSize)
	require.Len(t, doc.Objs, 3)
	assert.Equal(t, []bool{true, false, true}, []bool{doc.Objs[0].IsStatic, doc.Objs[1].IsStatic, doc.Objs[2].IsStatic})

	text := string(tree["Map/MainField/A-1/A-1.muunt.yml"])
	assert.Regexp(t, `(?s)HashId: !u 0x00000001.*HashId: !u 0x00000003.*HashId: !u 0x00000005`, text)

	require.NoError(t, ProcessMapUnits(context.Background(), dest, 2))
	assert.Equal(t, tree, testutil.ReadTree(t, dest))
}

func TestProcessMapUnitsWithoutMapDir(t *testing.T) {
	t.Parallel()

	require.NoError(t, ProcessMapUnits(context.Background(), t.TempDir(), 1))
}

func TestMergeMapUnitDirRejectsArrayRoot(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "X")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "X_Static.mubin"), testutil.MustBYML([]any{int32(1)}, false), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "X_Dynamic.mubin"), testutil.MustBYML(testutil.Dict(), false), 0o644))

	ok, err := MergeMapUnitDir(dir)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidMapUnit)
}

func TestProcessMapUnitsKeepsExistingText(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	testutil.WriteTree(t, dest, map[string][]byte{
		"Map/MainField/C-3/C-3_Static.mubin":  testutil.MustBYML(testutil.Dict("Objs", []any{}), true),
		"Map/MainField/C-3/C-3_Dynamic.mubin": testutil.MustBYML(testutil.Dict("Objs", []any{}), true),
		"Map/MainField/C-3/C-3.muunt.yml":     []byte("edited\n"),
		"Map/MainField/Lone.mubin":            testutil.MustBYML(testutil.Dict("Objs", []any{}), true),
		"Map/MainField/Lone.mubin.yml":        []byte("edited\n"),
	})

	require.NoError(t, ProcessMapUnits(context.Background(), dest, 1))
	assert.Equal(t, map[string][]byte{
		"Map/MainField/C-3/C-3.muunt.yml": []byte("edited\n"),
		"Map/MainField/Lone.mubin.yml":    []byte("edited\n"),
	}, testutil.ReadTree(t, dest))
}

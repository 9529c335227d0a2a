// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/woozymasta/rombuilder/internal/byml"
	"github.com/woozymasta/rombuilder/internal/fsutil"
	"github.com/woozymasta/rombuilder/internal/logger"
)

// Map unit file names and keys.
const (
	mapDirName          = "Map"
	staticSuffix        = "_Static" + mapUnitExtension
	dynamicSuffix       = "_Dynamic" + mapUnitExtension
	mergedMapUnitSuffix = ".muunt.yml"

	keyObjs     = "Objs"
	keyRails    = "Rails"
	keyHashID   = "HashId"
	keyIsStatic = "IsStatic"
)

// mapUnitLayoutKeys are copied from the static half only.
var mapUnitLayoutKeys = []string{"LocationPosX", "LocationPosZ", "LocationSize"}

// MergeMapUnits merges a static and a dynamic map unit half.
// Objs and Rails of both halves are concatenated, each entity is tagged with
// IsStatic and the lists are stably sorted by HashId, so static entities come
// first on equal keys. Layout properties come from the static half when present.
// Inputs are not modified.
func MergeMapUnits(static *byml.Dict, dynamic *byml.Dict) (*byml.Dict, error) {
	merged := byml.NewDict()
	for _, key := range mapUnitLayoutKeys {
		if v, ok := static.Get(key); ok {
			merged.Set(key, v)
		}
	}

	for _, key := range []string{keyObjs, keyRails} {
		entities, err := mergeEntityLists(key, static, dynamic)
		if err != nil {
			return nil, err
		}
		merged.Set(key, entities)
	}

	return merged, nil
}

// mapEntity is one tagged entity with its sort key.
type mapEntity struct {
	dict   *byml.Dict
	hashID int64
}

// mergeEntityLists merges the key list of both halves.
func mergeEntityLists(key string, static *byml.Dict, dynamic *byml.Dict) ([]any, error) {
	staticEntities, err := taggedEntities(static, key, true)
	if err != nil {
		return nil, fmt.Errorf("static %s: %w", key, err)
	}
	dynamicEntities, err := taggedEntities(dynamic, key, false)
	if err != nil {
		return nil, fmt.Errorf("dynamic %s: %w", key, err)
	}

	all := append(staticEntities, dynamicEntities...)
	slices.SortStableFunc(all, func(a, b mapEntity) int {
		return cmp.Compare(a.hashID, b.hashID)
	})

	out := make([]any, len(all))
	for i, e := range all {
		out[i] = e.dict
	}

	return out, nil
}

// taggedEntities copies the entities stored under key and tags them with isStatic.
func taggedEntities(unit *byml.Dict, key string, isStatic bool) ([]mapEntity, error) {
	raw, ok := unit.Get(key)
	if !ok || raw == nil {
		return nil, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want array", ErrInvalidMapUnit, key, raw)
	}

	out := make([]mapEntity, 0, len(list))
	for i, item := range list {
		entity, ok := item.(*byml.Dict)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %T, want hash", ErrInvalidMapUnit, key, i, item)
		}

		id, err := entityHashID(entity)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}

		tagged := byml.NewDict()
		for _, k := range entity.Keys() {
			v, _ := entity.Get(k)
			tagged.Set(k, v)
		}
		tagged.Set(keyIsStatic, isStatic)

		out = append(out, mapEntity{dict: tagged, hashID: id})
	}

	return out, nil
}

// entityHashID returns the numeric HashId of entity.
func entityHashID(entity *byml.Dict) (int64, error) {
	raw, ok := entity.Get(keyHashID)
	if !ok {
		return 0, ErrMissingHashID
	}

	switch v := raw.(type) {
	case uint32:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d out of range", ErrMissingHashID, v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: HashId is %T", ErrMissingHashID, raw)
	}
}

// MergeMapUnitDir merges <dir>/<name>_Static.mubin and <dir>/<name>_Dynamic.mubin
// into <dir>/<name>.muunt.yml and removes both halves. It reports false without
// error when either half is missing. An existing merged file is kept as is and
// only the halves are removed.
func MergeMapUnitDir(dir string) (bool, error) {
	name := filepath.Base(dir)
	staticPath := filepath.Join(dir, name+staticSuffix)
	dynamicPath := filepath.Join(dir, name+dynamicSuffix)
	if !fsutil.IsFile(staticPath) || !fsutil.IsFile(dynamicPath) {
		return false, nil
	}

	mergedPath := filepath.Join(dir, name+mergedMapUnitSuffix)
	if fsutil.IsFile(mergedPath) {
		logger.Debug("merged map unit exists", "path", mergedPath)
		return false, removeAll(staticPath, dynamicPath)
	}

	static, err := readMapUnit(staticPath)
	if err != nil {
		return false, err
	}
	dynamic, err := readMapUnit(dynamicPath)
	if err != nil {
		return false, err
	}

	merged, err := MergeMapUnits(static, dynamic)
	if err != nil {
		return false, fmt.Errorf("merge %s: %w", dir, err)
	}

	text, err := dumpBYMLTree(merged)
	if err != nil {
		return false, fmt.Errorf("merge %s: %w", dir, err)
	}

	if err := fsutil.WriteFileAtomic(mergedPath, text); err != nil {
		return false, fmt.Errorf("write %s: %w", mergedPath, err)
	}
	if err := removeAll(staticPath, dynamicPath); err != nil {
		return false, err
	}

	return true, nil
}

// removeAll removes every file in paths.
func removeAll(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}

	return nil
}

// readMapUnit parses a map unit half that must have a hash root.
func readMapUnit(p string) (*byml.Dict, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	root, err := byml.ParseRoot(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}

	dict, ok := root.(*byml.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: %s root is %T, want hash", ErrInvalidMapUnit, p, root)
	}

	return dict, nil
}

// DumpMubin converts a map unit that has no static/dynamic pair to <path>.yml
// and removes the binary original.
func DumpMubin(p string) error {
	if fsutil.IsFile(p + textExtension) {
		return removeAll(p)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}

	text, err := DumpBYML(data)
	if err != nil {
		return fmt.Errorf("dump %s: %w", p, err)
	}

	if err := fsutil.WriteFileAtomic(p+textExtension, text); err != nil {
		return fmt.Errorf("write %s: %w", p+textExtension, err)
	}

	return removeAll(p)
}

// ProcessMapUnits merges every Map/*/* static/dynamic pair under destDir, then
// converts any remaining .mubin file under Map to YAML.
func ProcessMapUnits(ctx context.Context, destDir string, workers int) error {
	mapDir := filepath.Join(destDir, mapDirName)
	if ok, err := fsutil.Exists(mapDir); err != nil {
		return fmt.Errorf("stat %s: %w", mapDir, err)
	} else if !ok {
		logger.Info("no map directory, skipping map units", "dir", mapDir)
		return nil
	}

	workers = workerCount(workers)

	unitDirs, err := mapUnitDirs(mapDir)
	if err != nil {
		return err
	}

	var merged atomic.Int64
	err = dispatch(ctx, workers, 1, unitDirs, func(_ context.Context, dir string) error {
		ok, err := MergeMapUnitDir(dir)
		if ok {
			merged.Add(1)
			logger.Debug("merged map unit", "dir", dir)
		}
		return err
	})
	if err != nil {
		return err
	}

	leftovers, err := findMubins(mapDir)
	if err != nil {
		return err
	}

	err = dispatch(ctx, workers, 1, leftovers, func(_ context.Context, p string) error {
		return DumpMubin(p)
	})
	if err != nil {
		return err
	}

	logger.Info("processed map units", "merged", merged.Load(), "dumped", len(leftovers))

	return nil
}

// mapUnitDirs lists directories two levels below mapDir (Map/*/*).
func mapUnitDirs(mapDir string) ([]string, error) {
	groups, err := os.ReadDir(mapDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", mapDir, err)
	}

	var dirs []string
	for _, group := range groups {
		if !group.IsDir() {
			continue
		}

		groupDir := filepath.Join(mapDir, group.Name())
		units, err := os.ReadDir(groupDir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", groupDir, err)
		}
		for _, unit := range units {
			if unit.IsDir() {
				dirs = append(dirs, filepath.Join(groupDir, unit.Name()))
			}
		}
	}

	return dirs, nil
}

// findMubins lists regular .mubin files below root.
func findMubins(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), mapUnitExtension) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return out, nil
}

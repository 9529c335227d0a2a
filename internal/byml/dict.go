// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package byml

// Dict is a BYML hash node that keeps keys in insertion order.
type Dict struct {
	keys   []string
	values map[string]any
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{values: make(map[string]any)}
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}

	return len(d.keys)
}

// Keys returns keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}

	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}

	v, ok := d.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended; existing keys keep their position.
func (d *Dict) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.values[key] = value
}

// Delete removes key if present.
func (d *Dict) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}

	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"fmt"

	"github.com/woozymasta/rombuilder/internal/aamp"
	"github.com/woozymasta/rombuilder/internal/byml"
	"github.com/woozymasta/rombuilder/internal/yamldump"
)

// Custom YAML tags of AAMP dumps.
const (
	tagParameterIO = "!io"
	tagList        = "!list"
	tagObject      = "!obj"
)

// aampValueTags maps parameter types to explicit tags. Types absent here
// render as plain scalars.
var aampValueTags = map[aamp.ParamType]string{
	aamp.TypeVec2:         "!vec2",
	aamp.TypeVec3:         "!vec3",
	aamp.TypeVec4:         "!vec4",
	aamp.TypeColor:        "!color",
	aamp.TypeString32:     "!str32",
	aamp.TypeString64:     "!str64",
	aamp.TypeString256:    "!str256",
	aamp.TypeQuat:         "!quat",
	aamp.TypeCurve1:       "!curve",
	aamp.TypeCurve2:       "!curve",
	aamp.TypeCurve3:       "!curve",
	aamp.TypeCurve4:       "!curve",
	aamp.TypeBufferInt:    "!buffer_int",
	aamp.TypeBufferF32:    "!buffer_f32",
	aamp.TypeBufferU32:    "!buffer_u32",
	aamp.TypeBufferBinary: "!buffer_binary",
}

// convertToText renders decompressed data for conv.
func convertToText(conv Conversion, data []byte) ([]byte, error) {
	switch conv {
	case ConversionBYML:
		return DumpBYML(data)
	case ConversionAAMP:
		return DumpAAMP(data)
	default:
		return nil, fmt.Errorf("no text conversion for %s", conv)
	}
}

// DumpBYML parses a BYML document and renders it as YAML.
func DumpBYML(data []byte) ([]byte, error) {
	root, err := byml.ParseRoot(data)
	if err != nil {
		return nil, fmt.Errorf("parse BYML: %w", err)
	}

	return dumpBYMLTree(root)
}

// dumpBYMLTree renders an already parsed BYML tree.
func dumpBYMLTree(root any) ([]byte, error) {
	out, err := yamldump.Dump(root)
	if err != nil {
		return nil, fmt.Errorf("dump BYML: %w", err)
	}

	return out, nil
}

// DumpAAMP parses a parameter archive and renders it as YAML. String values
// are tracked while parsing and used to resolve hashed names.
func DumpAAMP(data []byte) ([]byte, error) {
	reader := aamp.NewReader(data, aamp.ReaderOptions{TrackStrings: true})
	pio, err := reader.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse AAMP: %w", err)
	}

	names := aamp.NewNameTable(reader.TrackedStrings())

	root, err := aampListValue(pio.Root, names, "")
	if err != nil {
		return nil, err
	}

	doc := &yamldump.Map{}
	doc.Put("version", int(pio.Version))
	doc.Put("type", pio.Type)
	doc.Put("param_root", root)

	out, err := yamldump.Dump(yamldump.Tagged{Value: doc, Tag: tagParameterIO})
	if err != nil {
		return nil, fmt.Errorf("dump AAMP: %w", err)
	}

	return out, nil
}

// aampKey resolves hash to a name, falling back to the raw hash.
func aampKey(names *aamp.NameTable, hash uint32, parent string, index int) any {
	if name, ok := names.LookupChild(hash, parent, index+1); ok {
		return name
	}

	return hash
}

// aampListValue converts a parameter list into a tagged mapping.
func aampListValue(list aamp.List, names *aamp.NameTable, name string) (yamldump.Tagged, error) {
	objects := &yamldump.Map{}
	for i, obj := range list.Objects {
		key := aampKey(names, obj.Hash, name, i)
		childName, _ := key.(string)

		params := &yamldump.Map{}
		for j, p := range obj.Params {
			v, err := aampParamValue(p)
			if err != nil {
				return yamldump.Tagged{}, fmt.Errorf("object %v: %w", key, err)
			}
			params.Put(aampKey(names, p.Hash, childName, j), v)
		}
		objects.Put(key, yamldump.Tagged{Value: params, Tag: tagObject})
	}

	lists := &yamldump.Map{}
	for i, child := range list.Lists {
		key := aampKey(names, child.Hash, name, i)
		childName, _ := key.(string)

		v, err := aampListValue(child, names, childName)
		if err != nil {
			return yamldump.Tagged{}, fmt.Errorf("list %v: %w", key, err)
		}
		lists.Put(key, v)
	}

	body := &yamldump.Map{}
	body.Put("objects", objects)
	body.Put("lists", lists)

	return yamldump.Tagged{Value: body, Tag: tagList}, nil
}

// aampParamValue converts one parameter value.
func aampParamValue(p aamp.Parameter) (any, error) {
	tag, tagged := aampValueTags[p.Type]
	if !tagged {
		return p.Value, nil
	}

	value := p.Value
	if curves, ok := p.Value.([]aamp.Curve); ok {
		flat := make([]any, 0, len(curves)*32)
		for _, c := range curves {
			flat = append(flat, c.A, c.B)
			for _, f := range c.Floats {
				flat = append(flat, f)
			}
		}
		value = flat
	}

	return yamldump.Tagged{Value: value, Tag: tag, Flow: true}, nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

/*
Package rombuilder converts a dumped game ROM into an editable source tree.
The unbuild pipeline walks the base ROM and an optional DLC (AoC) directory,
expands nested pack archives, decompresses Yaz0 resources and writes BYML
and AAMP documents as YAML. Everything else is copied byte for byte.

Unbuild passes (in order):
  - base resources are extracted by a worker pool;
  - overlay resources are extracted with the ".aoc" marker in their names;
  - overlay outputs identical to base outputs lose the marker;
  - message tables are exported by an external converter;
  - static and dynamic map unit halves are merged into one YAML document;
  - post-processors run last.

Existing outputs are never overwritten, so an interrupted run can be
restarted over the same destination.

# Unbuilding

	err := rombuilder.Unbuild(ctx, rombuilder.Options{
	    SrcDir:   "/mnt/rom/content",
	    DestDir:  "./source",
	    Platform: rombuilder.PlatformNX,
	    AocDir:   "/mnt/rom/aoc",
	})
	if err != nil {
	    return err
	}

Options can also be loaded from YAML:

	cfg, err := rombuilder.LoadConfig("rombuilder.yaml")
	if err != nil {
	    return err
	}
	opts, err := cfg.ToOptions()
	if err != nil {
	    return err
	}
	err = rombuilder.Unbuild(ctx, opts)

# Paths

Resource extensions carry markers: a leading "s" means Yaz0 compressed and
a leading "b" means binary. Output names drop both:

	rombuilder.DestinationPath("Actor/ActorInfo.product.sbyml", rombuilder.ConversionBYML, false)
	// Actor/ActorInfo.product.yml

	rombuilder.DestinationPath("Map/MainField/A-1/A-1_Static.smubin", rombuilder.ConversionNone, true)
	// Map/AocMainField/A-1/A-1_Static.aoc.mubin

Top-level directories listed in UnhandledContentPrefixes are skipped, with
the exception of HandledSystemFiles.

# Individual passes

Each pass is exported and can run on its own:

	err := rombuilder.UnbuildResources(ctx, src, dest, false, 8)
	stats, err := rombuilder.RemoveUnneededAocSuffixes(dest)
	err = rombuilder.ConvertMessages(ctx, dest, rombuilder.DefaultMessageConverter)
	err = rombuilder.ProcessMapUnits(ctx, dest, 8)

MergeMapUnits works on parsed documents: entities of both halves are tagged
with IsStatic and ordered by HashId, static entities first on ties.
*/
package rombuilder

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"fmt"
	"runtime"
	"strings"
)

// DefaultMessageConverter is the message table exporter command line.
// The message directory is appended as the last argument.
const DefaultMessageConverter = "msyt export -d"

// Platform is the console platform a ROM dump was taken from.
type Platform string

// Supported platforms.
const (
	// PlatformCafe is the Wii U (big-endian resources).
	PlatformCafe Platform = "cafe"
	// PlatformNX is the Switch (little-endian resources).
	PlatformNX Platform = "nx"
)

// ParsePlatform validates raw as a platform name.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidPlatform, raw, PlatformCafe, PlatformNX)
	}

	return p, nil
}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	return p == PlatformCafe || p == PlatformNX
}

// ResourceKind is the path-level classification of a resource.
type ResourceKind int

// Resource kinds.
const (
	// KindResource is a regular resource; its content decides the conversion.
	KindResource ResourceKind = iota
	// KindUnhandled is skipped entirely.
	KindUnhandled
	// KindArchive is a pack archive that is expanded recursively.
	KindArchive
)

// String returns a short name for logs.
func (k ResourceKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindUnhandled:
		return "unhandled"
	case KindArchive:
		return "archive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Conversion is the text conversion chosen for a resource by content sniffing.
type Conversion int

// Conversions.
const (
	// ConversionNone copies bytes unchanged.
	ConversionNone Conversion = iota
	// ConversionBYML dumps a BYML document as YAML.
	ConversionBYML
	// ConversionAAMP dumps an AAMP parameter archive as YAML.
	ConversionAAMP
)

// Extension returns the extension appended to converted outputs, or "".
func (c Conversion) Extension() string {
	switch c {
	case ConversionBYML, ConversionAAMP:
		return ".yml"
	default:
		return ""
	}
}

// String returns a short name for logs.
func (c Conversion) String() string {
	switch c {
	case ConversionNone:
		return "none"
	case ConversionBYML:
		return "byml"
	case ConversionAAMP:
		return "aamp"
	default:
		return fmt.Sprintf("conversion(%d)", int(c))
	}
}

// Options configures Unbuild.
type Options struct {
	// SrcDir is the base ROM directory.
	SrcDir string `json:"src_dir" yaml:"src_dir"`
	// DestDir is the output source tree.
	DestDir string `json:"dest_dir" yaml:"dest_dir"`
	// Platform is the ROM platform.
	Platform Platform `json:"platform" yaml:"platform"`
	// AocDir is the optional DLC directory (romfs on Switch, 0010 on Wii U).
	AocDir string `json:"aoc_dir,omitempty" yaml:"aoc_dir,omitempty"`
	// OtherPlatformActorInfo is ActorInfo.product.byml from the other platform.
	// It is handed to the actor info stage only.
	OtherPlatformActorInfo string `json:"other_platform_actorinfo,omitempty" yaml:"other_platform_actorinfo,omitempty"`
	// MessageConverter is the message table exporter command line.
	// Default is DefaultMessageConverter.
	MessageConverter string `json:"message_converter,omitempty" yaml:"message_converter,omitempty"`
	// PostProcessors run in order after map units are merged.
	// Nil means DefaultPostProcessors.
	PostProcessors []PostProcessor `json:"-" yaml:"-"`
	// MaxWorkers is the worker pool size (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// SkipMessages disables the message table pass.
	SkipMessages bool `json:"skip_messages,omitempty" yaml:"skip_messages,omitempty"`
}

// ReconcileStats summarizes one overlay reconciliation pass.
type ReconcileStats struct {
	// Scanned is the number of overlay-tagged files inspected.
	Scanned int `json:"scanned" yaml:"scanned"`
	// Collapsed is the number of tagged files moved onto identical base files.
	Collapsed int `json:"collapsed" yaml:"collapsed"`
	// Exclusive is the number of tagged files without a base counterpart.
	Exclusive int `json:"exclusive" yaml:"exclusive"`
	// Differing is the number of tagged files whose base counterpart differs.
	Differing int `json:"differing" yaml:"differing"`
}

// applyDefaults fills zero-valued options with defaults.
func (opts *Options) applyDefaults() {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}

	if strings.TrimSpace(opts.MessageConverter) == "" {
		opts.MessageConverter = DefaultMessageConverter
	}

	if opts.PostProcessors == nil {
		opts.PostProcessors = DefaultPostProcessors()
	}
}

// validate checks required options after defaults are applied.
func (opts *Options) validate() error {
	if strings.TrimSpace(opts.SrcDir) == "" {
		return fmt.Errorf("%w: source ROM directory is required", ErrMissingSourceDir)
	}
	if strings.TrimSpace(opts.DestDir) == "" {
		return fmt.Errorf("%w: destination directory is required", ErrMissingSourceDir)
	}
	if !opts.Platform.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlatform, opts.Platform)
	}

	return nil
}

// workerCount returns n, or GOMAXPROCS when n is not positive.
func workerCount(n int) int {
	if n > 0 {
		return n
	}

	return max(1, runtime.GOMAXPROCS(0))
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"errors"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{in: "cafe", want: PlatformCafe},
		{in: "NX", want: PlatformNX},
		{in: " nx ", want: PlatformNX},
		{in: "wiiu", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePlatform(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPlatform) {
					t.Fatalf("ParsePlatform(%q) err=%v, want ErrInvalidPlatform", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParsePlatform(%q)=%q,%v want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestOptionsApplyDefaults(t *testing.T) {
	t.Parallel()

	opts := Options{}
	opts.applyDefaults()

	if opts.MaxWorkers < 1 {
		t.Fatalf("MaxWorkers=%d, want >= 1", opts.MaxWorkers)
	}
	if opts.MessageConverter != DefaultMessageConverter {
		t.Fatalf("MessageConverter=%q", opts.MessageConverter)
	}
	if len(opts.PostProcessors) != len(DefaultPostProcessors()) {
		t.Fatalf("PostProcessors=%d, want defaults", len(opts.PostProcessors))
	}

	disabled := Options{PostProcessors: []PostProcessor{}, MaxWorkers: 3, MessageConverter: "true"}
	disabled.applyDefaults()
	if len(disabled.PostProcessors) != 0 || disabled.MaxWorkers != 3 || disabled.MessageConverter != "true" {
		t.Fatalf("explicit options were overridden: %+v", disabled)
	}
}

func TestKindAndConversionStrings(t *testing.T) {
	t.Parallel()

	if KindArchive.String() != "archive" || KindUnhandled.String() != "unhandled" || ResourceKind(9).String() != "kind(9)" {
		t.Fatal("unexpected ResourceKind names")
	}
	if ConversionAAMP.String() != "aamp" || ConversionNone.Extension() != "" || ConversionBYML.Extension() != ".yml" {
		t.Fatal("unexpected Conversion names")
	}
}

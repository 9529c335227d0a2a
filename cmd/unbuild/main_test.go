// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package unbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/rombuilder"
)

// newTestCmd returns a command with fresh flags parsed from argv.
func newTestCmd(t *testing.T, argv ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "unbuild"}
	bindFlags(cmd)
	require.NoError(t, cmd.ParseFlags(argv))

	return cmd
}

func TestResolveOptionsFromFlags(t *testing.T) {
	cmd := newTestCmd(t, "--platform", "NX", "--aoc-dir", "/rom/aoc", "-j", "3", "--skip-messages")

	opts, err := resolveOptions(cmd, []string{"/rom/content", "./out"})
	require.NoError(t, err)
	assert.Equal(t, rombuilder.Options{
		SrcDir:           "/rom/content",
		DestDir:          "./out",
		Platform:         rombuilder.PlatformNX,
		AocDir:           "/rom/aoc",
		MaxWorkers:       3,
		MessageConverter: rombuilder.DefaultMessageConverter,
		SkipMessages:     true,
	}, opts)
}

func TestResolveOptionsFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rombuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"src_dir: /cfg/content\ndest_dir: /cfg/out\nplatform: cafe\nmax_workers: 8\nmessage_converter: msyt export\n",
	), 0o600))

	cmd := newTestCmd(t, "--config", path, "--workers", "2")

	opts, err := resolveOptions(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "/cfg/content", opts.SrcDir)
	assert.Equal(t, "/cfg/out", opts.DestDir)
	assert.Equal(t, rombuilder.PlatformCafe, opts.Platform)
	assert.Equal(t, 2, opts.MaxWorkers)
	assert.Equal(t, "msyt export", opts.MessageConverter)
}

func TestResolveOptionsErrors(t *testing.T) {
	_, err := resolveOptions(newTestCmd(t, "--platform", "nx"), nil)
	assert.ErrorIs(t, err, rombuilder.ErrMissingSourceDir)

	_, err = resolveOptions(newTestCmd(t, "--platform", "nx"), []string{"/only/src"})
	assert.Error(t, err)

	_, err = resolveOptions(newTestCmd(t), []string{"/src", "/dest"})
	assert.ErrorIs(t, err, rombuilder.ErrInvalidPlatform)

	_, err = resolveOptions(newTestCmd(t, "--platform", "wii"), []string{"/src", "/dest"})
	assert.ErrorIs(t, err, rombuilder.ErrInvalidPlatform)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package build

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrNotImplemented is returned by the build command.
var ErrNotImplemented = errors.New("build is not implemented")

// Cmd is the declaration of the command line
var Cmd = &cobra.Command{
	Use:   "build <source dir> <rom dir>",
	Short: "Build a ROM from a source tree (not implemented)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ErrNotImplemented
	},
}

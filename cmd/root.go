// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/woozymasta/rombuilder/cmd/build"
	"github.com/woozymasta/rombuilder/cmd/unbuild"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "rombuilder",
	Short:         "Convert game ROM dumps to editable source trees and back",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(unbuild.Cmd)
	RootCmd.AddCommand(build.Cmd)
	RootCmd.AddCommand(genBashCompletionCmd)
}

var genBashCompletionCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completions file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RootCmd.GenBashCompletion(os.Stdout)
	},
}

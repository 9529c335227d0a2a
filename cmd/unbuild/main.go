// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package unbuild

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/woozymasta/rombuilder"
	"github.com/woozymasta/rombuilder/internal/logger"
)

var (
	platform               string
	aocDir                 string
	otherPlatformActorInfo string
	configPath             string
	workers                int
	messageConverter       string
	skipMessages           bool
	verbose                bool
	jsonLog                bool
)

// Cmd is the declaration of the command line
var Cmd = &cobra.Command{
	Use:   "unbuild <src rom dir> <dest dir>",
	Short: "Convert a ROM dump into an editable source tree",
	Long: `Convert a ROM dump into an editable source tree.

Source and destination may come from --config instead of arguments.
Flags given on the command line override values from the config file.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(verbose, jsonLog)
		defer logger.Close()

		opts, err := resolveOptions(cmd, args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := rombuilder.Unbuild(ctx, opts); err != nil {
			logger.AddSummaryError("unbuild failed", "error", err)
			return err
		}

		return nil
	},
}

// resolveOptions merges the config file, positional arguments and changed flags.
func resolveOptions(cmd *cobra.Command, args []string) (rombuilder.Options, error) {
	var opts rombuilder.Options
	if configPath != "" {
		cfg, err := rombuilder.LoadConfig(configPath)
		if err != nil {
			return opts, err
		}
		if opts, err = cfg.ToOptions(); err != nil {
			return opts, err
		}
	}

	switch len(args) {
	case 2:
		opts.SrcDir, opts.DestDir = args[0], args[1]
	case 1:
		return opts, fmt.Errorf("both source and destination directories are required")
	}
	if opts.SrcDir == "" || opts.DestDir == "" {
		return opts, fmt.Errorf("%w: pass <src rom dir> <dest dir> or set them in --config", rombuilder.ErrMissingSourceDir)
	}

	flags := cmd.Flags()
	if flags.Changed("platform") || opts.Platform == "" {
		p, err := rombuilder.ParsePlatform(platform)
		if err != nil {
			return opts, err
		}
		opts.Platform = p
	}
	if flags.Changed("aoc-dir") {
		opts.AocDir = aocDir
	}
	if flags.Changed("other-platform-actorinfo") {
		opts.OtherPlatformActorInfo = otherPlatformActorInfo
	}
	if flags.Changed("workers") {
		opts.MaxWorkers = workers
	}
	if flags.Changed("message-converter") || opts.MessageConverter == "" {
		opts.MessageConverter = messageConverter
	}
	if flags.Changed("skip-messages") {
		opts.SkipMessages = skipMessages
	}

	return opts, nil
}

func init() {
	bindFlags(Cmd)
}

// bindFlags registers the unbuild flags on cmd and resets them to defaults.
func bindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&platform, "platform", "p", "", "ROM platform (cafe or nx)")
	flags.StringVar(&aocDir, "aoc-dir", "", "DLC directory (romfs on Switch, 0010 on Wii U)")
	flags.StringVar(&otherPlatformActorInfo, "other-platform-actorinfo", "", "ActorInfo.product.byml from the other platform")
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.IntVarP(&workers, "workers", "j", 0, "Worker count (0 means all CPUs)")
	flags.StringVar(&messageConverter, "message-converter", rombuilder.DefaultMessageConverter, "Message table converter command line")
	flags.BoolVar(&skipMessages, "skip-messages", false, "Do not convert message tables")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	flags.BoolVar(&jsonLog, "json-log", false, "Log in JSON format")
}

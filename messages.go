// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/woozymasta/rombuilder/internal/fsutil"
	"github.com/woozymasta/rombuilder/internal/logger"
)

// Message table layout.
const (
	messageDirName   = "Message"
	messageExtension = ".msbt"
)

// ConvertMessages runs the external converter on destDir/Message and then
// deletes every .msbt file below it. The converter is a shell-like command line;
// the message directory is appended as its last argument. An empty converter or
// a missing Message directory skips the pass.
func ConvertMessages(ctx context.Context, destDir string, converter string) error {
	msgDir := filepath.Join(destDir, messageDirName)
	if ok, err := fsutil.Exists(msgDir); err != nil {
		return fmt.Errorf("stat %s: %w", msgDir, err)
	} else if !ok {
		logger.Info("no message directory, skipping message tables", "dir", msgDir)
		return nil
	}

	args, err := shlex.Split(converter)
	if err != nil {
		return fmt.Errorf("%w: parse command %q: %w", ErrMessageConverter, converter, err)
	}
	if len(args) == 0 {
		logger.Info("message converter not configured, skipping message tables")
		return nil
	}
	args = append(args, msgDir)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	logger.Info("converting message tables", "command", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMessageConverter, strings.Join(args, " "), err)
	}

	removed, err := removeByExtension(msgDir, messageExtension)
	if err != nil {
		return err
	}
	logger.Info("converted message tables", "removed", removed)

	return nil
}

// removeByExtension deletes regular files below root whose name ends with ext.
func removeByExtension(root string, ext string) (int, error) {
	var targets []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), ext) {
			targets = append(targets, p)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", root, err)
	}

	for _, p := range targets {
		if err := os.Remove(p); err != nil {
			return 0, fmt.Errorf("remove %s: %w", p, err)
		}
	}

	return len(targets), nil
}

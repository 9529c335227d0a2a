// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"context"

	"github.com/woozymasta/rombuilder/internal/logger"
)

// Names of the built-in post-processing stages.
const (
	StageActorInfo    = "actorinfo"
	StageEventInfo    = "eventinfo"
	StageQuestProduct = "questproduct"
	StageGameData     = "gamedata"
)

// PostProcessEnv is what a post-processing stage gets to work with.
type PostProcessEnv struct {
	// DestDir is the unbuilt source tree.
	DestDir string
	// Platform is the ROM platform.
	Platform Platform
	// OtherPlatformActorInfo is the optional actor info table of the other platform.
	OtherPlatformActorInfo string
}

// PostProcessor is one named stage run after map units are merged.
type PostProcessor struct {
	// Run performs the stage. A nil Run is skipped.
	Run func(ctx context.Context, env PostProcessEnv) error
	// Name identifies the stage in logs and errors.
	Name string
}

// DefaultPostProcessors returns the actor info, event info, quest product and
// game data stages. They currently leave the tree untouched.
func DefaultPostProcessors() []PostProcessor {
	return []PostProcessor{
		{Name: StageActorInfo, Run: processActorInfo},
		{Name: StageEventInfo, Run: processEventInfo},
		{Name: StageQuestProduct, Run: processQuestProduct},
		{Name: StageGameData, Run: processGameData},
	}
}

// processActorInfo is reserved for the actor info table.
func processActorInfo(_ context.Context, env PostProcessEnv) error {
	logger.Debug("actor info stage has no work",
		"platform", env.Platform, "other_platform_actorinfo", env.OtherPlatformActorInfo)
	return nil
}

// processEventInfo is reserved for the event info table.
func processEventInfo(_ context.Context, env PostProcessEnv) error {
	logger.Debug("event info stage has no work", "dest", env.DestDir)
	return nil
}

// processQuestProduct is reserved for the quest product table.
func processQuestProduct(_ context.Context, env PostProcessEnv) error {
	logger.Debug("quest product stage has no work", "dest", env.DestDir)
	return nil
}

// processGameData is reserved for game data and save data tables.
func processGameData(_ context.Context, env PostProcessEnv) error {
	logger.Debug("game data stage has no work", "dest", env.DestDir)
	return nil
}

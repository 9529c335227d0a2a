// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/rombuilder/internal/testutil"
)

func requireCommand(t *testing.T, name string) {
	t.Helper()

	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestConvertMessagesRemovesBinaries(t *testing.T) {
	t.Parallel()
	requireCommand(t, "true")

	dest := t.TempDir()
	testutil.WriteTree(t, dest, map[string][]byte{
		"Message/Msg_USen.product/ActorType/Foo.msbt": []byte("MsgStdBn"),
		"Message/Msg_USen.product/ActorType/Foo.msyt": []byte("entries: {}"),
		"Message/Msg_USen.product/Root.msbt":          []byte("MsgStdBn"),
		"Actor/Foo.msbt":                              []byte("outside"),
	})

	require.NoError(t, ConvertMessages(context.Background(), dest, "true export -d"))

	assert.Equal(t, map[string][]byte{
		"Message/Msg_USen.product/ActorType/Foo.msyt": []byte("entries: {}"),
		"Actor/Foo.msbt":                              []byte("outside"),
	}, testutil.ReadTree(t, dest))
}

func TestConvertMessagesFailure(t *testing.T) {
	t.Parallel()
	requireCommand(t, "false")

	dest := t.TempDir()
	testutil.WriteTree(t, dest, map[string][]byte{
		"Message/Root.msbt": []byte("MsgStdBn"),
	})

	err := ConvertMessages(context.Background(), dest, "false")
	require.ErrorIs(t, err, ErrMessageConverter)
	assert.Contains(t, testutil.ReadTree(t, dest), "Message/Root.msbt", "binaries must survive a failed conversion")
}

func TestConvertMessagesSkips(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	require.NoError(t, ConvertMessages(context.Background(), dest, "definitely-not-a-command"))

	testutil.WriteTree(t, dest, map[string][]byte{"Message/Root.msbt": []byte("x")})
	require.NoError(t, ConvertMessages(context.Background(), dest, "   "))
	assert.Contains(t, testutil.ReadTree(t, dest), "Message/Root.msbt")

	err := ConvertMessages(context.Background(), dest, `msyt "export`)
	require.ErrorIs(t, err, ErrMessageConverter)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
)

func TestConfirmDialogDefaultsToCancel(t *testing.T) {
	dialog := NewConfirmDialog(styles.NewTheme())
	dialog.Show("rm -rf build", "rm -f or -r can permanently delete files!")
	require.True(t, dialog.IsVisible())

	// Enter with no navigation resolves to Cancel.
	cmd, consumed := dialog.Update(keyMsg("enter"))
	require.True(t, consumed)
	require.NotNil(t, cmd)

	msg := cmd().(ConfirmResponseMsg)
	assert.False(t, msg.Approved)
	assert.Equal(t, "rm -rf build", msg.Command)
	assert.False(t, dialog.IsVisible())
}

func TestConfirmDialogRunAnyway(t *testing.T) {
	dialog := NewConfirmDialog(styles.NewTheme())
	dialog.Show("sudo reboot", "sudo gives this command full system access.")

	_, _ = dialog.Update(keyMsg("tab"))
	cmd, _ := dialog.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	msg := cmd().(ConfirmResponseMsg)
	assert.True(t, msg.Approved)
	assert.Equal(t, "sudo reboot", msg.Command)
}

func TestConfirmDialogEscapeCancels(t *testing.T) {
	dialog := NewConfirmDialog(styles.NewTheme())
	dialog.Show("mkfs /dev/sda1", "mkfs formats a disk!")

	cmd, consumed := dialog.Update(keyMsg("escape"))
	require.True(t, consumed)
	msg := cmd().(ConfirmResponseMsg)
	assert.False(t, msg.Approved)
}

func TestConfirmDialogQuickKeys(t *testing.T) {
	dialog := NewConfirmDialog(styles.NewTheme())
	dialog.Show("kill -9 123", "kill -9 force-kills without cleanup.")

	cmd, _ := dialog.Update(keyMsg("y"))
	require.NotNil(t, cmd)
	assert.True(t, cmd().(ConfirmResponseMsg).Approved)

	dialog.Show("kill -9 123", "kill -9 force-kills without cleanup.")
	cmd, _ = dialog.Update(keyMsg("n"))
	require.NotNil(t, cmd)
	assert.False(t, cmd().(ConfirmResponseMsg).Approved)
}

func TestConfirmDialogSwallowsKeysWhileVisible(t *testing.T) {
	dialog := NewConfirmDialog(styles.NewTheme())
	dialog.Show("x", "w")

	cmd, consumed := dialog.Update(keyMsg("q"))
	assert.True(t, consumed)
	assert.Nil(t, cmd)
	assert.True(t, dialog.IsVisible())
}

func TestConfirmDialogHiddenIgnoresInput(t *testing.T) {
	dialog := NewConfirmDialog(styles.NewTheme())
	_, consumed := dialog.Update(keyMsg("enter"))
	assert.False(t, consumed)
	assert.Empty(t, dialog.View())
}

func TestConfirmDialogViewShowsWarning(t *testing.T) {
	dialog := NewConfirmDialog(styles.NewTheme())
	dialog.Show("chmod 777 /", "chmod 777 makes files world-writable.")

	view := dialog.View()
	assert.Contains(t, view, "chmod 777")
	assert.Contains(t, view, "world-writable")
	assert.Contains(t, view, "Run Anyway")
	assert.Contains(t, view, "Cancel")
}

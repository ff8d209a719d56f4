// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"cozyterm"}, argv...)
	t.Cleanup(func() { os.Args = old })
	return Parse()
}

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parseArgs(t)
	assert.Equal(t, CmdTUI, cmd)
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"tui"}, CmdTUI},
		{[]string{"ask", "what", "is", "sed"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"history"}, CmdHistory},
		{[]string{"hist", "50"}, CmdHistory},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"bogus"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := parseArgs(t, tt.argv...)
		assert.Equal(t, tt.want, cmd, "%v", tt.argv)
	}
}

func TestParseAskJoinsQuery(t *testing.T) {
	cmd, args := parseArgs(t, "ask", "why", "did", "tar", "fail")
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "why did tar fail", args.Query)
}

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{
		"-m", "claude-haiku-3-5", "--quiet", "chat", "--no-explain",
	})
	assert.Equal(t, "claude-haiku-3-5", args.Model)
	assert.True(t, args.Quiet)
	assert.True(t, args.NoExplain)
	assert.Equal(t, []string{"chat"}, remaining)
}

func TestParseGlobalFlagsBeforeAndAfterCommand(t *testing.T) {
	cmd, args := parseArgs(t, "history", "20", "--quiet")
	assert.Equal(t, CmdHistory, cmd)
	assert.True(t, args.Quiet)
	assert.Equal(t, []string{"20"}, args.Raw)
}

func TestParseModelFlagMissingValue(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--model"})
	assert.Empty(t, args.Model)
	assert.Empty(t, remaining)
}

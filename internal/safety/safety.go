// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package safety detects destructive shell commands before they run.
//
// Detection is an ordered list of regular expression rules over the raw
// command text. The first matching rule wins; a command matching several
// rules surfaces only the earliest warning. The rules are pattern tests,
// not a shell parser - unusual quoting or spacing can slip past them.
// That is a documented limitation: the check gates a confirmation dialog,
// it is not a sandbox.
package safety

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rule pairs a compiled pattern with the warning shown to the user when
// the pattern matches.
type Rule struct {
	Pattern *regexp.Regexp
	Warning string
}

// Verdict is the result of classifying one command.
type Verdict struct {
	// Flagged is true when any rule matched.
	Flagged bool

	// Warning is the matched rule's warning text, empty when not flagged.
	Warning string
}

// rules is the ordered rule list, built once at init and never mutated.
// Safe for concurrent reads. Order matters: evaluation stops at the first
// match, so the more specific root-path rule sits after the general rm
// rule deliberately, matching the warning users have come to expect.
var rules = []Rule{
	{regexp.MustCompile(`(?i)\brm\s+(-[a-zA-Z]*f|-[a-zA-Z]*r|--force|--recursive)`),
		"This rm command uses force/recursive flags and could delete many files permanently."},
	{regexp.MustCompile(`(?i)\brm\s+-rf\s+/`),
		"This would recursively delete from the root filesystem!"},
	{regexp.MustCompile(`\bsudo\b`),
		"This command runs with elevated privileges. Make sure you trust it."},
	{regexp.MustCompile(`\bmkfs\b`),
		"This formats a filesystem, which destroys all data on the target."},
	{regexp.MustCompile(`(?i)\bdd\s+.*\bof=/dev/`),
		"This writes directly to a device, which can destroy data."},
	{regexp.MustCompile(`>\s*/dev/sd[a-z]`),
		"This redirects output directly to a block device."},
	{regexp.MustCompile(`\bchmod\s+(-R\s+)?777\b`),
		"Setting 777 permissions makes files readable/writable/executable by everyone."},
	{regexp.MustCompile(`\bchown\s+-R\b`),
		"Recursive ownership changes can affect many files."},
	{regexp.MustCompile(`:\(\)\{\s*:\|:&\s*\};:`),
		"This is a fork bomb that will crash your system."},
	{regexp.MustCompile(`\bkill\s+-9\b`),
		"Force-killing a process can cause data loss."},
	{regexp.MustCompile(`\bkillall\b`),
		"This kills all processes matching a name."},
	{regexp.MustCompile(`\b>\s*/etc/`),
		"This overwrites a system configuration file."},
	{regexp.MustCompile(`\bcurl\b.*\|\s*(bash|sh)\b`),
		"Piping a remote script directly to a shell is risky."},
	{regexp.MustCompile(`\bwget\b.*\|\s*(bash|sh)\b`),
		"Piping a remote script directly to a shell is risky."},
}

// Rules returns the ordered rule list. The returned slice must be treated
// as read-only.
func Rules() []Rule {
	return rules
}

// Check classifies a command as destructive or safe.
//
// The command is NFKC-normalized so homoglyph spellings cannot defeat the
// patterns, then trimmed so incidental padding neither defeats nor falsely
// triggers a rule. Check is a total function: it never fails, and the same
// input always yields the same Verdict.
func Check(command string) Verdict {
	command = strings.TrimSpace(norm.NFKC.String(command))
	for _, r := range rules {
		if r.Pattern.MatchString(command) {
			return Verdict{Flagged: true, Warning: r.Warning}
		}
	}
	return Verdict{}
}

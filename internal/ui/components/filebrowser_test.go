// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
)

func newTestBrowser(t *testing.T, files map[string]string, dirs ...string) *FileBrowser {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	browser := NewFileBrowser(root, styles.NewTheme())
	t.Cleanup(func() { browser.Close() })
	return browser
}

func TestFileBrowserSortsDirsFirst(t *testing.T) {
	browser := newTestBrowser(t,
		map[string]string{"zeta.txt": "", "alpha.txt": "", ".hidden": ""},
		"src", "docs")

	var names []string
	for _, e := range browser.entries {
		names = append(names, e.name)
	}
	assert.Equal(t, []string{"docs", "src", "alpha.txt", "zeta.txt", ".hidden"}, names)
}

func TestFileBrowserSelectFile(t *testing.T) {
	browser := newTestBrowser(t, map[string]string{"notes.md": "hello"})
	browser.Focus()

	cmd, consumed := browser.Update(keyMsg("enter"))
	require.True(t, consumed)
	require.NotNil(t, cmd)

	msg, ok := cmd().(FileSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "notes.md", msg.Name)
	assert.Equal(t, int64(5), msg.Size)
	assert.Equal(t, filepath.Join(browser.Dir(), "notes.md"), msg.Path)
}

func TestFileBrowserDescendAndAscend(t *testing.T) {
	browser := newTestBrowser(t, map[string]string{"top.txt": ""}, "sub")
	browser.Focus()
	root := browser.Dir()

	// First entry is the directory; Enter descends.
	cmd, _ := browser.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(DirChangedMsg)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "sub"), msg.Path)
	assert.Equal(t, filepath.Join(root, "sub"), browser.Dir())

	// Backspace goes back up.
	cmd, _ = browser.Update(keyMsg("backspace"))
	require.NotNil(t, cmd)
	assert.Equal(t, root, cmd().(DirChangedMsg).Path)
	assert.Equal(t, root, browser.Dir())
}

func TestFileBrowserCursorClamps(t *testing.T) {
	browser := newTestBrowser(t, map[string]string{"a.txt": "", "b.txt": ""})
	browser.Focus()

	_, _ = browser.Update(keyMsg("up")) // already at top
	assert.Equal(t, 0, browser.cursor)

	_, _ = browser.Update(keyMsg("down"))
	_, _ = browser.Update(keyMsg("down")) // already at bottom
	assert.Equal(t, 1, browser.cursor)
}

func TestFileBrowserIgnoresInputWhenBlurred(t *testing.T) {
	browser := newTestBrowser(t, map[string]string{"a.txt": ""})
	_, consumed := browser.Update(keyMsg("down"))
	assert.False(t, consumed)
}

func TestFileBrowserReloadDropsStaleDir(t *testing.T) {
	browser := newTestBrowser(t, map[string]string{"a.txt": ""}, "sub")
	browser.Focus()

	stale := dirReloadMsg{dir: "/somewhere/else", entries: []fileEntry{{name: "ghost"}}}
	_, consumed := browser.Update(stale)
	assert.True(t, consumed)
	for _, e := range browser.entries {
		assert.NotEqual(t, "ghost", e.name)
	}
}

func TestFileBrowserViewMarksCursor(t *testing.T) {
	browser := newTestBrowser(t, map[string]string{"one.txt": ""})
	browser.SetSize(30, 10)

	view := browser.View()
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "one.txt")
}

func TestReadFilePreview(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two"), 0o644))

	content, err := ReadFilePreview(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", content)

	_, err = ReadFilePreview(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestReadFilePreviewReplacesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe}, 0o644))

	content, err := ReadFilePreview(path)
	require.NoError(t, err)
	assert.Contains(t, content, "ok")
	assert.NotContains(t, content, "\xff")
}

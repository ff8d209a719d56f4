// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/engindearing-projects/cozyterm/internal/ui/styles"
	"github.com/engindearing-projects/cozyterm/internal/util"
)

// =============================================================================
// FILE BROWSER SIDEBAR
// =============================================================================

// FileSelectedMsg is emitted when the user picks a regular file.
type FileSelectedMsg struct {
	Path string
	Name string
	Size int64
}

// DirChangedMsg is emitted when the browser descends into a directory.
type DirChangedMsg struct {
	Path string
}

// dirReloadMsg carries a fresh entry listing after a filesystem event.
type dirReloadMsg struct {
	dir     string
	entries []fileEntry
}

// fileEntry is one row in the browser.
type fileEntry struct {
	name  string
	isDir bool
	size  int64
}

// filePreviewMax bounds how much of a selected file is read for the coach.
const filePreviewMax = 64 * 1024

// FileBrowser is the left sidebar: a keyboard-driven directory listing that
// refreshes itself when the directory changes on disk.
type FileBrowser struct {
	dir     string
	entries []fileEntry
	cursor  int
	offset  int

	focused bool
	width   int
	height  int

	watcher *fsnotify.Watcher

	theme *styles.Theme
}

// NewFileBrowser creates a browser rooted at dir. Watcher setup failure is
// not fatal: the browser still works, it just will not auto-refresh.
func NewFileBrowser(dir string, theme *styles.Theme) *FileBrowser {
	f := &FileBrowser{
		dir:    dir,
		theme:  theme,
		width:  30,
		height: 20,
	}

	if watcher, err := fsnotify.NewWatcher(); err == nil {
		f.watcher = watcher
		_ = watcher.Add(dir)
	}

	f.entries = readDirEntries(dir)
	return f
}

// Close releases the filesystem watcher.
func (f *FileBrowser) Close() error {
	if f.watcher == nil {
		return nil
	}
	return f.watcher.Close()
}

// Dir returns the directory currently listed.
func (f *FileBrowser) Dir() string {
	return f.dir
}

// Focus gives the browser keyboard focus.
func (f *FileBrowser) Focus() { f.focused = true }

// Blur removes keyboard focus.
func (f *FileBrowser) Blur() { f.focused = false }

// Focused reports whether the browser has keyboard focus.
func (f *FileBrowser) Focused() bool { return f.focused }

// SetSize updates the panel dimensions.
func (f *FileBrowser) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// SetDir switches to a new directory and rewires the watcher.
func (f *FileBrowser) SetDir(dir string) {
	if f.watcher != nil {
		_ = f.watcher.Remove(f.dir)
		_ = f.watcher.Add(dir)
	}
	f.dir = dir
	f.entries = readDirEntries(dir)
	f.cursor = 0
	f.offset = 0
}

// WatchEvents returns a command that blocks on the next filesystem event and
// reloads the listing. The app re-issues it after each dirReloadMsg.
func (f *FileBrowser) WatchEvents() tea.Cmd {
	if f.watcher == nil {
		return nil
	}
	watcher := f.watcher
	dir := f.dir
	return func() tea.Msg {
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				return dirReloadMsg{dir: dir, entries: readDirEntries(dir)}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// Update handles browser input and reload events.
func (f *FileBrowser) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case dirReloadMsg:
		// Stale reloads from a previous directory are dropped.
		if msg.dir == f.dir {
			f.entries = msg.entries
			if f.cursor >= len(f.entries) {
				f.cursor = len(f.entries) - 1
			}
			if f.cursor < 0 {
				f.cursor = 0
			}
		}
		return f.WatchEvents(), true

	case tea.KeyMsg:
		if !f.focused {
			return nil, false
		}
		switch msg.String() {
		case "up", "k":
			if f.cursor > 0 {
				f.cursor--
			}
			f.scrollToCursor()
			return nil, true

		case "down", "j":
			if f.cursor < len(f.entries)-1 {
				f.cursor++
			}
			f.scrollToCursor()
			return nil, true

		case "g", "home":
			f.cursor = 0
			f.offset = 0
			return nil, true

		case "G", "end":
			f.cursor = len(f.entries) - 1
			f.scrollToCursor()
			return nil, true

		case "backspace", "left":
			parent := filepath.Dir(f.dir)
			if parent != f.dir {
				f.SetDir(parent)
				return func() tea.Msg { return DirChangedMsg{Path: parent} }, true
			}
			return nil, true

		case "enter", "right":
			return f.openSelected(), true
		}
	}

	return nil, false
}

// openSelected descends into a directory or emits a file selection.
func (f *FileBrowser) openSelected() tea.Cmd {
	if f.cursor < 0 || f.cursor >= len(f.entries) {
		return nil
	}
	entry := f.entries[f.cursor]
	path := filepath.Join(f.dir, entry.name)

	if entry.isDir {
		f.SetDir(path)
		return func() tea.Msg { return DirChangedMsg{Path: path} }
	}
	return func() tea.Msg {
		return FileSelectedMsg{Path: path, Name: entry.name, Size: entry.size}
	}
}

// scrollToCursor keeps the cursor inside the visible window.
func (f *FileBrowser) scrollToCursor() {
	visible := f.visibleRows()
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+visible {
		f.offset = f.cursor - visible + 1
	}
}

// visibleRows returns how many entries fit in the panel.
func (f *FileBrowser) visibleRows() int {
	rows := f.height - 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View renders the browser panel.
func (f *FileBrowser) View() string {
	var b strings.Builder

	title := util.TruncateWidth(filepath.Base(f.dir)+"/", f.width-2)
	b.WriteString(f.theme.PanelTitle.Render(title))
	b.WriteString("\n")

	if len(f.entries) == 0 {
		b.WriteString(f.theme.FileMeta.Render("(empty)"))
		return b.String()
	}

	visible := f.visibleRows()
	end := f.offset + visible
	if end > len(f.entries) {
		end = len(f.entries)
	}

	for i := f.offset; i < end; i++ {
		entry := f.entries[i]

		name := entry.name
		if entry.isDir {
			name += "/"
		}
		name = util.TruncateWidth(name, f.width-4)

		style := f.theme.FileEntry
		if entry.isDir {
			style = f.theme.FileDir
		}
		if f.focused && i == f.cursor {
			style = f.theme.FileSelected
		}

		cursor := "  "
		if i == f.cursor {
			cursor = "> "
		}
		b.WriteString(cursor + style.Render(name))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// ReadFilePreview reads up to filePreviewMax bytes of a file for the coach.
func ReadFilePreview(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, filePreviewMax)
	n, err := file.Read(buf)
	if n == 0 && err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(buf[:n]), "�"), nil
}

// readDirEntries lists a directory: directories first, then files, each
// group alphabetical. Hidden dotfiles sort after visible names.
func readDirEntries(dir string) []fileEntry {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var entries []fileEntry
	for _, d := range dirents {
		entry := fileEntry{name: d.Name(), isDir: d.IsDir()}
		if info, err := d.Info(); err == nil {
			entry.size = info.Size()
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.isDir != b.isDir {
			return a.isDir
		}
		aHidden := strings.HasPrefix(a.name, ".")
		bHidden := strings.HasPrefix(b.name, ".")
		if aHidden != bHidden {
			return bHidden
		}
		return a.name < b.name
	})
	return entries
}

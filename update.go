package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferryfm/ferry/internal/bulkrename"
	"github.com/ferryfm/ferry/internal/fileops"
	"github.com/ferryfm/ferry/internal/listing"
)

// listTopY is the screen row of the first file row: header, address bar,
// border and column header sit above it.
const listTopY = 4

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("⛴ Ferry - File Manager"),
		tea.EnableMouseAllMotion,
		waitForWatchEvent(m.watcher),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Clear expired status messages
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width == m.width && msg.Height == m.height {
			return m, nil
		}
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case watchEventMsg:
		// Something changed in the current directory; re-read the listing.
		// Dialog modes keep their state, only the rows refresh.
		m.loadFiles()
		return m, waitForWatchEvent(m.watcher)

	case fileOpenResultMsg:
		if msg.message != "" {
			m.setStatus(msg.message)
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeErrorDialog:
			// Any key dismisses the error dialog
			m.mode = modeNormal
			return m, nil

		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)

		case modeConfirmOverwrite:
			return m.updateConfirmOverwrite(msg)

		case modeRename:
			return m.updateRename(msg)

		case modeCreateFile, modeCreateDir:
			return m.updateCreate(msg)

		case modeGoto:
			return m.updateGoto(msg)

		case modeFilter:
			return m.updateFilter(msg)

		case modeSortMenu:
			return m.updateSortMenu(msg)

		case modeBulkRename:
			return m.updateBulkRename(msg)

		case modeHelp:
			switch msg.String() {
			case "ctrl+c", "esc", "q", "?":
				m.mode = modeNormal
				m.helpScroll = 0
			case "j", "down":
				m.helpScroll++
			case "k", "up":
				if m.helpScroll > 0 {
					m.helpScroll--
				}
			case "g":
				m.helpScroll = 0
			}
			return m, nil

		case modeNormal:
			return m.updateNormal(msg)
		}
	}

	return m, cmd
}

func (m *model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.saveConfig()
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorInBounds()
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.ensureCursorInBounds()
		}

	case "g", "home":
		m.cursor = 0
		m.ensureCursorInBounds()

	case "G", "end":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
			m.ensureCursorInBounds()
		}

	case "pgup":
		m.cursor -= m.contentRows()
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorInBounds()

	case "pgdown":
		m.cursor += m.contentRows()
		if m.cursor > len(m.visible)-1 {
			m.cursor = len(m.visible) - 1
		}
		m.ensureCursorInBounds()

	case "enter", "l", "right":
		return m.openCurrent()

	case "backspace", "h", "left":
		m.goUp()

	case "alt+left", "[":
		m.goBack()

	case "alt+right", "]":
		m.goForward()

	case "~":
		if home, err := os.UserHomeDir(); err == nil {
			m.navigateTo(home)
		}

	case " ":
		m.toggleSelection()
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.ensureCursorInBounds()
		}

	case "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.applyFilter()
		} else if len(m.selected) > 0 {
			m.clearSelection()
		}

	case "c":
		if paths := m.selectionPaths(); len(paths) > 0 {
			m.clipboard.Stage(paths, fileops.OpCopy)
			m.setStatus("File copied to clipboard!")
		}

	case "x":
		if paths := m.selectionPaths(); len(paths) > 0 {
			m.clipboard.Stage(paths, fileops.OpCut)
			m.setStatus("File copied to clipboard!")
		}

	case "v":
		return m.startPaste()

	case "y":
		m.copyPath(m.selectionPaths())

	case "o":
		if entry, ok := m.currentEntry(); ok && entry.Name != ".." {
			return m, m.openExternal(entry.Path)
		}

	case "e":
		if entry, ok := m.currentEntry(); ok && !entry.IsDir {
			return m, m.editFile(entry.Path)
		}

	case "n":
		m.mode = modeCreateFile
		m.textInput.Placeholder = "New file name"
		m.textInput.SetValue("")
		m.textInput.Focus()
		return m, textinput.Blink

	case "N":
		m.mode = modeCreateDir
		m.textInput.Placeholder = "New folder name"
		m.textInput.SetValue("")
		m.textInput.Focus()
		return m, textinput.Blink

	case "r", "f2":
		if entry, ok := m.currentEntry(); ok && entry.Name != ".." {
			m.mode = modeRename
			m.textInput.Placeholder = "New name"
			m.textInput.SetValue(entry.Name)
			m.textInput.CursorEnd()
			m.textInput.Focus()
			return m, textinput.Blink
		}

	case "R":
		m.mode = modeBulkRename
		m.resetBulkRenameForm()
		m.brOnlySelected = len(m.selected) > 0
		m.brInputs[brFieldPrefix].Focus()
		return m, textinput.Blink

	case "d", "delete":
		targets := m.selectionPaths()
		if len(targets) == 0 {
			break
		}
		m.deleteTargets = targets
		if m.config.ConfirmDelete {
			m.mode = modeConfirmDelete
		} else {
			m.doDelete()
		}

	case "s":
		m.mode = modeSortMenu
		m.sortMenuCursor = int(m.sortField)

	case "/":
		m.mode = modeFilter
		m.filterInput.Focus()
		return m, textinput.Blink

	case ":":
		m.mode = modeGoto
		m.textInput.Placeholder = "Go to path"
		m.textInput.SetValue("")
		m.textInput.Focus()
		return m, textinput.Blink

	case ".":
		m.showHidden = !m.showHidden
		m.loadFiles()
		if m.showHidden {
			m.setStatus("showing hidden files")
		} else {
			m.setStatus("hiding hidden files")
		}

	case "f5", "ctrl+r":
		m.loadFiles()
		m.setStatus("refreshed")

	case "?":
		m.mode = modeHelp
		m.helpScroll = 0
	}

	return m, nil
}

// openCurrent opens the entry under the cursor: directories are entered,
// files handed to the platform's default application.
func (m *model) openCurrent() (tea.Model, tea.Cmd) {
	entry, ok := m.currentEntry()
	if !ok {
		return m, nil
	}
	if entry.IsDir {
		m.navigateTo(entry.Path)
		return m, nil
	}
	return m, m.openExternal(entry.Path)
}

func (m *model) startPaste() (tea.Model, tea.Cmd) {
	if m.clipboard.Empty() {
		m.setStatus("Clipboard is empty!")
		return m, nil
	}
	if dups := m.clipboard.Conflicts(m.currentDir); len(dups) > 0 {
		m.pending = &overwriteRequest{destDir: m.currentDir}
		m.overwriteNames = dups
		m.mode = modeConfirmOverwrite
		return m, nil
	}
	m.doPaste(m.currentDir)
	return m, nil
}

func (m *model) doPaste(destDir string) {
	wasCut := m.clipboard.Op == fileops.OpCut
	err := m.clipboard.Paste(destDir)
	switch {
	case err == nil:
		if wasCut {
			m.setStatus("File moved!")
		} else {
			m.setStatus("File pasted!")
		}
	case errors.Is(err, fileops.ErrSamePath):
		m.setStatus("You cannot overwrite the same file!")
	case errors.Is(err, fileops.ErrDestInsideSource):
		m.setStatus("You cannot paste a folder into itself!")
	case os.IsPermission(err):
		m.setStatus("No permission to copy the file!")
	case os.IsNotExist(err):
		m.setStatus("Cannot find the source file!")
	default:
		m.showError("PASTE FAILED", err.Error())
	}
	m.clearSelection()
	m.loadFiles()
}

func (m *model) startDrop(sources []string, destDir string) (tea.Model, tea.Cmd) {
	if dups := fileops.MoveIntoConflicts(sources, destDir); len(dups) > 0 {
		m.pending = &overwriteRequest{drop: true, sources: sources, destDir: destDir}
		m.overwriteNames = dups
		m.mode = modeConfirmOverwrite
		return m, nil
	}
	m.doDrop(sources, destDir)
	return m, nil
}

func (m *model) doDrop(sources []string, destDir string) {
	err := fileops.MoveInto(sources, destDir)
	switch {
	case err == nil:
		m.setStatus(fmt.Sprintf("moved %d item(s) to %s", len(sources), filepath.Base(destDir)))
	case errors.Is(err, fileops.ErrMoveIntoSelf):
		m.setStatus("You cannot move a folder into itself!")
	case errors.Is(err, fileops.ErrNotADir):
		m.setStatus("Drop target is not a folder!")
	case os.IsNotExist(err):
		m.setStatus("File not found!")
	default:
		m.showError("MOVE FAILED", err.Error())
	}
	m.clearSelection()
	m.loadFiles()
}

func (m *model) doDelete() {
	targets := m.deleteTargets
	m.deleteTargets = nil
	if len(targets) == 0 {
		return
	}
	if err := fileops.DeleteMultiple(targets); err != nil {
		m.showError("DELETE FAILED", err.Error())
	} else if len(targets) == 1 {
		m.setStatus(fmt.Sprintf("deleted: %s", filepath.Base(targets[0])))
	} else {
		m.setStatus(fmt.Sprintf("deleted %d items", len(targets)))
	}
	m.clearSelection()
	m.loadFiles()
}

func (m *model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeNormal
		m.doDelete()
	case "n", "N", "esc", "ctrl+c":
		m.deleteTargets = nil
		m.mode = modeNormal
	}
	return m, nil
}

func (m *model) updateConfirmOverwrite(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeNormal
		if m.pending != nil {
			if m.pending.drop {
				m.doDrop(m.pending.sources, m.pending.destDir)
			} else {
				m.doPaste(m.pending.destDir)
			}
		}
		m.pending = nil
		m.overwriteNames = nil
	case "n", "N", "esc", "ctrl+c":
		// Cancelled: a pending paste also empties the clipboard, matching
		// the cut markers disappearing
		if m.pending != nil && !m.pending.drop {
			m.clipboard.Clear()
		}
		m.pending = nil
		m.overwriteNames = nil
		m.mode = modeNormal
		m.loadFiles()
	}
	return m, nil
}

func (m *model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = modeNormal
		m.textInput.SetValue("")
	case "enter":
		newName := m.textInput.Value()
		if newName != "" {
			if entry, ok := m.currentEntry(); ok && entry.Name != ".." {
				if err := fileops.Rename(entry.Path, newName); err != nil {
					if errors.Is(err, os.ErrExist) {
						m.setStatus("File/folder with that name already exists!")
					} else {
						m.showError("RENAME FAILED", err.Error())
					}
				} else {
					m.setStatus(fmt.Sprintf("renamed to: %s", newName))
					m.loadFiles()
				}
			}
		}
		m.mode = modeNormal
		m.textInput.SetValue("")
	default:
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m *model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = modeNormal
		m.textInput.SetValue("")
	case "enter":
		name := m.textInput.Value()
		if name != "" {
			var err error
			if m.mode == modeCreateDir {
				err = fileops.CreateDir(m.currentDir, name)
			} else {
				err = fileops.CreateFile(m.currentDir, name)
			}
			if err != nil {
				if errors.Is(err, os.ErrExist) {
					m.setStatus("File/folder with that name already exists!")
				} else if m.mode == modeCreateDir {
					m.showError("CREATE FOLDER FAILED", err.Error())
				} else {
					m.showError("CREATE FILE FAILED", err.Error())
				}
			} else {
				m.setStatus(fmt.Sprintf("created: %s", name))
				m.loadFiles()
				m.moveCursorTo(name)
			}
		}
		m.mode = modeNormal
		m.textInput.SetValue("")
	default:
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m *model) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = modeNormal
		m.textInput.SetValue("")
	case "enter":
		raw := strings.TrimSpace(m.textInput.Value())
		m.mode = modeNormal
		m.textInput.SetValue("")
		if raw == "" {
			return m, nil
		}
		path := raw
		if path == "~" || strings.HasPrefix(path, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, strings.TrimPrefix(path, "~"))
			}
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.currentDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			m.setStatus("Invalid path!")
			return m, nil
		}
		m.navigateTo(path)
	default:
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m *model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c":
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.applyFilter()
		m.mode = modeNormal

	case "esc":
		// Progressive clearing: drop the query first, then leave the mode
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.applyFilter()
		} else {
			m.filterInput.Blur()
			m.mode = modeNormal
		}

	case "enter":
		// Keep the filter applied and go back to navigation
		m.filterInput.Blur()
		m.mode = modeNormal

	case "ctrl+f":
		m.fuzzyFilter = !m.fuzzyFilter
		m.applyFilter()
		if m.fuzzyFilter {
			m.setStatus("fuzzy filter")
		} else {
			m.setStatus("substring filter")
		}

	case "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorInBounds()
		}

	case "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.ensureCursorInBounds()
		}

	default:
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		if q := m.filterInput.Value(); q != "" {
			m.setStatus(fmt.Sprintf("Found %d files", len(m.visible)))
		} else {
			m.statusMsg = ""
		}
	}
	return m, cmd
}

func (m *model) updateSortMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := []listing.SortField{
		listing.SortByName,
		listing.SortByKind,
		listing.SortByModified,
		listing.SortBySize,
	}

	switch msg.String() {
	case "ctrl+c", "esc", "q", "s":
		m.mode = modeNormal

	case "j", "down":
		if m.sortMenuCursor < len(fields)-1 {
			m.sortMenuCursor++
		}

	case "k", "up":
		if m.sortMenuCursor > 0 {
			m.sortMenuCursor--
		}

	case "a", "o":
		m.sortAscending = !m.sortAscending
		m.resortEntries()

	case "enter":
		field := fields[m.sortMenuCursor]
		if field == m.sortField {
			// Choosing the active field flips the direction
			m.sortAscending = !m.sortAscending
		} else {
			m.sortField = field
			m.sortAscending = true
		}
		m.resortEntries()
		m.mode = modeNormal
		order := "ascending"
		if !m.sortAscending {
			order = "descending"
		}
		m.setStatus(fmt.Sprintf("sorted by: %s (%s)", m.sortField, order))
	}
	return m, nil
}

func (m *model) resortEntries() {
	listing.Sort(m.entries, m.sortField, m.sortAscending)
	m.applyFilter()
}

func (m *model) updateBulkRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = modeNormal
		m.resetBulkRenameForm()

	case "tab", "down":
		m.brInputs[m.brFocus].Blur()
		m.brFocus = (m.brFocus + 1) % brFieldCount
		m.brInputs[m.brFocus].Focus()
		return m, textinput.Blink

	case "shift+tab", "up":
		m.brInputs[m.brFocus].Blur()
		m.brFocus = (m.brFocus + brFieldCount - 1) % brFieldCount
		m.brInputs[m.brFocus].Focus()
		return m, textinput.Blink

	case "ctrl+o":
		m.brOnlySelected = !m.brOnlySelected

	case "enter":
		opts, err := m.bulkRenameOptions()
		if err != nil {
			m.setStatus(err.Error())
			return m, nil
		}
		if opts.OnlySelected && len(opts.Selected) == 0 {
			m.setStatus("No files were selected!")
			return m, nil
		}
		plan, err := bulkrename.Build(m.currentDir, opts)
		switch {
		case errors.Is(err, bulkrename.ErrIllegalChars):
			m.setStatus("Illegal characters in prefix!")
			return m, nil
		case errors.Is(err, bulkrename.ErrNoFiles):
			m.setStatus("No suitable files in given directory!")
			return m, nil
		case errors.Is(err, bulkrename.ErrTargetExists):
			m.setStatus("File already exists! Operation aborted!")
			return m, nil
		case err != nil:
			m.showError("BULK RENAME FAILED", err.Error())
			return m, nil
		}

		m.mode = modeNormal
		m.resetBulkRenameForm()
		if err := bulkrename.Apply(plan); err != nil {
			if errors.Is(err, bulkrename.ErrTargetExists) {
				m.setStatus("File already exists! Operation aborted!")
			} else {
				m.showError("BULK RENAME FAILED", err.Error())
			}
		} else {
			m.setStatus(fmt.Sprintf("renamed %d files", len(plan.Renames)))
		}
		m.clearSelection()
		m.loadFiles()

	default:
		m.brInputs[m.brFocus], cmd = m.brInputs[m.brFocus].Update(msg)
	}
	return m, cmd
}

// moveCursorTo puts the cursor on the row named name, when present.
func (m *model) moveCursorTo(name string) {
	for i, e := range m.visible {
		if e.Name == name {
			m.cursor = i
			m.ensureCursorInBounds()
			return
		}
	}
}

// rowAt maps a screen Y coordinate to an index into the visible rows,
// returning -1 when the coordinate is outside the list.
func (m *model) rowAt(y int) int {
	row := y - listTopY
	if row < 0 || row >= m.contentRows() {
		return -1
	}
	idx := m.scrollOffset + row
	if idx < 0 || idx >= len(m.visible) {
		return -1
	}
	return idx
}

func (m *model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Wheel scrolling works in the list modes
	if msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown) {
		switch m.mode {
		case modeNormal, modeFilter:
			if msg.Button == tea.MouseButtonWheelUp {
				if m.cursor > 0 {
					m.cursor--
				}
			} else {
				if m.cursor < len(m.visible)-1 {
					m.cursor++
				}
			}
			m.ensureCursorInBounds()
		case modeHelp:
			if msg.Button == tea.MouseButtonWheelUp {
				if m.helpScroll > 0 {
					m.helpScroll--
				}
			} else {
				m.helpScroll++
			}
		}
		return m, nil
	}

	if m.mode != modeNormal {
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		row := m.rowAt(msg.Y)
		if row < 0 {
			return m, nil
		}

		now := time.Now()
		isDoubleClick := !m.lastClickTime.IsZero() &&
			now.Sub(m.lastClickTime) <= doubleClickThreshold &&
			m.lastClickRow == row &&
			m.cursor == row

		if isDoubleClick {
			m.lastClickTime = time.Time{} // Reset to prevent triple-click
			m.dragArmed = false
			return m.openCurrent()
		}

		m.lastClickTime = now
		m.lastClickRow = row
		m.cursor = row
		m.ensureCursorInBounds()

		// Arm a drag: releasing over another directory moves the grabbed
		// selection there
		entry := m.visible[row]
		if entry.Name != ".." {
			if len(m.selected) > 0 && m.selected[entry.Path] {
				m.dragSources = m.selectionPaths()
			} else {
				m.dragSources = []string{entry.Path}
			}
			m.dragArmed = true
			m.pressRow = row
			m.dragHover = -1
		}
		return m, nil

	case msg.Action == tea.MouseActionMotion:
		if !m.dragArmed {
			return m, nil
		}
		row := m.rowAt(msg.Y)
		if row != m.pressRow {
			m.dragging = true
		}
		m.dragHover = row
		return m, nil

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		defer func() {
			m.dragArmed = false
			m.dragging = false
			m.dragSources = nil
			m.dragHover = -1
		}()

		if !m.dragging || m.dragHover < 0 || m.dragHover >= len(m.visible) {
			return m, nil
		}
		target := m.visible[m.dragHover]
		if !target.IsDir {
			// Dropping onto a file does nothing
			return m, nil
		}
		sources := m.dragSources
		for _, src := range sources {
			if src == target.Path {
				return m, nil
			}
		}
		return m.startDrop(sources, target.Path)
	}

	return m, nil
}

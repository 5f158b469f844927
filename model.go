package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferryfm/ferry/internal/bulkrename"
	"github.com/ferryfm/ferry/internal/config"
	"github.com/ferryfm/ferry/internal/fileops"
	"github.com/ferryfm/ferry/internal/listing"
	"github.com/ferryfm/ferry/internal/logger"
	"github.com/ferryfm/ferry/internal/nav"
	"github.com/ferryfm/ferry/internal/watch"
)

// watchEventMsg arrives when the watched directory's contents changed
type watchEventMsg struct{}

// fileOpenResultMsg reports the outcome of opening a file externally
type fileOpenResultMsg struct {
	message string
}

// Terminal dimension constants
const (
	minTerminalWidth  = 60 // Minimum usable width
	minTerminalHeight = 16 // Minimum usable height
	uiOverhead        = 7  // Header (1) + address (1) + borders (2) + column header (1) + status (1) + padding (1)
)

// Application behavior constants
const (
	statusMsgTTL         = 3 * time.Second
	doubleClickThreshold = 400 * time.Millisecond
)

type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeGoto
	modeRename
	modeCreateFile
	modeCreateDir
	modeConfirmDelete
	modeConfirmOverwrite
	modeBulkRename
	modeSortMenu
	modeHelp
	modeErrorDialog
)

// Bulk rename form fields
const (
	brFieldPrefix = iota
	brFieldStart
	brFieldExtension
	brFieldCount
)

// overwriteRequest holds a paste or drop that is waiting for the user to
// confirm overwriting existing entries.
type overwriteRequest struct {
	drop    bool     // true when it came from a drag-and-drop
	sources []string // drop sources; the clipboard holds paste sources
	destDir string
}

type model struct {
	mode mode

	config  *config.Config
	history *nav.History
	watcher *watch.Watcher

	currentDir string
	entries    []listing.Entry // Full listing of currentDir, ".." first
	visible    []listing.Entry // Listing after the filter
	matches    [][]int         // Matched character positions per visible entry

	cursor       int
	scrollOffset int
	selected     map[string]bool // Multi-selection by path

	clipboard      fileops.Clipboard
	pending        *overwriteRequest
	overwriteNames []string // Names shown in the overwrite confirmation
	deleteTargets  []string // Paths pending delete confirmation

	sortField     listing.SortField
	sortAscending bool
	showHidden    bool

	filterInput textinput.Model
	fuzzyFilter bool
	textInput   textinput.Model // goto, rename, create dialogs

	// Bulk rename form
	brInputs       [brFieldCount]textinput.Model
	brFocus        int
	brOnlySelected bool

	sortMenuCursor int
	helpScroll     int

	width  int
	height int

	statusMsg    string
	statusExpiry time.Time
	errorMsg     string
	errorDetails string

	// Mouse drag state
	dragArmed   bool
	dragging    bool
	dragSources []string
	dragHover   int // Row index under the pointer, -1 when none
	pressRow    int

	lastClickTime time.Time
	lastClickRow  int
}

func initialModel() model {
	cfg := config.Load()

	startDir := cfg.StartDir
	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		} else if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		} else {
			startDir = "/"
		}
	}

	fi := textinput.New()
	fi.Placeholder = "Filter by name..."
	fi.CharLimit = 256
	fi.Width = 40

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := model{
		mode:          modeNormal,
		config:        cfg,
		history:       nav.New(startDir),
		currentDir:    startDir,
		cursor:        0,
		selected:      make(map[string]bool),
		sortField:     sortFieldFromConfig(cfg.SortField),
		sortAscending: cfg.SortAscending,
		showHidden:    cfg.ShowHidden,
		filterInput:   fi,
		textInput:     ti,
		dragHover:     -1,
	}

	prefix := textinput.New()
	prefix.Placeholder = "prefix"
	prefix.CharLimit = 128
	prefix.Width = 20
	start := textinput.New()
	start.Placeholder = "0"
	start.CharLimit = 9
	start.Width = 9
	ext := textinput.New()
	ext.Placeholder = "all"
	ext.CharLimit = 16
	ext.Width = 10
	m.brInputs[brFieldPrefix] = prefix
	m.brInputs[brFieldStart] = start
	m.brInputs[brFieldExtension] = ext

	if w, err := watch.New(); err == nil {
		m.watcher = w
	} else {
		logger.Warn("directory watcher unavailable: %v", err)
	}

	m.loadFiles()
	return m
}

func sortFieldFromConfig(name string) listing.SortField {
	switch name {
	case "type":
		return listing.SortByKind
	case "modified":
		return listing.SortByModified
	case "size":
		return listing.SortBySize
	default:
		return listing.SortByName
	}
}

func sortFieldToConfig(field listing.SortField) string {
	switch field {
	case listing.SortByKind:
		return "type"
	case listing.SortByModified:
		return "modified"
	case listing.SortBySize:
		return "size"
	default:
		return "name"
	}
}

// loadFiles re-reads the current directory. Listings are never cached; every
// navigation and refresh comes straight from the filesystem.
func (m *model) loadFiles() {
	entries, err := listing.Read(m.currentDir, m.showHidden)
	if err != nil {
		m.showError("Cannot Read Directory", fmt.Sprintf("Failed to read %s: %v", m.currentDir, err))
		m.entries = nil
		m.visible = nil
		m.matches = nil
		return
	}

	// Parent row, when there is a parent to go to
	if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
		entries = append([]listing.Entry{{Path: parent, Name: "..", IsDir: true}}, entries...)
	}

	listing.Sort(entries, m.sortField, m.sortAscending)
	m.entries = entries
	m.applyFilter()

	// Drop selections that no longer exist in this listing
	if len(m.selected) > 0 {
		present := make(map[string]bool, len(entries))
		for _, e := range entries {
			present[e.Path] = true
		}
		for path := range m.selected {
			if !present[path] {
				delete(m.selected, path)
			}
		}
	}

	if m.watcher != nil {
		if err := m.watcher.Watch(m.currentDir); err != nil {
			logger.Warn("cannot watch %s: %v", m.currentDir, err)
		}
	}
}

// applyFilter recomputes the visible rows from the filter query.
func (m *model) applyFilter() {
	query := m.filterInput.Value()
	filterMode := listing.FilterSubstring
	if m.fuzzyFilter {
		filterMode = listing.FilterFuzzy
	}
	m.visible, m.matches = listing.Filter(m.entries, query, filterMode)
	m.ensureCursorInBounds()
}

func (m *model) ensureCursorInBounds() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.scrollOffset > m.cursor {
		m.scrollOffset = m.cursor
	}
	visibleRows := m.contentRows()
	if m.cursor >= m.scrollOffset+visibleRows {
		m.scrollOffset = m.cursor - visibleRows + 1
	}
	maxScroll := len(m.visible) - visibleRows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollOffset > maxScroll {
		m.scrollOffset = maxScroll
	}
}

// navigateTo enters dir and records it in the history.
func (m *model) navigateTo(dir string) {
	m.enterDir(dir, true)
}

// enterDir switches the listing to dir. History recording is skipped for
// back/forward moves, which manage their own position.
func (m *model) enterDir(dir string, record bool) {
	if _, err := os.ReadDir(dir); err != nil {
		if os.IsPermission(err) {
			m.setStatus("Access denied!")
		} else if os.IsNotExist(err) {
			m.setStatus("Invalid path!")
		} else {
			m.showError("Cannot Open Directory", err.Error())
		}
		return
	}

	if record {
		m.history.Visit(dir)
	}
	m.currentDir = dir
	m.cursor = 0
	m.scrollOffset = 0
	m.filterInput.SetValue("")
	m.loadFiles()
}

func (m *model) goBack() {
	if dir, ok := m.history.Back(); ok {
		m.enterDir(dir, false)
	}
}

func (m *model) goForward() {
	if dir, ok := m.history.Forward(); ok {
		m.enterDir(dir, false)
	}
}

func (m *model) goUp() {
	parent := filepath.Dir(m.currentDir)
	if parent != m.currentDir {
		m.navigateTo(parent)
	}
}

// currentEntry returns the entry under the cursor.
func (m *model) currentEntry() (listing.Entry, bool) {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return listing.Entry{}, false
	}
	return m.visible[m.cursor], true
}

// selectionPaths returns the selected paths, or the cursor entry when
// nothing is selected. The parent row is never part of a selection.
func (m *model) selectionPaths() []string {
	if len(m.selected) > 0 {
		paths := make([]string, 0, len(m.selected))
		for _, e := range m.entries {
			if e.Name != ".." && m.selected[e.Path] {
				paths = append(paths, e.Path)
			}
		}
		return paths
	}
	if entry, ok := m.currentEntry(); ok && entry.Name != ".." {
		return []string{entry.Path}
	}
	return nil
}

func (m *model) toggleSelection() {
	entry, ok := m.currentEntry()
	if !ok || entry.Name == ".." {
		return
	}
	if m.selected[entry.Path] {
		delete(m.selected, entry.Path)
	} else {
		m.selected[entry.Path] = true
	}
}

func (m *model) clearSelection() {
	m.selected = make(map[string]bool)
}

func (m *model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(statusMsgTTL)
}

func (m *model) showError(title string, details string) {
	logger.Error("%s: %s", title, details)
	m.errorMsg = title
	m.errorDetails = details
	m.mode = modeErrorDialog
}

// contentRows returns the number of file rows that fit on screen.
func (m *model) contentRows() int {
	rows := m.getSafeHeight() - uiOverhead
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *model) getSafeWidth() int {
	if m.width < minTerminalWidth {
		return minTerminalWidth
	}
	return m.width
}

func (m *model) getSafeHeight() int {
	if m.height < minTerminalHeight {
		return minTerminalHeight
	}
	return m.height
}

// bulkRenameOptions builds the engine options from the form state.
func (m *model) bulkRenameOptions() (bulkrename.Options, error) {
	startStr := m.brInputs[brFieldStart].Value()
	start := 0
	if startStr != "" {
		n, err := strconv.Atoi(startStr)
		if err != nil || n < 0 {
			return bulkrename.Options{}, fmt.Errorf("start number must be a non-negative integer")
		}
		start = n
	}

	return bulkrename.Options{
		Prefix:       m.brInputs[brFieldPrefix].Value(),
		Start:        start,
		Extension:    m.brInputs[brFieldExtension].Value(),
		OnlySelected: m.brOnlySelected,
		Selected:     m.selectionPaths(),
	}, nil
}

func (m *model) resetBulkRenameForm() {
	for i := range m.brInputs {
		m.brInputs[i].SetValue("")
		m.brInputs[i].Blur()
	}
	m.brFocus = brFieldPrefix
	m.brOnlySelected = false
}

// saveConfig persists the toggles that survive across sessions.
func (m *model) saveConfig() {
	m.config.ShowHidden = m.showHidden
	m.config.SortField = sortFieldToConfig(m.sortField)
	m.config.SortAscending = m.sortAscending
	if err := config.Save(m.config); err != nil {
		logger.Warn("failed to save config: %v", err)
	}
}

// waitForWatchEvent listens for the next change in the watched directory.
func waitForWatchEvent(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return nil
		}
		return watchEventMsg{}
	}
}

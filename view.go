package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ferryfm/ferry/internal/bulkrename"
	"github.com/ferryfm/ferry/internal/fileops"
	"github.com/ferryfm/ferry/internal/listing"
	"github.com/ferryfm/ferry/internal/utils"
)

const modTimeFormat = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	addressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Bold(true).
				Underline(true)

	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	symlinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("36"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("237"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	cutStyle = lipgloss.NewStyle().
			Faint(true)

	hoverStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	errorDialogStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("196")).
				Padding(1, 2)

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

func (m *model) View() string {
	if m.width < minTerminalWidth || m.height < minTerminalHeight {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: %dx%d",
			m.width, m.height, minTerminalWidth, minTerminalHeight)
	}

	switch m.mode {
	case modeHelp:
		return m.renderHelp()
	case modeErrorDialog:
		return m.renderDialog(m.renderErrorBox())
	case modeConfirmDelete:
		return m.renderDialog(m.renderConfirmDelete())
	case modeConfirmOverwrite:
		return m.renderDialog(m.renderConfirmOverwrite())
	case modeRename:
		return m.renderDialog(m.renderInputBox("Rename"))
	case modeCreateFile:
		return m.renderDialog(m.renderInputBox("New File"))
	case modeCreateDir:
		return m.renderDialog(m.renderInputBox("New Folder"))
	case modeGoto:
		return m.renderDialog(m.renderInputBox("Go To"))
	case modeSortMenu:
		return m.renderDialog(m.renderSortMenu())
	case modeBulkRename:
		return m.renderDialog(m.renderBulkRenameForm())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderAddressBar())
	b.WriteString("\n")
	b.WriteString(m.renderFileList())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHintBar())
	return b.String()
}

func (m *model) renderHeader() string {
	left := headerStyle.Render("⛴ Ferry")

	order := "↑"
	if !m.sortAscending {
		order = "↓"
	}
	parts := []string{fmt.Sprintf("sort: %s %s", m.sortField, order)}
	if m.showHidden {
		parts = append(parts, "hidden")
	}
	if !m.clipboard.Empty() {
		verb := "copy"
		if m.clipboard.Op == fileops.OpCut {
			verb = "cut"
		}
		parts = append(parts, fmt.Sprintf("clipboard: %d (%s)", len(m.clipboard.Paths), verb))
	}
	right := dimStyle.Render(strings.Join(parts, " │ "))

	gap := m.getSafeWidth() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *model) renderAddressBar() string {
	nav := ""
	if m.history.CanBack() {
		nav += "◀"
	} else {
		nav += " "
	}
	if m.history.CanForward() {
		nav += "▶"
	} else {
		nav += " "
	}

	path := m.currentDir
	maxPath := m.getSafeWidth() - len(nav) - 2
	if len(path) > maxPath && maxPath > 3 {
		path = "…" + path[len(path)-maxPath+1:]
	}

	line := addressStyle.Render(nav+" ") + path
	if q := m.filterInput.Value(); q != "" && m.mode != modeFilter {
		line += dimStyle.Render(fmt.Sprintf("  [filter: %s]", q))
	}
	return line
}

// columnWidths returns the fixed widths of the type, modified and size
// columns; the filename column takes whatever is left.
func (m *model) columnWidths() (name, kind, mod, size int) {
	kind = 12
	mod = len(modTimeFormat)
	size = 9
	// 2 for the border, 2 for padding, 2 for the selection marker,
	// 3 separators of 2 spaces each
	name = m.getSafeWidth() - 2 - 2 - 2 - kind - mod - size - 6
	if name < 10 {
		name = 10
	}
	return
}

func (m *model) renderFileList() string {
	nameW, kindW, modW, sizeW := m.columnWidths()
	innerWidth := m.getSafeWidth() - 2

	var rows []string

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %*s",
		nameW, "Filename", kindW, "Type", modW, "Modified", sizeW, "Size")
	rows = append(rows, columnHeaderStyle.Render(padLine(header, innerWidth)))

	visible := m.visible
	contentRows := m.contentRows()
	end := utils.Min(m.scrollOffset+contentRows, len(visible))

	for i := m.scrollOffset; i < end; i++ {
		rows = append(rows, m.renderRow(i, nameW, kindW, modW, sizeW, innerWidth))
	}
	for len(rows) < contentRows+1 {
		rows = append(rows, strings.Repeat(" ", innerWidth))
	}

	if len(visible) == 0 {
		empty := "  (empty)"
		if m.filterInput.Value() != "" {
			empty = "  no matches"
		}
		rows[1] = dimStyle.Render(padLine(empty, innerWidth))
	}

	content := strings.Join(rows, "\n")
	return listBoxStyle.Width(innerWidth).Render(content)
}

func (m *model) renderRow(i, nameW, kindW, modW, sizeW, lineWidth int) string {
	entry := m.visible[i]

	marker := "  "
	if entry.Name != ".." && m.selected[entry.Path] {
		marker = "✓ "
	}

	name := entry.Name
	if entry.IsSymlink && entry.LinkTarget != "" {
		name += " → " + entry.LinkTarget
	}
	name = utils.TruncateName(name, nameW)

	kind := ""
	mod := ""
	size := ""
	if entry.Name != ".." {
		kind = entry.Kind()
		mod = entry.ModTime.Format(modTimeFormat)
		if !entry.IsDir {
			size = utils.FormatFileSize(entry.Size)
		}
	}

	// Highlight matched characters while a filter is active
	styledName := name
	if i < len(m.matches) && m.matches[i] != nil && i != m.cursor {
		styledName = utils.HighlightMatches(name, m.matches[i])
	}

	pad := nameW - len([]rune(name))
	if pad < 0 {
		pad = 0
	}
	line := fmt.Sprintf("%s%s%s  %-*s  %-*s  %*s",
		marker, styledName, strings.Repeat(" ", pad), kindW, kind, modW, mod, sizeW, size)
	line = padLine(line, lineWidth)

	isCut := m.clipboard.Op == fileops.OpCut && m.clipboard.Contains(entry.Path)

	switch {
	case m.dragging && i == m.dragHover && entry.IsDir:
		return hoverStyle.Render(line)
	case i == m.cursor:
		return cursorStyle.Render(line)
	case isCut:
		return cutStyle.Render(line)
	case entry.Name != ".." && m.selected[entry.Path]:
		return selectedStyle.Render(line)
	case entry.IsSymlink:
		return symlinkStyle.Render(line)
	case entry.IsDir:
		return dirStyle.Render(line)
	default:
		return line
	}
}

// padLine pads or leaves a line so the row background reaches the border.
func padLine(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func (m *model) renderStatusBar() string {
	if m.mode == modeFilter {
		label := "filter"
		if m.fuzzyFilter {
			label = "fuzzy"
		}
		return fmt.Sprintf(" %s: %s", label, m.filterInput.View())
	}

	if m.statusMsg != "" {
		return " " + statusStyle.Render(m.statusMsg)
	}

	if entry, ok := m.currentEntry(); ok && entry.Name != ".." {
		info := entry.Kind()
		if !entry.IsDir {
			info += "  " + utils.FormatFileSizeColored(entry.Size)
		}
		pos := fmt.Sprintf("%d/%d", m.cursor+1, len(m.visible))
		if n := len(m.selected); n > 0 {
			pos += fmt.Sprintf("  %d selected", n)
		}
		return fmt.Sprintf(" %s  %s", dimStyle.Render(pos), info)
	}
	return ""
}

func (m *model) renderHintBar() string {
	if m.dragging {
		return dimStyle.Render(" drop on a folder to move, release elsewhere to cancel")
	}
	return dimStyle.Render(" ?: help  enter: open  c/x/v: copy/cut/paste  /: filter  q: quit")
}

func (m *model) renderDialog(box string) string {
	return lipgloss.Place(m.getSafeWidth(), m.getSafeHeight(),
		lipgloss.Center, lipgloss.Center, box)
}

func (m *model) renderInputBox(title string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("enter: confirm  esc: cancel"))
	return dialogStyle.Render(b.String())
}

func (m *model) renderConfirmDelete() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Delete"))
	b.WriteString("\n\n")
	b.WriteString(listNames(m.deleteTargets, 8))
	b.WriteString("\n")
	if len(m.deleteTargets) == 1 {
		b.WriteString("Delete this item?")
	} else {
		b.WriteString(fmt.Sprintf("Delete these %d items?", len(m.deleteTargets)))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("y: delete  n: cancel"))
	return dialogStyle.Render(b.String())
}

func (m *model) renderConfirmOverwrite() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Overwrite"))
	b.WriteString("\n\n")
	b.WriteString("The destination already contains:\n")
	b.WriteString(listNames(m.overwriteNames, 8))
	b.WriteString("\nOverwrite?")
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("y: overwrite  n: cancel"))
	return dialogStyle.Render(b.String())
}

func listNames(paths []string, max int) string {
	var b strings.Builder
	for i, p := range paths {
		if i >= max {
			b.WriteString(fmt.Sprintf("  … and %d more\n", len(paths)-max))
			break
		}
		b.WriteString("  " + filepath.Base(p) + "\n")
	}
	return b.String()
}

func (m *model) renderSortMenu() string {
	fields := []listing.SortField{
		listing.SortByName,
		listing.SortByKind,
		listing.SortByModified,
		listing.SortBySize,
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Sort"))
	b.WriteString("\n\n")
	for i, f := range fields {
		cursor := "  "
		if i == m.sortMenuCursor {
			cursor = "> "
		}
		active := " "
		if f == m.sortField {
			if m.sortAscending {
				active = "↑"
			} else {
				active = "↓"
			}
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, f, active)
		if i == m.sortMenuCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: sort  a: flip order  esc: close"))
	return dialogStyle.Render(b.String())
}

func (m *model) renderBulkRenameForm() string {
	labels := [brFieldCount]string{"Prefix", "Start number", "Extension filter"}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Bulk Rename"))
	b.WriteString("\n\n")
	for i := 0; i < brFieldCount; i++ {
		label := fmt.Sprintf("%-17s", labels[i]+":")
		if i == m.brFocus {
			label = headerStyle.Render(label)
		}
		b.WriteString(label + m.brInputs[i].View() + "\n")
	}

	check := "[ ]"
	if m.brOnlySelected {
		check = "[x]"
	}
	b.WriteString(fmt.Sprintf("\n%s only selected files (ctrl+o)\n", check))

	if opts, err := m.bulkRenameOptions(); err == nil && opts.Prefix != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\nfirst name: %s", bulkrename.Preview(opts))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab: next field  enter: rename  esc: cancel"))
	return dialogStyle.Render(b.String())
}

func (m *model) renderErrorBox() string {
	var b strings.Builder
	b.WriteString(errorTitleStyle.Render(m.errorMsg))
	b.WriteString("\n\n")
	details := m.errorDetails
	if maxW := m.getSafeWidth() - 10; len(details) > maxW && maxW > 0 {
		details = details[:maxW] + "…"
	}
	b.WriteString(details)
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("press any key to continue"))
	return errorDialogStyle.Render(b.String())
}

var helpLines = []string{
	"Navigation",
	"  j/k, ↑/↓        move cursor",
	"  g/G             first / last entry",
	"  enter, l        open folder / file",
	"  h, backspace    parent folder",
	"  [, alt+←        back in history",
	"  ], alt+→        forward in history",
	"  ~               home folder",
	"  :               go to path",
	"",
	"Selection & clipboard",
	"  space           toggle selection",
	"  esc             clear filter / selection",
	"  c               copy to clipboard",
	"  x               cut to clipboard",
	"  v               paste into current folder",
	"  y               copy full path(s) to system clipboard",
	"",
	"Files",
	"  n / N           new file / new folder",
	"  r, f2           rename",
	"  R               bulk rename",
	"  d, del          delete",
	"  o               open with default application",
	"  e               edit in $EDITOR",
	"",
	"View",
	"  s               sort menu",
	"  /               filter by name (ctrl+f: fuzzy)",
	"  .               toggle hidden files",
	"  f5, ctrl+r      refresh",
	"",
	"Mouse",
	"  click           select row",
	"  double-click    open",
	"  drag to folder  move selection there",
	"  wheel           scroll",
}

func (m *model) renderHelp() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("⛴ Ferry - Help"))
	b.WriteString("\n\n")

	maxRows := m.getSafeHeight() - 5
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
		m.helpScroll = start
	}
	end := utils.Min(start+maxRows, len(helpLines))
	for _, line := range helpLines[start:end] {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("j/k: scroll  esc: close"))
	return b.String()
}

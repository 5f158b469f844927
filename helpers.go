package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"

	"github.com/ferryfm/ferry/internal/logger"
)

// openExternal hands a path to the platform's default application.
func (m *model) openExternal(path string) tea.Cmd {
	return func() tea.Msg {
		if err := open.Run(path); err != nil {
			logger.Error("open %s: %v", path, err)
			return fileOpenResultMsg{message: "Cannot open the file!"}
		}
		return fileOpenResultMsg{message: fmt.Sprintf("opened: %s", filepath.Base(path))}
	}
}

// editFile suspends the TUI and opens path in the configured editor,
// falling back to $EDITOR and then nano.
func (m *model) editFile(path string) tea.Cmd {
	editor := m.config.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "nano"
	}
	c := exec.Command(editor, path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			logger.Error("edit %s with %s: %v", path, editor, err)
			return fileOpenResultMsg{message: "Editor exited with an error!"}
		}
		return fileOpenResultMsg{message: ""}
	})
}

// copyPath puts the absolute path(s) on the system clipboard, multiple
// paths joined with ", ".
func (m *model) copyPath(paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(paths, ", ")); err != nil {
		logger.Error("copy path to clipboard: %v", err)
		m.setStatus("Cannot access the system clipboard!")
		return
	}
	if len(paths) == 1 {
		m.setStatus("Path copied to clipboard!")
	} else {
		m.setStatus(fmt.Sprintf("%d paths copied to clipboard!", len(paths)))
	}
}

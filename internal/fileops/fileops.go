// Package fileops performs the filesystem operations behind user actions:
// create, rename, delete, copy, move, and the copy/cut/paste clipboard stage.
package fileops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ferryfm/ferry/internal/utils"
)

var (
	// ErrSamePath is returned when a paste would overwrite its own source.
	ErrSamePath = errors.New("source and destination are the same file")
	// ErrDestInsideSource is returned when a paste targets a directory that
	// lies inside one of the staged sources.
	ErrDestInsideSource = errors.New("destination is inside the source directory")
	// ErrMoveIntoSelf is returned when a move target lies inside the source.
	ErrMoveIntoSelf = errors.New("cannot move a directory into itself")
	// ErrNotADir is returned when a drop target is not a directory.
	ErrNotADir = errors.New("destination is not a directory")
)

// Op is the staged clipboard operation.
type Op int

const (
	OpNone Op = iota
	OpCopy
	OpCut
)

// Clipboard stages a selection of paths for a later paste. It is created by
// a copy or cut action and consumed by the paste that follows.
type Clipboard struct {
	Paths []string
	Op    Op
}

// Stage records the selection and operation, replacing any previous stage.
func (c *Clipboard) Stage(paths []string, op Op) {
	c.Paths = append([]string(nil), paths...)
	c.Op = op
}

// Clear empties the clipboard.
func (c *Clipboard) Clear() {
	c.Paths = nil
	c.Op = OpNone
}

// Empty reports whether nothing is staged.
func (c *Clipboard) Empty() bool {
	return len(c.Paths) == 0
}

// Contains reports whether path is staged. Used to mark cut entries in the
// listing.
func (c *Clipboard) Contains(path string) bool {
	return utils.Contains(c.Paths, path)
}

// Conflicts returns the staged entries whose names already exist in destDir,
// so the caller can confirm overwriting before Paste. Lstat, so broken
// symlinks at the destination count as conflicts too.
func (c *Clipboard) Conflicts(destDir string) []string {
	var dups []string
	for _, src := range c.Paths {
		dest := filepath.Join(destDir, filepath.Base(src))
		if _, err := os.Lstat(dest); err == nil {
			dups = append(dups, dest)
		}
	}
	return dups
}

// Paste applies the staged operation into destDir and clears the clipboard.
// A copy duplicates each source; a cut moves it. Pasting an entry into the
// directory it already lives in fails with ErrSamePath, and pasting a
// directory into itself or its own subtree fails with ErrDestInsideSource,
// both before anything is touched. The first failing source aborts the
// rest; earlier completions are not rolled back.
func (c *Clipboard) Paste(destDir string) error {
	if c.Empty() {
		return nil
	}
	defer c.Clear()

	sep := string(filepath.Separator)
	for _, src := range c.Paths {
		if filepath.Join(destDir, filepath.Base(src)) == src {
			return fmt.Errorf("paste %s: %w", filepath.Base(src), ErrSamePath)
		}
		if destDir == src || strings.HasPrefix(destDir+sep, src+sep) {
			return fmt.Errorf("paste %s: %w", filepath.Base(src), ErrDestInsideSource)
		}
	}

	if c.Op == OpCut {
		return MoveMultiple(c.Paths, destDir)
	}
	return CopyMultiple(c.Paths, destDir)
}

// MoveToTrash moves a file or directory to the system trash/recycle bin
func MoveToTrash(path string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file "%s"`, path)
		cmd := exec.Command("osascript", "-e", script)
		return cmd.Run()

	case "windows":
		cmd := exec.Command("powershell", "-Command", fmt.Sprintf(`Add-Type -AssemblyName Microsoft.VisualBasic; [Microsoft.VisualBasic.FileIO.FileSystem]::DeleteFile('%s', 'OnlyErrorDialogs', 'SendToRecycleBin')`, path))
		return cmd.Run()

	default: // Linux and others
		if commandExists("gio") {
			cmd := exec.Command("gio", "trash", path)
			return cmd.Run()
		}
		if commandExists("trash-put") {
			cmd := exec.Command("trash-put", path)
			return cmd.Run()
		}
		return fmt.Errorf("trash command not available (install trash-cli or gvfs)")
	}
}

// Delete deletes a file or directory (tries trash first, then permanent delete)
func Delete(path string, isDir bool) error {
	if err := MoveToTrash(path); err != nil {
		if isDir {
			return os.RemoveAll(path)
		}
		return os.Remove(path)
	}
	return nil
}

// DeleteMultiple deletes each path in turn, aborting on the first failure.
func DeleteMultiple(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("delete %s: %w", filepath.Base(path), err)
		}
		if err := Delete(path, info.IsDir()); err != nil {
			return fmt.Errorf("delete %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// Rename renames a file or directory within its own directory. It refuses
// to overwrite an existing entry.
func Rename(oldPath, newName string) error {
	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if newPath == oldPath {
		return nil
	}
	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("rename to %s: %w", newName, os.ErrExist)
	}
	return os.Rename(oldPath, newPath)
}

// CreateFile creates a new empty file. It fails if the name is taken.
func CreateFile(dir, name string) error {
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return file.Close()
}

// CreateDir creates a new directory
func CreateDir(dir, name string) error {
	path := filepath.Join(dir, name)
	return os.Mkdir(path, 0755)
}

// CopyFileOrDir copies a file or directory from src to dst
func CopyFileOrDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if srcInfo.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst)
}

func copyFile(src, dst string) error {
	srcBytes, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, srcBytes, 0644)
}

func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	// Snapshot the source before creating dst: when dst lies inside src,
	// reading afterwards would list the fresh copy and recurse into it.
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// CopyMultiple copies multiple files/directories to a destination directory
func CopyMultiple(sources []string, destDir string) error {
	for _, srcPath := range sources {
		destPath := filepath.Join(destDir, filepath.Base(srcPath))
		if err := CopyFileOrDir(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

// MoveMultiple moves multiple files/directories to a destination directory
func MoveMultiple(sources []string, destDir string) error {
	for _, srcPath := range sources {
		destPath := filepath.Join(destDir, filepath.Base(srcPath))
		if err := os.Rename(srcPath, destPath); err != nil {
			// Cross-device rename fails; fall back to copy then delete
			if err := CopyFileOrDir(srcPath, destPath); err != nil {
				return err
			}
			if err := os.RemoveAll(srcPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// MoveInto moves sources into the directory destDir, as performed by a
// drag-and-drop. The destination must be an existing directory, and no
// source may be moved into itself or its own subtree.
func MoveInto(sources []string, destDir string) error {
	info, err := os.Stat(destDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("move to %s: %w", filepath.Base(destDir), ErrNotADir)
	}

	for _, src := range sources {
		if _, err := os.Lstat(src); err != nil {
			return fmt.Errorf("move %s: %w", filepath.Base(src), err)
		}
		if destDir == src || strings.HasPrefix(destDir+string(filepath.Separator), src+string(filepath.Separator)) {
			return fmt.Errorf("move %s: %w", filepath.Base(src), ErrMoveIntoSelf)
		}
	}

	return MoveMultiple(sources, destDir)
}

// MoveIntoConflicts returns the destination paths inside destDir that a
// MoveInto of sources would overwrite.
func MoveIntoConflicts(sources []string, destDir string) []string {
	var dups []string
	for _, src := range sources {
		dest := filepath.Join(destDir, filepath.Base(src))
		if dest == src {
			continue
		}
		if _, err := os.Lstat(dest); err == nil {
			dups = append(dups, dest)
		}
	}
	return dups
}

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

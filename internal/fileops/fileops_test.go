package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateFile(t *testing.T) {
	tempDir := t.TempDir()

	err := CreateFile(tempDir, "testfile.txt")
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	filePath := filepath.Join(tempDir, "testfile.txt")
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		t.Error("File was not created")
	}

	// Creating the same name again must fail
	err = CreateFile(tempDir, "testfile.txt")
	if err == nil {
		t.Error("Expected error when creating existing file")
	}
}

func TestCreateDir(t *testing.T) {
	tempDir := t.TempDir()

	err := CreateDir(tempDir, "testdir")
	if err != nil {
		t.Fatalf("CreateDir failed: %v", err)
	}

	dirPath := filepath.Join(tempDir, "testdir")
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		t.Error("Directory was not created")
	}
	if err == nil && !info.IsDir() {
		t.Error("Created path is not a directory")
	}

	err = CreateDir(tempDir, "testdir")
	if err == nil {
		t.Error("Expected error when creating existing directory")
	}
}

func TestRename(t *testing.T) {
	tempDir := t.TempDir()

	oldPath := filepath.Join(tempDir, "oldname.txt")
	os.WriteFile(oldPath, []byte("test content"), 0644)

	err := Rename(oldPath, "newname.txt")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	newPath := filepath.Join(tempDir, "newname.txt")
	if _, err := os.Stat(newPath); os.IsNotExist(err) {
		t.Error("Renamed file does not exist")
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("Old file still exists after rename")
	}

	// Renaming over an existing entry must fail
	anotherFile := filepath.Join(tempDir, "another.txt")
	os.WriteFile(anotherFile, []byte("another"), 0644)
	err = Rename(newPath, "another.txt")
	if !errors.Is(err, os.ErrExist) {
		t.Errorf("Rename over existing file returned %v, want ErrExist", err)
	}
}

func TestRenameSameName(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "keep.txt")
	os.WriteFile(path, []byte("x"), 0644)

	if err := Rename(path, "keep.txt"); err != nil {
		t.Errorf("renaming to the same name should be a no-op, got %v", err)
	}
}

func TestCopyPasteDuplicatesContent(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "src")
	destDir := filepath.Join(tempDir, "dest")
	os.Mkdir(srcDir, 0755)
	os.Mkdir(destDir, 0755)

	srcPath := filepath.Join(srcDir, "doc.txt")
	content := []byte("important words")
	os.WriteFile(srcPath, content, 0644)

	var clip Clipboard
	clip.Stage([]string{srcPath}, OpCopy)

	if err := clip.Paste(destDir); err != nil {
		t.Fatalf("Paste failed: %v", err)
	}

	// Source survives a copy
	if _, err := os.Stat(srcPath); err != nil {
		t.Error("source removed by copy-paste")
	}

	// Duplicate at a new path with identical content
	destPath := filepath.Join(destDir, "doc.txt")
	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("pasted file unreadable: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("pasted content = %q, want %q", got, content)
	}

	if !clip.Empty() {
		t.Error("clipboard not cleared after paste")
	}
}

func TestCutPasteMovesFile(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "src")
	destDir := filepath.Join(tempDir, "dest")
	os.Mkdir(srcDir, 0755)
	os.Mkdir(destDir, 0755)

	srcPath := filepath.Join(srcDir, "doc.txt")
	os.WriteFile(srcPath, []byte("moving"), 0644)

	var clip Clipboard
	clip.Stage([]string{srcPath}, OpCut)

	if err := clip.Paste(destDir); err != nil {
		t.Fatalf("Paste failed: %v", err)
	}

	if _, err := os.Stat(srcPath); !os.IsNotExist(err) {
		t.Error("source still exists after cut-paste")
	}

	got, err := os.ReadFile(filepath.Join(destDir, "doc.txt"))
	if err != nil {
		t.Fatalf("moved file unreadable: %v", err)
	}
	if string(got) != "moving" {
		t.Errorf("moved content = %q", got)
	}
}

func TestPasteSamePath(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "doc.txt")
	os.WriteFile(path, []byte("x"), 0644)

	var clip Clipboard
	clip.Stage([]string{path}, OpCopy)

	err := clip.Paste(tempDir)
	if !errors.Is(err, ErrSamePath) {
		t.Errorf("pasting onto the source returned %v, want ErrSamePath", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("source damaged by rejected paste")
	}
}

func TestPasteDirIntoItself(t *testing.T) {
	tempDir := t.TempDir()

	dir := filepath.Join(tempDir, "stuff")
	os.Mkdir(dir, 0755)
	os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("x"), 0644)

	var clip Clipboard
	clip.Stage([]string{dir}, OpCopy)

	err := clip.Paste(dir)
	if !errors.Is(err, ErrDestInsideSource) {
		t.Fatalf("pasting a directory into itself returned %v, want ErrDestInsideSource", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "stuff")); !os.IsNotExist(err) {
		t.Error("rejected paste still created a nested copy")
	}
}

func TestPasteDirIntoOwnSubtree(t *testing.T) {
	tempDir := t.TempDir()

	dir := filepath.Join(tempDir, "stuff")
	sub := filepath.Join(dir, "sub")
	os.MkdirAll(sub, 0755)

	var clip Clipboard
	clip.Stage([]string{dir}, OpCopy)

	err := clip.Paste(sub)
	if !errors.Is(err, ErrDestInsideSource) {
		t.Errorf("pasting into own subtree returned %v, want ErrDestInsideSource", err)
	}
}

func TestClipboardConflicts(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "src")
	destDir := filepath.Join(tempDir, "dest")
	os.Mkdir(srcDir, 0755)
	os.Mkdir(destDir, 0755)

	os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("1"), 0644)
	os.WriteFile(filepath.Join(srcDir, "b.txt"), []byte("2"), 0644)
	os.WriteFile(filepath.Join(destDir, "b.txt"), []byte("old"), 0644)

	var clip Clipboard
	clip.Stage([]string{
		filepath.Join(srcDir, "a.txt"),
		filepath.Join(srcDir, "b.txt"),
	}, OpCopy)

	dups := clip.Conflicts(destDir)
	if len(dups) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(dups))
	}
	if dups[0] != filepath.Join(destDir, "b.txt") {
		t.Errorf("conflict = %q", dups[0])
	}
}

func TestClipboardStageAndContains(t *testing.T) {
	var clip Clipboard

	if !clip.Empty() {
		t.Error("new clipboard should be empty")
	}

	clip.Stage([]string{"/a", "/b"}, OpCut)
	if clip.Empty() || clip.Op != OpCut {
		t.Error("stage did not record selection")
	}
	if !clip.Contains("/a") || clip.Contains("/c") {
		t.Error("Contains gave wrong answer")
	}

	clip.Clear()
	if !clip.Empty() || clip.Op != OpNone {
		t.Error("Clear did not reset clipboard")
	}
}

func TestCopyDir(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "srcdir")
	os.Mkdir(srcDir, 0755)
	os.WriteFile(filepath.Join(srcDir, "file1.txt"), []byte("content1"), 0644)

	subdir := filepath.Join(srcDir, "subdir")
	os.Mkdir(subdir, 0755)
	os.WriteFile(filepath.Join(subdir, "file2.txt"), []byte("content2"), 0644)

	dstDir := filepath.Join(tempDir, "dstdir")
	err := copyDir(srcDir, dstDir)
	if err != nil {
		t.Fatalf("copyDir failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dstDir, "file1.txt")); os.IsNotExist(err) {
		t.Error("file1.txt was not copied")
	}
	if _, err := os.Stat(filepath.Join(dstDir, "subdir", "file2.txt")); os.IsNotExist(err) {
		t.Error("subdir/file2.txt was not copied")
	}
}

func TestCopyDirIntoOwnChild(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "d")
	os.Mkdir(srcDir, 0755)
	os.WriteFile(filepath.Join(srcDir, "file.txt"), []byte("x"), 0644)

	// Destination directly inside the source: the copy must snapshot the
	// source listing first, or it recurses into its own output
	dstDir := filepath.Join(srcDir, "d")
	if err := copyDir(srcDir, dstDir); err != nil {
		t.Fatalf("copyDir failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dstDir, "file.txt")); err != nil {
		t.Error("file.txt missing from copy")
	}
	if _, err := os.Stat(filepath.Join(dstDir, "d")); !os.IsNotExist(err) {
		t.Error("copy recursed into itself")
	}
}

func TestConflictsSeeBrokenSymlink(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "src")
	destDir := filepath.Join(tempDir, "dest")
	os.Mkdir(srcDir, 0755)
	os.Mkdir(destDir, 0755)

	src := filepath.Join(srcDir, "doc.txt")
	os.WriteFile(src, []byte("new"), 0644)

	// A dangling symlink occupies the destination name
	if err := os.Symlink(filepath.Join(tempDir, "gone"), filepath.Join(destDir, "doc.txt")); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	var clip Clipboard
	clip.Stage([]string{src}, OpCopy)
	if dups := clip.Conflicts(destDir); len(dups) != 1 {
		t.Errorf("clipboard conflicts = %d, want 1 for broken symlink", len(dups))
	}

	if dups := MoveIntoConflicts([]string{src}, destDir); len(dups) != 1 {
		t.Errorf("move conflicts = %d, want 1 for broken symlink", len(dups))
	}
}

func TestMoveInto(t *testing.T) {
	tempDir := t.TempDir()

	destDir := filepath.Join(tempDir, "target")
	os.Mkdir(destDir, 0755)
	src := filepath.Join(tempDir, "doc.txt")
	os.WriteFile(src, []byte("dragged"), 0644)

	if err := MoveInto([]string{src}, destDir); err != nil {
		t.Fatalf("MoveInto failed: %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	if _, err := os.Stat(filepath.Join(destDir, "doc.txt")); err != nil {
		t.Error("file missing from destination")
	}
}

func TestMoveIntoFileTarget(t *testing.T) {
	tempDir := t.TempDir()

	target := filepath.Join(tempDir, "plain.txt")
	os.WriteFile(target, []byte("x"), 0644)
	src := filepath.Join(tempDir, "doc.txt")
	os.WriteFile(src, []byte("y"), 0644)

	err := MoveInto([]string{src}, target)
	if !errors.Is(err, ErrNotADir) {
		t.Errorf("moving onto a file returned %v, want ErrNotADir", err)
	}
}

func TestMoveIntoSelf(t *testing.T) {
	tempDir := t.TempDir()

	parent := filepath.Join(tempDir, "parent")
	child := filepath.Join(parent, "child")
	os.MkdirAll(child, 0755)

	err := MoveInto([]string{parent}, child)
	if !errors.Is(err, ErrMoveIntoSelf) {
		t.Errorf("moving into own subtree returned %v, want ErrMoveIntoSelf", err)
	}
	if err := MoveInto([]string{parent}, parent); !errors.Is(err, ErrMoveIntoSelf) {
		t.Errorf("moving into itself returned %v, want ErrMoveIntoSelf", err)
	}
}

func TestMoveIntoMissingSource(t *testing.T) {
	tempDir := t.TempDir()

	destDir := filepath.Join(tempDir, "target")
	os.Mkdir(destDir, 0755)

	err := MoveInto([]string{filepath.Join(tempDir, "ghost.txt")}, destDir)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing source returned %v, want ErrNotExist", err)
	}
}

func TestMoveIntoConflicts(t *testing.T) {
	tempDir := t.TempDir()

	destDir := filepath.Join(tempDir, "target")
	os.Mkdir(destDir, 0755)
	os.WriteFile(filepath.Join(destDir, "doc.txt"), []byte("old"), 0644)
	src := filepath.Join(tempDir, "doc.txt")
	os.WriteFile(src, []byte("new"), 0644)

	dups := MoveIntoConflicts([]string{src}, destDir)
	if len(dups) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(dups))
	}
}

func TestMoveMultipleDirectory(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "bundle")
	os.Mkdir(srcDir, 0755)
	os.WriteFile(filepath.Join(srcDir, "inner.txt"), []byte("data"), 0644)

	destDir := filepath.Join(tempDir, "dest")
	os.Mkdir(destDir, 0755)

	if err := MoveMultiple([]string{srcDir}, destDir); err != nil {
		t.Fatalf("MoveMultiple failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destDir, "bundle", "inner.txt")); err != nil {
		t.Error("directory contents missing after move")
	}
	if _, err := os.Stat(srcDir); !os.IsNotExist(err) {
		t.Error("source directory still exists after move")
	}
}

func TestCommandExists(t *testing.T) {
	if !commandExists("ls") {
		t.Error("'ls' command should exist")
	}
	if commandExists("nonexistentcommandxyz123") {
		t.Error("Nonexistent command should return false")
	}
}

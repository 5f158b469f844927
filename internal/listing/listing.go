// Package listing reads and orders directory contents. Listings are always
// re-read from the filesystem; nothing here is cached.
package listing

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ferryfm/ferry/internal/search"
)

// SortField selects the attribute a listing is ordered by.
type SortField int

const (
	SortByName SortField = iota
	SortByKind
	SortByModified
	SortBySize
)

// String returns the display name of the sort field.
func (f SortField) String() string {
	switch f {
	case SortByKind:
		return "type"
	case SortByModified:
		return "modified"
	case SortBySize:
		return "size"
	default:
		return "name"
	}
}

// Entry is one row of a directory listing.
type Entry struct {
	Path       string
	Name       string
	IsDir      bool
	Size       int64
	ModTime    time.Time
	IsSymlink  bool
	LinkTarget string
}

// Kind returns the entry's type label, in the style of a Type column:
// "Folder" for directories, "GO File" for main.go, "File" when there is
// no extension.
func (e Entry) Kind() string {
	if e.IsDir {
		return "Folder"
	}
	ext := strings.TrimPrefix(filepath.Ext(e.Name), ".")
	if ext == "" {
		return "File"
	}
	return strings.ToUpper(ext) + " File"
}

// Read lists the contents of dir. Hidden entries (dotfiles) are skipped
// unless showHidden is set. Symlinks are reported with their target's size
// and kind when the target resolves; broken links keep the link's own
// metadata.
func Read(dir string, showHidden bool) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !showHidden && strings.HasPrefix(de.Name(), ".") {
			continue
		}

		itemPath := filepath.Join(dir, de.Name())

		// Lstat first so symlinks are seen as links, not their targets
		linfo, err := os.Lstat(itemPath)
		if err != nil {
			continue
		}

		var isSymlink bool
		var linkTarget string
		var isDir bool
		var size int64
		var modTime time.Time

		if linfo.Mode()&os.ModeSymlink != 0 {
			isSymlink = true
			if target, err := os.Readlink(itemPath); err == nil {
				if !filepath.IsAbs(target) {
					linkTarget = filepath.Join(dir, target)
				} else {
					linkTarget = target
				}
			}
			if targetInfo, err := os.Stat(itemPath); err == nil {
				isDir = targetInfo.IsDir()
				size = targetInfo.Size()
				modTime = targetInfo.ModTime()
			} else {
				// Broken symlink
				isDir = false
				size = linfo.Size()
				modTime = linfo.ModTime()
			}
		} else {
			isDir = linfo.IsDir()
			size = linfo.Size()
			modTime = linfo.ModTime()
		}

		entries = append(entries, Entry{
			Path:       itemPath,
			Name:       de.Name(),
			IsDir:      isDir,
			Size:       size,
			ModTime:    modTime,
			IsSymlink:  isSymlink,
			LinkTarget: linkTarget,
		})
	}

	return entries, nil
}

// Sort orders entries in place by the given field and direction. The ".."
// parent row always stays first, and directories are always grouped before
// files. Name comparisons are case-insensitive, and names break ties for
// every other field so the order is total.
func Sort(entries []Entry, field SortField, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Name == ".." {
			return true
		}
		if b.Name == ".." {
			return false
		}

		if a.IsDir != b.IsDir {
			return a.IsDir
		}

		// Swapping the operands inverts the order while keeping the
		// comparison strict, so equal entries never report less in both
		// directions.
		if !ascending {
			a, b = b, a
		}

		switch field {
		case SortBySize:
			if a.Size != b.Size {
				return a.Size < b.Size
			}
		case SortByModified:
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.Before(b.ModTime)
			}
		case SortByKind:
			if ka, kb := a.Kind(), b.Kind(); ka != kb {
				return ka < kb
			}
		}
		return nameLess(a, b)
	})
}

func nameLess(a, b Entry) bool {
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

// FilterMode selects how a filter query is matched against names.
type FilterMode int

const (
	FilterSubstring FilterMode = iota
	FilterFuzzy
)

// Filter returns the entries whose names match query, along with the
// matched character positions per returned entry. An empty query returns
// all entries with no match positions.
func Filter(entries []Entry, query string, mode FilterMode) ([]Entry, [][]int) {
	if query == "" {
		return entries, nil
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	var matches []search.MatchResult
	if mode == FilterFuzzy {
		matches = search.FuzzyMatchNames(query, names)
	} else {
		matches = search.SubstringMatchNames(query, names)
	}

	filtered := make([]Entry, 0, len(matches))
	positions := make([][]int, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, entries[match.Index])
		positions = append(positions, match.MatchedIndexes)
	}

	return filtered, positions
}

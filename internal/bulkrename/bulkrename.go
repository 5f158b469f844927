// Package bulkrename applies a prefix-plus-number naming pattern across the
// files of a directory in one operation. A rename is planned first, so the
// caller can preview and validate it, then applied sequentially.
package bulkrename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrIllegalChars is returned when the prefix contains characters that
	// are not valid in filenames.
	ErrIllegalChars = errors.New("illegal characters in prefix")
	// ErrNoFiles is returned when no file matches the options.
	ErrNoFiles = errors.New("no suitable files in given directory")
	// ErrTargetExists is returned when a planned name is already taken.
	ErrTargetExists = errors.New("target filename already exists")
)

// Characters rejected in prefixes, the ones invalid on common filesystems.
const illegalChars = `<>:"/\|?*`

// Options describes the naming pattern and which files it covers.
type Options struct {
	Prefix       string
	Start        int      // First number assigned
	Extension    string   // Without dot; empty means all extensions
	OnlySelected bool     // Restrict to Selected instead of the whole directory
	Selected     []string // Absolute paths, used when OnlySelected is set
}

// Rename is one planned old-name to new-name step.
type Rename struct {
	OldPath string
	NewPath string
}

// Plan lists the renames an Apply would perform, in order.
type Plan struct {
	Renames []Rename
}

// NewNames returns the planned target filenames.
func (p Plan) NewNames() []string {
	names := make([]string, len(p.Renames))
	for i, r := range p.Renames {
		names[i] = filepath.Base(r.NewPath)
	}
	return names
}

// Preview returns the first name the pattern would produce, for display
// before committing.
func Preview(opts Options) string {
	return fmt.Sprintf("%s%d", opts.Prefix, opts.Start)
}

// Build constructs the rename plan for the regular files of dir. Files are
// taken in name order so the numbering is deterministic; directories are
// never bulk-renamed. Each file keeps its extension and receives
// prefix+number, numbering from opts.Start. A planned name that is already
// taken on disk, and not vacated by an earlier step of the plan, is a
// conflict.
func Build(dir string, opts Options) (Plan, error) {
	if strings.ContainsAny(opts.Prefix, illegalChars) {
		return Plan{}, ErrIllegalChars
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return Plan{}, err
	}
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	selected := make(map[string]bool, len(opts.Selected))
	for _, p := range opts.Selected {
		selected[p] = true
	}

	var plan Plan
	num := opts.Start
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, de.Name())
		ext := filepath.Ext(de.Name())
		if opts.Extension != "" && opts.Extension != strings.TrimPrefix(ext, ".") {
			continue
		}
		if opts.OnlySelected && !selected[path] {
			continue
		}

		newPath := filepath.Join(dir, fmt.Sprintf("%s%d%s", opts.Prefix, num, ext))
		plan.Renames = append(plan.Renames, Rename{OldPath: path, NewPath: newPath})
		num++
	}

	if len(plan.Renames) == 0 {
		return Plan{}, ErrNoFiles
	}

	// Renames run in order, so a target name is only free if the file
	// holding it was moved away by an earlier step.
	vacated := make(map[string]bool, len(plan.Renames))
	for _, r := range plan.Renames {
		if r.NewPath == r.OldPath {
			continue
		}
		if _, err := os.Lstat(r.NewPath); err == nil && !vacated[r.NewPath] {
			return Plan{}, fmt.Errorf("%s: %w", filepath.Base(r.NewPath), ErrTargetExists)
		}
		vacated[r.OldPath] = true
	}

	return plan, nil
}

// Apply performs the planned renames in order. The first failure aborts the
// rest; renames already performed are not rolled back.
func Apply(plan Plan) error {
	for _, r := range plan.Renames {
		if r.NewPath == r.OldPath {
			continue
		}
		if _, err := os.Lstat(r.NewPath); err == nil {
			return fmt.Errorf("%s: %w", filepath.Base(r.NewPath), ErrTargetExists)
		}
		if err := os.Rename(r.OldPath, r.NewPath); err != nil {
			return fmt.Errorf("rename %s: %w", filepath.Base(r.OldPath), err)
		}
	}
	return nil
}

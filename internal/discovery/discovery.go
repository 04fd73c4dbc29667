// File: internal/discovery/discovery.go
// Brief: Drop-in discovery for kernel command-line fragments.

// Package discovery locates kernel command-line drop-in files beneath a
// configuration root.
//
// Search directories are ordered from lowest to highest precedence:
//
//  1. /usr/lib/<project>/*.conf  (vendor defaults)
//  2. /etc/<project>/*.conf      (administrator overrides)
//
// Fragments are returned in the order they must be applied, so later entries
// extend or override earlier ones.
package discovery

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const (
	// DefaultProject is the configuration namespace searched under each directory.
	DefaultProject = "kernel-cmdline"
	// DefaultSuffix selects which files count as fragments.
	DefaultSuffix = ".conf"
)

// ClassicSystem returns the vendor-then-administrator search directories.
func ClassicSystem() []string {
	return []string{"/usr/lib", "/etc"}
}

// Order selects how files from different directories are combined.
type Order int

const (
	// OrderLayered returns every file, directory by directory in precedence
	// order, sorted by name within a directory.
	OrderLayered Order = iota
	// OrderByName follows drop-in masking rules: a file in a higher-precedence
	// directory replaces the same name in lower ones, and the survivors are
	// sorted by name. An empty file or a link to /dev/null masks the name.
	OrderByName
)

// Finder lists the fragments for a project in application order.
type Finder interface {
	Find(project, suffix string) ([]Entry, error)
}

// Entry is one discovered fragment file. It is opened lazily so callers can
// scope the handle to the time they spend reading it.
type Entry struct {
	// Path is the file's location for display, including the resolved root.
	Path string

	name   string
	base   string
	masked bool
	fs     afero.Fs
}

// Open opens the fragment for reading.
func (e Entry) Open() (io.ReadCloser, error) {
	if e.fs == nil {
		return nil, &FileOpenError{Path: e.Path, Err: fs.ErrInvalid}
	}
	f, err := e.fs.Open(e.name)
	if err != nil {
		return nil, &FileOpenError{Path: e.Path, Err: err}
	}
	return f, nil
}

// SearchDirectories is a Finder over an afero filesystem.
type SearchDirectories struct {
	fs    afero.Fs
	root  string
	dirs  []string
	order Order
}

// New searches dirs on fsys, which is treated as already rooted.
// Empty and repeated directories are dropped.
func New(fsys afero.Fs, dirs ...string) *SearchDirectories {
	return &SearchDirectories{fs: fsys, root: "/", dirs: normalizeDirs(dirs)}
}

// Chroot canonicalizes root and returns search directories confined beneath it.
func Chroot(root string, dirs ...string) (*SearchDirectories, error) {
	resolved, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	osFs := afero.NewOsFs()
	info, err := osFs.Stat(resolved)
	if err != nil {
		return nil, &DiscoveryError{Op: "invalid search root", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Op: "invalid search root", Path: root, Err: errNotDir}
	}
	var fsys afero.Fs = osFs
	if resolved != string(filepath.Separator) {
		fsys = afero.NewBasePathFs(osFs, resolved)
	}
	return &SearchDirectories{fs: fsys, root: resolved, dirs: normalizeDirs(dirs)}, nil
}

var errNotDir = errors.New("not a directory")

// ResolveRoot makes root absolute and resolves symlinks. An empty root means "/".
func ResolveRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		root = string(filepath.Separator)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &RootResolutionError{Root: root, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &RootResolutionError{Root: root, Err: err}
	}
	return resolved, nil
}

// WithOrder returns a copy of s using the given ordering.
func (s *SearchDirectories) WithOrder(order Order) *SearchDirectories {
	cp := *s
	cp.order = order
	return &cp
}

// Root is the resolved root directory.
func (s *SearchDirectories) Root() string {
	return s.root
}

// Dirs returns the search directories in precedence order.
func (s *SearchDirectories) Dirs() []string {
	return append([]string(nil), s.dirs...)
}

// Find lists <dir>/<project>/*<suffix> for every search directory.
// Directories that do not exist are skipped.
func (s *SearchDirectories) Find(project, suffix string) ([]Entry, error) {
	var layered []Entry
	for _, dir := range s.dirs {
		entries, err := s.list(path.Join(dir, project), suffix)
		if err != nil {
			return nil, err
		}
		layered = append(layered, entries...)
	}
	if s.order != OrderByName {
		return layered, nil
	}

	byName := make(map[string]Entry, len(layered))
	for _, entry := range layered {
		byName[entry.base] = entry
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		if entry := byName[name]; !entry.masked {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *SearchDirectories) list(dir, suffix string) ([]Entry, error) {
	// afero.ReadDir returns entries sorted by name.
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &DiscoveryError{Op: "unable to open config files under", Path: s.display(dir), Err: err}
	}
	var entries []Entry
	for _, info := range infos {
		name := info.Name()
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		full := path.Join(dir, name)
		if info.Mode()&os.ModeSymlink != 0 {
			// Dangling links stay in the list and fail on open.
			if target, err := s.fs.Stat(full); err == nil {
				info = target
			}
		}
		if info.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Path:   s.display(full),
			name:   full,
			base:   name,
			masked: isMask(info),
			fs:     s.fs,
		})
	}
	return entries, nil
}

func (s *SearchDirectories) display(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(p))
}

func isMask(info fs.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		return false
	}
	return info.Size() == 0 || info.Mode()&os.ModeDevice != 0
}

func normalizeDirs(dirs []string) []string {
	added := make(map[string]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		dir = path.Clean("/" + filepath.ToSlash(dir))
		if _, ok := added[dir]; ok {
			continue
		}
		added[dir] = struct{}{}
		out = append(out, dir)
	}
	return out
}

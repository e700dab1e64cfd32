// Package docs discovers Markdown documents under a content root.
package docs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
)

// IgnoreFile marks a directory (and everything below it) as excluded.
const IgnoreFile = ".docignore"

// DefaultExtensions are used when Options.Extensions is empty.
var DefaultExtensions = []string{".md", ".markdown"}

// DocFile represents a discovered documentation file.
type DocFile struct {
	Path         string // Absolute path to the file
	RelativePath string // Slash-separated path relative to the content root
	Section      string // Directory part of RelativePath, "" at the root
	Name         string // File name without extension
	Extension    string // File extension, as found on disk
}

// LogicalPath returns the extension-less URL path of the document, e.g. "/sdk/install".
func (df DocFile) LogicalPath() string {
	return "/" + strings.TrimSuffix(df.RelativePath, df.Extension)
}

// Load reads the file content.
func (df DocFile) Load() ([]byte, error) {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "documentation file read failed").
			WithContext("path", df.RelativePath).
			Build()
	}
	return data, nil
}

// Options configures a Discovery.
type Options struct {
	Extensions []string // with leading dot, case-insensitive
	Exclude    []string // glob patterns matched against slash-separated relative paths
	SkipDirs   []string // absolute directories never descended into (e.g. the output dir)
}

// Discovery walks a content root for Markdown documents.
type Discovery struct {
	root       string
	extensions map[string]struct{}
	exclude    []string
	skipDirs   []string
}

// NewDiscovery creates a discovery for root.
func NewDiscovery(root string, opts Options) *Discovery {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	d := &Discovery{
		root:       filepath.Clean(root),
		extensions: make(map[string]struct{}, len(exts)),
		exclude:    opts.Exclude,
	}
	for _, e := range exts {
		d.extensions[strings.ToLower(e)] = struct{}{}
	}
	for _, s := range opts.SkipDirs {
		d.skipDirs = append(d.skipDirs, filepath.Clean(s))
	}
	return d
}

// Root returns the content root.
func (d *Discovery) Root() string { return d.root }

// Extensions returns the recognized extensions, sorted.
func (d *Discovery) Extensions() []string {
	out := make([]string, 0, len(d.extensions))
	for e := range d.extensions {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Discover returns every Markdown document below the root, sorted by relative path.
// Hidden files and directories, excluded patterns and directories holding a
// .docignore file are skipped.
func (d *Discovery) Discover(ctx context.Context) ([]DocFile, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.NotFoundError("content directory not found").
				WithContext("path", d.root).
				Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to stat content directory").Build()
	}
	if !info.IsDir() {
		return nil, derrors.ValidationError("content path is not a directory").
			WithContext("path", d.root).
			Build()
	}

	var files []DocFile
	err = filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if p == d.root {
				return nil
			}
			if d.skipDir(p) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !d.Matches(rel) {
			return nil
		}
		if !entry.Type().IsRegular() && !d.insideRoot(p) {
			slog.Debug("Skipping file that does not resolve inside the content root", logfields.File(rel))
			return nil
		}

		files = append(files, newDocFile(p, rel))
		slog.Debug("Discovered file", logfields.File(rel))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "documentation directory walk failed").
			WithContext("path", d.root).
			Build()
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	slog.Info("Documentation discovered", logfields.Documents(len(files)))
	return files, nil
}

// Lookup returns the DocFile for a slash-separated relative path if it is a
// document Discover would report. The file must exist and, once symlinks are
// resolved, lie below the content root.
func (d *Discovery) Lookup(rel string) (DocFile, bool) {
	rel = path.Clean(strings.TrimPrefix(filepath.ToSlash(rel), "/"))
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return DocFile{}, false
	}
	if !d.Matches(rel) {
		return DocFile{}, false
	}
	abs := filepath.Join(d.root, filepath.FromSlash(rel))
	for dir := filepath.Dir(abs); dir != d.root && strings.HasPrefix(dir, d.root); dir = filepath.Dir(dir) {
		if d.skipDir(dir) {
			return DocFile{}, false
		}
	}
	if !d.insideRoot(abs) {
		return DocFile{}, false
	}
	return newDocFile(abs, rel), true
}

// insideRoot reports whether abs, with symlinks resolved, is a regular file
// below the content root.
func (d *Discovery) insideRoot(abs string) bool {
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return false
	}
	root, err := filepath.EvalSymlinks(d.root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	info, err := os.Stat(resolved)
	return err == nil && info.Mode().IsRegular()
}

// Matches reports whether a slash-separated relative path names a document by
// extension, visibility and exclude patterns. Directory ignore markers are not consulted.
func (d *Discovery) Matches(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return false
		}
	}
	if _, ok := d.extensions[strings.ToLower(path.Ext(rel))]; !ok {
		return false
	}
	return !d.excluded(rel)
}

func (d *Discovery) excluded(rel string) bool {
	for _, pattern := range d.exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		// a pattern naming a directory excludes everything below it
		if ok, _ := path.Match(pattern, path.Dir(rel)); ok && path.Dir(rel) != "." {
			return true
		}
	}
	return false
}

// SkipsDir reports whether discovery ignores the directory at dir.
func (d *Discovery) SkipsDir(dir string) bool {
	dir = filepath.Clean(dir)
	return dir != d.root && d.skipDir(dir)
}

func (d *Discovery) skipDir(dir string) bool {
	if strings.HasPrefix(filepath.Base(dir), ".") {
		return true
	}
	for _, s := range d.skipDirs {
		if dir == s {
			return true
		}
	}
	if rel, err := filepath.Rel(d.root, dir); err == nil && d.excluded(filepath.ToSlash(rel)) {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, IgnoreFile)); err == nil {
		slog.Debug("Skipping directory due to .docignore file", logfields.Path(dir))
		return true
	}
	return false
}

func newDocFile(abs, rel string) DocFile {
	section := path.Dir(rel)
	if section == "." {
		section = ""
	}
	base := path.Base(rel)
	ext := path.Ext(base)
	return DocFile{
		Path:         abs,
		RelativePath: rel,
		Section:      section,
		Name:         strings.TrimSuffix(base, ext),
		Extension:    ext,
	}
}

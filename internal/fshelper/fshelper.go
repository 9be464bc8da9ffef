package fshelper

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// NameFS is a filesystem that has a name
type NameFS interface {
	fs.FS
	Name() string
}

// DirFS represents a directory filesystem with a name
type DirFS struct {
	fs.FS
	name string
}

// NewDirFS names an existing filesystem
func NewDirFS(fsys fs.FS, name string) *DirFS {
	return &DirFS{FS: fsys, name: name}
}

// Name returns the name of the filesystem
func (d *DirFS) Name() string {
	return d.name
}

// ZipFS represents a zip filesystem with a name
type ZipFS struct {
	*zip.Reader
	name string
	rc   io.Closer
}

// Name returns the name of the filesystem
func (z *ZipFS) Name() string {
	return z.name
}

// Close closes the zip file
func (z *ZipFS) Close() error {
	if z.rc != nil {
		return z.rc.Close()
	}
	return nil
}

// Source is an input filesystem and the images selected in it
type Source struct {
	FS    NameFS
	Files []string
}

// Close releases the underlying archive, if any
func (s Source) Close() error {
	if c, ok := s.FS.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Discover expands files, directories, zip archives and glob patterns into
// sources. Directories and archives are walked for image files; a file named
// directly is inspected even when its extension is unknown.
func Discover(paths []string) ([]Source, error) {
	var sources []Source

	for _, p := range paths {
		// Check if the path is a glob pattern
		matches, err := filepath.Glob(p)
		if err != nil {
			CloseAll(sources)
			return nil, fmt.Errorf("invalid glob pattern %s: %w", p, err)
		}

		if len(matches) == 0 {
			// No matches, try as a direct path
			if _, err := os.Stat(p); err != nil {
				CloseAll(sources)
				if os.IsNotExist(err) {
					return nil, fmt.Errorf("path does not exist: %s", p)
				}
				return nil, fmt.Errorf("error accessing path %s: %w", p, err)
			}
			matches = []string{p}
		}

		for _, match := range matches {
			src, err := open(match)
			if err != nil {
				CloseAll(sources)
				return nil, err
			}
			sources = append(sources, src)
		}
	}

	return sources, nil
}

func open(match string) (Source, error) {
	info, err := os.Stat(match)
	if err != nil {
		return Source{}, fmt.Errorf("error accessing path %s: %w", match, err)
	}

	var fsys NameFS
	switch {
	case info.IsDir():
		fsys = NewDirFS(os.DirFS(match), filepath.Base(match))
	case strings.HasSuffix(strings.ToLower(match), ".zip"):
		zipFS, err := OpenZip(match)
		if err != nil {
			return Source{}, fmt.Errorf("error opening zip file %s: %w", match, err)
		}
		fsys = zipFS
	default:
		// A single file is served from its parent directory.
		dir, file := filepath.Split(match)
		if dir == "" {
			dir = "."
		}
		return Source{
			FS:    NewDirFS(os.DirFS(dir), filepath.Base(filepath.Clean(dir))),
			Files: []string{file},
		}, nil
	}

	files, err := ListImages(fsys)
	if err != nil {
		if c, ok := fsys.(io.Closer); ok {
			c.Close()
		}
		return Source{}, fmt.Errorf("error listing %s: %w", match, err)
	}
	return Source{FS: fsys, Files: files}, nil
}

// CloseAll closes every source, ignoring errors
func CloseAll(sources []Source) {
	for _, s := range sources {
		s.Close()
	}
}

// OpenZip opens a zip file and returns a filesystem
func OpenZip(p string) (*ZipFS, error) {
	zipFile, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("error opening zip file: %w", err)
	}

	info, err := zipFile.Stat()
	if err != nil {
		zipFile.Close()
		return nil, fmt.Errorf("error getting zip file info: %w", err)
	}

	zipReader, err := zip.NewReader(zipFile, info.Size())
	if err != nil {
		zipFile.Close()
		return nil, fmt.Errorf("error creating zip reader: %w", err)
	}

	return &ZipFS{
		Reader: zipReader,
		name:   filepath.Base(p),
		rc:     zipFile,
	}, nil
}

// ListImages walks fsys and returns the image files in lexical order. Hidden
// entries and macOS resource forks are skipped.
func ListImages(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, ".") || name == "__MACOSX") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsImageFile(name) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// IsImageFile checks if a file is an image based on its extension
func IsImageFile(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".tiff", ".tif", ".dng", ".heic", ".heif", ".png", ".webp":
		return true
	default:
		return false
	}
}

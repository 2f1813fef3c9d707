// Package assets implements the filesystem-backed store for uploaded product
// images, partitioned into one directory per category.
package assets

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedMediaType is returned when a file's extension is not in the
	// configured allow-list. No file is written in that case.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidAssetPath is returned when a read path would escape the assets
	// root or names no regular file.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// defaultExtensions is the consolidated extension allow-list.
const defaultExtensions = "jpg,jpeg,png,gif,webp"

// Config holds configuration for the asset store.
type Config struct {
	Root              string   // directory the category trees live under
	AllowedExtensions []string // lower-case extensions without the dot
}

// LoadConfig loads asset store configuration from environment variables.
// UPLOAD_ROOT defaults to ./assets and UPLOAD_ALLOWED_EXTENSIONS to the
// default image set.
func LoadConfig() Config {
	root := os.Getenv("UPLOAD_ROOT")
	if root == "" {
		root = "./assets"
	}
	raw := os.Getenv("UPLOAD_ALLOWED_EXTENSIONS")
	if raw == "" {
		raw = defaultExtensions
	}
	var exts []string
	for _, e := range strings.Split(raw, ",") {
		if e = strings.TrimSpace(strings.ToLower(e)); e != "" {
			exts = append(exts, strings.TrimPrefix(e, "."))
		}
	}
	return Config{Root: root, AllowedExtensions: exts}
}

// Store writes uploaded files below a single root directory and resolves
// read paths strictly inside it.
type Store struct {
	root    string
	allowed map[string]struct{}
}

// NewStore creates a Store for the given configuration.
func NewStore(cfg Config) *Store {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, e := range cfg.AllowedExtensions {
		allowed[e] = struct{}{}
	}
	return &Store{root: cfg.Root, allowed: allowed}
}

// Save validates and writes an uploaded file into the category subdirectory,
// returning its servable path of the form /assets/<category>/<name>.
// The extension is checked before anything touches the disk. Name collisions
// get a numeric suffix instead of silently overwriting the earlier upload.
// The category has been validated against the category set upstream.
func (s *Store) Save(category string, fh *multipart.FileHeader) (string, error) {
	name := sanitizeFilename(fh.Filename)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if _, ok := s.allowed[ext]; !ok {
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedMediaType, ext)
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create category directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	final := name
	var dst *os.File
	for i := 0; ; i++ {
		if i > 0 {
			final = fmt.Sprintf("%s-%d.%s", stem, i, ext)
		}
		// O_EXCL makes the collision check and the create one atomic step.
		dst, err = os.OpenFile(filepath.Join(dir, final), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create file: %w", err)
		}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Drop the partial file so a retry does not pick up a -N suffix.
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/assets/" + category + "/" + final, nil
}

// Resolve maps a request path (relative to /assets/) to an absolute file path
// inside the root. Paths that escape the root or name no regular file are
// rejected with ErrInvalidAssetPath.
func (s *Store) Resolve(rel string) (string, error) {
	// Clean with a leading separator so ".." segments cannot climb above root.
	clean := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(rel))
	abs := filepath.Join(s.root, clean)

	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(abs)
	if err != nil {
		return "", err
	}
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", ErrInvalidAssetPath
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrInvalidAssetPath
	}
	return full, nil
}

// sanitizeFilename strips directory components and replaces everything
// outside [A-Za-z0-9._-] so the name is safe as a single path element.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.FromSlash(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	// "..", "." and bare dots collapse to nothing useful; refuse to produce
	// a hidden or empty name.
	out = strings.Trim(out, ".")
	if out == "" {
		out = "file"
	}
	return out
}

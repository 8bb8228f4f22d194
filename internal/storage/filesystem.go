package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem handles reading and writing generated combo art on disk.
// Images are stored flat: {baseDir}/{filename}.png — the filename carries
// the brand pair and a unique suffix, assigned by the image processor.
type FileSystem struct {
	baseDir string
}

// NewFileSystem creates a new FileSystem storage, ensuring the base
// directory exists.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// BaseDir returns the directory images are served from.
func (fs *FileSystem) BaseDir() string {
	return fs.baseDir
}

// Path returns the filesystem path for a stored image. Filenames are
// cleaned to their base component so a crafted name can't escape baseDir.
func (fs *FileSystem) Path(filename string) string {
	return filepath.Join(fs.baseDir, filepath.Base(filename))
}

// Read reads an image file from disk. Returns the raw PNG bytes.
func (fs *FileSystem) Read(filename string) ([]byte, error) {
	path := fs.Path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", filename)
		}
		return nil, fmt.Errorf("reading image file: %w", err)
	}
	return data, nil
}

// Write saves an image to disk under the given filename.
func (fs *FileSystem) Write(filename string, data []byte) error {
	if err := os.WriteFile(fs.Path(filename), data, 0644); err != nil {
		return fmt.Errorf("writing image file: %w", err)
	}
	return nil
}

// Exists checks if an image file exists on disk.
func (fs *FileSystem) Exists(filename string) bool {
	_, err := os.Stat(fs.Path(filename))
	return err == nil
}

// Delete removes a stored image and its thumbnail, if present.
func (fs *FileSystem) Delete(filename string) error {
	if err := os.Remove(fs.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image file: %w", err)
	}
	thumb := ThumbName(filename)
	if err := os.Remove(fs.Path(thumb)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting thumbnail: %w", err)
	}
	return nil
}

// ThumbName derives the thumbnail filename from a full-size filename:
// "nike_adidas_abc123.png" → "nike_adidas_abc123_thumb.png".
func ThumbName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_thumb" + ext
}

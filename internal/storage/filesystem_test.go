package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func setupTestFS(t *testing.T) *FileSystem {
	t.Helper()

	fs, err := NewFileSystem(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatalf("creating filesystem storage: %v", err)
	}
	return fs
}

func TestFileSystem_WriteReadDelete(t *testing.T) {
	fs := setupTestFS(t)
	data := []byte("fake png bytes")

	if err := fs.Write("nike_adidas_abc123.png", data); err != nil {
		t.Fatalf("writing image: %v", err)
	}
	if !fs.Exists("nike_adidas_abc123.png") {
		t.Error("expected image to exist after write")
	}

	got, err := fs.Read("nike_adidas_abc123.png")
	if err != nil {
		t.Fatalf("reading image: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("read data doesn't match written data")
	}

	if err := fs.Delete("nike_adidas_abc123.png"); err != nil {
		t.Fatalf("deleting image: %v", err)
	}
	if fs.Exists("nike_adidas_abc123.png") {
		t.Error("expected image to be gone after delete")
	}
}

func TestFileSystem_DeleteRemovesThumbnail(t *testing.T) {
	fs := setupTestFS(t)

	if err := fs.Write("combo.png", []byte("full")); err != nil {
		t.Fatalf("writing image: %v", err)
	}
	if err := fs.Write("combo_thumb.png", []byte("thumb")); err != nil {
		t.Fatalf("writing thumbnail: %v", err)
	}

	if err := fs.Delete("combo.png"); err != nil {
		t.Fatalf("deleting image: %v", err)
	}
	if fs.Exists("combo_thumb.png") {
		t.Error("expected thumbnail to be deleted with the image")
	}
}

func TestFileSystem_Delete_Missing(t *testing.T) {
	fs := setupTestFS(t)

	// Deleting a file that was never written is not an error.
	if err := fs.Delete("never-existed.png"); err != nil {
		t.Errorf("expected nil error deleting missing file, got %v", err)
	}
}

func TestFileSystem_PathTraversal(t *testing.T) {
	fs := setupTestFS(t)

	path := fs.Path("../../etc/passwd")
	if filepath.Dir(path) != fs.BaseDir() {
		t.Errorf("expected path confined to base dir, got %s", path)
	}
}

func TestThumbName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"nike_adidas_abc123.png", "nike_adidas_abc123_thumb.png"},
		{"combo.jpg", "combo_thumb.jpg"},
		{"noext", "noext_thumb"},
	}

	for _, tt := range tests {
		if got := ThumbName(tt.in); got != tt.want {
			t.Errorf("ThumbName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "captions.json")

	if err := fs.WriteFile(testPath, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `[{"id":"a"}]` {
		t.Errorf("unexpected contents %q", data)
	}
}

func TestFileSystem_WriteFileReplaces(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	testPath := filepath.Join(dir, "out.json")

	if err := fs.WriteFile(testPath, []byte("first version, longer")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.WriteFile(testPath, []byte("second")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _ := os.ReadFile(testPath)
	if string(data) != "second" {
		t.Errorf("expected replaced contents, got %q", data)
	}

	// No temporary files should be left next to the target.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file in dir, got %d", len(entries))
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "a", "b", "c", "test.txt")

	if err := fs.WriteFile(testPath, []byte("test")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_IsRegular(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(file, []byte{0}, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{file, true},
		{dir, false},
		{filepath.Join(dir, "missing.mp4"), false},
	}
	for _, tt := range tests {
		got, err := fs.IsRegular(tt.path)
		if err != nil {
			t.Fatalf("IsRegular(%s) failed: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("IsRegular(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFileSystem_MkdirAllAndRemove(t *testing.T) {
	fs := New()
	nested := filepath.Join(t.TempDir(), "x", "y")

	if err := fs.MkdirAll(nested); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if ok, _ := fs.Exists(nested); !ok {
		t.Fatal("expected directory to exist")
	}
	if err := fs.Remove(nested); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if ok, _ := fs.Exists(nested); ok {
		t.Error("expected directory to be removed")
	}
}

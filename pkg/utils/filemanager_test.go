package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Städtereise Rom 2025", "Städtereise-Rom-2025.pdf"},
		{"Urlaub", "Urlaub.pdf"},
		{"a/b c", "a-b-c.pdf"},
		{"", "reiseplan.pdf"},
	}
	for _, tt := range tests {
		if got := OutputFileName(tt.title); got != tt.want {
			t.Errorf("OutputFileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)

	path, err := fm.WriteAtomic("out.pdf", func(w io.Writer) error {
		_, err := io.WriteString(w, "%PDF-1.3")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic() error: %v", err)
	}
	if path != filepath.Join(dir, "out.pdf") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "%PDF-1.3" {
		t.Errorf("content = %q, %v", data, err)
	}
	assertOnlyFiles(t, dir, "out.pdf")
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)

	boom := errors.New("boom")
	_, err := fm.WriteAtomic("out.pdf", func(w io.Writer) error {
		io.WriteString(w, "%PDF-partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	assertOnlyFiles(t, dir)
}

func TestWriteAtomicFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)
	final := filepath.Join(dir, "out.pdf")
	if err := os.WriteFile(final, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	fm.WriteAtomic("out.pdf", func(w io.Writer) error { return errors.New("boom") })

	if data, _ := os.ReadFile(final); string(data) != "old" {
		t.Errorf("previous file changed: %q", data)
	}
}

func TestEnsureDirectoriesAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := NewFileManager(dir).EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	if FileExists(dir) {
		t.Error("directory reported as file")
	}

	f := filepath.Join(dir, "x.json")
	if FileExists(f) {
		t.Error("missing file reported as existing")
	}
	os.WriteFile(f, []byte("{}"), 0644)
	if !FileExists(f) {
		t.Error("file not found")
	}
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(names) {
		var got []string
		for _, e := range entries {
			got = append(got, e.Name())
		}
		t.Fatalf("files = %v, want %v", got, names)
	}
	for i, e := range entries {
		if e.Name() != names[i] {
			t.Errorf("file %d = %s, want %s", i, e.Name(), names[i])
		}
	}
}

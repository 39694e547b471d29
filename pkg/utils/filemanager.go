// =============================================================================
// Itinerary PDF Generator - File Manager Utility
// =============================================================================
//
// This module provides the file operations of a generation run:
//   - Output file naming
//   - Write-then-rename output, so the final path never shows a partial file
//   - Existence checks
//
// WRITE STRATEGY:
//   Output is written to a uniquely named temporary file in the output
//   directory itself (same filesystem, so the rename is atomic) and renamed
//   over the final path only after the writer succeeded and the data was
//   synced. On failure the temporary file is removed and any existing file
//   at the final path is left untouched.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PDFExtension is appended to every output name.
const PDFExtension = ".pdf"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles output files for one output directory.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string
}

// NewFileManager creates a FileManager.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName derives the output file name from an itinerary title:
// spaces become hyphens and the PDF extension is appended.
//
// EXAMPLE:
//   title:  "Städtereise Rom 2025"
//   output: "Städtereise-Rom-2025.pdf"
//
// Path separators are replaced as well so a title can never leave the
// output directory.
func OutputFileName(title string) string {
	name := strings.ReplaceAll(title, " ", "-")
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	if name == "" || name == "." || name == ".." {
		name = "reiseplan"
	}
	return name + PDFExtension
}

// =============================================================================
// ATOMIC WRITE
// =============================================================================

// WriteAtomic writes a file named name in the output directory. write
// receives the temporary file; the final path is only created when it
// returns nil.
//
// RETURNS:
//   - The final path.
//   - The error of write, or of the file operations around it.
func (fm *FileManager) WriteAtomic(name string, write func(io.Writer) error) (path string, err error) {
	final := filepath.Join(fm.OutputDir, name)
	tmp := filepath.Join(fm.OutputDir, "."+name+"."+uuid.New().String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("create temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("rename to %s: %w", final, err)
	}

	return final, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a regular file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

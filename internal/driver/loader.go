package driver

import (
	"os"
	"path/filepath"
)

// FileLoader abstracts how the driver reads source files. The interactive
// session swaps in a loader that serves unsaved editor buffers; everything
// else uses RealFileLoader.
type FileLoader interface {
	// FileExists reports whether the path exists on the real filesystem.
	FileExists(path string) bool

	// AbsPath resolves the path to an absolute form.
	AbsPath(path string) (string, error)

	// ReadFile returns the current content for the path.
	ReadFile(path string) (string, error)
}

// RealFileLoader reads straight from disk.
type RealFileLoader struct{}

func (RealFileLoader) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileLoader) AbsPath(path string) (string, error) {
	return filepath.Abs(path)
}

func (RealFileLoader) ReadFile(path string) (string, error) {
	// #nosec G304 -- path comes from compiler invocation arguments
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

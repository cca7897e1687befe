// Package model holds the viewer's current directory, file and file text.
// It is a mirror of the last selection: every SetFileName re-reads the disk
// and nothing is cached.
package model

import (
	"io"
	"os"
	"unicode/utf8"

	"logviewer/internal/errors"
)

// Sentinel contents shown instead of file bytes.
const (
	TooLargeNotice = "File is bigger than the limit configured in the tools"
	NotValidNotice = "File not valid to open"
)

// BackupSuffix is appended to the current file name by WriteDoc.
const BackupSuffix = ".bak"

// FileModel is not safe for concurrent use; the front ends only touch it
// from their event loop.
type FileModel struct {
	directoryName   string
	fileName        string
	fileContents    string
	loaded          bool
	maxReadableSize int64
}

// New creates a model that refuses to read files of maxReadableSize bytes
// or more.
func New(maxReadableSize int64) *FileModel {
	return &FileModel{maxReadableSize: maxReadableSize}
}

// MaxReadableSize returns the configured ceiling.
func (m *FileModel) MaxReadableSize() int64 {
	return m.maxReadableSize
}

// SetDirectoryName stores the directory unconditionally. The caller got
// it from a directory chooser.
func (m *FileModel) SetDirectoryName(path string) {
	m.directoryName = path
}

// DirectoryName returns the last directory set, or "".
func (m *FileModel) DirectoryName() string {
	return m.directoryName
}

// SetFileName loads path into the model.
//
// Files at or above the size ceiling are recorded but never opened; their
// contents become TooLargeNotice. Paths that cannot be stat'ed or opened
// reset the model to the empty state. A file that opens but cannot be read
// as text keeps its name and gets NotValidNotice. Every failure is reported
// as a *errors.FileError.
func (m *FileModel) SetFileName(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		m.reset()
		if os.IsNotExist(err) {
			return errors.NewFileError("file not found", path, errors.FileNotFound, err)
		}
		return errors.NewFileError("cannot stat file", path, errors.FileAccessDenied, err)
	}
	if info.IsDir() {
		m.reset()
		return errors.NewFileError("path is a directory", path, errors.InvalidPath, nil)
	}

	if info.Size() >= m.maxReadableSize {
		m.fileName = path
		m.fileContents = TooLargeNotice
		m.loaded = false
		return nil
	}

	if err := checkReadable(path); err != nil {
		m.reset()
		return err
	}

	m.fileName = path
	text, err := readText(path)
	if err != nil {
		m.fileContents = NotValidNotice
		m.loaded = false
		return err
	}
	m.fileContents = text
	m.loaded = true
	return nil
}

// FileName returns the loaded file path; "" means no file.
func (m *FileModel) FileName() string {
	return m.fileName
}

// FileContents returns the text of the loaded file or a sentinel notice.
func (m *FileModel) FileContents() string {
	return m.fileContents
}

// Loaded reports whether FileContents holds the file's text rather than a
// notice.
func (m *FileModel) Loaded() bool {
	return m.loaded
}

// BackupPath returns where WriteDoc writes, or "" when no file is loaded.
func (m *FileModel) BackupPath() string {
	if m.fileName == "" {
		return ""
	}
	return m.fileName + BackupSuffix
}

// WriteDoc writes text verbatim next to the current file with a .bak
// suffix, overwriting any earlier backup. It refuses when the file's text
// was never loaded, so a notice cannot replace a real backup.
func (m *FileModel) WriteDoc(text string) error {
	if m.fileName == "" {
		return errors.NewFileError("no file loaded", "", errors.InvalidOperation, nil)
	}
	if !m.loaded {
		return errors.NewFileError("file contents not loaded", m.fileName, errors.InvalidOperation, nil)
	}
	if err := checkReadable(m.fileName); err != nil {
		return err
	}

	backup := m.BackupPath()
	if err := os.WriteFile(backup, []byte(text), 0644); err != nil {
		return errors.NewFileError("cannot write backup", backup, errors.FileCreateFailed, err)
	}
	return nil
}

func (m *FileModel) reset() {
	m.fileName = ""
	m.fileContents = ""
	m.loaded = false
}

// checkReadable reports whether path is a regular file that can be opened
// for reading.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("file not found", path, errors.FileNotFound, err)
		}
		return errors.NewFileError("file not valid to open", path, errors.FileAccessDenied, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.NewFileError("file not valid to open", path, errors.FileAccessDenied, err)
	}
	if info.IsDir() {
		return errors.NewFileError("path is a directory", path, errors.InvalidPath, nil)
	}
	return nil
}

func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewFileError("cannot read file", path, errors.FileReadFailed, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.NewFileError("cannot read file", path, errors.FileReadFailed, err)
	}
	if !utf8.Valid(data) {
		return "", errors.NewFileError("file is not text", path, errors.FileReadFailed, nil)
	}
	return string(data), nil
}

package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logviewer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewModelIsEmpty(t *testing.T) {
	m := New(1024)
	assert.Equal(t, "", m.DirectoryName())
	assert.Equal(t, "", m.FileName())
	assert.Equal(t, "", m.FileContents())
	assert.Equal(t, int64(1024), m.MaxReadableSize())
	assert.Equal(t, "", m.BackupPath())
}

func TestSetDirectoryName(t *testing.T) {
	m := New(1024)
	m.SetDirectoryName("/no/validation/here")
	assert.Equal(t, "/no/validation/here", m.DirectoryName())
}

func TestSetFileName(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file under ceiling", func(t *testing.T) {
		content := "line one\nline two\n\ttabbed ünïcode\n"
		path := writeFile(t, dir, "small.log", content)

		m := New(1024)
		require.NoError(t, m.SetFileName(path))
		assert.Equal(t, path, m.FileName())
		assert.Equal(t, content, m.FileContents())
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.log", "")
		m := New(1024)
		require.NoError(t, m.SetFileName(path))
		assert.Equal(t, path, m.FileName())
		assert.Equal(t, "", m.FileContents())
	})

	t.Run("file at ceiling gets notice", func(t *testing.T) {
		path := writeFile(t, dir, "exact.log", strings.Repeat("x", 16))
		m := New(16)
		require.NoError(t, m.SetFileName(path))
		assert.Equal(t, path, m.FileName())
		assert.Equal(t, TooLargeNotice, m.FileContents())
	})

	t.Run("oversized file is never opened", func(t *testing.T) {
		path := writeFile(t, dir, "big.log", strings.Repeat("y", 64))
		// Unreadable permissions would make an open fail; the notice
		// proves the open was skipped.
		require.NoError(t, os.Chmod(path, 0000))
		defer os.Chmod(path, 0644)

		m := New(10)
		require.NoError(t, m.SetFileName(path))
		assert.Equal(t, path, m.FileName())
		assert.Equal(t, TooLargeNotice, m.FileContents())
	})

	t.Run("nonexistent path resets", func(t *testing.T) {
		good := writeFile(t, dir, "good.log", "good")
		m := New(1024)
		require.NoError(t, m.SetFileName(good))

		err := m.SetFileName(filepath.Join(dir, "missing.log"))
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
		assert.Equal(t, "", m.FileName())
		assert.Equal(t, "", m.FileContents())
	})

	t.Run("directory resets", func(t *testing.T) {
		m := New(1 << 30)
		err := m.SetFileName(dir)
		require.Error(t, err)
		assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
		assert.Equal(t, "", m.FileName())
		assert.Equal(t, "", m.FileContents())
	})

	t.Run("unreadable file resets", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("Skipping test when running as root")
		}
		path := writeFile(t, dir, "locked.log", "secret")
		require.NoError(t, os.Chmod(path, 0000))
		defer os.Chmod(path, 0644)

		m := New(1024)
		err := m.SetFileName(path)
		require.Error(t, err)
		assert.True(t, errors.IsFileAccessDenied(err))
		assert.Equal(t, "", m.FileName())
		assert.Equal(t, "", m.FileContents())
	})

	t.Run("binary file gets not valid notice", func(t *testing.T) {
		path := filepath.Join(dir, "binary.dat")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0644))

		m := New(1024)
		err := m.SetFileName(path)
		require.Error(t, err)
		assert.Equal(t, errors.FileReadFailed, errors.KindOf(err))
		assert.Equal(t, path, m.FileName())
		assert.Equal(t, NotValidNotice, m.FileContents())
	})

	t.Run("re-reads on every call", func(t *testing.T) {
		path := writeFile(t, dir, "changing.log", "first")
		m := New(1024)
		require.NoError(t, m.SetFileName(path))
		assert.Equal(t, "first", m.FileContents())

		writeFile(t, dir, "changing.log", "second")
		require.NoError(t, m.SetFileName(path))
		assert.Equal(t, "second", m.FileContents())
	})
}

func TestWriteDoc(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes backup verbatim", func(t *testing.T) {
		path := writeFile(t, dir, "doc.xml", "<a/>")
		m := New(1024)
		require.NoError(t, m.SetFileName(path))

		text := "edited\r\ncontent\x00 with bytes\n"
		require.NoError(t, m.WriteDoc(text))

		got, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		assert.Equal(t, text, string(got))
		assert.Equal(t, path+".bak", m.BackupPath())
	})

	t.Run("overwrites existing backup", func(t *testing.T) {
		path := writeFile(t, dir, "again.xml", "<a/>")
		writeFile(t, dir, "again.xml.bak", "a much longer previous backup")
		m := New(1024)
		require.NoError(t, m.SetFileName(path))

		require.NoError(t, m.WriteDoc("short"))
		got, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		assert.Equal(t, "short", string(got))
	})

	t.Run("no file loaded", func(t *testing.T) {
		m := New(1024)
		err := m.WriteDoc("text")
		require.Error(t, err)
		assert.Equal(t, errors.InvalidOperation, errors.KindOf(err))
	})

	t.Run("refuses notice contents", func(t *testing.T) {
		big := writeFile(t, dir, "big.log", strings.Repeat("x", 64))
		bad := writeFile(t, dir, "bad.bin", "\xff\xfe")
		writeFile(t, dir, "big.log.bak", "earlier backup")

		m := New(10)
		require.NoError(t, m.SetFileName(big))
		assert.False(t, m.Loaded())
		err := m.WriteDoc(m.FileContents())
		assert.Equal(t, errors.InvalidOperation, errors.KindOf(err))
		got, readErr := os.ReadFile(big + ".bak")
		require.NoError(t, readErr)
		assert.Equal(t, "earlier backup", string(got))

		m = New(1024)
		require.Error(t, m.SetFileName(bad))
		assert.False(t, m.Loaded())
		err = m.WriteDoc(m.FileContents())
		assert.Equal(t, errors.InvalidOperation, errors.KindOf(err))
		_, statErr := os.Stat(bad + ".bak")
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("file removed since load", func(t *testing.T) {
		path := writeFile(t, dir, "gone.log", "x")
		m := New(1024)
		require.NoError(t, m.SetFileName(path))
		require.NoError(t, os.Remove(path))

		err := m.WriteDoc("text")
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
		_, statErr := os.Stat(path + ".bak")
		assert.True(t, os.IsNotExist(statErr))
	})
}

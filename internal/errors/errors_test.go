package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.Equal(t, "formatted error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, errors.Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, errors.Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot access", "/path/to/file", FileAccessDenied, nil)
	assert.Equal(t, "cannot access: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file: permission denied", fileErr.Error())
	assert.Equal(t, origErr, errors.Unwrap(fileErr))

	notFoundErr := NewFileError("no such file", "/missing/file", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr))
	assert.True(t, IsFileAccessDenied(fileErr))
	assert.False(t, IsFileAccessDenied(notFoundErr))

	var fe *FileError
	assert.True(t, As(fileErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "validate.report", InvalidConfig, nil)
	assert.Equal(t, "invalid value: validate.report", configErr.Error())
	assert.Equal(t, "validate.report", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	origErr := fmt.Errorf("value out of range")
	configErr = NewConfigError("invalid value", "validate.report", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: validate.report: value out of range", configErr.Error())
	assert.Equal(t, origErr, errors.Unwrap(configErr))

	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
}

func TestValidationError(t *testing.T) {
	issues := []Issue{
		{Line: 3, Message: "Element 'b': This element is not expected."},
		{Message: "no line"},
	}
	valErr := NewValidationError("document does not satisfy schema", DocumentInvalid, issues, nil)

	assert.Equal(t, DocumentInvalid, valErr.Kind())
	assert.Len(t, valErr.Issues(), 2)
	assert.Equal(t, "line 3: Element 'b': This element is not expected.", valErr.Issues()[0].String())
	assert.Equal(t, "no line", valErr.Issues()[1].String())
	assert.Contains(t, valErr.Error(), "line 3")
	var wrapped *ValidationError
	assert.True(t, As(Wrap(valErr, "validate"), &wrapped))

	empty := NewValidationError("validation failed", ValidationFailed, nil, errors.New("boom"))
	assert.Equal(t, "validation failed: boom", empty.Error())
}

func TestKindOf(t *testing.T) {
	fileErr := NewFileError("read failed", "/x", FileReadFailed, nil)
	assert.Equal(t, FileReadFailed, KindOf(Wrap(fileErr, "outer")))
	assert.Equal(t, FileReadFailed, KindOf(Wrapf(Wrap(fileErr, "inner"), "outer %d", 2)))
	assert.Equal(t, FileReadFailed, KindOf(fmt.Errorf("context: %w", fileErr)))
	assert.Equal(t, FileReadFailed, Wrap(fileErr, "outer").(*ApplicationError).Kind())
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(Wrap(New("plain"), "outer")))
	assert.Equal(t, Unknown, KindOf(nil))
	assert.Equal(t, "file read failed", FileReadFailed.String())
}

func TestErrorChains(t *testing.T) {
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/to/file", FileNotFound, baseErr)
	configErr := NewConfigError("config error", "log.file", InvalidConfig, fileErr)

	assert.Equal(t, "config error: log.file: file error: /path/to/file: base error", configErr.Error())
	assert.True(t, errors.Is(configErr, baseErr))
	assert.True(t, errors.Is(configErr, fileErr))

	var fe *FileError
	assert.True(t, As(configErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())

	assert.True(t, IsFileNotFound(configErr))
	assert.True(t, IsInvalidConfig(configErr))
}

// Package xsd validates XML documents against W3C XML Schema files with
// libxml2. Both files are checked for well-formedness first so syntax
// problems carry the line they were found on; schema compilation and
// validation are left to libxml2.
package xsd

import (
	"bytes"
	"os"
	"regexp"
	"strconv"
	"strings"

	"logviewer/internal/errors"

	"github.com/lestrrat-go/libxml2"
	libxsd "github.com/lestrrat-go/libxml2/xsd"
)

// Schema is a compiled schema. Free releases the libxml2 structure.
type Schema struct {
	schema *libxsd.Schema
}

// ParseFile compiles the schema file at path.
func ParseFile(path string) (*Schema, error) {
	data, err := readFile("cannot open schema", path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse compiles a schema. Problems are returned as a
// *errors.ValidationError of kind SchemaInvalid.
func Parse(data []byte) (*Schema, error) {
	if issues := checkSyntax(bytes.NewReader(data)); len(issues) > 0 {
		return nil, errors.NewValidationError("schema is not well-formed", errors.SchemaInvalid, issues, nil)
	}
	s, err := libxsd.Parse(data)
	if err != nil {
		return nil, errors.NewValidationError("schema cannot be compiled", errors.SchemaInvalid, issuesFrom(err), err)
	}
	return &Schema{schema: s}, nil
}

// Free releases the compiled schema. The Schema must not be used after.
func (s *Schema) Free() {
	if s.schema != nil {
		s.schema.Free()
		s.schema = nil
	}
}

// ValidateFile validates the document at path.
func (s *Schema) ValidateFile(path string) error {
	data, err := readFile("cannot open document", path)
	if err != nil {
		return err
	}
	return s.Validate(data)
}

// Validate checks a document against the schema. It returns nil when the
// document is valid and a *errors.ValidationError otherwise: of kind
// DocumentMalformed when the document is not well-formed XML and of kind
// DocumentInvalid when it does not conform.
func (s *Schema) Validate(data []byte) error {
	if issues := checkSyntax(bytes.NewReader(data)); len(issues) > 0 {
		return errors.NewValidationError("document is not well-formed", errors.DocumentMalformed, issues, nil)
	}
	doc, err := libxml2.Parse(data)
	if err != nil {
		return errors.NewValidationError("document is not well-formed", errors.DocumentMalformed, issuesFrom(err), err)
	}
	defer doc.Free()

	if err := s.schema.Validate(doc); err != nil {
		return errors.NewValidationError("document fails to validate", errors.DocumentInvalid, issuesFrom(err), err)
	}
	return nil
}

// libxml2 reports either "file:line: message" or a message mentioning
// "line N"; anything else has no location.
var (
	locationPrefix = regexp.MustCompile(`^[^:\s]*:(\d+):\s*`)
	lineMention    = regexp.MustCompile(`\bline (\d+)\b`)
)

// issuesFrom turns a libxml2 error, or the list carried by a schema
// validation error, into located issues in the order libxml2 found them.
func issuesFrom(err error) []errors.Issue {
	errs := []error{err}
	var multi interface{ Errors() []error }
	if errors.As(err, &multi) && len(multi.Errors()) > 0 {
		errs = multi.Errors()
	}

	issues := make([]errors.Issue, 0, len(errs))
	for _, e := range errs {
		issues = append(issues, issueOf(e.Error()))
	}
	return issues
}

func issueOf(msg string) errors.Issue {
	msg = strings.TrimSpace(msg)
	if m := locationPrefix.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return errors.Issue{Line: line, Message: strings.TrimSpace(msg[len(m[0]):])}
	}
	if m := lineMention.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return errors.Issue{Line: line, Message: msg}
	}
	return errors.Issue{Message: msg}
}

func readFile(msg, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	kind := errors.FileAccessDenied
	if os.IsNotExist(err) {
		kind = errors.FileNotFound
	}
	return nil, errors.NewFileError(msg, path, kind, err)
}

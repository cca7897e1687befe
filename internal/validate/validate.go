// Package validate checks an XML file against an XSD schema and turns the
// outcome into the text shown in the status pane.
package validate

import (
	"fmt"
	"strings"

	"logviewer/internal/errors"
	"logviewer/internal/log"
	"logviewer/internal/xsd"
)

// Fixed status messages.
const (
	NoFileMessage   = "No file selected"
	NoSchemaMessage = "No xsd selected"
	SuccessMessage  = "Success"
	FailedMessage   = "Validation failed"
)

// Report modes.
const (
	ReportAll  = "all"
	ReportLast = "last"
)

// Report is the outcome of one validation.
type Report struct {
	OK       bool
	Messages []string
	// Kind tells which phase failed; Unknown on success and for the
	// "no file" branches.
	Kind errors.ErrorKind
}

// String joins the messages one per line.
func (r Report) String() string {
	return strings.Join(r.Messages, "\n")
}

// Validator validates documents against schemas.
type Validator struct {
	mode   string
	logger *log.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithMode selects ReportAll or ReportLast. Unknown modes keep ReportAll.
func WithMode(mode string) Option {
	return func(v *Validator) {
		if mode == ReportLast {
			v.mode = ReportLast
		}
	}
}

// WithLogger sets the trace sink.
func WithLogger(l *log.Logger) Option {
	return func(v *Validator) {
		v.logger = l
	}
}

// New creates a Validator. The default mode reports every issue.
func New(opts ...Option) *Validator {
	v := &Validator{mode: ReportAll, logger: log.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mode returns the report mode in effect.
func (v *Validator) Mode() string {
	return v.mode
}

// Validate checks the document at xmlPath against the schema at xsdPath.
// Either path being empty short-circuits without reading anything.
func (v *Validator) Validate(xmlPath, xsdPath string) Report {
	if xmlPath == "" {
		return Report{Messages: []string{NoFileMessage}}
	}
	if xsdPath == "" {
		return Report{Messages: []string{NoSchemaMessage}}
	}

	l := v.logger.With(log.F("xml", xmlPath), log.F("xsd", xsdPath))
	l.Debug("Validating document")

	schema, err := xsd.ParseFile(xsdPath)
	if err != nil {
		return v.failure(l, err)
	}
	defer schema.Free()
	if err := schema.ValidateFile(xmlPath); err != nil {
		return v.failure(l, err)
	}

	l.Info("Document is valid")
	return Report{OK: true, Messages: []string{SuccessMessage}}
}

func (v *Validator) failure(l *log.Entry, err error) Report {
	kind := errors.KindOf(err)
	l.With(log.ErrorFields(err)...).Warn("Validation failed")

	var verr *errors.ValidationError
	if !errors.As(err, &verr) || len(verr.Issues()) == 0 {
		return Report{Messages: []string{FailedMessage}, Kind: kind}
	}

	prefix := phasePrefix(kind)
	issues := verr.Issues()
	if v.mode == ReportLast {
		issues = issues[len(issues)-1:]
	}
	messages := make([]string, len(issues))
	for i, issue := range issues {
		if issue.Line > 0 {
			messages[i] = fmt.Sprintf("%s, %s", prefix, issue)
		} else {
			messages[i] = fmt.Sprintf("%s: %s", prefix, issue)
		}
	}
	return Report{Messages: messages, Kind: kind}
}

func phasePrefix(kind errors.ErrorKind) string {
	switch kind {
	case errors.SchemaInvalid:
		return "Schema error"
	case errors.DocumentMalformed:
		return "Syntax error"
	default:
		return "Validation error"
	}
}

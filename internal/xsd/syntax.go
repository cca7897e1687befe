package xsd

import (
	"encoding/xml"
	"io"
	"strings"

	"logviewer/internal/errors"

	"golang.org/x/net/html/charset"
)

// checkSyntax reads a whole document and reports the first
// well-formedness problem with the line it was found on. A nil result
// means the document is well-formed.
func checkSyntax(r io.Reader) []errors.Issue {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	depth, roots := 0, 0
	for {
		line, _ := dec.InputPos()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				return []errors.Issue{{Line: se.Line, Message: se.Msg}}
			}
			return []errors.Issue{{Line: line, Message: err.Error()}}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return []errors.Issue{{Line: line, Message: "Extra content at the end of the document"}}
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth > 0 || strings.TrimSpace(string(t)) == "" {
				continue
			}
			if roots == 0 {
				return []errors.Issue{{Line: line, Message: "Start tag expected, '<' not found"}}
			}
			return []errors.Issue{{Line: line, Message: "Extra content at the end of the document"}}
		}
	}

	if roots == 0 {
		return []errors.Issue{{Line: 1, Message: "Document is empty"}}
	}
	return nil
}

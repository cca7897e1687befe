package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content.
// Names may contain slashes; parent directories are created.
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// ConfigSchema is a small XSD accepting <config><port>int</port></config>.
const ConfigSchema = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="config">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="port" type="xs:int"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

// CreateViewerFixture writes a directory with a C file, a text file, a
// valid and an invalid XML file, the schema for them and a subdirectory.
func CreateViewerFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	CreateTestFilesWithContent(t, dir, map[string]string{
		"a.c":           "int main() {\n  return 0; // Done\n}\n",
		"notes.txt":     "one\ntwo\nthree\nfour\nfive\nsix",
		"config.xml":    "<config>\n  <port>80</port>\n</config>",
		"bad.xml":       "<config>\n  <port>x</port>\n</config>",
		"config.xsd":    ConfigSchema,
		"sub/inner.log": "inner",
	})
	return dir
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}

package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Metadata is the parsed frontmatter of a single document.
type Metadata map[string]any

// Raw returns the value stored under key.
func (m Metadata) Raw(key string) (any, bool) {
	v, ok := m[key]
	return v, ok && v != nil
}

// String returns a scalar value rendered as a trimmed string. Maps, sequences,
// nulls and blank strings report false.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m.Raw(key)
	if !ok {
		return "", false
	}
	var s string
	switch vv := v.(type) {
	case string:
		s = vv
	case time.Time:
		s = vv.Format("2006-01-02")
	case int, int64, uint64, float64, bool:
		s = fmt.Sprint(vv)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Extract separates a raw document into its metadata and markdown body.
//
// Documents without a leading `---` block yield empty metadata and the full
// input as body. An empty block is fine; a block that is not closed or does
// not hold a YAML mapping is an error.
func Extract(content []byte) (Metadata, []byte, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	if !had {
		return Metadata{}, body, nil
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return nil, nil, err
	}
	return Metadata(fields), body, nil
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input. A closing delimiter at end of input without a
// trailing newline is accepted.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(rest, closeLine) {
		return []byte{}, rest[len(closeLine):], true, nil
	}
	if bytes.Equal(rest, []byte("---")) {
		return []byte{}, []byte{}, true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
	}
	if tail := []byte(nl + "---"); bytes.HasSuffix(rest, tail) {
		return rest[:len(rest)-len("---")], []byte{}, true, nil
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, fmt.Errorf("parse yaml frontmatter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

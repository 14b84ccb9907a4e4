// Package yaml decodes YAML front-matter and version manifests.
package yaml

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docver"
	"github.com/inful/mdfp"
	yamlv3 "gopkg.in/yaml.v3"
)

// Split separates `---` delimited front-matter from the markdown body.
// If the content does not open with a delimiter, had is false and body is the
// full input. CRLF line endings are accepted.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len(nl+"---")
			if end >= start {
				return content[start:end], []byte{}, true, nil
			}
		}
		return nil, nil, false, docver.Errorf(docver.EINVALID, "front-matter closing delimiter is missing")
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// ParseFields decodes raw front-matter (without delimiters) into a mapping.
func ParseFields(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yamlv3.Unmarshal(frontmatter, &fields); err != nil {
		return nil, docver.Errorf(docver.EINVALID, "invalid front-matter: %v", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseDocument decodes a markdown document with optional front-matter into
// a RawDocument stored under path. The fingerprint covers both the
// front-matter and the body, so it changes whenever either does.
func ParseDocument(path string, content []byte) (*docver.RawDocument, error) {
	fm, body, _, err := Split(content)
	if err != nil {
		return nil, err
	}

	fields, err := ParseFields(fm)
	if err != nil {
		return nil, err
	}

	return &docver.RawDocument{
		Path:        path,
		Content:     string(body),
		Attributes:  docver.NewAttributes(fields),
		Fingerprint: Fingerprint(fm, body),
	}, nil
}

// Fingerprint returns the content fingerprint of a document split into its
// front-matter and body parts.
func Fingerprint(frontmatter, body []byte) string {
	fm := strings.ReplaceAll(string(frontmatter), "\r\n", "\n")
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(fm, "\n"), string(body))
}

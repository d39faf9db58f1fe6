package vault

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// document is a markdown file split into its frontmatter mapping and body
type document struct {
	front *yaml.Node // mapping node
	body  []byte
}

// parseDocument splits content into frontmatter and body. A file without
// frontmatter yields an empty mapping and the whole content as body.
func parseDocument(content []byte) (*document, error) {
	front, body, ok := splitFrontmatter(content)
	doc := &document{front: &yaml.Node{Kind: yaml.MappingNode}, body: body}
	if !ok {
		return doc, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(front, &root); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	if root.Kind == 0 {
		return doc, nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}
	doc.front = root.Content[0]
	return doc, nil
}

// splitFrontmatter returns the YAML between the leading "---" line and the
// next "---" line, and everything after it
func splitFrontmatter(content []byte) ([]byte, []byte, bool) {
	first, rest, found := cutLine(content)
	if !found || string(bytes.TrimRight(first, "\r")) != delimiter {
		return nil, content, false
	}

	offset := 0
	for {
		line, next, more := cutLine(rest[offset:])
		if string(bytes.TrimRight(line, "\r")) == delimiter {
			return rest[:offset], next, true
		}
		if !more {
			return nil, content, false
		}
		offset += len(line) + 1
	}
}

// cutLine splits b at the first newline
func cutLine(b []byte) (line, rest []byte, found bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// bytes renders the document with a two-space indented frontmatter
func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	if len(d.front.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d.front); err != nil {
			return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
		}
	}
	buf.WriteString(delimiter + "\n")
	buf.Write(d.body)
	return buf.Bytes(), nil
}

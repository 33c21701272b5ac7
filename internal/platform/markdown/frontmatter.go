package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// RenderFrontmatter prepends a YAML frontmatter block to body.
func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if len(body) == 0 || body[0] != '\n' {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

package store

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// DateLayout is the frontmatter date format
const DateLayout = "2006-01-02"

// Frontmatter is the YAML header of a saved document
type Frontmatter struct {
	Title string    `yaml:"title"`
	Date  time.Time `yaml:"date"`
}

// withFrontmatter renders the header and content. The title is always
// double quoted and the date is a bare YYYY-MM-DD.
func withFrontmatter(fm Frontmatter, content string) ([]byte, error) {
	node := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "title"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: fm.Title, Style: yaml.DoubleQuotedStyle},
			{Kind: yaml.ScalarNode, Value: "date"},
			{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: fm.Date.Format(DateLayout)},
		},
	}
	header, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(header)
	buf.WriteString(fence + "\n\n")
	buf.WriteString(content)
	return buf.Bytes(), nil
}

// splitFrontmatter parses a leading YAML header. A file without one is all
// body.
func splitFrontmatter(data []byte) (Frontmatter, string, error) {
	var fm Frontmatter
	rest, ok := bytes.CutPrefix(data, []byte(fence+"\n"))
	if !ok {
		return fm, string(data), nil
	}
	header, body, ok := bytes.Cut(rest, []byte("\n"+fence+"\n"))
	if !ok {
		return fm, string(data), nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	body = bytes.TrimPrefix(body, []byte("\n"))
	return fm, string(body), nil
}

// Package htmltomarkdown converts authored HTML pages into markdown documents.
package htmltomarkdown

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docver"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Converter implements docver.Converter at compile time.
var _ docver.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to turn HTML pages into RawDocuments.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// ConvertDocument parses an HTML page, lifts <title> and named <meta> tags
// into attributes, and converts the <body> to markdown.
func (c *Converter) ConvertDocument(path string, src []byte) (*docver.RawDocument, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, docver.Errorf(docver.EINVALID, "empty HTML input")
	}

	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, docver.Errorf(docver.EINVALID, "failed to parse HTML: %v", err)
	}

	fields := make(map[string]any)
	var body *html.Node

	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if _, ok := fields[docver.AttrTitle]; !ok {
					fields[docver.AttrTitle] = strings.TrimSpace(textContent(n))
				}
			case atom.Meta:
				name, content := attr(n, "name"), attr(n, "content")
				if name != "" {
					fields[strings.ToLower(name)] = content
				}
			case atom.Body:
				body = n
				continue
			}
		}
		for child := n.LastChild; child != nil; child = child.PrevSibling {
			stack = append(stack, child)
		}
	}

	var buf bytes.Buffer
	if body != nil {
		for child := body.FirstChild; child != nil; child = child.NextSibling {
			if err := html.Render(&buf, child); err != nil {
				return nil, docver.Errorf(docver.EINVALID, "render body of %s: %v", path, err)
			}
		}
	}

	content := ""
	if strings.TrimSpace(buf.String()) != "" {
		content, err = c.conv.ConvertString(buf.String())
		if err != nil {
			return nil, docver.Errorf(docver.EINVALID, "convert %s: %v", path, err)
		}
	}

	if title, _ := fields[docver.AttrTitle].(string); title == "" {
		delete(fields, docver.AttrTitle)
	}

	return &docver.RawDocument{
		Path:       path,
		Content:    content,
		Attributes: docver.NewAttributes(fields),
	}, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.TextNode {
			sb.WriteString(cur.Data)
		}
		for child := cur.LastChild; child != nil; child = child.PrevSibling {
			stack = append(stack, child)
		}
	}
	return sb.String()
}

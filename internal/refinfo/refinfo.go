// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refinfo renders the {{Ref info}} report for a page and turns
// the returned HTML into plain text lines.
package refinfo

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/citelink/pkg/types"
)

// Parser renders wikitext to HTML in the context of a page.
type Parser interface {
	Parse(ctx context.Context, text, title string) (string, error)
}

// Fetch renders {{Ref info|page}} and returns its text lines.
func Fetch(ctx context.Context, p Parser, page string) ([]string, error) {
	page = types.NormalizeTitle(page)
	if page == "" {
		return nil, fmt.Errorf("ref info: page title is empty")
	}
	out, err := p.Parse(ctx, "{{Ref info|"+page+"}}", page)
	if err != nil {
		return nil, fmt.Errorf("rendering ref info for %s: %w", page, err)
	}
	return TextLines(strings.NewReader(out))
}

// TextLines converts rendered HTML to text, one line per block. Table
// rows are joined cell by cell with " | ". Scripts, styles and hidden
// edit links are dropped.
func TextLines(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		if t := collapse(cur.String()); t != "" {
			lines = append(lines, t)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "span":
				if hasClass(n, "mw-editsection") {
					return
				}
			case "br":
				flush()
				return
			case "tr":
				flush()
				var cells []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						cells = append(cells, collapse(textContent(c)))
					}
				}
				if row := strings.Join(cells, " | "); strings.Trim(row, " |") != "" {
					lines = append(lines, row)
				}
				return
			}
		}

		block := n.Type == html.ElementNode && isBlock(n.Data)
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(doc)
	flush()
	return lines, nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "dl", "dt", "dd", "table", "caption",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "blockquote":
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

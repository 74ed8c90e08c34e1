package xhtmlsafe

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TidyNormalizer re-parses a fragment with the HTML5 fragment parser, which
// closes unclosed tags and repairs misnested ones, and writes it back as
// XHTML. With Indent set the result is also pretty-printed.
type TidyNormalizer struct {
	Indent bool
}

var bodyContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

// Normalize returns fragment with every element closed and void elements
// self-closed.
func (t TidyNormalizer) Normalize(fragment string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext)
	if err != nil {
		return "", fmt.Errorf("xhtmlsafe: tidy: %w", err)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		writeXHTML(&buf, n)
	}

	if t.Indent {
		return gohtml.Format(buf.String()), nil
	}
	return buf.String(), nil
}

func writeXHTML(buf *bytes.Buffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(html.EscapeString(n.Data))

	case html.ElementNode:
		buf.WriteByte('<')
		buf.WriteString(n.Data)
		for _, a := range n.Attr {
			buf.WriteByte(' ')
			if a.Namespace != "" {
				buf.WriteString(a.Namespace)
				buf.WriteByte(':')
			}
			buf.WriteString(a.Key)
			buf.WriteString(`="`)
			buf.WriteString(html.EscapeString(a.Val))
			buf.WriteByte('"')
		}
		if isVoidElement(n.DataAtom) {
			buf.WriteString(" />")
			return
		}
		buf.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTML(buf, c)
		}
		buf.WriteString("</")
		buf.WriteString(n.Data)
		buf.WriteByte('>')

	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTML(buf, c)
		}

	default:
		// comments and doctypes never reach the normalizer
	}
}

func isVoidElement(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

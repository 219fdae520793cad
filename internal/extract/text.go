package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// invisibleElements are skipped when collecting visible text.
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// VisibleText returns the document's text content with script, style,
// noscript and template subtrees removed. Text nodes are joined with single
// spaces so adjacent blocks never merge into one token.
func VisibleText(doc *goquery.Document) string {
	var b strings.Builder
	for _, n := range doc.Nodes {
		collectText(n, &b)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// collectText walks the node tree depth-first.
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && invisibleElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

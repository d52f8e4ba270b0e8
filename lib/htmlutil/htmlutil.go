package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var lineBreakTags = map[string]bool{
	"br": true,
	"p":  true,
	"li": true,
	"tr": true,
}

// GetText extracts the visible text of a selection, producing a
// newline wherever a <br> or the end of a block element would break
// the rendered text. Lines are trimmed individually and empty lines
// are dropped.
func GetText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, node := range sel.Nodes {
		getTextRecursive(node, &buffer)
	}

	var lines []string
	for _, line := range strings.Split(buffer.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
	if node.Type == html.ElementNode && lineBreakTags[node.Data] {
		buffer.WriteString("\n")
	}
}

// FirstAnchorHref returns the href of the first anchor inside the
// selection, if any.
func FirstAnchorHref(sel *goquery.Selection) (string, bool) {
	href, ok := sel.Find("a[href]").First().Attr("href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

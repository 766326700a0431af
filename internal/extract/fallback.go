package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// walkDocument is the tolerant fallback when readability gives up: a plain
// DOM walk that keeps block text and skips script, style, and obvious
// navigation chrome. html.Parse recovers from almost any markup, so this
// path rarely fails outright.
func walkDocument(input []byte) (title, text string) {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return "", ""
	}
	title = strings.TrimSpace(findFirstText(node, "title"))
	var b strings.Builder
	if body := findFirst(node, "body"); body != nil {
		collectText(&b, body)
	}
	return title, b.String()
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

func findFirstText(n *html.Node, tag string) string {
	el := findFirst(n, tag)
	if el == nil || el.FirstChild == nil {
		return ""
	}
	return el.FirstChild.Data
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "footer", "aside", "iframe":
			return
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "br":
			b.WriteString(" ")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

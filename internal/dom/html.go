package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// HTMLElement adapts a parsed net/html node to the Element interface.
type HTMLElement struct {
	node *html.Node
}

// Parse parses raw markup and returns the document's root element.
func Parse(markup string) (*HTMLElement, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	root := firstElement(doc)
	if root == nil {
		return nil, fmt.Errorf("markup contains no elements")
	}

	return &HTMLElement{node: root}, nil
}

func firstElement(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := firstElement(c); el != nil {
			return el
		}
	}
	return nil
}

func (e *HTMLElement) Tag() string {
	return e.node.Data
}

func (e *HTMLElement) ID() string {
	id, _ := e.Attr("id")
	return id
}

func (e *HTMLElement) Classes() []string {
	class, _ := e.Attr("class")
	return strings.Fields(class)
}

func (e *HTMLElement) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *HTMLElement) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		attrs = append(attrs, Attribute{Key: a.Key, Value: a.Val})
	}
	return attrs
}

func (e *HTMLElement) Text() string {
	var b strings.Builder
	collectText(e.node, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func (e *HTMLElement) Parent() Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return &HTMLElement{node: p}
}

func (e *HTMLElement) Children() []Element {
	var children []Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, &HTMLElement{node: c})
		}
	}
	return children
}

func (e *HTMLElement) Find(selector string) ([]Element, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	nodes := cascadia.QueryAll(e.node, sel)
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &HTMLElement{node: n})
	}
	return elements, nil
}

func (e *HTMLElement) Same(other Element) bool {
	o, ok := other.(*HTMLElement)
	return ok && o != nil && o.node == e.node
}

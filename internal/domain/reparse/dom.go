package reparse

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// node is a minimal element tree. Game files are small, so building the whole
// tree keeps the per-kind parsers declarative.
type node struct {
	Name     string
	Attrs    map[string]string
	Children []*node
	Text     string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseDocument reads an XML document and checks its root element name.
func parseDocument(data []byte, root string) (*node, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var stack []*node
	var top *node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if top != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				top = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %q", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element %q", stack[len(stack)-1].Name)
	}
	if top == nil {
		return nil, fmt.Errorf("empty document")
	}
	if top.Name != root {
		return nil, fmt.Errorf("root element is %q, want %q", top.Name, root)
	}
	return top, nil
}

// All returns the direct children named tag, in document order.
func (n *node) All(tag string) []*node {
	var out []*node
	for _, c := range n.Children {
		if c.Name == tag {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) descendants(tag string, out []*node) []*node {
	for _, c := range n.Children {
		if c.Name == tag {
			out = append(out, c)
		}
		out = c.descendants(tag, out)
	}
	return out
}

// Unique returns the single descendant named tag. Zero or several matches
// are errors.
func (n *node) Unique(tag string) (*node, error) {
	found := n.descendants(tag, nil)
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, fmt.Errorf("<%s> has no <%s>", n.Name, tag)
	default:
		return nil, fmt.Errorf("<%s> has %d <%s>, want 1", n.Name, len(found), tag)
	}
}

// Optional returns the descendant named tag, or nil when absent. Several
// matches are an error.
func (n *node) Optional(tag string) (*node, error) {
	found := n.descendants(tag, nil)
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("<%s> has %d <%s>, want at most 1", n.Name, len(found), tag)
	}
}

// Value is the trimmed text content.
func (n *node) Value() string {
	return strings.TrimSpace(n.Text)
}

// Attr returns a required attribute.
func (n *node) Attr(name string) (string, error) {
	v, ok := n.Attrs[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("<%s> missing attribute %q", n.Name, name)
	}
	return strings.TrimSpace(v), nil
}

// AttrOr returns an attribute or def when it is absent or blank.
func (n *node) AttrOr(name, def string) string {
	v, ok := n.Attrs[name]
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// IntAttr parses a required integer attribute.
func (n *node) IntAttr(name string) (int, error) {
	v, err := n.Attr(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("<%s> attribute %q: %w", n.Name, name, err)
	}
	return i, nil
}

// IntAttrOr parses an integer attribute with a default.
func (n *node) IntAttrOr(name string, def int) (int, error) {
	v := n.AttrOr(name, "")
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("<%s> attribute %q: %w", n.Name, name, err)
	}
	return i, nil
}

// ChildText returns the text of an optional descendant, or def.
func (n *node) ChildText(tag, def string) (string, error) {
	c, err := n.Optional(tag)
	if err != nil {
		return "", err
	}
	if c == nil || c.Value() == "" {
		return def, nil
	}
	return c.Value(), nil
}

// RequiredText returns the text of the unique descendant tag.
func (n *node) RequiredText(tag string) (string, error) {
	c, err := n.Unique(tag)
	if err != nil {
		return "", err
	}
	return c.Value(), nil
}

// ChildInt parses the text of an optional descendant as an integer.
func (n *node) ChildInt(tag string, def int) (int, error) {
	s, err := n.ChildText(tag, "")
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("<%s>: %w", tag, err)
	}
	return i, nil
}

// RequiredInt parses the text of the unique descendant tag as an integer.
func (n *node) RequiredInt(tag string) (int, error) {
	s, err := n.RequiredText(tag)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("<%s>: %w", tag, err)
	}
	return i, nil
}

// Texts returns the trimmed text of every direct child named tag.
func (n *node) Texts(tag string) []string {
	var out []string
	for _, c := range n.All(tag) {
		if v := c.Value(); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Package page is the document model: a tree of typed blocks and spans with
// stable identifiers, the hash index, and the mutation primitives the edit
// engine composes.
package page

import (
	"github.com/iw2rmb/mdpage/dom"
)

// TextKey is the canonical content key of a RawText node.
const TextKey = "text"

// Node is a block or span in the document tree.
//
// The parent relation is a lookup, not an ownership edge: a node stores its
// parent's hash and Doc.Parent resolves it through the index.
type Node struct {
	Hash     string
	Kind     Kind
	Content  map[string]string
	Children []*Node

	// Foreign is the saved type token of a node whose kind is Unknown.
	Foreign string

	// Elem is the live element while the node is attached.
	Elem dom.Element
	// Height is the content height captured the last time the node was
	// attached as a leaf block.
	Height float64

	parent string
}

// NewNode returns a node without a hash. Docs assign hashes when the node is
// inserted.
func NewNode(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewText returns a RawText node without a hash.
func NewText(text string) *Node {
	return &Node{Kind: RawText, Content: map[string]string{TextKey: text}}
}

// Text returns content["text"].
func (n *Node) Text() string {
	if n == nil || n.Content == nil {
		return ""
	}
	return n.Content[TextKey]
}

func (n *Node) setText(s string) {
	if n.Content == nil {
		n.Content = map[string]string{}
	}
	n.Content[TextKey] = s
}

// ParentHash returns the hash of the owning node, or "" for the root and for
// detached nodes.
func (n *Node) ParentHash() string { return n.parent }

// Attached reports whether the node currently has a live element.
func (n *Node) Attached() bool { return n != nil && n.Elem != nil }

func (n *Node) IsLeafBlock() bool { return n != nil && n.Kind.IsLeafBlock() }

func (n *Node) FirstChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func (n *Node) LastChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// ClearElems drops the element references of n and its descendants.
func (n *Node) ClearElems() {
	n.Walk(func(c *Node) bool {
		c.Elem = nil
		return true
	})
}

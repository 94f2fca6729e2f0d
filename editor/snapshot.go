package editor

import (
	"maps"

	"github.com/iw2rmb/mdpage/page"
)

// State is the persisted shape of a page: its blocks and the scroll window.
type State struct {
	Nodes           []NodeState `yaml:"nodes" json:"nodes"`
	TopHash         string      `yaml:"top_hash,omitempty" json:"top_hash,omitempty"`
	TopPad          float64     `yaml:"top_pad" json:"top_pad"`
	TopScrollOffset float64     `yaml:"top_scroll_offset" json:"top_scroll_offset"`
	BotPad          float64     `yaml:"bot_pad" json:"bot_pad"`
}

// NodeState is one persisted node. Type is the kind token.
type NodeState struct {
	Hash     string            `yaml:"hash,omitempty" json:"hash,omitempty"`
	Type     string            `yaml:"type" json:"type"`
	Content  map[string]string `yaml:"content,omitempty" json:"content,omitempty"`
	Children []NodeState       `yaml:"children,omitempty" json:"children,omitempty"`
}

// StateFromMarkdown parses markdown into a State positioned at the top.
func StateFromMarkdown(text string) State {
	return State{Nodes: nodeStates(page.ParseMarkdown(text))}
}

// Root builds the page tree. Nodes without a hash get one when the tree is
// adopted by a page.Doc.
//
// A type token outside the kind set, or a nested page token, loads as an
// Unknown node that remembers the token. It is shown as a placeholder and
// saved back unchanged.
func (s State) Root() *page.Node {
	root := page.NewNode(page.Page)
	for _, ns := range s.Nodes {
		root.Children = append(root.Children, ns.node())
	}
	return root
}

func (ns NodeState) node() *page.Node {
	k, ok := page.ParseKind(ns.Type)
	if k == page.Page {
		ok = false
	}
	if !ok {
		k = page.Unknown
	}
	n := page.NewNode(k)
	n.Hash = ns.Hash
	if !ok {
		n.Foreign = ns.Type
	}
	if len(ns.Content) > 0 {
		n.Content = maps.Clone(ns.Content)
	}
	for _, cs := range ns.Children {
		n.Children = append(n.Children, cs.node())
	}
	return n
}

func nodeStates(nodes []*page.Node) []NodeState {
	out := make([]NodeState, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeState(n))
	}
	return out
}

func nodeState(n *page.Node) NodeState {
	ns := NodeState{Hash: n.Hash, Type: n.Kind.Token()}
	if n.Kind == page.Unknown {
		ns.Type = n.Foreign
	}
	if len(n.Content) > 0 {
		ns.Content = maps.Clone(n.Content)
	}
	if len(n.Children) > 0 {
		ns.Children = nodeStates(n.Children)
	}
	return ns
}

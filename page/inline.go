package page

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

func inlineParsers() []util.PrioritizedValue {
	return []util.PrioritizedValue{
		util.Prioritized(parser.NewCodeSpanParser(), 100),
		util.Prioritized(fileLinkParser{}, 199),
		util.Prioritized(parser.NewLinkParser(), 200),
		util.Prioritized(parser.NewEmphasisParser(), 500),
		util.Prioritized(highlightParser{}, 600),
	}
}

var (
	kindHighlight = ast.NewNodeKind("Highlight")
	kindFileLink  = ast.NewNodeKind("FileLink")
)

// highlightNode is ==text==.
type highlightNode struct {
	ast.BaseInline
}

func (n *highlightNode) Kind() ast.NodeKind { return kindHighlight }

func (n *highlightNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// fileLinkNode is [[path]].
type fileLinkNode struct {
	ast.BaseInline
	path string
}

func (n *fileLinkNode) Kind() ast.NodeKind { return kindFileLink }

func (n *fileLinkNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Path": n.path}, nil)
}

type highlightDelimiters struct{}

func (highlightDelimiters) IsDelimiter(b byte) bool { return b == '=' }

func (highlightDelimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (highlightDelimiters) OnMatch(consumes int) ast.Node { return &highlightNode{} }

// highlightParser pushes a delimiter for every run of exactly two '='.
type highlightParser struct{}

func (highlightParser) Trigger() []byte { return []byte{'='} }

func (highlightParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, seg := block.PeekLine()
	d := parser.ScanDelimiter(line, before, 2, highlightDelimiters{})
	if d == nil || d.OriginalLength != 2 || before == '=' {
		return nil
	}
	d.Segment = seg.WithStop(seg.Start + d.OriginalLength)
	block.Advance(d.OriginalLength)
	pc.PushDelimiter(d)
	return d
}

var (
	fileLinkOpen  = []byte("[[")
	fileLinkClose = []byte("]]")
)

// fileLinkParser reads [[path]]. The path is taken verbatim.
type fileLinkParser struct{}

func (fileLinkParser) Trigger() []byte { return []byte{'['} }

func (fileLinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, fileLinkOpen) {
		return nil
	}
	end := bytes.Index(line[len(fileLinkOpen):], fileLinkClose)
	if end <= 0 {
		return nil
	}
	block.Advance(end + len(fileLinkOpen) + len(fileLinkClose))
	return &fileLinkNode{path: string(line[len(fileLinkOpen) : len(fileLinkOpen)+end])}
}

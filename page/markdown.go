package page

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Markdown content keys.
const (
	CheckedKey = "checked"
	NumberKey  = "number"
	HrefKey    = "href"
	PathKey    = "path"
)

var headingKinds = [...]Kind{H1, H2, H3, H4, H5}

var (
	// lineParser reads one line as a heading, a list item or a paragraph.
	// There are no code block parsers, so leading whitespace never opens
	// indented code.
	lineParser = parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewATXHeadingParser(), 600),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(inlineParsers()...),
	)
	// spanParser reads inline markup only.
	spanParser = parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(inlineParsers()...),
	)
	fenceParser = parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
	)
)

// ParseMarkdown converts a markdown subset into unhashed blocks, one leaf
// block per line:
//
//	# .. #####      headings
//	- item          Dot
//	1. item         Num
//	[ ] / [x] item  Check
//	| a | b |       Table
//	> text          Quote (nested)
//	<tab>text       Indent (nested)
//	```             fenced CodeBlock
//
// Inline **bold**, *italic*, ==highlight==, `code`, [text](url) and [[path]]
// become spans.
//
// Quotes and indents group consecutive prefixed lines. Every other line is
// read on its own, so a paragraph never continues onto the next line.
func ParseMarkdown(src string) []*Node {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return parseBlocks(strings.Split(src, "\n"))
}

func parseBlocks(lines []string) []*Node {
	var out []*Node
	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case line == ">" || strings.HasPrefix(line, "> "):
			j := i
			var inner []string
			for ; j < len(lines) && (lines[j] == ">" || strings.HasPrefix(lines[j], "> ")); j++ {
				inner = append(inner, strings.TrimPrefix(strings.TrimPrefix(lines[j], ">"), " "))
			}
			out = append(out, NewNode(Quote, parseBlocks(inner)...))
			i = j
		case strings.HasPrefix(line, "\t"):
			j := i
			var inner []string
			for ; j < len(lines) && strings.HasPrefix(lines[j], "\t"); j++ {
				inner = append(inner, lines[j][1:])
			}
			out = append(out, NewNode(Indent, parseBlocks(inner)...))
			i = j
		case strings.HasPrefix(line, "```"):
			if code, n := parseFence(lines[i:]); n > 0 {
				out = append(out, code)
				i += n
				continue
			}
			out = append(out, parseLeaf(line))
			i++
		case strings.HasPrefix(line, "|"):
			j := i
			var rows []string
			for ; j < len(lines) && strings.HasPrefix(lines[j], "|"); j++ {
				rows = append(rows, lines[j])
			}
			out = append(out, NewNode(Table, NewText(strings.Join(rows, "\n"))))
			i = j
		default:
			out = append(out, parseLeaf(line))
			i++
		}
	}
	return out
}

// parseFence reads the fenced code block opening lines and returns it with
// the number of lines it spans. An unclosed fence runs to the end.
func parseFence(lines []string) (*Node, int) {
	src := []byte(strings.Join(lines, "\n"))
	doc := fenceParser.Parse(text.NewReader(src))
	fence, ok := doc.FirstChild().(*ast.FencedCodeBlock)
	if !ok {
		return nil, 0
	}
	var sb strings.Builder
	body := fence.Lines()
	for i := 0; i < body.Len(); i++ {
		seg := body.At(i)
		sb.Write(seg.Value(src))
	}
	code := strings.TrimSuffix(sb.String(), "\n")
	return NewNode(CodeBlock, NewText(code)), min(len(lines), body.Len()+2)
}

func parseLeaf(line string) *Node {
	for _, box := range []string{"[ ] ", "[x] "} {
		if rest, ok := strings.CutPrefix(line, box); ok {
			n := NewNode(Check, ParseSpans(rest)...)
			n.Content = map[string]string{CheckedKey: strconv.FormatBool(box == "[x] ")}
			return n
		}
	}
	if line == "" || line[0] == ' ' {
		return NewNode(TextBlock, ParseSpans(line)...)
	}

	src := []byte(line)
	open := !strings.HasSuffix(line, " ") && !strings.HasSuffix(line, "\t")
	switch b := lineParser.Parse(text.NewReader(src)).FirstChild().(type) {
	case *ast.Heading:
		if b.Level > len(headingKinds) || (b.FirstChild() == nil && open) {
			break
		}
		return NewNode(headingKinds[b.Level-1], leafSpans(b, src)...)
	case *ast.List:
		item := b.FirstChild()
		if item == nil || b.ChildCount() != 1 {
			break
		}
		var n *Node
		switch body := item.FirstChild(); {
		case body == nil && open:
			return NewNode(TextBlock, ParseSpans(line)...)
		case body == nil:
			n = NewNode(Dot, NewText(""))
		case item.ChildCount() == 1 && isTextBody(body):
			n = NewNode(Dot, leafSpans(body, src)...)
		default:
			return NewNode(TextBlock, ParseSpans(line)...)
		}
		if b.IsOrdered() {
			n.Kind = Num
			n.Content = map[string]string{NumberKey: strconv.Itoa(b.Start)}
		}
		return n
	}
	return NewNode(TextBlock, ParseSpans(line)...)
}

func isTextBody(n ast.Node) bool {
	switch n.(type) {
	case *ast.TextBlock, *ast.Paragraph:
		return true
	}
	return false
}

// ParseSpans converts inline markdown into spans. The result always holds at
// least one node. Surrounding whitespace is kept as text.
func ParseSpans(s string) []*Node {
	core := strings.Trim(s, " \t")
	if core == "" {
		return []*Node{NewText(s)}
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	src := []byte(core)
	var out []*Node
	if p := spanParser.Parse(text.NewReader(src)).FirstChild(); p != nil {
		out = spans(p, src)
	}
	if len(out) == 0 {
		out = []*Node{NewText("")}
	}
	if lead != "" {
		if first := out[0]; first.Kind == RawText {
			first.setText(lead + first.Text())
		} else {
			out = append([]*Node{NewText(lead)}, out...)
		}
	}
	if trail != "" {
		if last := out[len(out)-1]; last.Kind == RawText {
			last.setText(last.Text() + trail)
		} else {
			out = append(out, NewText(trail))
		}
	}
	return out
}

func leafSpans(n ast.Node, src []byte) []*Node {
	if out := spans(n, src); len(out) > 0 {
		return out
	}
	return []*Node{NewText("")}
}

// spans converts the inline children of n. Adjacent text is merged into one
// RawText.
func spans(n ast.Node, src []byte) []*Node {
	var out []*Node
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			out = append(out, NewText(plain.String()))
			plain.Reset()
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var span *Node
		switch c := c.(type) {
		case *ast.Text:
			plain.Write(c.Segment.Value(src))
		case *ast.String:
			plain.Write(c.Value)
		case *ast.Emphasis:
			kind := Italic
			if c.Level >= 2 {
				kind = Bold
			}
			span = NewNode(kind, spans(c, src)...)
		case *ast.CodeSpan:
			span = NewNode(CodeInline, NewText(literal(c, src)))
		case *ast.Link:
			span = NewNode(URLLink, spans(c, src)...)
			span.Content = map[string]string{HrefKey: string(c.Destination)}
		case *highlightNode:
			span = NewNode(Highlight, spans(c, src)...)
		case *fileLinkNode:
			span = NewNode(FileLink, NewText(c.path))
			span.Content = map[string]string{PathKey: c.path}
		case *ast.Image:
			plain.WriteString("![" + literal(c, src) + "](" + string(c.Destination) + ")")
		default:
			plain.WriteString(literal(c, src))
		}
		if span != nil {
			if len(span.Children) == 0 {
				span.Children = []*Node{NewText("")}
			}
			flush()
			out = append(out, span)
		}
	}
	flush()
	return out
}

// literal concatenates the text under n.
func literal(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
		case *ast.String:
			sb.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// inlineMarkers are the delimiters the writer puts around spans.
type inlineMarker struct {
	open, close string
	kind        Kind
}

var inlineMarkers = []inlineMarker{
	{"[[", "]]", FileLink},
	{"**", "**", Bold},
	{"==", "==", Highlight},
	{"*", "*", Italic},
	{"`", "`", CodeInline},
}

// Markdown renders the blocks under n back into the subset ParseMarkdown
// reads.
func Markdown(n *Node) string {
	var lines []string
	if n.Kind.IsLeafBlock() {
		lines = markdownBlock(n)
	} else {
		for _, c := range n.Children {
			lines = append(lines, markdownBlock(c)...)
		}
	}
	return strings.Join(lines, "\n")
}

// markdownBlock writes n as lines. Nodes of unknown kind have no markdown
// form and are left out.
func markdownBlock(n *Node) []string {
	if !n.Kind.Valid() {
		return nil
	}
	switch n.Kind {
	case Quote, Indent:
		prefix := "> "
		if n.Kind == Indent {
			prefix = "\t"
		}
		var out []string
		for _, c := range n.Children {
			for _, line := range markdownBlock(c) {
				if n.Kind == Quote && line == "" {
					out = append(out, ">")
					continue
				}
				out = append(out, prefix+line)
			}
		}
		return out
	case CodeBlock:
		out := []string{"```"}
		out = append(out, strings.Split(PlainText(n), "\n")...)
		return append(out, "```")
	case Table:
		return strings.Split(PlainText(n), "\n")
	}

	var prefix string
	switch n.Kind {
	case H1, H2, H3, H4, H5:
		prefix = strings.Repeat("#", int(n.Kind-H1)+1) + " "
	case Dot:
		prefix = "- "
	case Num:
		num := n.Content[NumberKey]
		if num == "" {
			num = "1"
		}
		prefix = num + ". "
	case Check:
		prefix = "[ ] "
		if n.Content[CheckedKey] == "true" {
			prefix = "[x] "
		}
	}
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, c := range n.Children {
		writeSpan(&sb, c)
	}
	return []string{sb.String()}
}

func writeSpan(sb *strings.Builder, n *Node) {
	if !n.Kind.Valid() {
		return
	}
	switch n.Kind {
	case RawText:
		sb.WriteString(n.Text())
		return
	case URLLink:
		sb.WriteByte('[')
		for _, c := range n.Children {
			writeSpan(sb, c)
		}
		sb.WriteString("](" + n.Content[HrefKey] + ")")
		return
	}
	var m inlineMarker
	for _, cand := range inlineMarkers {
		if cand.kind == n.Kind {
			m = cand
		}
	}
	sb.WriteString(m.open)
	for _, c := range n.Children {
		writeSpan(sb, c)
	}
	sb.WriteString(m.close)
}

// PlainText concatenates the RawText under n.
func PlainText(n *Node) string {
	var sb strings.Builder
	for _, t := range Texts(n) {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

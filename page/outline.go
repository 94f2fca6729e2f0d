package page

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Outline renders the tree under n in the compact notation
// Page[TextBlock[RawText("abc")], Quote[...]]. Hashes and content other than
// the text of RawText nodes are omitted.
func Outline(n *Node) string {
	var sb strings.Builder
	writeOutline(&sb, n, nil, 0)
	return sb.String()
}

// OutlineCaret is Outline with a '|' inserted at code-point offset off of
// the RawText node caret.
func OutlineCaret(n, caret *Node, off int) string {
	var sb strings.Builder
	writeOutline(&sb, n, caret, off)
	return sb.String()
}

func writeOutline(sb *strings.Builder, n, caret *Node, off int) {
	if n == nil {
		return
	}
	sb.WriteString(n.Kind.String())
	if n.Kind == RawText {
		text := n.Text()
		if n == caret {
			r := []rune(text)
			if off < 0 {
				off = 0
			}
			if off > len(r) {
				off = len(r)
			}
			text = string(r[:off]) + "|" + string(r[off:])
		}
		sb.WriteString("(" + strconv.Quote(text) + ")")
		return
	}
	sb.WriteByte('[')
	for i, c := range n.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeOutline(sb, c, caret, off)
	}
	sb.WriteByte(']')
}

// ParseOutline parses the notation produced by Outline into an unhashed
// tree.
func ParseOutline(s string) (*Node, error) {
	p := &outlineParser{src: []rune(s)}
	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing input")
	}
	return n, nil
}

// ParseOutlineCaret parses an outline whose text carries one '|' caret
// marker. It returns the tree, the RawText holding the caret and the caret's
// code-point offset.
func ParseOutlineCaret(s string) (*Node, *Node, int, error) {
	root, err := ParseOutline(s)
	if err != nil {
		return nil, nil, 0, err
	}
	var (
		caret *Node
		off   int
	)
	root.Walk(func(n *Node) bool {
		if caret != nil || n.Kind != RawText {
			return caret == nil
		}
		text := n.Text()
		if i := strings.IndexByte(text, '|'); i >= 0 {
			caret = n
			off = len([]rune(text[:i]))
			n.setText(text[:i] + text[i+1:])
		}
		return true
	})
	if caret == nil {
		return nil, nil, 0, fmt.Errorf("page: outline has no caret marker")
	}
	return root, caret, off, nil
}

type outlineParser struct {
	src []rune
	pos int
}

func (p *outlineParser) errorf(format string, args ...any) error {
	return fmt.Errorf("page: outline at %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *outlineParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *outlineParser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *outlineParser) parseNode() (*Node, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsLetter(p.src[p.pos]) || unicode.IsDigit(p.src[p.pos])) {
		p.pos++
	}
	name := string(p.src[start:p.pos])
	kind, ok := KindByName(name)
	if !ok {
		return nil, p.errorf("unknown kind %q", name)
	}

	p.skipSpace()
	if kind == RawText {
		if p.peek() != '(' {
			return nil, p.errorf("expected ( after RawText")
		}
		p.pos++
		p.skipSpace()
		text, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("expected )")
		}
		p.pos++
		return NewText(text), nil
	}

	n := NewNode(kind)
	if p.peek() != '[' {
		return n, nil
	}
	p.pos++
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return n, nil
	}
	for {
		c, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return n, nil
		default:
			return nil, p.errorf("expected , or ]")
		}
	}
}

func (p *outlineParser) parseString() (string, error) {
	if p.peek() != '"' {
		return "", p.errorf("expected string")
	}
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			s, err := strconv.Unquote(string(p.src[start:p.pos]))
			if err != nil {
				return "", p.errorf("bad string: %v", err)
			}
			return s, nil
		}
		p.pos++
	}
	return "", p.errorf("unterminated string")
}

package page

// Kind is the closed set of node types.
type Kind uint8

const (
	Unknown Kind = iota

	// root
	Page

	// branch blocks
	Indent
	Quote

	// leaf blocks
	TextBlock
	H1
	H2
	H3
	H4
	H5
	CodeBlock
	Dot
	Num
	Check
	Table

	// branch spans
	Bold
	Italic
	Highlight
	CodeInline
	FileLink
	URLLink

	// leaf span
	RawText

	kindCount
)

type kindInfo struct {
	token  string
	name   string
	block  bool
	branch bool
	innate float64
}

// Innate heights are the vertical margins the block type adds on top of its
// content, in pixels.
var kinds = [kindCount]kindInfo{
	Unknown:    {token: "", name: "Unknown"},
	Page:       {token: "p", name: "Page", block: true, branch: true},
	Indent:     {token: "in", name: "Indent", block: true, branch: true},
	Quote:      {token: "q", name: "Quote", block: true, branch: true},
	TextBlock:  {token: "tb", name: "TextBlock", block: true, innate: 4},
	H1:         {token: "h1", name: "H1", block: true, innate: 12},
	H2:         {token: "h2", name: "H2", block: true, innate: 8},
	H3:         {token: "h3", name: "H3", block: true, innate: 8},
	H4:         {token: "h4", name: "H4", block: true, innate: 4},
	H5:         {token: "h5", name: "H5", block: true, innate: 4},
	CodeBlock:  {token: "cd", name: "CodeBlock", block: true, innate: 8},
	Dot:        {token: "d", name: "Dot", block: true},
	Num:        {token: "n", name: "Num", block: true},
	Check:      {token: "ch", name: "Check", block: true},
	Table:      {token: "tl", name: "Table", block: true, innate: 8},
	Bold:       {token: "b", name: "Bold", branch: true},
	Italic:     {token: "i", name: "Italic", branch: true},
	Highlight:  {token: "h", name: "Highlight", branch: true},
	CodeInline: {token: "ci", name: "CodeInline", branch: true},
	FileLink:   {token: "fl", name: "FileLink", branch: true},
	URLLink:    {token: "ul", name: "UrlLink", branch: true},
	RawText:    {token: "t", name: "RawText"},
}

func (k Kind) info() kindInfo {
	if k >= kindCount {
		return kinds[Unknown]
	}
	return kinds[k]
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool { return k > Unknown && k < kindCount }

// Token is the value of the DOM type attribute.
func (k Kind) Token() string { return k.info().token }

func (k Kind) String() string { return k.info().name }

func (k Kind) IsBlock() bool { return k.info().block }

func (k Kind) IsBranch() bool { return k.info().branch }

func (k Kind) IsSpan() bool { return k.Valid() && !k.info().block }

// IsLeafBlock reports whether k is the unit of virtualization.
func (k Kind) IsLeafBlock() bool { return k.IsBlock() && !k.IsBranch() }

// InnateHeight is the fixed pixel overhead of the block type.
func (k Kind) InnateHeight() float64 { return k.info().innate }

// ParseKind maps a DOM type token back to its kind.
func ParseKind(token string) (Kind, bool) {
	for k := Page; k < kindCount; k++ {
		if kinds[k].token == token {
			return k, true
		}
	}
	return Unknown, false
}

// KindByName maps an outline name ("TextBlock", "H1", ...) to its kind.
func KindByName(name string) (Kind, bool) {
	for k := Page; k < kindCount; k++ {
		if kinds[k].name == name {
			return k, true
		}
	}
	return Unknown, false
}

// InnateHeights returns the innate height of every kind with one, keyed by
// token and multiplied by scale. Hosts use it to keep their stylesheet in
// step with the padding arithmetic.
func InnateHeights(scale float64) map[string]float64 {
	if scale == 0 {
		scale = 1
	}
	out := make(map[string]float64)
	for k := Page; k < kindCount; k++ {
		if kinds[k].innate > 0 {
			out[kinds[k].token] = kinds[k].innate * scale
		}
	}
	return out
}

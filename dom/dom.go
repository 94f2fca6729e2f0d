// Package dom is the host contract the editor core is written against: the
// subset of a browser-compatible DOM the renderer, the virtualization engine
// and the edit engine use.
//
// Two hosts implement it: memdom (headless, with a block layout model) and
// jsdom (the real browser DOM through syscall/js).
//
// Implementations must give element identity: InsertBefore and AppendChild
// move a node that is already attached elsewhere, and Same reports whether
// two handles refer to the same host node.
package dom

// Rect is the subset of getBoundingClientRect the core reads. Coordinates are
// relative to the host viewport.
type Rect struct {
	Top    float64
	Bottom float64
	Height float64
}

// Node is any DOM node.
type Node interface {
	// ParentElement returns the parent element, or nil when detached.
	ParentElement() Element
	// IsConnected reports whether the node is attached to the document.
	IsConnected() bool
	// Same reports whether other refers to the same host node.
	Same(other Node) bool
}

// Element is a DOM element.
type Element interface {
	Node

	Tag() string

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	AppendChild(child Node)
	// InsertBefore inserts child before ref. A nil ref appends.
	InsertBefore(child, ref Node)
	// Remove detaches the element from its parent.
	Remove()

	FirstChild() Node
	Children() []Node

	// SetText replaces the element's content with a single text node.
	SetText(text string)
	TextContent() string

	Rect() Rect
	ScrollIntoView()
}

// ScrollPort is an element with its own scroll offset.
type ScrollPort interface {
	Element

	ScrollTop() float64
	SetScrollTop(y float64)
	ScrollHeight() float64
	ClientHeight() float64
}

// Text is a character-data node. Offsets are counted in code points.
type Text interface {
	Node

	Data() string
	SetData(s string)
	Len() int
	InsertData(offset int, s string)
	DeleteData(offset, count int)
}

// Selection mirrors the host Selection/Range pair.
type Selection interface {
	AnchorNode() Node
	AnchorOffset() int
	FocusNode() Node
	FocusOffset() int
	IsCollapsed() bool
	RangeCount() int

	RemoveAllRanges()
	// AddCaret installs a collapsed range at (node, offset).
	AddCaret(node Node, offset int)
	// Modify is selection.modify(alter, direction, granularity).
	Modify(alter, direction, granularity string)
}

// Document creates nodes and exposes the selection and frame scheduling.
type Document interface {
	CreateElement(tag string) Element
	CreateTextNode(text string) Text
	Selection() Selection
	// RequestAnimationFrame schedules fn after the host's next layout.
	RequestAnimationFrame(fn func())
}

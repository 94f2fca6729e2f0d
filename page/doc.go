package page

import (
	"fmt"
	"io"
)

// Options configures a Doc.
type Options struct {
	// Rand is the entropy source of the identifier issuer (default:
	// crypto/rand).
	Rand io.Reader
}

// Doc owns a page tree, its hash index and the identifier issuer. All
// structural changes go through its primitives, which notify the bound
// Binder.
type Doc struct {
	root    *Node
	index   *Index
	issuer  *Issuer
	binder  Binder
	version uint64

	tx            *changeBuilder
	lastChange    Change
	hasLastChange bool
}

// New adopts root as the document. A nil root starts an empty page. Nodes
// without a hash are issued one.
//
// A broken tree is loaded as it is and Check reports what is wrong with it.
// Only a non-Page root and a hash used twice are rejected.
func New(root *Node, opt Options) (*Doc, error) {
	if root == nil {
		root = NewNode(Page)
	}
	if root.Kind != Page {
		return nil, fmt.Errorf("%w: root is %s", ErrRoot, root.Kind)
	}
	d := &Doc{
		root:   root,
		index:  NewIndex(),
		issuer: NewIssuer(opt.Rand),
		binder: NopBinder{},
	}
	if err := d.adopt(root, ""); err != nil {
		return nil, err
	}
	d.index.Rebuild(root)
	return d, nil
}

// Bind installs the structural observer. A nil binder restores the no-op.
func (d *Doc) Bind(b Binder) {
	if b == nil {
		b = NopBinder{}
	}
	d.binder = b
}

func (d *Doc) Root() *Node { return d.root }

func (d *Doc) Index() *Index { return d.index }

func (d *Doc) Version() uint64 { return d.version }

// Node resolves a hash to its live node.
func (d *Doc) Node(hash string) (*Node, bool) {
	return d.index.Node(hash)
}

// Path returns the path of hash, rebuilding the index first if it is stale.
func (d *Doc) Path(hash string) ([]int, bool) {
	if d.index.Stale() {
		d.Rebuild()
	}
	return d.index.Path(hash)
}

// Rebuild recomputes the hash index from the root.
func (d *Doc) Rebuild() {
	d.index.Rebuild(d.root)
}

// Parent resolves the parent of n, or nil for the root and detached nodes.
func (d *Doc) Parent(n *Node) *Node {
	if n == nil || n.parent == "" {
		return nil
	}
	p, _ := d.index.Node(n.parent)
	return p
}

// Contains reports whether n is a live node of the document.
func (d *Doc) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	live, ok := d.index.Node(n.Hash)
	return ok && live == n
}

// NewNode creates a node with a freshly issued hash. It is not part of the
// tree until inserted.
func (d *Doc) NewNode(kind Kind, children ...*Node) (*Node, error) {
	id, err := d.issuer.Issue(d.index.Has)
	if err != nil {
		return nil, err
	}
	return &Node{Hash: id, Kind: kind, Children: children}, nil
}

// NewText creates a RawText node with a freshly issued hash.
func (d *Doc) NewText(text string) (*Node, error) {
	n, err := d.NewNode(RawText)
	if err != nil {
		return nil, err
	}
	n.setText(text)
	return n, nil
}

// adopt assigns hashes, parent links and index entries to a subtree.
func (d *Doc) adopt(n *Node, parent string) error {
	if n.Hash == "" {
		id, err := d.issuer.Issue(d.index.Has)
		if err != nil {
			return err
		}
		n.Hash = id
	} else {
		if d.index.Has(n.Hash) {
			return &StructureError{Hash: n.Hash, Reason: "duplicate hash"}
		}
		d.issuer.Reserve(n.Hash)
	}
	if n.Kind == RawText && n.Content == nil {
		n.setText("")
	}
	n.parent = parent
	d.index.bind(n)
	for _, c := range n.Children {
		if c == nil {
			return &StructureError{Hash: n.Hash, Reason: "nil child"}
		}
		if err := d.adopt(c, n.Hash); err != nil {
			return err
		}
	}
	return nil
}

// forget drops a removed subtree from the index. Its hashes stay reserved by
// the issuer.
func (d *Doc) forget(n *Node) {
	n.Walk(func(c *Node) bool {
		d.index.Remove(c.Hash)
		return true
	})
	n.parent = ""
}

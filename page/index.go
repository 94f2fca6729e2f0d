package page

// Index maps hashes to tree paths and to nodes.
//
// Paths go stale whenever siblings shift. Structural primitives mark the
// index stale; the edit engine rebuilds it after each structural edit, and
// Doc.Path rebuilds lazily so lookups never observe a stale path.
type Index struct {
	paths map[string][]int
	nodes map[string]*Node
	stale bool
}

func NewIndex() *Index {
	return &Index{
		paths: make(map[string][]int),
		nodes: make(map[string]*Node),
	}
}

// Insert records the path of hash. The path is copied.
func (x *Index) Insert(hash string, path []int) {
	x.paths[hash] = append([]int(nil), path...)
}

// Remove forgets hash.
func (x *Index) Remove(hash string) {
	delete(x.paths, hash)
	delete(x.nodes, hash)
}

// Path returns the recorded path of hash. The slice must not be modified.
func (x *Index) Path(hash string) ([]int, bool) {
	p, ok := x.paths[hash]
	return p, ok
}

// Node returns the node registered under hash.
func (x *Index) Node(hash string) (*Node, bool) {
	n, ok := x.nodes[hash]
	return n, ok
}

// Has reports whether hash belongs to a live node.
func (x *Index) Has(hash string) bool {
	_, ok := x.nodes[hash]
	return ok
}

func (x *Index) Len() int { return len(x.nodes) }

func (x *Index) Stale() bool { return x.stale }

func (x *Index) MarkStale() { x.stale = true }

func (x *Index) bind(n *Node) {
	x.nodes[n.Hash] = n
}

// Rebuild recomputes every path and node entry from root.
func (x *Index) Rebuild(root *Node) {
	clear(x.paths)
	clear(x.nodes)
	if root != nil {
		x.walk(root, nil)
	}
	x.stale = false
}

func (x *Index) walk(n *Node, path []int) {
	x.Insert(n.Hash, path)
	x.bind(n)
	for i, c := range n.Children {
		x.walk(c, append(path, i))
	}
}

// NodeAt resolves a path against root.
func NodeAt(root *Node, path []int) (*Node, bool) {
	n := root
	for _, i := range path {
		if n == nil || i < 0 || i >= len(n.Children) {
			return nil, false
		}
		n = n.Children[i]
	}
	return n, n != nil
}

// ComparePaths orders two paths in document order: -1 if a precedes b, 1 if
// it follows, 0 if equal. An ancestor precedes its descendants.
func ComparePaths(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

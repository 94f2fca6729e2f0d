package page

import (
	"errors"
	"fmt"
)

var (
	// ErrIDSpaceExhausted is returned when the issuer cannot find an unused
	// identifier.
	ErrIDSpaceExhausted = errors.New("page: identifier space exhausted")
	// ErrNotChild is returned when a node is not a child of the given parent.
	ErrNotChild = errors.New("page: not a child of parent")
	// ErrNotBlock is returned when a block-only operation gets a span.
	ErrNotBlock = errors.New("page: not a block")
	// ErrNotBranch is returned when an operation needs a branch block.
	ErrNotBranch = errors.New("page: not a branch block")
	// ErrNotText is returned when an operation needs a RawText node.
	ErrNotText = errors.New("page: not a RawText node")
	// ErrMixedChildren is returned when an insertion would mix blocks and
	// spans under one parent, or put children under a RawText.
	ErrMixedChildren = errors.New("page: children of mixed classes")
	// ErrKindMismatch is returned when a kind change would alter the node's
	// class.
	ErrKindMismatch = errors.New("page: kind class mismatch")
	// ErrDetached is returned for nodes that are not in the document.
	ErrDetached = errors.New("page: node not in document")
	// ErrCycle is returned when a move would put a node inside itself.
	ErrCycle = errors.New("page: move into own subtree")
	// ErrNotSiblings is returned when nodes moved or wrapped together do not
	// share a parent.
	ErrNotSiblings = errors.New("page: nodes are not siblings")
	// ErrRoot is returned for operations the root cannot take part in.
	ErrRoot = errors.New("page: operation on root")
)

// StructureError reports one broken tree invariant.
type StructureError struct {
	Hash   string
	Reason string
}

func (e *StructureError) Error() string {
	if e.Hash == "" {
		return "page: " + e.Reason
	}
	return fmt.Sprintf("page: node %s: %s", e.Hash, e.Reason)
}

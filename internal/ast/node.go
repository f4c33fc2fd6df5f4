package ast

import "github.com/wharflab/solidguard/internal/diag"

// NodeID is an index into Tree.nodes. Ids are handed out from 0 in
// AddNode order, so the first node added (normally the root) is NodeID(0);
// "no node" is the separate sentinel NoNode, used the way a nil pointer
// would be in a pointer-based tree.
type NodeID int

// NoNode is the sentinel returned where no node exists, e.g. Ancestors of
// the root, or a Node.Parent of the root.
const NoNode NodeID = -1

// Node is a single arena slot. Every Solidity construct, regardless of
// Kind, is represented by this one struct; Kind plus SubKind/Operator/Value
// pick out which fields are meaningful, avoiding a parallel struct
// hierarchy per construct and keeping nodes cheap to copy.
type Node struct {
	ID       NodeID
	Kind     Kind
	SubKind  string // e.g. "contract"|"interface"|"library" for KindContractDefinition
	Operator string // e.g. "+", "==" for KindBinaryOperation/KindUnaryOperation/KindAssignment
	Name     string // identifier text, declaration name, member name, etc.
	Value    string // literal token text for KindLiteral

	Range diag.Range

	Parent   NodeID
	Children []NodeID
}

// IsZero reports whether n is the unset Node value. Tree.Node does not
// return it for a bad id; it panics instead.
func (n Node) IsZero() bool {
	return n.Kind == KindInvalid && n.ID == 0 && n.Parent == 0 && n.Children == nil
}

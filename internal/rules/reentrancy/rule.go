// Package reentrancy implements security/reentrancy: a lightweight
// check-effects-interactions heuristic — an external call
// (`.call`/`.send`/`.transfer`) followed, later in the same block, by a
// state-changing assignment is flagged, since a reentrant callee can
// re-enter before that assignment takes effect.
package reentrancy

import (
	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/rulectx"
)

const ruleID = "security/reentrancy"

var externalCallMembers = map[string]bool{
	"call": true, "send": true, "transfer": true,
}

// Rule implements security/reentrancy.
type Rule struct{}

// New creates a new Rule instance.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's metadata.
func (r *Rule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{
		ID:               ruleID,
		Name:             "Possible reentrancy",
		Description:      "An external call is followed by a state-changing assignment in the same block; a reentrant callee can observe stale state.",
		DocURL:           "https://docs.soliditylang.org/en/latest/security-considerations.html#reentrancy",
		Category:         diag.CategorySecurity,
		DefaultSeverity:  diag.SeverityError,
		EnabledByDefault: true,
	}
}

// Analyze scans every block in the tree for an external call followed
// by an assignment — whole-tree because the finding spans two sibling
// statements, not a single node a dispatch-table visit would see.
func (r *Rule) Analyze(ctx *rulectx.Context) {
	tree := ctx.AST()
	root := tree.Root()
	if root == ast.NoNode {
		return
	}
	tree.Visit(ast.VisitorFuncs{
		EnterFunc: func(t *ast.Tree, id ast.NodeID) {
			if t.Node(id).Kind == ast.KindBlock {
				checkBlock(ctx, t, id)
			}
		},
	})
}

func checkBlock(ctx *rulectx.Context, tree *ast.Tree, block ast.NodeID) {
	var callRange *diag.Range
	for _, stmtID := range tree.Node(block).Children {
		if callRange == nil {
			if r := findExternalCall(tree, stmtID); r != nil {
				callRange = r
			}
			continue
		}
		if containsAssignment(tree, stmtID) {
			ctx.Report(ruleID, diag.CategorySecurity,
				"state is written after an external call in the same block; reorder so state changes happen before the call (checks-effects-interactions)",
				*callRange)
			return
		}
	}
}

// findExternalCall returns the range of the first
// call/send/transfer-shaped function call under id, or nil.
func findExternalCall(tree *ast.Tree, id ast.NodeID) *diag.Range {
	node := tree.Node(id)
	if node.Kind == ast.KindFunctionCall && len(node.Children) > 0 {
		callee := tree.Node(node.Children[0])
		if callee.Kind == ast.KindMemberAccess && externalCallMembers[callee.Name] {
			r := node.Range
			return &r
		}
	}
	for _, child := range node.Children {
		if r := findExternalCall(tree, child); r != nil {
			return r
		}
	}
	return nil
}

// containsAssignment reports whether id or any descendant is an
// assignment expression.
func containsAssignment(tree *ast.Tree, id ast.NodeID) bool {
	node := tree.Node(id)
	if node.Kind == ast.KindAssignment {
		return true
	}
	for _, child := range node.Children {
		if containsAssignment(tree, child) {
			return true
		}
	}
	return false
}

func init() {
	ruleapi.Register(New())
}

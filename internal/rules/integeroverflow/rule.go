// Package integeroverflow implements security/integer-overflow: flags
// arithmetic operations in contracts compiled against a Solidity
// version older than 0.8.0, the release that made checked arithmetic
// the default (earlier versions silently wrap on overflow/underflow).
package integeroverflow

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/rulectx"
)

const ruleID = "security/integer-overflow"

// Rule implements security/integer-overflow.
type Rule struct{}

// New creates a new Rule instance.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's metadata.
func (r *Rule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{
		ID:               ruleID,
		Name:             "Unchecked integer arithmetic",
		Description:      "Arithmetic operators can silently overflow or underflow on Solidity versions before 0.8.0.",
		DocURL:           "https://docs.soliditylang.org/en/latest/080-breaking-changes.html",
		Category:         diag.CategorySecurity,
		DefaultSeverity:  diag.SeverityWarning,
		EnabledByDefault: true,
	}
}

var arithmeticOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
}

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// hasCheckedArithmetic reports whether version guarantees Solidity
// >=0.8.0 semantics (checked arithmetic by default). A pragma solidity
// can't be parsed (or is absent) is treated conservatively as *not*
// guaranteeing checked arithmetic, so the rule still flags — a security
// rule erring toward a false positive is safer than silently trusting
// an unparseable version constraint.
func hasCheckedArithmetic(version string) bool {
	m := versionRe.FindStringSubmatch(version)
	if m == nil {
		return false
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return major > 0 || minor >= 8
}

// Analyze walks the tree once: first to decide whether the file's
// pragma guarantees checked arithmetic, then (only if it doesn't) to
// flag every arithmetic binary operation.
func (r *Rule) Analyze(ctx *rulectx.Context) {
	tree := ctx.AST()
	root := tree.Root()
	if root == ast.NoNode {
		return
	}

	checked := false
	for _, id := range tree.FindChildren(root, ast.KindPragmaDirective) {
		node := tree.Node(id)
		if node.SubKind == "solidity" && hasCheckedArithmetic(node.Value) {
			checked = true
			break
		}
	}
	if checked {
		return
	}

	tree.Visit(ast.VisitorFuncs{
		EnterFunc: func(t *ast.Tree, id ast.NodeID) {
			node := t.Node(id)
			if node.Kind != ast.KindBinaryOperation || !arithmeticOps[node.Operator] {
				return
			}
			ctx.Report(ruleID, diag.CategorySecurity,
				fmt.Sprintf("arithmetic operator %q is unchecked before Solidity 0.8.0", node.Operator),
				node.Range)
		},
	})
}

func init() {
	ruleapi.Register(New())
}

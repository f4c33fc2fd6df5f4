// Package multipleconstructors implements
// security/multiple-constructors: Solidity only ever compiles the last
// constructor in source order, so a contract with more than one is
// almost always an editing mistake hiding dead initialization logic.
package multipleconstructors

import (
	"fmt"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/rulectx"
)

const ruleID = "security/multiple-constructors"

// Rule implements security/multiple-constructors.
type Rule struct{}

// New creates a new Rule instance.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's metadata.
func (r *Rule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{
		ID:               ruleID,
		Name:             "Multiple constructors",
		Description:      "A contract declares more than one constructor; only one can ever run.",
		DocURL:           "https://docs.soliditylang.org/en/latest/contracts.html#constructors",
		Category:         diag.CategorySecurity,
		DefaultSeverity:  diag.SeverityInfo,
		EnabledByDefault: true,
	}
}

// Analyze counts constructor definitions per contract, whole-tree
// because the finding depends on every function in a contract at once,
// not any single node.
func (r *Rule) Analyze(ctx *rulectx.Context) {
	tree := ctx.AST()
	root := tree.Root()
	if root == ast.NoNode {
		return
	}
	for _, contractID := range tree.FindChildren(root, ast.KindContractDefinition) {
		var constructors []ast.NodeID
		for _, fnID := range tree.FindChildren(contractID, ast.KindFunctionDefinition) {
			if tree.Node(fnID).SubKind == "constructor" {
				constructors = append(constructors, fnID)
			}
		}
		if len(constructors) < 2 {
			continue
		}
		contract := tree.Node(contractID)
		for _, id := range constructors[1:] {
			ctx.Report(ruleID, diag.CategorySecurity,
				fmt.Sprintf("contract %q declares multiple constructors; only the last one compiles", contract.Name),
				tree.Node(id).Range)
		}
	}
}

func init() {
	ruleapi.Register(New())
}

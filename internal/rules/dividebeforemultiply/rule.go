// Package dividebeforemultiply implements
// security/divide-before-multiply: flags `a / b * c` shaped expressions,
// where integer division truncates before the multiplication has a
// chance to recover precision (a classic source of rounding-error bugs
// in fixed-point-style arithmetic).
package dividebeforemultiply

import (
	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/rulectx"
)

const ruleID = "security/divide-before-multiply"

// Rule implements security/divide-before-multiply.
type Rule struct{}

// New creates a new Rule instance.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's metadata.
func (r *Rule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{
		ID:               ruleID,
		Name:             "Division before multiplication",
		Description:      "Performing division before multiplication truncates precision that the multiplication can no longer recover.",
		DocURL:           "https://docs.soliditylang.org/en/latest/types.html#division",
		Category:         diag.CategorySecurity,
		DefaultSeverity:  diag.SeverityWarning,
		EnabledByDefault: true,
	}
}

// Kinds reports that only KindBinaryOperation nodes are interesting.
func (r *Rule) Kinds() []ast.Kind { return []ast.Kind{ast.KindBinaryOperation} }

// Enter flags a "*" node whose left operand is itself a "/" node —
// parsed left-associatively, `a / b * c` is exactly this shape.
func (r *Rule) Enter(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {
	n := tree.Node(node)
	if n.Operator != "*" || len(n.Children) == 0 {
		return
	}
	left := tree.Node(n.Children[0])
	if left.Kind != ast.KindBinaryOperation || left.Operator != "/" {
		return
	}
	ctx.Report(ruleID, diag.CategorySecurity,
		"division result is multiplied afterward; multiply first to avoid truncation", n.Range)
}

// Leave does nothing; the finding is emitted on Enter.
func (r *Rule) Leave(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {}

func init() {
	ruleapi.Register(New())
}

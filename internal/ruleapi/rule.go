package ruleapi

import (
	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/rulectx"
)

// Rule is the minimum every rule implements: its metadata. Concrete
// rules implement WholeTreeRule, VisitorRule, or both; the driver
// dispatches to whichever it finds.
type Rule interface {
	Metadata() RuleMetadata
}

// WholeTreeRule runs once per file with the whole tree available, for
// checks that need a global view (e.g. "exactly one constructor").
type WholeTreeRule interface {
	Rule
	Analyze(ctx *rulectx.Context)
}

// VisitorRule participates in the driver's single shared traversal.
// Enter/Leave are called for every node whose Kind is in Kinds, in the
// same pre/post order ast.Tree.Visit uses; a rule that cares about every
// node kind returns nil from Kinds and is called for all of them.
type VisitorRule interface {
	Rule
	Kinds() []ast.Kind
	Enter(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID)
	Leave(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID)
}

// ConfigurableRule is implemented by rules that accept options beyond a
// bare severity. DefaultConfig returns the zero/default option set.
// ValidateConfig is called by ruleconfig.Resolve with a layer's options
// for the rule once they have passed OptionSchema validation; an error
// it returns is surfaced as a ConfigError of kind bad-options. The rule
// reads its options back through rulectx.Context.Option under its own
// keys.
type ConfigurableRule interface {
	Rule
	DefaultConfig() map[string]any
	ValidateConfig(options map[string]any) error
}

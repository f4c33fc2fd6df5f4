package customlint

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

var docURLAnalyzer = &analysis.Analyzer{
	Name: "docurl",
	Doc:  "checks that RuleMetadata.DocURL fields are non-empty https:// literals",
	Run:  runDocURL,
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
	},
}

func runDocURL(pass *analysis.Pass) (any, error) {
	// Only check files in internal/rules/, where every rule's
	// ruleapi.RuleMetadata literal lives.
	if !strings.Contains(pass.Pkg.Path(), "internal/rules") {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.KeyValueExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(n ast.Node) {
		kv, ok := n.(*ast.KeyValueExpr)
		if !ok {
			return
		}
		checkDocURLField(pass, kv)
	})

	return nil, nil
}

// checkDocURLField reports if a struct literal has DocURL: "..." whose
// value is empty or not an https:// URL. solidguard rules link straight
// to the authoritative external doc (docs.soliditylang.org, a specific
// advisory, gitleaks' own README) rather than going through an internal
// doc-URL-builder helper, so this checks the literal's shape rather
// than forbidding literals outright.
func checkDocURLField(pass *analysis.Pass, kv *ast.KeyValueExpr) {
	ident, ok := kv.Key.(*ast.Ident)
	if !ok || ident.Name != "DocURL" {
		return
	}
	lit, ok := kv.Value.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return
	}
	value := strings.Trim(lit.Value, `"`)
	if value == "" {
		pass.Reportf(lit.Pos(), "DocURL must not be empty")
		return
	}
	if !strings.HasPrefix(value, "https://") {
		pass.Reportf(lit.Pos(), "DocURL %s must be an https:// URL", value)
	}
}

package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
)

func rng(startOff, endOff int) diag.Range {
	return diag.Range{
		Start: diag.Position{Offset: startOff, Line: 1, Column: startOff + 1},
		End:   diag.Position{Offset: endOff, Line: 1, Column: endOff + 1},
	}
}

func buildSample(t *testing.T) (*ast.Tree, ast.NodeID, ast.NodeID, ast.NodeID) {
	t.Helper()
	src := []byte("contract C { function f() {} }")
	tr := ast.NewTree(src)
	root := tr.AddNode(ast.Node{Kind: ast.KindSourceUnit, Range: rng(0, len(src))}, ast.NoNode)
	tr.SetRoot(root)
	contract := tr.AddNode(ast.Node{Kind: ast.KindContractDefinition, SubKind: "contract", Name: "C", Range: rng(0, len(src))}, root)
	fn := tr.AddNode(ast.Node{Kind: ast.KindFunctionDefinition, SubKind: "function", Name: "f", Range: rng(13, len(src)-2)}, contract)
	tr.AddNode(ast.Node{Kind: ast.KindBlock, Range: rng(26, 28)}, fn)
	return tr, root, contract, fn
}

func TestTreeFindChildren(t *testing.T) {
	tr, root, contract, _ := buildSample(t)
	contracts := tr.FindChildren(root, ast.KindContractDefinition)
	require.Len(t, contracts, 1)
	assert.Equal(t, contract, contracts[0])

	funcs := tr.FindChildren(contract, ast.KindFunctionDefinition)
	require.Len(t, funcs, 1)
}

func TestTreeAncestors(t *testing.T) {
	tr, root, contract, fn := buildSample(t)
	block := tr.FindChildren(fn, ast.KindBlock)
	require.Len(t, block, 1)

	anc := tr.Ancestors(block[0])
	assert.Equal(t, []ast.NodeID{fn, contract, root}, anc)

	assert.Empty(t, tr.Ancestors(root))
}

func TestTreeVisitOrder(t *testing.T) {
	tr, root, contract, fn := buildSample(t)
	block := tr.FindChildren(fn, ast.KindBlock)[0]

	var entered, left []ast.NodeID
	tr.Visit(ast.VisitorFuncs{
		EnterFunc: func(_ *ast.Tree, id ast.NodeID) { entered = append(entered, id) },
		LeaveFunc: func(_ *ast.Tree, id ast.NodeID) { left = append(left, id) },
	})

	assert.Equal(t, []ast.NodeID{root, contract, fn, block}, entered)
	assert.Equal(t, []ast.NodeID{block, fn, contract, root}, left)
}

func TestTreeText(t *testing.T) {
	tr, _, _, fn := buildSample(t)
	n := tr.Node(fn)
	assert.Equal(t, "function f() {}", tr.Text(n.Range))
}

func TestTreeTextClampsOutOfRange(t *testing.T) {
	src := []byte("short")
	tr := ast.NewTree(src)
	assert.Equal(t, "short", tr.Text(rng(0, 1000)))
	assert.Equal(t, "", tr.Text(rng(10, 2)))
}

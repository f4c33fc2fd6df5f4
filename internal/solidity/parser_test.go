package solidity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/solidity"
)

func mustParse(t *testing.T, src string) *solidity.ParseResult {
	t.Helper()
	res, err := solidity.Parse([]byte(src), solidity.ParserOptions{})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	return res
}

func TestParsePragmaAndEmptyContract(t *testing.T) {
	res := mustParse(t, "pragma solidity 0.8.0; contract C {}")
	tr := res.Tree

	pragmas := tr.FindChildren(tr.Root(), ast.KindPragmaDirective)
	require.Len(t, pragmas, 1)
	assert.Equal(t, "0.8.0", tr.Node(pragmas[0]).Value)

	contracts := tr.FindChildren(tr.Root(), ast.KindContractDefinition)
	require.Len(t, contracts, 1)
	c := tr.Node(contracts[0])
	assert.Equal(t, "contract", c.SubKind)
	assert.Equal(t, "C", c.Name)
	assert.Empty(t, c.Children)
}

func TestParseFunctionWithBinaryReturn(t *testing.T) {
	src := `pragma solidity ^0.8.0;
contract C {
    function add(uint a, uint b) public pure returns (uint) {
        return a + b;
    }
}`
	res := mustParse(t, src)
	tr := res.Tree

	contract := tr.FindChildren(tr.Root(), ast.KindContractDefinition)[0]
	fn := tr.FindChildren(contract, ast.KindFunctionDefinition)[0]
	fnNode := tr.Node(fn)
	assert.Equal(t, "add", fnNode.Name)
	assert.Equal(t, "function", fnNode.SubKind)

	paramLists := tr.FindChildren(fn, ast.KindParameterList)
	require.Len(t, paramLists, 2) // params + returns
	params := tr.FindChildren(paramLists[0], ast.KindParameter)
	require.Len(t, params, 2)
	assert.Equal(t, "a", tr.Node(params[0]).Name)
	assert.Equal(t, "uint", tr.Node(params[0]).Value)

	blocks := tr.FindChildren(fn, ast.KindBlock)
	require.Len(t, blocks, 1)
	returns := tr.FindChildren(blocks[0], ast.KindReturnStatement)
	require.Len(t, returns, 1)

	bin := tr.FindChildren(returns[0], ast.KindBinaryOperation)
	require.Len(t, bin, 1)
	assert.Equal(t, "+", tr.Node(bin[0]).Operator)
}

func TestParseDivideBeforeMultiplyExpression(t *testing.T) {
	src := `pragma solidity ^0.8.0;
contract C {
    function f(uint a, uint b, uint c) public pure returns (uint) {
        return a / b * c;
    }
}`
	res := mustParse(t, src)
	tr := res.Tree
	contract := tr.FindChildren(tr.Root(), ast.KindContractDefinition)[0]
	fn := tr.FindChildren(contract, ast.KindFunctionDefinition)[0]
	block := tr.FindChildren(fn, ast.KindBlock)[0]
	ret := tr.FindChildren(block, ast.KindReturnStatement)[0]

	top := tr.FindChildren(ret, ast.KindBinaryOperation)
	require.Len(t, top, 1)
	assert.Equal(t, "*", tr.Node(top[0]).Operator)

	left := tr.FindChildren(top[0], ast.KindBinaryOperation)
	require.Len(t, left, 1)
	assert.Equal(t, "/", tr.Node(left[0]).Operator)
}

func TestParseMultipleConstructors(t *testing.T) {
	src := `contract C {
    constructor() { }
    constructor() { }
}`
	res := mustParse(t, src)
	tr := res.Tree
	contract := tr.FindChildren(tr.Root(), ast.KindContractDefinition)[0]
	ctors := tr.FindChildren(contract, ast.KindFunctionDefinition)
	require.Len(t, ctors, 2)
	for _, c := range ctors {
		assert.Equal(t, "constructor", tr.Node(c).SubKind)
	}
}

func TestParseTolerantRecoversFromSyntaxError(t *testing.T) {
	src := `}}} contract Good {
    function f() public pure returns (uint) { return 1; }
}`
	res, err := solidity.Parse([]byte(src), solidity.ParserOptions{Tolerant: true})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Diagnostics)

	contracts := res.Tree.FindChildren(res.Tree.Root(), ast.KindContractDefinition)
	require.Len(t, contracts, 1)
	assert.Equal(t, "Good", res.Tree.Node(contracts[0]).Name)

	fns := res.Tree.FindChildren(contracts[0], ast.KindFunctionDefinition)
	require.Len(t, fns, 1)
	assert.Equal(t, "f", res.Tree.Node(fns[0]).Name)
}

func TestParseIntolerantReturnsErrorOnFirstProblem(t *testing.T) {
	_, err := solidity.Parse([]byte("}}} contract Good {}"), solidity.ParserOptions{})
	require.Error(t, err)
}

func TestParseFragmentAcceptsBareStatements(t *testing.T) {
	res, err := solidity.Parse([]byte("uint x = 1 + 2;"),
		solidity.ParserOptions{SourceType: solidity.SourceTypeFragment})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)

	decls := res.Tree.FindChildren(res.Tree.Root(), ast.KindVariableDeclarationStatement)
	require.Len(t, decls, 1)
}

func TestParseFileModeRejectsBareStatements(t *testing.T) {
	_, err := solidity.Parse([]byte("uint x = 1;"), solidity.ParserOptions{})
	require.Error(t, err)
}

func TestParseEmptySourceUnitOnlyPragma(t *testing.T) {
	res := mustParse(t, "pragma solidity ^0.8.0;")
	assert.Empty(t, res.Tree.FindChildren(res.Tree.Root(), ast.KindContractDefinition))
}

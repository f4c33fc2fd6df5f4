package compilerversion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/rules/compilerversion"
	"github.com/wharflab/solidguard/internal/rulectx"
	"github.com/wharflab/solidguard/internal/solidity"
)

func analyze(t *testing.T, source string) []diag.Issue {
	return analyzeWithOptions(t, source, nil)
}

func analyzeWithOptions(t *testing.T, source string, opts map[string]any) []diag.Issue {
	t.Helper()
	r := compilerversion.New()
	meta := r.Metadata()
	result, err := solidity.Parse([]byte(source), solidity.ParserOptions{})
	require.NoError(t, err)
	var options map[string]map[string]any
	if opts != nil {
		options = map[string]map[string]any{meta.ID: opts}
	}
	ctx := rulectx.New("t.sol", []byte(source), result.Tree,
		map[string]diag.Severity{meta.ID: meta.DefaultSeverity}, options)
	r.Analyze(ctx)
	return ctx.Issues()
}

func TestExactVersionPinFlagged(t *testing.T) {
	issues := analyze(t, "pragma solidity 0.8.0; contract C {}")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "Exact compiler version")
	assert.Equal(t, "lint/compiler-version", issues[0].RuleID)
}

func TestCaretRangeNotFlagged(t *testing.T) {
	issues := analyze(t, "pragma solidity ^0.8.0; contract C {}")
	assert.Empty(t, issues)
}

func TestNonSolidityPragmaIgnored(t *testing.T) {
	issues := analyze(t, "pragma abicoder v2; contract C {}")
	assert.Empty(t, issues)
}

func TestMissingPragmaNotFlaggedByDefault(t *testing.T) {
	issues := analyze(t, "contract C {}")
	assert.Empty(t, issues)
}

func TestMissingPragmaFlaggedWithRequirePragma(t *testing.T) {
	issues := analyzeWithOptions(t, "contract C {}",
		map[string]any{"require_pragma": true})
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "No solidity version pragma")
}

func TestRequirePragmaSatisfiedByRange(t *testing.T) {
	issues := analyzeWithOptions(t, "pragma solidity ^0.8.0; contract C {}",
		map[string]any{"require_pragma": true})
	assert.Empty(t, issues)
}

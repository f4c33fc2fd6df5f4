package reentrancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/rules/reentrancy"
	"github.com/wharflab/solidguard/internal/rulectx"
	"github.com/wharflab/solidguard/internal/solidity"
)

func analyze(t *testing.T, source string) []diag.Issue {
	t.Helper()
	r := reentrancy.New()
	meta := r.Metadata()
	result, err := solidity.Parse([]byte(source), solidity.ParserOptions{})
	require.NoError(t, err)
	ctx := rulectx.New("t.sol", []byte(source), result.Tree,
		map[string]diag.Severity{meta.ID: meta.DefaultSeverity}, nil)
	r.Analyze(ctx)
	return ctx.Issues()
}

func TestCallFollowedByStateWriteFlagged(t *testing.T) {
	src := `pragma solidity ^0.8.0;
contract C {
    uint public balance;
    function withdraw() public {
        msg.sender.call(balance);
        balance = 0;
    }
}`
	issues := analyze(t, src)
	require.Len(t, issues, 1)
	assert.Equal(t, "security/reentrancy", issues[0].RuleID)
}

func TestStateWriteBeforeCallNotFlagged(t *testing.T) {
	src := `pragma solidity ^0.8.0;
contract C {
    uint public balance;
    function withdraw() public {
        balance = 0;
        msg.sender.call(balance);
    }
}`
	issues := analyze(t, src)
	assert.Empty(t, issues)
}

func TestNoExternalCallNotFlagged(t *testing.T) {
	src := `pragma solidity ^0.8.0;
contract C {
    uint public balance;
    function set() public {
        balance = 1;
    }
}`
	issues := analyze(t, src)
	assert.Empty(t, issues)
}

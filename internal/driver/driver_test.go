package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/driver"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/ruleconfig"
	"github.com/wharflab/solidguard/internal/rulectx"
)

// countingWholeRule reports one issue for the whole file.
type countingWholeRule struct{}

func (countingWholeRule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{ID: "lint/whole-file", Category: diag.CategoryLint, DefaultSeverity: diag.SeverityWarning, EnabledByDefault: true}
}
func (countingWholeRule) Analyze(ctx *rulectx.Context) {
	ctx.Report("lint/whole-file", diag.CategoryLint, "whole tree seen", diag.Range{})
}

// contractVisitorRule reports once per contract definition it visits.
type contractVisitorRule struct{}

func (contractVisitorRule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{ID: "lint/contract-visitor", Category: diag.CategoryLint, DefaultSeverity: diag.SeverityWarning, EnabledByDefault: true}
}
func (contractVisitorRule) Kinds() []ast.Kind { return []ast.Kind{ast.KindContractDefinition} }
func (contractVisitorRule) Enter(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {
	ctx.Report("lint/contract-visitor", diag.CategoryLint, "contract seen", tree.Node(node).Range)
}
func (contractVisitorRule) Leave(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {}

// crashingRule always panics when entered.
type crashingRule struct{}

func (crashingRule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{ID: "lint/always-panics", Category: diag.CategoryLint, DefaultSeverity: diag.SeverityWarning, EnabledByDefault: true}
}
func (crashingRule) Kinds() []ast.Kind { return []ast.Kind{ast.KindContractDefinition} }
func (crashingRule) Enter(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {
	panic("boom")
}
func (crashingRule) Leave(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {}

func buildRegistry(t *testing.T, rules ...ruleapi.Rule) *ruleapi.Registry {
	t.Helper()
	reg := ruleapi.NewRegistry()
	for _, r := range rules {
		require.NoError(t, reg.Register(r))
	}
	return reg
}

func resolveAll(t *testing.T, reg *ruleapi.Registry) *ruleconfig.Resolved {
	t.Helper()
	resolved, err := ruleconfig.Resolve(ruleconfig.Config{}, nil, reg, ruleconfig.ResolveModeStrict)
	require.NoError(t, err)
	return resolved
}

const sampleSource = `pragma solidity ^0.8.0;
contract Sample {
    function f() public {}
}
`

func TestRunFiresWholeTreeAndVisitorRules(t *testing.T) {
	reg := buildRegistry(t, countingWholeRule{}, contractVisitorRule{})
	resolved := resolveAll(t, reg)

	out, err := driver.Run(context.Background(), driver.RunInput{
		File:     "sample.sol",
		Source:   []byte(sampleSource),
		Resolved: resolved,
		Registry: reg,
	})
	require.NoError(t, err)
	assert.False(t, out.Partial)

	var sawWhole, sawVisitor bool
	for _, issue := range out.Issues {
		switch issue.RuleID {
		case "lint/whole-file":
			sawWhole = true
		case "lint/contract-visitor":
			sawVisitor = true
		}
	}
	assert.True(t, sawWhole, "expected the whole-tree rule to have reported")
	assert.True(t, sawVisitor, "expected the visitor rule to have reported on the contract node")
}

func TestRunCancellationReturnsPartial(t *testing.T) {
	reg := buildRegistry(t, contractVisitorRule{})
	resolved := resolveAll(t, reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before Run starts

	out, err := driver.Run(ctx, driver.RunInput{
		File:     "sample.sol",
		Source:   []byte(sampleSource),
		Resolved: resolved,
		Registry: reg,
	})
	require.NoError(t, err)
	assert.True(t, out.Partial)

	// A plain cancellation is not a timeout; no engine/file-timeout issue.
	for _, issue := range out.Issues {
		assert.NotEqual(t, diag.EnginePrefix+"/file-timeout", issue.RuleID)
	}
}

func TestRunTimeoutRecordsFileTimeoutIssue(t *testing.T) {
	reg := buildRegistry(t, contractVisitorRule{})
	resolved := resolveAll(t, reg)

	// An already-expired deadline: the per-file budget elapses before the
	// first rule runs, which is the same code path a slow file exercises.
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	out, err := driver.Run(ctx, driver.RunInput{
		File:     "sample.sol",
		Source:   []byte(sampleSource),
		Resolved: resolved,
		Registry: reg,
	})
	require.NoError(t, err)
	assert.True(t, out.Partial)

	var sawTimeout bool
	for _, issue := range out.Issues {
		if issue.RuleID == diag.EnginePrefix+"/file-timeout" {
			sawTimeout = true
		}
	}
	assert.True(t, sawTimeout, "expected an engine/file-timeout issue when the budget expires")
}

func TestRunIsolatesPanickingRuleFromOthers(t *testing.T) {
	reg := buildRegistry(t, crashingRule{}, contractVisitorRule{})
	resolved := resolveAll(t, reg)

	out, err := driver.Run(context.Background(), driver.RunInput{
		File:     "sample.sol",
		Source:   []byte(sampleSource),
		Resolved: resolved,
		Registry: reg,
	})
	require.NoError(t, err)
	assert.False(t, out.Partial)

	var crashIssues []diag.Issue
	var sawOtherRule bool
	for _, issue := range out.Issues {
		if issue.RuleID == diag.EnginePrefix+"/rule-crashed" {
			crashIssues = append(crashIssues, issue)
		}
		if issue.RuleID == "lint/contract-visitor" {
			sawOtherRule = true
		}
	}
	require.Len(t, crashIssues, 1, "exactly one rule-crashed issue expected per crashing rule invocation")
	assert.Equal(t, "lint/always-panics", crashIssues[0].Data["rule_id"])
	assert.True(t, sawOtherRule, "a panicking rule must not prevent other rules from running")
}

// reportThenCrashRule reports an issue on the contract node, then
// panics; its reported issue must not survive the crash.
type reportThenCrashRule struct{}

func (reportThenCrashRule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{ID: "lint/report-then-crash", Category: diag.CategoryLint, DefaultSeverity: diag.SeverityWarning, EnabledByDefault: true}
}
func (reportThenCrashRule) Kinds() []ast.Kind { return []ast.Kind{ast.KindContractDefinition} }
func (reportThenCrashRule) Enter(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {
	ctx.Report("lint/report-then-crash", diag.CategoryLint, "about to crash", tree.Node(node).Range)
	panic("boom after reporting")
}
func (reportThenCrashRule) Leave(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {}

func TestRunDiscardsCrashedRulePartialIssues(t *testing.T) {
	reg := buildRegistry(t, reportThenCrashRule{}, contractVisitorRule{})
	resolved := resolveAll(t, reg)

	out, err := driver.Run(context.Background(), driver.RunInput{
		File:     "sample.sol",
		Source:   []byte(sampleSource),
		Resolved: resolved,
		Registry: reg,
	})
	require.NoError(t, err)

	var sawCrash, sawOther bool
	for _, issue := range out.Issues {
		switch issue.RuleID {
		case "lint/report-then-crash":
			t.Errorf("crashed rule's partial issue survived: %v", issue)
		case diag.EnginePrefix + "/rule-crashed":
			sawCrash = true
		case "lint/contract-visitor":
			sawOther = true
		}
	}
	assert.True(t, sawCrash)
	assert.True(t, sawOther)
}

// countingFinalizeRule counts contracts via its visitor and reports the
// total from its whole-tree entry, which must run after the traversal.
type countingFinalizeRule struct{}

func (countingFinalizeRule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{ID: "lint/contract-count", Category: diag.CategoryLint, DefaultSeverity: diag.SeverityWarning, EnabledByDefault: true}
}
func (countingFinalizeRule) Kinds() []ast.Kind { return []ast.Kind{ast.KindContractDefinition} }
func (countingFinalizeRule) Enter(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {
	cache := ctx.Cache("lint/contract-count")
	n, _ := cache["contracts"].(int)
	cache["contracts"] = n + 1
}
func (countingFinalizeRule) Leave(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {}
func (countingFinalizeRule) Analyze(ctx *rulectx.Context) {
	cache := ctx.Cache("lint/contract-count")
	if n, _ := cache["contracts"].(int); n > 0 {
		ctx.Report("lint/contract-count", diag.CategoryLint, "saw contracts", diag.Range{})
	}
}

func TestRunFinalizePassRunsAfterTraversal(t *testing.T) {
	reg := buildRegistry(t, countingFinalizeRule{})
	resolved := resolveAll(t, reg)

	out, err := driver.Run(context.Background(), driver.RunInput{
		File:     "sample.sol",
		Source:   []byte(sampleSource),
		Resolved: resolved,
		Registry: reg,
	})
	require.NoError(t, err)

	// The whole-tree entry only reports if the visitor ran first, so a
	// single issue proves the finalize ordering.
	var saw bool
	for _, issue := range out.Issues {
		if issue.RuleID == "lint/contract-count" {
			saw = true
		}
	}
	assert.True(t, saw, "expected the finalize pass to observe the visitor's counts")
}

func TestRunManyAnalyzesEveryFileIndependently(t *testing.T) {
	reg := buildRegistry(t, countingWholeRule{})
	resolved := resolveAll(t, reg)

	inputs := []driver.RunInput{
		{File: "a.sol", Source: []byte(sampleSource), Resolved: resolved, Registry: reg},
		{File: "b.sol", Source: []byte(sampleSource), Resolved: resolved, Registry: reg},
		{File: "c.sol", Source: []byte(sampleSource), Resolved: resolved, Registry: reg},
	}

	results := driver.RunManyBounded(context.Background(), inputs, 2)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, inputs[i].File, r.File)
		require.NotNil(t, r.Output)
		assert.NotEmpty(t, r.Output.Issues)
	}
}

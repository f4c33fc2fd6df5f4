package rulectx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/rulectx"
)

func TestReportEmitsAtEffectiveSeverity(t *testing.T) {
	tr := ast.NewTree([]byte("x"))
	// Escalated above what any rule default would be: the emission must
	// track the configured severity, not a compile-time constant.
	ctx := rulectx.New("f.sol", []byte("x"), tr,
		map[string]diag.Severity{"lint/foo": diag.SeverityError}, nil)

	ctx.Report("lint/foo", diag.CategoryLint, "msg", diag.Range{})
	issues := ctx.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, diag.SeverityError, issues[0].Severity)
}

func TestReportDowngradedCapsAtEffective(t *testing.T) {
	tr := ast.NewTree([]byte("x"))
	ctx := rulectx.New("f.sol", []byte("x"), tr,
		map[string]diag.Severity{"lint/foo": diag.SeverityWarning}, nil)

	// A downgrade hint below the effective severity is honored...
	ctx.ReportDowngraded("lint/foo", diag.CategoryLint, diag.SeverityInfo, "note", diag.Range{})
	// ...but a hint above it is capped back down.
	ctx.ReportDowngraded("lint/foo", diag.CategoryLint, diag.SeverityError, "msg", diag.Range{})

	issues := ctx.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, diag.SeverityInfo, issues[0].Severity)
	assert.Equal(t, diag.SeverityWarning, issues[1].Severity)
}

func TestReportDroppedWhenRuleNotConfigured(t *testing.T) {
	tr := ast.NewTree([]byte("x"))
	ctx := rulectx.New("f.sol", []byte("x"), tr, map[string]diag.Severity{}, nil)
	ctx.Report("lint/foo", diag.CategoryLint, "msg", diag.Range{})
	assert.Empty(t, ctx.Issues())
}

func TestReportDroppedWhenOff(t *testing.T) {
	tr := ast.NewTree([]byte("x"))
	ctx := rulectx.New("f.sol", []byte("x"), tr, map[string]diag.Severity{"lint/foo": diag.SeverityOff}, nil)
	ctx.Report("lint/foo", diag.CategoryLint, "msg", diag.Range{})
	assert.Empty(t, ctx.Issues())
}

func TestReportAfterFreezePanics(t *testing.T) {
	tr := ast.NewTree([]byte("x"))
	ctx := rulectx.New("f.sol", []byte("x"), tr, map[string]diag.Severity{"lint/foo": diag.SeverityWarning}, nil)
	ctx.Freeze()
	assert.Panics(t, func() {
		ctx.Report("lint/foo", diag.CategoryLint, "msg", diag.Range{})
	})
}

func TestSourceLine(t *testing.T) {
	src := []byte("line1\nline2\nline3")
	tr := ast.NewTree(src)
	ctx := rulectx.New("f.sol", src, tr, nil, nil)

	assert.Equal(t, "line1", ctx.SourceLine(1))
	assert.Equal(t, "line2", ctx.SourceLine(2))
	assert.Equal(t, "line3", ctx.SourceLine(3))
	assert.Equal(t, "", ctx.SourceLine(4))
	assert.Equal(t, "", ctx.SourceLine(0))
}

func TestOptionFallsBackToDefault(t *testing.T) {
	tr := ast.NewTree([]byte("x"))
	opts := map[string]map[string]any{"lint/foo": {"threshold": float64(5)}}
	ctx := rulectx.New("f.sol", []byte("x"), tr, nil, opts)

	assert.Equal(t, 5, rulectx.Option(ctx, "lint/foo", "threshold", 0))
	assert.Equal(t, 10, rulectx.Option(ctx, "lint/foo", "missing", 10))
	assert.Equal(t, 10, rulectx.Option(ctx, "lint/other", "threshold", 10))
}

func TestCacheIsolatedPerRule(t *testing.T) {
	tr := ast.NewTree([]byte("x"))
	ctx := rulectx.New("f.sol", []byte("x"), tr, nil, nil)

	ctx.Cache("lint/a")["seen"] = true
	assert.Nil(t, ctx.Cache("lint/b")["seen"])
	assert.Equal(t, true, ctx.Cache("lint/a")["seen"])
}

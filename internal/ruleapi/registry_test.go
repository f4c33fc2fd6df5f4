package ruleapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/rulectx"
)

type stubRule struct {
	meta ruleapi.RuleMetadata
}

func (s stubRule) Metadata() ruleapi.RuleMetadata { return s.meta }
func (s stubRule) Analyze(ctx *rulectx.Context)   {}

var _ ruleapi.WholeTreeRule = stubRule{}

func TestRegisterAndGet(t *testing.T) {
	reg := ruleapi.NewRegistry()
	r := stubRule{meta: ruleapi.RuleMetadata{ID: "lint/foo", Category: diag.CategoryLint}}
	require.NoError(t, reg.Register(r))

	got, err := reg.Get("lint/foo")
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, err = reg.Get("lint/missing")
	require.Error(t, err)
	var unknown *ruleapi.ErrUnknownRule
	assert.ErrorAs(t, err, &unknown)
}

func TestRegisterDuplicateFails(t *testing.T) {
	reg := ruleapi.NewRegistry()
	r := stubRule{meta: ruleapi.RuleMetadata{ID: "lint/foo", Category: diag.CategoryLint}}
	require.NoError(t, reg.Register(r))

	err := reg.Register(r)
	require.Error(t, err)
	var dup *ruleapi.ErrDuplicateRule
	assert.ErrorAs(t, err, &dup)
}

func TestRegisterRejectsPrefixMismatch(t *testing.T) {
	reg := ruleapi.NewRegistry()
	r := stubRule{meta: ruleapi.RuleMetadata{ID: "security/foo", Category: diag.CategoryLint}}
	err := reg.Register(r)
	require.Error(t, err)
	var bad *ruleapi.ErrBadMetadata
	assert.ErrorAs(t, err, &bad)
}

func TestAllIsSortedByID(t *testing.T) {
	reg := ruleapi.NewRegistry()
	require.NoError(t, reg.Register(stubRule{meta: ruleapi.RuleMetadata{ID: "lint/zzz", Category: diag.CategoryLint}}))
	require.NoError(t, reg.Register(stubRule{meta: ruleapi.RuleMetadata{ID: "lint/aaa", Category: diag.CategoryLint}}))

	codes := reg.Codes()
	assert.Equal(t, []string{"lint/aaa", "lint/zzz"}, codes)
}

func TestEnabledByDefaultFilters(t *testing.T) {
	reg := ruleapi.NewRegistry()
	require.NoError(t, reg.Register(stubRule{meta: ruleapi.RuleMetadata{ID: "lint/a", Category: diag.CategoryLint, EnabledByDefault: true}}))
	require.NoError(t, reg.Register(stubRule{meta: ruleapi.RuleMetadata{ID: "lint/b", Category: diag.CategoryLint, EnabledByDefault: false}}))

	enabled := reg.EnabledByDefault()
	require.Len(t, enabled, 1)
	assert.Equal(t, "lint/a", enabled[0].Metadata().ID)
}

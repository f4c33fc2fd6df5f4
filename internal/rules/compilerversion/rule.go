// Package compilerversion implements lint/compiler-version: flags a
// pragma that pins an exact compiler version instead of a range, which
// prevents picking up compiler patch releases (bug fixes included).
package compilerversion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/ruleconfig"
	"github.com/wharflab/solidguard/internal/rulectx"
)

const ruleID = "lint/compiler-version"

// Rule implements lint/compiler-version.
type Rule struct{}

// New creates a new Rule instance.
func New() *Rule { return &Rule{} }

// options are the user-configurable knobs for this rule.
type options struct {
	// RequirePragma also flags files with no solidity version pragma at
	// all, since an unpinned file compiles under any compiler.
	RequirePragma bool `koanf:"require_pragma"`
}

// Metadata returns the rule's metadata.
func (r *Rule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{
		ID:               ruleID,
		Name:             "Exact compiler version pin",
		Description:      "Solidity pragma should specify a version range rather than an exact version, so security patch releases are picked up automatically.",
		DocURL:           "https://docs.soliditylang.org/en/latest/layout-of-source-files.html#version-pragma",
		Category:         diag.CategoryLint,
		DefaultSeverity:  diag.SeverityWarning,
		EnabledByDefault: true,
		OptionSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"require_pragma": map[string]any{"type": "boolean"},
			},
			"additionalProperties": false,
		},
	}
}

var exactVersionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Analyze checks every solidity pragma directive in the file.
func (r *Rule) Analyze(ctx *rulectx.Context) {
	tree := ctx.AST()
	root := tree.Root()
	if root == ast.NoNode {
		return
	}
	opts := ruleconfig.ResolveOptions(ctx.Options(ruleID), options{})

	sawPragma := false
	for _, id := range tree.FindChildren(root, ast.KindPragmaDirective) {
		node := tree.Node(id)
		if node.SubKind != "solidity" {
			continue
		}
		sawPragma = true
		version := strings.ReplaceAll(node.Value, " ", "")
		if !exactVersionRe.MatchString(version) {
			continue
		}
		ctx.Report(ruleID, diag.CategoryLint,
			fmt.Sprintf("Exact compiler version %q pinned; use a version range (e.g. ^%s) so patch releases are picked up", version, version),
			node.Range)
	}

	if opts.RequirePragma && !sawPragma {
		ctx.Report(ruleID, diag.CategoryLint,
			"No solidity version pragma; add one so the file only compiles under the compilers it was written for",
			tree.Node(root).Range)
	}
}

func init() {
	ruleapi.Register(New())
}

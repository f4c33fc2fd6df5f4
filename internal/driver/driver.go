// Package driver is the rule driver: it parses a file,
// builds the kind -> visitor dispatch table for the active rule set,
// runs every active rule across a single tree traversal plus one pass
// of whole-tree rules, isolates a panicking rule behind recover() so it
// can't take down the other rules, and honors context cancellation by
// returning whatever issues were gathered so far with Partial set.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/directive"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/ruleconfig"
	"github.com/wharflab/solidguard/internal/rulectx"
	"github.com/wharflab/solidguard/internal/solidity"
)

// RunInput is one file's worth of work for Run.
type RunInput struct {
	File     string
	Source   []byte
	Resolved *ruleconfig.Resolved
	Registry *ruleapi.Registry

	// Logger receives an error-level line per rule crash; nil disables logging.
	Logger *slog.Logger

	// Timeout bounds this file's analysis wall-clock time; zero means no
	// per-file budget beyond whatever deadline ctx already carries.
	Timeout time.Duration
}

// RunOutput is the result of analyzing one file.
type RunOutput struct {
	Issues []diag.Issue
	// ParseDiagnostics are raw parser-level problems; report assembly
	// (internal/report) merges these into issues under parser/* ids.
	ParseDiagnostics []solidity.ParseError
	// Partial is true if ctx was cancelled or timed out before every
	// active rule finished; Issues still reflects whatever completed.
	Partial bool
}

// Run analyzes a single file under in.Resolved's configuration.
func Run(ctx context.Context, in RunInput) (*RunOutput, error) {
	if in.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.Timeout)
		defer cancel()
	}

	parserOpts := solidity.ParserOptions{
		Tolerant:   in.Resolved.Parser.Tolerant,
		SourceType: parserSourceType(in.Resolved.Parser.SourceType),
	}
	parseResult, _ := solidity.Parse(in.Source, parserOpts)
	// Parse's returned error is only ever non-nil in non-tolerant mode on
	// the first syntax error, and parseResult is still populated with
	// the tree the parser built — rules run against it as a
	// best-effort tree either way; the caller sees the problem via
	// ParseDiagnostics instead of a hard Run failure.
	tree := parseResult.Tree

	rcx := rulectx.New(in.File, in.Source, tree, in.Resolved.Severities, in.Resolved.Options)
	dt := dispatchTableFor(in.Resolved, in.Registry)

	cancelled := func() bool { return ctx.Err() != nil }
	partial := false
	crashed := make(map[string]bool)

	runWhole := func(rules []ruleapi.WholeTreeRule) {
		for _, wt := range rules {
			if cancelled() {
				partial = true
				return
			}
			id := wt.Metadata().ID
			if crashed[id] {
				continue
			}
			if !runProtected(rcx, id, in.Logger, func() { wt.Analyze(rcx) }) {
				crashed[id] = true
			}
		}
	}

	runWhole(dt.wholePre)

	if !partial {
		dv := &dispatchVisitor{rcx: rcx, crashed: crashed, dt: dt, logger: in.Logger}
		tree.VisitUntil(dv, cancelled)
		if cancelled() {
			partial = true
		}
	}

	// Finalize pass for rules that registered visitors as well: their
	// whole-tree entry runs once the traversal is complete.
	if !partial {
		runWhole(dt.wholePost)
	}

	if partial && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		rcx.ReportEngine(diag.EnginePrefix+"/file-timeout", diag.SeverityWarning,
			fmt.Sprintf("analysis of %s exceeded its time budget", in.File),
			diag.Range{}, nil)
	}

	rcx.Freeze()

	issues := rcx.Issues()
	if len(crashed) > 0 {
		// A crashed rule's partial findings are unreliable; keep only the
		// synthetic engine/rule-crashed record for it.
		kept := issues[:0]
		for _, iss := range issues {
			if !crashed[iss.RuleID] {
				kept = append(kept, iss)
			}
		}
		issues = kept
	}

	issues = applyDirectives(in.File, in.Source, in.Registry, issues)

	return &RunOutput{
		Issues:           issues,
		ParseDiagnostics: parseResult.Diagnostics,
		Partial:          partial,
	}, nil
}

// parserSourceType maps the configuration's source-type token onto the
// parser's enum; anything but "script" parses as a whole file.
func parserSourceType(s string) solidity.SourceType {
	if s == "script" {
		return solidity.SourceTypeFragment
	}
	return solidity.SourceTypeFile
}

// applyDirectives parses inline suppression comments out of source and
// drops any issue they cover. Suppression sits on top of the per-rule
// Report/severity pipeline, not inside it: a suppressed issue never
// reaches the user regardless of its effective severity. A directive that
// fails to parse (an unregistered rule id, or an empty rule list) becomes
// an engine/unknown-directive-rule issue rather than silently doing
// nothing, mirroring how ruleconfig
// surfaces an unknown rule id in a config file.
func applyDirectives(file string, source []byte, reg *ruleapi.Registry, issues []diag.Issue) []diag.Issue {
	parsed := directive.Parse(source, reg.Has)
	filtered := directive.Filter(issues, parsed.Directives)
	out := filtered.Issues
	for _, perr := range parsed.Errors {
		out = append(out, diag.Issue{
			RuleID:   diag.EnginePrefix + "/unknown-directive-rule",
			Category: diag.Category(diag.EnginePrefix),
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("%s: %s", file, perr.Message),
			File:     file,
			Range:    diag.Range{Start: diag.Position{Line: perr.Line + 1}, End: diag.Position{Line: perr.Line + 1}},
		})
	}
	return out
}

// dispatchVisitor adapts a dispatchTable into an ast.Visitor, fanning
// out to every active visitor rule interested in each node kind. A rule
// that has already crashed on this file is skipped for the rest of the
// traversal.
type dispatchVisitor struct {
	rcx     *rulectx.Context
	crashed map[string]bool
	dt      *dispatchTable
	logger  *slog.Logger
}

func (v *dispatchVisitor) Enter(tree *ast.Tree, id ast.NodeID) {
	kind := tree.Node(id).Kind
	for _, r := range v.dt.visitorsFor(kind) {
		rule := r
		ruleID := rule.Metadata().ID
		if v.crashed[ruleID] {
			continue
		}
		if !runProtected(v.rcx, ruleID, v.logger, func() { rule.Enter(v.rcx, tree, id) }) {
			v.crashed[ruleID] = true
		}
	}
}

func (v *dispatchVisitor) Leave(tree *ast.Tree, id ast.NodeID) {
	kind := tree.Node(id).Kind
	for _, r := range v.dt.visitorsFor(kind) {
		rule := r
		ruleID := rule.Metadata().ID
		if v.crashed[ruleID] {
			continue
		}
		if !runProtected(v.rcx, ruleID, v.logger, func() { rule.Leave(v.rcx, tree, id) }) {
			v.crashed[ruleID] = true
		}
	}
}

// runProtected calls fn, converting a panic into a single
// engine/rule-crashed issue for ruleID rather than letting it
// propagate. One crashing rule must not stop any other rule from
// running. Returns false if fn panicked.
func runProtected(rcx *rulectx.Context, ruleID string, logger *slog.Logger, fn func()) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			if logger != nil {
				logger.Error("rule panicked", "rule_id", ruleID, "panic", rec)
			}
			rcx.ReportEngine(diag.EnginePrefix+"/rule-crashed", diag.SeverityError,
				fmt.Sprintf("rule %s panicked: %v", ruleID, rec), diag.Range{},
				map[string]any{"rule_id": ruleID})
		}
	}()
	fn()
	return true
}

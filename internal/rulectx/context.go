// Package rulectx is the analysis context: the
// per-file working state a rule sees while it runs — the parsed tree,
// source text, its own resolved options, and the sink for issues it
// reports. A Context is built once per file by the driver and is not
// safe for concurrent use; each file gets its own instance so
// concurrent files never share one.
package rulectx

import (
	"strconv"
	"strings"
	"sync"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
)

// Context is deliberately free of any dependency on internal/ruleconfig
// or internal/ruleapi: the driver resolves per-rule options and severity
// ahead of time and feeds them in as plain maps, keeping this package a
// leaf the way internal/diag and internal/ast are.
type Context struct {
	File   string
	Source []byte
	Tree   *ast.Tree

	// severities maps a rule id to the effective severity the driver
	// computed for it on this file; a rule calling Report never needs
	// to know its own configured severity.
	severities map[string]diag.Severity
	// options maps a rule id to its already-decoded options value.
	options map[string]map[string]any

	mu       sync.Mutex
	issues   []diag.Issue
	frozen   bool
	cache    map[string]any
	lines    []int // byte offset of the start of each line, built lazily
}

// New builds a Context for one file. severities and options are keyed by
// rule id and are typically produced by ruleconfig.Resolved.
func New(file string, source []byte, tree *ast.Tree, severities map[string]diag.Severity, options map[string]map[string]any) *Context {
	return &Context{
		File:       file,
		Source:     source,
		Tree:       tree,
		severities: severities,
		options:    options,
	}
}

// Report records a primary finding for ruleID, emitted at the effective
// severity the user's configuration resolved for ruleID on this file —
// never the rule's compile-time default, so a preset or user override
// that escalates a rule escalates its emissions too. If ruleID has no
// configured severity (a bug in the caller, not a user error) the issue
// is dropped rather than reported at a made-up severity. Report after
// Freeze panics: rules only report while the driver is actively
// dispatching to them.
func (c *Context) Report(ruleID string, category diag.Category, message string, r diag.Range) {
	c.report(ruleID, category, diag.SeverityError, message, r)
}

// ReportDowngraded records a secondary finding at
// diag.CapSeverity(hint, effective): a rule may pass a hint below its
// effective severity to mark a supporting note, but can never escalate
// past what the user asked for.
func (c *Context) ReportDowngraded(ruleID string, category diag.Category, hint diag.Severity, message string, r diag.Range) {
	c.report(ruleID, category, hint, message, r)
}

func (c *Context) report(ruleID string, category diag.Category, hint diag.Severity, message string, r diag.Range) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		panic("rulectx: Report called after Freeze")
	}
	effective, ok := c.severities[ruleID]
	if !ok || effective == diag.SeverityOff {
		return
	}
	c.issues = append(c.issues, diag.Issue{
		RuleID:   ruleID,
		Category: category,
		Severity: diag.CapSeverity(hint, effective),
		Message:  message,
		File:     c.File,
		Range:    r,
	})
}

// ReportEngine records a synthetic diagnostic the driver itself emits —
// rule-crashed, file-timeout — which is not subject to any rule's
// configured severity and therefore bypasses Report's severities
// lookup entirely. ruleID is conventionally "engine/<reason>"
// (diag.EnginePrefix). data is attached verbatim as the issue's Data
// field (e.g. {"rule_id": "<crashing rule>"} for rule-crashed).
func (c *Context) ReportEngine(ruleID string, severity diag.Severity, message string, r diag.Range, data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		panic("rulectx: ReportEngine called after Freeze")
	}
	c.issues = append(c.issues, diag.Issue{
		RuleID:   ruleID,
		Category: diag.Category(diag.EnginePrefix),
		Severity: severity,
		Message:  message,
		File:     c.File,
		Range:    r,
		Data:     data,
	})
}

// Issues returns the issues reported so far, in report order. Safe to
// call before or after Freeze.
func (c *Context) Issues() []diag.Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]diag.Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Freeze marks the context read-only; the driver calls this once all
// rules have finished running on this file, so a buggy rule that keeps a
// Context reference past its Analyze/Enter/Leave call can't corrupt
// state another goroutine might be reading.
func (c *Context) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// AST returns the parsed tree for this file.
func (c *Context) AST() *ast.Tree { return c.Tree }

// SourceText returns the full source of the file.
func (c *Context) SourceText() string { return string(c.Source) }

// SourceLine returns the 1-based line n of the source, without its line
// terminator, or "" if n is out of range.
func (c *Context) SourceLine(n int) string {
	c.ensureLines()
	if n < 1 || n > len(c.lines) {
		return ""
	}
	start := c.lines[n-1]
	end := len(c.Source)
	if n < len(c.lines) {
		end = c.lines[n] - 1 // exclude the newline itself
	}
	if end > len(c.Source) {
		end = len(c.Source)
	}
	if start > end {
		return ""
	}
	line := string(c.Source[start:end])
	return strings.TrimSuffix(line, "\r")
}

func (c *Context) ensureLines() {
	if c.lines != nil {
		return
	}
	lines := []int{0}
	for i, b := range c.Source {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	c.lines = lines
}

// Option returns the value configured for ruleID's option key, decoded
// into a concrete type via Option[T]; raw access for callers that want
// the any value directly.
func (c *Context) Option(ruleID, key string, def any) any {
	opts, ok := c.options[ruleID]
	if !ok {
		return def
	}
	v, ok := opts[key]
	if !ok {
		return def
	}
	return v
}

// Options returns ruleID's full decoded options map, or nil if none
// were configured. Callers wanting a typed view pass the result to
// ruleconfig.ResolveOptions.
func (c *Context) Options(ruleID string) map[string]any {
	return c.options[ruleID]
}

// Cache returns a per-rule scratch map that survives across Enter/Leave
// calls within the same file but never across files; visitor rules use
// it to carry state between nodes (e.g. "have I seen a constructor
// yet") without package-level globals.
func (c *Context) Cache(ruleID string) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		c.cache = make(map[string]any)
	}
	bucket, ok := c.cache[ruleID].(map[string]any)
	if !ok {
		bucket = make(map[string]any)
		c.cache[ruleID] = bucket
	}
	return bucket
}

// Option is a generic helper that type-asserts the result of
// Context.Option, returning def if the stored value is absent or of the
// wrong type — config authors write JSON/TOML scalars, and koanf/
// jsonschema-go may hand back float64 for what the rule treats as int,
// so this also covers that common numeric-width mismatch.
func Option[T any](c *Context, ruleID, key string, def T) T {
	raw := c.Option(ruleID, key, nil)
	if raw == nil {
		return def
	}
	if v, ok := raw.(T); ok {
		return v
	}
	if asInt, ok := any(def).(int); ok {
		switch n := raw.(type) {
		case float64:
			return any(int(n)).(T)
		case int:
			return any(n).(T)
		case string:
			if parsed, err := strconv.Atoi(n); err == nil {
				return any(parsed).(T)
			}
		}
		_ = asInt
	}
	return def
}

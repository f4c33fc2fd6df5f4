// Package hardcodedsecret implements security/hardcoded-secret: scans
// every string literal in a Solidity file for hardcoded credentials
// using gitleaks' curated secret-pattern database.
package hardcodedsecret

import (
	"fmt"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/rulectx"
)

const ruleID = "security/hardcoded-secret"

// Rule implements security/hardcoded-secret. One Rule instance is
// shared across every file driver.RunMany analyzes concurrently, so the
// lazily-built detector is guarded by detectorOnce rather than a plain
// nil check.
type Rule struct {
	detectorOnce sync.Once
	detector     *detect.Detector
}

// New creates a new Rule instance. The gitleaks detector is built
// lazily on first use (loading its pattern database isn't free, and
// most analyzed files never hit a literal worth scanning).
func New() *Rule { return &Rule{} }

// Metadata returns the rule's metadata.
func (r *Rule) Metadata() ruleapi.RuleMetadata {
	return ruleapi.RuleMetadata{
		ID:               ruleID,
		Name:             "Hardcoded secret in source",
		Description:      "A string literal matches a known secret pattern (API key, private key, credential).",
		DocURL:           "https://github.com/gitleaks/gitleaks",
		Category:         diag.CategorySecurity,
		DefaultSeverity:  diag.SeverityError,
		EnabledByDefault: true,
	}
}

// Kinds reports that only string literals are interesting.
func (r *Rule) Kinds() []ast.Kind { return []ast.Kind{ast.KindLiteral} }

// Enter scans a string literal's contents for secrets.
func (r *Rule) Enter(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {
	n := tree.Node(node)
	if n.SubKind != "string" || n.Value == "" {
		return
	}
	r.detectorOnce.Do(func() {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return
		}
		r.detector = d
	})
	if r.detector == nil {
		// Detector unavailable (e.g. bad embedded config) — skip
		// silently rather than fail the whole run over one rule.
		return
	}

	for _, finding := range r.detector.DetectString(n.Value) {
		msg := finding.Description
		if msg == "" {
			msg = "potential secret detected"
		}
		ctx.Report(ruleID, diag.CategorySecurity,
			fmt.Sprintf("%s (%s): %s", msg, finding.RuleID, redact(finding.Secret)),
			n.Range)
	}
}

// Leave does nothing; findings are emitted on Enter.
func (r *Rule) Leave(ctx *rulectx.Context, tree *ast.Tree, node ast.NodeID) {}

// redact shows only enough of a matched secret to confirm the finding
// without reproducing it in full in the report.
func redact(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func init() {
	ruleapi.Register(New())
}

package directive

import (
	"regexp"
	"strings"
)

// Regex patterns for directive parsing. All patterns are case-insensitive
// for the directive keywords. Patterns capture an optional reason after
// `;reason=` (a solidguard extension unknown to slither/solhint). Rule
// lists allow optional whitespace around commas and may contain "/" for
// namespaced ids (e.g. "security/reentrancy").
var (
	// // solidguard [global] ignore=RULE1,RULE2[;reason=explanation]
	solidguardPattern = regexp.MustCompile(
		`(?i)^//\s*solidguard\s+(global\s+)?ignore\s*=\s*([A-Za-z0-9_,\s/.-]*?)(?:;reason\s*=\s*(.*))?$`)

	// // slither-disable-next-line RULE1,RULE2[;reason=explanation]
	slitherPattern = regexp.MustCompile(
		`(?i)^//\s*slither-disable-next-line\s+([A-Za-z0-9_,\s/.-]+?)(?:;reason\s*=\s*(.*))?$`)

	// // solhint-disable-next-line RULE1,RULE2[;reason=explanation]
	solhintPattern = regexp.MustCompile(
		`(?i)^//\s*solhint-disable-next-line\s+([A-Za-z0-9_,\s/.-]+?)(?:;reason\s*=\s*(.*))?$`)
)

// RuleValidator is a function that checks if a rule id is known.
// Returns true if the rule exists in the registry.
type RuleValidator func(string) bool

// Parse extracts all inline directives from Solidity source text. Comments
// are found with a simple line-oriented scan for "//"; this can in theory
// mis-detect a "//" that appears inside a string literal, but a directive
// keyword immediately following it ("solidguard", "slither-disable-...",
// "solhint-disable-...") makes an accidental match on arbitrary string
// content implausible in practice. If validator is non-nil, unknown rule
// ids generate parse errors.
func Parse(source []byte, validator RuleValidator) *ParseResult {
	result := &ParseResult{}
	lines := strings.Split(string(source), "\n")

	for i, line := range lines {
		comment, ok := commentText(line)
		if !ok {
			continue
		}

		if d, err := parseSolidguard(comment, i, lines); d != nil || err != nil {
			recordDirective(result, d, err, validator)
			continue
		}
		if d, err := parseSlither(comment, i, lines); d != nil || err != nil {
			recordDirective(result, d, err, validator)
			continue
		}
		if d, err := parseSolhint(comment, i, lines); d != nil || err != nil {
			recordDirective(result, d, err, validator)
			continue
		}
	}

	return result
}

// recordDirective appends a parse error and/or the validated directive to result.
func recordDirective(result *ParseResult, d *Directive, err *ParseError, validator RuleValidator) {
	if err != nil {
		result.Errors = append(result.Errors, *err)
	}
	if d != nil {
		validateDirective(d, validator, result)
	}
}

// commentText returns the trimmed "//"-prefixed comment on line, if any.
func commentText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return "", false
	}
	return trimmed, true
}

// validateDirective validates rule ids and adds the directive or errors.
func validateDirective(d *Directive, validator RuleValidator, result *ParseResult) {
	if validator != nil {
		var unknownRules []string
		for _, rule := range d.Rules {
			if rule != "all" && !validator(rule) {
				unknownRules = append(unknownRules, rule)
			}
		}
		if len(unknownRules) > 0 {
			result.Errors = append(result.Errors, ParseError{
				Line:    d.Line,
				Message: "unknown rule id(s): " + strings.Join(unknownRules, ", "),
				RawText: d.RawText,
			})
		}
	}
	result.Directives = append(result.Directives, *d)
}

// parseSolidguard attempts to parse a solidguard-format directive.
func parseSolidguard(comment string, line int, lines []string) (*Directive, *ParseError) {
	matches := solidguardPattern.FindStringSubmatch(comment)
	if matches == nil {
		return nil, nil
	}

	isGlobal := strings.TrimSpace(matches[1]) != ""
	rules, reason, perr := parseRulesAndReason(matches[2], matches, 3, line, comment)
	if perr != nil {
		return nil, perr
	}

	d := &Directive{
		Rules:   rules,
		Line:    line,
		RawText: comment,
		Source:  SourceSolidguard,
		Reason:  reason,
	}
	if isGlobal {
		d.Type = TypeGlobal
		d.AppliesTo = GlobalRange()
	} else {
		d.Type = TypeNextLine
		d.AppliesTo = nextNonCommentLineRange(line, lines)
	}
	return d, nil
}

// parseSlither attempts to parse a slither-disable-next-line directive.
// slither's disable-next-line is always next-line scoped.
func parseSlither(comment string, line int, lines []string) (*Directive, *ParseError) {
	matches := slitherPattern.FindStringSubmatch(comment)
	if matches == nil {
		return nil, nil
	}
	rules, reason, perr := parseRulesAndReason(matches[1], matches, 2, line, comment)
	if perr != nil {
		return nil, perr
	}
	return &Directive{
		Type:      TypeNextLine,
		Rules:     rules,
		Line:      line,
		AppliesTo: nextNonCommentLineRange(line, lines),
		RawText:   comment,
		Source:    SourceSlither,
		Reason:    reason,
	}, nil
}

// parseSolhint attempts to parse a solhint-disable-next-line directive.
func parseSolhint(comment string, line int, lines []string) (*Directive, *ParseError) {
	matches := solhintPattern.FindStringSubmatch(comment)
	if matches == nil {
		return nil, nil
	}
	rules, reason, perr := parseRulesAndReason(matches[1], matches, 2, line, comment)
	if perr != nil {
		return nil, perr
	}
	return &Directive{
		Type:      TypeNextLine,
		Rules:     rules,
		Line:      line,
		AppliesTo: nextNonCommentLineRange(line, lines),
		RawText:   comment,
		Source:    SourceSolhint,
		Reason:    reason,
	}, nil
}

// parseRulesAndReason parses the rule-list capture group and, if present,
// the optional reason capture group at reasonIdx.
func parseRulesAndReason(
	rulesStr string, matches []string, reasonIdx, line int, comment string,
) ([]string, string, *ParseError) {
	var reason string
	if len(matches) > reasonIdx {
		reason = strings.TrimSpace(matches[reasonIdx])
	}
	rules, err := parseRuleList(rulesStr)
	if err != nil {
		return nil, "", &ParseError{Line: line, Message: err.Error(), RawText: comment}
	}
	return rules, reason, nil
}

// parseRuleList parses a comma-separated list of rule ids.
// Returns an error if the list is empty.
func parseRuleList(s string) ([]string, error) {
	if s == "" {
		return nil, &parseRuleError{msg: "empty rule list"}
	}

	parts := strings.Split(s, ",")
	rules := make([]string, 0, len(parts))

	for _, part := range parts {
		rule := strings.TrimSpace(part)
		if rule == "" {
			continue
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return nil, &parseRuleError{msg: "empty rule list"}
	}

	return rules, nil
}

type parseRuleError struct {
	msg string
}

func (e *parseRuleError) Error() string {
	return e.msg
}

// nextNonCommentLineRange finds the range for the next non-comment line.
// If there is no next line (directive at end of file), returns an empty
// range that won't match any line.
func nextNonCommentLineRange(directiveLine int, lines []string) LineRange {
	for i := directiveLine + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return LineRange{Start: i, End: i}
	}
	return LineRange{Start: -1, End: -1}
}

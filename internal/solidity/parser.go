// Package solidity is the external-parser adapter: it turns Solidity
// source bytes into the [ast.Tree] shape internal/ast defines, plus any
// parse-time diagnostics. It implements a deliberately small subset of
// the Solidity grammar — pragmas, imports, contract/interface/library
// bodies, functions, a handful of statement forms, and expressions with
// standard operator precedence — enough for the rule set to inspect
// real control/data flow without reimplementing solc.
package solidity

import (
	"fmt"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/diag"
)

// SourceType distinguishes the few ways a unit of Solidity source can
// be handed to the parser. File expects directives and contract-like
// definitions only; Fragment additionally accepts bare statements at
// the top level, for rules/tests that parse a snippet.
type SourceType int

const (
	SourceTypeFile SourceType = iota
	SourceTypeFragment
)

// ParserOptions configures a single Parse call.
type ParserOptions struct {
	// Tolerant, when true, makes Parse skip an unexpected token at the
	// source-unit level and continue, collecting a ParseError per problem.
	// When false, such a token ends the parse. Errors inside a contract or
	// function body are collected and parsed past in either mode.
	Tolerant bool

	SourceType SourceType
}

// ParseError describes one recoverable syntax error.
type ParseError struct {
	Message string
	Range   diag.Range
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("solidity: %s at %d:%d", e.Message, e.Range.Start.Line, e.Range.Start.Column)
}

// ParseResult is the output of Parse: the tree plus any diagnostics
// produced while building it (report assembly merges these in as
// parser/* issues).
type ParseResult struct {
	Tree        *ast.Tree
	Diagnostics []ParseError
}

// Parse builds a ParseResult from source. With ParserOptions.Tolerant
// set, a malformed construct is recorded as a ParseError and the parser
// moves on past the offending token rather than failing the whole file;
// rules still receive a best-effort tree for the rest of the file.
// Without Tolerant, the first syntax error is returned as err alongside
// the tree built so far, which stops at the first unexpected token at
// the source-unit level.
func Parse(source []byte, opts ParserOptions) (*ParseResult, error) {
	p := &parser{
		toks: newLexer(source).tokenize(),
		tree: ast.NewTree(source),
		opts: opts,
	}
	root := p.parseSourceUnit()
	p.tree.SetRoot(root)
	if !opts.Tolerant && len(p.errs) > 0 {
		return &ParseResult{Tree: p.tree, Diagnostics: p.errs}, &p.errs[0]
	}
	return &ParseResult{Tree: p.tree, Diagnostics: p.errs}, nil
}

type parser struct {
	toks []token
	pos  int
	tree *ast.Tree
	opts ParserOptions
	errs []ParseError
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) peekIs(text string) bool {
	t := p.cur()
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(text string) (token, bool) {
	if p.peekIs(text) {
		return p.advance(), true
	}
	p.fail(fmt.Sprintf("expected %q, got %q", text, p.cur().text))
	return p.cur(), false
}

// fail records a ParseError at the current token. Callers keep going
// with best-effort output; recoverTo skips ahead where a construct's
// remainder is not parsed (import lists, struct and enum bodies, a
// contract missing its "{").
func (p *parser) fail(msg string) {
	t := p.cur()
	pos := diag.Position{Line: t.startLine, Column: t.startCol, Offset: t.startOff}
	p.errs = append(p.errs, ParseError{Message: msg, Range: diag.PointRange(pos)})
}

// recoverTo advances past tokens until one of the stop texts (or EOF),
// consuming the stop token itself if it's one of the given punctuation.
func (p *parser) recoverTo(stops ...string) {
	for !p.atEOF() {
		for _, s := range stops {
			if p.peekIs(s) {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *parser) nodeRange(startTok token) diag.Range {
	prev := p.toks[max(p.pos-1, 0)]
	return diag.Range{
		Start: diag.Position{Line: startTok.startLine, Column: startTok.startCol, Offset: startTok.startOff},
		End:   diag.Position{Line: prev.startLine, Column: prev.startCol, Offset: prev.endOff},
	}
}

// parseSourceUnit parses the whole file: a sequence of pragma/import
// directives and contract-like definitions.
func (p *parser) parseSourceUnit() ast.NodeID {
	start := p.cur()
	root := p.tree.AddNode(ast.Node{Kind: ast.KindSourceUnit}, ast.NoNode)

	for !p.atEOF() {
		switch {
		case p.peekIs("pragma"):
			p.parsePragma(root)
		case p.peekIs("import"):
			p.parseImport(root)
		case p.peekIs("contract") || p.peekIs("interface") || p.peekIs("library"):
			p.parseContract(root)
		case p.opts.SourceType == SourceTypeFragment:
			// Fragment input allows bare statements at the top level, so a
			// rule or test can parse a snippet without a contract wrapper.
			p.parseStatement(root)
		default:
			p.fail(fmt.Sprintf("unexpected token %q at source-unit level", p.cur().text))
			if !p.opts.Tolerant {
				goto done
			}
			p.advance()
		}
	}
done:
	n := p.tree.Node(root)
	n.Range = p.nodeRange(start)
	p.tree.Replace(root, n)
	return root
}

func (p *parser) parsePragma(parent ast.NodeID) {
	start := p.cur()
	p.advance() // "pragma"
	var name string
	if p.cur().kind == tokIdent {
		name = p.advance().text // "solidity" or an experimental pragma name
	}
	var version string
	for !p.peekIs(";") && !p.atEOF() {
		version += p.advance().text + " "
	}
	p.expect(";")
	p.tree.AddNode(ast.Node{
		Kind:    ast.KindPragmaDirective,
		SubKind: name,
		Value:   trimSpace(version),
		Range:   p.nodeRange(start),
	}, parent)
}

func trimSpace(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

func (p *parser) parseImport(parent ast.NodeID) {
	start := p.cur()
	p.advance() // "import"
	var path string
	if p.cur().kind == tokString {
		path = p.advance().text
	} else {
		// import {A, B} from "x"; or import * as X from "x";
		p.recoverTo(";")
		p.tree.AddNode(ast.Node{Kind: ast.KindImportDirective, Range: p.nodeRange(start)}, parent)
		return
	}
	for !p.peekIs(";") && !p.atEOF() {
		p.advance()
	}
	p.expect(";")
	p.tree.AddNode(ast.Node{Kind: ast.KindImportDirective, Value: path, Range: p.nodeRange(start)}, parent)
}

func (p *parser) parseContract(parent ast.NodeID) {
	start := p.cur()
	kind := p.advance().text // contract|interface|library
	var name string
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	// skip inheritance list / "is A, B(args)"
	if p.peekIs("is") {
		p.advance()
		for !p.peekIs("{") && !p.atEOF() {
			p.advance()
		}
	}
	contract := p.tree.AddNode(ast.Node{Kind: ast.KindContractDefinition, SubKind: kind, Name: name}, parent)
	if _, ok := p.expect("{"); !ok {
		p.recoverTo("}")
		p.finish(contract, start)
		return
	}
	for !p.peekIs("}") && !p.atEOF() {
		p.parseContractMember(contract)
	}
	p.expect("}")
	p.finish(contract, start)
}

func (p *parser) finish(id ast.NodeID, start token) {
	n := p.tree.Node(id)
	n.Range = p.nodeRange(start)
	p.tree.Replace(id, n)
}

func (p *parser) parseContractMember(contract ast.NodeID) {
	switch {
	case p.peekIs("function") || p.peekIs("constructor") || p.peekIs("fallback") || p.peekIs("receive"):
		p.parseFunction(contract)
	case p.peekIs("modifier"):
		p.parseModifier(contract)
	case p.peekIs("event"):
		p.parseEvent(contract)
	case p.peekIs("struct"):
		p.parseStruct(contract)
	case p.peekIs("enum"):
		p.parseEnum(contract)
	case p.peekIs("using"):
		p.parseUsingFor(contract)
	default:
		p.parseStateVariable(contract)
	}
}

func (p *parser) parseFunction(contract ast.NodeID) {
	start := p.cur()
	kindTok := p.advance().text // function|constructor|fallback|receive
	var name string
	if kindTok == "function" && p.cur().kind == tokIdent {
		name = p.advance().text
	}
	fn := p.tree.AddNode(ast.Node{Kind: ast.KindFunctionDefinition, SubKind: kindTok, Name: name}, contract)

	p.parseParameterList(fn, "params")

	// modifiers/visibility/mutability/returns, in any order, until "{" or ";"
	for {
		switch {
		case p.peekIs("returns"):
			p.advance()
			p.parseParameterList(fn, "returns")
		case p.peekIs("{") || p.peekIs(";"):
			goto body
		case p.atEOF():
			goto body
		default:
			p.advance() // visibility/mutability/modifier-call keyword or identifier
		}
	}
body:
	if p.peekIs("{") {
		block := p.parseBlock()
		p.reparent(block, fn)
	} else {
		p.expect(";")
	}
	p.finish(fn, start)
}

// reparent fixes up a node built with a temporary parent (blocks are
// parsed standalone so parseBlock can be reused for if/else bodies) to
// its real parent once that's known.
func (p *parser) reparent(id, newParent ast.NodeID) {
	p.tree.Reparent(id, newParent)
}

func (p *parser) parseParameterList(owner ast.NodeID, role string) {
	start := p.cur()
	if _, ok := p.expect("("); !ok {
		return
	}
	list := p.tree.AddNode(ast.Node{Kind: ast.KindParameterList, SubKind: role}, owner)
	for !p.peekIs(")") && !p.atEOF() {
		pstart := p.cur()
		// type (possibly multi-token, e.g. "mapping(uint => uint)") then optional
		// data-location keyword then optional name.
		var typeText string
		depth := 0
		malformed := false
		for !p.atEOF() {
			if depth == 0 && (p.peekIs(",") || p.peekIs(")")) {
				break
			}
			if depth == 0 && (p.peekIs("{") || p.peekIs("}") || p.peekIs(";")) {
				// A brace or semicolon at depth 0 means the ")" this list
				// needed was never there; bail instead of consuming the
				// rest of the file looking for one.
				p.fail(fmt.Sprintf("unexpected %q in parameter list", p.cur().text))
				malformed = true
				break
			}
			if p.peekIs("(") {
				depth++
			}
			if p.peekIs(")") {
				depth--
			}
			typeText += p.advance().text + " "
		}
		if malformed {
			n := p.tree.Node(list)
			n.Range = p.nodeRange(start)
			p.tree.Replace(list, n)
			return
		}
		fields := splitLast(trimSpace(typeText))
		p.tree.AddNode(ast.Node{Kind: ast.KindParameter, Name: fields.name, Value: fields.typ, Range: p.nodeRange(pstart)}, list)
		if p.peekIs(",") {
			p.advance()
		}
	}
	p.expect(")")
	n := p.tree.Node(list)
	n.Range = p.nodeRange(start)
	p.tree.Replace(list, n)
}

type splitFields struct{ typ, name string }

// splitLast heuristically splits "uint256 memory x" into type="uint256
// memory" / name="x": the last identifier is the parameter name unless
// it's a data-location keyword, which leaves the parameter unnamed (as
// in an interface declaration).
func splitLast(s string) splitFields {
	if s == "" {
		return splitFields{}
	}
	var last, rest string
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			last = s[i+1:]
			rest = trimSpace(s[:i])
			break
		}
	}
	if last == "" {
		return splitFields{typ: s}
	}
	if keywords[last] {
		return splitFields{typ: s}
	}
	return splitFields{typ: rest, name: last}
}

func (p *parser) parseModifier(contract ast.NodeID) {
	start := p.cur()
	p.advance() // "modifier"
	var name string
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	mod := p.tree.AddNode(ast.Node{Kind: ast.KindModifierDefinition, Name: name}, contract)
	if p.peekIs("(") {
		p.parseParameterList(mod, "params")
	}
	for !p.peekIs("{") && !p.peekIs(";") && !p.atEOF() {
		p.advance()
	}
	if p.peekIs("{") {
		block := p.parseBlock()
		p.reparent(block, mod)
	} else {
		p.expect(";")
	}
	p.finish(mod, start)
}

func (p *parser) parseEvent(contract ast.NodeID) {
	start := p.cur()
	p.advance() // "event"
	var name string
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	ev := p.tree.AddNode(ast.Node{Kind: ast.KindEventDefinition, Name: name}, contract)
	if p.peekIs("(") {
		p.parseParameterList(ev, "params")
	}
	if p.peekIs("anonymous") {
		p.advance()
	}
	p.expect(";")
	p.finish(ev, start)
}

func (p *parser) parseStruct(contract ast.NodeID) {
	start := p.cur()
	p.advance() // "struct"
	var name string
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	st := p.tree.AddNode(ast.Node{Kind: ast.KindStructDefinition, Name: name}, contract)
	p.recoverTo("}")
	p.finish(st, start)
}

func (p *parser) parseEnum(contract ast.NodeID) {
	start := p.cur()
	p.advance() // "enum"
	var name string
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	en := p.tree.AddNode(ast.Node{Kind: ast.KindEnumDefinition, Name: name}, contract)
	p.recoverTo("}")
	p.finish(en, start)
}

func (p *parser) parseUsingFor(contract ast.NodeID) {
	start := p.cur()
	p.advance() // "using"
	var libName string
	if p.cur().kind == tokIdent {
		libName = p.advance().text
	}
	if p.peekIs("for") {
		p.advance()
	}
	var target string
	for !p.peekIs(";") && !p.atEOF() {
		target += p.advance().text
	}
	p.expect(";")
	p.tree.AddNode(ast.Node{Kind: ast.KindUsingForDirective, Name: libName, Value: target}, contract)
	_ = start
}

func (p *parser) parseStateVariable(contract ast.NodeID) {
	start := p.cur()
	var typ string
	depth := 0
	for !p.atEOF() {
		if depth == 0 && (p.peekIs(";") || p.peekIs("=")) {
			break
		}
		if p.peekIs("(") {
			depth++
		}
		if p.peekIs(")") {
			depth--
		}
		typ += p.advance().text + " "
	}
	fields := splitLast(trimSpace(typ))
	decl := p.tree.AddNode(ast.Node{Kind: ast.KindStateVariableDeclaration, Name: fields.name, Value: fields.typ}, contract)
	if p.peekIs("=") {
		p.advance()
		p.parseExpression(decl)
	}
	p.expect(";")
	p.finish(decl, start)
}

// --- statements ---

func (p *parser) parseBlock() ast.NodeID {
	start := p.cur()
	block := p.tree.AddNode(ast.Node{Kind: ast.KindBlock}, ast.NoNode)
	p.expect("{")
	for !p.peekIs("}") && !p.atEOF() {
		p.parseStatement(block)
	}
	p.expect("}")
	p.finish(block, start)
	return block
}

func (p *parser) parseStatement(parent ast.NodeID) {
	switch {
	case p.peekIs("{"):
		block := p.parseBlock()
		p.reparent(block, parent)
	case p.peekIs("return"):
		p.parseReturn(parent)
	case p.peekIs("if"):
		p.parseIf(parent)
	case p.looksLikeVarDecl():
		p.parseVarDecl(parent)
	default:
		p.parseExpressionStatement(parent)
	}
}

func (p *parser) parseReturn(parent ast.NodeID) {
	start := p.cur()
	p.advance() // "return"
	ret := p.tree.AddNode(ast.Node{Kind: ast.KindReturnStatement}, parent)
	if !p.peekIs(";") {
		p.parseExpression(ret)
	}
	p.expect(";")
	p.finish(ret, start)
}

func (p *parser) parseIf(parent ast.NodeID) {
	start := p.cur()
	p.advance() // "if"
	ifNode := p.tree.AddNode(ast.Node{Kind: ast.KindIfStatement}, parent)
	p.expect("(")
	p.parseExpression(ifNode)
	p.expect(")")
	p.parseStatement(ifNode)
	if p.peekIs("else") {
		p.advance()
		p.parseStatement(ifNode)
	}
	p.finish(ifNode, start)
}

// looksLikeVarDecl is a bounded lookahead for "Type [location] name ="/";"
// vs. a bare expression statement like "a = b;" or "f();". It scans
// forward without consuming, stopping at the statement terminator.
func (p *parser) looksLikeVarDecl() bool {
	if p.cur().kind != tokIdent || keywords[p.cur().text] {
		return false
	}
	i := p.pos
	depth := 0
	sawSecondIdent := false
	for i < len(p.toks) {
		t := p.toks[i]
		if t.kind == tokPunct && t.text == "(" {
			depth++
		}
		if t.kind == tokPunct && t.text == ")" {
			if depth == 0 {
				return false
			}
			depth--
		}
		if depth == 0 && t.kind == tokPunct && (t.text == ";" || t.text == "=") {
			return sawSecondIdent
		}
		if depth == 0 && t.kind == tokPunct && (t.text == "." || t.text == "," || t.text == "[") {
			return false
		}
		if depth == 0 && i > p.pos && t.kind == tokIdent && !keywords[t.text] {
			sawSecondIdent = true
		}
		if t.kind == tokEOF {
			return false
		}
		i++
	}
	return false
}

func (p *parser) parseVarDecl(parent ast.NodeID) {
	start := p.cur()
	var typ string
	for p.cur().kind == tokIdent || p.peekIs("[") || p.peekIs("]") {
		if p.peekIs("=") {
			break
		}
		next := p.toks[p.pos+1]
		if next.kind == tokPunct && (next.text == "=" || next.text == ";") && p.cur().kind == tokIdent {
			break
		}
		typ += p.advance().text + " "
	}
	var name string
	if p.cur().kind == tokIdent {
		name = p.advance().text
	}
	decl := p.tree.AddNode(ast.Node{Kind: ast.KindVariableDeclarationStatement, Name: name, Value: trimSpace(typ)}, parent)
	if p.peekIs("=") {
		p.advance()
		p.parseExpression(decl)
	}
	p.expect(";")
	p.finish(decl, start)
}

func (p *parser) parseExpressionStatement(parent ast.NodeID) {
	start := p.cur()
	stmt := p.tree.AddNode(ast.Node{Kind: ast.KindExpressionStatement}, parent)
	p.parseExpression(stmt)
	p.expect(";")
	p.finish(stmt, start)
}

// --- expressions, precedence-climbing ---

// precLevels lists binary operators from lowest to highest precedence.
// Each level is tried left-to-right so "a + b * c" groups as "a + (b*c)".
var precLevels = [][]string{
	{"="},
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) parseExpression(parent ast.NodeID) ast.NodeID {
	return p.parseBinary(parent, 0)
}

func (p *parser) parseBinary(parent ast.NodeID, level int) ast.NodeID {
	if level >= len(precLevels) {
		return p.parseUnary(parent)
	}
	start := p.cur()
	left := p.parseBinary(parent, level+1)
	for {
		matched := ""
		for _, op := range precLevels[level] {
			if p.peekIs(op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return left
		}
		p.advance()
		kind := ast.KindBinaryOperation
		if matched == "=" {
			kind = ast.KindAssignment
		}
		bin := p.tree.AddNode(ast.Node{Kind: kind, Operator: matched}, parent)
		p.reparent(left, bin)
		p.parseBinary(bin, level+1)
		p.finish(bin, start)
		left = bin
	}
}

func (p *parser) parseUnary(parent ast.NodeID) ast.NodeID {
	start := p.cur()
	if p.peekIs("!") || p.peekIs("-") || p.peekIs("++") || p.peekIs("--") || p.peekIs("~") {
		op := p.advance().text
		un := p.tree.AddNode(ast.Node{Kind: ast.KindUnaryOperation, Operator: op}, parent)
		p.parseUnary(un)
		p.finish(un, start)
		return un
	}
	return p.parsePostfix(parent)
}

func (p *parser) parsePostfix(parent ast.NodeID) ast.NodeID {
	start := p.cur()
	n := p.parsePrimary(parent)
	for {
		switch {
		case p.peekIs("."):
			p.advance()
			var member string
			if p.cur().kind == tokIdent {
				member = p.advance().text
			}
			access := p.tree.AddNode(ast.Node{Kind: ast.KindMemberAccess, Name: member}, parent)
			p.reparent(n, access)
			p.finish(access, start)
			n = access
		case p.peekIs("("):
			p.advance()
			call := p.tree.AddNode(ast.Node{Kind: ast.KindFunctionCall}, parent)
			p.reparent(n, call)
			for !p.peekIs(")") && !p.atEOF() {
				p.parseExpression(call)
				if p.peekIs(",") {
					p.advance()
				}
			}
			p.expect(")")
			p.finish(call, start)
			n = call
		case p.peekIs("["):
			p.advance()
			idx := p.tree.AddNode(ast.Node{Kind: ast.KindIndexAccess}, parent)
			p.reparent(n, idx)
			if !p.peekIs("]") {
				p.parseExpression(idx)
			}
			p.expect("]")
			p.finish(idx, start)
			n = idx
		default:
			return n
		}
	}
}

func (p *parser) parsePrimary(parent ast.NodeID) ast.NodeID {
	start := p.cur()
	switch {
	case p.peekIs("("):
		p.advance()
		n := p.parseExpression(parent)
		p.expect(")")
		return n
	case p.cur().kind == tokNumber:
		tok := p.advance()
		return p.tree.AddNode(ast.Node{Kind: ast.KindLiteral, SubKind: "number", Value: tok.text, Range: p.nodeRange(start)}, parent)
	case p.cur().kind == tokString:
		tok := p.advance()
		return p.tree.AddNode(ast.Node{Kind: ast.KindLiteral, SubKind: "string", Value: tok.text, Range: p.nodeRange(start)}, parent)
	case p.peekIs("true") || p.peekIs("false"):
		tok := p.advance()
		return p.tree.AddNode(ast.Node{Kind: ast.KindLiteral, SubKind: "bool", Value: tok.text, Range: p.nodeRange(start)}, parent)
	case p.cur().kind == tokIdent:
		tok := p.advance()
		return p.tree.AddNode(ast.Node{Kind: ast.KindIdentifier, Name: tok.text, Range: p.nodeRange(start)}, parent)
	default:
		p.fail(fmt.Sprintf("unexpected token %q in expression", p.cur().text))
		p.advance()
		return p.tree.AddNode(ast.Node{Kind: ast.KindLiteral, Range: p.nodeRange(start)}, parent)
	}
}

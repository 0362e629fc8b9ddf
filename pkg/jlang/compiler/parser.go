// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	"slices"
	"strconv"

	"github.com/consensys/go-jlang/pkg/jlang/ast"
	"github.com/consensys/go-jlang/pkg/util/source"
	"github.com/consensys/go-jlang/pkg/util/source/lex"
)

// ParsedFile captures a source file which has been successfully parsed, but
// not yet lowered.  As such, it is possible that lowering subsequently fails,
// for example due to a reference to an unknown function.
type ParsedFile struct {
	// Declarations making up this file, in source order.
	Declarations []ast.Declaration
	// Mapping of AST nodes back to the source file.
	SourceMap source.Map[ast.Node]
}

// Parse accepts a given source file and parses it into a sequence of zero or
// more top-level declarations, along with any syntax errors arising.
func Parse(srcfile *source.File) (ParsedFile, []source.SyntaxError) {
	parser := NewParser(srcfile)
	// Parse declarations
	return parser.Parse()
}

// BINOPS captures the supported binary operators along with their precedence
// (i.e. binding power), where operators of higher precedence bind more
// tightly.
var BINOPS = map[uint]int{
	LESS_THAN: 10,
	ADD:       20,
	SUB:       20,
	MUL:       40,
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for jlang source files.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[ast.Node]
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.  Observe that,
// since lexing never fails, the source file is tokenised at this point.
func NewParser(srcfile *source.File) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[ast.Node](*srcfile)
	// Convert source file into tokens
	tokens := Lex(*srcfile)
	//
	return &Parser{srcfile, tokens, srcmap, 0}
}

// Parse the given source file into a sequence of zero or more declarations
// and/or some number of syntax errors.  Parsing of each top-level declaration
// is attempted independently: when one fails, the parser skips past the
// offending token and reattempts on the following token.  Thus, a failure in
// one declaration does not prevent subsequent declarations from being parsed.
func (p *Parser) Parse() (ParsedFile, []source.SyntaxError) {
	var (
		file   ParsedFile
		errors []source.SyntaxError
		decl   ast.Declaration
		errs   []source.SyntaxError
	)
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		// Determine type of declaration
		switch p.lookahead().Kind {
		case SEMICOLON:
			// Top-level semicolons are (optional) separators
			p.match(SEMICOLON)
			continue
		case KEYWORD_DEF:
			decl, errs = p.ParseDefinition()
		case KEYWORD_EXTERN:
			decl, errs = p.ParseExtern()
		default:
			decl, errs = p.ParseTopLevelExpr()
		}
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
			// Skip token for error recovery
			p.resync()
		} else {
			file.Declarations = append(file.Declarations, decl)
		}
	}
	// Copy over source map
	file.SourceMap = *p.srcmap
	//
	return file, errors
}

// ParseDefinition parses a function definition.  This is the keyword "def",
// followed by a prototype, followed by exactly one expression constituting
// the function body.
func (p *Parser) ParseDefinition() (*ast.Function, []source.SyntaxError) {
	var (
		start = p.index
		proto *ast.Prototype
		body  ast.Expr
		errs  []source.SyntaxError
	)
	// Parse "def" keyword
	if _, errs = p.expect(KEYWORD_DEF); len(errs) > 0 {
		return nil, errs
	}
	// Parse function prototype
	if proto, errs = p.parsePrototype(); len(errs) > 0 {
		return nil, errs
	}
	// Parse function body
	if body, errs = p.parseExpression(); len(errs) > 0 {
		return nil, errs
	}
	// Construct function
	fn := &ast.Function{Proto: proto, Body: body}
	//
	p.srcmap.Put(fn, p.spanOf(start, p.index-1))
	// Done
	return fn, nil
}

// ParseExtern parses an external declaration.  This is the keyword "extern"
// followed by a prototype only (i.e. no body).
func (p *Parser) ParseExtern() (*ast.Prototype, []source.SyntaxError) {
	// Parse "extern" keyword
	if _, errs := p.expect(KEYWORD_EXTERN); len(errs) > 0 {
		return nil, errs
	}
	// Parse prototype
	return p.parsePrototype()
}

// ParseTopLevelExpr parses a bare top-level expression, wrapping it inside an
// anonymous zero-parameter function definition.  This allows the lowering
// stage to treat every top-level construct uniformly as a function.
func (p *Parser) ParseTopLevelExpr() (*ast.Function, []source.SyntaxError) {
	var (
		start      = p.index
		body, errs = p.parseExpression()
	)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Wrap within anonymous function
	fn := &ast.Function{
		Proto: &ast.Prototype{Name: ast.AnonymousFunction},
		Body:  body,
	}
	//
	p.srcmap.Put(fn.Proto, p.spanOf(start, p.index-1))
	p.srcmap.Put(fn, p.spanOf(start, p.index-1))
	// Done
	return fn, nil
}

// parsePrototype parses a function signature.  This is the function name,
// followed by a parenthesised list of zero or more parameter names.  Observe
// that parameter names are whitespace (rather than comma) separated.
func (p *Parser) parsePrototype() (*ast.Prototype, []source.SyntaxError) {
	var (
		start  = p.index
		name   string
		params []string
	)
	// Parse function name
	if !p.follows(IDENTIFIER) {
		return nil, p.syntaxErrors(p.lookahead(), "expected function name in prototype")
	}
	//
	name = p.string(p.lookahead())
	p.match(IDENTIFIER)
	// Parse start of parameter list
	if !p.match(LBRACE) {
		return nil, p.syntaxErrors(p.lookahead(), "expected '(' in prototype")
	}
	// Parse parameter names
	for p.follows(IDENTIFIER) {
		params = append(params, p.string(p.lookahead()))
		p.match(IDENTIFIER)
	}
	// Parse end of parameter list
	if !p.match(RBRACE) {
		return nil, p.syntaxErrors(p.lookahead(), "expected ')' in prototype")
	}
	// Construct prototype
	proto := &ast.Prototype{Name: name, Params: params}
	//
	p.srcmap.Put(proto, p.spanOf(start, p.index-1))
	// Done
	return proto, nil
}

// parseExpression parses a (potentially binary) expression.  A single primary
// expression is parsed as the initial left-hand side, with any subsequent
// operator / primary pairs then being consumed by precedence climbing.
func (p *Parser) parseExpression() (ast.Expr, []source.SyntaxError) {
	lhs, errs := p.parsePrimary()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return p.parseBinOpRHS(0, lhs)
}

// parseBinOpRHS parses the (possibly empty) sequence of operator / primary
// pairs following an initial left-hand side.  Operators are consumed for as
// long as their precedence is at least the given minimum.  Whenever the
// operator following a candidate right-hand side binds more tightly, the
// remainder is first parsed recursively at an increased minimum.  This yields
// left association for operators of equal precedence.
func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Expr) (ast.Expr, []source.SyntaxError) {
	for {
		prec := p.precedence(p.lookahead())
		// Check for (sufficiently binding) binary operator.  Tokens which are
		// not binary operators never bind, hence they cleanly terminate the
		// expression.
		if prec < minPrec {
			return lhs, nil
		}
		// Consume operator
		op := p.binop(p.lookahead())
		p.match(p.lookahead().Kind)
		// Parse candidate right-hand side
		rhs, errs := p.parsePrimary()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		// If the following operator binds more tightly, then it takes our
		// candidate as its left-hand side.
		if prec < p.precedence(p.lookahead()) {
			if rhs, errs = p.parseBinOpRHS(prec+1, rhs); len(errs) > 0 {
				return nil, errs
			}
		}
		// Combine left- and right-hand sides
		binary := &ast.Binary{Op: op, Left: lhs, Right: rhs}
		//
		p.srcmap.Put(binary, p.spanOfNodes(lhs, rhs))
		//
		lhs = binary
	}
}

// parsePrimary parses an atomic expression.  This is either a numeric
// literal, a variable access, a function call or a parenthesised
// subexpression.
func (p *Parser) parsePrimary() (ast.Expr, []source.SyntaxError) {
	var lookahead = p.lookahead()
	//
	switch lookahead.Kind {
	case IDENTIFIER:
		return p.parseIdentifierExpr()
	case NUMBER:
		return p.parseNumber()
	case LBRACE:
		return p.parseParenExpr()
	default:
		return nil, p.syntaxErrors(lookahead, "unexpected token")
	}
}

// parseIdentifierExpr parses an expression beginning with an identifier.
// This is either a variable access or, when the identifier is followed by
// '(', a function call.
func (p *Parser) parseIdentifierExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start = p.index
		token = p.lookahead()
		name  = p.string(token)
		args  []ast.Expr
	)
	//
	p.match(IDENTIFIER)
	// Check for function call
	if !p.match(LBRACE) {
		// Simple variable access
		variable := &ast.Variable{Name: name}
		//
		p.srcmap.Put(variable, token.Span)
		//
		return variable, nil
	}
	// Parse call arguments
	if !p.follows(RBRACE) {
		for {
			arg, errs := p.parseExpression()
			//
			if len(errs) > 0 {
				return nil, errs
			}
			//
			args = append(args, arg)
			// Arguments continue until ')'
			if p.follows(RBRACE) {
				break
			} else if !p.match(COMMA) {
				return nil, p.syntaxErrors(p.lookahead(), "expected ')' or ',' in argument list")
			}
		}
	}
	// Advance past ")"
	p.match(RBRACE)
	// Construct call
	call := &ast.Call{Callee: name, Args: args}
	//
	p.srcmap.Put(call, p.spanOf(start, p.index-1))
	// Done
	return call, nil
}

// parseNumber parses a numeric literal.
func (p *Parser) parseNumber() (ast.Expr, []source.SyntaxError) {
	var token = p.lookahead()
	//
	p.match(NUMBER)
	// Construct literal
	number := &ast.Number{Value: p.float(token)}
	//
	p.srcmap.Put(number, token.Span)
	//
	return number, nil
}

// parseParenExpr parses a parenthesised subexpression.  No separate node is
// created, hence parentheses are invisible in the resulting tree.
func (p *Parser) parseParenExpr() (ast.Expr, []source.SyntaxError) {
	// Advance past "("
	p.match(LBRACE)
	//
	expr, errs := p.parseExpression()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Match closing brace
	if !p.match(RBRACE) {
		return nil, p.syntaxErrors(p.lookahead(), "expected ')'")
	}
	// Don't add to source map, since it will already have been added.
	return expr, nil
}

// precedence determines the binding power of a given token, where tokens
// which are not binary operators are assigned a negative precedence (hence,
// they never bind).
func (p *Parser) precedence(token lex.Token) int {
	if prec, ok := BINOPS[token.Kind]; ok {
		return prec
	}
	//
	return -1
}

// binop maps an operator token onto its AST operator.
func (p *Parser) binop(token lex.Token) ast.Op {
	switch token.Kind {
	case ADD:
		return ast.ADD
	case SUB:
		return ast.SUB
	case MUL:
		return ast.MUL
	case LESS_THAN:
		return ast.LT
	default:
		panic("unreachable")
	}
}

// float converts the text of a numeric token into a double precision value.
// Conversion is best effort: the longest prefix of the text which parses as a
// float determines the value, with wholly malformed text (e.g. "..")
// degrading to zero.  This matches the behaviour of strtod, with which such
// literals are traditionally parsed.
func (p *Parser) float(token lex.Token) float64 {
	str := p.string(token)
	// Find longest parseable prefix
	for i := len(str); i > 0; i-- {
		if val, err := strconv.ParseFloat(str[:i], 64); err == nil {
			return val
		}
	}
	// Wholly malformed
	return 0
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	start, end := token.Span.Start(), token.Span.End()
	return string(p.srcfile.Contents()[start:end])
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

// Resync advances the parser past the token on which a parse failure arose,
// such that parsing can be reattempted starting at the following token.
func (p *Parser) resync() {
	if p.lookahead().Kind != END_OF {
		p.index++
	}
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	//
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

// spanOfNodes returns the span covering two (already mapped) nodes.
func (p *Parser) spanOfNodes(first, last ast.Node) source.Span {
	var (
		firstSpan = p.srcmap.Get(first)
		lastSpan  = p.srcmap.Get(last)
	)
	//
	return source.NewSpan(firstSpan.Start(), lastSpan.End())
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}

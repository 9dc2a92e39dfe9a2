/*
Copyright (C) 2026  kilkeac contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package parser turns a token stream into an ast.Module via Pratt
// (precedence-climbing) parsing, accumulating diagnostics rather than
// stopping at the first error.
package parser

import (
	"fmt"
	"strconv"

	"github.com/launix-de/kilkeac/internal/ast"
	"github.com/launix-de/kilkeac/internal/diag"
	"github.com/launix-de/kilkeac/internal/lexer"
)

// bindingPower returns the (left, right) binding power of a binary operator
// lexeme, or ok=false if lexeme never binds as a binary operator.
func bindingPower(lexeme string) (lbp, rbp int, ok bool) {
	switch lexeme {
	case "+", "-":
		return 20, 21, true
	case "*", "/":
		return 30, 31, true
	case "==", ">", "<", ">=", "<=", "!=":
		return 10, 11, true
	case "++":
		return 40, 41, true
	case ":=":
		return 50, 51, true
	}
	return 0, 0, false
}

// Parser walks a fixed token slice with a single cursor. Parse is the only
// exported entry point; everything else is an implementation detail of the
// recursive-descent/Pratt algorithm.
type Parser struct {
	pos    int
	tokens []lexer.Token
	src    string
	path   string
}

// New returns a Parser over tokens, carrying src/path for diagnostics.
func New(tokens []lexer.Token, src, path string) *Parser {
	return &Parser{tokens: tokens, src: src, path: path}
}

// Parse runs parse_program: repeatedly parse a statement until the tokens
// are exhausted, recovering from an error that consumed no tokens by
// skipping one token and continuing.
func Parse(tokens []lexer.Token, src, path string) (ast.Module, diag.Set) {
	p := New(tokens, src, path)
	var stmts []ast.Node
	var errs diag.Set
	for p.get(0) != nil {
		start := p.pos
		n, err := p.parseStatement()
		if err != nil {
			errs = append(errs, err)
			if p.pos == start {
				p.pos++
			}
			continue
		}
		stmts = append(stmts, n)
	}
	return ast.Module{Nodes: stmts}, errs
}

func (p *Parser) get(offset int) *lexer.Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return nil
	}
	return &p.tokens[i]
}

// eof returns the span of the last token, used as the location for any
// diagnostic raised once input is exhausted.
func (p *Parser) eof() diag.Span {
	if len(p.tokens) == 0 {
		return diag.Span{}
	}
	return p.tokens[len(p.tokens)-1].Span
}

func (p *Parser) errUnexpectedEOF(detail string) *diag.Diagnostic {
	return diag.New(diag.UnexpectedEOF, detail, p.eof(), p.src, p.path)
}

func (p *Parser) errUnexpectedToken(tok lexer.Token, detail string) *diag.Diagnostic {
	return diag.New(diag.UnexpectedToken, detail, tok.Span, p.src, p.path)
}

func (p *Parser) errExpectedToken(tok *lexer.Token, want string) *diag.Diagnostic {
	if tok == nil {
		return diag.New(diag.UnexpectedEOF, fmt.Sprintf("unexpected end of input, expected %s", want), p.eof(), p.src, p.path)
	}
	return diag.New(diag.ExpectedToken, fmt.Sprintf("expected %s, found %q", want, tok.Lexeme), tok.Span, p.src, p.path)
}

// expect consumes the current token if it has kind k, else returns an
// ExpectedToken diagnostic without advancing.
func (p *Parser) expect(k lexer.Kind, want string) (lexer.Token, *diag.Diagnostic) {
	tok := p.get(0)
	if tok == nil || tok.Kind != k {
		return lexer.Token{}, p.errExpectedToken(tok, want)
	}
	p.pos++
	return *tok, nil
}

// parseStatement tries the speculative Mutation parse, then the speculative
// Declaration parse, then falls back to a plain expression. Either
// speculative form may be wrapped in Statement if a ';' follows.
func (p *Parser) parseStatement() (ast.Node, *diag.Diagnostic) {
	if n, ok := p.tryParseMutation(); ok {
		return p.maybeWrapStatement(n), nil
	}
	if n, ok, err := p.tryParseDeclaration(); ok {
		if err != nil {
			return ast.Node{}, err
		}
		return p.maybeWrapStatement(n), nil
	}

	n, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	return p.maybeWrapStatement(n), nil
}

func (p *Parser) maybeWrapStatement(n ast.Node) ast.Node {
	if tok := p.get(0); tok != nil && tok.Kind == lexer.Semicolon {
		p.pos++
		return ast.NewStatement(n, n.Span)
	}
	return n
}

// tryParseMutation speculatively parses "identifier '=' expression" on a
// saved cursor position. ok is false (not an error, just "try the next
// form") whenever the shape doesn't match; if the value expression after
// the '=' fails to parse, the cursor is restored and ok is false as well.
func (p *Parser) tryParseMutation() (ast.Node, bool) {
	start := p.pos
	nameTok := p.get(0)
	if nameTok == nil || nameTok.Kind != lexer.Identifier {
		return ast.Node{}, false
	}
	eqTok := p.get(1)
	if eqTok == nil || eqTok.Kind != lexer.Equals {
		return ast.Node{}, false
	}
	p.pos += 2
	value, err := p.parseExpression(0)
	if err != nil {
		p.pos = start
		return ast.Node{}, false
	}
	span := diag.Span{Line: nameTok.Span.Line, Column: nameTok.Span.Column, StartPos: nameTok.Span.StartPos, EndPos: value.Span.EndPos}
	return ast.NewMutation(ast.NamedSpan{Name: nameTok.Lexeme, Span: nameTok.Span}, value, span), true
}

// tryParseDeclaration speculatively parses "[mut] identifier [':' type]
// [':=' expression]". Per the two-token-lookahead disambiguation (identifier
// followed by ':' or ':=' or '=' vs. anything else), a bare identifier with
// neither a `mut` prefix nor a following ':'/':=' is not a declaration at
// all: it backs off to ok=false so nud's plain Identifier case (and the
// ordinary expression grammar around it, e.g. `x + 1`) handles it instead.
// A `mut` not followed by an identifier, or a `:' not followed by a type
// name, also backs off to ok=false. Otherwise a leading `mut` or a following
// `:' commits, so only those two prefixes may produce a value-less
// Declaration. The third return is non-nil only when a `:=' was consumed
// and the value expression after it fails to parse.
func (p *Parser) tryParseDeclaration() (ast.Node, bool, *diag.Diagnostic) {
	start := p.pos

	mutability := false
	if tok := p.get(0); tok != nil && tok.Kind == lexer.Keyword && tok.Lexeme == "mut" {
		mutability = true
		p.pos++
	}

	nameTok := p.get(0)
	if nameTok == nil || nameTok.Kind != lexer.Identifier {
		p.pos = start
		return ast.Node{}, false, nil
	}

	hasColon := false
	if tok := p.get(1); tok != nil && tok.Kind == lexer.Colon {
		hasColon = true
	}
	hasColonEquals := false
	if tok := p.get(1); tok != nil && tok.Kind == lexer.ColonEquals {
		hasColonEquals = true
	}
	if !mutability && !hasColon && !hasColonEquals {
		p.pos = start
		return ast.Node{}, false, nil
	}
	p.pos++
	declSpan := *nameTok

	var typ ast.TypeAnnotation
	if tok := p.get(0); tok != nil && tok.Kind == lexer.Colon {
		p.pos++
		vtype, err := p.expect(lexer.Identifier, "type name")
		if err != nil {
			p.pos = start
			return ast.Node{}, false, nil
		}
		typ = ast.TypeAnnotation{Type: ast.Determined(vtype.Lexeme), Span: vtype.Span, HasSpan: true}
	} else {
		typ = ast.TypeAnnotation{Type: ast.Inferred()}
	}

	nameSpan := ast.NamedSpan{Name: nameTok.Lexeme, Span: nameTok.Span}

	if tok := p.get(0); tok != nil && tok.Kind == lexer.ColonEquals {
		p.pos++
		value, err := p.parseExpression(0)
		if err != nil {
			return ast.Node{}, true, err
		}
		n := ast.NewDeclarationWithValue(typ, mutability, nameSpan, value, declSpan.Span)
		return n, true, nil
	}

	n := ast.NewDeclaration(typ, mutability, nameSpan, declSpan.Span)
	return n, true, nil
}

// parseExpression is the Pratt loop: nud, then repeatedly absorb a binary
// operator whose left binding power is >= minBP.
func (p *Parser) parseExpression(minBP int) (ast.Node, *diag.Diagnostic) {
	if p.get(0) == nil {
		return ast.Node{}, p.errUnexpectedEOF("unexpected end of input")
	}

	left, err := p.nud()
	if err != nil {
		return ast.Node{}, err
	}

	for {
		tok := p.get(0)
		if tok == nil {
			break
		}
		isOperator := tok.Kind == lexer.Operator || tok.Kind == lexer.ColonEquals
		if !isOperator {
			break
		}
		lbp, rbp, ok := bindingPower(tok.Lexeme)
		if !ok || lbp < minBP {
			break
		}
		opTok := *tok
		p.pos++
		right, err := p.parseExpression(rbp)
		if err != nil {
			return ast.Node{}, err
		}
		span := diag.Span{Line: left.Span.Line, Column: left.Span.Column, StartPos: left.Span.StartPos, EndPos: right.Span.EndPos}
		left = ast.NewBinOp(left, right, ast.OpRef{Symbol: opTok.Lexeme, Span: opTok.Span}, span)
	}

	return left, nil
}

// nud parses a prefix expression: literals, parens, unary operators,
// `if`, and blocks.
func (p *Parser) nud() (ast.Node, *diag.Diagnostic) {
	tok := p.get(0)
	if tok == nil {
		return ast.Node{}, p.errUnexpectedEOF("unexpected end of input, expected expression")
	}

	switch tok.Kind {
	case lexer.Int:
		p.pos++
		v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return ast.NewIntLit(v, tok.Span), nil
	case lexer.Float:
		p.pos++
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return ast.NewFloatLit(v, tok.Span), nil
	case lexer.String:
		p.pos++
		return ast.NewStringLit(tok.Lexeme, tok.Span), nil
	case lexer.Bool:
		p.pos++
		return ast.NewBoolLit(tok.Lexeme == "true", tok.Span), nil
	case lexer.Identifier:
		p.pos++
		return ast.NewIdentifier(tok.Lexeme, tok.Span), nil
	case lexer.LParen:
		p.pos++
		expr, err := p.parseExpression(0)
		if err != nil {
			return ast.Node{}, err
		}
		if _, err := p.expect(lexer.RParen, "')'"); err != nil {
			return ast.Node{}, err
		}
		return expr, nil
	case lexer.Operator:
		p.pos++
		operand, err := p.nud()
		if err != nil {
			return ast.Node{}, err
		}
		span := diag.Span{Line: tok.Span.Line, Column: tok.Span.Column, StartPos: tok.Span.StartPos, EndPos: operand.Span.EndPos}
		return ast.NewUnaOp(operand, ast.OpRef{Symbol: tok.Lexeme, Span: tok.Span}, span), nil
	case lexer.Keyword:
		if tok.Lexeme == "if" {
			return p.parseIf()
		}
		d := p.errUnexpectedToken(*tok, fmt.Sprintf("invalid keyword %q", tok.Lexeme))
		if tok.Lexeme == "else" {
			d = d.WithHelp("add an `if` clause before the `else` clause")
		}
		return ast.Node{}, d
	case lexer.LBrace:
		return p.parseBlock()
	default:
		return ast.Node{}, p.errUnexpectedToken(*tok, fmt.Sprintf("unexpected token %q", tok.Lexeme))
	}
}

// parseIf parses "if <cond> <then> [else <else>]"; then/else bodies may
// each be a block or a single statement.
func (p *Parser) parseIf() (ast.Node, *diag.Diagnostic) {
	ifTok := *p.get(0)
	p.pos++
	if p.get(0) == nil {
		return ast.Node{}, p.errUnexpectedEOF("expected expression, unexpected end of input")
	}

	cond, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	then, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	elseBody, err := p.parseElse()
	if err != nil {
		return ast.Node{}, err
	}

	span := diag.Span{Line: ifTok.Span.Line, Column: ifTok.Span.Column, StartPos: ifTok.Span.StartPos, EndPos: cond.Span.EndPos}
	return ast.NewIf(cond, then, elseBody, span), nil
}

// parseElse parses an optional "else <block-or-statement>", defaulting to
// an empty Block when no `else` keyword follows.
func (p *Parser) parseElse() (ast.Node, *diag.Diagnostic) {
	tok := p.get(0)
	if tok == nil {
		return ast.EmptyBlock(p.eof()), nil
	}
	if tok.Kind != lexer.Keyword || tok.Lexeme != "else" {
		return ast.EmptyBlock(tok.Span), nil
	}
	p.pos++

	next := p.get(0)
	if next == nil {
		return ast.Node{}, p.errUnexpectedEOF("expected else body after `else`")
	}
	if next.Kind == lexer.LBrace {
		return p.parseBlock()
	}
	span := next.Span
	stmt, err := p.parseStatement()
	if err != nil {
		return ast.Node{}, err
	}
	return ast.NewBlock([]ast.Node{stmt}, span), nil
}

// parseBlock parses "'{' statement* '}'", terminating gracefully on a
// per-statement error if the next token is '}'.
func (p *Parser) parseBlock() (ast.Node, *diag.Diagnostic) {
	p.pos++ // '{'
	var stmts []ast.Node
	span := p.eof()

	for {
		tok := p.get(0)
		if tok == nil {
			break
		}
		span = tok.Span
		if tok.Kind == lexer.RBrace {
			p.pos++
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			if next := p.get(0); next != nil && next.Kind == lexer.RBrace {
				p.pos++
				break
			}
			return ast.Node{}, err
		}
		stmts = append(stmts, stmt)
	}

	return ast.NewBlock(stmts, span), nil
}

// Package parser implements an LL(1) recursive-descent parser over the
// lexer's token stream: one function per grammar nonterminal, no
// backtracking, no speculative parsing.
package parser

import (
	"fmt"

	"github.com/sunholo/axiscore/internal/ast"
	axerrors "github.com/sunholo/axiscore/internal/errors"
	"github.com/sunholo/axiscore/internal/lexer"
)

// ParseError is a structural parser failure with a span.
type ParseError struct {
	Code    string // PAR001..PAR006, or LEX001..LEX003 for lexer failures
	Message string
	Pos     ast.Pos
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Message)
}

// Parser consumes a token stream and produces a *ast.File, accumulating
// structural errors instead of stopping at the first one: a bad
// declaration is skipped up to the next plausible declaration boundary so
// later, independent errors are still reported in the same pass.
type Parser struct {
	l   *lexer.Lexer
	file string

	curToken  lexer.Token
	peekToken lexer.Token

	errors []*ParseError
}

// New creates a Parser over l.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every accumulated error in document order.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			code := axerrors.LEX002
			if lexErr.Kind == "InvalidLiteral" {
				code = axerrors.LEX001
			} else if lexErr.Kind == "UnexpectedEOF" {
				code = axerrors.LEX003
			}
			p.errors = append(p.errors, &ParseError{
				Code: code, Message: lexErr.Msg,
				Pos: ast.Pos{File: lexErr.File, Line: lexErr.Line, Column: lexErr.Col},
			})
		}
		p.peekToken = lexer.NewToken(lexer.ILLEGAL, "", p.file, p.curToken.Line, p.curToken.Column)
		return
	}
	p.peekToken = tok
}

func (p *Parser) curPos() ast.Pos {
	return ast.Pos{File: p.curToken.File, Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) errorf(code string, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Code: code, Message: fmt.Sprintf(format, args...), Pos: p.curPos()})
}

// expect consumes curToken if it matches t, otherwise records an
// UnexpectedToken error and leaves the cursor in place.
func (p *Parser) expect(t lexer.TokenType, code string) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(code, "expected %s, found %s", t, p.curToken.Type)
	return false
}

// ParseFile parses a complete source file into *ast.File. Declarations
// that fail to parse are skipped up to the next `fn`/`enum` keyword (or
// EOF) so that independent declarations still get their own diagnostics.
func ParseFile(src []byte, file string) (*ast.File, []*ParseError) {
	norm := lexer.Normalize(src)
	l := lexer.New(norm, file)
	p := New(l, file)

	f := &ast.File{Path: file, Pos: ast.Pos{File: file, Line: 1, Column: 1}}
	for !p.curIs(lexer.EOF) {
		start := p.curToken
		decl := p.parseDecl()
		if decl != nil {
			f.Decls = append(f.Decls, decl)
		}
		if p.curToken == start && !p.curIs(lexer.EOF) {
			// Nothing was consumed (a malformed declaration); skip to the
			// next plausible boundary to avoid an infinite loop.
			p.skipToDeclBoundary()
		}
	}
	return f, p.errors
}

func (p *Parser) skipToDeclBoundary() {
	for !p.curIs(lexer.EOF) && !p.curIs(lexer.FN) && !p.curIs(lexer.ENUM) {
		p.nextToken()
	}
}

func (p *Parser) parseDecl() ast.Decl {
	switch p.curToken.Type {
	case lexer.FN:
		return p.parseFnDecl()
	case lexer.ENUM:
		return p.parseEnumDecl()
	default:
		p.errorf(axerrors.PAR001, "expected `fn` or `enum`, found %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseFnDecl() ast.Decl {
	pos := p.curPos()
	p.nextToken() // 'fn'

	if !p.curIs(lexer.IDENT) {
		p.errorf(axerrors.PAR003, "expected function name, found %s", p.curToken.Type)
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	var params []ast.Param
	if p.curIs(lexer.UNIT) {
		p.nextToken()
	} else if p.expect(lexer.LPAREN, axerrors.PAR003) {
		if !p.curIs(lexer.RPAREN) {
			params = p.parseParams()
		}
		p.expect(lexer.RPAREN, axerrors.PAR003)
	} else {
		return nil
	}

	if !p.expect(lexer.ARROW, axerrors.PAR003) {
		return nil
	}
	if !p.curIs(lexer.IDENT) {
		p.errorf(axerrors.PAR003, "expected return type, found %s", p.curToken.Type)
		return nil
	}
	retType := p.curToken.Literal
	p.nextToken()

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.FnDecl{Name: name, Params: params, ReturnType: retType, Body: body, Pos: pos}
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	params = append(params, p.parseParam())
	for p.curIs(lexer.COMMA) {
		p.nextToken()
		params = append(params, p.parseParam())
	}
	return params
}

func (p *Parser) parseParam() ast.Param {
	pos := p.curPos()
	name := p.curToken.Literal
	if !p.expect(lexer.IDENT, axerrors.PAR003) {
		return ast.Param{Pos: pos}
	}
	p.expect(lexer.COLON, axerrors.PAR003)
	typ := p.parseType()
	return ast.Param{Name: name, Type: typ, Pos: pos}
}

func (p *Parser) parseType() string {
	if !p.curIs(lexer.IDENT) {
		p.errorf(axerrors.PAR003, "expected type name, found %s", p.curToken.Type)
		return ""
	}
	t := p.curToken.Literal
	p.nextToken()
	return t
}

func (p *Parser) parseEnumDecl() ast.Decl {
	pos := p.curPos()
	p.nextToken() // 'enum'

	if !p.curIs(lexer.IDENT) {
		p.errorf(axerrors.PAR004, "expected enum name, found %s", p.curToken.Type)
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.LBRACE, axerrors.PAR004) {
		return nil
	}

	var variants []ast.Variant
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		variants = append(variants, p.parseVariant())
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, axerrors.PAR004)

	return &ast.EnumDecl{Name: name, Variants: variants, Pos: pos}
}

func (p *Parser) parseVariant() ast.Variant {
	pos := p.curPos()
	name := p.curToken.Literal
	if !p.expect(lexer.IDENT, axerrors.PAR004) {
		return ast.Variant{Pos: pos}
	}

	var fields []ast.Field
	if p.curIs(lexer.UNIT) {
		p.nextToken()
	} else if p.curIs(lexer.LPAREN) {
		p.nextToken()
		fields = append(fields, p.parseField())
		for p.curIs(lexer.COMMA) {
			p.nextToken()
			fields = append(fields, p.parseField())
		}
		p.expect(lexer.RPAREN, axerrors.PAR004)
	}
	return ast.Variant{Name: name, Fields: fields, Pos: pos}
}

func (p *Parser) parseField() ast.Field {
	pos := p.curPos()
	name := p.curToken.Literal
	if !p.expect(lexer.IDENT, axerrors.PAR004) {
		return ast.Field{Pos: pos}
	}
	p.expect(lexer.COLON, axerrors.PAR004)
	typ := p.parseType()
	return ast.Field{Name: name, Type: typ, Pos: pos}
}

// parseExpr dispatches to the nonterminal selected by the current token;
// everything not covered by if/match/lambda/block falls through to apply.
func (p *Parser) parseExpr() ast.Expr {
	switch p.curToken.Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.MATCH:
		return p.parseMatch()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.PIPE:
		return p.parseLambda()
	default:
		return p.parseApply()
	}
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.curPos()
	p.nextToken() // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	if !p.expect(lexer.ELSE, axerrors.PAR001) {
		return nil
	}
	els := p.parseBlock()
	return &ast.If{Cond: cond, Then: then, Else: els, Pos: pos}
}

func (p *Parser) parseMatch() ast.Expr {
	pos := p.curPos()
	p.nextToken() // 'match'
	// A bare identifier directly followed by '{' is the scrutinee, not a
	// record literal: the '{' opens the arm list.
	var scrutinee ast.Expr
	if p.curIs(lexer.IDENT) && p.peekIs(lexer.LBRACE) {
		scrutinee = &ast.Var{Name: p.curToken.Literal, Pos: p.curPos()}
		p.nextToken()
	} else {
		scrutinee = p.parseApply()
	}
	if !p.expect(lexer.LBRACE, axerrors.PAR001) {
		return nil
	}

	var arms []ast.MatchArm
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		arms = append(arms, p.parseArm())
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, axerrors.PAR001)

	return &ast.Match{Scrutinee: scrutinee, Arms: arms, Pos: pos}
}

func (p *Parser) parseArm() ast.MatchArm {
	pos := p.curPos()
	pat := p.parsePattern()
	p.expect(lexer.FARROW, axerrors.PAR001)
	body := p.parseExpr()
	return ast.MatchArm{Pattern: pat, Body: body, Pos: pos}
}

func (p *Parser) parseLambda() ast.Expr {
	pos := p.curPos()
	p.nextToken() // '|'
	if !p.curIs(lexer.IDENT) {
		p.errorf(axerrors.PAR001, "expected lambda parameter, found %s", p.curToken.Type)
		return nil
	}
	param := p.curToken.Literal
	p.nextToken()
	if !p.expect(lexer.PIPE, axerrors.PAR001) {
		return nil
	}
	body := p.parseExpr()
	return &ast.Lambda{Param: param, Body: body, Pos: pos}
}

// parseApply parses `atom ( '(' args? ')' )*`. Since the grammar's only
// call form is a plain identifier callee, only an App built over a bare
// Var atom continues consuming trailing call suffixes.
func (p *Parser) parseApply() ast.Expr {
	pos := p.curPos()
	atom := p.parseAtom()
	for p.curIs(lexer.LPAREN) || p.curIs(lexer.UNIT) {
		v, ok := atom.(*ast.Var)
		if !ok {
			p.errorf(axerrors.PAR001, "call target must be a plain identifier")
			return atom
		}
		args := p.parseArgs()
		atom = &ast.App{Callee: v.Name, Args: args, Pos: pos}
	}
	return atom
}

func (p *Parser) parseArgs() []ast.Expr {
	if p.curIs(lexer.UNIT) {
		p.nextToken()
		return nil
	}
	p.expect(lexer.LPAREN, axerrors.PAR001)
	var args []ast.Expr
	if !p.curIs(lexer.RPAREN) {
		args = append(args, p.parseExpr())
		for p.curIs(lexer.COMMA) {
			p.nextToken()
			args = append(args, p.parseExpr())
		}
	}
	p.expect(lexer.RPAREN, axerrors.PAR001)
	return args
}

func (p *Parser) parseAtom() ast.Expr {
	pos := p.curPos()
	switch p.curToken.Type {
	case lexer.INT:
		v := parseIntLiteral(p.curToken.Literal)
		p.nextToken()
		return &ast.IntLit{Value: v, Pos: pos}
	case lexer.TRUE:
		p.nextToken()
		return &ast.BoolLit{Value: true, Pos: pos}
	case lexer.FALSE:
		p.nextToken()
		return &ast.BoolLit{Value: false, Pos: pos}
	case lexer.UNIT:
		p.nextToken()
		return &ast.UnitLit{Pos: pos}
	case lexer.PROJ:
		p.nextToken()
		p.expect(lexer.LPAREN, axerrors.PAR001)
		inner := p.parseExpr()
		p.expect(lexer.COMMA, axerrors.PAR001)
		if !p.curIs(lexer.INT) {
			p.errorf(axerrors.PAR001, "expected integer projection index, found %s", p.curToken.Type)
			return nil
		}
		idx := int(parseIntLiteral(p.curToken.Literal))
		p.nextToken()
		p.expect(lexer.RPAREN, axerrors.PAR001)
		return &ast.Proj{Expr: inner, Index: idx, Pos: pos}
	case lexer.LPAREN:
		p.nextToken()
		first := p.parseExpr()
		if p.curIs(lexer.COMMA) {
			elems := []ast.Expr{first}
			for p.curIs(lexer.COMMA) {
				p.nextToken()
				elems = append(elems, p.parseExpr())
			}
			p.expect(lexer.RPAREN, axerrors.PAR001)
			return &ast.Tuple{Elems: elems, Pos: pos}
		}
		p.expect(lexer.RPAREN, axerrors.PAR001)
		return first
	case lexer.IDENT:
		name := p.curToken.Literal
		p.nextToken()
		if p.curIs(lexer.LBRACE) {
			return p.parseRecordLiteral(name, pos)
		}
		return &ast.Var{Name: name, Pos: pos}
	default:
		p.errorf(axerrors.PAR001, "unexpected token %s in expression", p.curToken.Type)
		p.nextToken()
		return nil
	}
}

func (p *Parser) parseRecordLiteral(typeName string, pos ast.Pos) ast.Expr {
	p.nextToken() // '{'
	var fields []ast.RecordField
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		fpos := p.curPos()
		fname := p.curToken.Literal
		if !p.expect(lexer.IDENT, axerrors.PAR006) {
			break
		}
		p.expect(lexer.COLON, axerrors.PAR006)
		val := p.parseExpr()
		fields = append(fields, ast.RecordField{Name: fname, Value: val, Pos: fpos})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, axerrors.PAR006)
	return &ast.Record{TypeName: typeName, Fields: fields, Pos: pos}
}

// parseBlock parses `'{' (let ';')* expr '}'`, folding the let chain into
// ast.Block.LetBindings in source order.
func (p *Parser) parseBlock() *ast.Block {
	pos := p.curPos()
	if !p.expect(lexer.LBRACE, axerrors.PAR001) {
		return nil
	}

	var lets []ast.Let
	for p.curIs(lexer.LET) {
		lets = append(lets, p.parseLet())
		p.expect(lexer.SEMICOLON, axerrors.PAR001)
	}

	final := p.parseExpr()
	p.expect(lexer.RBRACE, axerrors.PAR001)

	return &ast.Block{LetBindings: lets, Final: final, Pos: pos}
}

func (p *Parser) parseLet() ast.Let {
	pos := p.curPos()
	p.nextToken() // 'let'
	name := p.curToken.Literal
	p.expect(lexer.IDENT, axerrors.PAR001)
	p.expect(lexer.ASSIGN, axerrors.PAR001)
	val := p.parseExpr()
	return ast.Let{Name: name, Value: val, Pos: pos}
}

func (p *Parser) parsePattern() ast.Pattern {
	pos := p.curPos()
	switch p.curToken.Type {
	case lexer.INT:
		v := parseIntLiteral(p.curToken.Literal)
		p.nextToken()
		return &ast.PInt{Value: v, Pos: pos}
	case lexer.TRUE:
		p.nextToken()
		return &ast.PBool{Value: true, Pos: pos}
	case lexer.FALSE:
		p.nextToken()
		return &ast.PBool{Value: false, Pos: pos}
	case lexer.UNIT:
		p.nextToken()
		return &ast.PUnit{Pos: pos}
	case lexer.LPAREN:
		p.nextToken()
		first := p.parsePattern()
		elems := []ast.Pattern{first}
		for p.curIs(lexer.COMMA) {
			p.nextToken()
			elems = append(elems, p.parsePattern())
		}
		p.expect(lexer.RPAREN, axerrors.PAR005)
		if len(elems) == 1 {
			return first
		}
		return &ast.PTuple{Elems: elems, Pos: pos}
	case lexer.IDENT:
		name := p.curToken.Literal
		p.nextToken()
		if p.curIs(lexer.UNIT) {
			p.nextToken()
			return &ast.PEnum{Name: name, Pos: pos}
		}
		if p.curIs(lexer.LPAREN) {
			p.nextToken()
			var inner []ast.Pattern
			inner = append(inner, p.parsePattern())
			for p.curIs(lexer.COMMA) {
				p.nextToken()
				inner = append(inner, p.parsePattern())
			}
			p.expect(lexer.RPAREN, axerrors.PAR005)
			return &ast.PEnum{Name: name, Inner: inner, Pos: pos}
		}
		return &ast.PVar{Name: name, Pos: pos}
	default:
		p.errorf(axerrors.PAR005, "unexpected token %s in pattern", p.curToken.Type)
		p.nextToken()
		return nil
	}
}

func parseIntLiteral(lit string) int64 {
	var v int64
	for _, r := range lit {
		v = v*10 + int64(r-'0')
	}
	return v
}

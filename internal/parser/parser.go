// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The zac Authors

// Package parser turns zac source text into a Program tree.
//
// The grammar is an ordered choice: at every expression position the
// alternatives are tried in a fixed order (comment, assignment, integer,
// while, if, function call, reference) and the first one that matches wins.
// Alternatives that fail rewind the scanner, so a function call is always
// attempted before the bare reference it starts with.
package parser

import (
	"fmt"
	"strings"

	"zaclang.dev/zac/internal/expr"
	"zaclang.dev/zac/internal/num"
	"zaclang.dev/zac/internal/scanner"
	"zaclang.dev/zac/internal/token"
)

// Parser holds the state of a single parse.
type Parser struct {
	s *scanner.Scanner

	// furthest failure seen so far, reported when the whole parse fails
	furthest token.Position
	expected []token.Construct

	// hard is set for errors no alternative can recover from
	hard *Error
}

// Parse parses a complete program.
func Parse(src string) (*expr.Program, error) {
	p := &Parser{s: scanner.New(src)}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*expr.Program, error) {
	start := p.s.Pos()
	p.s.SkipSpace()
	exprs := p.parseSequence()
	p.s.SkipSpace()

	if p.hard != nil {
		return nil, p.hard
	}
	if !p.s.EOF() {
		p.expect(token.EOF)
		return nil, p.failure()
	}
	return &expr.Program{Block: &expr.Block{Exprs: exprs, At: start}}, nil
}

// expect records that construct c was wanted at the current position.
func (p *Parser) expect(c token.Construct) {
	pos := p.s.Pos()
	switch {
	case pos.Offset > p.furthest.Offset:
		p.furthest = pos
		p.expected = []token.Construct{c}
	case pos.Offset == p.furthest.Offset:
		for _, e := range p.expected {
			if e == c {
				return
			}
		}
		p.expected = append(p.expected, c)
	}
}

func (p *Parser) failure() *Error {
	p.s.Reset(p.furthest)
	return &Error{
		Pos:      p.furthest,
		Expected: p.expected,
		Found:    p.s.Excerpt(20),
	}
}

func (p *Parser) hardError(pos token.Position, format string, args ...any) {
	if p.hard == nil {
		p.hard = &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
	}
}

// parseSequence parses zero or more expressions separated by whitespace.
func (p *Parser) parseSequence() []expr.Expr {
	first, ok := p.parseExpr()
	if !ok {
		return nil
	}
	exprs := []expr.Expr{first}
	for {
		mark := p.s.Pos()
		if p.s.SkipSpace() == 0 {
			p.expect(token.WHITESPACE)
			return exprs
		}
		e, ok := p.parseExpr()
		if !ok {
			p.s.Reset(mark)
			return exprs
		}
		exprs = append(exprs, e)
	}
}

// parseExpr tries each expression alternative in priority order.
func (p *Parser) parseExpr() (expr.Expr, bool) {
	if p.hard != nil {
		return nil, false
	}
	alternatives := []func() (expr.Expr, bool){
		p.parseComment,
		p.parseAssignment,
		p.parseInteger,
		p.parseWhile,
		p.parseIf,
		p.parseCall,
		p.parseRefExpr,
	}
	for _, alt := range alternatives {
		if e, ok := alt(); ok {
			return e, true
		}
		if p.hard != nil {
			return nil, false
		}
	}
	p.expect(token.EXPR)
	return nil, false
}

func (p *Parser) parseComment() (expr.Expr, bool) {
	start := p.s.Pos()
	if !p.s.Consume(token.CommentMarker) {
		return nil, false
	}
	p.s.SkipBlank()

	var name string
	if p.s.Peek() == token.RuneCommentName {
		mark := p.s.Pos()
		p.s.Next()
		ident, ok := p.s.ScanIdent()
		if ok && (p.s.AtLineEnd() || token.IsBlank(p.s.Peek())) {
			name = ident
			p.s.SkipBlank()
		} else {
			p.s.Reset(mark)
		}
	}

	var body commentBody
	body.first(p.s.RestOfLine())
	for {
		mark := p.s.Pos()
		if !p.s.ConsumeNewline() {
			break
		}
		p.s.SkipBlank()
		if !p.s.Consume(token.CommentMarker) {
			p.s.Reset(mark)
			break
		}
		p.s.SkipBlank()
		body.continuation(p.s.RestOfLine())
	}

	return &expr.Comment{Name: name, Body: body.String(), At: start}, true
}

// commentBody joins consecutive comment lines. Plain continuation lines
// extend the current paragraph; a line that repeats the marker starts a new
// paragraph.
type commentBody struct {
	sb        strings.Builder
	paragraph int
}

func (b *commentBody) first(text string) {
	b.sb.WriteString(text)
	b.paragraph = len(text)
}

func (b *commentBody) continuation(text string) {
	if rest, ok := strings.CutPrefix(text, token.CommentMarker); ok {
		rest = strings.TrimLeft(rest, " \t")
		b.sb.WriteString("\n\n")
		b.sb.WriteString(rest)
		b.paragraph = len(rest)
		return
	}
	if text == "" {
		return
	}
	if b.paragraph > 0 {
		b.sb.WriteByte(' ')
		b.paragraph++
	}
	b.sb.WriteString(text)
	b.paragraph += len(text)
}

func (b *commentBody) String() string { return b.sb.String() }

func (p *Parser) parseAssignment() (expr.Expr, bool) {
	start := p.s.Pos()
	if !p.s.Consume(token.KeywordLet) {
		return nil, false
	}
	if p.s.SkipSpace() == 0 {
		p.s.Reset(start)
		return nil, false
	}
	target, ok := p.parseRef()
	if !ok {
		p.expect(token.REF)
		p.s.Reset(start)
		return nil, false
	}
	p.s.SkipSpace()
	if !p.s.Consume("=") {
		p.expect(token.ASSIGN)
		p.s.Reset(start)
		return nil, false
	}
	p.s.SkipSpace()
	value, ok := p.parseExpr()
	if !ok {
		p.s.Reset(start)
		return nil, false
	}
	return &expr.Assignment{Target: target, Value: value, At: start}, true
}

func (p *Parser) parseInteger() (expr.Expr, bool) {
	start := p.s.Pos()
	digits := p.s.ScanDigits()
	if digits == "" {
		return nil, false
	}
	if len(digits) > 1 && digits[0] == '0' {
		p.hardError(start, ErrLeadingZero, digits)
		p.s.Reset(start)
		return nil, false
	}
	v, err := num.Parse(digits)
	if err != nil {
		p.hardError(start, ErrIntegerRange, digits)
		p.s.Reset(start)
		return nil, false
	}
	return &expr.IntLiteral{Value: v, At: start}, true
}

func (p *Parser) parseWhile() (expr.Expr, bool) {
	start := p.s.Pos()
	cond, body, ok := p.parseGuarded(token.KeywordWhile)
	if !ok {
		p.s.Reset(start)
		return nil, false
	}
	return &expr.While{Cond: cond, Body: body, At: start}, true
}

func (p *Parser) parseIf() (expr.Expr, bool) {
	start := p.s.Pos()
	cond, body, ok := p.parseGuarded(token.KeywordIf)
	if !ok {
		p.s.Reset(start)
		return nil, false
	}
	return &expr.If{Cond: cond, Body: body, At: start}, true
}

// parseGuarded parses `keyword (cond) { body }`, the shape shared by while and if.
func (p *Parser) parseGuarded(keyword string) (expr.Expr, *expr.Block, bool) {
	if !p.s.Consume(keyword) {
		return nil, nil, false
	}
	p.s.SkipBlank()
	if !p.s.Consume("(") {
		return nil, nil, false
	}
	p.s.SkipSpace()
	cond, ok := p.parseExpr()
	if !ok {
		return nil, nil, false
	}
	p.s.SkipSpace()
	if !p.s.Consume(")") {
		p.expect(token.RPAREN)
		return nil, nil, false
	}
	p.s.SkipSpace()
	if !p.s.Consume("{") {
		p.expect(token.LBRACE)
		return nil, nil, false
	}
	bodyStart := p.s.Pos()
	p.s.SkipSpace()
	exprs := p.parseSequence()
	p.s.SkipSpace()
	if !p.s.Consume("}") {
		p.expect(token.RBRACE)
		return nil, nil, false
	}
	return cond, &expr.Block{Exprs: exprs, At: bodyStart}, true
}

func (p *Parser) parseCall() (expr.Expr, bool) {
	start := p.s.Pos()
	name, ok := p.s.ScanIdent()
	if !ok {
		return nil, false
	}
	if !p.s.Consume("(") {
		p.s.Reset(start)
		return nil, false
	}
	target := &expr.Ref{Kind: expr.VarRef, Name: name, At: start}

	p.s.SkipSpace()
	var args []expr.Expr
	if p.s.Consume(")") {
		return &expr.FunctionCall{Target: target, Args: args, At: start}, true
	}
	for {
		arg, ok := p.parseExpr()
		if !ok {
			p.s.Reset(start)
			return nil, false
		}
		args = append(args, arg)
		p.s.SkipSpace()
		if p.s.Consume(",") {
			p.s.SkipSpace()
			continue
		}
		if p.s.Consume(")") {
			return &expr.FunctionCall{Target: target, Args: args, At: start}, true
		}
		p.expect(token.COMMA)
		p.expect(token.RPAREN)
		p.s.Reset(start)
		return nil, false
	}
}

func (p *Parser) parseRefExpr() (expr.Expr, bool) {
	ref, ok := p.parseRef()
	if !ok {
		return nil, false
	}
	return ref, true
}

// parseRef parses `#name` or `name`.
func (p *Parser) parseRef() (*expr.Ref, bool) {
	start := p.s.Pos()
	kind := expr.VarRef
	if p.s.Peek() == token.RuneCommentName {
		p.s.Next()
		kind = expr.CommentRef
	}
	name, ok := p.s.ScanIdent()
	if !ok {
		if kind == expr.CommentRef {
			p.expect(token.IDENT)
		}
		p.s.Reset(start)
		return nil, false
	}
	return &expr.Ref{Kind: kind, Name: name, At: start}, true
}

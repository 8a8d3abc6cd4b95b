// Package reassemble turns a program tree back into zac source text.
//
// The output is canonical rather than byte-for-byte: it re-parses to an
// equivalent program, and named comments are written with their live bodies
// so that mutations made during evaluation land in the source.
package reassemble

import (
	"bytes"
	"strings"

	"zaclang.dev/zac/internal/expr"
	"zaclang.dev/zac/internal/token"
)

const indentSize = 2

// Bodies supplies the current body of a named comment.
type Bodies interface {
	CommentBody(name string) (string, bool)
}

// Program renders p. Comment bodies are taken from bodies when it knows the
// name; a nil bodies renders every comment as parsed.
func Program(p *expr.Program, bodies Bodies) string {
	pr := &printer{bodies: bodies, atLineStart: true}
	if p != nil && p.Block != nil {
		pr.block(p.Block)
	}
	return pr.String()
}

type printer struct {
	bodies      Bodies
	output      bytes.Buffer
	depth       int
	atLineStart bool

	// lastComment is set while the most recent output is a comment line,
	// which would absorb a comment printed on the very next line.
	lastComment bool
}

func (p *printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *printer) write(s string) {
	if p.atLineStart && len(s) > 0 {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
	p.lastComment = false
}

func (p *printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) endLine() {
	if !p.atLineStart {
		p.writeln()
	}
}

func (p *printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *printer) indent() { p.depth++ }

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *printer) block(b *expr.Block) {
	for i, e := range b.Exprs {
		if i > 0 {
			p.endLine()
			if _, ok := e.(*expr.Comment); ok && p.lastComment {
				p.writeln()
			}
		}
		p.expr(e)
	}
}

func (p *printer) expr(e expr.Expr) {
	switch e := e.(type) {
	case *expr.Block:
		p.block(e)
	case *expr.Comment:
		p.comment(e)
	case *expr.Assignment:
		p.write(token.KeywordLet + " ")
		p.write(e.Target.String())
		p.write(" = ")
		p.expr(e.Value)
	case *expr.IntLiteral:
		p.write(e.Value.String())
	case *expr.Ref:
		p.write(e.String())
	case *expr.FunctionCall:
		p.write(e.Target.String())
		p.write("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.expr(arg)
		}
		p.write(")")
	case *expr.While:
		p.guarded(token.KeywordWhile, e.Cond, e.Body)
	case *expr.If:
		p.guarded(token.KeywordIf, e.Cond, e.Body)
	}
}

func (p *printer) guarded(keyword string, cond expr.Expr, body *expr.Block) {
	p.write(keyword + " (")
	p.expr(cond)
	p.write(") {")
	p.writeln()
	p.indent()
	p.block(body)
	p.dedent()
	p.endLine()
	p.write("}")
}

// comment writes every line of the comment and always ends the line, so a
// comment in argument or value position cannot swallow what follows it.
func (p *printer) comment(c *expr.Comment) {
	body := c.Body
	if c.Named() && p.bodies != nil {
		if live, ok := p.bodies.CommentBody(c.Name); ok {
			body = live
		}
	}

	for i, paragraph := range strings.Split(body, "\n\n") {
		for j, line := range strings.Split(paragraph, "\n") {
			prefix := token.CommentMarker
			switch {
			case i == 0 && j == 0 && c.Named():
				prefix += " " + string(token.RuneCommentName) + c.Name
			case i > 0 && j == 0:
				prefix += " " + token.CommentMarker
			}
			if i > 0 || j > 0 {
				p.endLine()
			} else if !c.Named() && strings.HasPrefix(line, string(token.RuneCommentName)) {
				// keep an anonymous body from reading as a name
				p.write(prefix)
				p.writeln()
			}
			if line == "" {
				p.write(prefix)
			} else {
				p.write(prefix + " " + line)
			}
		}
	}
	p.writeln()
	p.lastComment = true
}

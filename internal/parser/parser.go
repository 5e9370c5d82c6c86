// Package parser builds the syntax tree for one file.
//
// Grammar:
//
//	file    = item*
//	item    = "fn" ident "(" [ident ("," ident)*] ")" block
//	block   = "{" stmt* "}"
//	stmt    = "let" ident "=" expr ";"
//	        | "return" [expr] ";"
//	        | expr ";"
//	expr    = primary (("+"|"-"|"*"|"/") primary)*
//	primary = ident ["(" [expr ("," expr)*] ")"] | number | string | "(" expr ")"
package parser

import (
	"fmt"

	"reforge/internal/ast"
	"reforge/internal/diag"
	"reforge/internal/lexer"
	"reforge/internal/source"
	"reforge/internal/token"
)

type Parser struct {
	prog *ast.Program
	file *source.File
	bag  *diag.Bag
	toks []token.Token
	pos  int
}

// ParseFile lexes and parses one file into prog, returning the file root.
// Problems go into bag; the parser always produces a root.
func ParseFile(prog *ast.Program, file *source.File, bag *diag.Bag) ast.NodeID {
	toks := lexer.New(file, bag).Tokenize()
	p := &Parser{prog: prog, file: file, bag: bag, toks: toks}
	return p.parseFile()
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorHere(fmt.Sprintf("expected %q, found %q", k, p.cur().Kind))
	return p.cur()
}

func (p *Parser) errorHere(msg string) {
	p.bag.Add(diag.Diagnostic{
		Span:     p.cur().Span,
		Severity: diag.SevError,
		Message:  msg,
	})
}

func (p *Parser) parseFile() ast.NodeID {
	fileSpan := source.Span{File: p.file.ID, Start: 0, End: uint32(len(p.file.Content))}
	root := p.prog.New(ast.KindFile, fileSpan)
	p.prog.Get(root).Name = p.file.Path
	p.prog.AddRoot(root)

	for !p.at(token.EOF) {
		if p.at(token.KwFn) {
			p.prog.AppendChild(root, p.parseFn())
			continue
		}
		p.errorHere(fmt.Sprintf("expected item, found %q", p.cur().Kind))
		p.advance()
	}
	return root
}

func (p *Parser) parseFn() ast.NodeID {
	start := p.expect(token.KwFn).Span
	name := p.expect(token.Ident)

	fn := p.prog.New(ast.KindFn, start)
	p.prog.Get(fn).Name = name.Text

	p.expect(token.LParen)
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param := p.expect(token.Ident)
		id := p.prog.New(ast.KindParam, param.Span)
		p.prog.Get(id).Name = param.Text
		p.prog.AppendChild(fn, id)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RParen)

	p.prog.AppendChild(fn, p.parseBlock())

	n := p.prog.Get(fn)
	n.Span = n.Span.Cover(p.toks[p.pos-1].Span)
	return fn
}

func (p *Parser) parseBlock() ast.NodeID {
	start := p.expect(token.LBrace).Span
	block := p.prog.New(ast.KindBlock, start)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.prog.AppendChild(block, p.parseStmt())
	}
	end := p.expect(token.RBrace).Span
	n := p.prog.Get(block)
	n.Span = n.Span.Cover(end)
	return block
}

func (p *Parser) parseStmt() ast.NodeID {
	switch p.cur().Kind {
	case token.KwLet:
		start := p.advance().Span
		name := p.expect(token.Ident)
		stmt := p.prog.New(ast.KindLet, start)
		p.prog.Get(stmt).Name = name.Text
		p.expect(token.Assign)
		p.prog.AppendChild(stmt, p.parseExpr())
		end := p.expect(token.Semi).Span
		n := p.prog.Get(stmt)
		n.Span = n.Span.Cover(end)
		return stmt

	case token.KwReturn:
		start := p.advance().Span
		stmt := p.prog.New(ast.KindReturn, start)
		if !p.at(token.Semi) {
			p.prog.AppendChild(stmt, p.parseExpr())
		}
		end := p.expect(token.Semi).Span
		n := p.prog.Get(stmt)
		n.Span = n.Span.Cover(end)
		return stmt

	default:
		expr := p.parseExpr()
		stmt := p.prog.New(ast.KindExprStmt, p.prog.Get(expr).Span)
		p.prog.AppendChild(stmt, expr)
		end := p.expect(token.Semi).Span
		n := p.prog.Get(stmt)
		n.Span = n.Span.Cover(end)
		return stmt
	}
}

func isBinOp(k token.Kind) bool {
	return k == token.Plus || k == token.Minus || k == token.Star || k == token.Slash
}

func (p *Parser) parseExpr() ast.NodeID {
	lhs := p.parsePrimary()
	for isBinOp(p.cur().Kind) {
		op := p.advance()
		rhs := p.parsePrimary()
		bin := p.prog.New(ast.KindBinary, p.prog.Get(lhs).Span.Cover(p.prog.Get(rhs).Span))
		p.prog.Get(bin).Text = op.Text
		p.prog.AppendChild(bin, lhs)
		p.prog.AppendChild(bin, rhs)
		lhs = bin
	}
	return lhs
}

func (p *Parser) parsePrimary() ast.NodeID {
	switch p.cur().Kind {
	case token.Ident:
		name := p.advance()
		if p.at(token.LParen) {
			call := p.prog.New(ast.KindCall, name.Span)
			callee := p.prog.New(ast.KindIdent, name.Span)
			p.prog.Get(callee).Name = name.Text
			p.prog.AppendChild(call, callee)
			p.advance() // (
			for !p.at(token.RParen) && !p.at(token.EOF) {
				p.prog.AppendChild(call, p.parseExpr())
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			end := p.expect(token.RParen).Span
			n := p.prog.Get(call)
			n.Span = n.Span.Cover(end)
			return call
		}
		id := p.prog.New(ast.KindIdent, name.Span)
		p.prog.Get(id).Name = name.Text
		return id

	case token.Number, token.String:
		t := p.advance()
		id := p.prog.New(ast.KindLit, t.Span)
		p.prog.Get(id).Text = t.Text
		return id

	case token.LParen:
		p.advance()
		expr := p.parseExpr()
		p.expect(token.RParen)
		return expr

	default:
		p.errorHere(fmt.Sprintf("expected expression, found %q", p.cur().Kind))
		// Placeholder literal keeps the tree well-formed; synthetic span.
		id := p.prog.New(ast.KindLit, source.Span{File: p.file.ID})
		p.prog.Get(id).Text = "0"
		p.advance()
		return id
	}
}

// Package lexer turns file content into a token stream.
package lexer

import (
	"fmt"

	"reforge/internal/diag"
	"reforge/internal/source"
	"reforge/internal/token"
)

// Lexer scans one file.
type Lexer struct {
	file *source.File
	bag  *diag.Bag
	src  []byte
	off  uint32
}

// New creates a lexer over the file, reporting problems into bag.
func New(file *source.File, bag *diag.Bag) *Lexer {
	return &Lexer{file: file, bag: bag, src: file.Content}
}

// Tokenize scans the whole file. The returned slice always ends with EOF.
func (lx *Lexer) Tokenize() []token.Token {
	toks := make([]token.Token, 0, len(lx.src)/4)
	for {
		t := lx.next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

func (lx *Lexer) peek() (byte, bool) {
	if int(lx.off) >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.off], true
}

func (lx *Lexer) next() token.Token {
	lx.skipSpace()

	start := lx.off
	b, ok := lx.peek()
	if !ok {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}

	switch {
	case isIdentStart(b):
		return lx.scanIdent()
	case b >= '0' && b <= '9':
		return lx.scanNumber()
	case b == '"':
		return lx.scanString()
	}

	lx.off++
	kind := token.EOF
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semi
	case '=':
		kind = token.Assign
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	default:
		lx.bag.Add(diag.Diagnostic{
			Span:     lx.span(start),
			Severity: diag.SevError,
			Message:  fmt.Sprintf("unexpected character %q", b),
		})
		// Resynchronize on the next token.
		return lx.next()
	}
	return token.Token{Kind: kind, Text: string(lx.src[start:lx.off]), Span: lx.span(start)}
}

func (lx *Lexer) skipSpace() {
	for {
		b, ok := lx.peek()
		if !ok {
			return
		}
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.off++
		case b == '/' && int(lx.off)+1 < len(lx.src) && lx.src[lx.off+1] == '/':
			// Line comment.
			for {
				b, ok := lx.peek()
				if !ok || b == '\n' {
					break
				}
				lx.off++
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.off
	for {
		b, ok := lx.peek()
		if !ok || !isIdentPart(b) {
			break
		}
		lx.off++
	}
	text := string(lx.src[start:lx.off])
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Text: text, Span: lx.span(start)}
	}
	return token.Token{Kind: token.Ident, Text: text, Span: lx.span(start)}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.off
	for {
		b, ok := lx.peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		lx.off++
	}
	return token.Token{Kind: token.Number, Text: string(lx.src[start:lx.off]), Span: lx.span(start)}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.off
	lx.off++ // opening quote
	for {
		b, ok := lx.peek()
		if !ok {
			lx.bag.Add(diag.Diagnostic{
				Span:     lx.span(start),
				Severity: diag.SevError,
				Message:  "unterminated string literal",
			})
			break
		}
		lx.off++
		if b == '"' {
			break
		}
	}
	return token.Token{Kind: token.String, Text: string(lx.src[start:lx.off]), Span: lx.span(start)}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

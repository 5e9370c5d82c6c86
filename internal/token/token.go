// Package token defines lexical token kinds for the reforge frontend.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - Built-in type names are identifiers; keywords are the fixed set below.
package token

import (
	"reforge/internal/source"
)

// Kind classifies a token.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	Number
	String

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semi
	Assign
	Plus
	Minus
	Star
	Slash

	KwFn
	KwLet
	KwReturn
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "eof"
	case Ident:
		return "ident"
	case Number:
		return "number"
	case String:
		return "string"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case Comma:
		return ","
	case Semi:
		return ";"
	case Assign:
		return "="
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case KwFn:
		return "fn"
	case KwLet:
		return "let"
	case KwReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Token is one lexeme with its source span.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"return": KwReturn,
}

// LookupKeyword returns the keyword kind for a lexeme, if it is one.
func LookupKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

// This file is part of vm-bytecode - https://github.com/kohazen/vm-bytecode
//
// Copyright 2026 The vm-bytecode Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asm

import (
	"io"
	"strconv"
	"text/scanner"

	"github.com/kohazen/vm-bytecode/internal/bvi"
	"github.com/kohazen/vm-bytecode/vm"
)

// TokenKind is the type of a Token.
type TokenKind int

// Token kinds.
const (
	Ident    TokenKind = iota // instruction name or label reference
	Number                    // decimal integer literal
	LabelDef                  // label definition, without the trailing colon
	Newline
	EOF
)

var tokenNames = [...]string{"IDENT", "NUMBER", "LABEL_DEF", "NEWLINE", "EOF"}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "UNKNOWN"
}

// Token is a lexical token.
type Token struct {
	Kind  TokenKind
	Text  string
	Value vm.Cell // for Number tokens
	Line  int
}

func (t Token) String() string {
	switch t.Kind {
	case Number:
		return t.Kind.String() + " " + strconv.Itoa(int(t.Value))
	case Ident, LabelDef:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	}
	return t.Kind.String()
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentRune(ch rune, i int) bool {
	return isLetter(ch) || i > 0 && isDigit(ch)
}

type lexer struct {
	s    scanner.Scanner
	name string
	lim  *Limits
	toks []Token
	err  error
	line int // line of the current token
}

// Lex splits the source read from r into tokens. The returned slice always
// ends with an EOF token. The name parameter is only used in error messages.
func Lex(name string, r io.Reader, lim Limits) ([]Token, error) {
	lim.setDefaults()
	l := &lexer{name: name, lim: &lim}
	return l.run(r)
}

func (l *lexer) errorf(kind Kind, format string, args ...interface{}) error {
	if l.err == nil {
		l.err = newError(l.name, l.line, kind, format, args...)
	}
	return l.err
}

func (l *lexer) emit(kind TokenKind, text string, v vm.Cell) error {
	if len(l.toks) >= l.lim.MaxTokens {
		return l.errorf(ErrTooManyTokens, "too many tokens (max %d)", l.lim.MaxTokens)
	}
	l.toks = append(l.toks, Token{kind, text, v, l.line})
	return nil
}

func (l *lexer) run(r io.Reader) ([]Token, error) {
	l.s.Init(r)
	l.s.Filename = l.name
	l.s.Mode = scanner.ScanIdents
	l.s.Whitespace = 1<<' ' | 1<<'\t' | 1<<'\r'
	l.s.IsIdentRune = isIdentRune
	l.s.Error = func(s *scanner.Scanner, msg string) {
		// Position is not set yet when reading ahead
		if l.err == nil {
			l.err = newError(l.name, s.Pos().Line, ErrUnexpectedChar, "%s", msg)
		}
	}

	for tok := l.s.Scan(); l.err == nil; tok = l.s.Scan() {
		// Next clears Position
		l.line = l.s.Position.Line
		switch {
		case tok == scanner.EOF:
			l.emit(EOF, "", 0)
			if l.err != nil {
				return nil, l.err
			}
			return l.toks, nil
		case tok == '\n':
			l.emit(Newline, "", 0)
		case tok == ';':
			for ch := l.s.Peek(); ch != '\n' && ch != scanner.EOF; ch = l.s.Peek() {
				l.s.Next()
			}
		case tok == scanner.Ident:
			s := l.s.TokenText()
			if len(s) > l.lim.MaxIdentLength {
				l.errorf(ErrIdentTooLong, "identifier too long (max %d characters)", l.lim.MaxIdentLength)
				break
			}
			if l.s.Peek() == ':' {
				l.s.Next()
				l.emit(LabelDef, s, 0)
			} else {
				l.emit(Ident, s, 0)
			}
		case tok == '-' || isDigit(tok):
			l.number(tok)
		default:
			l.errorf(ErrUnexpectedChar, "unexpected character %s", strconv.QuoteRune(tok))
		}
	}
	return nil, l.err
}

// number scans a decimal literal. The scanner has already consumed its first
// character.
func (l *lexer) number(first rune) {
	b := []byte{byte(first)}
	if first == '-' && !isDigit(l.s.Peek()) {
		l.errorf(ErrBadNumber, "expected digit after '-'")
		return
	}
	for isDigit(l.s.Peek()) {
		b = append(b, byte(l.s.Next()))
	}
	s := string(b)
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		l.errorf(ErrBadNumber, "number out of range: %s", s)
		return
	}
	l.emit(Number, s, vm.Cell(n))
}

// DumpTokens writes a listing of tokens to w, one per line.
func DumpTokens(toks []Token, w io.Writer) error {
	ew := bvi.NewErrWriter(w)
	for i, t := range toks {
		ew.Printf("[%3d] line %3d: %v\n", i, t.Line, t)
	}
	return ew.Err
}

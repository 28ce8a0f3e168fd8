// Package lex scans source text into a term stream.
//
// Lexing never fails: characters that start no term are collected into
// Unrecognized runs and left for the parser to report. Strings and markup
// are scanned by nested calls that recurse into the code scanner for every
// balanced-brace hole, so the scanner's call depth follows the nesting of
// holes and elements in the source.
package lex

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/lingo/loc"
	"github.com/dhamidi/lingo/name"
	"github.com/dhamidi/lingo/term"
)

// Document is a scanned source text.
type Document struct {
	Source []byte
	Terms  *term.Stream
	Lines  *loc.Lines
	names  map[int]*name.Identifier
}

// Identifier returns the identifier interned for term i, or nil when term i
// is not a name.
func (d *Document) Identifier(i int) *name.Identifier {
	return d.names[i]
}

// Text returns the source text of term i.
func (d *Document) Text(i int) string {
	return string(d.Source[d.Terms.Before(i):d.Terms.After(i)])
}

// Slice returns the source text covered by terms [begin, end).
func (d *Document) Slice(begin, end int) string {
	if end <= begin {
		return ""
	}
	return string(d.Source[d.Terms.Before(begin):d.Terms.After(end-1)])
}

// Lexer scans one source text.
type Lexer struct {
	input []byte
	pos   int
	terms *term.Stream
	pool  *name.Pool
	names map[int]*name.Identifier
	// prev is the last significant term scanned as code; it decides whether
	// '<' opens an element or compares.
	prev term.Term
}

// Scan lexes src, interning names into pool. A nil pool gets a fresh one.
func Scan(src []byte, pool *name.Pool) *Document {
	if pool == nil {
		pool = name.NewPool()
	}
	l := NewLexer(src, pool)
	l.Run()
	return &Document{
		Source: src,
		Terms:  l.terms,
		Lines:  loc.NewLines(src),
		names:  l.names,
	}
}

func NewLexer(input []byte, pool *name.Pool) *Lexer {
	return &Lexer{
		input: input,
		terms: term.NewStream(0),
		pool:  pool,
		names: make(map[int]*name.Identifier),
		prev:  term.Begin,
	}
}

// Terms returns the stream the lexer writes to.
func (l *Lexer) Terms() *term.Stream {
	return l.terms
}

// Run scans the whole input.
func (l *Lexer) Run() {
	l.code(false)
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// put emits a term of n bytes starting at the current position.
func (l *Lexer) put(kind term.Term, n int) {
	l.pos += n
	l.terms.Put(kind, l.pos)
	l.prev = kind
}

// extend emits n bytes of kind, merging with a preceding run of the same kind.
func (l *Lexer) extend(kind term.Term, n int) {
	l.pos += n
	l.terms.Extend(kind, l.pos)
	switch kind {
	case term.Whitespace, term.Newline, term.Comment:
	default:
		l.prev = kind
	}
}

// code scans terms until the end of input or, when hole is set, until the
// brace that closes the hole. It reports whether that brace was found.
func (l *Lexer) code(hole bool) bool {
	depth := 0
	for !l.atEnd() {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f':
			l.whitespace()
		case ch == '\n' || ch == '\r':
			l.newline()
		case ch == '/' && l.peekN(1) == '/':
			l.lineComment()
		case ch == '/' && l.peekN(1) == '*':
			l.blockComment()
		case l.letterWidth(l.pos) > 0:
			l.identifier()
		case isDigit(ch):
			l.number()
		case ch == '"':
			l.quoted()
		case ch == '<' && l.letterWidth(l.pos+1) > 0 && !endsOperand(l.prev):
			l.element()
		case ch == '{':
			l.put(term.LBrace, 1)
			depth++
		case ch == '}':
			l.put(term.RBrace, 1)
			if depth == 0 && hole {
				return true
			}
			if depth > 0 {
				depth--
			}
		default:
			l.operator()
		}
	}
	return !hole
}

func (l *Lexer) whitespace() {
	n := 0
	for {
		ch := l.peekN(n)
		if ch != ' ' && ch != '\t' && ch != '\f' {
			break
		}
		n++
	}
	l.extend(term.Whitespace, n)
}

func (l *Lexer) newline() {
	n := 0
	for {
		switch l.peekN(n) {
		case '\n', '\r':
			n++
			continue
		}
		break
	}
	l.extend(term.Newline, n)
}

func (l *Lexer) lineComment() {
	n := 2
	for l.pos+n < len(l.input) && l.input[l.pos+n] != '\n' && l.input[l.pos+n] != '\r' {
		n++
	}
	l.extend(term.Comment, n)
}

func (l *Lexer) blockComment() {
	n := 2
	for l.pos+n < len(l.input) {
		if l.input[l.pos+n] == '*' && l.peekN(n+1) == '/' {
			n += 2
			break
		}
		n++
	}
	l.extend(term.Comment, n)
}

func (l *Lexer) identifier() {
	start := l.pos
	end := l.pos
	for {
		w := l.letterWidth(end)
		if w == 0 && end < len(l.input) && isDigit(l.input[end]) {
			w = 1
		}
		if w == 0 {
			w = l.digitWidth(end)
		}
		if w == 0 {
			break
		}
		end += w
	}
	text := l.input[start:end]
	if kw, ok := term.LookupKeyword(string(text)); ok {
		l.put(kw, end-start)
		return
	}
	l.put(term.Name, end-start)
	l.names[l.terms.Len()-1] = l.pool.Intern(text)
}

// tagName scans a markup name, which may also contain '-', ':' and '.'.
func (l *Lexer) tagName() {
	start := l.pos
	end := l.pos
	for end < len(l.input) {
		w := l.letterWidth(end)
		if w == 0 {
			switch ch := l.input[end]; {
			case isDigit(ch), ch == '-', ch == ':', ch == '.':
				w = 1
			}
		}
		if w == 0 {
			break
		}
		end += w
	}
	if end == start {
		return
	}
	l.put(term.Name, end-start)
	l.names[l.terms.Len()-1] = l.pool.Intern(l.input[start:end])
}

func (l *Lexer) number() {
	ch := l.peek()
	next := l.peekN(1)
	if ch == '0' && (next == 'x' || next == 'X') && isHexDigit(l.peekN(2)) {
		n := 2
		for isHexDigit(l.peekN(n)) || l.peekN(n) == '_' {
			n++
		}
		l.put(term.Hex, n)
		return
	}
	if ch == '0' && (next == 'b' || next == 'B') && isBinaryDigit(l.peekN(2)) {
		n := 2
		for isBinaryDigit(l.peekN(n)) || l.peekN(n) == '_' {
			n++
		}
		l.put(term.Binary, n)
		return
	}

	kind := term.Integer
	n := 0
	for isDigit(l.peekN(n)) || l.peekN(n) == '_' {
		n++
	}
	if l.peekN(n) == '.' && isDigit(l.peekN(n+1)) {
		kind = term.Decimal
		n++
		for isDigit(l.peekN(n)) || l.peekN(n) == '_' {
			n++
		}
	}
	if e := l.peekN(n); e == 'e' || e == 'E' {
		sign := l.peekN(n + 1)
		switch {
		case isDigit(sign):
			kind = term.Exponent
			n++
		case (sign == '+' || sign == '-') && isDigit(l.peekN(n+2)):
			kind = term.Exponent
			n += 2
		}
		if kind == term.Exponent {
			for isDigit(l.peekN(n)) {
				n++
			}
		}
	}
	l.put(kind, n)
}

// quoted scans a string starting at the opening quote. Holes are
// scanned as code. A newline or the end of input ends an unterminated
// string.
func (l *Lexer) quoted() {
	l.put(term.Quote, 1)
	for {
		n := 0
		for l.pos+n < len(l.input) {
			ch := l.input[l.pos+n]
			if ch == '"' || ch == '{' || ch == '\n' || ch == '\r' {
				break
			}
			if ch == '\\' {
				if esc := l.peekN(n + 1); esc != 0 && esc != '\n' && esc != '\r' {
					n++
				}
			}
			n++
		}
		if n > 0 {
			l.pos += n
			l.terms.Extend(term.StringText, l.pos)
		}
		switch l.peek() {
		case '"':
			l.put(term.Quote, 1)
			return
		case '{':
			l.put(term.LBrace, 1)
			if !l.code(true) {
				return
			}
		default:
			return
		}
	}
}

// element scans a markup element starting at its '<'.
func (l *Lexer) element() {
	l.put(term.TagOpen, 1)
	l.tagName()
	for !l.atEnd() {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f':
			l.whitespace()
		case ch == '\n' || ch == '\r':
			l.newline()
		case ch == '/' && l.peekN(1) == '>':
			l.put(term.TagSelfClose, 2)
			return
		case ch == '>':
			l.put(term.TagClose, 1)
			l.content()
			return
		case l.letterWidth(l.pos) > 0:
			l.tagName()
		case ch == '=':
			l.put(term.Assign, 1)
		case ch == '"':
			l.quoted()
		case ch == '{':
			l.put(term.LBrace, 1)
			if !l.code(true) {
				return
			}
		default:
			l.unrecognized()
		}
	}
}

// content scans element content up to and including the closing tag.
func (l *Lexer) content() {
	for {
		n := 0
		for l.pos+n < len(l.input) {
			ch := l.input[l.pos+n]
			if ch == '{' {
				break
			}
			if ch == '<' && (l.peekN(n+1) == '/' || l.letterWidth(l.pos+n+1) > 0) {
				break
			}
			n++
		}
		if n > 0 {
			l.pos += n
			l.terms.Extend(term.MarkupText, l.pos)
		}
		switch {
		case l.atEnd():
			return
		case l.peek() == '{':
			l.put(term.LBrace, 1)
			if !l.code(true) {
				return
			}
		case l.peekN(1) == '/':
			l.put(term.TagEndOpen, 2)
			l.tagName()
			for l.peek() == ' ' || l.peek() == '\t' {
				l.whitespace()
			}
			if l.peek() == '>' {
				l.put(term.TagClose, 1)
			}
			return
		default:
			l.element()
		}
	}
}

func (l *Lexer) operator() {
	ch := l.peek()
	next := l.peekN(1)

	switch ch {
	case '(':
		l.put(term.LParen, 1)
	case ')':
		l.put(term.RParen, 1)
	case '[':
		l.put(term.LBracket, 1)
	case ']':
		l.put(term.RBracket, 1)
	case ',':
		l.put(term.Comma, 1)
	case ';':
		l.put(term.Semicolon, 1)
	case ':':
		l.put(term.Colon, 1)
	case '?':
		l.put(term.Question, 1)
	case '.':
		l.put(term.Dot, 1)
	case '+':
		l.put(term.Plus, 1)
	case '*':
		l.put(term.Star, 1)
	case '/':
		l.put(term.Slash, 1)
	case '%':
		l.put(term.Percent, 1)
	case '-':
		if next == '>' {
			l.put(term.Arrow, 2)
			return
		}
		l.put(term.Minus, 1)
	case '=':
		if next == '=' {
			l.put(term.EQ, 2)
			return
		}
		l.put(term.Assign, 1)
	case '!':
		if next == '=' {
			l.put(term.NE, 2)
			return
		}
		l.put(term.Not, 1)
	case '<':
		if next == '=' {
			l.put(term.LE, 2)
			return
		}
		l.put(term.LT, 1)
	case '>':
		if next == '=' {
			l.put(term.GE, 2)
			return
		}
		l.put(term.GT, 1)
	case '&':
		if next == '&' {
			l.put(term.And, 2)
			return
		}
		l.unrecognized()
	case '|':
		if next == '|' {
			l.put(term.Or, 2)
			return
		}
		l.unrecognized()
	default:
		l.unrecognized()
	}
}

func (l *Lexer) unrecognized() {
	_, w := utf8.DecodeRune(l.input[l.pos:])
	l.extend(term.Unrecognized, w)
}

// letterWidth returns the byte width of the letter at offset i, or 0 when
// there is none.
func (l *Lexer) letterWidth(i int) int {
	if i >= len(l.input) {
		return 0
	}
	ch := l.input[i]
	if ch < utf8.RuneSelf {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$' {
			return 1
		}
		return 0
	}
	r, w := utf8.DecodeRune(l.input[i:])
	if unicode.IsLetter(r) {
		return w
	}
	return 0
}

// digitWidth returns the byte width of a non-ASCII digit at offset i.
func (l *Lexer) digitWidth(i int) int {
	if i >= len(l.input) || l.input[i] < utf8.RuneSelf {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[i:])
	if unicode.IsDigit(r) {
		return w
	}
	return 0
}

func endsOperand(t term.Term) bool {
	switch t {
	case term.Name, term.Integer, term.Decimal, term.Exponent, term.Binary, term.Hex,
		term.True, term.False, term.Null, term.Quote,
		term.RParen, term.RBracket, term.RBrace,
		term.TagClose, term.TagSelfClose:
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isBinaryDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

package parser

// Lexer implements a single-pass, zero-copy lexer: tokens store byte
// offsets into the source buffer rather than materialized strings. Line
// breaks are significant (they separate expressions) and are emitted as
// collapsed NEWLINE tokens; comments are skipped entirely — the formatter
// recovers them from its source line ledger, not from the token stream.

import (
	"unicode/utf8"
)

// multiCharOps is ordered longest first for maximal munch. << and >> sit
// after their three-char extensions and before the bare < and > so
// bitstring delimiters win exactly when nothing longer matches.
var multiCharOps = []string{
	"<<~", "~>>", "<~>", "<|>", "^^^", "~~~", "===", "!==", "<<<", ">>>",
	"<<", ">>",
	"|>", "||", "&&", "==", "!=", "=~", "<=", ">=", "<~", "~>", "<>",
	"++", "--", "..", "::", "<-", "\\\\", "//",
	"+", "-", "*", "/", "=", "<", ">", "|", "^", "&", "!", "@",
}

// Lexer tokenizes Elixir-style source code.
type Lexer struct {
	source []byte
	pos    int
	line   int // 1-indexed
	column int // 1-indexed
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, len(source)/6+64),
	}
}

// ScanAll lexes the entire source and returns all tokens, terminated by
// EOF. There is no backtracking.
func (l *Lexer) ScanAll() []Token {
	for l.pos < len(l.source) {
		l.skipSpaces()

		if l.pos >= len(l.source) {
			break
		}

		if l.peek() == '#' {
			l.skipComment()
			continue
		}

		if l.peek() == '\n' {
			l.scanNewlines()
			continue
		}

		tok := l.scanToken()
		l.tokens = append(l.tokens, tok)
	}

	l.tokens = append(l.tokens, Token{
		Type:   EOF,
		Start:  l.pos,
		End:    l.pos,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens
}

// scanNewlines consumes a run of line breaks (and any blank lines within)
// and emits a single NEWLINE token.
func (l *Lexer) scanNewlines() {
	start := l.pos
	line := l.line
	col := l.column

	for l.pos < len(l.source) {
		ch := l.peek()
		if ch == '\n' || ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
			continue
		}
		if ch == '#' {
			l.skipComment()
			continue
		}
		break
	}

	l.tokens = append(l.tokens, Token{NEWLINE, start, start + 1, line, col})
}

func (l *Lexer) scanToken() Token {
	start := l.pos
	startLine := l.line
	startCol := l.column

	ch := l.peek()

	switch {
	case ch >= '0' && ch <= '9':
		return l.scanNumber(start, startLine, startCol)

	case ch == '"':
		return l.scanString(start, startLine, startCol, '"', STRING, HEREDOC)

	case ch == '\'':
		return l.scanString(start, startLine, startCol, '\'', CHARLIST, CHARLISTHEREDOC)

	case ch == '?':
		return l.scanChar(start, startLine, startCol)

	case ch == ':':
		return l.scanAtomOrColon(start, startLine, startCol)

	case ch >= 'a' && ch <= 'z' || ch == '_':
		return l.scanIdent(start, startLine, startCol)

	case ch >= 'A' && ch <= 'Z':
		return l.scanAlias(start, startLine, startCol)

	case ch == '(':
		l.advance()
		return Token{LPAREN, start, l.pos, startLine, startCol}
	case ch == ')':
		l.advance()
		return Token{RPAREN, start, l.pos, startLine, startCol}
	case ch == '[':
		l.advance()
		return Token{LBRACKET, start, l.pos, startLine, startCol}
	case ch == ']':
		l.advance()
		return Token{RBRACKET, start, l.pos, startLine, startCol}
	case ch == '{':
		l.advance()
		return Token{LBRACE, start, l.pos, startLine, startCol}
	case ch == '}':
		l.advance()
		return Token{RBRACE, start, l.pos, startLine, startCol}
	case ch == ',':
		l.advance()
		return Token{COMMA, start, l.pos, startLine, startCol}
	case ch == ';':
		l.advance()
		return Token{SEMI, start, l.pos, startLine, startCol}

	case ch == '%':
		l.advance()
		if l.peek() == '{' {
			l.advance()
			return Token{MAPSTART, start, l.pos, startLine, startCol}
		}
		return Token{PERCENT, start, l.pos, startLine, startCol}

	case ch == '.':
		// A dot not beginning an operator is member access.
		if l.match("..") {
			return Token{OP, start, l.pos, startLine, startCol}
		}
		l.advance()
		return Token{DOT, start, l.pos, startLine, startCol}

	default:
		return l.scanOperator(start, startLine, startCol)
	}
}

// scanOperator applies maximal munch over the operator table, special
// casing the structural arrow/bitstring spellings.
func (l *Lexer) scanOperator(start, line, col int) Token {
	if l.match("->") {
		return Token{ARROW, start, l.pos, line, col}
	}
	if l.match("=>") {
		return Token{FATARROW, start, l.pos, line, col}
	}

	for _, op := range multiCharOps {
		if !l.match(op) {
			continue
		}
		switch op {
		case "<<":
			return Token{BITSTART, start, l.pos, line, col}
		case ">>":
			return Token{BITEND, start, l.pos, line, col}
		}
		return Token{OP, start, l.pos, line, col}
	}

	l.advance()
	return Token{ILLEGAL, start, l.pos, line, col}
}

// match consumes the literal if it is next in the buffer.
func (l *Lexer) match(lit string) bool {
	if l.pos+len(lit) > len(l.source) {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if l.source[l.pos+i] != lit[i] {
			return false
		}
	}
	for range lit {
		l.advance()
	}
	return true
}

// scanNumber scans integer and float literals: decimal with underscore
// groups, 0x/0o/0b prefixes, optional fraction and exponent.
func (l *Lexer) scanNumber(start, line, col int) Token {
	if l.peek() == '0' && l.pos+1 < len(l.source) {
		switch l.source[l.pos+1] {
		case 'x', 'X':
			l.advance()
			l.advance()
			l.consumeWhile(isHexDigit)
			return Token{INT, start, l.pos, line, col}
		case 'o', 'O':
			l.advance()
			l.advance()
			l.consumeWhile(func(c byte) bool { return c >= '0' && c <= '7' || c == '_' })
			return Token{INT, start, l.pos, line, col}
		case 'b', 'B':
			l.advance()
			l.advance()
			l.consumeWhile(func(c byte) bool { return c == '0' || c == '1' || c == '_' })
			return Token{INT, start, l.pos, line, col}
		}
	}

	l.consumeWhile(isDecDigit)

	isFloat := false
	if l.peek() == '.' && l.pos+1 < len(l.source) && isDecDigit(l.source[l.pos+1]) {
		isFloat = true
		l.advance()
		l.consumeWhile(isDecDigit)
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		if l.pos+1 < len(l.source) && (isDecDigit(l.source[l.pos+1]) ||
			(l.source[l.pos+1] == '+' || l.source[l.pos+1] == '-') && l.pos+2 < len(l.source) && isDecDigit(l.source[l.pos+2])) {
			isFloat = true
			l.advance()
			if c := l.peek(); c == '+' || c == '-' {
				l.advance()
			}
			l.consumeWhile(isDecDigit)
		}
	}

	if isFloat {
		return Token{FLOAT, start, l.pos, line, col}
	}
	return Token{INT, start, l.pos, line, col}
}

// scanString scans a quoted literal or heredoc, tracking #{...}
// interpolation so quotes inside interpolated expressions do not
// terminate the literal. The token covers the delimiters.
func (l *Lexer) scanString(start, line, col int, quote byte, simple, heredoc TokenType) Token {
	l.advance() // opening quote

	if l.peek() == quote && l.pos+1 < len(l.source) && l.source[l.pos+1] == quote {
		l.advance()
		l.advance()
		return l.scanHeredoc(start, line, col, quote, heredoc)
	}

	for l.pos < len(l.source) {
		ch := l.peek()
		switch {
		case ch == '\\':
			l.advance()
			l.advance()
		case ch == '#' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '{':
			l.skipInterpolation()
		case ch == quote:
			l.advance()
			return Token{simple, start, l.pos, line, col}
		default:
			l.advance()
		}
	}

	return Token{ILLEGAL, start, l.pos, line, col}
}

// scanHeredoc consumes until the closing triple quote.
func (l *Lexer) scanHeredoc(start, line, col int, quote byte, kind TokenType) Token {
	for l.pos < len(l.source) {
		if l.peek() == '\\' {
			l.advance()
			l.advance()
			continue
		}
		if l.peek() == quote &&
			l.pos+2 < len(l.source) &&
			l.source[l.pos+1] == quote && l.source[l.pos+2] == quote {
			l.advance()
			l.advance()
			l.advance()
			return Token{kind, start, l.pos, line, col}
		}
		l.advance()
	}
	return Token{ILLEGAL, start, l.pos, line, col}
}

// skipInterpolation consumes a balanced #{...} region, honoring nested
// braces and strings within the interpolated expression.
func (l *Lexer) skipInterpolation() {
	l.advance() // #
	l.advance() // {
	depth := 1
	var inner byte

	for l.pos < len(l.source) && depth > 0 {
		ch := l.peek()
		switch {
		case ch == '\\':
			l.advance()
			l.advance()
			continue
		case inner != 0:
			if ch == inner {
				inner = 0
			}
		case ch == '"' || ch == '\'':
			inner = ch
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		}
		l.advance()
	}
}

// scanChar scans ?c and ?\c literals.
func (l *Lexer) scanChar(start, line, col int) Token {
	l.advance() // ?
	if l.peek() == '\\' {
		l.advance()
		l.advance()
		return Token{CHAR, start, l.pos, line, col}
	}
	_, size := utf8.DecodeRune(l.source[l.pos:])
	for i := 0; i < size; i++ {
		l.advance()
	}
	return Token{CHAR, start, l.pos, line, col}
}

// scanAtomOrColon scans :name, :"quoted", operator atoms like :<>, and
// the :: operator.
func (l *Lexer) scanAtomOrColon(start, line, col int) Token {
	if l.pos+1 < len(l.source) && l.source[l.pos+1] == ':' {
		l.advance()
		l.advance()
		return Token{OP, start, l.pos, line, col}
	}

	l.advance() // :

	ch := l.peek()
	switch {
	case ch == '"':
		l.advance()
		for l.pos < len(l.source) {
			c := l.peek()
			if c == '\\' {
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			if c == '"' {
				return Token{QUOTEDATOM, start, l.pos, line, col}
			}
		}
		return Token{ILLEGAL, start, l.pos, line, col}

	case isIdentStart(ch) || ch >= 'A' && ch <= 'Z':
		l.consumeWhile(isIdentPart)
		if c := l.peek(); c == '?' || c == '!' {
			l.advance()
		}
		return Token{ATOM, start, l.pos, line, col}

	default:
		for _, op := range multiCharOps {
			if l.match(op) {
				return Token{ATOM, start, l.pos, line, col}
			}
		}
		return Token{ILLEGAL, start, l.pos, line, col}
	}
}

// scanIdent scans identifiers, keywords, and keyword-list keys.
func (l *Lexer) scanIdent(start, line, col int) Token {
	l.consumeWhile(isIdentPart)
	if c := l.peek(); c == '?' || c == '!' {
		l.advance()
	}

	// name: followed by whitespace is a keyword-list key. A double colon
	// is the type operator instead.
	if l.peek() == ':' && l.pos+1 < len(l.source) && isSpaceByte(l.source[l.pos+1]) {
		l.advance()
		return Token{KWKEY, start, l.pos, line, col}
	}

	word := l.source[start:l.pos]
	switch string(word) {
	case "do":
		return Token{DO, start, l.pos, line, col}
	case "end":
		return Token{END, start, l.pos, line, col}
	case "fn":
		return Token{FN, start, l.pos, line, col}
	case "when", "and", "or", "not", "in":
		return Token{OP, start, l.pos, line, col}
	}

	return Token{IDENT, start, l.pos, line, col}
}

// scanAlias scans one module path segment.
func (l *Lexer) scanAlias(start, line, col int) Token {
	l.consumeWhile(isIdentPart)
	return Token{ALIAS, start, l.pos, line, col}
}

func (l *Lexer) consumeWhile(pred func(byte) bool) {
	for l.pos < len(l.source) && pred(l.source[l.pos]) {
		l.advance()
	}
}

// skipSpaces skips horizontal whitespace only; line breaks are tokens.
func (l *Lexer) skipSpaces() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch != ' ' && ch != '\t' && ch != '\r' {
			break
		}
		l.advance()
	}
}

// skipComment skips to the end of the line, leaving the newline in place.
func (l *Lexer) skipComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.pos++
		l.column++
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func isDecDigit(c byte) bool { return c >= '0' && c <= '9' || c == '_' }

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' || c == '_'
}

func isIdentStart(c byte) bool { return c >= 'a' && c <= 'z' || c == '_' }

func isIdentPart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

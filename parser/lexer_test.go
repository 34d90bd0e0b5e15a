package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func scan(src string) []Token {
	return NewLexer([]byte(src)).ScanAll()
}

func scanTypes(src string) []TokenType {
	toks := scan(src)
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestLexerBasicStream(t *testing.T) {
	assert.Equal(t, []TokenType{IDENT, OP, INT, EOF}, scanTypes("x = 1"))
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenType
	}{
		{"a + b", []TokenType{IDENT, OP, IDENT, EOF}},
		{"a |> b", []TokenType{IDENT, OP, IDENT, EOF}},
		{"a <<~ b", []TokenType{IDENT, OP, IDENT, EOF}},
		{"a <<< b", []TokenType{IDENT, OP, IDENT, EOF}},
		{"a === b", []TokenType{IDENT, OP, IDENT, EOF}},
		{"x :: integer", []TokenType{IDENT, OP, IDENT, EOF}},
		{"a <- b", []TokenType{IDENT, OP, IDENT, EOF}},
		{`a \\ b`, []TokenType{IDENT, OP, IDENT, EOF}},
		{"a -> b", []TokenType{IDENT, ARROW, IDENT, EOF}},
		{"a => b", []TokenType{IDENT, FATARROW, IDENT, EOF}},
		{"<<1>>", []TokenType{BITSTART, INT, BITEND, EOF}},
		{"1..10", []TokenType{INT, OP, INT, EOF}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scanTypes(tt.src))
	}
}

func TestLexerBitstringDelimiters(t *testing.T) {
	assert.Equal(t, []TokenType{BITSTART, INT, COMMA, INT, BITEND, EOF}, scanTypes("<<1, 2>>"))
	assert.Equal(t, []TokenType{BITSTART, IDENT, OP, INT, BITEND, EOF}, scanTypes("<<x::8>>"))

	// The three-char spellings still win over <<
	assert.Equal(t, []TokenType{IDENT, OP, IDENT, EOF}, scanTypes("a <<< b"))
}

func TestLexerMaximalMunch(t *testing.T) {
	// <<~ must win over << followed by ~
	toks := scan("a <<~ b")
	assert.Equal(t, "<<~", toks[1].String([]byte("a <<~ b")))
}

func TestLexerKeywords(t *testing.T) {
	assert.Equal(t, []TokenType{DO, END, FN, EOF}, scanTypes("do end fn"))
	assert.Equal(t, []TokenType{OP, OP, OP, OP, OP, EOF}, scanTypes("when and or not in"))
}

func TestLexerKeywordListKey(t *testing.T) {
	// name: followed by whitespace is a key, even for reserved words
	assert.Equal(t, []TokenType{KWKEY, INT, EOF}, scanTypes("do: 1"))
	assert.Equal(t, []TokenType{KWKEY, IDENT, EOF}, scanTypes("else: x"))

	// a double colon is the type operator, not a key
	assert.Equal(t, []TokenType{IDENT, OP, IDENT, EOF}, scanTypes("x :: t"))
}

func TestLexerAtoms(t *testing.T) {
	tests := []struct {
		src  string
		want TokenType
	}{
		{":ok", ATOM},
		{":error_reason", ATOM},
		{":valid?", ATOM},
		{":Upper", ATOM},
		{`:"quoted atom"`, QUOTEDATOM},
		{":<>", ATOM},
		{":++", ATOM},
	}

	for _, tt := range tests {
		toks := scan(tt.src)
		assert.Equal(t, tt.want, toks[0].Type)
		assert.Equal(t, tt.src, toks[0].String([]byte(tt.src)))
	}
}

func TestLexerIdentifiers(t *testing.T) {
	toks := scan("valid? empty! _private Alias")
	assert.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, "valid?", toks[0].String([]byte("valid? empty! _private Alias")))
	assert.Equal(t, IDENT, toks[1].Type)
	assert.Equal(t, IDENT, toks[2].Type)
	assert.Equal(t, ALIAS, toks[3].Type)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want TokenType
	}{
		{"42", INT},
		{"1_000_000", INT},
		{"0xFF", INT},
		{"0o777", INT},
		{"0b101", INT},
		{"3.14", FLOAT},
		{"1.0e10", FLOAT},
		{"1.0e-3", FLOAT},
	}

	for _, tt := range tests {
		toks := scan(tt.src)
		assert.Equal(t, tt.want, toks[0].Type)
		assert.Equal(t, tt.src, toks[0].String([]byte(tt.src)))
	}
}

func TestLexerStrings(t *testing.T) {
	t.Run("simple string", func(t *testing.T) {
		toks := scan(`"hello"`)
		assert.Equal(t, STRING, toks[0].Type)
	})

	t.Run("interpolation stays in one token", func(t *testing.T) {
		src := `"a#{inspect(b)}c"`
		toks := scan(src)
		assert.Equal(t, STRING, toks[0].Type)
		assert.Equal(t, src, toks[0].String([]byte(src)))
	})

	t.Run("quote inside interpolation", func(t *testing.T) {
		src := `"x#{"y"}z"`
		toks := scan(src)
		assert.Equal(t, STRING, toks[0].Type)
		assert.Equal(t, src, toks[0].String([]byte(src)))
	})

	t.Run("heredoc", func(t *testing.T) {
		src := "\"\"\"\nhello\n\"\"\""
		toks := scan(src)
		assert.Equal(t, HEREDOC, toks[0].Type)
	})

	t.Run("charlist", func(t *testing.T) {
		toks := scan("'abc'")
		assert.Equal(t, CHARLIST, toks[0].Type)
	})

	t.Run("unterminated string is illegal", func(t *testing.T) {
		toks := scan(`"open`)
		assert.Equal(t, ILLEGAL, toks[0].Type)
	})
}

func TestLexerCharLiterals(t *testing.T) {
	toks := scan("?a")
	assert.Equal(t, CHAR, toks[0].Type)
	assert.Equal(t, "?a", toks[0].String([]byte("?a")))

	toks = scan(`?\n`)
	assert.Equal(t, CHAR, toks[0].Type)
	assert.Equal(t, `?\n`, toks[0].String([]byte(`?\n`)))
}

func TestLexerNewlineCollapse(t *testing.T) {
	// A run of line breaks and blank lines is one NEWLINE token
	assert.Equal(t, []TokenType{IDENT, NEWLINE, IDENT, EOF}, scanTypes("a\n\n\nb"))
}

func TestLexerCommentsSkipped(t *testing.T) {
	assert.Equal(t, []TokenType{IDENT, NEWLINE, IDENT, EOF}, scanTypes("a # note\nb"))
	assert.Equal(t, []TokenType{NEWLINE, IDENT, EOF}, scanTypes("# leading\nb"))
}

func TestLexerMapStart(t *testing.T) {
	assert.Equal(t, []TokenType{MAPSTART, KWKEY, INT, RBRACE, EOF}, scanTypes("%{a: 1}"))
	assert.Equal(t, []TokenType{PERCENT, ALIAS, LBRACE, RBRACE, EOF}, scanTypes("%Foo{}"))
}

func TestLexerPositions(t *testing.T) {
	toks := scan("a\n  b")

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Column)

	// b sits on line 2, after two spaces
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 3, toks[2].Column)
}

func TestLexerUnsupportedSigil(t *testing.T) {
	// ~ alone is not an operator; sigils are not part of the surface
	toks := scan("~r/abc/")
	assert.Equal(t, ILLEGAL, toks[0].Type)
}

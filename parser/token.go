package parser

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	NEWLINE // collapsed run of line breaks
	SEMI    // ;

	// Literals
	INT             // 123, 0x1F, 0o17, 0b101
	FLOAT           // 1.5, 1.0e10
	CHAR            // ?a, ?\n
	STRING          // "..."
	HEREDOC         // """..."""
	CHARLIST        // '...'
	CHARLISTHEREDOC // '''...'''
	ATOM            // :name, :+
	QUOTEDATOM      // :"..."

	// Names
	IDENT // variable or function name
	ALIAS // Module (single segment, dots are separate tokens)
	KWKEY // name: (keyword list key, colon consumed)

	// Keywords
	DO  // do
	END // end
	FN  // fn

	// Structure
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }
	MAPSTART // %{
	PERCENT  // % (struct literal)
	BITSTART // <<
	BITEND   // >>
	COMMA    // ,
	DOT      // .
	ARROW    // ->
	FATARROW // =>

	// OP is any other operator; the spelling is materialized from the
	// source buffer.
	OP
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE",
	SEMI:    ";",

	INT:             "INT",
	FLOAT:           "FLOAT",
	CHAR:            "CHAR",
	STRING:          "STRING",
	HEREDOC:         "HEREDOC",
	CHARLIST:        "CHARLIST",
	CHARLISTHEREDOC: "CHARLISTHEREDOC",
	ATOM:            "ATOM",
	QUOTEDATOM:      "QUOTEDATOM",

	IDENT: "IDENT",
	ALIAS: "ALIAS",
	KWKEY: "KWKEY",

	DO:  "do",
	END: "end",
	FN:  "fn",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	LBRACE:   "{",
	RBRACE:   "}",
	MAPSTART: "%{",
	PERCENT:  "%",
	BITSTART: "<<",
	BITEND:   ">>",
	COMMA:    ",",
	DOT:      ".",
	ARROW:    "->",
	FATARROW: "=>",

	OP: "OP",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token stores byte offsets into the source buffer instead of materialized
// strings, so lexing allocates nothing per token.
type Token struct {
	Type   TokenType
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive)
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// String materializes the token text from the source buffer.
func (t Token) String(source []byte) string {
	if t.Start >= len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

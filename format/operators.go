package format

// Associativity of a binary operator.
type assoc int

const (
	assocLeft assoc = iota
	assocRight
)

// opInfo describes one binary operator: binding strength (higher binds
// tighter) and associativity. Ties between parent and child precedence are
// broken by associativity when deciding parenthesization.
type opInfo struct {
	prec  int
	assoc assoc
}

var binaryOps = map[string]opInfo{
	"<-": {40, assocLeft},
	"\\\\": {40, assocLeft},

	"when": {50, assocRight},

	"::": {60, assocRight},

	"|": {70, assocRight},

	"=": {90, assocRight},

	"||": {130, assocLeft},
	"or": {130, assocLeft},

	"&&":  {140, assocLeft},
	"and": {140, assocLeft},

	"==":  {150, assocLeft},
	"!=":  {150, assocLeft},
	"=~":  {150, assocLeft},
	"===": {150, assocLeft},
	"!==": {150, assocLeft},

	"<":  {160, assocLeft},
	"<=": {160, assocLeft},
	">=": {160, assocLeft},
	">":  {160, assocLeft},

	"|>":  {170, assocLeft},
	"<<<": {170, assocLeft},
	">>>": {170, assocLeft},
	"<~":  {170, assocLeft},
	"~>":  {170, assocLeft},
	"<<~": {170, assocLeft},
	"~>>": {170, assocLeft},
	"<~>": {170, assocLeft},
	"<|>": {170, assocLeft},
	"^^^": {170, assocLeft},

	"in":     {180, assocLeft},
	"not in": {180, assocLeft},

	"++": {200, assocRight},
	"--": {200, assocRight},
	"..": {200, assocRight},
	"<>": {200, assocRight},

	"+": {210, assocLeft},
	"-": {210, assocLeft},

	"*": {220, assocLeft},
	"/": {220, assocLeft},

	".": {310, assocLeft},
}

// longFormOps are the operators the renderer is willing to break across
// lines: boolean, concatenation and pipe classes.
var longFormOps = map[string]bool{
	"||": true, "or": true,
	"&&": true, "and": true,
	"++": true, "--": true, "<>": true,
	"|>": true,
}

// wordOps are the operators spelled as words. They always take a space
// between operator and operand.
var wordOps = map[string]bool{
	"when": true, "in": true, "not in": true,
	"and": true, "or": true, "not": true,
}

// unaryOps is the set of recognized unary operators. The attribute
// operator @ and the arithmetic/boolean prefixes render without a space;
// word operators render with one.
var unaryOps = map[string]bool{
	"+": true, "-": true, "!": true, "^": true, "~~~": true,
	"not": true, "@": true,
}

// Package term defines the closed set of lexical term kinds and the flat
// term stream the lexer produces and the parser consumes.
package term

type Term uint8

const (
	Begin Term = iota
	End
	Unrecognized
	Whitespace
	Newline
	Comment

	// Literals
	Name
	Integer
	Decimal
	Exponent
	Binary
	Hex
	StringText
	MarkupText

	// Keywords
	Let
	Fn
	If
	Else
	Return
	True
	False
	Null

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	EQ
	NE
	LT
	LE
	GT
	GE
	And
	Or
	Not
	Assign
	Dot
	Comma
	Semicolon
	Colon
	Question
	Arrow

	// Delimiters
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Quote

	// Markup
	TagOpen
	TagClose
	TagSelfClose
	TagEndOpen

	count
)

// Category groups terms for display and diagnostics.
type Category uint8

const (
	Other Category = iota
	Keyword
	Operator
	Delimiter
	Markup
)

func (c Category) String() string {
	switch c {
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	case Delimiter:
		return "delimiter"
	case Markup:
		return "markup"
	default:
		return "other"
	}
}

type info struct {
	name     string
	symbol   string
	category Category
}

var catalog = [count]info{
	Begin:        {"Begin", "start of input", Other},
	End:          {"End", "end of input", Other},
	Unrecognized: {"Unrecognized", "unrecognized input", Other},
	Whitespace:   {"Whitespace", "whitespace", Other},
	Newline:      {"Newline", "newline", Other},
	Comment:      {"Comment", "comment", Other},
	Name:         {"Name", "name", Other},
	Integer:      {"Integer", "integer", Other},
	Decimal:      {"Decimal", "decimal", Other},
	Exponent:     {"Exponent", "exponent", Other},
	Binary:       {"Binary", "binary", Other},
	Hex:          {"Hex", "hex", Other},
	StringText:   {"StringText", "string text", Other},
	MarkupText:   {"MarkupText", "markup text", Other},
	Let:          {"Let", "let", Keyword},
	Fn:           {"Fn", "fn", Keyword},
	If:           {"If", "if", Keyword},
	Else:         {"Else", "else", Keyword},
	Return:       {"Return", "return", Keyword},
	True:         {"True", "true", Keyword},
	False:        {"False", "false", Keyword},
	Null:         {"Null", "null", Keyword},
	Plus:         {"Plus", "+", Operator},
	Minus:        {"Minus", "-", Operator},
	Star:         {"Star", "*", Operator},
	Slash:        {"Slash", "/", Operator},
	Percent:      {"Percent", "%", Operator},
	EQ:           {"EQ", "==", Operator},
	NE:           {"NE", "!=", Operator},
	LT:           {"LT", "<", Operator},
	LE:           {"LE", "<=", Operator},
	GT:           {"GT", ">", Operator},
	GE:           {"GE", ">=", Operator},
	And:          {"And", "&&", Operator},
	Or:           {"Or", "||", Operator},
	Not:          {"Not", "!", Operator},
	Assign:       {"Assign", "=", Operator},
	Dot:          {"Dot", ".", Operator},
	Comma:        {"Comma", ",", Delimiter},
	Semicolon:    {"Semicolon", ";", Delimiter},
	Colon:        {"Colon", ":", Operator},
	Question:     {"Question", "?", Operator},
	Arrow:        {"Arrow", "->", Operator},
	LParen:       {"LParen", "(", Delimiter},
	RParen:       {"RParen", ")", Delimiter},
	LBracket:     {"LBracket", "[", Delimiter},
	RBracket:     {"RBracket", "]", Delimiter},
	LBrace:       {"LBrace", "{", Delimiter},
	RBrace:       {"RBrace", "}", Delimiter},
	Quote:        {"Quote", "\"", Delimiter},
	TagOpen:      {"TagOpen", "<", Markup},
	TagClose:     {"TagClose", ">", Markup},
	TagSelfClose: {"TagSelfClose", "/>", Markup},
	TagEndOpen:   {"TagEndOpen", "</", Markup},
}

var (
	keywords = make(map[string]Term)
	symbols  = make(map[string]Term)
)

func init() {
	for t := Term(0); t < count; t++ {
		switch catalog[t].category {
		case Keyword:
			keywords[catalog[t].symbol] = t
			symbols[catalog[t].symbol] = t
		case Operator, Delimiter:
			symbols[catalog[t].symbol] = t
		}
	}
}

func (t Term) String() string {
	if t < count {
		return catalog[t].name
	}
	return "Unknown"
}

// Symbol returns the display form of t: the literal text for keywords,
// operators and delimiters, and a short description otherwise.
func (t Term) Symbol() string {
	if t < count {
		return catalog[t].symbol
	}
	return "?"
}

func (t Term) Category() Category {
	if t < count {
		return catalog[t].category
	}
	return Other
}

// Valid reports whether t belongs to the catalog.
func (t Term) Valid() bool {
	return t < count
}

// LookupKeyword returns the keyword spelled exactly s.
func LookupKeyword(s string) (Term, bool) {
	t, ok := keywords[s]
	return t, ok
}

// BySymbol returns the keyword, operator or delimiter spelled s. Markup
// markers share their spelling with operators and are not returned.
func BySymbol(s string) (Term, bool) {
	t, ok := symbols[s]
	return t, ok
}

// All returns every term in declaration order.
func All() []Term {
	all := make([]Term, count)
	for i := range all {
		all[i] = Term(i)
	}
	return all
}

// Count is the number of terms in the catalog.
const Count = int(count)

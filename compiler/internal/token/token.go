package token

// Kind identifies the lexical class of a token. The set is closed: every
// lexeme the lexer emits maps to exactly one Kind, and the stream the
// parser consumes never contains newline or comment tokens.
type Kind int

const (
	EOF Kind = iota

	Ident
	IntLit
	FloatLit
	StringLit
	AddressLit

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Semicolon
	Colon
	ColonColon
	Arrow
	FatArrow

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
	Not
	Amp

	// Core keywords
	KwContract
	KwFn
	KwStruct
	KwEnum
	KwTrait
	KwImpl
	KwUse
	KwConst
	KwModule
	KwLet
	KwMut
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwMatch
	KwReturn
	KwBreak
	KwContinue
	KwEmit
	KwEvent
	KwIndexed
	KwPub
	KwAs
	KwAwait
	KwTrue
	KwFalse
	KwSelf
	KwOperator

	// Indexer keywords
	KwIndex
	KwQuery
	KwFrom
	KwWhere
	KwOrderBy
	KwLimit
	KwSource
	KwMap
	KwEvents
	KwAsc
	KwDesc

	// Reserved identifier classes; the lexeme disambiguates within the class
	ChainName
	PrimType
	MLOp
)

var kindNames = map[Kind]string{
	EOF:        "end of file",
	Ident:      "identifier",
	IntLit:     "integer literal",
	FloatLit:   "float literal",
	StringLit:  "string literal",
	AddressLit: "address literal",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LBracket:   "'['",
	RBracket:   "']'",
	Comma:      "','",
	Dot:        "'.'",
	Semicolon:  "';'",
	Colon:      "':'",
	ColonColon: "'::'",
	Arrow:      "'->'",
	FatArrow:   "'=>'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Assign:     "'='",
	Eq:         "'=='",
	NotEq:      "'!='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Gt:         "'>'",
	GtEq:       "'>='",
	AndAnd:     "'&&'",
	OrOr:       "'||'",
	Not:        "'!'",
	Amp:        "'&'",
	ChainName:  "chain name",
	PrimType:   "type name",
	MLOp:       "ml operation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	if kw, ok := keywordLexemes[k]; ok {
		return "'" + kw + "'"
	}
	return "unknown"
}

// keywords maps exact lexemes to their reserved kinds. Anything not in the
// table lexes as a generic identifier.
var keywords = map[string]Kind{
	"contract": KwContract,
	"fn":       KwFn,
	"struct":   KwStruct,
	"enum":     KwEnum,
	"trait":    KwTrait,
	"impl":     KwImpl,
	"use":      KwUse,
	"const":    KwConst,
	"module":   KwModule,
	"let":      KwLet,
	"mut":      KwMut,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"match":    KwMatch,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"emit":     KwEmit,
	"event":    KwEvent,
	"indexed":  KwIndexed,
	"pub":      KwPub,
	"as":       KwAs,
	"await":    KwAwait,
	"true":     KwTrue,
	"false":    KwFalse,
	"self":     KwSelf,
	"operator": KwOperator,

	"index":    KwIndex,
	"query":    KwQuery,
	"from":     KwFrom,
	"where":    KwWhere,
	"order_by": KwOrderBy,
	"limit":    KwLimit,
	"source":   KwSource,
	"map":      KwMap,
	"events":   KwEvents,
	"asc":      KwAsc,
	"desc":     KwDesc,

	"ethereum": ChainName,
	"polygon":  ChainName,
	"arbitrum": ChainName,
	"optimism": ChainName,
	"base":     ChainName,
	"solana":   ChainName,
	"cosmos":   ChainName,
	"polkadot": ChainName,

	"u8":      PrimType,
	"u16":     PrimType,
	"u32":     PrimType,
	"u64":     PrimType,
	"u128":    PrimType,
	"u256":    PrimType,
	"i8":      PrimType,
	"i16":     PrimType,
	"i32":     PrimType,
	"i64":     PrimType,
	"i128":    PrimType,
	"i256":    PrimType,
	"bool":    PrimType,
	"String":  PrimType,
	"Address": PrimType,
	"Bytes":   PrimType,

	"tensor":  MLOp,
	"matmul":  MLOp,
	"conv2d":  MLOp,
	"relu":    MLOp,
	"sigmoid": MLOp,
	"softmax": MLOp,
}

// keywordLexemes is the reverse table for Kind.String on keyword kinds.
// Class kinds (ChainName, PrimType, MLOp) are named in kindNames instead.
var keywordLexemes = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords))
	for lexeme, kind := range keywords {
		switch kind {
		case ChainName, PrimType, MLOp:
			continue
		}
		m[kind] = lexeme
	}
	return m
}()

// Lookup resolves an identifier lexeme to its reserved kind, or Ident.
func Lookup(lexeme string) Kind {
	if k, ok := keywords[lexeme]; ok {
		return k
	}
	return Ident
}

// Token is a single lexeme with its position. Start and End are byte
// offsets into the source; Line and Column are 1-based.
type Token struct {
	Lexeme string
	Kind   Kind
	Line   int
	Column int
	Start  int
	End    int
}

// IsItemStart reports whether the token can begin a top-level item or a
// statement. The parser's error synchronization resumes at these tokens.
func (t Token) IsItemStart() bool {
	switch t.Kind {
	case KwContract, KwFn, KwStruct, KwEnum, KwTrait, KwImpl, KwUse,
		KwConst, KwModule, KwLet, KwReturn, KwIndex, KwQuery:
		return true
	}
	return false
}

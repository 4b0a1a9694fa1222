package syntax

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral

	// Operators
	TokenPlus                // +
	TokenMinus               // -
	TokenStar                // *
	TokenSlash               // /
	TokenPercent             // %
	TokenAmpersand           // &
	TokenPipe                // |
	TokenCaret               // ^
	TokenTilde               // ~
	TokenBang                // !
	TokenEqual               // =
	TokenLess                // <
	TokenGreater             // >
	TokenDot                 // .
	TokenComma               // ,
	TokenColon               // :
	TokenSemicolon           // ;
	TokenAt                  // @
	TokenArrow               // ->
	TokenPlusPlus            // ++
	TokenMinusMinus          // --
	TokenEqualEqual          // ==
	TokenBangEqual           // !=
	TokenLessEqual           // <=
	TokenGreaterEqual        // >=
	TokenAmpAmp              // &&
	TokenPipePipe            // ||
	TokenLessLess            // <<
	TokenGreaterGreater      // >>
	TokenPlusEqual           // +=
	TokenMinusEqual          // -=
	TokenStarEqual           // *=
	TokenSlashEqual          // /=
	TokenPercentEqual        // %=
	TokenAmpEqual            // &=
	TokenPipeEqual           // |=
	TokenCaretEqual          // ^=
	TokenLessLessEqual       // <<=
	TokenGreaterGreaterEqual // >>=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// Keywords
	TokenAlias
	TokenBreak
	TokenCase
	TokenConst
	TokenConstAssert
	TokenContinue
	TokenContinuing
	TokenDefault
	TokenDiagnostic
	TokenDiscard
	TokenElse
	TokenEnable
	TokenFalse
	TokenFn
	TokenFor
	TokenIf
	TokenLet
	TokenLoop
	TokenOverride
	TokenRequires
	TokenReturn
	TokenStruct
	TokenSwitch
	TokenTrue
	TokenVar
	TokenWhile
)

var keywords = map[string]TokenKind{
	"alias":        TokenAlias,
	"break":        TokenBreak,
	"case":         TokenCase,
	"const":        TokenConst,
	"const_assert": TokenConstAssert,
	"continue":     TokenContinue,
	"continuing":   TokenContinuing,
	"default":      TokenDefault,
	"diagnostic":   TokenDiagnostic,
	"discard":      TokenDiscard,
	"else":         TokenElse,
	"enable":       TokenEnable,
	"false":        TokenFalse,
	"fn":           TokenFn,
	"for":          TokenFor,
	"if":           TokenIf,
	"let":          TokenLet,
	"loop":         TokenLoop,
	"override":     TokenOverride,
	"requires":     TokenRequires,
	"return":       TokenReturn,
	"struct":       TokenStruct,
	"switch":       TokenSwitch,
	"true":         TokenTrue,
	"var":          TokenVar,
	"while":        TokenWhile,
}

var punctuation = map[TokenKind]string{
	TokenPlus: "+", TokenMinus: "-", TokenStar: "*", TokenSlash: "/", TokenPercent: "%",
	TokenAmpersand: "&", TokenPipe: "|", TokenCaret: "^", TokenTilde: "~", TokenBang: "!",
	TokenEqual: "=", TokenLess: "<", TokenGreater: ">", TokenDot: ".", TokenComma: ",",
	TokenColon: ":", TokenSemicolon: ";", TokenAt: "@", TokenArrow: "->",
	TokenPlusPlus: "++", TokenMinusMinus: "--", TokenEqualEqual: "==", TokenBangEqual: "!=",
	TokenLessEqual: "<=", TokenGreaterEqual: ">=", TokenAmpAmp: "&&", TokenPipePipe: "||",
	TokenLessLess: "<<", TokenGreaterGreater: ">>", TokenPlusEqual: "+=", TokenMinusEqual: "-=",
	TokenStarEqual: "*=", TokenSlashEqual: "/=", TokenPercentEqual: "%=", TokenAmpEqual: "&=",
	TokenPipeEqual: "|=", TokenCaretEqual: "^=", TokenLessLessEqual: "<<=",
	TokenGreaterGreaterEqual: ">>=",
	TokenLeftParen: "(", TokenRightParen: ")", TokenLeftBrace: "{", TokenRightBrace: "}",
	TokenLeftBracket: "[", TokenRightBracket: "]",
}

// String returns the source spelling of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenIntLiteral:
		return "integer literal"
	case TokenFloatLiteral:
		return "float literal"
	}
	if s, ok := punctuation[k]; ok {
		return s
	}
	for word, kind := range keywords {
		if kind == k {
			return word
		}
	}
	return "unknown"
}

// Token represents a lexical token.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}

// Pos returns the position of the token.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

// Position is a 1-based line and column in the source.
type Position struct {
	Line   int
	Column int
}

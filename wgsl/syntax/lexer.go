package syntax

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes WGSL source code.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int

	startLine   int
	startColumn int

	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, max(len(source)/6, 16)),
	}
}

// operators maps operator spellings to tokens, longest first per leading
// character.
var operators = map[rune][]struct {
	text string
	kind TokenKind
}{
	'+': {{"++", TokenPlusPlus}, {"+=", TokenPlusEqual}, {"+", TokenPlus}},
	'-': {{"--", TokenMinusMinus}, {"-=", TokenMinusEqual}, {"->", TokenArrow}, {"-", TokenMinus}},
	'*': {{"*=", TokenStarEqual}, {"*", TokenStar}},
	'/': {{"/=", TokenSlashEqual}, {"/", TokenSlash}},
	'%': {{"%=", TokenPercentEqual}, {"%", TokenPercent}},
	'&': {{"&&", TokenAmpAmp}, {"&=", TokenAmpEqual}, {"&", TokenAmpersand}},
	'|': {{"||", TokenPipePipe}, {"|=", TokenPipeEqual}, {"|", TokenPipe}},
	'^': {{"^=", TokenCaretEqual}, {"^", TokenCaret}},
	'~': {{"~", TokenTilde}},
	'!': {{"!=", TokenBangEqual}, {"!", TokenBang}},
	'=': {{"==", TokenEqualEqual}, {"=", TokenEqual}},
	'<': {{"<<=", TokenLessLessEqual}, {"<<", TokenLessLess}, {"<=", TokenLessEqual}, {"<", TokenLess}},
	'>': {{">>=", TokenGreaterGreaterEqual}, {">>", TokenGreaterGreater}, {">=", TokenGreaterEqual}, {">", TokenGreater}},
	'.': {{".", TokenDot}},
	',': {{",", TokenComma}},
	':': {{":", TokenColon}},
	';': {{";", TokenSemicolon}},
	'@': {{"@", TokenAt}},
	'(': {{"(", TokenLeftParen}},
	')': {{")", TokenRightParen}},
	'{': {{"{", TokenLeftBrace}},
	'}': {{"}", TokenRightBrace}},
	'[': {{"[", TokenLeftBracket}},
	']': {{"]", TokenRightBracket}},
}

// Tokenize returns all tokens from the source, ending with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		if err := l.skipTrivia(); err != nil {
			return nil, err
		}
		if l.isAtEnd() {
			break
		}
		l.start = l.pos
		l.startLine, l.startColumn = l.line, l.column
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Line: l.line, Column: l.column})
	return l.tokens, nil
}

// skipTrivia skips whitespace and comments. Block comments nest.
func (l *Lexer) skipTrivia() error {
	for !l.isAtEnd() {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekNext() == '*':
			open := Position{Line: l.line, Column: l.column}
			l.advance()
			l.advance()
			for depth := 1; depth > 0; {
				if l.isAtEnd() {
					return &Error{Pos: open, Message: "unterminated block comment"}
				}
				switch {
				case l.peek() == '/' && l.peekNext() == '*':
					l.advance()
					l.advance()
					depth++
				case l.peek() == '*' && l.peekNext() == '/':
					l.advance()
					l.advance()
					depth--
				default:
					l.advance()
				}
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scanToken() error {
	r := l.peek()
	switch {
	case isDigit(r), r == '.' && isDigit(l.peekNext()):
		return l.number()
	case unicode.IsLetter(r) || r == '_':
		l.identifier()
		return nil
	}
	for _, op := range operators[r] {
		if len(l.source)-l.pos >= len(op.text) && l.source[l.pos:l.pos+len(op.text)] == op.text {
			for range op.text {
				l.advance()
			}
			l.addToken(op.kind)
			return nil
		}
	}
	return &Error{Pos: Position{Line: l.line, Column: l.column}, Message: "unexpected character " + string(r)}
}

// number scans decimal and hexadecimal literals with their suffixes.
func (l *Lexer) number() error {
	if l.peek() == '0' && (l.peekNext() == 'x' || l.peekNext() == 'X') {
		l.advance()
		l.advance()
		if !isHexDigit(l.peek()) {
			return &Error{Pos: Position{Line: l.startLine, Column: l.startColumn}, Message: "hexadecimal literal without digits"}
		}
		for isHexDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 'i' || l.peek() == 'u' {
			l.advance()
		}
		l.addToken(TokenIntLiteral)
		return nil
	}

	float := false
	l.digits()
	if l.peek() == '.' && !unicode.IsLetter(l.peekNext()) && l.peekNext() != '_' {
		float = true
		l.advance()
		l.digits()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		float = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			return &Error{Pos: Position{Line: l.startLine, Column: l.startColumn}, Message: "exponent without digits"}
		}
		l.digits()
	}
	switch l.peek() {
	case 'f', 'h':
		l.advance()
		l.addToken(TokenFloatLiteral)
		return nil
	case 'i', 'u':
		if float {
			return &Error{Pos: Position{Line: l.line, Column: l.column}, Message: "integer suffix on a float literal"}
		}
		l.advance()
	}
	if float {
		l.addToken(TokenFloatLiteral)
	} else {
		l.addToken(TokenIntLiteral)
	}
	return nil
}

func (l *Lexer) digits() {
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) identifier() {
	for r := l.peek(); unicode.IsLetter(r) || isDigit(r) || r == '_'; r = l.peek() {
		l.advance()
	}
	kind := TokenIdent
	if k, ok := keywords[l.source[l.start:l.pos]]; ok {
		kind = k
	}
	l.addToken(kind)
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   l.startLine,
		Column: l.startColumn,
	})
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if l.pos+size >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

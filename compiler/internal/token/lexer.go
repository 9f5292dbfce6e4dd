package token

import (
	"unicode/utf8"

	"github.com/chainweave/chaindsl/errors"
)

// scanner is the cursor threaded through the scanning helpers. It is local
// to a single Tokenize call; the lexer keeps no state between calls.
type scanner struct {
	src  string
	off  int
	line int
	col  int
}

func (s *scanner) eof() bool {
	return s.off >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.off]
}

func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

// advance moves past one byte, maintaining line/column bookkeeping.
func (s *scanner) advance() byte {
	c := s.src[s.off]
	s.off++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

// Tokenize converts DSL source text into a flat token stream. The stream
// always ends with an EOF token and never contains newline or comment
// tokens. A lexical error (illegal character, unterminated string) aborts
// the scan; the lexer does not attempt recovery.
func Tokenize(source string) ([]Token, error) {
	return TokenizeLimit(source, 0)
}

// TokenizeLimit is Tokenize with a maximum token count; limit 0 means
// unlimited. DSL source is untrusted input, so callers that accept it over
// the wire should set a limit.
func TokenizeLimit(source string, limit int) ([]Token, error) {
	s := &scanner{src: source, line: 1, col: 1}
	var tokens []Token

	for !s.eof() {
		c := s.peek()

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
			continue
		case c == '/' && s.peekAt(1) == '/':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
			continue
		}

		tok, err := scanToken(s)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		if limit > 0 && len(tokens) > limit {
			return nil, errors.New(errors.PhaseLex, errors.KindTokenLimit).
				At(tok.Line, tok.Column).
				Detail("token count exceeds limit %d", limit).
				Build()
		}
	}

	tokens = append(tokens, Token{
		Kind:   EOF,
		Line:   s.line,
		Column: s.col,
		Start:  s.off,
		End:    s.off,
	})
	return tokens, nil
}

func scanToken(s *scanner) (Token, error) {
	start, line, col := s.off, s.line, s.col
	c := s.peek()

	emit := func(kind Kind) Token {
		return Token{
			Lexeme: s.src[start:s.off],
			Kind:   kind,
			Line:   line,
			Column: col,
			Start:  start,
			End:    s.off,
		}
	}

	switch {
	case isLetter(c):
		for !s.eof() && isIdentByte(s.peek()) {
			s.advance()
		}
		tok := emit(Ident)
		tok.Kind = Lookup(tok.Lexeme)
		return tok, nil

	case isDigit(c):
		// 0x... lexes as an address literal, distinct from generic integers
		if c == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') {
			s.advance()
			s.advance()
			hexStart := s.off
			for !s.eof() && isHexDigit(s.peek()) {
				s.advance()
			}
			if s.off == hexStart {
				return Token{}, errors.New(errors.PhaseLex, errors.KindInvalidData).
					At(line, col).
					Detail("address literal has no hex digits").
					Build()
			}
			return emit(AddressLit), nil
		}
		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}
		if s.peek() == '.' && isDigit(s.peekAt(1)) {
			s.advance()
			for !s.eof() && isDigit(s.peek()) {
				s.advance()
			}
			return emit(FloatLit), nil
		}
		return emit(IntLit), nil

	case c == '"' || c == '\'':
		quote := c
		s.advance()
		for !s.eof() && s.peek() != quote {
			if s.peek() == '\\' {
				s.advance()
				if s.eof() {
					break
				}
			}
			s.advance()
		}
		if s.eof() {
			return Token{}, errors.UnterminatedString(line, col)
		}
		s.advance() // closing quote
		tok := emit(StringLit)
		tok.Lexeme = s.src[start+1 : s.off-1] // strip delimiters, escapes pass through
		return tok, nil
	}

	s.advance()
	two := func(kind Kind) Token {
		s.advance()
		return emit(kind)
	}

	switch c {
	case '(':
		return emit(LParen), nil
	case ')':
		return emit(RParen), nil
	case '{':
		return emit(LBrace), nil
	case '}':
		return emit(RBrace), nil
	case '[':
		return emit(LBracket), nil
	case ']':
		return emit(RBracket), nil
	case ',':
		return emit(Comma), nil
	case '.':
		return emit(Dot), nil
	case ';':
		return emit(Semicolon), nil
	case ':':
		if s.peek() == ':' {
			return two(ColonColon), nil
		}
		return emit(Colon), nil
	case '+':
		return emit(Plus), nil
	case '-':
		if s.peek() == '>' {
			return two(Arrow), nil
		}
		return emit(Minus), nil
	case '*':
		return emit(Star), nil
	case '/':
		return emit(Slash), nil
	case '%':
		return emit(Percent), nil
	case '=':
		if s.peek() == '=' {
			return two(Eq), nil
		}
		if s.peek() == '>' {
			return two(FatArrow), nil
		}
		return emit(Assign), nil
	case '!':
		if s.peek() == '=' {
			return two(NotEq), nil
		}
		return emit(Not), nil
	case '<':
		if s.peek() == '=' {
			return two(LtEq), nil
		}
		return emit(Lt), nil
	case '>':
		if s.peek() == '=' {
			return two(GtEq), nil
		}
		return emit(Gt), nil
	case '&':
		if s.peek() == '&' {
			return two(AndAnd), nil
		}
		return emit(Amp), nil
	case '|':
		if s.peek() == '|' {
			return two(OrOr), nil
		}
	}

	r, _ := utf8.DecodeRuneInString(s.src[start:])
	return Token{}, errors.IllegalChar(line, col, r)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isIdentByte(c byte) bool {
	return isLetter(c) || isDigit(c)
}

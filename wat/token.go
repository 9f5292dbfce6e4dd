package wat

type tokenKind int

const (
	tkLParen tokenKind = iota
	tkRParen
	tkAtom   // identifiers, instruction names, numbers, offset= forms
	tkString // quoted, delimiters stripped
)

type watToken struct {
	value string
	kind  tokenKind
	line  int
}

// tokenize splits WAT source into s-expression tokens, discarding
// whitespace and ";;" line comments.
func tokenize(src string) []watToken {
	var tokens []watToken
	line := 1

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\n':
			line++
		case c == ' ' || c == '\t' || c == '\r':
		case c == ';' && i+1 < len(src) && src[i+1] == ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			line++
		case c == '(':
			tokens = append(tokens, watToken{"(", tkLParen, line})
		case c == ')':
			tokens = append(tokens, watToken{")", tkRParen, line})
		case c == '"':
			start := i + 1
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			tokens = append(tokens, watToken{src[start:i], tkString, line})
		default:
			// Consume the current byte unconditionally so a stray delimiter
			// like a lone ';' becomes a one-byte atom the parser rejects,
			// instead of stalling the scan.
			start := i
			i++
			for i < len(src) && !isDelim(src[i]) {
				i++
			}
			tokens = append(tokens, watToken{src[start:i], tkAtom, line})
			i--
		}
	}
	return tokens
}

func isDelim(c byte) bool {
	return c == '(' || c == ')' || c == '"' || c == ' ' || c == '\t' ||
		c == '\r' || c == '\n' || c == ';'
}

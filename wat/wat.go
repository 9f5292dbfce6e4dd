package wat

// Assemble compiles WAT text into a binary module.
func Assemble(source string) ([]byte, error) {
	tokens := tokenize(source)
	mod, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	return encode(mod)
}

package main

// Parse parses and type checks src. The first error aborts the parse and is
// returned as a *CompileError.
func Parse(src string) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*CompileError)
			if !ok {
				panic(r)
			}
			prog, err = nil, ce
		}
	}()
	return NewParser(src).ParseProgram(), nil
}

// Compile translates a whole source buffer into target text.
func Compile(src string) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	return Generate(prog).String(), nil
}

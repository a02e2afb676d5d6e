package main

var reservedWords = map[string]bool{
	"var":    true,
	"if":     true,
	"else":   true,
	"while":  true,
	"return": true,
	"func":   true,
	"class":  true,
	"true":   true,
	"false":  true,
}

// ParseProgram parses top-level functions and classes until end of input.
func (p *Parser) ParseProgram() *Program {
	for {
		p.s.SkipWhitespace()
		if p.s.AtEOF() {
			return p.prog
		}
		switch {
		case p.s.StartsWithKeyword("func"):
			p.parseFunction(nil)
		case p.s.StartsWithKeyword("class"):
			p.parseClass()
		default:
			p.s.Errorf(SyntaxError, "expected 'func' or 'class'")
		}
	}
}

// parseName consumes an identifier that names a new declaration.
func (p *Parser) parseName(what string) (string, Mark) {
	p.s.SkipWhitespace()
	mark := p.s.Mark()
	name, ok := p.s.Identifier()
	if !ok {
		p.s.Errorf(SyntaxError, "expected %s name", what)
	}
	if reservedWords[name] {
		p.s.ErrorAt(mark, SyntaxError, "'%s' is a reserved word", name)
	}
	return name, mark
}

func (p *Parser) parseType() Type {
	p.s.SkipWhitespace()
	mark := p.s.Mark()
	name, ok := p.s.Identifier()
	if !ok {
		p.s.Errorf(SyntaxError, "expected type name")
	}
	t, ok := p.scope.LookupType(name)
	if !ok {
		p.s.ErrorAt(mark, SemanticError, "unknown type '%s'", name)
	}
	return t
}

// parseFunction parses a function after the "func" keyword. Inside a class
// body, method is the receiver class and "this" becomes the first argument.
func (p *Parser) parseFunction(method *Class) {
	name, nameMark := p.parseName("function")
	p.s.SkipWhitespace()
	p.s.Expect("(")

	var (
		argNames []string
		argTypes []Type
		argMarks []Mark
	)
	if method != nil {
		argNames = append(argNames, "this")
		argTypes = append(argTypes, ClassType(method))
		argMarks = append(argMarks, nameMark)
	}
	for {
		p.s.SkipWhitespace()
		if p.s.StartsWith(")") {
			break
		}
		argName, argMark := p.parseName("argument")
		p.s.SkipWhitespace()
		p.s.Expect(":")
		p.s.SkipWhitespace()
		typeMark := p.s.Mark()
		t := p.parseType()
		if t == TypeVoid {
			p.s.ErrorAt(typeMark, SemanticError, "argument '%s' cannot have type Void", argName)
		}
		argNames = append(argNames, argName)
		argTypes = append(argTypes, t)
		argMarks = append(argMarks, argMark)
	}

	ret := TypeVoid
	p.s.SkipWhitespace()
	if p.s.StartsWith(":") {
		ret = p.parseType()
	}

	decl, err := p.prog.Declare(&FuncDecl{Name: name, Args: argTypes, Return: ret, Method: method})
	if err != nil {
		p.s.ErrorAt(nameMark, SemanticError, "%s", err)
	}

	p.s.SkipWhitespace()
	if !p.s.Matches("{") {
		if method != nil {
			p.s.Errorf(SyntaxError, "expected '{'")
		}
		return
	}
	// Registered before the body so the function can call itself.
	if err := p.prog.Define(decl); err != nil {
		p.s.ErrorAt(nameMark, SemanticError, "%s", err)
	}

	fn := &Function{Decl: decl, Body: &Block{}}
	p.s.Expect("{")
	p.scope.EnterFunction(fn)
	p.scope.EnterBlock(fn.Body)
	for i, argName := range argNames {
		v, err := p.scope.AddVariable(argName, argTypes[i])
		if err != nil {
			p.s.ErrorAt(argMarks[i], SemanticError, "%s", err)
		}
		fn.Args = append(fn.Args, v)
	}
	p.parseStatements(fn.Body)
	p.scope.LeaveBlock()
	p.scope.LeaveFunction()

	if ret != TypeVoid && !fn.Body.Returns {
		p.s.ErrorAt(nameMark, SemanticError, "missing return statement in function '%s'", name)
	}
	p.prog.Functions = append(p.prog.Functions, fn)
	if method != nil {
		method.Methods = append(method.Methods, fn)
	}
}

// parseClass parses a class after the "class" keyword. The class is
// registered first so its methods can name it.
func (p *Parser) parseClass() {
	name, nameMark := p.parseName("class")
	cls := &Class{Name: name}
	if err := p.prog.AddClass(cls); err != nil {
		p.s.ErrorAt(nameMark, SemanticError, "%s", err)
	}

	p.s.SkipWhitespace()
	p.s.Expect("{")
	p.scope.EnterClass(cls)
	for {
		p.s.SkipWhitespace()
		if p.s.StartsWith("}") {
			break
		}
		switch {
		case p.s.StartsWithKeyword("var"):
			p.parseAttribute(cls)
		case p.s.StartsWithKeyword("func"):
			p.parseFunction(cls)
		case p.s.AtEOF():
			p.s.Errorf(SyntaxError, "expected '}'")
		default:
			p.s.Errorf(SyntaxError, "expected 'var' or 'func' in class body")
		}
		p.s.SkipWhitespace()
		p.s.StartsWith(";")
	}
	p.scope.LeaveClass()
}

func (p *Parser) parseAttribute(cls *Class) {
	name, nameMark := p.parseName("attribute")
	if _, _, ok := cls.Attribute(name); ok {
		p.s.ErrorAt(nameMark, SemanticError, "attribute '%s' already defined", name)
	}
	p.s.SkipWhitespace()
	p.s.Expect("=")
	p.s.SkipWhitespace()
	valueMark := p.s.Mark()
	value := p.parseExpr(levelOr)
	if value.Type() == TypeVoid {
		p.s.ErrorAt(valueMark, SemanticError, "attribute '%s' cannot have type Void", name)
	}
	cls.Attributes = append(cls.Attributes, &Attribute{
		Var:     &Variable{Name: name, Type: value.Type(), Slot: len(cls.Attributes)},
		Default: value,
	})
}

// parseBlock parses "{ statements }" in a fresh scope frame.
func (p *Parser) parseBlock() *Block {
	p.s.SkipWhitespace()
	p.s.Expect("{")
	b := &Block{}
	p.scope.EnterBlock(b)
	p.parseStatements(b)
	p.scope.LeaveBlock()
	return b
}

// parseStatements parses statements up to and including the closing brace.
// Nothing but the brace may follow a return.
func (p *Parser) parseStatements(b *Block) {
	for {
		p.s.SkipWhitespace()
		if p.s.StartsWith("}") {
			return
		}
		if p.s.AtEOF() {
			p.s.Errorf(SyntaxError, "expected '}'")
		}
		if b.Returns {
			p.s.Errorf(SyntaxError, "expected '}' after return statement")
		}
		p.parseStatement(b)
		p.s.SkipWhitespace()
		p.s.StartsWith(";")
	}
}

func (p *Parser) parseStatement(b *Block) {
	switch {
	case p.s.StartsWithKeyword("var"):
		p.parseVar(b)
	case p.s.StartsWithKeyword("if"):
		p.parseIf(b)
	case p.s.StartsWithKeyword("while"):
		p.parseWhile(b)
	case p.s.StartsWithKeyword("return"):
		p.parseReturn(b)
	default:
		b.Stmts = append(b.Stmts, &ExprStmt{Expr: p.parseExpr(levelAssign)})
	}
}

func (p *Parser) parseVar(b *Block) {
	name, nameMark := p.parseName("variable")
	p.s.SkipWhitespace()
	p.s.Expect("=")
	p.s.SkipWhitespace()
	initMark := p.s.Mark()
	init := p.parseExpr(levelOr)
	if init.Type() == TypeVoid {
		p.s.ErrorAt(initMark, SemanticError, "cannot initialize variable '%s' with Void", name)
	}

	// Added after the initializer: "var x = x" reads the outer x.
	v, err := p.scope.AddVariable(name, init.Type())
	if err != nil {
		p.s.ErrorAt(nameMark, SemanticError, "%s", err)
	}
	b.Stmts = append(b.Stmts, &ExprStmt{Expr: &Assign{Target: &VarRef{Var: v}, Value: init}})
}

func (p *Parser) parseCondition(keyword string) Expr {
	p.s.SkipWhitespace()
	mark := p.s.Mark()
	cond := p.parseExpr(levelAssign)
	if cond.Type() != TypeBool {
		p.s.ErrorAt(mark, SemanticError, "%s condition must be Bool, not %s", keyword, cond.Type())
	}
	return cond
}

// parseIf parses an if statement after the "if" keyword. When every branch
// returns, so does the enclosing block.
func (p *Parser) parseIf(b *Block) {
	stmt := &If{Cond: p.parseCondition("if")}
	stmt.Then = p.parseBlock()

	p.s.SkipWhitespace()
	if p.s.StartsWithKeyword("else") {
		p.s.SkipWhitespace()
		if p.s.StartsWithKeyword("if") {
			stmt.Else = &Block{}
			p.scope.EnterBlock(stmt.Else)
			p.parseIf(stmt.Else)
			p.scope.LeaveBlock()
		} else {
			stmt.Else = p.parseBlock()
		}
	}

	b.Stmts = append(b.Stmts, stmt)
	if stmt.Else != nil && stmt.Then.Returns && stmt.Else.Returns {
		b.Returns = true
	}
}

func (p *Parser) parseWhile(b *Block) {
	stmt := &While{Cond: p.parseCondition("while")}
	stmt.Body = p.parseBlock()
	b.Stmts = append(b.Stmts, stmt)
}

func (p *Parser) parseReturn(b *Block) {
	fn := p.scope.Function()
	want := fn.Decl.Return

	p.s.SkipWhitespace()
	mark := p.s.Mark()
	stmt := &Return{}
	// A bare return is only allowed in Void functions.
	if c := p.s.Cur(); want != TypeVoid || (c != '}' && c != ';' && c != 0) {
		stmt.Value = p.parseExpr(levelAssign)
		if got := stmt.Value.Type(); got != want {
			p.s.ErrorAt(mark, SemanticError, "cannot return %s from function '%s' returning %s", got, fn.Decl.Name, want)
		}
	}
	b.Stmts = append(b.Stmts, stmt)
	b.Returns = true
}

package main

// Parser is the single pass over the source: it drives the scanner, resolves
// names through the scope and type checks every node as it is built.
type Parser struct {
	s     *Scanner
	scope *Scope
	prog  *Program
}

func NewParser(src string) *Parser {
	prog := NewProgram()
	return &Parser{
		s:     NewScanner(src),
		scope: NewScope(prog),
		prog:  prog,
	}
}

// binaryOp is one entry of a precedence level. Entries are tried in order
// and the first literal that matches wins, so longer operators sharing a
// prefix with a shorter one must come first.
type binaryOp struct {
	lit   string
	build func(left, right Expr) Expr
}

func arith(op ArithOp) func(l, r Expr) Expr {
	return func(l, r Expr) Expr { return &Arith{Op: op, Left: l, Right: r} }
}

func compare(op CompareOp) func(l, r Expr) Expr {
	return func(l, r Expr) Expr { return &Compare{Op: op, Left: l, Right: r} }
}

// precedenceLevels lists the binary operators from the lowest binding level
// to the highest. The level after the last one is the terminal level.
var precedenceLevels = [][]binaryOp{
	{
		{"=", func(l, r Expr) Expr { return &Assign{Target: l, Value: r} }},
	},
	{
		{"||", func(l, r Expr) Expr { return &Or{Left: l, Right: r} }},
	},
	{
		{"&&", func(l, r Expr) Expr { return &And{Left: l, Right: r} }},
	},
	{
		{"==", compare(OpEq)},
		{"!=", compare(OpNe)},
		{"<=", compare(OpLe)},
		{">=", compare(OpGe)},
		{"<", compare(OpLt)},
		{">", compare(OpGt)},
	},
	{
		{"+", arith(OpAdd)},
		{"-", arith(OpSub)},
	},
	{
		{"*", arith(OpMul)},
		{"/", arith(OpDiv)},
		{"%", arith(OpRem)},
	},
}

const (
	levelAssign = 0
	levelOr     = 1
)

// ParseExpression parses an expression at the lowest precedence level.
func (p *Parser) ParseExpression() Expr {
	return p.parseExpr(levelAssign)
}

func (p *Parser) parseExpr(level int) Expr {
	if level == len(precedenceLevels) {
		return p.parseTerminal()
	}

	left := p.parseExpr(level + 1)
	for {
		p.s.SkipWhitespace()
		mark := p.s.Mark()
		op, ok := p.matchOperator(precedenceLevels[level])
		if !ok {
			return left
		}
		right := p.parseExpr(level + 1)
		left = p.check(mark, op.build(left, right))
	}
}

func (p *Parser) matchOperator(ops []binaryOp) (binaryOp, bool) {
	for _, op := range ops {
		if !p.s.Matches(op.lit) {
			continue
		}
		// A lone "=" must not eat the first half of "==".
		if op.lit == "=" && p.s.Peek(1) == '=' {
			continue
		}
		p.s.AdvanceN(len(op.lit))
		return op, true
	}
	return binaryOp{}, false
}

// check validates a freshly built node and aborts at mark if the operand
// rules are violated.
func (p *Parser) check(mark Mark, e Expr) Expr {
	if err := validate(e); err != nil {
		p.s.ErrorAt(mark, SemanticError, "%s", err)
	}
	return e
}

func (p *Parser) parseTerminal() Expr {
	p.s.SkipWhitespace()
	mark := p.s.Mark()

	var e Expr
	switch c := p.s.Cur(); {
	case p.s.StartsWith("("):
		e = p.parseExpr(levelAssign)
		p.s.SkipWhitespace()
		p.s.Expect(")")
	case p.s.StartsWithKeyword("true"):
		e = &BoolLit{Value: true}
	case p.s.StartsWithKeyword("false"):
		e = &BoolLit{Value: false}
	case isDigit(c):
		e = &NumberLit{Value: p.s.Number()}
	case isIdentStart(c):
		name, _ := p.s.Identifier()
		e = p.parseIdentifier(mark, name)
	case p.s.AtEOF():
		p.s.Errorf(SyntaxError, "unexpected end of input")
	default:
		p.s.Errorf(LexicalError, "unexpected character '%c'", c)
	}
	return p.parsePostfix(e)
}

// parseIdentifier resolves a bare identifier: a variable, an attribute of
// the receiver inside a method, a call, or a class instantiation.
func (p *Parser) parseIdentifier(mark Mark, name string) Expr {
	if v := p.scope.LookupVariable(name); v != nil {
		return &VarRef{Var: v}
	}
	if cls := p.scope.MethodClass(); cls != nil {
		if idx, _, ok := cls.Attribute(name); ok {
			this := p.scope.Function().Args[0]
			return &AttrAccess{Receiver: &VarRef{Var: this}, Class: cls, Index: idx}
		}
	}

	p.s.SkipWhitespace()
	if p.prog.HasFunction(name) && p.s.Matches("(") {
		return p.parseCall(mark, name, nil)
	}
	if cls := p.prog.Class(name); cls != nil && p.s.Matches("{") {
		return p.parseNew(mark, cls)
	}
	p.s.ErrorAt(mark, SemanticError, "undefined identifier '%s'", name)
	panic("unreachable")
}

// parseCall parses an argument list and resolves the overload. A non-nil
// receiver becomes the first argument.
func (p *Parser) parseCall(mark Mark, name string, receiver Expr) Expr {
	p.s.Expect("(")
	var args []Expr
	if receiver != nil {
		args = append(args, receiver)
	}
	for {
		p.s.SkipWhitespace()
		if p.s.StartsWith(")") {
			break
		}
		argMark := p.s.Mark()
		arg := p.parseExpr(levelAssign)
		if arg.Type() == TypeVoid {
			p.s.ErrorAt(argMark, SemanticError, "argument of type Void in call to '%s'", name)
		}
		args = append(args, arg)
	}

	types := make([]Type, len(args))
	for i, arg := range args {
		types[i] = arg.Type()
	}
	decl := p.prog.Lookup(name, types)
	if decl == nil {
		p.s.ErrorAt(mark, SemanticError, "no matching function for call to '%s(%s)'", name, joinTypes(types))
	}
	return p.check(mark, &Call{Func: decl, Args: args})
}

// parseNew parses "Class{}" or "Class{attr = expr ...}".
func (p *Parser) parseNew(mark Mark, cls *Class) Expr {
	p.s.Expect("{")
	if p.scope.Class() == cls && p.scope.Function() == nil {
		p.s.ErrorAt(mark, SemanticError, "class '%s' cannot be instantiated in its own definition", cls.Name)
	}

	var overrides []Override
	seen := make(map[int]bool)
	for {
		p.s.SkipWhitespace()
		if p.s.StartsWith("}") {
			break
		}
		attrMark := p.s.Mark()
		name, ok := p.s.Identifier()
		if !ok {
			p.s.Errorf(SyntaxError, "expected attribute name or '}'")
		}
		idx, _, ok := cls.Attribute(name)
		if !ok {
			p.s.ErrorAt(attrMark, SemanticError, "class '%s' has no attribute '%s'", cls.Name, name)
		}
		if seen[idx] {
			p.s.ErrorAt(attrMark, SemanticError, "attribute '%s' given more than once", name)
		}
		seen[idx] = true

		p.s.SkipWhitespace()
		p.s.Expect("=")
		value := p.parseExpr(levelOr)
		overrides = append(overrides, Override{Index: idx, Value: value})
	}
	return p.check(mark, &New{Class: cls, Overrides: overrides})
}

// parsePostfix applies ".name" and ".name(args)" suffixes.
func (p *Parser) parsePostfix(e Expr) Expr {
	for {
		p.s.SkipWhitespace()
		mark := p.s.Mark()
		if !p.s.StartsWith(".") {
			return e
		}
		p.s.SkipWhitespace()
		name, ok := p.s.Identifier()
		if !ok {
			p.s.Errorf(SyntaxError, "expected member name after '.'")
		}

		if t := e.Type(); t.IsClass() {
			if idx, _, ok := t.Class.Attribute(name); ok {
				e = &AttrAccess{Receiver: e, Class: t.Class, Index: idx}
				continue
			}
		}
		p.s.SkipWhitespace()
		if p.prog.HasFunction(name) && p.s.Matches("(") {
			e = p.parseCall(mark, name, e)
			continue
		}
		p.s.ErrorAt(mark, SemanticError, "invalid member access '%s' on %s", name, e.Type())
	}
}

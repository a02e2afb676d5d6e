package main

import (
	"fmt"
	"strings"
)

// Expr is a typed expression node. The set of implementations is closed:
// every consumer switches over the concrete types below and panics on
// anything else.
type Expr interface {
	// Type is fixed at construction; repeated calls return the same type.
	Type() Type
	exprNode()
}

type (
	NumberLit struct {
		Value int64
	}

	BoolLit struct {
		Value bool
	}

	VarRef struct {
		Var *Variable
	}

	// Assign stores Value into Target and yields the stored value.
	Assign struct {
		Target Expr
		Value  Expr
	}

	Arith struct {
		Op          ArithOp
		Left, Right Expr
	}

	Compare struct {
		Op          CompareOp
		Left, Right Expr
	}

	And struct {
		Left, Right Expr
	}

	Or struct {
		Left, Right Expr
	}

	// Call holds the resolved overload. For receiver.name(...) calls the
	// receiver is Args[0].
	Call struct {
		Func *FuncDecl
		Args []Expr
	}

	// New instantiates Class. Attributes without an override take their
	// default value.
	New struct {
		Class     *Class
		Overrides []Override
	}

	AttrAccess struct {
		Receiver Expr
		Class    *Class
		Index    int
	}
)

type Override struct {
	Index int
	Value Expr
}

type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
)

func (op ArithOp) Symbol() string {
	return [...]string{"+", "-", "*", "/", "%"}[op]
}

func (op ArithOp) Instr() string {
	return [...]string{"add", "sub", "mul", "sdiv", "srem"}[op]
}

type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

func (op CompareOp) Symbol() string {
	return [...]string{"==", "!=", "<", ">", "<=", ">="}[op]
}

func (op CompareOp) Instr() string {
	return [...]string{"icmp eq", "icmp ne", "icmp slt", "icmp sgt", "icmp sle", "icmp sge"}[op]
}

func (*NumberLit) Type() Type    { return TypeInt }
func (*BoolLit) Type() Type      { return TypeBool }
func (e *VarRef) Type() Type     { return e.Var.Type }
func (e *Assign) Type() Type     { return e.Target.Type() }
func (*Arith) Type() Type        { return TypeInt }
func (*Compare) Type() Type      { return TypeBool }
func (*And) Type() Type          { return TypeBool }
func (*Or) Type() Type           { return TypeBool }
func (e *Call) Type() Type       { return e.Func.Return }
func (e *New) Type() Type        { return ClassType(e.Class) }
func (e *AttrAccess) Type() Type { return e.Attribute().Var.Type }

func (*NumberLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*VarRef) exprNode()     {}
func (*Assign) exprNode()     {}
func (*Arith) exprNode()      {}
func (*Compare) exprNode()    {}
func (*And) exprNode()        {}
func (*Or) exprNode()         {}
func (*Call) exprNode()       {}
func (*New) exprNode()        {}
func (*AttrAccess) exprNode() {}

func (e *AttrAccess) Attribute() *Attribute {
	return e.Class.Attributes[e.Index]
}

// Value returns the expression that initializes attribute i.
func (e *New) Value(i int) Expr {
	for _, o := range e.Overrides {
		if o.Index == i {
			return o.Value
		}
	}
	return e.Class.Attributes[i].Default
}

// hasAddress reports whether e is an lvalue.
func hasAddress(e Expr) bool {
	switch e.(type) {
	case *VarRef, *AttrAccess:
		return true
	default:
		return false
	}
}

// validate checks the operand rules of a freshly constructed node.
func validate(e Expr) error {
	switch e := e.(type) {
	case *NumberLit, *BoolLit, *VarRef, *AttrAccess:
		return nil

	case *Assign:
		if !hasAddress(e.Target) {
			return fmt.Errorf("left side of '=' is not assignable")
		}
		if e.Target.Type() != e.Value.Type() {
			return fmt.Errorf("cannot assign %s to %s", e.Value.Type(), e.Target.Type())
		}
		return nil

	case *Arith:
		if e.Left.Type() != TypeInt || e.Right.Type() != TypeInt {
			return invalidOperands(e.Op.Symbol(), e.Left, e.Right)
		}
		return nil

	case *Compare:
		l, r := e.Left.Type(), e.Right.Type()
		switch e.Op {
		case OpEq, OpNe:
			if l != r || (l != TypeInt && l != TypeBool) {
				return invalidOperands(e.Op.Symbol(), e.Left, e.Right)
			}
		default:
			if l != TypeInt || r != TypeInt {
				return invalidOperands(e.Op.Symbol(), e.Left, e.Right)
			}
		}
		return nil

	case *And:
		if e.Left.Type() != TypeBool || e.Right.Type() != TypeBool {
			return invalidOperands("&&", e.Left, e.Right)
		}
		return nil

	case *Or:
		if e.Left.Type() != TypeBool || e.Right.Type() != TypeBool {
			return invalidOperands("||", e.Left, e.Right)
		}
		return nil

	case *Call:
		if len(e.Args) != len(e.Func.Args) {
			return fmt.Errorf("wrong number of arguments in call to '%s'", e.Func.Signature())
		}
		for i, arg := range e.Args {
			if arg.Type() != e.Func.Args[i] {
				return fmt.Errorf("argument %d of call to '%s' has type %s", i+1, e.Func.Signature(), arg.Type())
			}
		}
		return nil

	case *New:
		for _, o := range e.Overrides {
			attr := e.Class.Attributes[o.Index]
			if o.Value.Type() != attr.Var.Type {
				return fmt.Errorf("cannot assign %s to attribute '%s' of type %s", o.Value.Type(), attr.Var.Name, attr.Var.Type)
			}
		}
		return nil

	default:
		panic(fmt.Sprintf("validate: unexpected expression %T", e))
	}
}

func invalidOperands(op string, left, right Expr) error {
	return fmt.Errorf("invalid operands to '%s': %s and %s", op, left.Type(), right.Type())
}

// Stmt is a statement node. Like Expr, the set is closed.
type Stmt interface {
	stmtNode()
}

type (
	ExprStmt struct {
		Expr Expr
	}

	// Return has a nil Value in Void functions.
	Return struct {
		Value Expr
	}

	If struct {
		Cond Expr
		Then *Block
		Else *Block // nil without an else branch
	}

	While struct {
		Cond Expr
		Body *Block
	}

	Block struct {
		Stmts []Stmt
		Vars  []*Variable // locals declared directly in this block

		// Returns is set once an unconditional return is parsed in the
		// block. No statements may follow it.
		Returns bool
	}
)

func (*ExprStmt) stmtNode() {}
func (*Return) stmtNode()   {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*Block) stmtNode()    {}

// Variable is a named stack slot. Slot is stable for the lifetime of the
// enclosing function; for class attributes it is the field index.
type Variable struct {
	Name string
	Type Type
	Slot int
}

// FuncDecl is a function signature. Name plus Args is the overload
// identity; the return type does not take part in it.
type FuncDecl struct {
	Name    string
	Args    []Type
	Return  Type
	Method  *Class // receiver class for methods, Args[0] is then the class
	Builtin bool
}

// Mangled returns the symbol name used in the target representation:
// the name followed by ".Type" for every argument.
func (d *FuncDecl) Mangled() string {
	var b strings.Builder
	b.WriteString(d.Name)
	for _, t := range d.Args {
		b.WriteByte('.')
		b.WriteString(t.Name())
	}
	return b.String()
}

// Signature is the human readable form used in diagnostics, e.g. "f(Int, Bool)".
func (d *FuncDecl) Signature() string {
	return d.Name + "(" + joinTypes(d.Args) + ")"
}

func (d *FuncDecl) SameOverload(o *FuncDecl) bool {
	if d.Name != o.Name || len(d.Args) != len(o.Args) {
		return false
	}
	for i := range d.Args {
		if d.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

func joinTypes(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}

type Function struct {
	Decl   *FuncDecl
	Args   []*Variable
	Locals []*Variable // every stack slot in slot order, arguments first
	Body   *Block
}

type Attribute struct {
	Var     *Variable
	Default Expr
}

type Class struct {
	Name       string
	Attributes []*Attribute
	Methods    []*Function
}

// Attribute looks up an attribute by name and returns its field index.
func (c *Class) Attribute(name string) (int, *Attribute, bool) {
	for i, a := range c.Attributes {
		if a.Var.Name == name {
			return i, a, true
		}
	}
	return -1, nil, false
}

// Program is the root of the tree. It owns every class and function and
// resolves call targets by overload identity.
type Program struct {
	Decls     []*FuncDecl // every known signature, in declaration order
	Functions []*Function // definitions, in source order
	Classes   []*Class

	overloads map[string]*FuncDecl
	names     map[string]bool
	defined   map[string]bool
	classes   map[string]*Class
}

func NewProgram() *Program {
	p := &Program{
		overloads: make(map[string]*FuncDecl),
		names:     make(map[string]bool),
		defined:   make(map[string]bool),
		classes:   make(map[string]*Class),
	}
	p.Declare(&FuncDecl{Name: "print", Args: []Type{TypeInt}, Return: TypeVoid, Builtin: true})
	return p
}

// Declare registers a signature and returns the canonical declaration for
// its overload identity. Redeclaring with the same return type returns the
// earlier declaration so calls parsed before a definition resolve to it.
func (p *Program) Declare(d *FuncDecl) (*FuncDecl, error) {
	key := d.Mangled()
	if prev, ok := p.overloads[key]; ok {
		if prev.Return != d.Return {
			return nil, fmt.Errorf("function '%s' already defined with return type %s", d.Signature(), prev.Return)
		}
		return prev, nil
	}
	p.overloads[key] = d
	p.names[d.Name] = true
	p.Decls = append(p.Decls, d)
	return d, nil
}

// Define marks a declaration as having a body.
func (p *Program) Define(d *FuncDecl) error {
	key := d.Mangled()
	if d.Builtin || p.defined[key] {
		return fmt.Errorf("function '%s' already defined", d.Signature())
	}
	p.defined[key] = true
	return nil
}

func (p *Program) IsDefined(d *FuncDecl) bool {
	return p.defined[d.Mangled()]
}

// HasFunction reports whether any overload is named name.
func (p *Program) HasFunction(name string) bool {
	return p.names[name]
}

// Lookup resolves a call by overload identity.
func (p *Program) Lookup(name string, args []Type) *FuncDecl {
	return p.overloads[(&FuncDecl{Name: name, Args: args}).Mangled()]
}

func (p *Program) AddClass(c *Class) error {
	if _, ok := builtinTypes[c.Name]; ok {
		return fmt.Errorf("type name '%s' is reserved", c.Name)
	}
	if _, ok := p.classes[c.Name]; ok {
		return fmt.Errorf("class '%s' already defined", c.Name)
	}
	p.classes[c.Name] = c
	p.Classes = append(p.Classes, c)
	return nil
}

func (p *Program) Class(name string) *Class {
	return p.classes[name]
}

package main

import "fmt"

type frameKind int

const (
	frameProgram frameKind = iota
	frameClass
	frameFunction
	frameBlock
)

type frame struct {
	kind  frameKind
	vars  map[string]*Variable // frameBlock only
	block *Block
	class *Class
	fn    *Function
}

// Scope is the stack of lexical frames the parser consults while it builds
// the tree. Frames only index declarations by name; the tree owns them.
type Scope struct {
	program *Program
	frames  []*frame
}

func NewScope(p *Program) *Scope {
	return &Scope{
		program: p,
		frames:  []*frame{{kind: frameProgram}},
	}
}

func (s *Scope) Program() *Program {
	return s.program
}

func (s *Scope) push(f *frame) {
	s.frames = append(s.frames, f)
}

func (s *Scope) pop(kind frameKind) {
	top := s.frames[len(s.frames)-1]
	if top.kind != kind || len(s.frames) == 1 {
		panic(fmt.Sprintf("scope: unbalanced leave (have %d, want %d)", top.kind, kind))
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) EnterClass(c *Class) {
	s.push(&frame{kind: frameClass, class: c})
}

func (s *Scope) LeaveClass() {
	s.pop(frameClass)
}

func (s *Scope) EnterFunction(fn *Function) {
	s.push(&frame{kind: frameFunction, fn: fn})
}

func (s *Scope) LeaveFunction() {
	s.pop(frameFunction)
}

// EnterBlock pushes a block frame. The enclosing block, if any, stays
// visible for lookups until LeaveBlock.
func (s *Scope) EnterBlock(b *Block) {
	s.push(&frame{kind: frameBlock, block: b, vars: make(map[string]*Variable)})
}

func (s *Scope) LeaveBlock() {
	s.pop(frameBlock)
}

// Function returns the function being parsed, or nil at class or program level.
func (s *Scope) Function() *Function {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].kind == frameFunction {
			return s.frames[i].fn
		}
	}
	return nil
}

func (s *Scope) Block() *Block {
	top := s.frames[len(s.frames)-1]
	if top.kind != frameBlock {
		return nil
	}
	return top.block
}

// Class returns the class whose body is being parsed. Inside a method body
// this is the receiver class.
func (s *Scope) Class() *Class {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].kind == frameClass {
			return s.frames[i].class
		}
	}
	return nil
}

// MethodClass returns the receiver class when parsing a method body.
func (s *Scope) MethodClass() *Class {
	if fn := s.Function(); fn != nil {
		return fn.Decl.Method
	}
	return nil
}

// AddVariable declares a local in the innermost block and gives it the next
// free slot of the enclosing function.
func (s *Scope) AddVariable(name string, typ Type) (*Variable, error) {
	top := s.frames[len(s.frames)-1]
	if top.kind != frameBlock {
		panic("scope: variable declared outside a block")
	}
	if _, ok := top.vars[name]; ok {
		return nil, fmt.Errorf("variable '%s' already defined", name)
	}
	fn := s.Function()
	v := &Variable{Name: name, Type: typ, Slot: len(fn.Locals)}
	fn.Locals = append(fn.Locals, v)
	top.block.Vars = append(top.block.Vars, v)
	top.vars[name] = v
	return v, nil
}

// LookupVariable searches the block chain innermost first. The search stops
// at the function boundary.
func (s *Scope) LookupVariable(name string) *Variable {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.kind != frameBlock {
			return nil
		}
		if v, ok := f.vars[name]; ok {
			return v
		}
	}
	return nil
}

// LookupType resolves a type name to a builtin or a declared class.
func (s *Scope) LookupType(name string) (Type, bool) {
	if t, ok := builtinTypes[name]; ok {
		return t, true
	}
	if c := s.program.Class(name); c != nil {
		return ClassType(c), true
	}
	return Type{}, false
}

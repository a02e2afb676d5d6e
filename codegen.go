package main

import "fmt"

// Generator lowers a parsed Program into a Module. Register and label
// counters restart at zero for every function.
type Generator struct {
	module *Module
	fn     *IRFunction
	block  *BasicBlock

	nextReg   int
	nextLabel int
}

// Generate walks the finished tree once. It never fails: every error was
// reported while parsing.
func Generate(p *Program) *Module {
	g := &Generator{module: &Module{}}

	for _, d := range p.Decls {
		if p.IsDefined(d) {
			continue
		}
		params := make([]string, len(d.Args))
		for i, t := range d.Args {
			params[i] = t.IR()
		}
		g.module.Declares = append(g.module.Declares, &Declare{Name: d.Mangled(), Ret: d.Return.IR(), Params: params})
	}

	for _, c := range p.Classes {
		fields := make([]string, len(c.Attributes))
		for i, a := range c.Attributes {
			fields[i] = a.Var.Type.IR()
		}
		g.module.Types = append(g.module.Types, &TypeDef{Name: c.Name, Fields: fields})
	}

	for _, fn := range p.Functions {
		g.function(fn)
	}
	return g.module
}

func (g *Generator) newReg() Value {
	r := RegValue(g.nextReg)
	g.nextReg++
	return r
}

// newBlock reserves a label. The block joins the function when it becomes
// current, so the output lists blocks in the order they are filled.
func (g *Generator) newBlock() *BasicBlock {
	bb := &BasicBlock{Label: g.nextLabel}
	g.nextLabel++
	return bb
}

func (g *Generator) setBlock(bb *BasicBlock) {
	g.fn.Blocks = append(g.fn.Blocks, bb)
	g.block = bb
}

func (g *Generator) emit(in *Instr) *Instr {
	if g.block.Terminated() {
		panic(fmt.Sprintf("codegen: instruction after terminator in %s of %s", g.block.Name(), g.fn.Name))
	}
	g.block.Instrs = append(g.block.Instrs, in)
	return in
}

func (g *Generator) br(target *BasicBlock) {
	g.emit(&Instr{Op: IBr, Targets: []*BasicBlock{target}})
}

func (g *Generator) condBr(cond Value, then, els *BasicBlock) {
	g.emit(&Instr{Op: ICondBr, Operands: []Value{cond}, Targets: []*BasicBlock{then, els}})
}

func (g *Generator) load(t Type, addr Value) Value {
	r := g.newReg()
	g.emit(&Instr{Op: ILoad, Result: r, Type: t.IR(), Operands: []Value{addr}})
	return r
}

func (g *Generator) store(t Type, v, addr Value) {
	g.emit(&Instr{Op: IStore, Type: t.IR(), Operands: []Value{v, addr}})
}

func (g *Generator) fieldAddr(c *Class, ptr Value, index int) Value {
	r := g.newReg()
	g.emit(&Instr{Op: IGEP, Result: r, Type: "%" + c.Name, Operands: []Value{ptr}, Field: index})
	return r
}

func (g *Generator) function(fn *Function) {
	g.fn = &IRFunction{Name: fn.Decl.Mangled(), Ret: fn.Decl.Return.IR()}
	g.nextReg, g.nextLabel = 0, 0
	for _, a := range fn.Args {
		g.fn.Params = append(g.fn.Params, Param{Type: a.Type.IR(), Value: ArgValue(a.Slot)})
	}
	g.module.Functions = append(g.module.Functions, g.fn)

	g.setBlock(g.newBlock())
	for _, v := range fn.Locals {
		g.emit(&Instr{Op: IAlloca, Result: SlotValue(v.Slot), Type: v.Type.IR()})
	}
	for _, a := range fn.Args {
		g.store(a.Type, ArgValue(a.Slot), SlotValue(a.Slot))
	}

	g.stmts(fn.Body)
	if !fn.Body.Returns {
		g.emit(&Instr{Op: IRet})
	}
}

func (g *Generator) stmts(b *Block) {
	for _, s := range b.Stmts {
		g.stmt(s)
	}
}

func (g *Generator) stmt(s Stmt) {
	switch s := s.(type) {
	case *ExprStmt:
		g.expr(s.Expr)

	case *Return:
		if s.Value == nil {
			g.emit(&Instr{Op: IRet})
			return
		}
		v := g.expr(s.Value)
		if s.Value.Type() == TypeVoid {
			g.emit(&Instr{Op: IRet})
			return
		}
		g.emit(&Instr{Op: IRet, Type: s.Value.Type().IR(), Operands: []Value{v}})

	case *If:
		cond := g.expr(s.Cond)
		then := g.newBlock()
		var els, after *BasicBlock
		if s.Else != nil {
			els = g.newBlock()
		}
		// No join block when both branches return.
		if s.Else == nil || !s.Then.Returns || !s.Else.Returns {
			after = g.newBlock()
		}
		if els != nil {
			g.condBr(cond, then, els)
		} else {
			g.condBr(cond, then, after)
		}

		g.setBlock(then)
		g.stmts(s.Then)
		if !s.Then.Returns {
			g.br(after)
		}
		if els != nil {
			g.setBlock(els)
			g.stmts(s.Else)
			if !s.Else.Returns {
				g.br(after)
			}
		}
		if after != nil {
			g.setBlock(after)
		}

	case *While:
		check, body, after := g.newBlock(), g.newBlock(), g.newBlock()
		g.br(check)
		g.setBlock(check)
		cond := g.expr(s.Cond)
		g.condBr(cond, body, after)

		g.setBlock(body)
		g.stmts(s.Body)
		if !s.Body.Returns {
			g.br(check)
		}
		g.setBlock(after)

	case *Block:
		g.stmts(s)

	default:
		panic(fmt.Sprintf("codegen: unexpected statement %T", s))
	}
}

// expr emits e and returns its value. Calls to Void functions return "".
func (g *Generator) expr(e Expr) Value {
	switch e := e.(type) {
	case *NumberLit:
		return IntValue(e.Value)

	case *BoolLit:
		return BoolValue(e.Value)

	case *VarRef:
		return g.load(e.Var.Type, SlotValue(e.Var.Slot))

	case *AttrAccess:
		return g.load(e.Type(), g.address(e))

	case *Assign:
		v := g.expr(e.Value)
		g.store(e.Type(), v, g.address(e.Target))
		return v

	case *Arith:
		l := g.expr(e.Left)
		r := g.expr(e.Right)
		res := g.newReg()
		g.emit(&Instr{Op: IBinary, Result: res, Mnemonic: e.Op.Instr(), Type: TypeInt.IR(), Operands: []Value{l, r}})
		return res

	case *Compare:
		l := g.expr(e.Left)
		r := g.expr(e.Right)
		res := g.newReg()
		g.emit(&Instr{Op: IBinary, Result: res, Mnemonic: e.Op.Instr(), Type: e.Left.Type().IR(), Operands: []Value{l, r}})
		return res

	case *And:
		return g.shortCircuit(e.Left, e.Right, true)

	case *Or:
		return g.shortCircuit(e.Left, e.Right, false)

	case *Call:
		args := make([]Value, len(e.Args))
		types := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = g.expr(arg)
			types[i] = arg.Type().IR()
		}
		in := &Instr{Op: ICall, Type: e.Type().IR(), Mnemonic: e.Func.Mangled(), Operands: args, ArgTypes: types}
		if e.Type() != TypeVoid {
			in.Result = g.newReg()
		}
		g.emit(in)
		return in.Result

	case *New:
		ptr := g.newReg()
		g.emit(&Instr{Op: IAlloca, Result: ptr, Type: "%" + e.Class.Name})
		for i, attr := range e.Class.Attributes {
			v := g.expr(e.Value(i))
			g.store(attr.Var.Type, v, g.fieldAddr(e.Class, ptr, i))
		}
		return ptr

	default:
		panic(fmt.Sprintf("codegen: unexpected expression %T", e))
	}
}

// address emits the address of an lvalue.
func (g *Generator) address(e Expr) Value {
	switch e := e.(type) {
	case *VarRef:
		return SlotValue(e.Var.Slot)
	case *AttrAccess:
		ptr := g.expr(e.Receiver)
		return g.fieldAddr(e.Class, ptr, e.Index)
	default:
		panic(fmt.Sprintf("codegen: %T has no address", e))
	}
}

// shortCircuit lowers && (isAnd) and ||. The right operand is evaluated in
// its own block, reached only when the left operand does not decide the
// result, and a phi in the join block merges both paths.
func (g *Generator) shortCircuit(left, right Expr, isAnd bool) Value {
	l := g.expr(left)
	from := g.block
	rhs, join := g.newBlock(), g.newBlock()
	if isAnd {
		g.condBr(l, rhs, join)
	} else {
		g.condBr(l, join, rhs)
	}

	g.setBlock(rhs)
	r := g.expr(right)
	rhsEnd := g.block
	g.br(join)

	g.setBlock(join)
	res := g.newReg()
	g.emit(&Instr{
		Op:       IPhi,
		Result:   res,
		Type:     TypeBool.IR(),
		Operands: []Value{l, r},
		Targets:  []*BasicBlock{from, rhsEnd},
	})
	return res
}

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is an instruction operand as it appears in the output: a literal,
// a numbered register, an argument or a stack slot.
type Value string

func RegValue(n int) Value {
	return Value("%" + strconv.Itoa(n))
}

func IntValue(n int64) Value {
	return Value(strconv.FormatInt(n, 10))
}

func BoolValue(b bool) Value {
	return Value(strconv.FormatBool(b))
}

// ArgValue names the incoming value of the argument in slot n.
func ArgValue(n int) Value {
	return Value("%a" + strconv.Itoa(n))
}

// SlotValue names the stack slot of the local in slot n.
func SlotValue(n int) Value {
	return Value("%v" + strconv.Itoa(n))
}

type Opcode int

const (
	IAlloca Opcode = iota
	ILoad
	IStore
	IGEP
	ICall
	IBinary // arithmetic and icmp, spelled by Mnemonic
	IBr
	ICondBr
	IPhi
	IRet
)

// Instr is a single instruction. Which fields are used depends on Op.
type Instr struct {
	Op       Opcode
	Result   Value  // empty when nothing is produced
	Type     string // operand type; allocated type; gep base type; call return type
	Mnemonic string // IBinary: "add", "icmp slt", ...; ICall: callee symbol
	Operands []Value
	ArgTypes []string      // ICall
	Targets  []*BasicBlock // IBr, ICondBr; IPhi predecessors
	Field    int           // IGEP
}

func (in *Instr) IsTerminator() bool {
	return in.Op == IBr || in.Op == ICondBr || in.Op == IRet
}

func (in *Instr) String() string {
	var b strings.Builder
	if in.Result != "" {
		fmt.Fprintf(&b, "%s = ", in.Result)
	}
	switch in.Op {
	case IAlloca:
		fmt.Fprintf(&b, "alloca %s", in.Type)
	case ILoad:
		fmt.Fprintf(&b, "load %s, %s* %s", in.Type, in.Type, in.Operands[0])
	case IStore:
		fmt.Fprintf(&b, "store %s %s, %s* %s", in.Type, in.Operands[0], in.Type, in.Operands[1])
	case IGEP:
		fmt.Fprintf(&b, "getelementptr %s, %s* %s, i32 0, i32 %d", in.Type, in.Type, in.Operands[0], in.Field)
	case ICall:
		fmt.Fprintf(&b, "call %s @%s(", in.Type, in.Mnemonic)
		for i, arg := range in.Operands {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s %s", in.ArgTypes[i], arg)
		}
		b.WriteByte(')')
	case IBinary:
		fmt.Fprintf(&b, "%s %s %s, %s", in.Mnemonic, in.Type, in.Operands[0], in.Operands[1])
	case IBr:
		fmt.Fprintf(&b, "br label %%%s", in.Targets[0].Name())
	case ICondBr:
		fmt.Fprintf(&b, "br i1 %s, label %%%s, label %%%s", in.Operands[0], in.Targets[0].Name(), in.Targets[1].Name())
	case IPhi:
		fmt.Fprintf(&b, "phi %s", in.Type)
		for i, v := range in.Operands {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, " [ %s, %%%s ]", v, in.Targets[i].Name())
		}
	case IRet:
		if len(in.Operands) == 0 {
			b.WriteString("ret void")
		} else {
			fmt.Fprintf(&b, "ret %s %s", in.Type, in.Operands[0])
		}
	default:
		panic(fmt.Sprintf("unknown opcode %d", in.Op))
	}
	return b.String()
}

type BasicBlock struct {
	Label  int
	Instrs []*Instr
}

func (bb *BasicBlock) Name() string {
	return "l" + strconv.Itoa(bb.Label)
}

// Terminated reports whether the block already ends in a branch or return.
func (bb *BasicBlock) Terminated() bool {
	return len(bb.Instrs) > 0 && bb.Instrs[len(bb.Instrs)-1].IsTerminator()
}

type Param struct {
	Type  string
	Value Value
}

type IRFunction struct {
	Name   string
	Ret    string
	Params []Param
	Blocks []*BasicBlock // in emission order, entry first
}

// Declare is an external or forward-declared function.
type Declare struct {
	Name   string
	Ret    string
	Params []string
}

// TypeDef is a class layout.
type TypeDef struct {
	Name   string
	Fields []string
}

type Module struct {
	Declares  []*Declare
	Types     []*TypeDef
	Functions []*IRFunction
}

func (m *Module) String() string {
	var sections []string

	if len(m.Declares) > 0 {
		var b strings.Builder
		for _, d := range m.Declares {
			fmt.Fprintf(&b, "declare %s @%s(%s)\n", d.Ret, d.Name, strings.Join(d.Params, ", "))
		}
		sections = append(sections, b.String())
	}

	if len(m.Types) > 0 {
		var b strings.Builder
		for _, t := range m.Types {
			if len(t.Fields) == 0 {
				fmt.Fprintf(&b, "%%%s = type {}\n", t.Name)
			} else {
				fmt.Fprintf(&b, "%%%s = type { %s }\n", t.Name, strings.Join(t.Fields, ", "))
			}
		}
		sections = append(sections, b.String())
	}

	for _, fn := range m.Functions {
		sections = append(sections, fn.String())
	}
	return strings.Join(sections, "\n")
}

func (fn *IRFunction) String() string {
	var b strings.Builder
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type + " " + string(p.Value)
	}
	fmt.Fprintf(&b, "define %s @%s(%s) {\n", fn.Ret, fn.Name, strings.Join(params, ", "))
	for _, bb := range fn.Blocks {
		fmt.Fprintf(&b, "%s:\n", bb.Name())
		for _, in := range bb.Instrs {
			fmt.Fprintf(&b, "  %s\n", in)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

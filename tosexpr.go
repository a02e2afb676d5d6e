package main

import (
	"fmt"
	"strconv"
	"strings"
)

// ToSExpr renders a parsed program as an s-expression. Tests match it
// against patterns with the sexy package.
func ToSExpr(p *Program) string {
	var parts []string
	for _, c := range p.Classes {
		parts = append(parts, classSExpr(c))
	}
	for _, fn := range p.Functions {
		if fn.Decl.Method == nil {
			parts = append(parts, funcSExpr(fn))
		}
	}
	return list("program", parts...)
}

func list(head string, items ...string) string {
	if len(items) == 0 {
		return "(" + head + ")"
	}
	return "(" + head + " " + strings.Join(items, " ") + ")"
}

func quote(s string) string {
	return strconv.Quote(s)
}

func classSExpr(c *Class) string {
	items := []string{quote(c.Name)}
	for _, a := range c.Attributes {
		items = append(items, list("attr", quote(a.Var.Name), ExprSExpr(a.Default)))
	}
	for _, m := range c.Methods {
		items = append(items, funcSExpr(m))
	}
	return list("class", items...)
}

func funcSExpr(fn *Function) string {
	items := []string{quote(fn.Decl.Mangled()), fn.Decl.Return.Name()}
	for _, a := range fn.Args {
		items = append(items, list("arg", quote(a.Name), a.Type.Name()))
	}
	items = append(items, BlockSExpr(fn.Body))
	return list("func", items...)
}

func BlockSExpr(b *Block) string {
	items := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		items[i] = StmtSExpr(s)
	}
	return list("block", items...)
}

func StmtSExpr(s Stmt) string {
	switch s := s.(type) {
	case *ExprStmt:
		return ExprSExpr(s.Expr)
	case *Return:
		if s.Value == nil {
			return "(return)"
		}
		return list("return", ExprSExpr(s.Value))
	case *If:
		if s.Else == nil {
			return list("if", ExprSExpr(s.Cond), BlockSExpr(s.Then))
		}
		return list("if", ExprSExpr(s.Cond), BlockSExpr(s.Then), BlockSExpr(s.Else))
	case *While:
		return list("while", ExprSExpr(s.Cond), BlockSExpr(s.Body))
	case *Block:
		return BlockSExpr(s)
	default:
		panic(fmt.Sprintf("StmtSExpr: unexpected statement %T", s))
	}
}

func ExprSExpr(e Expr) string {
	switch e := e.(type) {
	case *NumberLit:
		return strconv.FormatInt(e.Value, 10)
	case *BoolLit:
		return list("bool", strconv.FormatBool(e.Value))
	case *VarRef:
		return list("var", quote(e.Var.Name))
	case *Assign:
		return list("assign", ExprSExpr(e.Target), ExprSExpr(e.Value))
	case *Arith:
		return list("binary", quote(e.Op.Symbol()), ExprSExpr(e.Left), ExprSExpr(e.Right))
	case *Compare:
		return list("binary", quote(e.Op.Symbol()), ExprSExpr(e.Left), ExprSExpr(e.Right))
	case *And:
		return list("binary", quote("&&"), ExprSExpr(e.Left), ExprSExpr(e.Right))
	case *Or:
		return list("binary", quote("||"), ExprSExpr(e.Left), ExprSExpr(e.Right))
	case *Call:
		items := []string{quote(e.Func.Mangled())}
		for _, arg := range e.Args {
			items = append(items, ExprSExpr(arg))
		}
		return list("call", items...)
	case *New:
		items := []string{quote(e.Class.Name)}
		for _, o := range e.Overrides {
			items = append(items, list("set", quote(e.Class.Attributes[o.Index].Var.Name), ExprSExpr(o.Value)))
		}
		return list("new", items...)
	case *AttrAccess:
		return list("attr", ExprSExpr(e.Receiver), quote(e.Attribute().Var.Name))
	default:
		panic(fmt.Sprintf("ExprSExpr: unexpected expression %T", e))
	}
}

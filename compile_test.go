package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestCompileScopeRestoration(t *testing.T) {
	_, err := Compile("func f(){ if true { var x = 1 } return x }")
	be.Err(t, err, "undefined identifier 'x'")
}

func TestCompileMissingReturn(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty body", "func f(): Int { }"},
		{"one arm", "func f(x: Bool): Int { if x { return 1 } }"},
		{"inside loop", "func f(): Bool { while true { return true } }"},
		{"else without return", "func f(x: Bool): Int { if x { return 1 } else { print(2) } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			be.Err(t, err, "missing return statement in function 'f'")
		})
	}
}

func TestCompileShortCircuitGuardsCall(t *testing.T) {
	ir, err := Compile("func g(): Bool { return true } func main() { var b = false && g() }")
	be.Err(t, err, nil)

	body := ir[strings.Index(ir, "define void @main()"):]
	entry := body[strings.Index(body, "l0:"):strings.Index(body, "l1:")]
	be.True(t, !strings.Contains(entry, "call"))

	rhs := body[strings.Index(body, "l1:"):strings.Index(body, "l2:")]
	be.True(t, strings.Contains(rhs, "call i1 @g()"))
}

func TestCompileOverloadsDoNotCollide(t *testing.T) {
	ir, err := Compile(`
func f(x: Int): Bool { return x > 0 }
func f(x: Bool): Bool { return x }
func main() {
	var a = f(1)
	var b = f(a)
}`)
	be.Err(t, err, nil)
	be.Equal(t, strings.Count(ir, "define i1 @f.Int(i32 %a0)"), 1)
	be.Equal(t, strings.Count(ir, "define i1 @f.Bool(i1 %a0)"), 1)
	be.True(t, strings.Contains(ir, "call i1 @f.Int(i32 1)"))
	be.True(t, strings.Contains(ir, "call i1 @f.Bool(i1 %1)"))
}

func TestCompileReturnTypeCollision(t *testing.T) {
	_, err := Compile("func f(x: Int): Int { return x } func f(x: Int): Bool { return true }")
	be.Err(t, err, "function 'f(Int)' already defined with return type Int")
}

func TestCompileErrorHasNoOutput(t *testing.T) {
	ir, err := Compile("func main() { print(true) }")
	be.Equal(t, ir, "")
	be.Err(t, err, "no matching function for call to 'print(Bool)'")
}

func TestCompileIsRepeatable(t *testing.T) {
	src := "class C { var n = 1 func inc() { n = n + 1 } } func main() { var c = C{} c.inc() print(c.n) }"
	first, err := Compile(src)
	be.Err(t, err, nil)
	second, err := Compile(src)
	be.Err(t, err, nil)
	be.Equal(t, first, second)
}

package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Functions

## Test: sum
` + fence + `lark-program
func main(): Int { return 1 + 2 }
` + fence + `

` + fence + `ast
(program (func "main" Int (block (return (binary "+" 1 2)))))
` + fence + `

## Test: print
` + fence + `lark-program
func main() { print(1) }
` + fence + `
` + fence + `ir
call void @print.Int(i32 1)
ret void
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "sum")
	be.Equal(t, tc1.Input, "func main(): Int { return 1 + 2 }")
	be.Equal(t, tc1.InputType, InputTypeLarkProgram)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.True(t, tc1.Assertions[0].ParsedSexy != nil)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), `(program (func "main" Int (block (return (binary "+" 1 2)))))`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "print")
	be.Equal(t, len(tc2.Assertions), 1)
	be.Equal(t, tc2.Assertions[0].Type, AssertionTypeIR)
	be.True(t, tc2.Assertions[0].ParsedSexy == nil)
	be.Equal(t, tc2.Assertions[0].Content, "call void @print.Int(i32 1)\nret void")
}

func TestExtractTestCases_AllAssertionTypes(t *testing.T) {
	markdown := `## Test: everything
` + fence + `lark-program
func f() { }
` + fence + `
` + fence + `ast
(program ...)
` + fence + `
` + fence + `ir
define void @f()
` + fence + `
` + fence + `ir-absent
declare void @f()
` + fence + `
` + fence + `compile-error
never happens
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	var types []AssertionType
	for _, a := range testCases[0].Assertions {
		types = append(types, a.Type)
	}
	be.Equal(t, types, []AssertionType{AssertionTypeAST, AssertionTypeIR, AssertionTypeIRAbsent, AssertionTypeCompileError})
}

func TestAssertionLines(t *testing.T) {
	a := Assertion{Content: "  l0:\n\n    ret void  \n"}
	be.Equal(t, a.Lines(), []string{"l0:", "ret void"})
	be.Equal(t, len(Assertion{}.Lines()), 0)
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	testCases, err := ExtractTestCases("# Notes\n\nPlain prose.\n\n## Not a test\n")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_AllowFencesWithoutLanguage(t *testing.T) {
	markdown := "# Doc\n\n" + fence + "\nsome example\n" + fence + "\n\n## Test: t\n" +
		fence + "lark-program\nfunc f() { }\n" + fence + "\n" +
		fence + "\nnot an assertion\n" + fence + "\n" +
		fence + "ir\nret void\n" + fence + "\n"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, len(testCases[0].Assertions), 1)
}

func TestExtractTestCases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		err      string
	}{
		{
			"input fence outside test",
			"# Doc\n\n" + fence + "lark-program\nfunc f() { }\n" + fence + "\n",
			"lark-program fence found outside of test case",
		},
		{
			"assertion fence outside test",
			"# Doc\n\n" + fence + "ir\nret void\n" + fence + "\n",
			"ir fence found outside of test case",
		},
		{
			"unknown fence outside test",
			"# Doc\n\n" + fence + "python\nprint(1)\n" + fence + "\n",
			"unknown fence language 'python' found outside of test case",
		},
		{
			"unknown fence in test",
			"## Test: t\n" + fence + "lark-program\nfunc f() { }\n" + fence + "\n" + fence + "python\nx\n" + fence + "\n",
			"unknown fence language 'python' in test 't'",
		},
		{
			"missing input",
			"## Test: t\n" + fence + "ir\nret void\n" + fence + "\n",
			"test 't' has no input fence",
		},
		{
			"missing assertion",
			"## Test: t\n" + fence + "lark-program\nfunc f() { }\n" + fence + "\n",
			"test 't' has no assertion fences",
		},
		{
			"multiple inputs",
			"## Test: t\n" + fence + "lark-program\nfunc f() { }\n" + fence + "\n" + fence + "lark-program\nfunc g() { }\n" + fence + "\n",
			"multiple input fences found in test 't'",
		},
		{
			"bad ast pattern",
			"## Test: t\n" + fence + "lark-program\nfunc f() { }\n" + fence + "\n" + fence + "ast\n(program\n" + fence + "\n",
			"failed to parse ast assertion in test 't'",
		},
		{
			"error in earlier test",
			"## Test: first\n" + fence + "ir\nret void\n" + fence + "\n\n## Test: second\n" + fence + "lark-program\nfunc f() { }\n" + fence + "\n" + fence + "ir\nret void\n" + fence + "\n",
			"test 'first' has no input fence",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.Err(t, err, test.err)
		})
	}
}

func TestExtractTestCases_LineNumbers(t *testing.T) {
	markdown := "## Test: t\n" + // 1
		fence + "lark-program\n" + // 2
		"func f() { }\n" + // 3
		fence + "\n" + // 4
		"\n" + // 5
		fence + "ir\n" + // 6
		"ret void\n" + // 7
		fence + "\n"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Assertions[0].Line, 7)
}

func TestExtractTestCases_MultilineInput(t *testing.T) {
	markdown := "## Test: t\n" + fence + "lark-program\nclass A {\n  var x = 1\n}\n\n" + fence + "\n" +
		fence + "ast\n(program\n  (class \"A\" ...))\n" + fence + "\n"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Input, "class A {\n  var x = 1\n}")
	be.Equal(t, testCases[0].Assertions[0].ParsedSexy.String(), `(program (class "A" ...))`)
}

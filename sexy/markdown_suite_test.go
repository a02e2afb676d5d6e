package sexy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

// The compiler's markdown suites must stay well formed on their own.
func TestExtractTestCases_CompilerSuites(t *testing.T) {
	files, err := filepath.Glob("../test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)

			testCases, err := ExtractTestCases(string(content))
			be.Err(t, err, nil)
			be.True(t, len(testCases) > 0)

			names := make(map[string]bool)
			for _, tc := range testCases {
				if names[tc.Name] {
					t.Errorf("duplicate test name %q", tc.Name)
				}
				names[tc.Name] = true
				be.Equal(t, tc.InputType, InputTypeLarkProgram)
				for _, a := range tc.Assertions {
					be.True(t, len(a.Content) > 0)
					if a.Type == AssertionTypeAST {
						be.True(t, a.ParsedSexy != nil)
					}
				}
			}
		})
	}
}

func TestExtractTestCases_ExpressionsSuite(t *testing.T) {
	content, err := os.ReadFile("../test/expressions_test.md")
	be.Err(t, err, nil)

	testCases, err := ExtractTestCases(string(content))
	be.Err(t, err, nil)

	var precedence *TestCase
	for i := range testCases {
		if testCases[i].Name == "operator precedence + *" {
			precedence = &testCases[i]
		}
	}
	if precedence == nil {
		t.Fatal("operator precedence test not found")
	}
	be.Equal(t, precedence.Input, "func f(): Int { return 1 + 2 * 3 }")

	be.Equal(t, len(precedence.Assertions), 1)
	ret := precedence.Assertions[0].ParsedSexy
	// (program (func "f" Int (block (return (binary "+" 1 (binary "*" 2 3))))))
	for _, idx := range []int{1, 3, 1, 1} {
		be.Equal(t, ret.Type, NodeList)
		if len(ret.Items) <= idx {
			t.Fatalf("%s has no item %d", ret, idx)
		}
		ret = ret.Items[idx]
	}
	be.Equal(t, len(ret.Items), 4)
	be.Equal(t, ret.Items[0].Text, "binary")
	be.Equal(t, ret.Items[1].Text, "+")
	be.Equal(t, ret.Items[2].Text, "1")
	be.Equal(t, ret.Items[3].Type, NodeList)
}

package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType represents the type of input code fence in a test case
type InputType string

const (
	InputTypeLarkProgram InputType = "lark-program"
)

// AssertionType represents the type of assertion code fence in a test case
type AssertionType string

const (
	AssertionTypeAST          AssertionType = "ast"
	AssertionTypeIR           AssertionType = "ir"
	AssertionTypeIRAbsent     AssertionType = "ir-absent"
	AssertionTypeCompileError AssertionType = "compile-error"
)

// Assertion represents a single assertion in a test case
type Assertion struct {
	Type       AssertionType
	Content    string // raw content of the fence
	ParsedSexy *Node  // parsed pattern, for ast assertions only
	Line       int    // line of the fence in the markdown file
}

// Lines returns the non-blank lines of the assertion, trimmed.
func (a Assertion) Lines() []string {
	var lines []string
	for _, line := range strings.Split(a.Content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// TestCase represents a complete test case extracted from Markdown
type TestCase struct {
	Name       string // the heading text after "Test: "
	Input      string
	InputType  InputType
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and extracts all test cases.
// A test starts at a "Test: name" heading and owns the fences up to the
// next such heading.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractTextFromNode(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validateTestCase(current); err != nil {
					return ast.WalkStop, err
				}
				testCases = append(testCases, *current)
			}
			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)
			lineNum := getLineNumber(n, source)

			if current == nil {
				if language == "" {
					return ast.WalkContinue, nil
				}
				if isInputFence(language) || isAssertionFence(language) {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
				}
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", lineNum, language)
			}

			switch {
			case language == "":
			case isInputFence(language):
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
				current.InputType = InputType(language)
			case isAssertionFence(language):
				assertion := Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
					Line:    lineNum,
				}
				if assertion.Type == AssertionTypeAST {
					parsed, err := Parse(assertion.Content)
					if err != nil {
						return ast.WalkStop, fmt.Errorf("line %d: failed to parse ast assertion in test '%s': %w", lineNum, current.Name, err)
					}
					assertion.ParsedSexy = parsed
				}
				current.Assertions = append(current.Assertions, assertion)
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if current != nil {
		if err := validateTestCase(current); err != nil {
			return nil, err
		}
		testCases = append(testCases, *current)
	}
	return testCases, nil
}

// extractTextFromNode extracts plain text content from a markdown node
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := codeBlock.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func isInputFence(language string) bool {
	return language == string(InputTypeLarkProgram)
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeAST, AssertionTypeIR, AssertionTypeIRAbsent, AssertionTypeCompileError:
		return true
	default:
		return false
	}
}

// validateTestCase ensures a test case has both input and at least one assertion
func validateTestCase(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	return nil
}

// getLineNumber returns the 1-based line of the first content line of node.
func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	startPos := node.Lines().At(0).Start
	return bytes.Count(source[:min(startPos, len(source))], []byte("\n")) + 1
}

package main

import (
	"testing"

	"github.com/nalgeon/be"
)

// catchCompileError runs f and returns the compile error it aborted with.
func catchCompileError(f func()) (err *CompileError) {
	defer func() {
		if r := recover(); r != nil {
			err = r.(*CompileError)
		}
	}()
	f()
	return nil
}

func TestScannerStartsWith(t *testing.T) {
	s := NewScanner("== x")
	be.True(t, s.Matches("="))
	be.True(t, !s.StartsWith("!="))
	be.Equal(t, s.Column(), 0)

	be.True(t, s.StartsWith("=="))
	be.Equal(t, s.Column(), 2)
	be.Equal(t, s.Cur(), byte(' '))
}

func TestScannerPeekPastEnd(t *testing.T) {
	s := NewScanner("ab")
	be.Equal(t, s.Peek(1), byte('b'))
	be.Equal(t, s.Peek(2), byte(0))
	s.AdvanceN(5)
	be.True(t, s.AtEOF())
	be.Equal(t, s.Cur(), byte(0))
}

func TestScannerTracksLines(t *testing.T) {
	s := NewScanner("a\nbc\nd")
	s.AdvanceN(3)
	be.Equal(t, s.Line(), 2)
	be.Equal(t, s.Column(), 1)
	s.AdvanceN(2)
	be.Equal(t, s.Line(), 3)
	be.Equal(t, s.Column(), 0)
}

func TestScannerSkipWhitespace(t *testing.T) {
	s := NewScanner("  // line comment\n /* block\n comment */ , x")
	s.SkipWhitespace()
	be.Equal(t, s.Cur(), byte('x'))
	be.Equal(t, s.Line(), 3)
}

func TestScannerUnterminatedBlockComment(t *testing.T) {
	s := NewScanner("x /* never closed")
	s.Advance()
	err := catchCompileError(s.SkipWhitespace)
	be.True(t, err != nil)
	be.Equal(t, err.Kind, LexicalError)
	be.Equal(t, err.Message, "unterminated block comment")
	be.Equal(t, err.Column, 2)
}

func TestScannerKeyword(t *testing.T) {
	s := NewScanner("variable")
	be.True(t, !s.MatchesKeyword("var"))
	be.True(t, !s.StartsWithKeyword("var"))

	s = NewScanner("var x")
	be.True(t, s.StartsWithKeyword("var"))
	be.Equal(t, s.Column(), 3)

	s = NewScanner("if(")
	be.True(t, s.StartsWithKeyword("if"))
}

func TestScannerIdentifier(t *testing.T) {
	s := NewScanner("foo_1 bar")
	name, ok := s.Identifier()
	be.True(t, ok)
	be.Equal(t, name, "foo_1")

	s = NewScanner("1abc")
	_, ok = s.Identifier()
	be.True(t, !ok)
	be.Equal(t, s.Column(), 0)
}

func TestScannerNumber(t *testing.T) {
	s := NewScanner("2147483647")
	be.Equal(t, s.Number(), int64(2147483647))

	s = NewScanner("4294967296")
	err := catchCompileError(func() { s.Number() })
	be.True(t, err != nil)
	be.Equal(t, err.Kind, LexicalError)
	be.Equal(t, err.Message, "integer literal 4294967296 out of range")

	s = NewScanner("12ab")
	err = catchCompileError(func() { s.Number() })
	be.True(t, err != nil)
	be.Equal(t, err.Message, "invalid character 'a' in number literal")
}

func TestScannerExpect(t *testing.T) {
	s := NewScanner("(x")
	s.Expect("(")
	err := catchCompileError(func() { s.Expect(")") })
	be.True(t, err != nil)
	be.Equal(t, err.Kind, SyntaxError)
	be.Equal(t, err.Message, "expected ')'")
	be.Equal(t, err.Column, 1)
	be.Equal(t, err.Source, "(x")
}

func TestScannerErrorSourceLine(t *testing.T) {
	s := NewScanner("first\r\nsecond line\nthird")
	s.AdvanceN(len("first\r\nsec"))
	err := catchCompileError(func() { s.Errorf(SemanticError, "bad %s", "thing") })
	be.Equal(t, err.Line, 2)
	be.Equal(t, err.Column, 3)
	be.Equal(t, err.Source, "second line")
	be.Equal(t, err.Message, "bad thing")

	s = NewScanner("one\r\ntwo")
	s.AdvanceN(2)
	err = catchCompileError(func() { s.Errorf(SyntaxError, "x") })
	be.Equal(t, err.Source, "one")
}

package main

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a compile error.
type ErrorKind int

const (
	LexicalError ErrorKind = iota
	SyntaxError
	SemanticError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical"
	case SyntaxError:
		return "syntax"
	case SemanticError:
		return "semantic"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// CompileError is the single fatal error a compilation can produce.
// Line is 1-based, Column is the 0-based byte offset into Source.
type CompileError struct {
	Kind    ErrorKind
	Line    int
	Column  int
	Message string
	Source  string // the offending source line, without the newline
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("line %d: error: %s", e.Line, e.Message)
}

const (
	csi    = "\x1b["
	reset  = csi + "m"
	bold   = csi + "1m"
	red    = csi + "31m"
	yellow = csi + "33m"
)

// Diagnostic renders the error the way it is shown to a user: the message,
// the source line, and a caret under the failing column.
func (e *CompileError) Diagnostic(color bool) string {
	var b strings.Builder
	if color {
		fmt.Fprintf(&b, "%sline %d: %serror: %s%s%s%s\n", bold, e.Line, red, reset, bold, e.Message, reset)
	} else {
		fmt.Fprintf(&b, "line %d: error: %s\n", e.Line, e.Message)
	}
	b.WriteString(e.Source)
	b.WriteByte('\n')

	// Keep tabs so the caret lines up with the echoed source.
	for i := 0; i < e.Column && i < len(e.Source); i++ {
		if e.Source[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	for i := len(e.Source); i < e.Column; i++ {
		b.WriteByte(' ')
	}
	if color {
		b.WriteString(yellow + "^" + reset + "\n")
	} else {
		b.WriteString("^\n")
	}
	return b.String()
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestCompileProgramVerbose(t *testing.T) {
	var log bytes.Buffer
	ir, err := compileProgram("func main(): Int { return 1 }", true, &log)
	be.Err(t, err, nil)
	be.Equal(t, log.String(), fmt.Sprintf(
		"AST: (program (func \"main\" Int (block (return 1))))\nGenerated %d bytes of IR\n", len(ir)))
}

func TestCompileProgramQuiet(t *testing.T) {
	var log bytes.Buffer
	_, err := compileProgram("func main(): Int { return true }", false, &log)
	be.Err(t, err, "cannot return Bool from function 'main' returning Int")
	be.Equal(t, log.Len(), 0)
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compile("func f() {\n  g()\n}")
	reportError(&buf, err, false)
	be.Equal(t, buf.String(), "line 2: error: undefined identifier 'g'\n  g()\n  ^\n")

	buf.Reset()
	wrapped := fmt.Errorf("compiling: %w", err)
	reportError(&buf, wrapped, false)
	be.True(t, strings.HasSuffix(buf.String(), "  ^\n"))

	buf.Reset()
	reportError(&buf, errors.New("disk full"), true)
	be.Equal(t, buf.String(), "Error: disk full\n")
}

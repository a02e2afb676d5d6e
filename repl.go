package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const (
	promptMain = "lark> "
	promptCont = "  ... "
)

// Session is the source accumulated by the REPL. Every entry is compiled
// together with the entries accepted before it.
type Session struct {
	src string
	ir  string
}

func NewSession() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Add compiles the session with entry appended. On error the session is
// left unchanged.
func (s *Session) Add(entry string) error {
	candidate := s.src + entry + "\n"
	ir, err := Compile(candidate)
	if err != nil {
		return err
	}
	s.src, s.ir = candidate, ir
	return nil
}

func (s *Session) Reset() {
	s.src = ""
	s.ir, _ = Compile("")
}

func (s *Session) IR() string {
	return s.ir
}

func (s *Session) Source() string {
	return s.src
}

// prompter is the part of *liner.State the loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// braceDepth counts unclosed braces outside of comments.
func braceDepth(src string) int {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return depth + 1
			}
			i += end + 3
		case src[i] == '{':
			depth++
		case src[i] == '}':
			depth--
		}
	}
	return depth
}

// readEntry reads lines until the braces balance. It reports false at end
// of input.
func readEntry(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the partial entry.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if braceDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// runRepl drives a session until :quit or end of input.
func runRepl(p prompter, out, errOut io.Writer, color bool, onAccept func(string)) {
	session := NewSession()
	for {
		entry, ok := readEntry(p)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.HasPrefix(entry, ":") {
			switch entry {
			case ":quit", ":q":
				return
			case ":ir":
				fmt.Fprint(out, session.IR())
			case ":source":
				fmt.Fprint(out, session.Source())
			case ":reset":
				session.Reset()
				fmt.Fprintln(out, "session cleared")
			default:
				fmt.Fprintf(errOut, "unknown command %s (try :ir, :source, :reset or :quit)\n", entry)
			}
			continue
		}

		if err := session.Add(entry); err != nil {
			reportError(errOut, err, color)
			continue
		}
		fmt.Fprintln(out, "ok")
		if onAccept != nil {
			onAccept(entry)
		}
	}
}

func replCommand(args []string, cfg Config) {
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "Usage: lark repl\n")
		os.Exit(1)
	}

	fmt.Println("Lark REPL. Enter func and class declarations; :ir prints the module, :quit exits.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	runRepl(ln, os.Stdout, os.Stderr, cfg.UseColor(os.Stderr), func(entry string) {
		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
	})
}

package main

import (
	"fmt"
	"strconv"
)

// Scanner is a cursor over the raw source text. There is no separate token
// stream: the parser asks the scanner whether the text at the cursor starts
// with a given literal and consumes it on a match.
type Scanner struct {
	src       string
	pos       int // current reading position in src
	line      int // 1-based line of pos
	lineStart int // offset of the first byte of the current line
}

// Mark is a saved cursor position, used to report errors at the start of a
// construct after the scanner has moved past it.
type Mark struct {
	pos       int
	line      int
	lineStart int
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Cur returns the character under the cursor, or 0 at end of input.
func (s *Scanner) Cur() byte {
	return s.Peek(0)
}

// Peek returns the character n positions after the cursor, or 0 past the end.
func (s *Scanner) Peek(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *Scanner) AtEOF() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) Column() int {
	return s.pos - s.lineStart
}

// Advance moves the cursor one character forward, tracking line starts.
func (s *Scanner) Advance() {
	if s.pos >= len(s.src) {
		return
	}
	if s.src[s.pos] == '\n' {
		s.line++
		s.lineStart = s.pos + 1
	}
	s.pos++
}

func (s *Scanner) AdvanceN(n int) {
	for i := 0; i < n; i++ {
		s.Advance()
	}
}

func (s *Scanner) Mark() Mark {
	return Mark{pos: s.pos, line: s.line, lineStart: s.lineStart}
}

// SkipWhitespace skips blanks, commas, and comments.
func (s *Scanner) SkipWhitespace() {
	for {
		c := s.Cur()
		switch {
		case isWhitespace(c):
			s.Advance()
		case c == '/' && s.Peek(1) == '/':
			for !s.AtEOF() && s.Cur() != '\n' {
				s.Advance()
			}
		case c == '/' && s.Peek(1) == '*':
			start := s.Mark()
			s.AdvanceN(2)
			for !(s.Cur() == '*' && s.Peek(1) == '/') {
				if s.AtEOF() {
					s.ErrorAt(start, LexicalError, "unterminated block comment")
				}
				s.Advance()
			}
			s.AdvanceN(2)
		default:
			return
		}
	}
}

// Matches reports whether the text at the cursor starts with lit.
func (s *Scanner) Matches(lit string) bool {
	return len(s.src)-s.pos >= len(lit) && s.src[s.pos:s.pos+len(lit)] == lit
}

// StartsWith consumes lit if the text at the cursor starts with it.
func (s *Scanner) StartsWith(lit string) bool {
	if !s.Matches(lit) {
		return false
	}
	s.AdvanceN(len(lit))
	return true
}

// MatchesKeyword is like Matches, but kw must not be followed by an
// identifier character, so "var" does not match "variable".
func (s *Scanner) MatchesKeyword(kw string) bool {
	return s.Matches(kw) && !isIdentChar(s.Peek(len(kw)))
}

func (s *Scanner) StartsWithKeyword(kw string) bool {
	if !s.MatchesKeyword(kw) {
		return false
	}
	s.AdvanceN(len(kw))
	return true
}

// Expect consumes lit or fails with "expected 'lit'".
func (s *Scanner) Expect(lit string) {
	if !s.StartsWith(lit) {
		s.Errorf(SyntaxError, "expected '%s'", lit)
	}
}

// Identifier consumes an identifier at the cursor. It reports false and
// consumes nothing if the cursor is not at an identifier.
func (s *Scanner) Identifier() (string, bool) {
	if !isIdentStart(s.Cur()) {
		return "", false
	}
	start := s.pos
	for isIdentChar(s.Cur()) {
		s.Advance()
	}
	return s.src[start:s.pos], true
}

// Number consumes a run of decimal digits. The value must fit the 32-bit
// target integer.
func (s *Scanner) Number() int64 {
	mark := s.Mark()
	start := s.pos
	for isDigit(s.Cur()) {
		s.Advance()
	}
	lit := s.src[start:s.pos]
	if isIdentStart(s.Cur()) {
		s.Errorf(LexicalError, "invalid character '%c' in number literal", s.Cur())
	}
	n, err := strconv.ParseInt(lit, 10, 32)
	if err != nil {
		s.ErrorAt(mark, LexicalError, "integer literal %s out of range", lit)
	}
	return n
}

// Errorf aborts the compilation with an error at the cursor.
func (s *Scanner) Errorf(kind ErrorKind, format string, args ...any) {
	s.ErrorAt(s.Mark(), kind, format, args...)
}

// ErrorAt aborts the compilation with an error at a saved position. The
// error travels as a panic and is recovered by Parse.
func (s *Scanner) ErrorAt(m Mark, kind ErrorKind, format string, args ...any) {
	panic(&CompileError{
		Kind:    kind,
		Line:    m.line,
		Column:  m.pos - m.lineStart,
		Message: fmt.Sprintf(format, args...),
		Source:  s.lineText(m.lineStart),
	})
}

func (s *Scanner) lineText(start int) string {
	end := start
	for end < len(s.src) && s.src[end] != '\n' {
		end++
	}
	if end > start && s.src[end-1] == '\r' {
		end--
	}
	return s.src[start:end]
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ','
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

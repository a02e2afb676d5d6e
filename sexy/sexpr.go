package sexy

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
)

// Node is a parsed s-expression datum.
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items []*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Match reports whether node matches pattern. Atoms must be equal. Inside a
// list, an ellipsis in the pattern matches any run of items, including none.
func Match(pattern, node *Node) error {
	if !matches(pattern, node) {
		return fmt.Errorf("pattern %s does not match %s", pattern, node)
	}
	return nil
}

func matches(pattern, node *Node) bool {
	if pattern.Type == NodeEllipsis {
		return true
	}
	if pattern.Type != node.Type {
		return false
	}
	if pattern.Type != NodeList {
		return pattern.Text == node.Text
	}
	return matchItems(pattern.Items, node.Items)
}

func matchItems(patterns, nodes []*Node) bool {
	if len(patterns) == 0 {
		return len(nodes) == 0
	}
	if patterns[0].Type == NodeEllipsis {
		for skip := 0; skip <= len(nodes); skip++ {
			if matchItems(patterns[1:], nodes[skip:]) {
				return true
			}
		}
		return false
	}
	return len(nodes) > 0 && matches(patterns[0], nodes[0]) && matchItems(patterns[1:], nodes[1:])
}

type parser struct {
	lexer        *lexer
	currentToken token
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()

	result, err := p.parseDatum()
	if len(p.lexer.errors) > 0 {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, fmt.Errorf("%s", p.lexer.errors[0])
	}
	if err != nil {
		return nil, err
	}
	if p.currentToken.Type != tokenEOF {
		return nil, fmt.Errorf("expected EOF but got %s", p.currentToken.Type)
	}
	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Node, error) {
	tok := p.currentToken
	switch tok.Type {
	case tokenSymbol:
		p.nextToken()
		return NewSymbol(tok.Value), nil
	case tokenString:
		p.nextToken()
		return NewString(tok.Value), nil
	case tokenInteger:
		p.nextToken()
		return NewInteger(tok.Value), nil
	case tokenEllipsis:
		p.nextToken()
		return NewEllipsis(), nil
	case tokenLParen:
		return p.parseList()
	default:
		return nil, fmt.Errorf("unexpected token: %s", tok.Type)
	}
}

func (p *parser) parseList() (*Node, error) {
	var items []*Node
	p.nextToken() // consume '('

	for p.currentToken.Type != tokenRParen && p.currentToken.Type != tokenEOF {
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if p.currentToken.Type != tokenRParen {
		return nil, fmt.Errorf("expected ')' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume ')'
	return NewList(items), nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type     tokenType
	Value    string
	Position int
}

type lexer struct {
	input    string
	position int
	current  rune
	errors   []string
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.position >= len(l.input) {
		l.current = 0
	} else {
		l.current = rune(l.input[l.position])
	}
	l.position++
}

func (l *lexer) peekChar() rune {
	if l.position >= len(l.input) {
		return 0
	}
	return rune(l.input[l.position])
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current) {
		l.readChar()
	}
}

func (l *lexer) skipComment() {
	for l.current != '\n' && l.current != '\r' && l.current != 0 {
		l.readChar()
	}
}

func (l *lexer) readSymbol() string {
	start := l.position - 1
	for isSymbolChar(l.current) {
		l.readChar()
	}
	return l.input[start : l.position-1]
}

func (l *lexer) readString() (string, error) {
	var b strings.Builder
	l.readChar() // skip opening quote

	for l.current != '"' && l.current != 0 {
		if l.current == '\\' {
			l.readChar()
			switch l.current {
			case '"', '\\':
				b.WriteRune(l.current)
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", l.current)
			}
		} else {
			b.WriteRune(l.current)
		}
		l.readChar()
	}

	if l.current != '"' {
		return "", fmt.Errorf("unterminated string")
	}
	l.readChar() // skip closing quote
	return b.String(), nil
}

func (l *lexer) readInteger() string {
	start := l.position - 1
	if l.current == '+' || l.current == '-' {
		l.readChar()
	}
	for unicode.IsDigit(l.current) {
		l.readChar()
	}
	return l.input[start : l.position-1]
}

func (l *lexer) nextToken() token {
	for {
		l.skipWhitespace()
		pos := l.position - 1

		switch l.current {
		case 0:
			return token{Type: tokenEOF, Position: pos}
		case ';':
			l.skipComment()
			continue
		case '(':
			l.readChar()
			return token{Type: tokenLParen, Value: "(", Position: pos}
		case ')':
			l.readChar()
			return token{Type: tokenRParen, Value: ")", Position: pos}
		case '"':
			str, err := l.readString()
			if err != nil {
				l.errors = append(l.errors, err.Error())
				return token{Type: tokenEOF, Position: pos}
			}
			return token{Type: tokenString, Value: str, Position: pos}
		case '.':
			if l.peekChar() == '.' {
				l.readChar()
				if l.peekChar() == '.' {
					l.readChar()
					l.readChar()
					return token{Type: tokenEllipsis, Value: "...", Position: pos}
				}
			}
			l.errors = append(l.errors, "unexpected character '.'")
			return token{Type: tokenEOF, Position: pos}
		default:
			switch {
			case unicode.IsLetter(l.current):
				return token{Type: tokenSymbol, Value: l.readSymbol(), Position: pos}
			case (l.current == '+' || l.current == '-') && !unicode.IsDigit(l.peekChar()):
				// A lone sign is a symbol.
				sign := l.current
				l.readChar()
				return token{Type: tokenSymbol, Value: string(sign), Position: pos}
			case unicode.IsDigit(l.current) || l.current == '+' || l.current == '-':
				return token{Type: tokenInteger, Value: l.readInteger(), Position: pos}
			default:
				l.errors = append(l.errors, fmt.Sprintf("unexpected character '%c'", l.current))
				return token{Type: tokenEOF, Position: pos}
			}
		}
	}
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// Package parser implements the SELECT parser and resolver: a
// recursive-descent parser over the lexer's token stream that validates the
// overall statement shape, then a resolver that turns the parsed statement
// into a fully resolved plan.Logical by attaching table schemas obtained
// through a SchemaLookup callback.
//
// The single supported statement surface is:
//
//	SELECT <cols|*> FROM <table> [ [INNER] JOIN <table> [AS <alias>] ON <col>=<col> ]* [WHERE <expr>]
package parser

import (
	"strings"
	"sync"

	"github.com/morgana/queryengine/ast"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/lexer"
	"github.com/morgana/queryengine/token"
)

// Parser is a recursive descent parser over a flat token.Item stream held
// entirely in memory (the statements this dialect accepts are short).
type Parser struct {
	items []token.Item
	pos   int
}

var parserPool = sync.Pool{
	New: func() any { return &Parser{} },
}

// New creates a Parser over input, tokenizing it eagerly via lexer.All.
func New(input string) *Parser {
	return &Parser{items: lexer.All(input)}
}

// Get returns a pooled Parser initialized with input.
func Get(input string) *Parser {
	p := parserPool.Get().(*Parser)
	p.Reset(input)
	return p
}

// Put returns p to the pool.
func Put(p *Parser) {
	parserPool.Put(p)
}

// Reset reinitializes p to scan new input.
func (p *Parser) Reset(input string) {
	p.items = lexer.All(input)
	p.pos = 0
}

func (p *Parser) cur() token.Item {
	if p.pos >= len(p.items) {
		return token.Item{Type: token.EOF}
	}
	return p.items[p.pos]
}

func (p *Parser) at(i int) token.Item {
	if i >= len(p.items) {
		return token.Item{Type: token.EOF}
	}
	return p.items[i]
}

func (p *Parser) advance() { p.pos++ }

func (p *Parser) curIs(t token.Token) bool { return p.cur().Type == t }

// ddlKeywords are recognized only well enough to be rejected.
var ddlKeywords = map[token.Token]string{
	token.CREATE: "CREATE",
	token.ALTER:  "ALTER",
	token.DROP:   "DROP",
	token.INSERT: "INSERT",
	token.UPDATE: "UPDATE",
	token.DELETE: "DELETE",
}

// Parse parses a single statement. The first token must be SELECT;
// anything in the DDL/DML vocabulary is rejected as NotImplemented;
// anything else is a Parse error.
func Parse(input string) (*ast.SelectStmt, error) {
	p := New(input)
	return p.Parse()
}

// Parse parses the token stream held by p into a SelectStmt.
func (p *Parser) Parse() (*ast.SelectStmt, error) {
	if name, ok := ddlKeywords[p.cur().Type]; ok {
		return nil, engineerr.NotImplementedf("%s statements are not supported", name)
	}
	if !p.curIs(token.SELECT) {
		return nil, engineerr.Parsef("expected SELECT, got %q", p.cur().Value)
	}
	return p.parseSelect()
}

// findSingle locates the single occurrence of tok among the top-level
// (paren-depth 0) tokens in [from, len). More than one occurrence is an
// error; required selects whether zero occurrences is too.
func (p *Parser) findSingle(from int, tok token.Token, required bool, label string) (int, error) {
	found := -1
	depth := 0
	for i := from; i < len(p.items); i++ {
		switch p.items[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		if depth == 0 && p.items[i].Type == tok {
			if found != -1 {
				return -1, engineerr.Parsef("more than one %s clause", label)
			}
			found = i
		}
	}
	if found == -1 && required {
		return -1, engineerr.Parsef("missing %s clause", label)
	}
	return found, nil
}

// splitTopLevel returns the indices within [from, to) where tok occurs at
// paren-depth 0, used to split clause ranges on COMMA/AS/JOIN.
func splitTopLevel(items []token.Item, from, to int, tok token.Token) []int {
	var out []int
	depth := 0
	for i := from; i < to; i++ {
		switch items[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		if depth == 0 && items[i].Type == tok {
			out = append(out, i)
		}
	}
	return out
}

func identText(it token.Item) string {
	return strings.TrimSpace(it.Value)
}

package lexer

import (
	"testing"

	"github.com/morgana/queryengine/token"
)

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Item
	}{
		{
			input: "SELECT * FROM usinas",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.ASTERISK, Value: "*"},
				{Type: token.FROM, Value: "FROM"},
				{Type: token.IDENT, Value: "usinas"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			input: "SELECT id, codigo FROM usinas WHERE id = 1",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.IDENT, Value: "id"},
				{Type: token.COMMA, Value: ","},
				{Type: token.IDENT, Value: "codigo"},
				{Type: token.FROM, Value: "FROM"},
				{Type: token.IDENT, Value: "usinas"},
				{Type: token.WHERE, Value: "WHERE"},
				{Type: token.IDENT, Value: "id"},
				{Type: token.EQ, Value: "="},
				{Type: token.INT, Value: "1"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			input: "a >= 100 AND b <= 2 OR a <> b",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.GTE, Value: ">="},
				{Type: token.INT, Value: "100"},
				{Type: token.AND, Value: "AND"},
				{Type: token.IDENT, Value: "b"},
				{Type: token.LTE, Value: "<="},
				{Type: token.INT, Value: "2"},
				{Type: token.OR, Value: "OR"},
				{Type: token.IDENT, Value: "a"},
				{Type: token.NEQ, Value: "<>"},
				{Type: token.IDENT, Value: "b"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			// Adjacent punctuation with no surrounding whitespace is still
			// tokenized correctly.
			input: "a.b=1",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.DOT, Value: "."},
				{Type: token.IDENT, Value: "b"},
				{Type: token.EQ, Value: "="},
				{Type: token.INT, Value: "1"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			// Keyword matching is case-insensitive.
			input: "select * from usinas where not in",
			expected: []token.Item{
				{Type: token.SELECT, Value: "select"},
				{Type: token.ASTERISK, Value: "*"},
				{Type: token.FROM, Value: "from"},
				{Type: token.IDENT, Value: "usinas"},
				{Type: token.WHERE, Value: "where"},
				{Type: token.NOT, Value: "not"},
				{Type: token.IN, Value: "in"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			// String literals retain their surrounding quotes.
			input: "subsis = 'NE'",
			expected: []token.Item{
				{Type: token.IDENT, Value: "subsis"},
				{Type: token.EQ, Value: "="},
				{Type: token.STRING, Value: "'NE'"},
				{Type: token.EOF, Value: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			for i, want := range tt.expected {
				got := l.Next()
				if got.Type != want.Type || got.Value != want.Value {
					t.Fatalf("token %d: got %v %q, want %v %q", i, got.Type, got.Value, want.Type, want.Value)
				}
			}
		})
	}
}

func TestLexerFloat(t *testing.T) {
	l := New("capacidade_instalada > 100.5")
	items := []token.Item{l.Next(), l.Next(), l.Next(), l.Next()}
	if items[2].Type != token.FLOAT || items[2].Value != "100.5" {
		t.Fatalf("got %v %q, want FLOAT 100.5", items[2].Type, items[2].Value)
	}
}

func TestLexerDDLRecognized(t *testing.T) {
	// The lexer must recognize DDL/DML keywords well enough for the parser
	// to reject them, not interpret them.
	l := New("DELETE FROM usinas")
	if got := l.Next(); got.Type != token.DELETE {
		t.Fatalf("got %v, want DELETE", got.Type)
	}
}

func TestAll(t *testing.T) {
	items := All("SELECT 1")
	if len(items) != 3 { // SELECT, 1, EOF
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[len(items)-1].Type != token.EOF {
		t.Fatalf("last item should be EOF, got %v", items[len(items)-1].Type)
	}
}

func TestPeek(t *testing.T) {
	l := New("SELECT id")
	if got := l.Peek(); got.Type != token.SELECT {
		t.Fatalf("Peek: got %v, want SELECT", got.Type)
	}
	if got := l.Next(); got.Type != token.SELECT {
		t.Fatalf("Next after Peek: got %v, want SELECT", got.Type)
	}
	if got := l.Next(); got.Type != token.IDENT || got.Value != "id" {
		t.Fatalf("got %v %q, want IDENT id", got.Type, got.Value)
	}
}

func TestLexerPool(t *testing.T) {
	l := Get("SELECT id FROM usinas")
	if got := l.Next(); got.Type != token.SELECT {
		t.Fatalf("got %v, want SELECT", got.Type)
	}
	Put(l)

	l = Get("WHERE nome = 'x'")
	if got := l.Next(); got.Type != token.WHERE {
		t.Fatalf("pooled lexer kept stale input: got %v", got.Type)
	}
	Put(l)
}

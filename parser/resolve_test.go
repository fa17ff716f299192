package parser

import (
	"testing"

	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// testLookup serves table schemas from literal documents, standing in for
// connector.Connection.Access in resolver tests.
func testLookup(t *testing.T) SchemaLookup {
	t.Helper()
	docs := map[string]string{
		"usinas": `{
			"uri": "file:///db/usinas", "name": "usinas", "schema_type": "table", "format": "CSV",
			"columns": [
				{"name": "id", "type": "int"},
				{"name": "codigo", "type": "string"},
				{"name": "nome", "type": "string"},
				{"name": "capacidade_instalada", "type": "float"}
			],
			"partition_keys": []
		}`,
		"usinas_part_subsis": `{
			"uri": "file:///db/usinas_part_subsis", "name": "usinas_part_subsis", "schema_type": "table", "format": "CSV",
			"columns": [
				{"name": "id", "type": "int"},
				{"name": "codigo", "type": "string"},
				{"name": "nome", "type": "string"}
			],
			"partition_keys": [{"name": "subsistema_geografico", "type": "string"}]
		}`,
		"not_a_table": `{
			"uri": "file:///db", "name": "db", "schema_type": "database",
			"tables": [{"name": "usinas", "ref": "usinas"}]
		}`,
	}
	return func(name string) (*schema.Document, error) {
		raw, ok := docs[name]
		if !ok {
			return nil, engineerr.NotFoundf("unknown table %q", name)
		}
		return schema.Parse([]byte(raw))
	}
}

func TestResolveProjectionFullnames(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"SELECT id, codigo FROM usinas", []string{"id", "codigo"}},
		{"SELECT nome AS nome_usina FROM usinas", []string{"nome_usina"}},
		{"SELECT usinas.nome FROM usinas", []string{"nome_usinas"}},
		{"SELECT u.nome FROM usinas AS u", []string{"nome_u"}},
		{
			"SELECT id, up.id, codigo, up.codigo FROM usinas INNER JOIN usinas_part_subsis AS up ON usinas.id = up.id",
			[]string{"id", "id_up", "codigo", "codigo_up"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			lg, err := Resolve(stmt, testLookup(t))
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if len(lg.Projection) != len(tt.want) {
				t.Fatalf("got %d projected columns, want %d", len(lg.Projection), len(tt.want))
			}
			for i, c := range lg.Projection {
				if c.Fullname() != tt.want[i] {
					t.Errorf("column %d: got fullname %q, want %q", i, c.Fullname(), tt.want[i])
				}
			}
		})
	}
}

func TestResolveStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM usinas_part_subsis")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	lg, err := Resolve(stmt, testLookup(t))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	// Star expands columns then partition keys, in declaration order.
	want := []string{"id", "codigo", "nome", "subsistema_geografico"}
	if len(lg.Projection) != len(want) {
		t.Fatalf("got %d columns, want %d", len(lg.Projection), len(want))
	}
	for i, c := range lg.Projection {
		if c.Name != want[i] {
			t.Errorf("column %d: got %q, want %q", i, c.Name, want[i])
		}
	}
	if !lg.Projection[3].IsPartition {
		t.Errorf("subsistema_geografico should be flagged as a partition column")
	}
}

func TestResolveStarMultipleTables(t *testing.T) {
	stmt, err := Parse("SELECT * FROM usinas JOIN usinas_part_subsis ON usinas.id = usinas_part_subsis.id")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	_, err = Resolve(stmt, testLookup(t))
	if !engineerr.Is(err, engineerr.NotImplemented) {
		t.Fatalf("got %v, want NotImplemented", err)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  engineerr.Kind
	}{
		{"SELECT id FROM desconhecida", engineerr.NotFound},
		{"SELECT inexistente FROM usinas", engineerr.NotFound},
		{"SELECT u.id FROM usinas", engineerr.NotFound},       // unknown qualifier
		{"SELECT id FROM not_a_table", engineerr.Schema},      // database where table expected
		{"SELECT id FROM usinas WHERE volume > 1", engineerr.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			_, err = Resolve(stmt, testLookup(t))
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !engineerr.Is(err, tt.kind) {
				t.Errorf("got %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestResolveJoinEdge(t *testing.T) {
	stmt, err := Parse("SELECT nome FROM usinas INNER JOIN usinas_part_subsis AS up ON usinas.id = up.id")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	lg, err := Resolve(stmt, testLookup(t))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(lg.Joins) != 1 {
		t.Fatalf("got %d joins, want 1", len(lg.Joins))
	}
	edge := lg.Joins[0]
	if edge.Kind != "INNER" {
		t.Errorf("got kind %q, want INNER", edge.Kind)
	}
	if edge.Left.TableName != "usinas" || edge.Right.TableName != "usinas_part_subsis" {
		t.Errorf("edge tables: got %q / %q", edge.Left.TableName, edge.Right.TableName)
	}
}

func TestResolvePrunesColumns(t *testing.T) {
	stmt, err := Parse("SELECT nome FROM usinas WHERE capacidade_instalada > 100")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	lg, err := Resolve(stmt, testLookup(t))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	// Only the projected column and the filter column survive pruning.
	got := map[string]bool{}
	for _, c := range lg.Tables[0].Columns {
		got[c.Name] = true
	}
	if len(got) != 2 || !got["nome"] || !got["capacidade_instalada"] {
		t.Errorf("pruned columns: got %v", got)
	}
}

func TestResolveFilterOnProjectedAlias(t *testing.T) {
	stmt, err := Parse("SELECT nome AS nome_usina, subsistema_geografico AS subsis FROM usinas_part_subsis WHERE subsis = 'NE'")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	lg, err := Resolve(stmt, testLookup(t))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(lg.ReadingFilters) != 1 {
		t.Fatalf("got %d reading filters, want 1", len(lg.ReadingFilters))
	}
	rf := lg.ReadingFilters[0]
	if rf.Column.Name != "subsistema_geografico" || !rf.Column.IsPartition {
		t.Errorf("reading filter column: got %+v", rf.Column)
	}
	if rf.Column.Fullname() != "subsis" {
		t.Errorf("got fullname %q, want subsis", rf.Column.Fullname())
	}
}

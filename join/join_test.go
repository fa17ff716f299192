package join

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/schema"
)

func tableOf(t *testing.T, mem memory.Allocator, names []string, cols ...arrow.Array) *coltable.Table {
	t.Helper()
	fields := make([]arrow.Field, len(names))
	for i, n := range names {
		fields[i] = arrow.Field{Name: n, Type: cols[i].DataType()}
	}
	return coltable.New(array.NewRecord(arrow.NewSchema(fields, nil), cols, int64(cols[0].Len())))
}

func intCol(mem memory.Allocator, vals ...int64) arrow.Array {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	b.AppendValues(vals, nil)
	return b.NewArray()
}

func strCol(mem memory.Allocator, vals ...string) arrow.Array {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.AppendValues(vals, nil)
	return b.NewArray()
}

func joinFixture(mem memory.Allocator, t *testing.T) ([]*plan.Table, map[string]*coltable.Table, *plan.JoinEdge) {
	t.Helper()
	usinas := &plan.Table{Name: "usinas"}
	up := &plan.Table{Name: "usinas_part_subsis", Alias: "up"}

	left := &plan.Column{Name: "id", Type: schema.Int, TableName: "usinas"}
	right := &plan.Column{Name: "id", Type: schema.Int, TableName: "usinas_part_subsis", TableAlias: "up", HasQualifierInQuery: true}

	scanned := map[string]*coltable.Table{
		"usinas": tableOf(t, mem, []string{"id", "nome"},
			intCol(mem, 1, 2, 3), strCol(mem, "a", "b", "c")),
		"up": tableOf(t, mem, []string{"id_up", "codigo_up"},
			intCol(mem, 2, 3, 4), strCol(mem, "X", "Y", "Z")),
	}
	edge := &plan.JoinEdge{Left: left, Right: right, Kind: "INNER"}
	return []*plan.Table{usinas, up}, scanned, edge
}

func TestExecuteInnerJoin(t *testing.T) {
	mem := memory.DefaultAllocator
	tables, scanned, edge := joinFixture(mem, t)

	out, err := Execute(mem, tables, scanned, []*plan.JoinEdge{edge})
	require.NoError(t, err)
	require.EqualValues(t, 2, out.NumRows())
	require.Equal(t, []string{"id", "nome", "id_up", "codigo_up"}, out.ColumnNames())

	require.Equal(t, []int64{2, 3}, out.Column("id").(*array.Int64).Int64Values())
	require.Equal(t, []int64{2, 3}, out.Column("id_up").(*array.Int64).Int64Values())
	require.Equal(t, "X", out.Column("codigo_up").(*array.String).Value(0))
}

func TestExecuteNoJoins(t *testing.T) {
	mem := memory.DefaultAllocator
	tables, scanned, _ := joinFixture(mem, t)

	out, err := Execute(mem, tables[:1], scanned, nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, out.NumRows())
}

func TestExecuteNonInnerRejected(t *testing.T) {
	mem := memory.DefaultAllocator
	tables, scanned, edge := joinFixture(mem, t)
	edge.Kind = "LEFT"

	_, err := Execute(mem, tables, scanned, []*plan.JoinEdge{edge})
	require.Error(t, err)
	require.True(t, engineerr.Is(err, engineerr.NotImplemented))
}

func TestExecuteDuplicateMatchesMultiply(t *testing.T) {
	mem := memory.DefaultAllocator
	usinas := &plan.Table{Name: "usinas"}
	medidas := &plan.Table{Name: "medidas"}

	scanned := map[string]*coltable.Table{
		"usinas": tableOf(t, mem, []string{"id"}, intCol(mem, 1, 2)),
		"medidas": tableOf(t, mem, []string{"usina_id_medidas", "valor_medidas"},
			intCol(mem, 1, 1, 2), intCol(mem, 10, 11, 20)),
	}
	edge := &plan.JoinEdge{
		Left:  &plan.Column{Name: "id", Type: schema.Int, TableName: "usinas"},
		Right: &plan.Column{Name: "usina_id", Type: schema.Int, TableName: "medidas", HasQualifierInQuery: true},
		Kind:  "INNER",
	}

	out, err := Execute(mem, []*plan.Table{usinas, medidas}, scanned, []*plan.JoinEdge{edge})
	require.NoError(t, err)
	require.EqualValues(t, 3, out.NumRows(), "one output row per matching pair")
}

func TestExecuteMissingScan(t *testing.T) {
	mem := memory.DefaultAllocator
	tables, scanned, edge := joinFixture(mem, t)
	delete(scanned, "up")

	_, err := Execute(mem, tables, scanned, []*plan.JoinEdge{edge})
	require.Error(t, err)
}

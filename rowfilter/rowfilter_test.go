package rowfilter

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/schema"
)

func usinasTable(t *testing.T, mem memory.Allocator) *coltable.Table {
	t.Helper()
	sch := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "capacidade_instalada", Type: arrow.PrimitiveTypes.Float64},
		{Name: "subsis", Type: arrow.BinaryTypes.String},
	}, nil)

	idb := array.NewInt64Builder(mem)
	defer idb.Release()
	idb.AppendValues([]int64{1, 2, 3, 4}, nil)
	cb := array.NewFloat64Builder(mem)
	defer cb.Release()
	cb.AppendValues([]float64{50, 150, 250, 90}, nil)
	sb := array.NewStringBuilder(mem)
	defer sb.Release()
	sb.AppendValues([]string{"NE", "SE", "NE", "S"}, nil)

	cols := []arrow.Array{idb.NewArray(), cb.NewArray(), sb.NewArray()}
	rec := array.NewRecord(sch, cols, 4)
	for _, c := range cols {
		c.Release()
	}
	return coltable.New(rec)
}

func col(name string, typ schema.Type) *plan.Column {
	return &plan.Column{Name: name, Type: typ, TableName: "usinas"}
}

func filt(c *plan.Column, op plan.QueryingOp, value string, values ...string) plan.QueryingElem {
	return plan.QueryingElem{Filter: &plan.QueryingFilter{Column: c, Op: op, Value: value, Values: values}}
}

func conn(c plan.Connective) plan.QueryingElem {
	return plan.QueryingElem{Connective: c}
}

func ids(t *testing.T, tbl *coltable.Table) []int64 {
	t.Helper()
	return tbl.Column("id").(*array.Int64).Int64Values()
}

func TestApplyEmptyStreamIsNoOp(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	out, err := Apply(mem, tbl, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3, 4}, ids(t, out))
}

func TestApplyComparisons(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	cap := col("capacidade_instalada", schema.Float)

	tests := []struct {
		name   string
		stream []plan.QueryingElem
		want   []int64
	}{
		{"gt", []plan.QueryingElem{filt(cap, plan.OpGT, "100")}, []int64{2, 3}},
		{"gte", []plan.QueryingElem{filt(cap, plan.OpGTE, "150")}, []int64{2, 3}},
		{"lt", []plan.QueryingElem{filt(cap, plan.OpLT, "90")}, []int64{1}},
		{"lte", []plan.QueryingElem{filt(cap, plan.OpLTE, "90")}, []int64{1, 4}},
		{"eq", []plan.QueryingElem{filt(cap, plan.OpEQ, "250")}, []int64{3}},
		{"neq", []plan.QueryingElem{filt(cap, plan.OpNEQ, "250")}, []int64{1, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(mem, tbl, tt.stream)
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(t, out))
		})
	}
}

func TestApplyStringEquality(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	out, err := Apply(mem, tbl, []plan.QueryingElem{
		filt(col("subsis", schema.String), plan.OpEQ, "'NE'"),
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3}, ids(t, out))
}

func TestApplyInAndNotIn(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	subsis := col("subsis", schema.String)

	in, err := Apply(mem, tbl, []plan.QueryingElem{
		filt(subsis, plan.OpIN, "", "'NE'", "'S'"),
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3, 4}, ids(t, in))

	notIn, err := Apply(mem, tbl, []plan.QueryingElem{
		filt(subsis, plan.OpNotIn, "", "'NE'", "'S'"),
	})
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids(t, notIn))
}

func TestApplyBooleanStructure(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	cap := col("capacidade_instalada", schema.Float)
	subsis := col("subsis", schema.String)

	// (subsis = 'NE' AND capacidade_instalada > 100) OR id = 4
	out, err := Apply(mem, tbl, []plan.QueryingElem{
		conn(plan.ConnLParen),
		filt(subsis, plan.OpEQ, "'NE'"),
		conn(plan.ConnAnd),
		filt(cap, plan.OpGT, "100"),
		conn(plan.ConnRParen),
		conn(plan.ConnOr),
		filt(col("id", schema.Int), plan.OpEQ, "4"),
	})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 4}, ids(t, out))
}

func TestApplyNot(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	out, err := Apply(mem, tbl, []plan.QueryingElem{
		conn(plan.ConnNot),
		filt(col("subsis", schema.String), plan.OpEQ, "'NE'"),
	})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 4}, ids(t, out))
}

func TestApplyTypeMismatch(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	_, err := Apply(mem, tbl, []plan.QueryingElem{
		filt(col("capacidade_instalada", schema.Float), plan.OpGT, "'cem'"),
	})
	require.Error(t, err)
}

func TestApplyUnknownColumn(t *testing.T) {
	mem := memory.DefaultAllocator
	tbl := usinasTable(t, mem)
	_, err := Apply(mem, tbl, []plan.QueryingElem{
		filt(col("volume", schema.Float), plan.OpGT, "1"),
	})
	require.Error(t, err)
}

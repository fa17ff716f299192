package pruner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/schema"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		file  string
		table string
		want  []KV
	}{
		{
			"usinas_part_subsis-subsistema_geografico=NE.parquet.gzip",
			"usinas_part_subsis",
			[]KV{{Key: "subsistema_geografico", Value: "NE"}},
		},
		{
			"ventos-quadricula=12-ano=2023.csv",
			"ventos",
			[]KV{{Key: "quadricula", Value: "12"}, {Key: "ano", Value: "2023"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := ParseFileName(tt.file, tt.table)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFileNameErrors(t *testing.T) {
	tests := []struct {
		file  string
		table string
	}{
		{"outra_tabela-k=v.csv", "ventos"},
		{"ventos.csv", "ventos"},
		{"ventos-semigual.csv", "ventos"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := ParseFileName(tt.file, tt.table)
			require.Error(t, err)
		})
	}
}

var ventoFiles = []string{
	"ventos-quadricula=1.csv",
	"ventos-quadricula=2.csv",
	"ventos-quadricula=3.csv",
}

func ventoIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := BuildIndex("ventos", []string{"quadricula"}, ventoFiles)
	require.NoError(t, err)
	return idx
}

var ventoTypes = map[string]schema.Type{"quadricula": schema.Int}

func quadriculaCol() *plan.Column {
	return &plan.Column{Name: "quadricula", Type: schema.Int, TableName: "ventos", IsPartition: true}
}

func filterElem(op plan.QueryingOp, value string, values ...string) plan.QueryingElem {
	return plan.QueryingElem{Filter: &plan.QueryingFilter{
		Column: quadriculaCol(), Op: op, Value: value, Values: values,
	}}
}

func conn(c plan.Connective) plan.QueryingElem {
	return plan.QueryingElem{Connective: c}
}

func TestBuildIndexCandidates(t *testing.T) {
	idx := ventoIndex(t)
	require.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, idx.CandidateValues("quadricula"))
	require.Equal(t, []string{"ventos-quadricula=2.csv"}, idx.FilesForValue("quadricula", "2"))

	v, err := idx.ValueFor("ventos-quadricula=3.csv", "quadricula")
	require.NoError(t, err)
	require.Equal(t, "3", v)

	_, err = idx.ValueFor("ventos-quadricula=3.csv", "ano")
	require.Error(t, err)
}

func TestPruneNoFilters(t *testing.T) {
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, ventoFiles, got)
}

func TestPruneEquality(t *testing.T) {
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		filterElem(plan.OpEQ, "2"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ventos-quadricula=2.csv"}, got)
}

func TestPruneInequality(t *testing.T) {
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		filterElem(plan.OpNEQ, "2"),
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ventos-quadricula=1.csv", "ventos-quadricula=3.csv"}, got)
}

func TestPruneOrderedBounds(t *testing.T) {
	// Two AND-ed bounds narrow to their intersection.
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		filterElem(plan.OpGT, "1"),
		conn(plan.ConnAnd),
		filterElem(plan.OpLT, "3"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ventos-quadricula=2.csv"}, got)
}

func TestPruneOrUnions(t *testing.T) {
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		filterElem(plan.OpEQ, "1"),
		conn(plan.ConnOr),
		filterElem(plan.OpEQ, "3"),
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ventos-quadricula=1.csv", "ventos-quadricula=3.csv"}, got)
}

func TestPruneInSet(t *testing.T) {
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		filterElem(plan.OpIN, "", "1", "3"),
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ventos-quadricula=1.csv", "ventos-quadricula=3.csv"}, got)
}

func TestPruneNotInSet(t *testing.T) {
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		filterElem(plan.OpNotIn, "", "1", "3"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ventos-quadricula=2.csv"}, got)
}

func TestPruneNegationPushdown(t *testing.T) {
	// NOT (quadricula = 2) keeps the complement of the equality.
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		conn(plan.ConnNot),
		conn(plan.ConnLParen),
		filterElem(plan.OpEQ, "2"),
		conn(plan.ConnRParen),
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ventos-quadricula=1.csv", "ventos-quadricula=3.csv"}, got)
}

func TestPruneNonPartitionAtomKeepsAll(t *testing.T) {
	// A filter over a non-partition column contributes nothing to pruning.
	other := plan.QueryingElem{Filter: &plan.QueryingFilter{
		Column: &plan.Column{Name: "valor", Type: schema.Float, TableName: "ventos"},
		Op:     plan.OpGT, Value: "10",
	}}
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{other})
	require.NoError(t, err)
	require.ElementsMatch(t, ventoFiles, got)
}

func TestPruneOrWithNonPartitionKeepsAll(t *testing.T) {
	// quadricula = 2 OR valor > 10: the non-partition side may match any
	// file, so the union keeps everything.
	other := plan.QueryingElem{Filter: &plan.QueryingFilter{
		Column: &plan.Column{Name: "valor", Type: schema.Float, TableName: "ventos"},
		Op:     plan.OpGT, Value: "10",
	}}
	got, err := Prune(ventoIndex(t), "ventos", ventoTypes, []plan.QueryingElem{
		filterElem(plan.OpEQ, "2"),
		conn(plan.ConnOr),
		other,
	})
	require.NoError(t, err)
	require.ElementsMatch(t, ventoFiles, got)
}

func TestPruneMultipleKeysIntersect(t *testing.T) {
	files := []string{
		"ventos-quadricula=1-ano=2022.csv",
		"ventos-quadricula=1-ano=2023.csv",
		"ventos-quadricula=2-ano=2023.csv",
	}
	idx, err := BuildIndex("ventos", []string{"quadricula", "ano"}, files)
	require.NoError(t, err)
	types := map[string]schema.Type{"quadricula": schema.Int, "ano": schema.Int}

	ano := plan.QueryingElem{Filter: &plan.QueryingFilter{
		Column: &plan.Column{Name: "ano", Type: schema.Int, TableName: "ventos", IsPartition: true},
		Op:     plan.OpEQ, Value: "2023",
	}}
	got, err := Prune(idx, "ventos", types, []plan.QueryingElem{
		filterElem(plan.OpEQ, "1"),
		conn(plan.ConnAnd),
		ano,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ventos-quadricula=1-ano=2023.csv"}, got)
}

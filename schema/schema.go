// Package schema models the `.schema.json` document found at the root of
// every database and table directory: a single tagged document that is
// either a database (table name -> sub-URI) or a table (columns +
// partition keys + file codec). It also holds the type-casting matrix
// shared by partition-value injection and row-filter literal casting.
package schema

import (
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/morgana/queryengine/engineerr"
)

// Type is one of the six column types a schema document may declare.
type Type string

const (
	Int      Type = "int"
	Float    Type = "float"
	String   Type = "string"
	Bool     Type = "bool"
	Date     Type = "date"
	DateTime Type = "datetime"
)

// ParseType validates a type tag from a schema document.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Int, Float, String, Bool, Date, DateTime:
		return Type(s), nil
	}
	return "", engineerr.Schemaf("unknown column type %q", s)
}

// Codec is a file-format tag from a table's schema document.
type Codec string

const (
	Parquet Codec = "PARQUET"
	CSV     Codec = "CSV"
)

// Extension returns the file extension this codec's data files carry.
func (c Codec) Extension() string {
	switch c {
	case Parquet:
		return ".parquet.gzip"
	case CSV:
		return ".csv"
	}
	return ""
}

// Column is a named, typed field of a table: either a stored column or a
// partition key. Names are unique within a table and disjoint between
// columns and partitions.
type Column struct {
	Name string
	Type Type
}

// docTableRef/docColumn/doc mirror the document's wire layout.
type docTableRef struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

type docColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type doc struct {
	URI           string        `json:"uri"`
	Name          string        `json:"name"`
	SchemaType    string        `json:"schema_type"`
	Format        string        `json:"format,omitempty"`
	Tables        []docTableRef `json:"tables,omitempty"`
	Columns       []docColumn   `json:"columns,omitempty"`
	PartitionKeys []docColumn   `json:"partition_keys,omitempty"`
}

// Document is a parsed `.schema.json` file: either a database (listing
// child tables) or a table (listing columns, partition keys, and codec).
type Document struct {
	raw doc
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Parse decodes a `.schema.json` document's bytes.
func Parse(data []byte) (*Document, error) {
	var d doc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, engineerr.Schemaf("invalid schema document: %v", err)
	}
	if d.SchemaType != "database" && d.SchemaType != "table" {
		return nil, engineerr.Schemaf("schema document has unknown schema_type %q", d.SchemaType)
	}
	return &Document{raw: d}, nil
}

// URI is the document's self-referential root URI.
func (d *Document) URI() string { return d.raw.URI }

// Name is the schema's declared name.
func (d *Document) Name() string { return d.raw.Name }

// IsDatabase reports whether this document describes a database.
func (d *Document) IsDatabase() bool { return d.raw.SchemaType == "database" }

// IsTable reports whether this document describes a table.
func (d *Document) IsTable() bool { return d.raw.SchemaType == "table" }

// Codec returns the table's file codec tag. Only valid when IsTable.
func (d *Document) Codec() Codec { return Codec(d.raw.Format) }

// Tables returns the database's child table name -> ref mapping, in
// declared order. Empty for a table document.
func (d *Document) Tables() []docTableRef { return d.raw.Tables }

// TableRef looks up one child table's URI/path reference by name.
func (d *Document) TableRef(name string) (string, bool) {
	for _, t := range d.raw.Tables {
		if t.Name == name {
			return t.Ref, true
		}
	}
	return "", false
}

// Columns returns the table's stored (non-partition) columns, in schema
// declaration order. Empty for a database document.
func (d *Document) Columns() ([]Column, error) {
	return parseColumns(d.raw.Columns)
}

// PartitionKeys returns the table's partition keys, in declaration order;
// that order also defines the order of partition segments in data file
// names. Empty for a database document.
func (d *Document) PartitionKeys() ([]Column, error) {
	return parseColumns(d.raw.PartitionKeys)
}

func parseColumns(in []docColumn) ([]Column, error) {
	out := make([]Column, 0, len(in))
	for _, c := range in {
		t, err := ParseType(c.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, Column{Name: c.Name, Type: t})
	}
	return out, nil
}

// Cast converts the raw, file-name- or literal-encoded string value v into
// the Go representation of the declared Type t. Partition injection and
// row-filter literal casting both dispatch through here so the two stages
// can never disagree on a value's typed form.
func Cast(v string, t Type) (any, error) {
	switch t {
	case Int:
		return parseInt(v)
	case Float:
		return parseFloat(v)
	case String:
		return unquote(v), nil
	case Bool:
		return parseBool(v)
	case Date, DateTime:
		return parseTime(unquote(v))
	}
	return nil, engineerr.Typef("cannot cast %q: unknown type %q", v, t)
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		v = v[1 : len(v)-1]
	}
	return v
}

func parseInt(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, engineerr.Typef("cannot cast %q to int", v)
	}
	return n, nil
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, engineerr.Typef("cannot cast %q to float: %v", v, err)
	}
	return f, nil
}

func parseBool(v string) (bool, error) {
	switch unquote(v) {
	case "true", "True", "TRUE", "1":
		return true, nil
	case "false", "False", "FALSE", "0":
		return false, nil
	}
	return false, engineerr.Typef("cannot cast %q to bool", v)
}

// parseTime accepts full RFC3339 instants (e.g. "2023-01-01T00:00:00+00:00")
// and bare dates (e.g. "2023-01-01") for both date and datetime columns.
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, engineerr.Typef("cannot cast %q to date/datetime", v)
}

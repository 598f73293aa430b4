// Package table holds BigQuery table references, data formats and job handles.
package table

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// Ref identifies a BigQuery table. Project may be empty, meaning the
// client's default project.
type Ref struct {
	Project string
	Dataset string
	Table   string
}

// String renders the ref as dataset.table or project.dataset.table.
func (r Ref) String() string {
	if r.Project == "" {
		return r.Dataset + "." + r.Table
	}
	return r.Project + "." + r.Dataset + "." + r.Table
}

// ParseRef parses "dataset.table". Exactly one dot is accepted and neither
// side may be empty.
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, domain.NewValidationError("table",
			fmt.Sprintf("expected DATASET.TABLE, got %q", s))
	}
	return Ref{Dataset: parts[0], Table: parts[1]}, nil
}

// Format is a BigQuery source or destination format.
type Format string

const (
	FormatCSV  Format = "CSV"
	FormatJSON Format = "NEWLINE_DELIMITED_JSON"
	FormatAvro Format = "AVRO"
)

// ParseFormat normalises a user-supplied format name. An empty string
// selects CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json", "newline_delimited_json":
		return FormatJSON, nil
	case "avro":
		return FormatAvro, nil
	default:
		return "", domain.NewValidationError("format",
			fmt.Sprintf("must be one of csv, json, avro, got %q", s))
	}
}

// JobKind is the type of a BigQuery job.
type JobKind string

const (
	JobQuery   JobKind = "query"
	JobExtract JobKind = "extract"
	JobLoad    JobKind = "load"
	JobCopy    JobKind = "copy"
)

// Job is a handle to a submitted BigQuery job.
type Job struct {
	ID       string
	Location string
	Kind     JobKind
}

// Result holds the rows of a finished query job in column order.
type Result struct {
	Columns []string
	Rows    [][]any
}

package tabular

import (
	"sort"

	"tcpagent/internal/standardize"
	"tcpagent/internal/util"
)

// Pair is one row of the single-record, two-column projection.
type Pair struct {
	Field string
	Label string
	Value any
}

// Table is the multi-record, columnar projection: one column per key
// seen across all records, one row per record, missing cells nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// ToTwoColumn projects one canonical mapping into ordered (label, value)
// pairs, canonical contract-field order first.
func ToTwoColumn(record map[string]any) []Pair {
	out := make([]Pair, 0, len(record))
	for _, field := range orderedKeys(record) {
		out = append(out, Pair{Field: field, Label: util.FieldLabel(field), Value: record[field]})
	}
	return out
}

// ToColumnar projects many canonical mappings into a table whose column
// set is the union of all record keys.
func ToColumnar(records []map[string]any) Table {
	seen := map[string]struct{}{}
	columns := []string{}

	for _, field := range standardize.ContractColumnOrder {
		for _, record := range records {
			if _, ok := record[field]; ok {
				columns = append(columns, field)
				seen[field] = struct{}{}
				break
			}
		}
	}

	extras := []string{}
	for _, record := range records {
		for field := range record {
			if _, ok := seen[field]; ok {
				continue
			}
			seen[field] = struct{}{}
			extras = append(extras, field)
		}
	}
	sort.Strings(extras)
	columns = append(columns, extras...)

	rows := make([][]any, 0, len(records))
	for _, record := range records {
		row := make([]any, len(columns))
		for i, field := range columns {
			row[i] = record[field]
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}

func orderedKeys(record map[string]any) []string {
	out := make([]string, 0, len(record))
	seen := map[string]struct{}{}
	for _, field := range standardize.ContractColumnOrder {
		if _, ok := record[field]; ok {
			out = append(out, field)
			seen[field] = struct{}{}
		}
	}
	extras := []string{}
	for field := range record {
		if _, ok := seen[field]; !ok {
			extras = append(extras, field)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

package charts

import (
	"strconv"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Column describes one table column.
type Column struct {
	Key   string
	Label string
	Align string // "left" or "right"
}

// TableData is a renderer-agnostic table: columns plus formatted cells.
type TableData struct {
	Columns []Column
	Rows    [][]string
}

// Len returns the number of rows.
func (t TableData) Len() int { return len(t.Rows) }

// RowNumberColumn is the DataGrid's leading column key.
const RowNumberColumn = "row"

func numeric(col string) bool {
	_, err := penguins.ParseAttribute(col)
	return err == nil || col == "year"
}

// DataTable shows every dataset column, missing values as NA.
func DataTable(rows []penguins.Record) TableData {
	columns := make([]Column, 0, len(penguins.Columns))
	for _, c := range penguins.Columns {
		columns = append(columns, Column{Key: c, Label: c, Align: "left"})
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Strings())
	}
	return TableData{Columns: columns, Rows: out}
}

// DataGrid is DataTable with a leading 1-based row number and numeric
// columns right-aligned. rowNumbers gives each row's position in the source
// dataset; when nil, rows are numbered from one.
func DataGrid(rows []penguins.Record, rowNumbers []int) TableData {
	columns := make([]Column, 0, len(penguins.Columns)+1)
	columns = append(columns, Column{Key: RowNumberColumn, Label: "#", Align: "right"})
	for _, c := range penguins.Columns {
		align := "left"
		if numeric(c) {
			align = "right"
		}
		columns = append(columns, Column{Key: c, Label: c, Align: align})
	}

	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		n := i + 1
		if i < len(rowNumbers) {
			n = rowNumbers[i] + 1
		}
		out = append(out, append([]string{strconv.Itoa(n)}, r.Strings()...))
	}
	return TableData{Columns: columns, Rows: out}
}

package stream

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Frame is a materialised result set: a list of column names and rows of values in the same order.
// Database NULLs are nil interfaces.
type Frame struct {
	Columns []string
	Rows    [][]interface{}
}

func NewFrame(columns []string) *Frame {
	return &Frame{Columns: columns, Rows: make([][]interface{}, 0)}
}

// AddRow appends a copy of values to the frame.
func (f *Frame) AddRow(values []interface{}) error {
	if len(values) != len(f.Columns) {
		return errors.Errorf("row has %v values but the frame has %v columns", len(values), len(f.Columns))
	}
	r := make([]interface{}, len(values))
	copy(r, values)
	f.Rows = append(f.Rows, r)
	return nil
}

func (f *Frame) Count() int64 {
	return int64(len(f.Rows))
}

// ColumnIndex returns the position of column name (case insensitive) or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// WithColumn returns a new frame with column name set to value on every row.
// An existing column of the same name is overwritten. The receiver is not modified.
func (f *Frame) WithColumn(name string, value interface{}) *Frame {
	idx := f.ColumnIndex(name)
	cols := make([]string, len(f.Columns), len(f.Columns)+1)
	copy(cols, f.Columns)
	if idx < 0 {
		cols = append(cols, name)
	}
	out := &Frame{Columns: cols, Rows: make([][]interface{}, len(f.Rows))}
	for i, row := range f.Rows {
		r := make([]interface{}, len(cols))
		copy(r, row)
		if idx < 0 {
			r[len(cols)-1] = value
		} else {
			r[idx] = value
		}
		out.Rows[i] = r
	}
	return out
}

// WithLoadTimestamp stamps every row with column name set to ts.
func (f *Frame) WithLoadTimestamp(name string, ts time.Time) *Frame {
	return f.WithColumn(name, ts)
}

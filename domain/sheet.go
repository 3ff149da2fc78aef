package domain

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"
)

// Sheet is the subset of a Smartsheet sheet document the board is built from.
type Sheet struct {
	ID      int64    `json:"id"`
	Name    *string  `json:"name,omitempty"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Column identifies a sheet column by its opaque id and header title.
type Column struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Row is an ordered list of cells. Row ids from the source are ignored;
// records get positional ids during Transform.
type Row struct {
	ID        int64  `json:"id,omitempty"`
	RowNumber int    `json:"rowNumber,omitempty"`
	Cells     []Cell `json:"cells"`
}

// Cell holds the raw and formatted value of one row/column intersection.
type Cell struct {
	ColumnID     int64      `json:"columnId"`
	Value        *CellValue `json:"value,omitempty"`
	DisplayValue *string    `json:"displayValue,omitempty"`
}

// CellValue is a cell's raw value rendered as text. Smartsheet sends
// strings, numbers and booleans here; numbers keep their literal form.
// null, false and zero numbers count as no value and decode to "".
type CellValue string

func (v *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = CellValue(s)
		return nil
	}
	if isFalsyLiteral(data) {
		*v = ""
		return nil
	}
	*v = CellValue(data)
	return nil
}

func isFalsyLiteral(data []byte) bool {
	if bytes.Equal(data, []byte("false")) {
		return true
	}
	if data[0] != '-' && (data[0] < '0' || data[0] > '9') {
		return false
	}
	f, err := strconv.ParseFloat(string(data), 64)
	return err == nil && f == 0
}

// Text resolves the value published for the cell: the display value when it
// is non-empty, otherwise the raw value, otherwise "".
func (c Cell) Text() string {
	if c.DisplayValue != nil && *c.DisplayValue != "" {
		return *c.DisplayValue
	}
	if c.Value != nil && *c.Value != "" {
		return string(*c.Value)
	}
	return ""
}

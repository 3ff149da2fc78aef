package domain

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/bytedance/sonic"
)

// Status labels counted in the board summary. Matching is exact.
const (
	StatusInProduction  = "In Production"
	StatusPOCDone       = "POC Done"
	StatusPOCInProgress = "POC In Progress"
)

const (
	// FieldID is the positional row id; it cannot be used as a mapped field.
	FieldID     = "id"
	FieldName   = "name"
	FieldStatus = "status"

	DefaultTitle = "AI Use Cases"
)

// UseCase is one retained sheet row keyed by domain field name.
type UseCase struct {
	ID     int
	Fields map[string]string
}

// Get returns the value of field, or "" when the row had no such cell.
func (u UseCase) Get(field string) string {
	return u.Fields[field]
}

func (u UseCase) Name() string   { return u.Get(FieldName) }
func (u UseCase) Status() string { return u.Get(FieldStatus) }

// MarshalJSON writes the id first followed by the fields sorted by name, so
// equal records always encode to equal bytes.
func (u UseCase) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(u.Fields))
	for k := range u.Fields {
		if k == FieldID {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, 0, 16+32*len(keys))
	buf = append(buf, `{"id":`...)
	buf = strconv.AppendInt(buf, int64(u.ID), 10)
	for _, k := range keys {
		kb, err := sonic.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := sonic.Marshal(u.Fields[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, ',')
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}

func (u *UseCase) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := UseCase{Fields: make(map[string]string, len(raw))}
	for k, v := range raw {
		if k == FieldID {
			n, ok := v.(float64)
			if !ok {
				return fmt.Errorf("use case id: expected a number, got %T", v)
			}
			out.ID = int(n)
			continue
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("use case %q: expected a string, got %T", k, v)
		}
		out.Fields[k] = s
	}
	*u = out
	return nil
}

// Summary holds the board's headline counters.
type Summary struct {
	TotalInitiatives int `json:"total_initiatives"`
	InProduction     int `json:"in_production"`
	POCDone          int `json:"poc_done"`
	POCInProgress    int `json:"poc_in_progress"`
}

// Metadata describes where a board came from.
type Metadata struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	LastUpdated string `json:"last_updated"`
}

// Board is the document served by the use-cases endpoint.
type Board struct {
	Metadata Metadata  `json:"metadata"`
	Summary  Summary   `json:"summary"`
	UseCases []UseCase `json:"use_cases"`
}

// Source labels the origin of a board in its metadata.
type Source struct {
	Label       string
	LastUpdated string
}

// LiveSource is used for boards read straight from the Smartsheet API.
var LiveSource = Source{Label: "Smartsheet (live)", LastUpdated: "live"}

package domain

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"gopkg.in/yaml.v3"
)

// FieldMapping binds a domain field name to the column title it is read from.
type FieldMapping struct {
	Field string
	Title string
}

// FieldMap is the column_map of the sheet configuration. It keeps document
// order so that title collisions resolve to the entry declared last.
type FieldMap []FieldMapping

// NewFieldMap builds a FieldMap from field/title pairs, in order.
func NewFieldMap(pairs ...FieldMapping) FieldMap {
	var m FieldMap
	for _, p := range pairs {
		m = m.Set(p.Field, p.Title)
	}
	return m
}

// Set returns the map with field bound to title. A field that is already
// present keeps its position and takes the new title. As with append, the
// returned map must be used in place of m.
func (m FieldMap) Set(field, title string) FieldMap {
	for i := range m {
		if m[i].Field == field {
			m[i].Title = title
			return m
		}
	}
	return append(m, FieldMapping{Field: field, Title: title})
}

// Title returns the column title configured for field.
func (m FieldMap) Title(field string) (string, bool) {
	for _, p := range m {
		if p.Field == field {
			return p.Title, true
		}
	}
	return "", false
}

// Fields lists the domain field names in declaration order.
func (m FieldMap) Fields() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Field
	}
	return out
}

// ByTitle inverts the map to column title -> field name. When two fields
// name the same title the later declaration wins.
func (m FieldMap) ByTitle() map[string]string {
	out := make(map[string]string, len(m))
	for _, p := range m {
		out[p.Title] = p.Field
	}
	return out
}

func (m *FieldMap) UnmarshalJSON(data []byte) error {
	root, err := sonic.GetFromString(string(data))
	if err != nil {
		return err
	}
	if root.TypeSafe() != ast.V_OBJECT {
		return fmt.Errorf("column_map: expected an object")
	}
	var (
		out     FieldMap
		iterErr error
	)
	err = root.ForEach(func(path ast.Sequence, node *ast.Node) bool {
		if path.Key == nil {
			return true
		}
		if node.TypeSafe() != ast.V_STRING {
			iterErr = fmt.Errorf("column_map: title for %q must be a string", *path.Key)
			return false
		}
		title, err := node.String()
		if err != nil {
			iterErr = fmt.Errorf("column_map: %q: %w", *path.Key, err)
			return false
		}
		out = out.Set(*path.Key, title)
		return true
	})
	if err != nil {
		return err
	}
	if iterErr != nil {
		return iterErr
	}
	*m = out
	return nil
}

func (m FieldMap) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 32*len(m)+2)
	buf = append(buf, '{')
	for i, p := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := sonic.Marshal(p.Field)
		if err != nil {
			return nil, err
		}
		v, err := sonic.Marshal(p.Title)
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}

func (m *FieldMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("column_map: expected a mapping at line %d", value.Line)
	}
	var out FieldMap
	for i := 0; i+1 < len(value.Content); i += 2 {
		var field, title string
		if err := value.Content[i].Decode(&field); err != nil {
			return fmt.Errorf("column_map: line %d: %w", value.Content[i].Line, err)
		}
		if value.Content[i+1].Kind != yaml.ScalarNode {
			return fmt.Errorf("column_map: title for %q must be a string", field)
		}
		if err := value.Content[i+1].Decode(&title); err != nil {
			return fmt.Errorf("column_map: %q: %w", field, err)
		}
		out = out.Set(field, title)
	}
	*m = out
	return nil
}

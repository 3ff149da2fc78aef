package domain

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestFieldMapJSONKeepsDocumentOrder(t *testing.T) {
	var m FieldMap
	if err := sonic.Unmarshal([]byte(`{"status":"Status","name":"Use Case","owner":"Owner"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff([]string{"status", "name", "owner"}, m.Fields()); diff != "" {
		t.Fatalf("unexpected field order (-want +got):\n%s", diff)
	}
	title, ok := m.Title("name")
	if !ok || title != "Use Case" {
		t.Fatalf("expected name -> Use Case, got %q (found=%v)", title, ok)
	}
}

func TestFieldMapJSONRejectsNonStringTitles(t *testing.T) {
	var m FieldMap
	err := sonic.Unmarshal([]byte(`{"name": 5}`), &m)
	if err == nil {
		t.Fatal("expected error for numeric title")
	}
	if !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected error to name the field, got %v", err)
	}

	if err := sonic.Unmarshal([]byte(`["name"]`), &m); err == nil {
		t.Fatal("expected error for array document")
	}
}

func TestFieldMapYAMLKeepsDocumentOrder(t *testing.T) {
	var m FieldMap
	doc := "owner: Owner\nname: Use Case\nstatus: Status\n"
	if err := yaml.Unmarshal([]byte(doc), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff([]string{"owner", "name", "status"}, m.Fields()); diff != "" {
		t.Fatalf("unexpected field order (-want +got):\n%s", diff)
	}
}

func TestFieldMapYAMLRejectsSequences(t *testing.T) {
	var m FieldMap
	if err := yaml.Unmarshal([]byte("- name\n- status\n"), &m); err == nil {
		t.Fatal("expected error for top-level sequence")
	}
	if err := yaml.Unmarshal([]byte("name:\n  - Use Case\n"), &m); err == nil {
		t.Fatal("expected error for sequence title")
	}
}

func TestFieldMapByTitleLastDeclaredWins(t *testing.T) {
	var m FieldMap
	if err := sonic.Unmarshal([]byte(`{"title":"Use Case","name":"Use Case","status":"Status"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]string{"Use Case": "name", "Status": "status"}
	if diff := cmp.Diff(want, m.ByTitle()); diff != "" {
		t.Fatalf("unexpected inversion (-want +got):\n%s", diff)
	}
}

func TestFieldMapSetReplacesInPlace(t *testing.T) {
	m := NewFieldMap(
		FieldMapping{Field: "name", Title: "Old"},
		FieldMapping{Field: "status", Title: "Status"},
		FieldMapping{Field: "name", Title: "Use Case"},
	)

	want := FieldMap{{Field: "name", Title: "Use Case"}, {Field: "status", Title: "Status"}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("unexpected map (-want +got):\n%s", diff)
	}
}

func TestFieldMapMarshalJSONPreservesOrder(t *testing.T) {
	m := NewFieldMap(FieldMapping{Field: "status", Title: "Status"}, FieldMapping{Field: "name", Title: "Use \"Case\""})

	payload, err := sonic.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"status":"Status","name":"Use \"Case\""}`
	if string(payload) != want {
		t.Fatalf("expected %s, got %s", want, payload)
	}
}

package domain

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
)

func TestUseCaseMarshalPutsIDFirst(t *testing.T) {
	uc := UseCase{ID: 3, Fields: map[string]string{"status": "POC Done", "name": "Chatbot", "department": "Ops"}}

	payload, err := sonic.Marshal(uc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":3,"department":"Ops","name":"Chatbot","status":"POC Done"}`
	if string(payload) != want {
		t.Fatalf("expected %s, got %s", want, payload)
	}
}

func TestUseCaseUnmarshal(t *testing.T) {
	var uc UseCase
	if err := sonic.Unmarshal([]byte(`{"id":7,"name":"Chatbot","status":"In Production"}`), &uc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := UseCase{ID: 7, Fields: map[string]string{"name": "Chatbot", "status": "In Production"}}
	if diff := cmp.Diff(want, uc); diff != "" {
		t.Fatalf("unexpected use case (-want +got):\n%s", diff)
	}

	if err := sonic.Unmarshal([]byte(`{"id":"7"}`), &uc); err == nil {
		t.Fatal("expected error for string id")
	}
	if err := sonic.Unmarshal([]byte(`{"id":7,"name":1}`), &uc); err == nil {
		t.Fatal("expected error for numeric field")
	}
}

func TestSummarize(t *testing.T) {
	useCases := []UseCase{
		{ID: 1, Fields: map[string]string{"name": "a", "status": StatusInProduction}},
		{ID: 2, Fields: map[string]string{"name": "b", "status": StatusInProduction}},
		{ID: 3, Fields: map[string]string{"name": "c", "status": StatusPOCDone}},
		{ID: 5, Fields: map[string]string{"name": "d", "status": StatusPOCInProgress}},
		{ID: 6, Fields: map[string]string{"name": "e"}},
	}

	if diff := cmp.Diff(Summary{TotalInitiatives: 5, InProduction: 2, POCDone: 1, POCInProgress: 1}, Summarize(useCases)); diff != "" {
		t.Fatalf("unexpected summary (-want +got):\n%s", diff)
	}
	if got := Summarize(nil); got != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

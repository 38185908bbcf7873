package llm

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestStringObjectJSONSchema(t *testing.T) {
	s := StringObject(
		Field{Name: "corrected", Description: "fixed text"},
		Field{Name: "explanation"},
	)
	got := s.JSONSchema()
	if got["type"] != "object" || got["additionalProperties"] != false {
		t.Fatalf("unexpected object header: %v", got)
	}
	if !reflect.DeepEqual(got["required"], []string{"corrected", "explanation"}) {
		t.Fatalf("unexpected required list: %v", got["required"])
	}
	props := got["properties"].(map[string]any)
	corrected := props["corrected"].(map[string]any)
	if corrected["type"] != "string" || corrected["description"] != "fixed text" {
		t.Fatalf("unexpected property schema: %v", corrected)
	}
	if _, ok := props["explanation"].(map[string]any)["description"]; ok {
		t.Fatalf("empty description should be omitted")
	}
}

func TestNilSchema(t *testing.T) {
	var s *Schema
	if s.JSONSchema() != nil {
		t.Fatalf("nil schema should render nil")
	}
}

func TestFakeRepliesInOrder(t *testing.T) {
	f := &Fake{Replies: []string{"one", "two"}}
	for _, want := range []string{"one", "two", "two"} {
		resp, err := f.Generate(context.Background(), Request{Prompt: want})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text != want {
			t.Fatalf("expected %q, got %q", want, resp.Text)
		}
	}
	if f.Calls() != 3 {
		t.Fatalf("expected 3 calls, got %d", f.Calls())
	}
	if f.Requests()[0].Prompt != "one" {
		t.Fatalf("request not recorded")
	}
}

func TestFakeError(t *testing.T) {
	boom := errors.New("boom")
	f := &Fake{Err: boom}
	if _, err := f.Generate(context.Background(), Request{}); !errors.Is(err, boom) {
		t.Fatalf("expected scripted error, got %v", err)
	}
}

func TestFakeBlockHonoursContext(t *testing.T) {
	f := &Fake{Block: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := f.Generate(ctx, Request{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

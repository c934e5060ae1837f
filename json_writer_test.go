package cashbook

import (
	"encoding/json"
	"errors"
	"testing"
)

type failingMarshaler struct{}

func (failingMarshaler) MarshalJSON() ([]byte, error) { return nil, errors.New("boom") }

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("field order is kept", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("kind", "income")
		w.Append("id", "a")
		w.Embed(json.RawMessage(`{"amount":60,"currency":"USD"}`))
		w.Append("source", "x")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"kind":"income","id":"a","amount":60,"currency":"USD","source":"x"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // a zero value is still written by Append.
		w.Optional("b", "")
		w.Optional("c", []StepDown{})
		w.Optional("d", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"a":0,"d":"hello"}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("errors are sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("bad", failingMarshaler{})
		w.Append("good", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("expected an error")
		}
	})
}

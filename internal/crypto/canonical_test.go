package crypto

import (
	"encoding/json"
	"testing"
)

func TestCanonicalizeOrdersKeysAndDropsNils(t *testing.T) {
	input := map[string]any{
		"b": "value",
		"a": 1,
		"c": nil,
		"d": map[string]any{
			"z": nil,
			"y": true,
		},
	}

	got, err := Canonicalize(input)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}

	want := `{"a":1,"b":"value","d":{"y":true}}`
	if string(got) != want {
		t.Fatalf("unexpected canonical json:\n%s\nwant:\n%s", got, want)
	}
}

func TestCanonicalizeFloats(t *testing.T) {
	input := map[string]any{
		"total": 19.98,
		"items": []any{
			map[string]any{"price": 9.99, "quantity": 2.0},
		},
	}

	got, err := Canonicalize(input)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}

	want := `{"items":[{"price":9.99,"quantity":2}],"total":19.98}`
	if string(got) != want {
		t.Fatalf("unexpected canonical json:\n%s\nwant:\n%s", got, want)
	}
}

func TestCanonicalizeJSONNumber(t *testing.T) {
	got, err := Canonicalize(json.Number("9.990"))
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	if string(got) != "9.99" {
		t.Fatalf("unexpected canonical json: %s", got)
	}

	if _, err := Canonicalize(json.Number("not-a-number")); err != ErrInvalidNumber {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2, "2"},
		{9.99, "9.99"},
		{19.98, "19.98"},
		{-3.5, "-3.5"},
		{1000000, "1000000"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-7"},
		{1e21, "1e+21"},
		{1.5e21, "1.5e+21"},
	}

	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalizeNormalizesNFC(t *testing.T) {
	input := map[string]any{
		"text": "e\u0301",
	}

	got, err := Canonicalize(input)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}

	want := "{\"text\":\"\u00e9\"}"
	if string(got) != want {
		t.Fatalf("unexpected canonical json:\n%s\nwant:\n%s", got, want)
	}
}

func TestCanonicalizeMapKeyCollision(t *testing.T) {
	input := map[string]any{
		"e\u0301": 1,
		"\u00e9":  2,
	}

	_, err := Canonicalize(input)
	if err != ErrKeyCollision {
		t.Fatalf("expected ErrKeyCollision, got %v", err)
	}
}

func TestCanonicalizeRejectsUnsupportedTypes(t *testing.T) {
	if _, err := Canonicalize(map[string]any{"ch": make(chan int)}); err != ErrUnsupportedType {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := Canonicalize(map[int]string{1: "x"}); err != ErrNonStringMapKey {
		t.Fatalf("expected ErrNonStringMapKey, got %v", err)
	}
}

func TestCanonicalizeDeterministic(t *testing.T) {
	input := map[string]any{
		"id": "RCP-1", "total": 19.98, "customerName": "Alice",
	}

	first, err := Canonicalize(input)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Canonicalize(input)
		if err != nil {
			t.Fatalf("canonicalize: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("canonicalization not deterministic: %s vs %s", again, first)
		}
	}
}

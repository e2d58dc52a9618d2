package encoding

import (
	"encoding/json"
	"testing"
)

func TestCanonicalJSONSortsObjectKeys(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "flat keys",
			input: map[string]any{"targets": []any{"eve"}, "ability_id": "cop.investigate", "day": 2},
			want:  `{"ability_id":"cop.investigate","day":2,"targets":["eve"]}`,
		},
		{
			name: "nested maps sort at every level",
			input: map[string]any{
				"vote":  map[string]any{"nominee": "mallory", "by": "alice"},
				"phase": "DAY",
			},
			want: `{"phase":"DAY","vote":{"by":"alice","nominee":"mallory"}}`,
		},
		{
			name:  "arrays keep element order",
			input: []any{"charlie", "alice", "bob"},
			want:  `["charlie","alice","bob"]`,
		},
		{
			name:  "scalars pass through",
			input: map[string]any{"alive": true, "seat": 7, "note": nil, "name": "dora"},
			want:  `{"alive":true,"name":"dora","note":null,"seat":7}`,
		},
		{
			name:  "empty containers",
			input: map[string]any{"grants": []any{}, "meta": map[string]any{}},
			want:  `{"grants":[],"meta":{}}`,
		},
		{
			name:  "raw message input reorders keys",
			input: json.RawMessage(`{"z":1,"a":{"d":4,"c":3}}`),
			want:  `{"a":{"c":3,"d":4},"z":1}`,
		},
		{
			name:  "html characters stay literal",
			input: map[string]any{"content": "<dead> & gone"},
			want:  `{"content":"<dead> & gone"}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CanonicalJSON(tc.input)
			if err != nil {
				t.Fatalf("canonical json: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCanonicalJSONRejectsUnencodable(t *testing.T) {
	if _, err := CanonicalJSON(make(chan int)); err == nil {
		t.Fatal("expected error for unencodable value")
	}
}

func TestCanonicalJSONIsStable(t *testing.T) {
	input := map[string]any{
		"targets": []any{"alice", "bob"},
		"ability": "doctor.protect",
		"day":     3,
	}
	first, err := CanonicalJSON(input)
	if err != nil {
		t.Fatalf("canonical json: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := CanonicalJSON(input)
		if err != nil {
			t.Fatalf("canonical json: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("run %d diverged: %s vs %s", i, again, first)
		}
	}
}

func TestContentHash(t *testing.T) {
	base, err := ContentHash(map[string]any{"ability_id": "vigilante.shoot"})
	if err != nil {
		t.Fatalf("content hash: %v", err)
	}
	if len(base) != 32 {
		t.Fatalf("len = %d, want 32 hex chars", len(base))
	}

	same, err := ContentHash(map[string]any{"ability_id": "vigilante.shoot"})
	if err != nil {
		t.Fatalf("content hash: %v", err)
	}
	if base != same {
		t.Fatal("identical input must hash identically")
	}

	other, err := ContentHash(map[string]any{"ability_id": "cop.investigate"})
	if err != nil {
		t.Fatalf("content hash: %v", err)
	}
	if base == other {
		t.Fatal("different input must hash differently")
	}
}

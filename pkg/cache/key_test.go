package cache

import (
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "kind only",
			key:  Key{Kind: "pokemon-list"},
			want: "pokedex:pokemon-list",
		},
		{
			name: "params sorted",
			key:  Key{Kind: "pokemon-list", Params: map[string]string{"offset": "40", "limit": "20"}},
			want: "pokedex:pokemon-list:limit=20:offset=40",
		},
		{
			name: "detail by id",
			key:  Key{Kind: "pokemon-detail", Params: map[string]string{"id": "25"}},
			want: "pokedex:pokemon-detail:id=25",
		},
		{
			name: "empty kind",
			key:  Key{Params: map[string]string{"id": "1"}},
			want: "pokedex:id=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key{Kind: "k", Params: map[string]string{"a": "1", "b": "2", "c": "3"}}
	b := Key{Kind: "k", Params: map[string]string{"c": "3", "a": "1", "b": "2"}}

	for i := 0; i < 50; i++ {
		if a.String() != b.String() {
			t.Fatalf("keys with equal params differ: %q vs %q", a.String(), b.String())
		}
	}
}

func TestKey_KindsAreDistinct(t *testing.T) {
	byID := NewKey("pokemon-detail", "id", "25")
	byName := NewKey("pokemon-by-name", "name", "25")

	if byID.String() == byName.String() {
		t.Errorf("detail namespaces collide: %q", byID.String())
	}
}

func TestNewKey(t *testing.T) {
	k := NewKey("pokemon-list", "limit", "20", "offset", "0", "dangling")

	if k.Kind != "pokemon-list" {
		t.Errorf("Kind = %q", k.Kind)
	}
	if len(k.Params) != 2 {
		t.Errorf("expected 2 params, got %v", k.Params)
	}
	if NewKey("x").Params != nil {
		t.Error("expected nil params without pairs")
	}
}

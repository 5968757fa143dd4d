package style

import (
	"reflect"
	"testing"
)

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		global Set
		node   Set
		want   Set
	}{
		{
			name: "builtin only",
			want: Builtin(),
		},
		{
			name:   "global overrides builtin",
			global: Set{Rect: Attrs{"fill": "white", "rx": "4"}},
			want: Set{
				Rect: Attrs{"fill": "white", "rx": "4"},
				Text: Attrs{"fill": "black"},
				Path: Attrs{"stroke": "black", "stroke-width": "2"},
			},
		},
		{
			name:   "node overrides global",
			global: Set{Text: Attrs{"fill": "navy", "font-size": "12"}},
			node:   Set{Text: Attrs{"fill": "red"}, Path: Attrs{"stroke-width": "1"}},
			want: Set{
				Rect: Attrs{"fill": "#bfbfbf"},
				Text: Attrs{"fill": "red", "font-size": "12"},
				Path: Attrs{"stroke": "black", "stroke-width": "1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.global, tt.node); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDoesNotAlias(t *testing.T) {
	global := Set{Rect: Attrs{"fill": "white"}}
	a := Resolve(global, Set{})
	b := Resolve(global, Set{})

	a.Rect["fill"] = "changed"
	if b.Rect["fill"] != "white" {
		t.Error("resolved sets share a map")
	}
	if global.Rect["fill"] != "white" {
		t.Error("resolve aliased the global layer")
	}
	if Builtin().Rect["fill"] != "#bfbfbf" {
		t.Error("resolve aliased the builtin layer")
	}
}

func TestKeysSorted(t *testing.T) {
	a := Attrs{"stroke": "x", "fill": "y", "opacity": "z"}
	if got, want := a.Keys(), []string{"fill", "opacity", "stroke"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

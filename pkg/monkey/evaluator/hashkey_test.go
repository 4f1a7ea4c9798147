package evaluator

import (
	"math"
	"testing"
)

func TestStringHashKey(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}
	diff2 := &String{Value: "My name is johnny"}

	if hello1.HashKey() != hello2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if diff1.HashKey() != diff2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if hello1.HashKey() == diff1.HashKey() {
		t.Errorf("strings with different content have same hash keys")
	}
}

func TestStringHashKeyValues(t *testing.T) {
	tests := []struct {
		input    string
		expected HashKey
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
		{"hello", 99162322},
		{"Hello World", -862545276},
		{"Aa", 2112},
		{"BB", 2112},
		{"é", 233},
		{"polygenelubricants", math.MinInt32},
	}

	for _, tt := range tests {
		if got := (&String{Value: tt.input}).HashKey(); got != tt.expected {
			t.Errorf("HashKey(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestScalarHashKeys(t *testing.T) {
	tests := []struct {
		obj      Hashable
		expected HashKey
	}{
		{FALSE, 0},
		{TRUE, 1},
		{&Integer{Value: 0}, 0},
		{&Integer{Value: -42}, -42},
		{&Integer{Value: math.MaxInt64}, math.MaxInt64},
	}

	for _, tt := range tests {
		if got := tt.obj.HashKey(); got != tt.expected {
			t.Errorf("%s HashKey() = %d, want %d", tt.obj.Inspect(), got, tt.expected)
		}
	}
}

func TestAsHashable(t *testing.T) {
	hashable := []Object{TRUE, &Integer{Value: 1}, &String{Value: "k"}}
	for _, obj := range hashable {
		if _, ok := asHashable(obj); !ok {
			t.Errorf("%s should be hashable", obj.Type())
		}
	}

	unhashable := []Object{NULL, &Array{}, NewHash(), &Builtin{Name: "len"}, &Function{}}
	for _, obj := range unhashable {
		if _, ok := asHashable(obj); ok {
			t.Errorf("%s should not be hashable", obj.Type())
		}
	}
}

func TestHashSetKeepsFirstPosition(t *testing.T) {
	h := NewHash()
	h.Set(&String{Value: "a"}, &Integer{Value: 1})
	h.Set(&String{Value: "b"}, &Integer{Value: 2})
	h.Set(&String{Value: "a"}, &Integer{Value: 3})

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	entries := h.Entries()
	if entries[0].Key.Inspect() != `"a"` || entries[0].Value.Inspect() != "3" {
		t.Errorf("first entry = %s: %s", entries[0].Key.Inspect(), entries[0].Value.Inspect())
	}

	if v, ok := h.Get(&String{Value: "b"}); !ok || v.Inspect() != "2" {
		t.Errorf("Get(b) = %v, %t", v, ok)
	}
	if _, ok := h.Get(&String{Value: "z"}); ok {
		t.Error("Get(z) should miss")
	}
}

package lexer

import (
	"strings"
	"testing"
)

var (
	simpleCode = `let x = 1 + 2 * 3`

	complexCode = `
let map = fn(arr, f) {
	let iter = fn(arr, acc) {
		if (len(arr) == 0) {
			acc
		} else {
			iter(rest(arr), push(acc, f(first(arr))));
		}
	};
	iter(arr, []);
};
let people = [{"name": "Alice", "age": 24}, {"name": "Anna", "age": 28}];
let total = 0;
forEach people { total = total + it["age"]; }
puts(map([1, 2, 3], fn(x) { x * 2 }), total);
`
)

func benchmarkLex(b *testing.B, input string) {
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l := New(input)
		for {
			if _, ok := l.NextToken(); !ok {
				break
			}
		}
	}
}

func BenchmarkLexerSimple(b *testing.B) {
	benchmarkLex(b, simpleCode)
}

func BenchmarkLexerComplex(b *testing.B) {
	benchmarkLex(b, complexCode)
}

func BenchmarkLexerLarge(b *testing.B) {
	benchmarkLex(b, strings.Repeat(complexCode, 100))
}

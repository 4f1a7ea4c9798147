package evaluator

// HashKey is the integer an object key is stored under.
type HashKey int64

// Hashable is implemented by the values usable as object keys: booleans,
// integers and strings.
type Hashable interface {
	Object
	HashKey() HashKey
}

// HashKey maps false to 0 and true to 1.
func (b *Boolean) HashKey() HashKey {
	if b.Value {
		return 1
	}
	return 0
}

// HashKey is the integer itself.
func (i *Integer) HashKey() HashKey {
	return HashKey(i.Value)
}

// HashKey is a 32-bit rolling hash over the string's code points:
// h = h*31 + c, wrapped to a signed 32-bit value at every step.
func (s *String) HashKey() HashKey {
	return HashKey(hashString(s.Value))
}

func hashString(s string) int32 {
	var h int32
	for _, c := range s {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// asHashable reports whether obj can be used as an object key.
func asHashable(obj Object) (Hashable, bool) {
	switch obj := obj.(type) {
	case *Boolean:
		return obj, true
	case *Integer:
		return obj, true
	case *String:
		return obj, true
	}
	return nil, false
}

package dictionary

// Index is a read-only, insertion-ordered, name-keyed collection. All the
// collections of a resolved dictionary are exposed through it; the zero value
// and a nil *Index are both empty.
type Index[T any] struct {
	names []string
	items map[string]T
}

func newIndex[T any](capacity int) *Index[T] {
	return &Index[T]{
		names: make([]string, 0, capacity),
		items: make(map[string]T, capacity),
	}
}

// put adds v under name. An existing entry keeps its position and only has
// its value replaced.
func (ix *Index[T]) put(name string, v T) {
	if _, ok := ix.items[name]; !ok {
		ix.names = append(ix.names, name)
	}
	ix.items[name] = v
}

func (ix *Index[T]) clone() *Index[T] {
	if ix == nil {
		return newIndex[T](0)
	}
	c := newIndex[T](len(ix.names))
	for _, name := range ix.names {
		c.put(name, ix.items[name])
	}
	return c
}

// Get returns the entry with the given name.
func (ix *Index[T]) Get(name string) (T, bool) {
	if ix == nil {
		var zero T
		return zero, false
	}
	v, ok := ix.items[name]
	return v, ok
}

// Has reports whether an entry with the given name exists.
func (ix *Index[T]) Has(name string) bool {
	_, ok := ix.Get(name)
	return ok
}

// Len returns the number of entries.
func (ix *Index[T]) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.names)
}

// Names returns a copy of the entry names in order.
func (ix *Index[T]) Names() []string {
	if ix == nil {
		return nil
	}
	names := make([]string, len(ix.names))
	copy(names, ix.names)
	return names
}

// Values returns the entries in order.
func (ix *Index[T]) Values() []T {
	if ix == nil {
		return nil
	}
	values := make([]T, len(ix.names))
	for i, name := range ix.names {
		values[i] = ix.items[name]
	}
	return values
}

// Each calls fn for every entry in order until fn returns false.
func (ix *Index[T]) Each(fn func(name string, v T) bool) {
	if ix == nil {
		return
	}
	for _, name := range ix.names {
		if !fn(name, ix.items[name]) {
			return
		}
	}
}

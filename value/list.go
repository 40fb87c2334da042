package value

// List is an ordered sequence of values, optionally carrying a type name.
//
// The type name is opaque to the codec; it is carried verbatim on the wire
// and never interpreted.
type List struct {
	typ   string
	typed bool
	elems []Value
}

// Type returns the type name of a typed list. The second result reports
// whether the list is typed at all.
func (l *List) Type() (string, bool) {
	return l.typ, l.typed
}

// Len returns the number of elements.
func (l *List) Len() int {
	return len(l.elems)
}

// At returns the element at index i. It panics if i is out of range, like a
// slice index.
func (l *List) At(i int) Value {
	return l.elems[i]
}

// Values returns the backing element slice. The slice is shared with the
// list; callers may use Take on its elements to move payloads out.
func (l *List) Values() []Value {
	return l.elems
}

// Append adds elements to the end of the list.
func (l *List) Append(vals ...Value) {
	l.elems = append(l.elems, vals...)
}

package codec

// Definition describes the layout of a structured object: a type name plus
// the ordered field names shared by every instantiation of that type.
//
// Definitions are codec state, not values. The decoder appends one to its
// definition table for every 'C' record it consumes; the encoder caches one
// per type name and emits it at most once per session.
type Definition struct {
	Name   string
	Fields []string
}

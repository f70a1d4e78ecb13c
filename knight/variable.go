package knight

// Variable is a stable, heap-allocated cell: a name owned by the enclosing
// Environment and a Value, initially Undefined. Variables are never moved
// or freed until their Environment is torn down, so pointer equality
// between two lookups of the same name always holds.
type Variable struct {
	name  string
	value Value
}

// Name returns the variable's identifier.
func (vr *Variable) Name() string { return vr.name }

// Get returns the variable's current value (Undefined if never assigned).
func (vr *Variable) Get() Value { return vr.value }

// Set releases the previous value and stores newValue. Callers are
// responsible for incrementing newValue's refcount on its way in; Set only
// accounts for the outgoing value.
func (vr *Variable) Set(newValue Value) {
	vr.value.Decrement()
	vr.value = newValue
}

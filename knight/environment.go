package knight

// Environment owns every variable name and Variable cell reachable from the
// program, plus the Interner and RNG backing string and `R` operations. Its
// lifetime must enclose every Value derived from it.
type Environment struct {
	variables map[string]*Variable
	interner  *Interner
	rng       *rng
}

// NewEnvironment creates an empty Environment with a fresh Interner and an
// RNG seeded from OS entropy.
func NewEnvironment() *Environment {
	return &Environment{
		variables: make(map[string]*Variable),
		interner:  NewInterner(),
		rng:       seedFromEntropy(),
	}
}

// NewEnvironmentSeeded creates an Environment whose RNG is seeded
// explicitly (0 still falls back to OS entropy), for reproducible runs.
func NewEnvironmentSeeded(seed uint64) *Environment {
	return &Environment{
		variables: make(map[string]*Variable),
		interner:  NewInterner(),
		rng:       seedFrom(seed),
	}
}

// Interner returns the Environment's string interner.
func (e *Environment) Interner() *Interner { return e.interner }

// Lookup returns the stable Variable cell for name, inserting one with an
// Undefined value if absent. Two lookups of the same name always return
// the same pointer.
func (e *Environment) Lookup(name string) *Variable {
	if vr, ok := e.variables[name]; ok {
		return vr
	}
	vr := &Variable{name: name, value: Undefined}
	e.variables[name] = vr
	return vr
}

// Deinit releases every variable's value, discards the variable cells and
// names, and tears down the interner. Call once, when the Environment is
// no longer needed.
func (e *Environment) Deinit() {
	for name, vr := range e.variables {
		vr.value.Decrement()
		delete(e.variables, name)
	}
	e.variables = nil
	e.interner = nil
	e.rng = nil
}

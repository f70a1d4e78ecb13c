package knight

// Run evaluates v against env. Leaves return themselves (strings bump
// their refcount on the way out); variables dereference their cell;
// blocks invoke their function with their unevaluated argument values —
// evaluation order and forcing of arguments is each operator's own
// responsibility.
func Run(v Value, env *Environment) (Value, error) {
	switch {
	case v.IsNull(), v.IsBool(), v.IsInteger():
		return v, nil
	case v.IsString():
		v.StringPtr().Increment()
		return v, nil
	case v.IsVariable():
		cell := v.VariablePtr()
		val := cell.Get()
		if val.IsUndefined() {
			return 0, newError(ErrUndefinedVariable, "variable %q used before assignment", cell.Name())
		}
		val.Increment()
		return val, nil
	case v.IsBlock():
		return v.BlockPtr().Run(env)
	default:
		return 0, newError(ErrInvalidType, "cannot evaluate undefined value")
	}
}

// Play parses exactly one top-level expression from source, evaluates it,
// and releases the parsed tree (the caller's ownership of the expression
// that was just run). Additional expressions left in source are ignored.
func Play(source []byte, env *Environment) (Value, error) {
	p := NewParser(source, env)
	parsed, err := p.Next()
	if err != nil {
		return 0, err
	}

	result, err := Run(parsed, env)
	parsed.Decrement()
	if err != nil {
		return 0, err
	}
	return result, nil
}

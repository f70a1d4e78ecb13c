package knight

func init() {
	register('S', 4, builtinSet)
}

// builtinSet returns a new string formed by replacing the [start,
// start+length) range of its first argument with its fourth argument. The
// source and replacement strings are otherwise untouched (String is
// immutable; SET never mutates in place).
func builtinSet(args []Value, env *Environment) (Value, error) {
	src, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	s, err := src.ToKString(env)
	src.Decrement()
	if err != nil {
		return 0, err
	}
	defer s.Decrement()

	start, length, err := evalStartLength(args[1], args[2], env)
	if err != nil {
		return 0, err
	}
	if start < 0 || length < 0 {
		return 0, newError(ErrDomainError, "SET start/length must be non-negative")
	}
	if start+length > s.Len() {
		return 0, newError(ErrOutOfBounds, "SET range [%d, %d) exceeds length %d", start, start+length, s.Len())
	}

	repl, err := Run(args[3], env)
	if err != nil {
		return 0, err
	}
	r, err := repl.ToKString(env)
	repl.Decrement()
	if err != nil {
		return 0, err
	}
	defer r.Decrement()

	total := s.Len() - length + r.Len()
	out := WithCapacity(total)
	buf := out.AsMutBytes()
	n := copy(buf, s.AsBytes()[:start])
	n += copy(buf[n:], r.AsBytes())
	copy(buf[n:], s.AsBytes()[start+length:])
	env.Interner().Register(out)
	return FromString(out), nil
}

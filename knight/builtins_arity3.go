package knight

func init() {
	register('I', 3, builtinIf)
	register('G', 3, builtinGet)
}

// builtinIf evaluates its condition, then evaluates and returns exactly one
// of the remaining two branches — the other is never touched.
func builtinIf(args []Value, env *Environment) (Value, error) {
	cond, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	truthy, err := cond.ToBool()
	cond.Decrement()
	if err != nil {
		return 0, err
	}
	if truthy {
		return Run(args[1], env)
	}
	return Run(args[2], env)
}

// builtinGet returns the substring of its first argument starting at its
// second (an index) running for its third (a length). A negative start or
// length, or a range exceeding the source length, is an error.
func builtinGet(args []Value, env *Environment) (Value, error) {
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
		return 0, newError(ErrDomainError, "GET start/length must be non-negative")
	}
	if start+length > s.Len() {
		return 0, newError(ErrOutOfBounds, "GET range [%d, %d) exceeds length %d", start, start+length, s.Len())
	}

	result := env.Interner().Substring(s, start, length)
	return FromString(result), nil
}

// evalStartLength evaluates and integer-coerces the shared start/length
// argument pair used by both GET and SET.
func evalStartLength(startArg, lengthArg Value, env *Environment) (int, int, error) {
	startV, err := Run(startArg, env)
	if err != nil {
		return 0, 0, err
	}
	start, err := startV.ToInt()
	startV.Decrement()
	if err != nil {
		return 0, 0, err
	}

	lengthV, err := Run(lengthArg, env)
	if err != nil {
		return 0, 0, err
	}
	length, err := lengthV.ToInt()
	lengthV.Decrement()
	if err != nil {
		return 0, 0, err
	}

	return int(start), int(length), nil
}

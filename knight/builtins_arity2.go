package knight

func init() {
	register('+', 2, builtinAdd)
	register('-', 2, builtinSub)
	register('*', 2, builtinMul)
	register('/', 2, builtinDiv)
	register('%', 2, builtinMod)
	register('^', 2, builtinPow)
	register('<', 2, builtinLess)
	register('>', 2, builtinGreater)
	register('?', 2, builtinEqual)
	register('&', 2, builtinAnd)
	register('|', 2, builtinOr)
	register(';', 2, builtinThen)
	register('W', 2, builtinWhile)
	register('=', 2, builtinAssign)
}

// evalPair evaluates both arguments left-to-right. On failure partway, the
// value(s) already obtained are released before the error propagates.
func evalPair(args []Value, env *Environment) (Value, Value, error) {
	lhs, err := Run(args[0], env)
	if err != nil {
		return 0, 0, err
	}
	rhs, err := Run(args[1], env)
	if err != nil {
		lhs.Decrement()
		return 0, 0, err
	}
	return lhs, rhs, nil
}

// builtinAdd adds two integers, or concatenates two strings (lhs's type
// decides which; rhs must coerce to the same shape).
func builtinAdd(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()

	switch {
	case lhs.IsInteger():
		r, err := rhs.ToInt()
		if err != nil {
			return 0, err
		}
		return addInt(lhs.Int(), r)
	case lhs.IsString():
		rs, err := rhs.ToKString(env)
		if err != nil {
			return 0, err
		}
		result := env.Interner().Concat(lhs.StringPtr(), rs)
		rs.Decrement()
		return FromString(result), nil
	default:
		return 0, newError(ErrInvalidType, "+ requires an integer or string left operand")
	}
}

func addInt(a, b int64) (Value, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, newError(ErrOverflow, "%d + %d overflows", a, b)
	}
	if sum < minInt || sum > maxInt {
		return 0, newError(ErrOverflow, "%d + %d overflows", a, b)
	}
	return FromInt(sum), nil
}

// builtinSub subtracts two integers. String subtraction is not defined.
func builtinSub(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()

	if !lhs.IsInteger() {
		return 0, newError(ErrInvalidType, "- requires an integer left operand")
	}
	r, err := rhs.ToInt()
	if err != nil {
		return 0, err
	}
	a := lhs.Int()
	diff := a - r
	if (r < 0 && diff < a) || (r > 0 && diff > a) {
		return 0, newError(ErrOverflow, "%d - %d overflows", a, r)
	}
	if diff < minInt || diff > maxInt {
		return 0, newError(ErrOverflow, "%d - %d overflows", a, r)
	}
	return FromInt(diff), nil
}

// builtinMul multiplies two integers, or repeats a string lhs rhs times.
func builtinMul(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()

	switch {
	case lhs.IsInteger():
		r, err := rhs.ToInt()
		if err != nil {
			return 0, err
		}
		a := lhs.Int()
		if a != 0 && r != 0 {
			prod := a * r
			if prod/a != r {
				return 0, newError(ErrOverflow, "%d * %d overflows", a, r)
			}
			if prod < minInt || prod > maxInt {
				return 0, newError(ErrOverflow, "%d * %d overflows", a, r)
			}
			return FromInt(prod), nil
		}
		return FromInt(0), nil
	case lhs.IsString():
		r, err := rhs.ToInt()
		if err != nil {
			return 0, err
		}
		if r < 0 {
			return 0, newError(ErrDomainError, "string repeat count %d is negative", r)
		}
		result := env.Interner().Repeat(lhs.StringPtr(), r)
		return FromString(result), nil
	default:
		return 0, newError(ErrInvalidType, "* requires an integer or string left operand")
	}
}

// builtinDiv performs truncating integer division. Division by zero is an error.
func builtinDiv(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()

	if !lhs.IsInteger() {
		return 0, newError(ErrInvalidType, "/ requires an integer left operand")
	}
	r, err := rhs.ToInt()
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, newError(ErrDivisionByZero, "division by zero")
	}
	a := lhs.Int()
	if a == minInt && r == -1 {
		return 0, newError(ErrOverflow, "%d / %d overflows", a, r)
	}
	return FromInt(a / r), nil
}

// builtinMod performs truncating integer remainder. Both a zero and a
// negative divisor are errors (spec leaves the sign of % with a negative
// divisor undefined in C-derived implementations; this one rejects it
// outright rather than picking a sign silently).
func builtinMod(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()

	if !lhs.IsInteger() {
		return 0, newError(ErrInvalidType, "%% requires an integer left operand")
	}
	r, err := rhs.ToInt()
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, newError(ErrDivisionByZero, "modulo by zero")
	}
	if r < 0 {
		return 0, newError(ErrNegativeDenominator, "modulo by negative divisor %d", r)
	}
	a := lhs.Int()
	return FromInt(a % r), nil
}

// builtinPow raises an integer to a non-negative integer power by repeated
// multiplication, one step per unit of the exponent. A negative exponent is a DomainError (Knight integers have no
// fractional representation).
func builtinPow(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()

	if !lhs.IsInteger() {
		return 0, newError(ErrInvalidType, "^ requires an integer left operand")
	}
	exp, err := rhs.ToInt()
	if err != nil {
		return 0, err
	}
	if exp < 0 {
		return 0, newError(ErrDomainError, "negative exponent %d", exp)
	}
	base := lhs.Int()
	var result int64 = 1
	for i := int64(0); i < exp; i++ {
		if base != 0 {
			next := result * base
			if next/base != result {
				return 0, newError(ErrOverflow, "%d ^ %d overflows", base, exp)
			}
			result = next
		} else {
			result = 0
		}
		if result < minInt || result > maxInt {
			return 0, newError(ErrOverflow, "%d ^ %d overflows", base, exp)
		}
	}
	return FromInt(result), nil
}

// builtinLess performs an ordering comparison decided by lhs's type: integer
// magnitude, string lexicographic order, or boolean false<true, with rhs
// coerced to lhs's type first (see compareOrder). An lhs of any other type
// is an InvalidType error.
func builtinLess(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()
	return compareOrder(lhs, rhs, '<', env)
}

// builtinGreater reports whether lhs orders strictly after rhs, under the
// same lhs-decides coercion rule as builtinLess.
func builtinGreater(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()
	return compareOrder(lhs, rhs, '>', env)
}

// compareOrder follows the same mixed-tag rule as the arithmetic operators
// in this file: lhs's tag decides the comparison, and rhs is coerced to
// match it (e.g. `< 1 "2"` coerces "2" to the integer 2).
func compareOrder(lhs, rhs Value, op byte, env *Environment) (Value, error) {
	var less, equal bool
	switch {
	case lhs.IsInteger():
		r, err := rhs.ToInt()
		if err != nil {
			return 0, err
		}
		a := lhs.Int()
		less = a < r
		equal = a == r
	case lhs.IsString():
		rs, err := rhs.ToKString(env)
		if err != nil {
			return 0, err
		}
		less = lhs.StringPtr().Less(rs)
		equal = lhs.StringPtr().Equal(rs)
		rs.Decrement()
	case lhs.IsBool():
		r, err := rhs.ToBool()
		if err != nil {
			return 0, err
		}
		a := lhs.Bool()
		less = !a && r
		equal = a == r
	default:
		return 0, newError(ErrInvalidType, "cannot order values of these types")
	}
	if op == '<' {
		return FromBool(less), nil
	}
	return FromBool(!less && !equal), nil
}

// builtinEqual compares any two values for equality per Value.Equal: never
// equal across differing tags, byte equality for strings, pointer identity
// for variables and blocks, bit equality otherwise.
func builtinEqual(args []Value, env *Environment) (Value, error) {
	lhs, rhs, err := evalPair(args, env)
	if err != nil {
		return 0, err
	}
	defer lhs.Decrement()
	defer rhs.Decrement()
	return FromBool(lhs.Equal(rhs)), nil
}

// builtinAnd short-circuits: rhs is only evaluated and returned if lhs is
// truthy, otherwise lhs itself is returned unevaluated-right.
func builtinAnd(args []Value, env *Environment) (Value, error) {
	lhs, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	truthy, err := lhs.ToBool()
	if err != nil {
		lhs.Decrement()
		return 0, err
	}
	if !truthy {
		return lhs, nil
	}
	lhs.Decrement()
	return Run(args[1], env)
}

// builtinOr short-circuits: rhs is only evaluated if lhs is falsy.
func builtinOr(args []Value, env *Environment) (Value, error) {
	lhs, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	truthy, err := lhs.ToBool()
	if err != nil {
		lhs.Decrement()
		return 0, err
	}
	if truthy {
		return lhs, nil
	}
	lhs.Decrement()
	return Run(args[1], env)
}

// builtinThen evaluates lhs for effect, discards it, and returns rhs's result.
func builtinThen(args []Value, env *Environment) (Value, error) {
	lhs, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	lhs.Decrement()
	return Run(args[1], env)
}

// builtinWhile repeatedly evaluates its body while its condition is truthy,
// discarding every intermediate result, and always returns Null.
func builtinWhile(args []Value, env *Environment) (Value, error) {
	for {
		cond, err := Run(args[0], env)
		if err != nil {
			return 0, err
		}
		truthy, err := cond.ToBool()
		cond.Decrement()
		if err != nil {
			return 0, err
		}
		if !truthy {
			return Null, nil
		}
		body, err := Run(args[1], env)
		if err != nil {
			return 0, err
		}
		body.Decrement()
	}
}

// builtinAssign evaluates rhs and binds it to the variable named by lhs
// (lhs must itself be a variable node, unevaluated). Returns rhs's value
// again, bumped for the caller.
func builtinAssign(args []Value, env *Environment) (Value, error) {
	if !args[0].IsVariable() {
		return 0, newError(ErrInvalidType, "= requires a variable left operand")
	}
	rhs, err := Run(args[1], env)
	if err != nil {
		return 0, err
	}
	cell := args[0].VariablePtr()
	rhs.Increment()
	cell.Set(rhs)
	return rhs, nil
}

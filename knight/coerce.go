package knight

import "strconv"

// ToInt coerces v to an integer per spec §4.3. Returns ErrInvalidConversion
// for variables and blocks.
func (v Value) ToInt() (int64, error) {
	switch {
	case v.IsNull():
		return 0, nil
	case v.IsTrue():
		return 1, nil
	case v.IsFalse():
		return 0, nil
	case v.IsInteger():
		return v.Int(), nil
	case v.IsString():
		return v.StringPtr().ParseInt(), nil
	default:
		return 0, newError(ErrInvalidConversion, "cannot convert to integer")
	}
}

// ToBool coerces v to a boolean per spec §4.3.
func (v Value) ToBool() (bool, error) {
	switch {
	case v.IsNull():
		return false, nil
	case v.IsTrue():
		return true, nil
	case v.IsFalse():
		return false, nil
	case v.IsInteger():
		return v.Int() != 0, nil
	case v.IsString():
		return v.StringPtr().Len() != 0, nil
	default:
		return false, newError(ErrInvalidConversion, "cannot convert to boolean")
	}
}

// formatInt renders n in canonical base-10 form: no leading zeros, a
// leading '-' for negatives. The minimum representable value (-2^60) is
// handled like any other negative integer — strconv's two's-complement-free
// int64 formatting has no asymmetry to work around here since int64 has
// headroom well beyond the 61-bit range.
func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// ToKString coerces v to a String per spec §4.3, interning the result
// through env so the caller receives a single owned reference. Zero, one,
// and the boolean/null strings are shared process-wide literals and
// allocate nothing.
func (v Value) ToKString(env *Environment) (*String, error) {
	switch {
	case v.IsNull():
		litNull.Increment()
		return litNull, nil
	case v.IsTrue():
		litTrue.Increment()
		return litTrue, nil
	case v.IsFalse():
		litFalse.Increment()
		return litFalse, nil
	case v.IsInteger():
		n := v.Int()
		switch n {
		case 0:
			lit0.Increment()
			return lit0, nil
		case 1:
			lit1.Increment()
			return lit1, nil
		}
		return env.Interner().Fetch([]byte(formatInt(n))), nil
	case v.IsString():
		v.StringPtr().Increment()
		return v.StringPtr(), nil
	default:
		return nil, newError(ErrInvalidConversion, "cannot convert to string")
	}
}

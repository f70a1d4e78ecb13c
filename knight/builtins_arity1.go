package knight

import (
	"fmt"
	"os"
	"os/exec"
)

func init() {
	register('E', 1, builtinEval)
	register('B', 1, builtinBlock)
	register('C', 1, builtinCall)
	register('`', 1, builtinShell)
	register('Q', 1, builtinQuit)
	register('!', 1, builtinNot)
	register('L', 1, builtinLength)
	register('D', 1, builtinDump)
	register('O', 1, builtinOutput)
	register('A', 1, builtinAscii)
}

// builtinEval coerces its (evaluated) argument to a string and recursively
// plays it as a fresh Knight program against the same environment.
func builtinEval(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	s, err := v.ToKString(env)
	v.Decrement()
	if err != nil {
		return 0, err
	}
	result, err := Play(s.AsBytes(), env)
	s.Decrement()
	return result, err
}

// builtinBlock returns its argument unevaluated, per BLOCK's defining
// property: it is the only operator whose argument is never run.
func builtinBlock(args []Value, env *Environment) (Value, error) {
	args[0].Increment()
	return args[0], nil
}

// builtinCall evaluates its argument once (typically unwrapping a BLOCK),
// then evaluates the result — invoking whatever BLOCK captured.
func builtinCall(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	result, err := Run(v, env)
	v.Decrement()
	return result, err
}

// builtinShell coerces its argument to a string, executes it with the
// system shell, and returns captured stdout as a String.
func builtinShell(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	s, err := v.ToKString(env)
	v.Decrement()
	if err != nil {
		return 0, err
	}
	cmd := exec.Command("sh", "-c", s.String())
	s.Decrement()
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("shell command failed: %w", err)
	}
	result := env.Interner().Fetch(out)
	return FromString(result), nil
}

// builtinQuit coerces its argument to an integer and terminates the
// process with that exit code. Codes outside 0..255 are a DomainError.
func builtinQuit(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	n, err := v.ToInt()
	v.Decrement()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 255 {
		return 0, newError(ErrDomainError, "exit code %d out of range 0..255", n)
	}
	os.Exit(int(n))
	panic("unreachable")
}

// builtinNot evaluates and boolean-coerces its argument, returning its
// logical negation.
func builtinNot(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	b, err := v.ToBool()
	v.Decrement()
	if err != nil {
		return 0, err
	}
	return FromBool(!b), nil
}

// builtinLength coerces its (evaluated) argument to a string and returns
// its byte length as an integer.
func builtinLength(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	s, err := v.ToKString(env)
	v.Decrement()
	if err != nil {
		return 0, err
	}
	n := s.Len()
	s.Decrement()
	return FromInt(int64(n)), nil
}

// builtinDump evaluates its argument, writes its debug form to stdout, and
// returns the evaluated value (the single reference Run produced becomes
// the single reference returned — no extra increment needed).
func builtinDump(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	fmt.Fprintln(os.Stdout, DebugForm(v))
	return v, nil
}

// builtinOutput writes its argument's string form followed by a newline,
// unless the string ends in a backslash, in which case that byte is
// dropped and no newline is written. Always returns Null.
func builtinOutput(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	s, err := v.ToKString(env)
	v.Decrement()
	if err != nil {
		return 0, err
	}
	b := s.AsBytes()
	if len(b) > 0 && b[len(b)-1] == '\\' {
		os.Stdout.Write(b[:len(b)-1])
	} else {
		os.Stdout.Write(b)
		os.Stdout.WriteString("\n")
	}
	s.Decrement()
	return Null, nil
}

// builtinAscii converts an integer to its 1-byte string, or a string to
// the integer value of its first byte.
func builtinAscii(args []Value, env *Environment) (Value, error) {
	v, err := Run(args[0], env)
	if err != nil {
		return 0, err
	}
	defer v.Decrement()

	switch {
	case v.IsInteger():
		n := v.Int()
		if n < 0 || n > 255 {
			return 0, newError(ErrNotAnAsciiInteger, "%d is not an ASCII byte", n)
		}
		s := env.Interner().Fetch([]byte{byte(n)})
		return FromString(s), nil
	case v.IsString():
		b := v.StringPtr().AsBytes()
		if len(b) == 0 {
			return 0, newError(ErrEmptyString, "ASCII of empty string")
		}
		return FromInt(int64(b[0])), nil
	default:
		return 0, newError(ErrInvalidType, "ASCII requires an integer or string")
	}
}

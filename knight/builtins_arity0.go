package knight

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// stdinReader is shared across all P invocations within a process so
// successive prompts read successive lines, exactly like a single
// long-lived stdin stream should.
var stdinReader = bufio.NewReader(os.Stdin)

func init() {
	register('P', 0, builtinPrompt)
	register('R', 0, builtinRandom)
}

// builtinPrompt reads one line from stdin, trims a trailing newline and any
// immediately preceding carriage return, and returns it as an owned
// String. EOF (no bytes read) returns Null.
func builtinPrompt(args []Value, env *Environment) (Value, error) {
	line, err := stdinReader.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}
	if line == "" && err == io.EOF {
		return Null, nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	s := env.Interner().Fetch([]byte(line))
	return FromString(s), nil
}

// builtinRandom returns a non-negative random integer.
func builtinRandom(args []Value, env *Environment) (Value, error) {
	return FromInt(env.rng.nonNegativeInt()), nil
}

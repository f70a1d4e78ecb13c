package knight

import (
	"io"
	"os"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = orig

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(out)
}

func TestBuiltinLength(t *testing.T) {
	env := NewEnvironmentSeeded(1)
	v := mustPlay(t, env, `L "hello"`)
	if !v.IsInteger() || v.Int() != 5 {
		t.Errorf("got %v, want integer 5", v)
	}
}

func TestBuiltinEvalRunsNestedSource(t *testing.T) {
	env := NewEnvironmentSeeded(1)
	v := mustPlay(t, env, `E "+ 1 2"`)
	if !v.IsInteger() || v.Int() != 3 {
		t.Errorf("got %v, want integer 3", v)
	}
}

func TestBuiltinOutputTrailingNewline(t *testing.T) {
	env := NewEnvironmentSeeded(1)
	var result Value
	out := captureStdout(t, func() {
		result = mustPlay(t, env, `O "hi"`)
	})
	if out != "hi\n" {
		t.Errorf("captured output = %q, want %q", out, "hi\n")
	}
	if !result.IsNull() {
		t.Error("O should return Null")
	}
}

func TestBuiltinOutputSuppressesNewlineOnBackslash(t *testing.T) {
	env := NewEnvironmentSeeded(1)
	out := captureStdout(t, func() {
		mustPlay(t, env, "O \"hi\\\"")
	})
	if out != "hi" {
		t.Errorf("captured output = %q, want %q", out, "hi")
	}
}

func TestBuiltinDumpReturnsEvaluatedValue(t *testing.T) {
	env := NewEnvironmentSeeded(1)
	var v Value
	out := captureStdout(t, func() {
		v = mustPlay(t, env, "D 42")
	})
	if !v.IsInteger() || v.Int() != 42 {
		t.Errorf("got %v, want integer 42", v)
	}
	if out != "Integer(42)\n" {
		t.Errorf("captured output = %q, want %q", out, "Integer(42)\n")
	}
}

func TestBuiltinNot(t *testing.T) {
	env := NewEnvironmentSeeded(1)
	v := mustPlay(t, env, "! F")
	if !v.IsTrue() {
		t.Errorf("got %v, want True", v)
	}
	v = mustPlay(t, env, "! T")
	if !v.IsFalse() {
		t.Errorf("got %v, want False", v)
	}
}

func TestBuiltinRandomIsNonNegative(t *testing.T) {
	env := NewEnvironmentSeeded(7)
	for i := 0; i < 16; i++ {
		v := mustPlay(t, env, "R")
		if !v.IsInteger() || v.Int() < 0 {
			t.Fatalf("R produced %v, want a non-negative integer", v)
		}
	}
}

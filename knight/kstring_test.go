package knight

import "testing"

func TestLiteralNeverFreed(t *testing.T) {
	s := Literal("abc")
	s.Increment()
	s.Decrement()
	s.Decrement()
	s.Decrement() // would underflow on an owned string; literals just floor at 0
	if s.Refcount() != 0 {
		t.Errorf("literal refcount = %d, want 0 after matched decrements", s.Refcount())
	}
	if string(s.AsBytes()) != "abc" {
		t.Error("literal bytes changed after refcount reached zero")
	}
}

func TestOwnedRoundTrip(t *testing.T) {
	s := Owned([]byte("hello world"))
	if s.Len() != 11 {
		t.Errorf("Len() = %d, want 11", s.Len())
	}
	if string(s.AsBytes()) != "hello world" {
		t.Errorf("AsBytes() = %q", s.AsBytes())
	}
	s.Decrement()
}

func TestWithCapacityEmbedsSmallStrings(t *testing.T) {
	s := WithCapacity(5)
	if s.kind != kindEmbedded {
		t.Error("small WithCapacity should choose the embedded variant")
	}
	copy(s.AsMutBytes(), "knigh")
	if string(s.AsBytes()) != "knigh" {
		t.Errorf("AsBytes() = %q", s.AsBytes())
	}
	s.Decrement()
}

func TestWithCapacityOwnsLargeStrings(t *testing.T) {
	s := WithCapacity(maxEmbedLength + 1)
	if s.kind != kindOwned {
		t.Error("oversized WithCapacity should choose the owned variant")
	}
	s.Decrement()
}

func TestAsMutBytesOnlyOnce(t *testing.T) {
	s := WithCapacity(3)
	s.AsMutBytes()
	defer func() {
		if recover() == nil {
			t.Error("second AsMutBytes call did not panic")
		}
	}()
	s.AsMutBytes()
}

func TestSubstringKeepsOwnerAlive(t *testing.T) {
	owner := Owned([]byte("hello world"))
	sub := Substring(owner, 6, 5)
	owner.Decrement() // substring's own Increment on owner keeps it alive
	if string(sub.AsBytes()) != "world" {
		t.Errorf("Substring bytes = %q, want \"world\"", sub.AsBytes())
	}
	sub.Decrement()
}

func TestParseIntVariants(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"123", 123},
		{"  123", 123},
		{"-123", -123},
		{"+123", 123},
		{"123abc", 123},
		{"abc", 0},
		{"", 0},
		{"   ", 0},
		{"-", 0},
	}
	for _, tc := range tests {
		s := Literal(tc.in)
		if got := s.ParseInt(); got != tc.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
		s.Decrement()
	}
}

func TestStringLess(t *testing.T) {
	a := Literal("abc")
	b := Literal("abd")
	c := Literal("ab")
	defer a.Decrement()
	defer b.Decrement()
	defer c.Decrement()
	if !a.Less(b) {
		t.Error("\"abc\" should sort before \"abd\"")
	}
	if !c.Less(a) {
		t.Error("\"ab\" should sort before \"abc\" (shorter prefix)")
	}
	if b.Less(a) {
		t.Error("\"abd\" should not sort before \"abc\"")
	}
}

func TestStringEqual(t *testing.T) {
	a := Literal("same")
	b := Owned([]byte("same"))
	defer a.Decrement()
	defer b.Decrement()
	if !a.Equal(b) {
		t.Error("equal-content strings with different storage should compare equal")
	}
}

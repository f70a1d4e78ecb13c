package knight

// Interner is a content-addressed pool of heap-owned Strings. It dedups by
// byte content on a best-effort basis — pointer equality between two equal
// contents is guaranteed only when both were produced by Fetch, never as a
// general invariant (see spec §4.2).
type Interner struct {
	pool map[string]*String
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{pool: make(map[string]*String)}
}

// Fetch returns an existing String with matching content, incrementing its
// refcount, or allocates and registers a new one.
func (in *Interner) Fetch(data []byte) *String {
	if existing, ok := in.pool[string(data)]; ok {
		existing.Increment()
		return existing
	}
	s := WithCapacity(len(data))
	copy(s.AsMutBytes(), data)
	in.Register(s)
	return s
}

// Concat allocates a fresh String of length lhs.Len()+rhs.Len(), writes lhs
// then rhs, and registers it. If either side is empty, the other side is
// returned instead (refcount bumped, no allocation).
func (in *Interner) Concat(lhs, rhs *String) *String {
	if lhs.Len() == 0 {
		rhs.Increment()
		return rhs
	}
	if rhs.Len() == 0 {
		lhs.Increment()
		return lhs
	}
	s := WithCapacity(lhs.Len() + rhs.Len())
	buf := s.AsMutBytes()
	copy(buf, lhs.AsBytes())
	copy(buf[lhs.Len():], rhs.AsBytes())
	in.Register(s)
	return s
}

// Repeat allocates src repeated n times. n==0 returns the canonical empty
// string; n==1 returns src itself (refcount bumped, zero-copy).
func (in *Interner) Repeat(src *String, n int64) *String {
	if n == 0 {
		emptyLiteral.Increment()
		return emptyLiteral
	}
	if n == 1 {
		src.Increment()
		return src
	}
	total := int64(src.Len()) * n
	s := WithCapacity(int(total))
	buf := s.AsMutBytes()
	off := 0
	for i := int64(0); i < n; i++ {
		off += copy(buf[off:], src.AsBytes())
	}
	in.Register(s)
	return s
}

// Substring registers a substring variant borrowing owner's
// [start, start+length) byte range. A zero length returns the canonical
// empty literal instead.
func (in *Interner) Substring(owner *String, start, length int) *String {
	if length == 0 {
		emptyLiteral.Increment()
		return emptyLiteral
	}
	s := Substring(owner, start, length)
	in.Register(s)
	return s
}

// Register inserts a pre-built String into the pool if no equal-content
// entry already exists. Returns whether the insertion was new. A false
// return is non-fatal: the caller's string remains a valid, unshared
// String, just not the canonical pool entry for its content.
func (in *Interner) Register(s *String) bool {
	key := string(s.AsBytes())
	if _, ok := in.pool[key]; ok {
		return false
	}
	in.pool[key] = s
	return true
}

// Package ast renders a parsed Knight value tree to a portable CBOR form,
// for tooling that wants to inspect a Block's shape without running it.
// This is separate from the core's required textual debug form (the `D`
// operator, knight.DebugForm): that stays inside the evaluator and always
// renders a live Value. Dump/Decode here work on an intermediate Node tree
// that survives outside the process the Values were allocated in.
package ast

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/knight/knight"
)

// Kind discriminates a Node's shape, named rather than tag-numbered so the
// encoded form stays readable without this package's source at hand.
type Kind string

const (
	KindNull     Kind = "null"
	KindBoolean  Kind = "bool"
	KindInteger  Kind = "int"
	KindString   Kind = "string"
	KindVariable Kind = "variable"
	KindBlock    Kind = "block"
)

// Node is the CBOR-serializable rendering of a knight.Value. Block
// children are expanded recursively; a variable's current value is not
// followed (it may change), only its name is recorded.
type Node struct {
	Kind Kind   `cbor:"kind"`
	Bool bool   `cbor:"bool,omitempty"`
	Int  int64  `cbor:"int,omitempty"`
	Str  string `cbor:"str,omitempty"`
	Name string `cbor:"name,omitempty"`
	Op   byte   `cbor:"op,omitempty"`
	Args []Node `cbor:"args,omitempty"`
}

// FromValue converts a knight.Value into its Node rendering. It does not
// consume or release a reference on v — callers retain whatever ownership
// they already had.
func FromValue(v knight.Value) Node {
	c := v.Classify()
	switch c.Kind {
	case knight.KindNull:
		return Node{Kind: KindNull}
	case knight.KindBoolean:
		return Node{Kind: KindBoolean, Bool: c.Boolean}
	case knight.KindInteger:
		return Node{Kind: KindInteger, Int: c.Integer}
	case knight.KindString:
		return Node{Kind: KindString, Str: c.String.String()}
	case knight.KindVariable:
		return Node{Kind: KindVariable, Name: c.Variable.Name()}
	case knight.KindBlock:
		fn := c.Block.Function()
		args := c.Block.Args()
		node := Node{Kind: KindBlock, Op: fn.Name, Args: make([]Node, len(args))}
		for i, a := range args {
			node.Args[i] = FromValue(a)
		}
		return node
	default:
		panic("ast.FromValue: unreachable value kind")
	}
}

// Dump renders v's Node tree as CBOR.
func Dump(v knight.Value) ([]byte, error) {
	node := FromValue(v)
	return cbor.Marshal(node)
}

// Decode parses a CBOR-encoded Node tree produced by Dump.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := cbor.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	return &n, nil
}

// Arity returns the number of arguments a block Node carries, 0 for every
// other Kind.
func (n Node) Arity() int {
	return len(n.Args)
}

// String renders a Node as a compact human-readable expression, mainly for
// test failure messages and CLI diagnostics.
func (n Node) String() string {
	switch n.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return fmt.Sprintf("%t", n.Bool)
	case KindInteger:
		return fmt.Sprintf("%d", n.Int)
	case KindString:
		return fmt.Sprintf("%q", n.Str)
	case KindVariable:
		return n.Name
	case KindBlock:
		s := string(n.Op)
		for _, a := range n.Args {
			s += " " + a.String()
		}
		return s
	default:
		return "?"
	}
}

// Package knight implements the Knight language interpreter.
//
// This package contains:
//   - Tagged-immediate value representation (Value)
//   - Immutable refcounted string with four storage variants (String)
//   - Content-addressed string interner (Interner)
//   - Name-keyed variable environment (Environment)
//   - Recursive-descent parser (Parser)
//   - The built-in function table and call nodes (Function, Block)
//   - The tree-walking evaluator (Run, Play)
package knight

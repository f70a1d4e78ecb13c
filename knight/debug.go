package knight

import "fmt"

// DebugForm renders v the way the D operator prints it: every kind wrapped
// in its type name per spec §6 — Boolean(true), Null(), Integer(n),
// String(bytes), Variable(name), Block(X) where X is the operator name.
func DebugForm(v Value) string {
	switch {
	case v.IsNull():
		return "Null()"
	case v.IsTrue():
		return "Boolean(true)"
	case v.IsFalse():
		return "Boolean(false)"
	case v.IsInteger():
		return fmt.Sprintf("Integer(%s)", formatInt(v.Int()))
	case v.IsString():
		return fmt.Sprintf("String(%s)", quoteDebug(v.StringPtr().AsBytes()))
	case v.IsVariable():
		return fmt.Sprintf("Variable(%s)", v.VariablePtr().Name())
	case v.IsBlock():
		return fmt.Sprintf("Block(%c)", v.BlockPtr().Function().Name)
	default:
		return "<undefined>"
	}
}

func quoteDebug(b []byte) string {
	out := make([]byte, 0, len(b)+2)
	out = append(out, '"')
	for _, c := range b {
		switch c {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '"')
	return string(out)
}

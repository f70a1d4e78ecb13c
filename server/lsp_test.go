package server

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/knight/knight"
)

// ---------------------------------------------------------------------------
// Text extraction helpers
// ---------------------------------------------------------------------------

func TestOperatorAt_FindsOperatorByte(t *testing.T) {
	text := "+ 1 2"
	b, col := operatorAt(text, protocol.Position{Line: 0, Character: 0})
	if b != '+' {
		t.Errorf("operatorAt byte = %q, want '+'", b)
	}
	if col != 0 {
		t.Errorf("operatorAt col = %d, want 0", col)
	}
}

func TestOperatorAt_MultiLine(t *testing.T) {
	text := "; = x 1\nW < x 5\n= x + x 1"
	b, _ := operatorAt(text, protocol.Position{Line: 1, Character: 0})
	if b != 'W' {
		t.Errorf("operatorAt byte = %q, want 'W'", b)
	}
}

func TestOperatorAt_LineBeyondDocument(t *testing.T) {
	text := "+ 1 2"
	b, _ := operatorAt(text, protocol.Position{Line: 5, Character: 0})
	if b != 0 {
		t.Errorf("operatorAt byte = %q, want 0 for a line past the document", b)
	}
}

func TestOperatorAt_ColumnBeyondLine(t *testing.T) {
	text := "+ 1"
	b, _ := operatorAt(text, protocol.Position{Line: 0, Character: 99})
	if b != 0 {
		t.Errorf("operatorAt byte = %q, want 0 for a column past the line", b)
	}
}

func TestLineAndChar_FirstLine(t *testing.T) {
	line, char := lineAndChar("+ 1 2", 2)
	if line != 0 || char != 2 {
		t.Errorf("lineAndChar = (%d, %d), want (0, 2)", line, char)
	}
}

func TestLineAndChar_AfterNewline(t *testing.T) {
	text := "+ 1 2\n+ 3 4"
	line, char := lineAndChar(text, 8)
	if line != 1 || char != 2 {
		t.Errorf("lineAndChar = (%d, %d), want (1, 2)", line, char)
	}
}

func TestLineAndChar_OffsetPastEnd(t *testing.T) {
	text := "+ 1 2"
	line, char := lineAndChar(text, 999)
	if line != 0 || char != uint32(len(text)) {
		t.Errorf("lineAndChar = (%d, %d), want (0, %d)", line, char, len(text))
	}
}

func TestBoolPtr(t *testing.T) {
	p := boolPtr(true)
	if p == nil || *p != true {
		t.Errorf("boolPtr(true) = %v, want pointer to true", p)
	}
}

// ---------------------------------------------------------------------------
// hoverFor — pure function, no worker/context required
// ---------------------------------------------------------------------------

func TestHoverFor_KnownOperator(t *testing.T) {
	hover := hoverFor('+')
	if hover == nil {
		t.Fatal("hoverFor('+') returned nil, want a Hover")
	}
	mc, ok := hover.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatal("hover contents should be MarkupContent")
	}
	if mc.Kind != protocol.MarkupKindMarkdown {
		t.Errorf("hover markup kind = %q, want %q", mc.Kind, protocol.MarkupKindMarkdown)
	}
	if mc.Value == "" {
		t.Error("hover content should not be empty")
	}
}

func TestHoverFor_UnknownByte(t *testing.T) {
	if hover := hoverFor('~'); hover != nil {
		t.Errorf("hoverFor('~') = %v, want nil (not a registered operator)", hover)
	}
}

// ---------------------------------------------------------------------------
// Diagnostics — exercise the worker-backed parse-and-report logic the same
// way publishDiagnostics does, without needing a live *glsp.Context.
// ---------------------------------------------------------------------------

func diagnosticsFor(t *testing.T, worker *Worker, text string) *diagnosticInfo {
	t.Helper()
	result, err := worker.Do(func(env *knight.Environment) interface{} {
		p := knight.NewParser([]byte(text), env)
		v, parseErr := p.Next()
		if parseErr != nil {
			return diagnosticInfo{message: parseErr.Error(), offset: p.Pos()}
		}
		v.Decrement()
		return nil
	})
	if err != nil {
		t.Fatalf("worker.Do returned error: %v", err)
	}
	if result == nil {
		return nil
	}
	info := result.(diagnosticInfo)
	return &info
}

func TestDiagnostics_ValidExpressionHasNone(t *testing.T) {
	env := knight.NewEnvironmentSeeded(1)
	worker := NewWorker(env)
	defer worker.Stop()

	if info := diagnosticsFor(t, worker, "+ 1 2"); info != nil {
		t.Errorf("expected no diagnostic for a valid expression, got %+v", info)
	}
}

func TestDiagnostics_UnterminatedStringReportsOffset(t *testing.T) {
	env := knight.NewEnvironmentSeeded(1)
	worker := NewWorker(env)
	defer worker.Stop()

	text := `"unterminated`
	info := diagnosticsFor(t, worker, text)
	if info == nil {
		t.Fatal("expected a diagnostic for an unterminated string literal")
	}
	if info.message == "" {
		t.Error("expected a non-empty diagnostic message")
	}
	// The parser scans to the end of input looking for the closing quote.
	if info.offset != len(text) {
		t.Errorf("diagnostic offset = %d, want %d", info.offset, len(text))
	}
}

func TestDiagnostics_UnknownTokenReportsOffset(t *testing.T) {
	env := knight.NewEnvironmentSeeded(1)
	worker := NewWorker(env)
	defer worker.Stop()

	info := diagnosticsFor(t, worker, "@ 1 2")
	if info == nil {
		t.Fatal("expected a diagnostic for an unknown token start")
	}
	line, char := lineAndChar("@ 1 2", info.offset)
	if line != 0 || char != 0 {
		t.Errorf("lineAndChar(offset) = (%d, %d), want (0, 0)", line, char)
	}
}

package server

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/knight/knight"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "knight-lsp"

// LspServer bridges LSP editor features to the Knight interpreter via a
// Worker. Knight has no user-defined functions, so its surface is smaller
// than a class-based language's: diagnostics and hover only, no
// completion, no go-to-definition, no references.
type LspServer struct {
	worker *Worker

	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates an LSP server sharing worker with the HTTP eval service.
func NewLSP(worker *Worker) *LspServer {
	s := &LspServer{
		worker:  worker,
		docs:    make(map[string]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover: s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	commonlog.NewInfoMessage(0, "Knight LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()

	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text.
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.mu.Lock()
			s.docs[string(uri)] = whole.Text
			text := whole.Text
			s.mu.Unlock()

			s.publishDiagnostics(ctx, uri, text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// --- Language features ---

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	pos := params.Position

	s.mu.Lock()
	text, ok := s.docs[string(uri)]
	s.mu.Unlock()

	if !ok {
		return nil, nil
	}

	b, col := operatorAt(text, pos)
	if b == 0 {
		return nil, nil
	}

	result, err := s.worker.Do(func(env *knight.Environment) interface{} {
		return hoverFor(b)
	})
	if err != nil || result == nil {
		return nil, nil
	}
	_ = col

	return result.(*protocol.Hover), nil
}

// hoverFor builds hover markdown for a one-character operator, describing
// its name and arity from the function table.
func hoverFor(b byte) *protocol.Hover {
	fn := knight.Lookup(b)
	if fn == nil {
		return nil
	}
	text := fmt.Sprintf("**%c** — arity %d", fn.Name, fn.Arity)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}
}

// publishDiagnostics re-parses text's first expression and, on a parse
// error, reports it at the byte offset the parser stopped on.
func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	result, err := s.worker.Do(func(env *knight.Environment) interface{} {
		p := knight.NewParser([]byte(text), env)
		v, parseErr := p.Next()
		if parseErr != nil {
			return diagnosticInfo{message: parseErr.Error(), offset: p.Pos()}
		}
		v.Decrement()
		return nil
	})
	if err != nil {
		return
	}

	var diagnostics []protocol.Diagnostic
	if result != nil {
		info := result.(diagnosticInfo)
		line, char := lineAndChar(text, info.offset)
		severity := protocol.DiagnosticSeverityError
		source := lspName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: char},
				End:   protocol.Position{Line: line, Character: char},
			},
			Severity: &severity,
			Source:   &source,
			Message:  info.message,
		})
	}

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

type diagnosticInfo struct {
	message string
	offset  int
}

// lineAndChar converts a byte offset into text into 0-based line/character
// coordinates, as the LSP protocol requires.
func lineAndChar(text string, offset int) (uint32, uint32) {
	if offset > len(text) {
		offset = len(text)
	}
	line := 0
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return uint32(line), uint32(offset - lastNewline - 1)
}

// --- Text extraction helpers ---

// operatorAt returns the single byte at the cursor position (and its
// column), for hover lookups on one-character operator tokens. A position
// past the end of the document or line yields 0.
func operatorAt(text string, pos protocol.Position) (byte, int) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return 0, 0
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col >= len(line) {
		return 0, 0
	}
	return line[col], col
}

func boolPtr(b bool) *bool {
	return &b
}

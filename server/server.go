// Package server hosts the optional ambient surfaces around the Knight
// core: an HTTP JSON eval endpoint and an LSP server, both funneling every
// request through a single Worker goroutine that owns the one shared
// knight.Environment for the process's lifetime.
package server

import (
	"fmt"
	"net/http"

	"github.com/tliron/commonlog"

	"github.com/chazu/knight/knight"

	_ "github.com/tliron/commonlog/simple"
)

// Server wires the HTTP eval endpoint around a single knight.Environment.
type Server struct {
	worker *Worker
	mux    *http.ServeMux
	log    commonlog.Logger
}

// New creates a Server wrapping env. The returned Server owns env for its
// entire lifetime; nothing outside the Worker goroutine should touch it.
func New(env *knight.Environment) *Server {
	log := commonlog.GetLogger("knight.server")

	worker := NewWorker(env)
	evalSvc := NewEvalService(worker, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/eval", withCORS(evalSvc.Handler()))

	return &Server{worker: worker, mux: mux, log: log}
}

// withCORS mirrors the teacher's doc-server CORS handling so the eval
// endpoint can be called from a browser-hosted playground.
func withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// Worker exposes the Server's underlying Worker so an LSP server can be
// started against the same Environment.
func (s *Server) Worker() *Worker { return s.worker }

// ListenAndServe starts the HTTP server on addr. Blocks until the server
// stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	fmt.Printf("Knight eval server listening on %s\n", addr)
	fmt.Printf("  POST http://%s/api/eval  {\"source\": \"...\"}\n", addr)
	return http.ListenAndServe(addr, s.mux)
}

// Stop shuts down the Worker goroutine.
func (s *Server) Stop() {
	s.worker.Stop()
}

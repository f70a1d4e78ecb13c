package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/knight/knight"
)

// maxEvalBodyBytes bounds the request body the eval endpoint will read,
// mirroring the teacher's doc-server eval handler's 10KB request limit.
const maxEvalBodyBytes = 10 * 1024

// EvalService wraps a Worker behind the /api/eval HTTP contract: a single
// knight.Environment persists across requests (so variables set in one
// request are visible to the next), but nothing is ever written to disk.
type EvalService struct {
	worker *Worker
	log    commonlog.Logger
}

// NewEvalService creates an EvalService over worker, logging through log.
func NewEvalService(worker *Worker, log commonlog.Logger) *EvalService {
	return &EvalService{worker: worker, log: log}
}

type evalRequest struct {
	Source string `json:"source"`
}

type evalResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Handler returns the http.HandlerFunc for POST /api/eval.
func (s *EvalService) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()

		if r.Method != http.MethodPost {
			s.log.Debugf("[%s] rejected %s %s: method not allowed", id, r.Method, r.URL.Path)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxEvalBodyBytes+1))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		if len(body) > maxEvalBodyBytes {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		var req evalRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeJSON(w, id, evalResponse{Error: "malformed JSON request body"})
			return
		}
		if req.Source == "" {
			s.writeJSON(w, id, evalResponse{Error: "source is required"})
			return
		}

		s.log.Infof("[%s] eval request: %d bytes", id, len(req.Source))

		result, workerErr := s.worker.Do(func(env *knight.Environment) interface{} {
			v, err := knight.Play([]byte(req.Source), env)
			if err != nil {
				return evalResponse{Error: err.Error()}
			}
			display := knight.DebugForm(v)
			v.Decrement()
			return evalResponse{Result: display}
		})
		if workerErr != nil {
			s.log.Warningf("[%s] eval panicked: %v", id, workerErr)
			s.writeJSON(w, id, evalResponse{Error: workerErr.Error()})
			return
		}

		s.writeJSON(w, id, result.(evalResponse))
	}
}

func (s *EvalService) writeJSON(w http.ResponseWriter, requestID string, resp evalResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Errorf("[%s] failed to encode response: %v", requestID, err)
	}
}

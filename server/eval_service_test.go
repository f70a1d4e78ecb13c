package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tliron/commonlog"

	"github.com/chazu/knight/knight"

	_ "github.com/tliron/commonlog/simple"
)

func newTestEvalService() *EvalService {
	env := knight.NewEnvironmentSeeded(1)
	worker := NewWorker(env)
	log := commonlog.GetLogger("knight.server.test")
	return NewEvalService(worker, log)
}

func postEval(t *testing.T, svc *EvalService, body string) (*httptest.ResponseRecorder, evalResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/eval", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Handler()(rec, req)

	var resp evalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response body %q did not decode as JSON: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestEvalServiceReturnsDebugDumpForInteger(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	rec, resp := postEval(t, svc, `{"source": "+ 3 4"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
	if resp.Result != "Integer(7)" {
		t.Errorf("result = %q, want %q", resp.Result, "Integer(7)")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected a non-empty X-Request-Id header")
	}
}

func TestEvalServiceReturnsDebugDumpForString(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	_, resp := postEval(t, svc, `{"source": "+ \"foo\" \"bar\""}`)
	if resp.Result != `String("foobar")` {
		t.Errorf("result = %q, want %q", resp.Result, `String("foobar")`)
	}
}

func TestEvalServiceReturnsDebugDumpForBoolean(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	_, resp := postEval(t, svc, `{"source": "! F"}`)
	if resp.Result != "Boolean(true)" {
		t.Errorf("result = %q, want %q", resp.Result, "Boolean(true)")
	}
}

func TestEvalServiceReportsErrorsWithoutA5xx(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	cases := []string{
		`{"source": "% 5 0"}`,    // DivisionByZero
		`{"source": "unset"}`,    // UndefinedVariable
		`{"source": "+ 1 B + 1 1"}`, // InvalidConversion (block on rhs of +)
	}
	for _, body := range cases {
		rec, resp := postEval(t, svc, body)
		if rec.Code != http.StatusOK {
			t.Errorf("body %q: status = %d, want 200 (errors must never be a 5xx)", body, rec.Code)
		}
		if resp.Error == "" {
			t.Errorf("body %q: expected a non-empty error field", body)
		}
		if resp.Result != "" {
			t.Errorf("body %q: expected no result alongside an error, got %q", body, resp.Result)
		}
	}
}

func TestEvalServiceRejectsEmptySource(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	_, resp := postEval(t, svc, `{"source": ""}`)
	if resp.Error == "" {
		t.Error("expected an error for an empty source field")
	}
}

func TestEvalServiceRejectsMalformedJSON(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	_, resp := postEval(t, svc, `not json`)
	if resp.Error == "" {
		t.Error("expected an error for malformed JSON")
	}
}

func TestEvalServiceRejectsNonPOST(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	req := httptest.NewRequest(http.MethodGet, "/api/eval", nil)
	rec := httptest.NewRecorder()
	svc.Handler()(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestEvalServicePersistsVariablesAcrossRequests(t *testing.T) {
	svc := newTestEvalService()
	defer svc.worker.Stop()

	if _, resp := postEval(t, svc, `{"source": "= x 10"}`); resp.Error != "" {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
	_, resp := postEval(t, svc, `{"source": "x"}`)
	if resp.Result != "Integer(10)" {
		t.Errorf("result = %q, want %q (variable should persist across requests)", resp.Result, "Integer(10)")
	}
}

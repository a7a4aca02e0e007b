package judge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"examind_backend/internal/config"
	"examind_backend/internal/grading"
	"examind_backend/pkg/logger"

	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestClient(url string) *Client {
	return NewClient(config.Judge0Config{URL: url})
}

func judgeResponse(statusID int, stdout string) map[string]interface{} {
	return map[string]interface{}{
		"stdout": stdout,
		"time":   "0.021",
		"memory": 10240,
		"status": map[string]interface{}{"id": statusID, "description": "x"},
	}
}

func TestExecuteTests_AllAccepted(t *testing.T) {
	var gotBodies []submissionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body submissionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		gotBodies = append(gotBodies, body)
		json.NewEncoder(w).Encode(judgeResponse(3, "42\n"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	results, err := c.ExecuteTests(context.Background(), grading.ExecutionRequest{
		Language: "python",
		Code:     "print(42)",
		TestCases: []grading.TestCase{
			{ID: "t1", Input: "", ExpectedOutput: "42"},
			{ID: "t2", Input: "", ExpectedOutput: "42"},
		},
	})
	if err != nil {
		t.Fatalf("ExecuteTests: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("result %s not passed: %+v", r.TestCaseID, r)
		}
		if r.Output != "42" {
			t.Errorf("Output = %q, want trailing newline trimmed", r.Output)
		}
		if r.ExecutionTimeMS != 21 {
			t.Errorf("ExecutionTimeMS = %d, want 21", r.ExecutionTimeMS)
		}
	}
	if len(gotBodies) != 2 || gotBodies[0].LanguageID != 71 {
		t.Errorf("requests = %+v, want two python submissions", gotBodies)
	}
}

func TestExecuteTests_UnsupportedLanguage(t *testing.T) {
	c := newTestClient("http://unused")
	_, err := c.ExecuteTests(context.Background(), grading.ExecutionRequest{
		Language:  "cobol",
		Code:      "x",
		TestCases: []grading.TestCase{{ID: "t1"}},
	})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("err = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestExecuteTests_VerdictMapping(t *testing.T) {
	tests := []struct {
		name            string
		statusID        int
		wantPassed      bool
		wantTimeout     bool
		wantCompilation bool
	}{
		{name: "accepted", statusID: 3, wantPassed: true},
		{name: "wrong answer", statusID: 4},
		{name: "time limit exceeded", statusID: 5, wantTimeout: true},
		{name: "compilation error", statusID: 6, wantCompilation: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(judgeResponse(tc.statusID, ""))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			results, err := c.ExecuteTests(context.Background(), grading.ExecutionRequest{
				Language:  "go",
				Code:      "package main",
				TestCases: []grading.TestCase{{ID: "t1"}},
			})
			if err != nil {
				t.Fatalf("ExecuteTests: %v", err)
			}
			r := results[0]
			if r.Passed != tc.wantPassed || r.HadTimeout != tc.wantTimeout || r.HadCompilationError != tc.wantCompilation {
				t.Errorf("result = %+v", r)
			}
		})
	}
}

func TestExecuteTests_SandboxHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	results, err := c.ExecuteTests(context.Background(), grading.ExecutionRequest{
		Language:  "python",
		Code:      "x",
		TestCases: []grading.TestCase{{ID: "t1"}},
	})
	if err != nil {
		t.Fatalf("ExecuteTests: %v", err)
	}
	if results[0].Passed || results[0].Error == "" {
		t.Errorf("result = %+v, want failed with reason", results[0])
	}
}

func TestExecuteTests_UnreachableSandboxFailsCase(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	results, err := c.ExecuteTests(context.Background(), grading.ExecutionRequest{
		Language:  "python",
		Code:      "x",
		TestCases: []grading.TestCase{{ID: "t1"}},
	})
	if err != nil {
		t.Fatalf("ExecuteTests: %v", err)
	}
	if results[0].Passed || results[0].Error == "" {
		t.Errorf("result = %+v, want failed with reason", results[0])
	}
}

func TestRunCase_MemoryFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"stdout": "ok",
			"memory": 64 * 1024,
			"status": map[string]interface{}{"id": 4, "description": "wrong answer"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	results, err := c.ExecuteTests(context.Background(), grading.ExecutionRequest{
		Language:  "python",
		Code:      "x",
		TestCases: []grading.TestCase{{ID: "t1", MemoryLimitMB: 64}},
	})
	if err != nil {
		t.Fatalf("ExecuteTests: %v", err)
	}
	if !results[0].HadMemoryError {
		t.Errorf("HadMemoryError = false, want true: %+v", results[0])
	}
}

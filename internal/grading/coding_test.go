package grading

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// fakeExecutor replays canned results, or fails the whole run.
type fakeExecutor struct {
	results []TestExecutionResult
	err     error

	gotReq ExecutionRequest
}

func (f *fakeExecutor) ExecuteTests(ctx context.Context, req ExecutionRequest) ([]TestExecutionResult, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func gradeCodingWith(t *testing.T, exec Executor, qd map[string]interface{}, answer string) *GradingResult {
	t.Helper()
	e := NewEngine(exec, nil)
	q := &QuestionRecord{Type: Coding, Points: 20, QuestionData: qd}
	res, err := e.GradeQuestion(context.Background(), q, json.RawMessage(answer))
	if err != nil {
		t.Fatalf("GradeQuestion returned error: %v", err)
	}
	return res
}

func codingQD(cases ...map[string]interface{}) map[string]interface{} {
	raw := make([]interface{}, len(cases))
	for i, c := range cases {
		raw[i] = c
	}
	return map[string]interface{}{
		"language":   "python",
		"test_cases": raw,
	}
}

func TestGradeCoding_AllPassed(t *testing.T) {
	exec := &fakeExecutor{results: []TestExecutionResult{
		{TestCaseID: "case-0", Passed: true},
		{TestCaseID: "case-1", Passed: true},
	}}
	qd := codingQD(
		map[string]interface{}{"input": "1", "expected_output": "1"},
		map[string]interface{}{"input": "2", "expected_output": "4"},
	)

	res := gradeCodingWith(t, exec, qd, `{"code": "print(int(input())**2)"}`)
	assertScore(t, res, true, 20)
	if exec.gotReq.Language != "python" {
		t.Errorf("Language = %q, want python", exec.gotReq.Language)
	}
	if len(exec.gotReq.TestCases) != 2 {
		t.Errorf("got %d test cases, want 2", len(exec.gotReq.TestCases))
	}
}

func TestGradeCoding_UnweightedFraction(t *testing.T) {
	exec := &fakeExecutor{results: []TestExecutionResult{
		{TestCaseID: "case-0", Passed: true},
		{TestCaseID: "case-1", Passed: false, Error: "wrong answer"},
		{TestCaseID: "case-2", Passed: true},
	}}
	qd := codingQD(
		map[string]interface{}{"input": "a"},
		map[string]interface{}{"input": "b"},
		map[string]interface{}{"input": "c"},
	)

	res := gradeCodingWith(t, exec, qd, `{"code": "pass"}`)
	// 2 of 3 cases at 20 points rounds to 13.
	assertScore(t, res, false, 13)
}

func TestGradeCoding_WeightedCases(t *testing.T) {
	exec := &fakeExecutor{results: []TestExecutionResult{
		{TestCaseID: "easy", Passed: true},
		{TestCaseID: "hard", Passed: false},
	}}
	qd := codingQD(
		map[string]interface{}{"id": "easy", "points": 3.0},
		map[string]interface{}{"id": "hard", "points": 7.0},
	)

	res := gradeCodingWith(t, exec, qd, `{"code": "pass"}`)
	// 3 of 10 weight at 20 points.
	assertScore(t, res, false, 6)
}

func TestGradeCoding_MissingResultIsFailure(t *testing.T) {
	exec := &fakeExecutor{results: []TestExecutionResult{
		{TestCaseID: "case-0", Passed: true},
	}}
	qd := codingQD(
		map[string]interface{}{"input": "a"},
		map[string]interface{}{"input": "b"},
	)

	res := gradeCodingWith(t, exec, qd, `{"code": "pass"}`)
	assertScore(t, res, false, 10)
}

func TestGradeCoding_ExecutorError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("sandbox unreachable")}
	qd := codingQD(map[string]interface{}{"input": "a"})

	res := gradeCodingWith(t, exec, qd, `{"code": "pass"}`)
	assertScore(t, res, false, 0)
	if !strings.Contains(res.Feedback, "Code execution failed") {
		t.Errorf("Feedback = %q, want execution failure reason", res.Feedback)
	}
}

func TestGradeCoding_NoTestCasesRequiresManual(t *testing.T) {
	res := gradeCodingWith(t, &fakeExecutor{}, map[string]interface{}{"language": "go"}, `{"code": "pass"}`)
	assertScore(t, res, false, 0)
	if !res.RequiresManual {
		t.Error("RequiresManual = false, want true")
	}
	if !strings.Contains(res.Feedback, "Manual grading required") {
		t.Errorf("Feedback = %q, want manual grading notice", res.Feedback)
	}
}

func TestGradeCoding_NilExecutorIsConfigError(t *testing.T) {
	e := NewEngine(nil, nil)
	q := &QuestionRecord{
		Type:         Coding,
		Points:       20,
		QuestionData: codingQD(map[string]interface{}{"input": "a"}),
	}
	res, err := e.GradeQuestion(context.Background(), q, json.RawMessage(`{"code": "pass"}`))
	if err != nil {
		t.Fatalf("GradeQuestion returned error: %v", err)
	}
	assertScore(t, res, false, 0)
	if !strings.Contains(res.Feedback, "configuration error") {
		t.Errorf("Feedback = %q, want configuration error", res.Feedback)
	}
}

func TestGradeCoding_CompilationPenalty(t *testing.T) {
	exec := &fakeExecutor{results: []TestExecutionResult{
		{TestCaseID: "case-0", Passed: true},
		{TestCaseID: "case-1", Passed: false, HadCompilationError: true, Error: "compilation error"},
	}}
	qd := codingQD(
		map[string]interface{}{"input": "a"},
		map[string]interface{}{"input": "b"},
	)
	qd["grading_config"] = map[string]interface{}{
		"compilation_penalty": 3.0,
	}

	res := gradeCodingWith(t, exec, qd, `{"code": "pass"}`)
	// 1 of 2 cases is 10 points, minus the compilation penalty.
	assertScore(t, res, false, 7)
	if res.DetailedFeedback == nil || len(res.DetailedFeedback.PenaltiesApplied) != 1 {
		t.Fatalf("expected one penalty entry, got %+v", res.DetailedFeedback)
	}
}

func TestGradeCoding_CaseLimitInheritance(t *testing.T) {
	exec := &fakeExecutor{results: []TestExecutionResult{{TestCaseID: "case-0", Passed: true}}}
	qd := codingQD(map[string]interface{}{"input": "a"})
	qd["time_limit"] = 2
	qd["memory_limit"] = 64

	gradeCodingWith(t, exec, qd, `{"code": "pass"}`)
	if exec.gotReq.TimeLimitSec != 2 || exec.gotReq.MemoryLimitMB != 64 {
		t.Errorf("limits = (%d, %d), want (2, 64)", exec.gotReq.TimeLimitSec, exec.gotReq.MemoryLimitMB)
	}
	if len(exec.gotReq.TestCases) != 1 || exec.gotReq.TestCases[0].TimeLimitSec != 2 {
		t.Errorf("test case limits not inherited: %+v", exec.gotReq.TestCases)
	}
}

package grading

import (
	"context"
	"fmt"
	"math"
)

// TestCase is one coding test case. A zero TimeLimitSec or MemoryLimitMB
// inherits the question-level limit.
type TestCase struct {
	ID             string  `json:"id"`
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expected_output"`
	IsHidden       bool    `json:"is_hidden"`
	Points         float64 `json:"points"`
	TimeLimitSec   int     `json:"time_limit"`
	MemoryLimitMB  int     `json:"memory_limit"`
}

// TestExecutionResult is the sandbox's verdict for one test case. The
// structured error flags replace feedback-string inspection as the signal
// the penalty layer reads.
type TestExecutionResult struct {
	TestCaseID          string `json:"testCaseId"`
	Passed              bool   `json:"passed"`
	Output              string `json:"output"`
	Error               string `json:"error,omitempty"`
	ExecutionTimeMS     int64  `json:"executionTime"`
	MemoryUsedKB        int64  `json:"memoryUsed"`
	HadCompilationError bool   `json:"hadCompilationError"`
	HadTimeout          bool   `json:"hadTimeout"`
	HadMemoryError      bool   `json:"hadMemoryError"`
}

type ExecutionRequest struct {
	Language      string
	Code          string
	TestCases     []TestCase
	TimeLimitSec  int
	MemoryLimitMB int
}

// Executor runs submitted code against test cases in an external sandbox.
// Results may come back in any order; the grader re-associates them by
// TestCaseID.
type Executor interface {
	ExecuteTests(ctx context.Context, req ExecutionRequest) ([]TestExecutionResult, error)
}

func parseTestCases(q *QuestionRecord) []TestCase {
	raw, ok := asSlice(q.QuestionData["test_cases"])
	if !ok {
		return nil
	}
	defaultTime, _ := asInt(q.QuestionData["time_limit"])
	defaultMemory, _ := asInt(q.QuestionData["memory_limit"])

	cases := make([]TestCase, 0, len(raw))
	for i, entry := range raw {
		m, ok := asMap(entry)
		if !ok {
			continue
		}
		tc := TestCase{ID: fmt.Sprintf("case-%d", i)}
		if id, ok := asString(m["id"]); ok && id != "" {
			tc.ID = id
		}
		tc.Input, _ = asString(m["input"])
		tc.ExpectedOutput, _ = asString(m["expected_output"])
		tc.IsHidden, _ = asBool(m["is_hidden"])
		tc.Points, _ = asFloat(m["points"])
		tc.TimeLimitSec, _ = asInt(m["time_limit"])
		tc.MemoryLimitMB, _ = asInt(m["memory_limit"])
		if tc.TimeLimitSec == 0 {
			tc.TimeLimitSec = defaultTime
		}
		if tc.MemoryLimitMB == 0 {
			tc.MemoryLimitMB = defaultMemory
		}
		cases = append(cases, tc)
	}
	return cases
}

// gradeCoding delegates execution to the sandbox and scores by the fraction
// of passed cases (weighted by per-case points when configured). Sandbox
// failures become a zero-point result with the reason in feedback, never a
// propagated panic or hang.
func (e *Engine) gradeCoding(ctx context.Context, q *QuestionRecord, sub NormalizedAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with code"
		return res, gradeMeta{}
	}
	code, ok := asString(m["code"])
	if !ok || code == "" {
		res.Feedback = "Invalid answer format: code must be a non-empty string"
		return res, gradeMeta{}
	}
	language, _ := asString(m["language"])
	if language == "" {
		language, _ = asString(q.QuestionData["language"])
	}

	cases := parseTestCases(q)
	if len(cases) == 0 {
		// Never auto-correct on an empty test suite.
		res.Feedback = "Cannot auto-grade: no test cases configured. " + feedbackManualGrading
		res.RequiresManual = true
		return res, gradeMeta{}
	}
	if e.executor == nil {
		res.Feedback = "Question configuration error: code execution is not available"
		return res, gradeMeta{}
	}

	timeLimit, _ := asInt(q.QuestionData["time_limit"])
	memoryLimit, _ := asInt(q.QuestionData["memory_limit"])
	results, err := e.executor.ExecuteTests(ctx, ExecutionRequest{
		Language:      language,
		Code:          code,
		TestCases:     cases,
		TimeLimitSec:  timeLimit,
		MemoryLimitMB: memoryLimit,
	})
	if err != nil {
		res.Feedback = fmt.Sprintf("Code execution failed: %v", err)
		return res, gradeMeta{}
	}

	byID := make(map[string]TestExecutionResult, len(results))
	for _, r := range results {
		byID[r.TestCaseID] = r
	}

	var meta gradeMeta
	passed := 0
	var earnedWeight, totalWeight float64
	weighted := false
	breakdown := make([]string, 0, len(cases))
	for _, tc := range cases {
		if tc.Points > 0 {
			weighted = true
		}
		totalWeight += tc.Points

		r, ok := byID[tc.ID]
		if !ok {
			// A case the sandbox never reported is a failed case, not a hang.
			breakdown = append(breakdown, fmt.Sprintf("%s: no result from sandbox", tc.ID))
			continue
		}
		meta.hadCompilationError = meta.hadCompilationError || r.HadCompilationError
		meta.hadTimeout = meta.hadTimeout || r.HadTimeout
		meta.hadMemoryError = meta.hadMemoryError || r.HadMemoryError

		if r.Passed {
			passed++
			earnedWeight += tc.Points
			breakdown = append(breakdown, fmt.Sprintf("%s: passed (%dms)", tc.ID, r.ExecutionTimeMS))
		} else if r.Error != "" {
			breakdown = append(breakdown, fmt.Sprintf("%s: failed (%s)", tc.ID, r.Error))
		} else {
			breakdown = append(breakdown, fmt.Sprintf("%s: failed", tc.ID))
		}
	}
	meta.breakdown = breakdown

	fraction := float64(passed) / float64(len(cases))
	if weighted && totalWeight > 0 {
		fraction = earnedWeight / totalWeight
	}
	res.PointsEarned = math.Round(fraction * q.Points)
	res.IsCorrect = passed == len(cases)
	if res.IsCorrect {
		res.Feedback = fmt.Sprintf("All %d test cases passed.", len(cases))
	} else {
		res.Feedback = fmt.Sprintf("%d of %d test cases passed.", passed, len(cases))
	}
	return res, meta
}

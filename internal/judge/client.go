// Package judge is the outbound adapter to the Judge0 code-execution
// sandbox. The grading engine only depends on the grading.Executor contract;
// this package owns the wire format and the limit handling.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"examind_backend/internal/config"
	"examind_backend/internal/grading"
	"examind_backend/pkg/logger"
	"examind_backend/pkg/monitoring"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("judge-client")

// Judge0 verdict ids.
const (
	statusAccepted         = 3
	statusWrongAnswer      = 4
	statusTimeLimitExceed  = 5
	statusCompilationError = 6
)

var languageIDs = map[string]int{
	"c":          50,
	"cpp":        54,
	"c++":        54,
	"java":       62,
	"javascript": 63,
	"go":         60,
	"python":     71,
	"python3":    71,
}

var ErrUnsupportedLanguage = errors.New("unsupported language")

const (
	defaultTimeLimitSec  = 5
	defaultMemoryLimitMB = 128
)

type Client struct {
	cfg  config.Judge0Config
	http *http.Client
}

func NewClient(cfg config.Judge0Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

type submissionRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin"`
	ExpectedOutput string  `json:"expected_output"`
	CPUTimeLimit   float64 `json:"cpu_time_limit"`
	MemoryLimit    int     `json:"memory_limit"` // KB
}

type submissionResponse struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Time          *string `json:"time"`
	Memory        *int64  `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// ExecuteTests runs every test case against the sandbox and returns one
// result per case. A sandbox that stops answering mid-suite yields failed
// results for the remaining cases rather than an error for the whole run.
func (c *Client) ExecuteTests(ctx context.Context, req grading.ExecutionRequest) ([]grading.TestExecutionResult, error) {
	ctx, span := tracer.Start(ctx, "judge.ExecuteTests")
	defer span.End()

	langID, ok := languageIDs[strings.ToLower(strings.TrimSpace(req.Language))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Language)
	}

	results := make([]grading.TestExecutionResult, 0, len(req.TestCases))
	for _, tc := range req.TestCases {
		results = append(results, c.runCase(ctx, langID, req, tc))
	}
	return results, nil
}

func (c *Client) runCase(ctx context.Context, langID int, req grading.ExecutionRequest, tc grading.TestCase) grading.TestExecutionResult {
	out := grading.TestExecutionResult{TestCaseID: tc.ID}

	timeLimit := tc.TimeLimitSec
	if timeLimit <= 0 {
		timeLimit = req.TimeLimitSec
	}
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimitSec
	}
	memoryLimit := tc.MemoryLimitMB
	if memoryLimit <= 0 {
		memoryLimit = req.MemoryLimitMB
	}
	if memoryLimit <= 0 {
		memoryLimit = defaultMemoryLimitMB
	}

	// Sandbox non-response beyond the case limit counts as a failed case,
	// not an indefinite hang.
	caseCtx, cancel := context.WithTimeout(ctx, time.Duration(timeLimit+10)*time.Second)
	defer cancel()

	body, err := json.Marshal(submissionRequest{
		SourceCode:     req.Code,
		LanguageID:     langID,
		Stdin:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		CPUTimeLimit:   float64(timeLimit),
		MemoryLimit:    memoryLimit * 1024,
	})
	if err != nil {
		out.Error = err.Error()
		return out
	}

	url := strings.TrimSuffix(c.cfg.URL, "/") + "/submissions?base64_encoded=false&wait=true"
	httpReq, err := http.NewRequestWithContext(caseCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		out.Error = err.Error()
		return out
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
		httpReq.Header.Set("X-RapidAPI-Host", c.cfg.Host)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || caseCtx.Err() != nil {
			out.HadTimeout = true
			out.Error = "sandbox did not respond within the time limit"
		} else {
			out.Error = err.Error()
		}
		monitoring.SandboxFailures.WithLabelValues(req.Language).Inc()
		logger.Log.Warn("judge submission failed",
			zap.String("testCase", tc.ID), zap.Error(err))
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		out.Error = fmt.Sprintf("sandbox returned HTTP %d", resp.StatusCode)
		return out
	}

	var sr submissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		out.Error = "malformed sandbox response: " + err.Error()
		return out
	}

	if sr.Stdout != nil {
		out.Output = strings.TrimRight(*sr.Stdout, "\n")
	}
	if sr.Time != nil {
		if sec, err := strconv.ParseFloat(*sr.Time, 64); err == nil {
			out.ExecutionTimeMS = int64(sec * 1000)
		}
	}
	if sr.Memory != nil {
		out.MemoryUsedKB = *sr.Memory
		out.HadMemoryError = *sr.Memory >= int64(memoryLimit)*1024
	}

	switch sr.Status.ID {
	case statusAccepted:
		out.Passed = true
	case statusWrongAnswer:
		out.Error = "wrong answer"
	case statusTimeLimitExceed:
		out.HadTimeout = true
		out.Error = "time limit exceeded"
	case statusCompilationError:
		out.HadCompilationError = true
		out.Error = "compilation error"
		if sr.CompileOutput != nil {
			out.Error = "compilation error: " + strings.TrimSpace(*sr.CompileOutput)
		}
	default:
		out.Error = sr.Status.Description
		if sr.Stderr != nil && *sr.Stderr != "" {
			out.Error += ": " + strings.TrimSpace(*sr.Stderr)
		}
	}
	return out
}
